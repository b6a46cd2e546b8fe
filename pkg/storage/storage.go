// Package storage persists the session mirror between portal runs. It is a
// plain key-value surface so the session layer stays in charge of what is
// written; notably, the user's role is never stored here.
package storage

// Keys used by the session layer.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the persisted session mirror. Get returns an empty string for a
// missing key. Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}
