// Package session holds the portal's in-memory authentication state and its
// persisted mirror. The role used for authorization is always re-derived from
// the live token, never from persisted state, so editing the session file
// cannot escalate privilege.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/storage"
	"github.com/codeup/statio-portal/pkg/token"
)

// Profile is the role-stripped user shape that may be persisted.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// User is the in-memory principal: the profile plus the role derived from the
// token at load time. The role field never round-trips through storage.
type User struct {
	Profile
	Role enums.Role `json:"-"`
}

// State is a point-in-time snapshot for render/guard decisions.
type State struct {
	Token           string
	User            *User
	IsAuthenticated bool
	IsLoading       bool
}

// Params configures a Store.
type Params struct {
	Storage storage.Store
	Logger  *logger.Logger
	// Clock defaults to time.Now; tests inject their own.
	Clock func() time.Time
}

// Store owns the tab-scoped session. All methods are safe for concurrent use
// by the guard's revalidation tick and in-flight request handling.
type Store struct {
	storage storage.Store
	logg    *logger.Logger
	now     func() time.Time

	mu            sync.RWMutex
	token         string
	user          *User
	authenticated bool
	loading       bool
}

func NewStore(p Params) *Store {
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Store{
		storage: p.Storage,
		logg:    p.Logger,
		now:     now,
		loading: true,
	}
}

// SetAuth validates and installs a freshly issued token plus profile. Invalid
// or role-less tokens are rejected without touching current state.
func (s *Store) SetAuth(ctx context.Context, raw string, profile Profile) error {
	now := s.now()
	if !token.IsValidAt(raw, now) {
		s.logg.Warn(ctx, "rejected attempt to set invalid token")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "token is invalid or expired")
	}
	role := token.Role(raw)
	if role == "" {
		s.logg.Warn(ctx, "rejected token without role claim")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries no role")
	}

	s.persist(ctx, raw, profile)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = raw
	s.user = &User{Profile: profile, Role: role}
	s.authenticated = true
	s.loading = false
	return nil
}

// InitAuth restores the session from persisted state at startup. Anything
// short of a live, role-bearing token clears both layers.
func (s *Store) InitAuth(ctx context.Context) {
	raw, err := s.storage.Get(storage.KeyToken)
	if err != nil {
		s.logg.Warn(ctx, "reading persisted token failed")
	}
	if raw == "" || !token.IsValidAt(raw, s.now()) {
		s.Logout(ctx)
		return
	}

	// Role comes from the live token only; no role field is ever persisted.
	role := token.Role(raw)
	if role == "" {
		s.Logout(ctx)
		return
	}

	profile := s.loadProfile(ctx, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = raw
	s.user = &User{Profile: profile, Role: role}
	s.authenticated = true
	s.loading = false
}

// ValidateAuth re-checks the current token and tears the session down when it
// no longer holds.
func (s *Store) ValidateAuth(ctx context.Context) bool {
	s.mu.RLock()
	raw := s.token
	s.mu.RUnlock()

	if raw == "" || !token.IsValidAt(raw, s.now()) {
		s.Logout(ctx)
		return false
	}
	return true
}

// UserRole is the only sanctioned source of role for authorization
// decisions. It re-derives from the live token on every call and returns
// empty when the token is missing or no longer valid.
func (s *Store) UserRole() enums.Role {
	s.mu.RLock()
	raw := s.token
	s.mu.RUnlock()

	if raw == "" || !token.IsValidAt(raw, s.now()) {
		return ""
	}
	return token.Role(raw)
}

// Logout clears persisted and in-memory state. Safe to call repeatedly and
// from any goroutine; every caller converges on the same logged-out shape.
func (s *Store) Logout(ctx context.Context) {
	if err := s.storage.Delete(storage.KeyToken, storage.KeyUser); err != nil {
		s.logg.Warn(ctx, "clearing persisted session failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.authenticated = false
	s.loading = false
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var user *User
	if s.user != nil {
		copied := *s.user
		user = &copied
	}
	return State{
		Token:           s.token,
		User:            user,
		IsAuthenticated: s.authenticated,
		IsLoading:       s.loading,
	}
}

// Token returns the current raw token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// persist writes the token and role-stripped profile. Storage failures are
// logged and swallowed; the in-memory session stays authoritative for this
// run.
func (s *Store) persist(ctx context.Context, raw string, profile Profile) {
	if err := s.storage.Set(storage.KeyToken, raw); err != nil {
		s.logg.Warn(ctx, "persisting token failed; session will not survive restart")
		return
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		s.logg.Warn(ctx, "encoding profile failed")
		return
	}
	if err := s.storage.Set(storage.KeyUser, string(encoded)); err != nil {
		s.logg.Warn(ctx, "persisting profile failed")
	}
}

// loadProfile merges the persisted non-role profile fields, falling back to
// token claims when nothing usable was stored. Unknown fields in the stored
// JSON (an injected "role", for instance) are dropped by the typed decode.
func (s *Store) loadProfile(ctx context.Context, raw string) Profile {
	stored, err := s.storage.Get(storage.KeyUser)
	if err != nil {
		s.logg.Warn(ctx, "reading persisted profile failed")
	}

	var profile Profile
	if stored != "" {
		if err := json.Unmarshal([]byte(stored), &profile); err != nil {
			s.logg.Warn(ctx, "persisted profile is corrupt; rebuilding from token")
			profile = Profile{}
		}
	}
	if profile.ID == "" {
		profile.ID = token.Subject(raw)
	}
	if profile.Email == "" {
		if payload := token.Decode(raw); payload != nil {
			profile.Email = payload.Email
		}
	}
	return profile
}
