// Package tokentest mints signed tokens for tests. The portal never verifies
// signatures, but fixtures are signed anyway so they are indistinguishable
// from server-issued ones.
package tokentest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Secret signs every fixture token.
const Secret = "tokentest-secret"

// Claims describes what to embed. Zero values omit the claim entirely,
// which is how fail-closed paths get exercised.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Mint returns a signed HS256 token carrying c.
func Mint(tb testing.TB, c Claims) string {
	tb.Helper()

	claims := jwt.MapClaims{}
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}
	if c.Email != "" {
		claims["email"] = c.Email
	}
	if c.Role != "" {
		claims["role"] = c.Role
	}
	if !c.ExpiresAt.IsZero() {
		claims["exp"] = c.ExpiresAt.Unix()
	}
	if !c.IssuedAt.IsZero() {
		claims["iat"] = c.IssuedAt.Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	if err != nil {
		tb.Fatalf("minting fixture token: %v", err)
	}
	return signed
}
