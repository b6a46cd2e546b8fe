// Package token extracts claims from the parking API's access tokens without
// verifying their signature. The portal never establishes trust from a token;
// the server and the transport do that. Everything here therefore fails
// closed: any string that does not decode cleanly is treated as invalid.
package token

import (
	"strings"
	"time"

	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpirySoonThreshold is the window used by IsExpiringSoon when the
// caller does not supply one.
const DefaultExpirySoonThreshold = 5 * time.Minute

// Payload is the decoded (unverified) token payload. Every claim is optional
// at decode time; callers must go through the validity helpers rather than
// assume presence.
type Payload struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var unverifiedParser = jwt.NewParser()

// Decode returns the token's payload, or nil when the token is not three
// non-empty dot-separated segments or the payload segment is not valid
// base64url JSON. It never panics and performs no signature verification.
func Decode(raw string) *Payload {
	if !IsStructurallyValid(raw) {
		return nil
	}
	payload := &Payload{}
	if _, _, err := unverifiedParser.ParseUnverified(raw, payload); err != nil {
		return nil
	}
	return payload
}

// IsStructurallyValid reports whether the string splits into exactly three
// non-empty segments. It says nothing about expiry or payload contents.
func IsStructurallyValid(raw string) bool {
	if raw == "" {
		return false
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}

// IsExpiredAt treats an undecodable payload or a missing exp claim as
// expired.
func IsExpiredAt(raw string, now time.Time) bool {
	payload := Decode(raw)
	if payload == nil || payload.ExpiresAt == nil {
		return true
	}
	return payload.ExpiresAt.Unix() < now.Unix()
}

func IsExpired(raw string) bool {
	return IsExpiredAt(raw, time.Now())
}

// IsValidAt reports whether the token is structurally valid and not expired
// at the given instant.
func IsValidAt(raw string, now time.Time) bool {
	return IsStructurallyValid(raw) && !IsExpiredAt(raw, now)
}

func IsValid(raw string) bool {
	return IsValidAt(raw, time.Now())
}

// TimeUntilExpiryAt returns the remaining lifetime, or zero when the token is
// undecodable, has no exp, or is already expired.
func TimeUntilExpiryAt(raw string, now time.Time) time.Duration {
	payload := Decode(raw)
	if payload == nil || payload.ExpiresAt == nil {
		return 0
	}
	remaining := time.Duration(payload.ExpiresAt.Unix()-now.Unix()) * time.Second
	if remaining < 0 {
		return 0
	}
	return remaining
}

func TimeUntilExpiry(raw string) time.Duration {
	return TimeUntilExpiryAt(raw, time.Now())
}

// IsExpiringSoonAt reports whether the token is still live but inside the
// threshold window. An already-expired token is not "expiring soon".
func IsExpiringSoonAt(raw string, now time.Time, threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultExpirySoonThreshold
	}
	remaining := TimeUntilExpiryAt(raw, now)
	return remaining > 0 && remaining < threshold
}

func IsExpiringSoon(raw string, threshold time.Duration) bool {
	return IsExpiringSoonAt(raw, time.Now(), threshold)
}

// Role returns the role claim, or empty when the token does not decode or
// carries none.
func Role(raw string) enums.Role {
	payload := Decode(raw)
	if payload == nil {
		return ""
	}
	return enums.Role(payload.Role)
}

// Subject returns the sub claim, or empty when the token does not decode.
func Subject(raw string) string {
	payload := Decode(raw)
	if payload == nil {
		return ""
	}
	return payload.Subject
}
