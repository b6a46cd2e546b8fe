package enums

import "fmt"

// Role is the account-level authorization role carried in the token payload.
// The client only ever reads it; the server assigns it at issuance time.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

var validRoles = []Role{
	RoleAdmin,
	RoleUser,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// HomePath returns the role's default landing page. A principal with the
// wrong role for a guarded view is sent here rather than to login.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/user/dashboard"
}
