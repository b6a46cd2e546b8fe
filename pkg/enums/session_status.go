package enums

import "fmt"

// SessionStatus tracks a check-in/checkout parking session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

var validSessionStatuses = []SessionStatus{
	SessionStatusActive,
	SessionStatusCompleted,
}

func (s SessionStatus) String() string {
	return string(s)
}

func (s SessionStatus) IsValid() bool {
	for _, candidate := range validSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseSessionStatus(value string) (SessionStatus, error) {
	for _, candidate := range validSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session status %q", value)
}
