package enums

import "fmt"

// ReservationStatus tracks a reservation through its lifecycle.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusActive,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
}

func (r ReservationStatus) String() string {
	return string(r)
}

func (r ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reservation can no longer change state.
func (r ReservationStatus) IsTerminal() bool {
	return r == ReservationStatusCompleted || r == ReservationStatusCancelled
}

func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
