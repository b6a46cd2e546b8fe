package enums

import "fmt"

// SpotStatus tracks a parking spot's occupancy state.
type SpotStatus string

const (
	SpotStatusAvailable   SpotStatus = "AVAILABLE"
	SpotStatusOccupied    SpotStatus = "OCCUPIED"
	SpotStatusReserved    SpotStatus = "RESERVED"
	SpotStatusMaintenance SpotStatus = "MAINTENANCE"
)

var validSpotStatuses = []SpotStatus{
	SpotStatusAvailable,
	SpotStatusOccupied,
	SpotStatusReserved,
	SpotStatusMaintenance,
}

func (s SpotStatus) String() string {
	return string(s)
}

func (s SpotStatus) IsValid() bool {
	for _, candidate := range validSpotStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseSpotStatus(value string) (SpotStatus, error) {
	for _, candidate := range validSpotStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid spot status %q", value)
}
