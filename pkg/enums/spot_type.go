package enums

import "fmt"

// SpotType categorizes a parking spot.
type SpotType string

const (
	SpotTypeRegular    SpotType = "REGULAR"
	SpotTypeVIP        SpotType = "VIP"
	SpotTypeHandicap   SpotType = "HANDICAP"
	SpotTypeEVCharging SpotType = "EV_CHARGING"
)

var validSpotTypes = []SpotType{
	SpotTypeRegular,
	SpotTypeVIP,
	SpotTypeHandicap,
	SpotTypeEVCharging,
}

func (s SpotType) String() string {
	return string(s)
}

func (s SpotType) IsValid() bool {
	for _, candidate := range validSpotTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseSpotType(value string) (SpotType, error) {
	for _, candidate := range validSpotTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid spot type %q", value)
}
