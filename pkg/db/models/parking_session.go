package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codeup/statio-portal/pkg/enums"
)

// ParkingSession tracks an occupied spot from check-in to check-out.
type ParkingSession struct {
	ID            uuid.UUID           `gorm:"type:text;primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:text;not null;index"`
	SpotID        uuid.UUID           `gorm:"column:spot_id;type:text;not null;index"`
	ReservationID *uuid.UUID          `gorm:"column:reservation_id;type:text"`
	Status        enums.SessionStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'"`
	VehicleNumber string              `gorm:"column:vehicle_number"`
	CheckInTime   time.Time           `gorm:"column:check_in_time;not null"`
	CheckOutTime  *time.Time          `gorm:"column:check_out_time"`
	AmountDue     float64             `gorm:"column:amount_due;not null;default:0"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
	Spot *Spot `gorm:"foreignKey:SpotID"`
}
