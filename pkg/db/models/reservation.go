package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codeup/statio-portal/pkg/enums"
)

// Reservation holds a spot for a user ahead of check-in.
type Reservation struct {
	ID            uuid.UUID               `gorm:"type:text;primaryKey"`
	UserID        uuid.UUID               `gorm:"column:user_id;type:text;not null;index"`
	SpotID        uuid.UUID               `gorm:"column:spot_id;type:text;not null;index"`
	Status        enums.ReservationStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	VehicleNumber string                  `gorm:"column:vehicle_number"`
	StartTime     time.Time               `gorm:"column:start_time;not null"`
	EndTime       time.Time               `gorm:"column:end_time;not null"`
	CancelledAt   *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
	Spot *Spot `gorm:"foreignKey:SpotID"`
}
