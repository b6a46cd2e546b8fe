package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codeup/statio-portal/pkg/enums"
)

// Spot is a single parking space. Status transitions are owned by the
// reservation and session flows.
type Spot struct {
	ID         uuid.UUID        `gorm:"type:text;primaryKey"`
	FloorID    uuid.UUID        `gorm:"column:floor_id;type:text;not null;index"`
	SpotNumber string           `gorm:"column:spot_number;not null"`
	Type       enums.SpotType   `gorm:"column:type;type:text;not null"`
	Status     enums.SpotStatus `gorm:"column:status;type:text;not null;default:'AVAILABLE'"`
	HourlyRate float64          `gorm:"column:hourly_rate;not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Floor *Floor `gorm:"foreignKey:FloorID"`
}
