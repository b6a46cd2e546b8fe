package models

import (
	"time"

	"github.com/google/uuid"
)

// Floor is a level within a building.
type Floor struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	BuildingID  uuid.UUID `gorm:"column:building_id;type:text;not null;index"`
	FloorNumber int       `gorm:"column:floor_number;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Building *Building `gorm:"foreignKey:BuildingID"`
	Spots    []Spot    `gorm:"foreignKey:FloorID"`
}
