package models

import (
	"time"

	"github.com/google/uuid"
)

// Building groups floors under one physical site.
type Building struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Address   string    `gorm:"column:address;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Floors []Floor `gorm:"foreignKey:BuildingID"`
}
