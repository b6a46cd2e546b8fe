package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codeup/statio-portal/pkg/enums"
)

// ActivityLog is the append-only audit trail surfaced on the admin console.
type ActivityLog struct {
	ID        uuid.UUID            `gorm:"type:text;primaryKey"`
	UserID    *uuid.UUID           `gorm:"column:user_id;type:text;index"`
	UserEmail string               `gorm:"column:user_email"`
	Action    enums.ActivityAction `gorm:"column:action;type:text;not null;index"`
	Details   string               `gorm:"column:details"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime;index"`
}
