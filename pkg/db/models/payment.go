package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codeup/statio-portal/pkg/enums"
)

// Payment records the settlement of a parking session.
type Payment struct {
	ID            uuid.UUID           `gorm:"type:text;primaryKey"`
	SessionID     uuid.UUID           `gorm:"column:session_id;type:text;not null;uniqueIndex"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:text;not null;index"`
	Amount        float64             `gorm:"column:amount;not null"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TransactionID string              `gorm:"column:transaction_id;not null"`
	PaidAt        *time.Time          `gorm:"column:paid_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Session *ParkingSession `gorm:"foreignKey:SessionID"`
}
