// Package parking implements the simulator's garage inventory, reservations,
// sessions, fee calculation, and dashboards.
package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/internal/sim/audit"
	"github.com/codeup/statio-portal/pkg/db/models"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
)

// DefaultReservationDuration applies when a reservation request carries no
// explicit duration.
const DefaultReservationDuration = 2 * time.Hour

type Service struct {
	db    *gorm.DB
	audit *audit.Recorder
	logg  *logger.Logger
	now   func() time.Time
}

// Params configures a Service.
type Params struct {
	DB     *gorm.DB
	Audit  *audit.Recorder
	Logger *logger.Logger
	Clock  func() time.Time
}

func NewService(p Params) (*Service, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if p.Audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{db: p.DB, audit: p.Audit, logg: p.Logger, now: now}, nil
}

func parseID(id, label string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+label)
	}
	return parsed, nil
}

func (s *Service) findSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).Preload("Floor.Building").Where("id = ?", id).First(&spot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "spot not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find spot")
	}
	return &spot, nil
}

func spotToDTO(spot models.Spot) portal.ParkingSpot {
	dto := portal.ParkingSpot{
		ID:         spot.ID.String(),
		FloorID:    spot.FloorID.String(),
		SpotNumber: spot.SpotNumber,
		Type:       spot.Type,
		Status:     spot.Status,
		HourlyRate: spot.HourlyRate,
	}
	if spot.Floor != nil {
		dto.FloorNumber = spot.Floor.FloorNumber
		if spot.Floor.Building != nil {
			dto.BuildingID = spot.Floor.Building.ID.String()
			dto.BuildingName = spot.Floor.Building.Name
			dto.BuildingAddress = spot.Floor.Building.Address
		}
	}
	return dto
}
