package parking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
)

// CreateReservation holds a spot for the user. The spot flips to RESERVED so
// other drivers stop seeing it as available.
func (s *Service) CreateReservation(ctx context.Context, userID string, req portal.ReservationRequest) (*portal.Reservation, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	spotID, err := parseID(req.SpotID, "spot id")
	if err != nil {
		return nil, err
	}

	duration := DefaultReservationDuration
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}

	start := req.StartTime
	if start.IsZero() {
		start = s.now()
	}

	var row models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		err := tx.Where("id = ?", spotID).First(&spot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "spot not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find spot")
		}
		if spot.Status != enums.SpotStatusAvailable {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "spot is not available")
		}

		row = models.Reservation{
			ID:            uuid.New(),
			UserID:        uid,
			SpotID:        spotID,
			Status:        enums.ReservationStatusActive,
			VehicleNumber: req.VehicleNumber,
			StartTime:     start,
			EndTime:       start.Add(duration),
		}
		if err := tx.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
		}

		if err := tx.Model(&spot).Update("status", enums.SpotStatusReserved).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve spot")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &uid, "", enums.ActivityReservationCreated, "reservation for spot "+req.SpotID)
	return s.reservationByID(ctx, row.ID)
}

// Reservations lists the user's reservations, newest first.
func (s *Service) Reservations(ctx context.Context, userID string) ([]portal.Reservation, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}

	var rows []models.Reservation
	if err := s.db.WithContext(ctx).
		Preload("Spot.Floor.Building").
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}

	items := make([]portal.Reservation, 0, len(rows))
	for _, row := range rows {
		items = append(items, reservationToDTO(row))
	}
	return items, nil
}

// CancelReservation releases the hold. Users can only cancel their own
// reservations, and only while they are still active.
func (s *Service) CancelReservation(ctx context.Context, userID, reservationID string) error {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	rid, err := parseID(reservationID, "reservation id")
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Reservation
		err := tx.Where("id = ?", rid).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find reservation")
		}
		if row.UserID != uid {
			return pkgerrors.New(pkgerrors.CodeForbidden, "reservation belongs to another user")
		}
		if row.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already closed")
		}

		cancelledAt := s.now()
		if err := tx.Model(&row).Updates(map[string]any{
			"status":       enums.ReservationStatusCancelled,
			"cancelled_at": cancelledAt,
		}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel reservation")
		}

		// Release the spot only if nothing else claimed it meanwhile.
		if err := tx.Model(&models.Spot{}).
			Where("id = ? AND status = ?", row.SpotID, enums.SpotStatusReserved).
			Update("status", enums.SpotStatusAvailable).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release spot")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, &uid, "", enums.ActivityReservationCancelled, "reservation "+reservationID)
	return nil
}

func (s *Service) reservationByID(ctx context.Context, id uuid.UUID) (*portal.Reservation, error) {
	var row models.Reservation
	err := s.db.WithContext(ctx).Preload("Spot.Floor.Building").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find reservation")
	}
	dto := reservationToDTO(row)
	return &dto, nil
}

func reservationToDTO(row models.Reservation) portal.Reservation {
	dto := portal.Reservation{
		ID:            row.ID.String(),
		UserID:        row.UserID.String(),
		SpotID:        row.SpotID.String(),
		VehicleNumber: row.VehicleNumber,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
	}
	if row.Spot != nil {
		dto.SpotNumber = row.Spot.SpotNumber
		if row.Spot.Floor != nil {
			dto.FloorNumber = row.Spot.Floor.FloorNumber
			if row.Spot.Floor.Building != nil {
				dto.BuildingName = row.Spot.Floor.Building.Name
			}
		}
	}
	return dto
}
