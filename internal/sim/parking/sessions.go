package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
)

// CheckIn starts a session on the spot. An active reservation held by the
// same user on that spot is consumed; otherwise the spot must be available.
func (s *Service) CheckIn(ctx context.Context, userID string, req portal.CheckInRequest) (*portal.ParkingSession, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	spotID, err := parseID(req.SpotID, "spot id")
	if err != nil {
		return nil, err
	}

	var row models.ParkingSession
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		err := tx.Where("id = ?", spotID).First(&spot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "spot not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find spot")
		}

		var reservationID *uuid.UUID
		switch spot.Status {
		case enums.SpotStatusAvailable:
			// direct check-in
		case enums.SpotStatusReserved:
			var reservation models.Reservation
			err := tx.Where("spot_id = ? AND user_id = ? AND status = ?", spotID, uid, enums.ReservationStatusActive).
				First(&reservation).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "spot is reserved by another user")
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find reservation")
			}
			if err := tx.Model(&reservation).Update("status", enums.ReservationStatusCompleted).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete reservation")
			}
			reservationID = &reservation.ID
		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "spot is not available")
		}

		row = models.ParkingSession{
			ID:            uuid.New(),
			UserID:        uid,
			SpotID:        spotID,
			ReservationID: reservationID,
			Status:        enums.SessionStatusActive,
			VehicleNumber: req.VehicleNumber,
			CheckInTime:   s.now(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
		}

		if err := tx.Model(&spot).Update("status", enums.SpotStatusOccupied).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "occupy spot")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &uid, "", enums.ActivitySessionStarted, "check-in at spot "+req.SpotID)
	return s.SessionByID(ctx, userID, row.ID.String())
}

// ActiveSessions lists the user's open sessions.
func (s *Service) ActiveSessions(ctx context.Context, userID string) ([]portal.ParkingSession, error) {
	return s.listSessions(ctx, userID, true)
}

// Sessions lists the user's full session history.
func (s *Service) Sessions(ctx context.Context, userID string) ([]portal.ParkingSession, error) {
	return s.listSessions(ctx, userID, false)
}

func (s *Service) listSessions(ctx context.Context, userID string, activeOnly bool) ([]portal.ParkingSession, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("Spot.Floor.Building").
		Where("user_id = ?", uid)
	if activeOnly {
		query = query.Where("status = ?", enums.SessionStatusActive)
	}

	var rows []models.ParkingSession
	if err := query.Order("check_in_time DESC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}

	items := make([]portal.ParkingSession, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.sessionToDTO(ctx, row))
	}
	return items, nil
}

// SessionByID returns one of the user's sessions.
func (s *Service) SessionByID(ctx context.Context, userID, sessionID string) (*portal.ParkingSession, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	row, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if row.UserID != uid {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "session belongs to another user")
	}

	dto := s.sessionToDTO(ctx, *row)
	return &dto, nil
}

// CalculateFee quotes the amount due if the user checked out now. Billing is
// per started hour with a one hour minimum.
func (s *Service) CalculateFee(ctx context.Context, userID, sessionID string) (*portal.FeeCalculation, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	row, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if row.UserID != uid {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "session belongs to another user")
	}
	if row.Status != enums.SessionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "session already closed")
	}

	checkOut := s.now()
	minutes, hours, amount := computeFee(row.CheckInTime, checkOut, row.Spot.HourlyRate)

	return &portal.FeeCalculation{
		SessionID:              row.ID.String(),
		SpotNumber:             row.Spot.SpotNumber,
		CheckInTime:            row.CheckInTime,
		CalculatedCheckOutTime: checkOut,
		DurationMinutes:        minutes,
		HourlyRate:             row.Spot.HourlyRate,
		AmountDue:              amount,
		SpotType:               string(row.Spot.Type),
		Message:                fmt.Sprintf("billed for %d hour(s)", hours),
	}, nil
}

// CheckOut closes the session, frees the spot, and settles the fee. The
// payment always succeeds; this is a simulator, not a payment gateway.
func (s *Service) CheckOut(ctx context.Context, userID, sessionID string, method enums.PaymentMethod) (*portal.Bill, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var bill *portal.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.ParkingSession
		err := tx.Preload("Spot").Where("id = ?", sessionID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find session")
		}
		if row.UserID != uid {
			return pkgerrors.New(pkgerrors.CodeForbidden, "session belongs to another user")
		}
		if row.Status != enums.SessionStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "session already closed")
		}

		checkOut := s.now()
		minutes, _, amount := computeFee(row.CheckInTime, checkOut, row.Spot.HourlyRate)

		if err := tx.Model(&row).Updates(map[string]any{
			"status":         enums.SessionStatusCompleted,
			"check_out_time": checkOut,
			"amount_due":     amount,
		}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close session")
		}

		if err := tx.Model(&models.Spot{}).Where("id = ?", row.SpotID).
			Update("status", enums.SpotStatusAvailable).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release spot")
		}

		paidAt := checkOut
		payment := models.Payment{
			ID:            uuid.New(),
			SessionID:     row.ID,
			UserID:        uid,
			Amount:        amount,
			Method:        method,
			Status:        enums.PaymentStatusCompleted,
			TransactionID: "TXN-" + uuid.NewString()[:8],
			PaidAt:        &paidAt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}

		bill = &portal.Bill{
			SessionID:       row.ID.String(),
			SpotID:          row.SpotID.String(),
			SpotNumber:      row.Spot.SpotNumber,
			CheckInTime:     row.CheckInTime,
			CheckOutTime:    checkOut,
			DurationMinutes: minutes,
			AmountDue:       amount,
			PaymentID:       payment.ID.String(),
			PaymentStatus:   string(payment.Status),
			TransactionID:   payment.TransactionID,
			PaymentMethod:   string(payment.Method),
			PaidAt:          paidAt,
			Message:         "payment processed",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &uid, "", enums.ActivityCheckOut, "session "+sessionID)
	s.audit.Record(ctx, &uid, "", enums.ActivityPaymentProcessed, fmt.Sprintf("%.2f via %s", bill.AmountDue, method))
	return bill, nil
}

// Bills lists the user's settled payments, newest first.
func (s *Service) Bills(ctx context.Context, userID string) ([]portal.Bill, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err := s.db.WithContext(ctx).
		Preload("Session.Spot").
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}

	bills := make([]portal.Bill, 0, len(payments))
	for _, payment := range payments {
		bill := portal.Bill{
			SessionID:     payment.SessionID.String(),
			AmountDue:     payment.Amount,
			PaymentID:     payment.ID.String(),
			PaymentStatus: string(payment.Status),
			TransactionID: payment.TransactionID,
			PaymentMethod: string(payment.Method),
		}
		if payment.PaidAt != nil {
			bill.PaidAt = *payment.PaidAt
		}
		if payment.Session != nil {
			bill.CheckInTime = payment.Session.CheckInTime
			if payment.Session.CheckOutTime != nil {
				bill.CheckOutTime = *payment.Session.CheckOutTime
				bill.DurationMinutes = int(payment.Session.CheckOutTime.Sub(payment.Session.CheckInTime).Minutes())
			}
			bill.SpotID = payment.Session.SpotID.String()
			if payment.Session.Spot != nil {
				bill.SpotNumber = payment.Session.Spot.SpotNumber
			}
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

func (s *Service) findSession(ctx context.Context, id string) (*models.ParkingSession, error) {
	parsed, err := parseID(id, "session id")
	if err != nil {
		return nil, err
	}

	var row models.ParkingSession
	err = s.db.WithContext(ctx).Preload("Spot.Floor.Building").Where("id = ?", parsed).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find session")
	}
	return &row, nil
}

func (s *Service) sessionToDTO(ctx context.Context, row models.ParkingSession) portal.ParkingSession {
	dto := portal.ParkingSession{
		ID:            row.ID.String(),
		UserID:        row.UserID.String(),
		SpotID:        row.SpotID.String(),
		VehicleNumber: row.VehicleNumber,
		CheckInTime:   row.CheckInTime,
		CheckOutTime:  row.CheckOutTime,
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
	if row.CheckOutTime != nil {
		dto.Duration = int(row.CheckOutTime.Sub(row.CheckInTime).Minutes())
		dto.Fee = row.AmountDue

		var payment models.Payment
		if err := s.db.WithContext(ctx).Where("session_id = ?", row.ID).First(&payment).Error; err == nil {
			dto.TransactionID = payment.TransactionID
			dto.PaymentMethod = string(payment.Method)
		}
	}
	return dto
}

// computeFee bills per started hour with a one hour minimum.
func computeFee(checkIn, checkOut time.Time, hourlyRate float64) (minutes, hours int, amount float64) {
	elapsed := checkOut.Sub(checkIn)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes = int(elapsed.Minutes())

	hours = minutes / 60
	if minutes%60 > 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}

	amount = float64(hours) * hourlyRate
	return minutes, hours, amount
}
