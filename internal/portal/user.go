package portal

import (
	"context"
	"net/url"

	"github.com/codeup/statio-portal/internal/api"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/enums"
)

// UserService is the driver-facing surface: spots, reservations, parking
// sessions, and bills.
type UserService struct {
	client *api.Client
}

func NewUserService(client *api.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if err := s.client.Get(ctx, "/user/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) AvailableSpots(ctx context.Context, filter SpotFilter) ([]ParkingSpot, error) {
	query := url.Values{}
	if filter.BuildingID != "" {
		query.Set("buildingId", filter.BuildingID)
	}
	if filter.FloorID != "" {
		query.Set("floorId", filter.FloorID)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type.String())
	}

	var out []ParkingSpot
	if err := s.client.Get(ctx, "/spots/available", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) CreateReservation(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reservation input")
	}
	var out Reservation
	if err := s.client.Post(ctx, "/reservations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) MyReservations(ctx context.Context) ([]Reservation, error) {
	var out []Reservation
	if err := s.client.Get(ctx, "/reservations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) CancelReservation(ctx context.Context, reservationID string) error {
	return s.client.Delete(ctx, "/reservations/"+reservationID)
}

func (s *UserService) CheckIn(ctx context.Context, req CheckInRequest) (*ParkingSession, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid check-in input")
	}
	var out ParkingSession
	if err := s.client.Post(ctx, "/parking/check-in", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) ActiveSessions(ctx context.Context) ([]ParkingSession, error) {
	var out []ParkingSession
	if err := s.client.Get(ctx, "/parking/sessions/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) SessionByID(ctx context.Context, sessionID string) (*ParkingSession, error) {
	var out ParkingSession
	if err := s.client.Get(ctx, "/parking/sessions/"+sessionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) MySessions(ctx context.Context) ([]ParkingSession, error) {
	var out []ParkingSession
	if err := s.client.Get(ctx, "/parking/sessions/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) CalculateFee(ctx context.Context, sessionID string) (*FeeCalculation, error) {
	query := url.Values{"sessionId": {sessionID}}
	var out FeeCalculation
	if err := s.client.PostQuery(ctx, "/parking/calculate-fee", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) CheckOut(ctx context.Context, sessionID string, method enums.PaymentMethod) (*Bill, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	query := url.Values{
		"sessionId":     {sessionID},
		"paymentMethod": {method.String()},
	}
	var out Bill
	if err := s.client.PostQuery(ctx, "/parking/check-out", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) MyBills(ctx context.Context) ([]Bill, error) {
	var out []Bill
	if err := s.client.Get(ctx, "/bills/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
