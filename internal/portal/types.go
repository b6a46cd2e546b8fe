// Package portal exposes typed client services for the parking API: auth,
// the driver-facing surface, and the admin surface. Each service is a thin
// layer over the shared HTTP client; authorization handling lives below in
// the client and session layers.
package portal

import (
	"time"

	"github.com/codeup/statio-portal/pkg/enums"
)

// User is the account shape returned by the API.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      enums.Role `json:"role,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is the login/register payload: a token plus the account.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Building struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	TotalFloors    int       `json:"totalFloors"`
	TotalSpots     int       `json:"totalSpots"`
	OccupiedSpots  int       `json:"occupiedSpots,omitempty"`
	AvailableSpots int       `json:"availableSpots,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type BuildingRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type Floor struct {
	ID             string `json:"id"`
	FloorNumber    int    `json:"floorNumber"`
	BuildingID     string `json:"buildingId"`
	BuildingName   string `json:"buildingName"`
	TotalSpots     int    `json:"totalSpots"`
	OccupiedSpots  int    `json:"occupiedSpots,omitempty"`
	AvailableSpots int    `json:"availableSpots,omitempty"`
}

type FloorRequest struct {
	BuildingID  string `json:"buildingId" validate:"required"`
	FloorNumber int    `json:"floorNumber" validate:"min=0"`
}

type ParkingSpot struct {
	ID              string           `json:"id"`
	SpotNumber      string           `json:"spotNumber"`
	Type            enums.SpotType   `json:"type"`
	Status          enums.SpotStatus `json:"status"`
	FloorID         string           `json:"floorId"`
	FloorNumber     int              `json:"floorNumber"`
	BuildingID      string           `json:"buildingId"`
	BuildingName    string           `json:"buildingName"`
	BuildingAddress string           `json:"buildingAddress"`
	HourlyRate      float64          `json:"hourlyRate"`
}

type SpotRequest struct {
	FloorID    string         `json:"floorId" validate:"required"`
	SpotNumber string         `json:"spotNumber" validate:"required"`
	Type       enums.SpotType `json:"type" validate:"required"`
	HourlyRate float64        `json:"hourlyRate" validate:"gt=0"`
}

// SpotFilter narrows the available-spots listing.
type SpotFilter struct {
	BuildingID string
	FloorID    string
	Type       enums.SpotType
}

type ReservationRequest struct {
	SpotID          string    `json:"spotId" validate:"required"`
	StartTime       time.Time `json:"startTime,omitempty"`
	VehicleNumber   string    `json:"vehicleNumber,omitempty"`
	DurationMinutes int       `json:"durationMinutes,omitempty" validate:"omitempty,gt=0"`
}

type Reservation struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"userId"`
	SpotID        string                  `json:"spotId"`
	SpotNumber    string                  `json:"spotNumber"`
	BuildingName  string                  `json:"buildingName"`
	FloorNumber   int                     `json:"floorNumber"`
	VehicleNumber string                  `json:"vehicleNumber,omitempty"`
	StartTime     time.Time               `json:"startTime"`
	EndTime       time.Time               `json:"endTime"`
	Status        enums.ReservationStatus `json:"status"`
	CreatedAt     time.Time               `json:"createdAt"`
}

type CheckInRequest struct {
	SpotID        string `json:"spotId" validate:"required"`
	VehicleNumber string `json:"vehicleNumber" validate:"required"`
}

type ParkingSession struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	SpotID        string              `json:"spotId"`
	SpotNumber    string              `json:"spotNumber"`
	BuildingName  string              `json:"buildingName"`
	FloorNumber   int                 `json:"floorNumber"`
	VehicleNumber string              `json:"vehicleNumber,omitempty"`
	CheckInTime   time.Time           `json:"checkInTime"`
	CheckOutTime  *time.Time          `json:"checkOutTime,omitempty"`
	Duration      int                 `json:"duration,omitempty"`
	Fee           float64             `json:"fee,omitempty"`
	TransactionID string              `json:"transactionId,omitempty"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	Status        enums.SessionStatus `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
}

type FeeCalculation struct {
	SessionID               string    `json:"sessionId"`
	SpotNumber              string    `json:"spotNumber"`
	CheckInTime             time.Time `json:"checkInTime"`
	CalculatedCheckOutTime  time.Time `json:"calculatedCheckOutTime"`
	DurationMinutes         int       `json:"durationMinutes"`
	HourlyRate              float64   `json:"hourlyRate"`
	AmountDue               float64   `json:"amountDue"`
	SpotType                string    `json:"spotType"`
	Message                 string    `json:"message"`
}

type Bill struct {
	SessionID       string    `json:"sessionId"`
	SpotID          string    `json:"spotId"`
	SpotNumber      string    `json:"spotNumber"`
	CheckInTime     time.Time `json:"checkInTime"`
	CheckOutTime    time.Time `json:"checkOutTime"`
	DurationMinutes int       `json:"durationMinutes"`
	AmountDue       float64   `json:"amountDue"`
	PaymentID       string    `json:"paymentId"`
	PaymentStatus   string    `json:"paymentStatus"`
	TransactionID   string    `json:"transactionId"`
	PaymentMethod   string    `json:"paymentMethod"`
	PaidAt          time.Time `json:"paidAt"`
	Message         string    `json:"message"`
}

type ActivityRecord struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Dashboard is the driver-facing dashboard payload.
type Dashboard struct {
	TotalSpots          int     `json:"totalSpots"`
	OccupiedSpots       int     `json:"occupiedSpots"`
	AvailableSpots      int     `json:"availableSpots"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`

	ActiveReservations     int `json:"activeReservations"`
	ActiveSessions         int `json:"activeSessions"`
	TotalReservations      int `json:"totalReservations"`
	TotalCompletedSessions int `json:"totalCompletedSessions"`

	TotalEarnings     float64 `json:"totalEarnings"`
	OutstandingFees   float64 `json:"outstandingFees"`
	AverageSessionFee float64 `json:"averageSessionFee"`

	RecentActivity []ActivityRecord `json:"recentActivity"`
}

type BuildingStats struct {
	BuildingID          string  `json:"buildingId"`
	BuildingName        string  `json:"buildingName"`
	TotalSpots          int     `json:"totalSpots"`
	OccupiedSpots       int     `json:"occupiedSpots"`
	AvailableSpots      int     `json:"availableSpots"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
	TotalFloors         int     `json:"totalFloors"`
}

// AdminDashboard is the operator-facing dashboard payload.
type AdminDashboard struct {
	TotalSpots        int           `json:"totalSpots"`
	OccupiedSpots     int           `json:"occupiedSpots"`
	AvailableSpots    int           `json:"availableSpots"`
	TotalRevenue      float64       `json:"totalRevenue"`
	TotalUsers        int           `json:"totalUsers"`
	TotalAdmins       int           `json:"totalAdmins"`
	ActiveUsers       int           `json:"activeUsers"`
	ActiveSessions    int           `json:"activeSessions"`
	TotalReservations int           `json:"totalReservations"`
	TotalPayments     int           `json:"totalPayments"`
	RecentActivity    []ActivityLog `json:"recentActivity"`
	BuildingStats     []BuildingStats `json:"buildingStats"`
}

type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

// LogFilter narrows the activity log listing.
type LogFilter struct {
	Action string
	UserID string
}

type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	FullName string `json:"fullName,omitempty" validate:"omitempty,min=2"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}
