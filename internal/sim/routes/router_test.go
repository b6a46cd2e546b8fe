package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/internal/sim/accounts"
	"github.com/codeup/statio-portal/internal/sim/audit"
	"github.com/codeup/statio-portal/internal/sim/parking"
	"github.com/codeup/statio-portal/internal/sim/routes"
	"github.com/codeup/statio-portal/internal/sim/seed"
	"github.com/codeup/statio-portal/pkg/config"
	"github.com/codeup/statio-portal/pkg/db"
	"github.com/codeup/statio-portal/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		Sim: config.SimConfig{
			Port:   "0",
			DBPath: filepath.Join(t.TempDir(), "sim.db"),
		},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "statio-sim",
			ExpirationMinutes: 60,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig(t)
	logg := logger.New(logger.Options{ServiceName: "sim-test", Output: io.Discard})

	dbClient, err := db.New(context.Background(), cfg.Sim, logg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbClient.Close() })

	if err := seed.Migrate(dbClient.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := seed.Demo(context.Background(), dbClient.DB(), cfg.Password, logg); err != nil {
		t.Fatalf("seed: %v", err)
	}

	recorder := audit.NewRecorder(dbClient.DB(), logg)

	accountsService, err := accounts.NewService(accounts.Params{
		DB:       dbClient.DB(),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Audit:    recorder,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("accounts service: %v", err)
	}

	parkingService, err := parking.NewService(parking.Params{
		DB:     dbClient.DB(),
		Audit:  recorder,
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("parking service: %v", err)
	}

	server := httptest.NewServer(routes.NewRouter(cfg, logg, dbClient, accountsService, parkingService, recorder))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func login(t *testing.T, base, email, password string) portal.AuthResponse {
	t.Helper()

	var resp portal.AuthResponse
	status := doJSON(t, http.MethodPost, base+"/api/auth/login", "", portal.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}
	return resp
}

func TestDriverParkingFlow(t *testing.T) {
	server := newTestServer(t)
	driver := login(t, server.URL, seed.DemoUserEmail, seed.DemoUserPassword)

	var spots []portal.ParkingSpot
	status := doJSON(t, http.MethodGet, server.URL+"/api/spots/available", driver.Token, nil, &spots)
	if status != http.StatusOK {
		t.Fatalf("available spots status = %d", status)
	}
	if len(spots) == 0 {
		t.Fatal("expected seeded spots")
	}
	spot := spots[0]

	var reservation portal.Reservation
	status = doJSON(t, http.MethodPost, server.URL+"/api/reservations", driver.Token, portal.ReservationRequest{
		SpotID:        spot.ID,
		VehicleNumber: "KA-01-1234",
	}, &reservation)
	if status != http.StatusCreated {
		t.Fatalf("create reservation status = %d", status)
	}

	// The reserved spot must disappear from the availability listing.
	var after []portal.ParkingSpot
	doJSON(t, http.MethodGet, server.URL+"/api/spots/available", driver.Token, nil, &after)
	for _, s := range after {
		if s.ID == spot.ID {
			t.Fatal("reserved spot still listed as available")
		}
	}

	var session portal.ParkingSession
	status = doJSON(t, http.MethodPost, server.URL+"/api/parking/check-in", driver.Token, portal.CheckInRequest{
		SpotID:        spot.ID,
		VehicleNumber: "KA-01-1234",
	}, &session)
	if status != http.StatusCreated {
		t.Fatalf("check-in status = %d", status)
	}
	if session.SpotNumber != spot.SpotNumber {
		t.Fatalf("session spot = %q, want %q", session.SpotNumber, spot.SpotNumber)
	}

	var fee portal.FeeCalculation
	status = doJSON(t, http.MethodPost, server.URL+"/api/parking/calculate-fee?sessionId="+session.ID, driver.Token, nil, &fee)
	if status != http.StatusOK {
		t.Fatalf("calculate fee status = %d", status)
	}
	if fee.AmountDue != spot.HourlyRate {
		t.Fatalf("fee = %v, want one hour at %v", fee.AmountDue, spot.HourlyRate)
	}

	var bill portal.Bill
	status = doJSON(t, http.MethodPost, server.URL+"/api/parking/check-out?sessionId="+session.ID+"&paymentMethod=CASH", driver.Token, nil, &bill)
	if status != http.StatusOK {
		t.Fatalf("check-out status = %d", status)
	}
	if bill.AmountDue != spot.HourlyRate {
		t.Fatalf("bill = %v, want %v", bill.AmountDue, spot.HourlyRate)
	}
	if bill.PaymentStatus != "COMPLETED" {
		t.Fatalf("payment status = %q", bill.PaymentStatus)
	}

	var bills []portal.Bill
	status = doJSON(t, http.MethodGet, server.URL+"/api/bills/my", driver.Token, nil, &bills)
	if status != http.StatusOK || len(bills) != 1 {
		t.Fatalf("bills status = %d, count = %d", status, len(bills))
	}
}

func TestRegisterIssuesUserToken(t *testing.T) {
	server := newTestServer(t)

	var resp portal.AuthResponse
	status := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", portal.RegisterRequest{
		FullName: "New Driver",
		Email:    "new@statio.dev",
		Password: "password123",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}
	if resp.User.Role != "USER" {
		t.Fatalf("role = %q, want USER", resp.User.Role)
	}
}

func TestAdminSurfaceIsRoleGated(t *testing.T) {
	server := newTestServer(t)
	driver := login(t, server.URL, seed.DemoUserEmail, seed.DemoUserPassword)
	admin := login(t, server.URL, seed.DemoAdminEmail, seed.DemoAdminPassword)

	if status := doJSON(t, http.MethodGet, server.URL+"/api/admin/dashboard", driver.Token, nil, nil); status != http.StatusForbidden {
		t.Fatalf("driver on admin surface: status = %d, want 403", status)
	}
	if status := doJSON(t, http.MethodGet, server.URL+"/api/admin/dashboard", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("anonymous on admin surface: status = %d, want 401", status)
	}

	var dash portal.AdminDashboard
	if status := doJSON(t, http.MethodGet, server.URL+"/api/admin/dashboard", admin.Token, nil, &dash); status != http.StatusOK {
		t.Fatalf("admin dashboard status = %d", status)
	}
	if dash.TotalSpots == 0 || dash.TotalUsers == 0 {
		t.Fatalf("dashboard not populated: %+v", dash)
	}
}

func TestAdminManagesInventoryAndUsers(t *testing.T) {
	server := newTestServer(t)
	admin := login(t, server.URL, seed.DemoAdminEmail, seed.DemoAdminPassword)

	var building portal.Building
	status := doJSON(t, http.MethodPost, server.URL+"/api/admin/buildings", admin.Token, portal.BuildingRequest{
		Name:    "North Garage",
		Address: "99 North Ave",
	}, &building)
	if status != http.StatusCreated {
		t.Fatalf("create building status = %d", status)
	}

	var floor portal.Floor
	status = doJSON(t, http.MethodPost, server.URL+"/api/admin/floors", admin.Token, portal.FloorRequest{
		BuildingID: building.ID,
	}, &floor)
	if status != http.StatusCreated {
		t.Fatalf("create floor status = %d", status)
	}

	var spot portal.ParkingSpot
	status = doJSON(t, http.MethodPost, server.URL+"/api/admin/spots", admin.Token, portal.SpotRequest{
		FloorID:    floor.ID,
		SpotNumber: "N-01",
		Type:       "REGULAR",
		HourlyRate: 25,
	}, &spot)
	if status != http.StatusCreated {
		t.Fatalf("create spot status = %d", status)
	}
	if spot.BuildingName != "North Garage" {
		t.Fatalf("spot building = %q", spot.BuildingName)
	}

	status = doJSON(t, http.MethodPatch, server.URL+"/api/admin/spots/"+spot.ID+"/status", admin.Token,
		map[string]string{"status": "MAINTENANCE"}, &spot)
	if status != http.StatusOK || spot.Status != "MAINTENANCE" {
		t.Fatalf("spot status update: http %d, status %q", status, spot.Status)
	}

	var created portal.User
	status = doJSON(t, http.MethodPost, server.URL+"/api/admin/users/admin", admin.Token, portal.CreateUserRequest{
		FullName: "Second Admin",
		Email:    "admin2@statio.dev",
		Password: "password123",
	}, &created)
	if status != http.StatusCreated || created.Role != "ADMIN" {
		t.Fatalf("create admin: http %d, role %q", status, created.Role)
	}

	status = doJSON(t, http.MethodPatch, server.URL+"/api/admin/users/"+created.ID+"/status", admin.Token,
		map[string]bool{"isActive": false}, &created)
	if status != http.StatusOK || created.IsActive {
		t.Fatalf("deactivate user: http %d, active %v", status, created.IsActive)
	}

	// The deactivated account can no longer log in.
	var failed portal.AuthResponse
	status = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", portal.LoginRequest{
		Email:    "admin2@statio.dev",
		Password: "password123",
	}, &failed)
	if status != http.StatusUnauthorized {
		t.Fatalf("deactivated login status = %d, want 401", status)
	}
}
