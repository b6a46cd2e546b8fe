package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codeup/statio-portal/internal/api"
	"github.com/codeup/statio-portal/internal/session"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/pagination"
	"github.com/codeup/statio-portal/pkg/storage"
	"github.com/codeup/statio-portal/pkg/token/tokentest"
)

func newAuthedClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "portal-test", Output: io.Discard})
	store := storage.NewMemory()
	sessions := session.NewStore(session.Params{Storage: store, Logger: logg})

	raw := tokentest.Mint(t, tokentest.Claims{
		Subject:   "u-1",
		Email:     "ana@example.com",
		Role:      "USER",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err := sessions.SetAuth(context.Background(), raw, session.Profile{ID: "u-1"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	return api.New(api.Params{
		BaseURL:   server.URL,
		Storage:   store,
		Sessions:  sessions,
		Navigator: noopNavigator{},
		Logger:    logg,
	})
}

func TestAvailableSpotsBuildsFilterQuery(t *testing.T) {
	var query map[string]string
	client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spots/available" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		query = map[string]string{
			"buildingId": r.URL.Query().Get("buildingId"),
			"floorId":    r.URL.Query().Get("floorId"),
			"type":       r.URL.Query().Get("type"),
		}
		json.NewEncoder(w).Encode([]ParkingSpot{{ID: "s-1", SpotNumber: "A-01"}})
	}))

	svc := NewUserService(client)
	spots, err := svc.AvailableSpots(context.Background(), SpotFilter{
		BuildingID: "b-1",
		FloorID:    "f-2",
		Type:       enums.SpotTypeVIP,
	})
	if err != nil {
		t.Fatalf("available spots: %v", err)
	}
	if len(spots) != 1 || spots[0].ID != "s-1" {
		t.Fatalf("spots = %+v", spots)
	}
	if query["buildingId"] != "b-1" || query["floorId"] != "f-2" || query["type"] != "VIP" {
		t.Fatalf("query = %+v", query)
	}
}

func TestCheckOutRejectsUnknownPaymentMethod(t *testing.T) {
	hit := false
	client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))

	svc := NewUserService(client)
	_, err := svc.CheckOut(context.Background(), "sess-1", enums.PaymentMethod("BARTER"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apiErr := pkgerrors.As(err); apiErr == nil || apiErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if hit {
		t.Fatal("server must not be called with an unknown payment method")
	}
}

func TestCheckOutSendsSessionAndMethod(t *testing.T) {
	client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/parking/check-out" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("sessionId"); got != "sess-1" {
			t.Fatalf("sessionId = %q", got)
		}
		if got := r.URL.Query().Get("paymentMethod"); got != "UPI" {
			t.Fatalf("paymentMethod = %q", got)
		}
		json.NewEncoder(w).Encode(Bill{PaymentID: "pay-1", AmountDue: 40})
	}))

	svc := NewUserService(client)
	bill, err := svc.CheckOut(context.Background(), "sess-1", enums.PaymentMethodUPI)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if bill.PaymentID != "pay-1" {
		t.Fatalf("bill = %+v", bill)
	}
}

func TestAdminUsersSendsPagination(t *testing.T) {
	client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/users" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Fatalf("page = %q", got)
		}
		if got := r.URL.Query().Get("size"); got != "10" {
			t.Fatalf("size = %q", got)
		}
		json.NewEncoder(w).Encode(pagination.Page[User]{
			Items:         []User{{ID: "u-9"}},
			Page:          2,
			Size:          10,
			TotalElements: 21,
			TotalPages:    3,
		})
	}))

	svc := NewAdminService(client)
	page, err := svc.Users(context.Background(), pagination.Params{Page: 2, Size: 10})
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "u-9" {
		t.Fatalf("page = %+v", page)
	}
}

func TestUpdateSpotStatusRejectsInvalidStatus(t *testing.T) {
	hit := false
	client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))

	svc := NewAdminService(client)
	_, err := svc.UpdateSpotStatus(context.Background(), "s-1", enums.SpotStatus("BROKEN"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if hit {
		t.Fatal("server must not be called with an invalid status")
	}
}
