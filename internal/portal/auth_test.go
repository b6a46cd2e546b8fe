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
	"github.com/codeup/statio-portal/pkg/storage"
	"github.com/codeup/statio-portal/pkg/token/tokentest"
)

type noopNavigator struct{}

func (noopNavigator) AtLogin() bool { return false }
func (noopNavigator) ToLogin()      {}

type harness struct {
	server   *httptest.Server
	auth     *AuthService
	sessions *session.Store
	storage  storage.Store
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "portal-test", Output: io.Discard})
	store := storage.NewMemory()
	sessions := session.NewStore(session.Params{Storage: store, Logger: logg})
	client := api.New(api.Params{
		BaseURL:   server.URL,
		Storage:   store,
		Sessions:  sessions,
		Navigator: noopNavigator{},
		Logger:    logg,
	})

	return &harness{
		server:   server,
		auth:     NewAuthService(client, sessions, logg),
		sessions: sessions,
		storage:  store,
	}
}

func TestLoginSeedsSessionFromToken(t *testing.T) {
	raw := tokentest.Mint(t, tokentest.Claims{
		Subject:   "u-1",
		Email:     "ana@example.com",
		Role:      "USER",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			Token: raw,
			User:  User{ID: "u-1", Email: "ana@example.com", FullName: "Ana"},
		})
	}))

	resp, err := h.auth.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.Role != enums.RoleUser {
		t.Fatalf("role = %q, want %q", resp.User.Role, enums.RoleUser)
	}
	if got := h.sessions.UserRole(); got != enums.RoleUser {
		t.Fatalf("session role = %q, want %q", got, enums.RoleUser)
	}
	if h.sessions.Token() != raw {
		t.Fatal("session token not installed")
	}
}

func TestLoginRejectsExpiredToken(t *testing.T) {
	raw := tokentest.Mint(t, tokentest.Claims{
		Subject:   "u-1",
		Role:      "USER",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AuthResponse{Token: raw, User: User{ID: "u-1"}})
	}))

	_, err := h.auth.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if apiErr := pkgerrors.As(err); apiErr == nil || apiErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if h.sessions.UserRole() != "" {
		t.Fatal("session must stay empty after a rejected token")
	}
}

func TestLoginRejectsRolelessToken(t *testing.T) {
	raw := tokentest.Mint(t, tokentest.Claims{
		Subject:   "u-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AuthResponse{Token: raw, User: User{ID: "u-1"}})
	}))

	_, err := h.auth.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	if err == nil {
		t.Fatal("expected error for roleless token")
	}
}

func TestLoginValidatesInputBeforeCalling(t *testing.T) {
	hit := false
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))

	_, err := h.auth.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apiErr := pkgerrors.As(err); apiErr == nil || apiErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if hit {
		t.Fatal("server must not be called with invalid input")
	}
}

func TestRegisterInstallsSession(t *testing.T) {
	raw := tokentest.Mint(t, tokentest.Claims{
		Subject:   "u-2",
		Email:     "ben@example.com",
		Role:      "USER",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			Token: raw,
			User:  User{ID: "u-2", Email: req.Email, FullName: req.FullName},
		})
	}))

	resp, err := h.auth.Register(context.Background(), RegisterRequest{
		FullName: "Ben Ortiz",
		Email:    "ben@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != enums.RoleUser {
		t.Fatalf("role = %q, want %q", resp.User.Role, enums.RoleUser)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	raw := tokentest.Mint(t, tokentest.Claims{
		Subject:   "u-1",
		Role:      "ADMIN",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AuthResponse{Token: raw, User: User{ID: "u-1"}})
	}))

	ctx := context.Background()
	if _, err := h.auth.Login(ctx, LoginRequest{Email: "a@b.com", Password: "password123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	h.auth.Logout(ctx)

	if h.sessions.UserRole() != "" {
		t.Fatal("role must be empty after logout")
	}
	if _, err := h.storage.Get(storage.KeyToken); err == nil {
		t.Fatal("persisted token must be gone after logout")
	}
}
