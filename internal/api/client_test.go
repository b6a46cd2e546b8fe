package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codeup/statio-portal/internal/session"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/storage"
	"github.com/codeup/statio-portal/pkg/token/tokentest"
)

type fakeNavigator struct {
	mu      sync.Mutex
	atLogin bool
	logins  int
}

func (n *fakeNavigator) AtLogin() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.atLogin
}

func (n *fakeNavigator) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logins++
}

func (n *fakeNavigator) loginCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.logins
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type fixture struct {
	client    *Client
	sessions  *session.Store
	persisted *storage.Memory
	nav       *fakeNavigator
}

func newFixture(t *testing.T, serverURL string) *fixture {
	t.Helper()
	persisted := storage.NewMemory()
	sessions := session.NewStore(session.Params{Storage: persisted, Logger: testLogger()})
	nav := &fakeNavigator{}
	client := New(Params{
		BaseURL:   serverURL,
		Storage:   persisted,
		Sessions:  sessions,
		Navigator: nav,
		Logger:    testLogger(),
	})
	return &fixture{client: client, sessions: sessions, persisted: persisted, nav: nav}
}

func (f *fixture) login(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: role, ExpiresAt: time.Now().Add(ttl)})
	if err := f.sessions.SetAuth(context.Background(), raw, session.Profile{ID: "u1"}); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	return raw
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	raw := f.login(t, "USER", time.Hour)

	var out struct {
		OK bool `json:"ok"`
	}
	if err := f.client.Get(context.Background(), "/ping", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected decoded body")
	}
	if gotAuth.Load() != "Bearer "+raw {
		t.Fatalf("expected bearer header, got %v", gotAuth.Load())
	}
}

func TestExpiredTokenRejectedBeforeSending(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	expired := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: time.Now().Add(-time.Minute)})
	_ = f.persisted.Set(storage.KeyToken, expired)

	err := f.client.Get(context.Background(), "/spots/available", nil, nil)
	if err == nil {
		t.Fatalf("expected rejection")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized api error, got %v", err)
	}

	if hits.Load() != 0 {
		t.Fatalf("request must not reach the server")
	}
	if stored, _ := f.persisted.Get(storage.KeyToken); stored != "" {
		t.Fatalf("persisted token should be cleared")
	}
	if f.nav.loginCount() != 1 {
		t.Fatalf("expected one login redirect, got %d", f.nav.loginCount())
	}
}

func TestServerRevocationClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"session unavailable"}}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	f.login(t, "USER", time.Hour)

	err := f.client.Get(context.Background(), "/reservations", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 api error, got %v", err)
	}
	if apiErr.Message != "session unavailable" {
		t.Fatalf("expected server message, got %q", apiErr.Message)
	}

	if f.sessions.UserRole() != "" {
		t.Fatalf("role must be gone after revocation")
	}
	if f.sessions.Snapshot().IsAuthenticated {
		t.Fatalf("session must be cleared on authenticated 401")
	}
	if f.nav.loginCount() != 1 {
		t.Fatalf("expected redirect to login")
	}
}

func TestTokenless401DoesNotRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"invalid credentials"}}`))
	}))
	defer server.Close()

	// No stored token: this is a failed login attempt, not a revocation.
	f := newFixture(t, server.URL)

	err := f.client.Post(context.Background(), "/auth/login", map[string]string{"email": "x"}, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid credentials" {
		t.Fatalf("expected credential failure surfaced, got %v", err)
	}
	if f.nav.loginCount() != 0 {
		t.Fatalf("no redirect on a tokenless 401")
	}
}

func TestForbiddenDoesNotTouchSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"FORBIDDEN","message":"access denied"}}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	f.login(t, "USER", time.Hour)

	err := f.client.Get(context.Background(), "/admin/buildings", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 api error, got %v", err)
	}

	// A permission wall is not a dead session.
	if !f.sessions.Snapshot().IsAuthenticated {
		t.Fatalf("403 must not log the user out")
	}
	if f.nav.loginCount() != 0 {
		t.Fatalf("403 must not redirect")
	}
}

func TestFlatErrorBodyParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"spot not found","timestamp":"2026-01-02T03:04:05Z","path":"/spots/nope"}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	f.login(t, "USER", time.Hour)

	err := f.client.Get(context.Background(), "/spots/nope", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.Message != "spot not found" || apiErr.Path != "/spots/nope" || apiErr.Timestamp != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected normalization: %+v", apiErr)
	}
}
