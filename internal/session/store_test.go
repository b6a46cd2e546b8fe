package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/storage"
	"github.com/codeup/statio-portal/pkg/token/tokentest"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestStore(t *testing.T) (*Store, *storage.Memory, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Now()}
	persisted := storage.NewMemory()
	store := NewStore(Params{Storage: persisted, Logger: testLogger(), Clock: clk.Now})
	return store, persisted, clk
}

func TestSetAuthRejectsExpiredToken(t *testing.T) {
	store, persisted, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(-time.Minute)})
	err := store.SetAuth(context.Background(), raw, Profile{ID: "u1"})
	if err == nil {
		t.Fatalf("expected expired token to be rejected")
	}

	if store.Snapshot().IsAuthenticated {
		t.Fatalf("state must not change on rejection")
	}
	if stored, _ := persisted.Get(storage.KeyToken); stored != "" {
		t.Fatalf("nothing should be persisted on rejection")
	}
}

func TestSetAuthRejectsRolelessToken(t *testing.T) {
	store, _, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", ExpiresAt: clk.Now().Add(time.Hour)})
	if err := store.SetAuth(context.Background(), raw, Profile{ID: "u1"}); err == nil {
		t.Fatalf("a token without a role can never authorize anything")
	}
}

func TestSetAuthPersistsRoleStrippedProfile(t *testing.T) {
	store, persisted, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "ADMIN", ExpiresAt: clk.Now().Add(time.Hour)})
	profile := Profile{ID: "u1", Email: "a@example.com", FullName: "Ada Admin"}
	if err := store.SetAuth(context.Background(), raw, profile); err != nil {
		t.Fatalf("set auth: %v", err)
	}

	stored, _ := persisted.Get(storage.KeyUser)
	if stored == "" {
		t.Fatalf("expected persisted profile")
	}
	if strings.Contains(stored, "role") {
		t.Fatalf("role must never be persisted, got %s", stored)
	}

	snap := store.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		t.Fatalf("expected authenticated state")
	}
	if snap.User.Role != enums.RoleAdmin {
		t.Fatalf("expected derived role ADMIN, got %s", snap.User.Role)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	store, persisted, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(time.Hour)})
	if err := store.SetAuth(context.Background(), raw, Profile{ID: "u1"}); err != nil {
		t.Fatalf("set auth: %v", err)
	}

	store.Logout(context.Background())
	first := store.Snapshot()
	store.Logout(context.Background())
	second := store.Snapshot()

	for _, snap := range []State{first, second} {
		if snap.Token != "" || snap.User != nil || snap.IsAuthenticated || snap.IsLoading {
			t.Fatalf("expected terminal logged-out state, got %+v", snap)
		}
	}
	if stored, _ := persisted.Get(storage.KeyToken); stored != "" {
		t.Fatalf("persisted token should be cleared")
	}
}

func TestInitAuthRoundTrip(t *testing.T) {
	store, persisted, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(time.Hour)})
	profile := Profile{ID: "u1", Email: "u@example.com", FullName: "Uma User"}
	if err := store.SetAuth(context.Background(), raw, profile); err != nil {
		t.Fatalf("set auth: %v", err)
	}

	// Simulate a restart: fresh store over the same persisted mirror.
	reloaded := NewStore(Params{Storage: persisted, Logger: testLogger(), Clock: clk.Now})
	reloaded.InitAuth(context.Background())

	snap := reloaded.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		t.Fatalf("expected restored session, got %+v", snap)
	}
	if snap.User.Role != enums.RoleUser {
		t.Fatalf("derived role must equal the token's role, got %s", snap.User.Role)
	}
	if snap.User.Profile != profile {
		t.Fatalf("profile fields must survive the round trip, got %+v", snap.User.Profile)
	}
}

func TestTamperedPersistedProfileCannotEscalate(t *testing.T) {
	store, persisted, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(time.Hour)})
	if err := persisted.Set(storage.KeyToken, raw); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	// Hand-edited session file claiming ADMIN.
	tampered, _ := json.Marshal(map[string]string{
		"id": "u1", "email": "u@example.com", "fullName": "Uma User", "role": "ADMIN",
	})
	if err := persisted.Set(storage.KeyUser, string(tampered)); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	store.InitAuth(context.Background())

	if got := store.UserRole(); got != enums.RoleUser {
		t.Fatalf("role must come from the token, got %s", got)
	}
	if snap := store.Snapshot(); snap.User == nil || snap.User.Role != enums.RoleUser {
		t.Fatalf("in-memory user must carry the token role, got %+v", snap.User)
	}
}

func TestInitAuthClearsExpiredPersistedToken(t *testing.T) {
	store, persisted, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(-time.Hour)})
	_ = persisted.Set(storage.KeyToken, raw)
	_ = persisted.Set(storage.KeyUser, `{"id":"u1"}`)

	store.InitAuth(context.Background())

	if store.Snapshot().IsAuthenticated {
		t.Fatalf("expired persisted token must not authenticate")
	}
	if stored, _ := persisted.Get(storage.KeyToken); stored != "" {
		t.Fatalf("expired token should be purged from storage")
	}
}

func TestValidateAuthAfterExpiry(t *testing.T) {
	store, _, clk := newTestStore(t)

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(10 * time.Second)})
	if err := store.SetAuth(context.Background(), raw, Profile{ID: "u1"}); err != nil {
		t.Fatalf("set auth: %v", err)
	}
	if !store.ValidateAuth(context.Background()) {
		t.Fatalf("token should still be valid")
	}

	clk.Advance(31 * time.Second)

	if store.ValidateAuth(context.Background()) {
		t.Fatalf("token should have expired")
	}
	if store.Snapshot().IsAuthenticated {
		t.Fatalf("expired session must be torn down")
	}
	if store.UserRole() != "" {
		t.Fatalf("no role after logout")
	}
}

type failingStorage struct{}

func (failingStorage) Get(string) (string, error)  { return "", errors.New("storage disabled") }
func (failingStorage) Set(string, string) error    { return errors.New("storage disabled") }
func (failingStorage) Delete(...string) error      { return errors.New("storage disabled") }

func TestStorageFailureDoesNotBreakLogin(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	store := NewStore(Params{Storage: failingStorage{}, Logger: testLogger(), Clock: clk.Now})

	raw := tokentest.Mint(t, tokentest.Claims{Subject: "u1", Role: "USER", ExpiresAt: clk.Now().Add(time.Hour)})
	if err := store.SetAuth(context.Background(), raw, Profile{ID: "u1"}); err != nil {
		t.Fatalf("storage failure must not fail login: %v", err)
	}
	if !store.Snapshot().IsAuthenticated {
		t.Fatalf("in-memory session stays authoritative")
	}
}
