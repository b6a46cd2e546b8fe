package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()

	if got, _ := store.Get(KeyToken); got != "" {
		t.Fatalf("expected empty value for missing key, got %q", got)
	}

	if err := store.Set(KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := store.Get(KeyToken); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}

	if err := store.Delete(KeyToken, KeyUser); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := store.Get(KeyToken); got != "" {
		t.Fatalf("expected empty value after delete, got %q", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if err := store.Set(KeyToken, "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := store.Set(KeyUser, `{"id":"1"}`); err != nil {
		t.Fatalf("set user: %v", err)
	}

	// A fresh handle over the same dir sees the persisted values.
	reopened, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, _ := reopened.Get(KeyToken); got != "tok" {
		t.Fatalf("expected persisted token, got %q", got)
	}

	if err := reopened.Delete(KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := reopened.Get(KeyToken); got != "" {
		t.Fatalf("expected token cleared, got %q", got)
	}
	if got, _ := reopened.Get(KeyUser); got == "" {
		t.Fatalf("expected user untouched by token delete")
	}
}

func TestFileCorruptContentTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sessionFileName), []byte("{garbage"), 0o600); err != nil {
		t.Fatalf("corrupting file: %v", err)
	}

	if got, _ := store.Get(KeyToken); got != "" {
		t.Fatalf("corrupt file should read as empty, got %q", got)
	}
}
