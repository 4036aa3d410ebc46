package session

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"

	"github.com/nhle/taskflow/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenWithConfig(keyring.Config{
		ServiceName:      "taskflow-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: keyring.FixedStringPrompt("test-key"),
	})
	if err != nil {
		t.Fatalf("OpenWithConfig() error: %v", err)
	}
	return store
}

func TestLoadWithoutSession(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load() error = %v, want ErrNoSession", err)
	}
	if _, err := store.Profile(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Profile() error = %v, want ErrNoSession", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	cred := Credential{Username: "admin", Password: "admin123"}
	profile := &model.User{
		ID:       1,
		Username: "admin",
		Role:     model.RoleAdmin,
	}
	if err := store.Save(cred, profile); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != cred {
		t.Errorf("Load() = %+v, want %+v", *got, cred)
	}

	gotProfile, err := store.Profile()
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if gotProfile.Username != "admin" || gotProfile.Role != model.RoleAdmin {
		t.Errorf("Profile() = %+v", gotProfile)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	first := Credential{Username: "admin", Password: "admin123"}
	if err := store.Save(first, nil); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	second := Credential{Username: "alice", Password: "hunter22"}
	if err := store.Save(second, nil); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != second {
		t.Errorf("Load() = %+v, want %+v", *got, second)
	}
}

func TestSaveWithoutProfile(t *testing.T) {
	store := newTestStore(t)

	cred := Credential{Username: "admin", Password: "admin123"}
	if err := store.Save(cred, nil); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if _, err := store.Load(); err != nil {
		t.Errorf("Load() error: %v", err)
	}
	if _, err := store.Profile(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Profile() error = %v, want ErrNoSession", err)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	cred := Credential{Username: "admin", Password: "admin123"}
	profile := &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
	if err := store.Save(cred, profile); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load() after Clear = %v, want ErrNoSession", err)
	}
}

func TestClearWithoutSession(t *testing.T) {
	store := newTestStore(t)

	// Clearing an empty store must succeed.
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on empty store: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear(): %v", err)
	}
}
