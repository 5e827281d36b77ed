package storage

import (
	"errors"
	"testing"
)

func TestStore_SetGetRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Set(KeyAuthToken, "demo-token-patient"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(KeyAuthToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "demo-token-patient" {
		t.Errorf("expected demo-token-patient, got %q", got)
	}
}

func TestStore_MissingKey(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	if s.Has("missing") {
		t.Error("expected Has to be false for missing key")
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	type user struct {
		ID  int    `json:"id"`
		Nom string `json:"nom"`
	}
	if err := s.SetJSON(KeyCurrentUser, user{ID: 1, Nom: "Diallo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulated reload: a fresh store over the same directory.
	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var u user
	if err := reopened.GetJSON(KeyCurrentUser, &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 1 || u.Nom != "Diallo" {
		t.Errorf("expected persisted user back, got %+v", u)
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Set(KeyAuthToken, "demo-token-admin")
	s.Set(KeyCurrentUser, "x")

	if err := s.Delete(KeyAuthToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Has(KeyAuthToken) {
		t.Error("expected token to be deleted")
	}
	// Deleting again is a no-op.
	if err := s.Delete(KeyAuthToken); err != nil {
		t.Errorf("unexpected error on double delete: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Has(KeyCurrentUser) {
		t.Error("expected Clear to remove all keys")
	}
}
