package viewstate

import (
	"context"
	"os"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	// Nothing persisted yet: identity.
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != Identity() {
		t.Errorf("Load() = %+v, want identity", got)
	}

	want := Transform{X: -120.5, Y: 48, Scale: 1.75}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v (restored verbatim)", got, want)
	}
}

func TestFileStore_Reset(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	if err := s.Save(ctx, Transform{X: 1, Y: 2, Scale: 3}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	// Resetting twice is fine.
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("second Reset() error: %v", err)
	}

	got, _ := s.Load(ctx)
	if got != Identity() {
		t.Errorf("Load() after Reset = %+v, want identity", got)
	}
}

func TestFileStore_CorruptStateDiscarded(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	if err := os.WriteFile(s.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != Identity() {
		t.Errorf("Load(corrupt) = %+v, want identity", got)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("corrupt state file was not removed")
	}
}
