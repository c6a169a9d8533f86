// Package viewstate persists the diagram's pan/zoom transform between
// sessions.
//
// The transform is stored verbatim as JSON under a fixed key in the user's
// config directory and restored at next load. There is no versioning or
// migration: unreadable state falls back to the identity transform.
package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Transform is the diagram view state: a pan offset and zoom scale.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the transform used when no state has been persisted yet.
func Identity() Transform {
	return Transform{X: 0, Y: 0, Scale: 1}
}

// Store persists the view transform.
type Store interface {
	// Load returns the persisted transform, or the identity transform when
	// none has been saved.
	Load(ctx context.Context) (Transform, error)

	// Save persists the transform, replacing any previous state.
	Save(ctx context.Context, t Transform) error

	// Reset removes the persisted state.
	Reset(ctx context.Context) error
}

const stateFile = "view.json"

// FileStore is a file-backed view state store. State lives in a single JSON
// file under the base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed store.
// If baseDir is empty, defaults to ~/.config/kintree/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "kintree")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.baseDir, stateFile)
}

func (s *FileStore) Load(ctx context.Context) (Transform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Identity(), nil
		}
		return Identity(), fmt.Errorf("read view state: %w", err)
	}

	var t Transform
	if err := json.Unmarshal(data, &t); err != nil {
		// Corrupt state is discarded rather than surfaced.
		_ = os.Remove(s.Path())
		return Identity(), nil
	}
	return t, nil
}

func (s *FileStore) Save(ctx context.Context, t Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	return nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove view state: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
