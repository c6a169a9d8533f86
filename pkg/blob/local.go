package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a directory-backed blob store for development. Objects land under
// the base directory and are addressed as baseURL/<key>; the HTTP server
// mounts the directory at /uploads/.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates a local blob store rooted at dir. baseURL is the public
// prefix objects are served under (e.g. "/uploads").
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the base directory objects are written to.
func (l *Local) Dir() string { return l.dir }

// Upload writes the object to disk, overwriting any previous object at the
// same key.
func (l *Local) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	dst := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create object %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	return l.baseURL + "/" + key, nil
}

var _ Store = (*Local)(nil)
