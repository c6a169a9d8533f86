package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/kintreehq/kintree/pkg/errors"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		personID string
		filename string
		want     string
		wantErr  bool
	}{
		{"Simple", "p1", "photo.jpg", "people/p1.jpg", false},
		{"UppercaseExt", "p1", "IMG_0042.JPEG", "people/p1.jpeg", false},
		{"NoExtension", "p1", "photo", "", true},
		{"BadExtension", "p1", "run.exe", "", true},
		{"EmptyID", "", "photo.jpg", "", true},
		{"TraversalID", "../p1", "photo.jpg", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Key(tt.personID, tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Key() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_ErrorCode(t *testing.T) {
	_, err := Key("p1", "notes.txt")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidImage) {
		t.Errorf("Key() error = %v, want INVALID_IMAGE", err)
	}
}

func TestLocal_UploadAndOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewLocal() error: %v", err)
	}

	url, err := l.Upload(ctx, "people/p1.jpg", "image/jpeg", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if url != "/uploads/people/p1.jpg" {
		t.Errorf("Upload() url = %q, want /uploads/people/p1.jpg", url)
	}

	// Same key overwrites.
	if _, err := l.Upload(ctx, "people/p1.jpg", "image/jpeg", strings.NewReader("second")); err != nil {
		t.Fatalf("second Upload() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "people", "p1.jpg"))
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("object content = %q, want overwritten value", data)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("people/p1.png"); got != "image/png" {
		t.Errorf("ContentType(png) = %q", got)
	}
	if got := ContentType("people/p1"); got != "application/octet-stream" {
		t.Errorf("ContentType(no ext) = %q", got)
	}
}
