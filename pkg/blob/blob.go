// Package blob stores person photos and hands back publicly addressable
// URLs.
//
// Objects are keyed by a path derived from the person id and the uploaded
// file's extension, so re-uploading a photo for the same person overwrites
// the previous object. Backends:
//   - local: directory-backed store for development; the HTTP server serves
//     the directory under /uploads/
//   - supabase: Supabase Storage bucket for hosted deployments
package blob

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"

	kerrors "github.com/kintreehq/kintree/pkg/errors"
)

// Store uploads photo blobs.
type Store interface {
	// Upload stores the object under key and returns its public URL.
	// Uploading to an existing key overwrites the object.
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// Key derives the object key for a person's photo from the person id and
// the uploaded filename's extension.
func Key(personID, filename string) (string, error) {
	if err := kerrors.ValidatePersonID(personID); err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(filename))
	if err := kerrors.ValidateImageExtension(ext); err != nil {
		return "", err
	}
	return "people/" + personID + ext, nil
}

// ContentType guesses the MIME type for an object key from its extension,
// falling back to application/octet-stream.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
