package blob

import (
	"context"
	"fmt"
	"io"

	storage "github.com/supabase-community/storage-go"
)

// Supabase stores photos in a Supabase Storage bucket and returns the
// bucket's public object URLs.
type Supabase struct {
	client *storage.Client
	bucket string
}

// NewSupabase creates a Supabase-backed blob store. rawURL is the project's
// storage endpoint (https://<project>.supabase.co/storage/v1), apiKey the
// service key, bucket the target bucket id. The bucket must exist and be
// public for the returned URLs to resolve.
func NewSupabase(rawURL, apiKey, bucket string) *Supabase {
	return &Supabase{
		client: storage.NewClient(rawURL, apiKey, nil),
		bucket: bucket,
	}
}

// Upload stores the object with upsert semantics, so re-uploading a person's
// photo overwrites the previous one.
func (s *Supabase) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	upsert := true
	opts := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(s.bucket, key, r, opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.client.GetPublicUrl(s.bucket, key).SignedURL, nil
}

var _ Store = (*Supabase)(nil)
