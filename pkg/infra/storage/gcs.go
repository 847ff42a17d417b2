package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// GCS writes files as objects of a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Storage = (*GCS)(nil)

// IsGCSURL reports whether dir points to Cloud Storage
func IsGCSURL(dir string) bool {
	return strings.HasPrefix(dir, gcsScheme)
}

// ParseGCSURL splits gs://bucket/prefix into bucket and prefix
func ParseGCSURL(raw string) (bucket, prefix string, err error) {
	if !IsGCSURL(raw) {
		return "", "", goerr.Wrap(types.ErrInvalidConfig, "not a gs:// URL", goerr.V("url", raw))
	}

	rest := strings.TrimPrefix(raw, gcsScheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", goerr.Wrap(types.ErrInvalidConfig, "bucket name is empty", goerr.V("url", raw))
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// NewGCS creates a storage for gs://bucket/prefix
func NewGCS(ctx context.Context, rawURL string, opts ...option.ClientOption) (*GCS, error) {
	bucket, prefix, err := ParseGCSURL(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// Location returns the gs:// URL of the prefix
func (s *GCS) Location() string {
	return gcsScheme + path.Join(s.bucket, s.prefix)
}

// Put uploads r as prefix/name, replacing an existing object
func (s *GCS) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	objName := path.Join(s.prefix, name)

	// cancelling the writer context aborts the upload
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objName).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to upload object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", objName),
		)
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", objName),
		)
	}

	return gcsScheme + path.Join(s.bucket, objName), nil
}

// Close releases the client
func (s *GCS) Close() error {
	return s.client.Close()
}
