package config

import (
	"context"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/infra/storage"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// DefaultAttachmentsDir is used when no directory is configured
const DefaultAttachmentsDir = "./attachments"

// Storage holds the destination configuration
type Storage struct {
	Dir            string
	GCSCredentials string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Usage:       "Output directory, or gs://bucket/prefix",
			Value:       DefaultAttachmentsDir,
			Destination: &c.Dir,
			Sources:     cli.EnvVars("ATTACHMENTS_DIR"),
		},
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account JSON file for Cloud Storage",
			Destination: &c.GCSCredentials,
			Sources:     cli.EnvVars("AIRGRAB_GCS_CREDENTIALS"),
		},
	}
}

// Configure opens the destination. The returned function releases it.
func (c *Storage) Configure(ctx context.Context) (interfaces.Storage, func(), error) {
	if !storage.IsGCSURL(c.Dir) {
		return storage.NewLocal(c.Dir), func() {}, nil
	}

	var opts []option.ClientOption
	if c.GCSCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(c.GCSCredentials))
	}

	gcs, err := storage.NewGCS(ctx, c.Dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	return gcs, func() { _ = gcs.Close() }, nil
}
