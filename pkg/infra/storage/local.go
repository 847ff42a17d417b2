package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

const (
	dirMode  = 0755
	fileMode = 0644
)

// Local writes files into a directory on the local file system
type Local struct {
	dir string
}

var _ interfaces.Storage = (*Local)(nil)

// NewLocal creates a storage for dir. The directory is created on first write.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Location returns the target directory
func (s *Local) Location() string {
	return s.dir
}

// Put writes r to a temporary file next to the target and renames it over
// name, so an existing file is replaced only by a complete download.
func (s *Local) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return "", goerr.Wrap(err, "could not create attachments directory", goerr.V("dir", s.dir))
	}

	tmp, err := os.CreateTemp(s.dir, ".airgrab-*.tmp")
	if err != nil {
		return "", goerr.Wrap(err, "could not create temp file", goerr.V("dir", s.dir))
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return "", goerr.Wrap(err, "could not write file", goerr.V("name", name))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", goerr.Wrap(err, "could not sync file", goerr.V("name", name))
	}
	if err := tmp.Close(); err != nil {
		return "", goerr.Wrap(err, "could not close file", goerr.V("name", name))
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		return "", goerr.Wrap(err, "could not set permissions", goerr.V("name", name))
	}

	finalPath := filepath.Join(s.dir, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", goerr.Wrap(err, "could not finalize file", goerr.V("path", finalPath))
	}
	committed = true

	return finalPath, nil
}

// ctxReader stops reading once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
