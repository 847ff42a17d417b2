package interfaces

import (
	"context"
	"io"
)

// ProgressFunc receives the completed percentage (0-100) of a download
type ProgressFunc func(percent float64)

// Storage persists downloaded files. Writing an existing name overwrites it.
type Storage interface {
	// Put writes the content of r as name and returns the written location
	Put(ctx context.Context, name string, r io.Reader) (string, error)

	// Location describes where files are written, for display
	Location() string
}

// Downloader fetches a URL into a storage
type Downloader interface {
	// Download fetches url and stores it as filename. It returns the written
	// location and the number of bytes written.
	Download(ctx context.Context, dst Storage, filename, url string, onProgress ProgressFunc) (string, int64, error)
}
