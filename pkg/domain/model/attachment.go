package model

import "time"

// Attachment describes one file referenced by an attachment field
type Attachment struct {
	Filename string // e.g. "foo.jpg"
	URL      string // Fetchable URL of the file
	ID       string // Attachment ID, informational
	Size     int64  // Size in bytes as reported by the service, 0 if unknown
	Type     string // Content type, e.g. "image/jpeg"
}

// DownloadResult is the outcome of downloading a single attachment
type DownloadResult struct {
	Attachment Attachment
	Path       string // Location the file was written to
	Bytes      int64  // Bytes written
	Err        error  // Non-nil when the download failed
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether the download completed without error
func (r DownloadResult) Succeeded() bool {
	return r.Err == nil
}
