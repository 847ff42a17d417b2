package model

import "time"

// Config is the resolved run configuration. It is built once at process entry
// and passed by value to every component.
type Config struct {
	AttachmentsDir   string        // Local directory or gs://bucket/prefix
	APIKey           string        `masq:"secret"` // Airtable personal access token
	BaseID           string        // Airtable base identifier
	BaseName         string        // Table name inside the base
	ViewName         string        // View used to scope the records
	AttachmentField  string        // Field holding the attachments
	PageSize         int           // Records per page
	DownloadInterval time.Duration // Stagger between download starts
}

// Query returns the record query described by the configuration
func (c Config) Query() RecordQuery {
	return RecordQuery{
		BaseID:   c.BaseID,
		Table:    c.BaseName,
		View:     c.ViewName,
		PageSize: c.PageSize,
	}
}
