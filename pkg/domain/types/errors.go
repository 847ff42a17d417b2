package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidConfig indicates a configuration value is out of range
	ErrInvalidConfig = goerr.New("invalid configuration")

	// ErrQuery indicates the paginated record listing failed
	ErrQuery = goerr.New("record query failed")

	// ErrDownload indicates a single attachment could not be downloaded
	ErrDownload = goerr.New("attachment download failed")

	// ErrInvalidFilename indicates an attachment filename can not be written as a file
	ErrInvalidFilename = goerr.New("invalid attachment filename")

	// ErrPartialFailure is returned when some downloads failed and the caller asked to fail on error
	ErrPartialFailure = goerr.New("some attachments failed to download")
)
