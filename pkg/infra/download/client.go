package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// config holds internal download configuration
type config struct {
	httpClient      *http.Client
	maxAttempts     int
	timeout         time.Duration
	retryBackoff    time.Duration
	retryMaxBackoff time.Duration
	userAgent       string
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithMaxAttempts sets how many times a download is tried before giving up
func WithMaxAttempts(n int) Option {
	return func(cfg *config) {
		cfg.maxAttempts = n
	}
}

// WithTimeout bounds each attempt including the body transfer. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = d
	}
}

// WithRetryBackoff sets the initial and maximum backoff between attempts
func WithRetryBackoff(initial, maxBackoff time.Duration) Option {
	return func(cfg *config) {
		cfg.retryBackoff = initial
		cfg.retryMaxBackoff = maxBackoff
	}
}

// Client downloads files over HTTP into a storage
type Client struct {
	cfg config
}

var _ interfaces.Downloader = (*Client)(nil)

// NewClient creates a download client
func NewClient(opts ...Option) *Client {
	cfg := config{
		httpClient:      &http.Client{},
		maxAttempts:     1,
		retryBackoff:    time.Second,
		retryMaxBackoff: 30 * time.Second,
		userAgent:       types.UserAgent(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxAttempts < 1 {
		cfg.maxAttempts = 1
	}

	return &Client{cfg: cfg}
}

// StatusError is returned when the server answers with a status of 400 or above
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d %s", e.Code, http.StatusText(e.Code))
}

// Retryable reports whether the status may succeed on a later attempt
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusRequestTimeout || e.Code == http.StatusTooManyRequests
}

// SafeName reduces a filename to a single path element
func SafeName(filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", goerr.Wrap(types.ErrInvalidFilename, "filename can not be used as a file name", goerr.V("filename", filename))
	}
	return name, nil
}

// Download fetches url and writes it to dst as filename, overwriting any
// existing file. onProgress may be nil.
func (c *Client) Download(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
	logger := ctxlog.From(ctx)

	name, err := SafeName(filename)
	if err != nil {
		return "", 0, err
	}
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.maxAttempts; attempt++ {
		if attempt > 1 {
			logger.Debug("Retrying download",
				"filename", name,
				"attempt", attempt,
				"error", lastErr,
			)
			if err := c.backoff(ctx, attempt-1); err != nil {
				return "", 0, goerr.Wrap(err, "download interrupted", goerr.V("filename", name))
			}
		}

		location, n, err := c.fetch(ctx, dst, name, url, onProgress)
		if err == nil {
			onProgress(100)
			return location, n, nil
		}
		lastErr = err

		if !c.shouldRetry(ctx, err) {
			break
		}
	}

	return "", 0, goerr.Wrap(lastErr, "download failed",
		goerr.V("filename", name),
		goerr.V("url", url),
		goerr.V("max_attempts", c.cfg.maxAttempts),
	)
}

// fetch performs a single attempt
func (c *Client) fetch(ctx context.Context, dst interfaces.Storage, name, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, goerr.Wrap(err, "failed to create request", goerr.V("url", url))
	}
	req.Header.Set("User-Agent", c.cfg.userAgent)

	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return "", 0, &transferError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", 0, &StatusError{Code: resp.StatusCode}
	}

	onProgress(0)
	body := &progressReader{r: resp.Body, total: resp.ContentLength, onProgress: onProgress}

	location, err := dst.Put(ctx, name, body)
	if err != nil {
		if body.err != nil {
			return "", 0, &transferError{err: err}
		}
		return "", 0, goerr.Wrap(err, "failed to store file", goerr.V("filename", name))
	}

	return location, body.read, nil
}

// shouldRetry reports whether another attempt can succeed
func (c *Client) shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	var tErr *transferError
	return errors.As(err, &tErr)
}

// backoff waits for an exponentially increasing duration with jitter.
func (c *Client) backoff(ctx context.Context, retry int) error {
	backoff := c.cfg.retryBackoff * time.Duration(1<<uint(retry-1))
	if backoff > c.cfg.retryMaxBackoff {
		backoff = c.cfg.retryMaxBackoff
	}

	// Add jitter: 0.5 to 1.5 of backoff
	jitter := time.Duration(float64(backoff) * (0.5 + rand.Float64()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
		return nil
	}
}

// transferError marks network failures while requesting or reading the body
type transferError struct {
	err error
}

func (e *transferError) Error() string { return "transfer failed: " + e.err.Error() }
func (e *transferError) Unwrap() error { return e.err }

// progressReader reports the completed percentage while the body is read
type progressReader struct {
	r          io.Reader
	total      int64 // -1 when unknown
	read       int64
	err        error
	onProgress interfaces.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if n > 0 && p.total > 0 {
		p.onProgress(float64(p.read) / float64(p.total) * 100)
	}
	if err != nil && err != io.EOF {
		p.err = err
	}
	return n, err
}
