package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/airgrab/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/semaphore"
)

// DefaultRetireDelay is how long a completed bar keeps receiving updates
const DefaultRetireDelay = 200 * time.Millisecond

type downloadUseCase struct {
	storage     interfaces.Storage
	downloader  interfaces.Downloader
	renderer    interfaces.Renderer
	reporter    interfaces.ErrorReporter
	pacer       Pacer
	limiter     *semaphore.Weighted
	retireDelay time.Duration
	runID       string
}

// DownloadOption configures the download use case
type DownloadOption func(*downloadUseCase)

// WithRenderer sets the progress display. Default: no display.
func WithRenderer(r interfaces.Renderer) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.renderer = r
	}
}

// WithPacer sets when each download starts. Default: all at once.
func WithPacer(p Pacer) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.pacer = p
	}
}

// WithMaxConcurrency caps the downloads in flight. Zero or less means no cap.
func WithMaxConcurrency(n int) DownloadOption {
	return func(uc *downloadUseCase) {
		if n > 0 {
			uc.limiter = semaphore.NewWeighted(int64(n))
		} else {
			uc.limiter = nil
		}
	}
}

// WithErrorReporter receives every failed download
func WithErrorReporter(r interfaces.ErrorReporter) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.reporter = r
	}
}

// WithRetireDelay sets how long after completion a bar is retired
func WithRetireDelay(d time.Duration) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.retireDelay = d
	}
}

// WithRunID tags reported errors with the run identifier
func WithRunID(id string) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.runID = id
	}
}

// NewDownload creates a new instance of DownloadUseCase
func NewDownload(storage interfaces.Storage, downloader interfaces.Downloader, opts ...DownloadOption) interfaces.DownloadUseCase {
	uc := &downloadUseCase{
		storage:     storage,
		downloader:  downloader,
		renderer:    nopRenderer{},
		reporter:    nopReporter{},
		pacer:       LinearStagger{},
		retireDelay: DefaultRetireDelay,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run downloads every attachment and returns once all of them settled.
// Attachment i starts Delay(i) after Run is called. A failed download never
// stops the others; failures are recorded in the summary.
func (uc *downloadUseCase) Run(ctx context.Context, attachments []model.Attachment) *model.Summary {
	logger := ctxlog.From(ctx)
	start := time.Now()

	logger.Info("Starting downloads",
		"count", len(attachments),
		"destination", uc.storage.Location(),
	)

	handles := make([]*async.Handle[model.DownloadResult], len(attachments))
	for i, att := range attachments {
		startAt := start.Add(uc.pacer.Delay(i))
		handles[i] = async.Dispatch(ctx, func(ctx context.Context) (model.DownloadResult, error) {
			return uc.download(ctx, i, att, startAt), nil
		})
	}

	results, errs := async.WaitAll(handles)
	for i, err := range errs {
		if err == nil {
			continue
		}
		results[i] = model.DownloadResult{
			Attachment: attachments[i],
			Err:        uc.fail(ctx, i, attachments[i], err),
			FinishedAt: time.Now(),
		}
	}

	uc.renderer.Stop()

	summary := model.NewSummary(results, time.Since(start))
	logger.Info("Downloads finished",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"bytes", summary.Bytes,
		"duration", summary.Duration,
	)
	return summary
}

// download waits until startAt, then fetches a single attachment
func (uc *downloadUseCase) download(ctx context.Context, i int, att model.Attachment, startAt time.Time) model.DownloadResult {
	logger := ctxlog.From(ctx)
	result := model.DownloadResult{Attachment: att}

	if err := waitUntil(ctx, startAt); err != nil {
		result.Err = uc.fail(ctx, i, att, goerr.Wrap(err, "download cancelled before start"))
		result.FinishedAt = time.Now()
		return result
	}

	if uc.limiter != nil {
		if err := uc.limiter.Acquire(ctx, 1); err != nil {
			result.Err = uc.fail(ctx, i, att, goerr.Wrap(err, "download cancelled while waiting for a slot"))
			result.FinishedAt = time.Now()
			return result
		}
		defer uc.limiter.Release(1)
	}

	result.StartedAt = time.Now()
	bar := uc.renderer.Create(att.Filename)

	path, n, err := uc.downloader.Download(ctx, uc.storage, att.Filename, att.URL, bar.Update)
	result.FinishedAt = time.Now()
	if err != nil {
		bar.Fail(err)
		result.Err = uc.fail(ctx, i, att, err)
		return result
	}

	bar.Complete()
	time.AfterFunc(uc.retireDelay, bar.Retire)

	result.Path = path
	result.Bytes = n

	logger.Debug("Downloaded attachment",
		"index", i,
		"filename", att.Filename,
		"path", path,
		"bytes", n,
		"elapsed", result.FinishedAt.Sub(result.StartedAt),
	)
	return result
}

// fail logs and reports a failed download and returns the recorded error
func (uc *downloadUseCase) fail(ctx context.Context, i int, att model.Attachment, cause error) error {
	err := goerr.Wrap(errors.Join(types.ErrDownload, cause), "failed to download attachment",
		goerr.V("index", i),
		goerr.V("filename", att.Filename),
		goerr.V("attachment_id", att.ID),
	)

	ctxlog.From(ctx).Error("Failed to download attachment",
		"error", err,
		"index", i,
		"filename", att.Filename,
	)

	tags := map[string]string{
		"filename": att.Filename,
		"index":    strconv.Itoa(i),
	}
	if uc.runID != "" {
		tags["run_id"] = uc.runID
	}
	uc.reporter.Report(ctx, err, tags)

	return err
}

// waitUntil blocks until t or until ctx is done
func waitUntil(ctx context.Context, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := time.Until(t)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type nopRenderer struct{}

func (nopRenderer) Create(string) interfaces.Bar { return nopBar{} }
func (nopRenderer) Stop()                        {}

type nopBar struct{}

func (nopBar) Update(float64) {}
func (nopBar) Complete()      {}
func (nopBar) Fail(error)     {}
func (nopBar) Retire()        {}

type nopReporter struct{}

func (nopReporter) Report(context.Context, error, map[string]string) {}
