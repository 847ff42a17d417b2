package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/airgrab/pkg/infra/download"
	"github.com/m-mizutani/airgrab/pkg/infra/storage"
	"github.com/m-mizutani/airgrab/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func attachmentsOf(names ...string) []model.Attachment {
	var atts []model.Attachment
	for _, name := range names {
		atts = append(atts, model.Attachment{Filename: name, URL: "https://example.com/" + name})
	}
	return atts
}

func succeedingDownloader() *MockDownloader {
	return &MockDownloader{
		downloadFunc: func(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
			onProgress(0)
			onProgress(50)
			onProgress(100)
			return "mem://" + filename, 3, nil
		},
	}
}

func TestDownload_EmptyList(t *testing.T) {
	renderer := &MockRenderer{}
	uc := usecase.NewDownload(&MockStorage{}, succeedingDownloader(), usecase.WithRenderer(renderer))

	summary := uc.Run(context.Background(), nil)
	gt.Value(t, summary.Total).Equal(0)
	gt.False(t, summary.HasFailures())
	gt.Value(t, len(renderer.Bars())).Equal(0)
	gt.Value(t, renderer.Stopped()).Equal(1)
}

func TestDownload_StaggeredStart(t *testing.T) {
	const interval = 100 * time.Millisecond

	var mu sync.Mutex
	starts := map[string]time.Duration{}
	begin := time.Now()

	downloader := &MockDownloader{
		downloadFunc: func(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
			mu.Lock()
			starts[filename] = time.Since(begin)
			mu.Unlock()

			// the first download outlasts the others; starts must not depend on it
			if filename == "a.jpg" {
				time.Sleep(3 * interval)
			}
			return filename, 1, nil
		},
	}

	uc := usecase.NewDownload(&MockStorage{}, downloader, usecase.WithPacer(usecase.LinearStagger{Interval: interval}))
	summary := uc.Run(context.Background(), attachmentsOf("a.jpg", "b.jpg", "c.jpg"))
	gt.Value(t, summary.Succeeded).Equal(3)

	mu.Lock()
	defer mu.Unlock()
	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		expected := time.Duration(i) * interval
		got := starts[name]
		gt.True(t, got >= expected)
		gt.True(t, got < expected+interval/2)
	}
}

func TestDownload_FailureIsIsolated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/b.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, "content of "+r.URL.Path)
	}))
	defer server.Close()

	dir := t.TempDir()
	atts := []model.Attachment{
		{Filename: "a.jpg", URL: server.URL + "/a.jpg"},
		{Filename: "b.jpg", URL: server.URL + "/b.jpg"},
		{Filename: "c.jpg", URL: server.URL + "/c.jpg"},
	}

	renderer := &MockRenderer{}
	reporter := &MockReporter{}
	uc := usecase.NewDownload(storage.NewLocal(dir), download.NewClient(),
		usecase.WithRenderer(renderer),
		usecase.WithErrorReporter(reporter),
		usecase.WithPacer(usecase.LinearStagger{Interval: 10 * time.Millisecond}),
		usecase.WithRunID("run-1"),
	)

	summary := uc.Run(context.Background(), atts)
	gt.Value(t, summary.Total).Equal(3)
	gt.Value(t, summary.Succeeded).Equal(2)
	gt.Value(t, summary.Failed).Equal(1)

	failed := summary.FailedResults()
	gt.Value(t, failed[0].Attachment.Filename).Equal("b.jpg")
	gt.True(t, errors.Is(failed[0].Err, types.ErrDownload))

	var statusErr *download.StatusError
	gt.True(t, errors.As(failed[0].Err, &statusErr))
	gt.Value(t, statusErr.Code).Equal(http.StatusInternalServerError)

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	gt.Value(t, names).Equal([]string{"a.jpg", "c.jpg"})

	reports := reporter.Reports()
	gt.Value(t, len(reports)).Equal(1)
	gt.Value(t, reports[0]["filename"]).Equal("b.jpg")
	gt.Value(t, reports[0]["run_id"]).Equal("run-1")

	for _, bar := range renderer.Bars() {
		completed, failErr, _ := bar.State()
		if bar.Filename == "b.jpg" {
			gt.False(t, completed)
			gt.Error(t, failErr)
		} else {
			gt.True(t, completed)
		}
	}
}

func TestDownload_Overwrite(t *testing.T) {
	var body atomic.Value
	body.Store("first")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body.Load().(string))
	}))
	defer server.Close()

	dir := t.TempDir()
	uc := usecase.NewDownload(storage.NewLocal(dir), download.NewClient())
	atts := []model.Attachment{{Filename: "a.jpg", URL: server.URL + "/a.jpg"}}

	gt.False(t, uc.Run(context.Background(), atts).HasFailures())
	body.Store("second")
	gt.False(t, uc.Run(context.Background(), atts).HasFailures())

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.Value(t, len(entries)).Equal(1)

	content, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	gt.NoError(t, err)
	gt.Value(t, string(content)).Equal("second")
}

func TestDownload_BarsRetireAfterCompletion(t *testing.T) {
	renderer := &MockRenderer{}
	uc := usecase.NewDownload(&MockStorage{}, succeedingDownloader(),
		usecase.WithRenderer(renderer),
		usecase.WithRetireDelay(10*time.Millisecond),
	)

	uc.Run(context.Background(), attachmentsOf("a.jpg", "b.jpg"))

	bars := renderer.Bars()
	gt.Value(t, len(bars)).Equal(2)

	deadline := time.Now().Add(2 * time.Second)
	for _, bar := range bars {
		for {
			_, _, retired := bar.State()
			if retired || time.Now().After(deadline) {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		completed, _, retired := bar.State()
		gt.True(t, completed)
		gt.True(t, retired)
	}
}

func TestDownload_MaxConcurrency(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	downloader := &MockDownloader{
		downloadFunc: func(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return filename, 1, nil
		},
	}

	uc := usecase.NewDownload(&MockStorage{}, downloader, usecase.WithMaxConcurrency(2))
	summary := uc.Run(context.Background(), attachmentsOf("1", "2", "3", "4", "5", "6"))

	gt.Value(t, summary.Succeeded).Equal(6)
	gt.True(t, maxInFlight.Load() <= 2)
	gt.True(t, maxInFlight.Load() >= 1)
}

func TestDownload_PanicIsReportedAsFailure(t *testing.T) {
	downloader := &MockDownloader{
		downloadFunc: func(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
			if filename == "bad.jpg" {
				panic("unexpected")
			}
			return filename, 1, nil
		},
	}
	reporter := &MockReporter{}

	uc := usecase.NewDownload(&MockStorage{}, downloader, usecase.WithErrorReporter(reporter))
	summary := uc.Run(context.Background(), attachmentsOf("a.jpg", "bad.jpg"))

	gt.Value(t, summary.Succeeded).Equal(1)
	gt.Value(t, summary.Failed).Equal(1)
	gt.Value(t, summary.Results[1].Attachment.Filename).Equal("bad.jpg")
	gt.True(t, errors.Is(summary.Results[1].Err, types.ErrDownload))
	gt.Value(t, len(reporter.Reports())).Equal(1)
}

func TestDownload_Cancelled(t *testing.T) {
	var calls atomic.Int32
	downloader := &MockDownloader{
		downloadFunc: func(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
			calls.Add(1)
			return filename, 1, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := usecase.NewDownload(&MockStorage{}, downloader, usecase.WithPacer(usecase.LinearStagger{Interval: time.Hour}))

	start := time.Now()
	summary := uc.Run(ctx, attachmentsOf("a.jpg", "b.jpg"))
	gt.True(t, time.Since(start) < 5*time.Second)

	gt.Value(t, summary.Failed).Equal(2)
	gt.Value(t, calls.Load()).Equal(int32(0))
	for _, r := range summary.Results {
		gt.True(t, errors.Is(r.Err, context.Canceled))
	}
}
