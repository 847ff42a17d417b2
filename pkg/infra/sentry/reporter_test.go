package sentry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	sentryinfra "github.com/m-mizutani/airgrab/pkg/infra/sentry"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []*sentry.Event
}

// beforeSend records the event and drops it so nothing leaves the process
func (r *eventRecorder) beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func TestReporter_Report(t *testing.T) {
	rec := &eventRecorder{}
	reporter, err := sentryinfra.NewReporter(sentry.ClientOptions{BeforeSend: rec.beforeSend})
	gt.NoError(t, err)

	cause := goerr.New("download failed", goerr.V("url", "https://example.com/b.jpg"))
	reporter.Report(context.Background(), cause, map[string]string{
		"filename": "b.jpg",
		"run_id":   "run-1",
	})
	reporter.Flush(time.Second)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	gt.Value(t, len(rec.events)).Equal(1)

	ev := rec.events[0]
	gt.Value(t, ev.Tags["filename"]).Equal("b.jpg")
	gt.Value(t, ev.Tags["run_id"]).Equal("run-1")
	gt.Value(t, ev.Extra["url"]).Equal(any("https://example.com/b.jpg"))
}

func TestReporter_Report_TagsDoNotLeak(t *testing.T) {
	rec := &eventRecorder{}
	reporter, err := sentryinfra.NewReporter(sentry.ClientOptions{BeforeSend: rec.beforeSend})
	gt.NoError(t, err)

	reporter.Report(context.Background(), errors.New("first"), map[string]string{"filename": "a.jpg"})
	reporter.Report(context.Background(), errors.New("second"), nil)
	reporter.Report(context.Background(), nil, nil)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	gt.Value(t, len(rec.events)).Equal(2)
	_, ok := rec.events[1].Tags["filename"]
	gt.False(t, ok)
}
