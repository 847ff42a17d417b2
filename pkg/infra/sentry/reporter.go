package sentry

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Reporter captures errors to Sentry
type Reporter struct {
	hub *sentry.Hub
}

var _ interfaces.ErrorReporter = (*Reporter)(nil)

// NewReporter creates a reporter with its own Sentry client
func NewReporter(opts sentry.ClientOptions) (*Reporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Sentry client")
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Report sends err with tags. Values attached by goerr are sent as extras.
func (r *Reporter) Report(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}

	hub := r.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}

		var gErr *goerr.Error
		if errors.As(err, &gErr) {
			for k, v := range gErr.Values() {
				scope.SetExtra(k, v)
			}
		}
	})

	if id := hub.CaptureException(err); id != nil {
		ctxlog.From(ctx).Debug("Reported error to Sentry", "event_id", string(*id))
	}
}

// Flush waits for buffered events to be delivered
func (r *Reporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
