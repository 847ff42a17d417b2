package interfaces

import (
	"context"

	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// Notifier publishes the summary of a finished run
type Notifier interface {
	NotifySummary(ctx context.Context, cfg model.Config, summary *model.Summary) error
}

// ErrorReporter forwards errors to an external error tracker
type ErrorReporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}
