package interfaces

import (
	"context"

	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// GatherUseCase collects the attachments of a view
type GatherUseCase interface {
	// Gather returns one attachment per record holding at least one attachment in field
	Gather(ctx context.Context, query model.RecordQuery, field string) ([]model.Attachment, error)
}

// DownloadUseCase downloads gathered attachments
type DownloadUseCase interface {
	// Run downloads every attachment and returns once all downloads settled
	Run(ctx context.Context, attachments []model.Attachment) *model.Summary
}
