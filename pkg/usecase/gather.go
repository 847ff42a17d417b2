package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type gatherUseCase struct {
	source   interfaces.RecordSource
	observer interfaces.GatherObserver
}

// GatherOption configures the gather use case
type GatherOption func(*gatherUseCase)

// WithGatherObserver receives every page and record as it is retrieved
func WithGatherObserver(o interfaces.GatherObserver) GatherOption {
	return func(uc *gatherUseCase) {
		uc.observer = o
	}
}

// NewGather creates a new instance of GatherUseCase
func NewGather(source interfaces.RecordSource, opts ...GatherOption) interfaces.GatherUseCase {
	uc := &gatherUseCase{
		source:   source,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Gather collects the first attachment of every record in the view. Records
// without an attachment in field are skipped. A failed page fails the whole
// gathering and no attachment is returned.
func (uc *gatherUseCase) Gather(ctx context.Context, query model.RecordQuery, field string) ([]model.Attachment, error) {
	logger := ctxlog.From(ctx)

	attachments := []model.Attachment{}
	pages, records := 0, 0

	for page, err := range Pages(ctx, uc.source, query) {
		if err != nil {
			logger.Error("Failed to retrieve page",
				"error", err,
				"pages", pages,
			)
			return nil, goerr.Wrap(errors.Join(types.ErrQuery, err), "failed to gather attachments",
				goerr.V("base_id", query.BaseID),
				goerr.V("table", query.Table),
				goerr.V("view", query.View),
				goerr.V("pages", pages),
			)
		}

		pages++
		uc.observer.OnPage(page)

		for _, record := range page.Records {
			records++
			uc.observer.OnRecord(record)

			att, ok := record.FirstAttachment(field)
			if !ok {
				logger.Debug("Record has no attachment", "record_id", record.ID, "field", field)
				continue
			}
			attachments = append(attachments, att)
		}
		uc.observer.OnPageEnd(page)
	}

	logger.Info("Gathered attachments",
		"pages", pages,
		"records", records,
		"attachments", len(attachments),
	)

	return attachments, nil
}

type nopObserver struct{}

func (nopObserver) OnPage(*model.Page)     {}
func (nopObserver) OnRecord(*model.Record) {}
func (nopObserver) OnPageEnd(*model.Page)  {}
