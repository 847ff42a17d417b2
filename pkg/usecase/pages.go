package usecase

import (
	"context"
	"iter"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// Pages returns the pages of a view in order. Every range over the sequence
// starts again from the first page. The sequence ends after the page with an
// empty offset, or after yielding a single non-nil error.
func Pages(ctx context.Context, src interfaces.RecordSource, query model.RecordQuery) iter.Seq2[*model.Page, error] {
	return func(yield func(*model.Page, error) bool) {
		offset := ""
		for {
			page, err := src.ListRecords(ctx, query, offset)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if page.IsLast() {
				return
			}
			offset = page.Offset
		}
	}
}
