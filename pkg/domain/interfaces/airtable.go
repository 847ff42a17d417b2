package interfaces

import (
	"context"

	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// RecordSource lists records of a view one page at a time
type RecordSource interface {
	// ListRecords returns the page starting at offset. An empty offset requests the first page.
	ListRecords(ctx context.Context, query model.RecordQuery, offset string) (*model.Page, error)
}
