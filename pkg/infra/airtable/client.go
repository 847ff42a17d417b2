package airtable

import (
	"context"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mehanizm/airtable"
)

// Client lists records through the Airtable REST API
type Client struct {
	client *airtable.Client
}

var _ interfaces.RecordSource = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*options)

type options struct {
	endpoint string
}

// WithEndpoint replaces the API base URL, e.g. "https://api.airtable.com/v0"
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// NewClient creates an Airtable client authenticated with apiKey
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client := airtable.NewClient(apiKey)
	if o.endpoint != "" {
		if err := client.SetBaseURL(o.endpoint); err != nil {
			return nil, goerr.Wrap(err, "invalid Airtable endpoint", goerr.V("endpoint", o.endpoint))
		}
	}

	return &Client{client: client}, nil
}

// ListRecords fetches a single page of the view. The underlying client paces
// requests to stay within the API rate limit; both the wait and the request
// end when ctx is done.
func (c *Client) ListRecords(ctx context.Context, query model.RecordQuery, offset string) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "record listing cancelled")
	}

	logger := ctxlog.From(ctx)
	logger.Debug("Requesting records",
		"base_id", query.BaseID,
		"table", query.Table,
		"view", query.View,
		"page_size", query.PageSize,
		"offset", offset,
	)

	req := c.client.GetTable(query.BaseID, query.Table).GetRecords()
	if query.View != "" {
		req = req.FromView(query.View)
	}
	if query.PageSize > 0 {
		req = req.PageSize(query.PageSize)
	}
	if offset != "" {
		req = req.WithOffset(offset)
	}

	resp, err := req.DoContext(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, goerr.Wrap(ctxErr, "record listing cancelled",
				goerr.V("offset", offset),
				goerr.V("cause", err.Error()),
			)
		}
		return nil, goerr.Wrap(err, "failed to list records",
			goerr.V("base_id", query.BaseID),
			goerr.V("table", query.Table),
			goerr.V("view", query.View),
			goerr.V("offset", offset),
		)
	}

	page := &model.Page{
		Records: make([]*model.Record, 0, len(resp.Records)),
		Offset:  resp.Offset,
	}
	for _, r := range resp.Records {
		if r == nil {
			continue
		}
		page.Records = append(page.Records, &model.Record{
			ID:     r.ID,
			Fields: r.Fields,
		})
	}

	return page, nil
}
