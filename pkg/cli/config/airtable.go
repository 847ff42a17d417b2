package config

import (
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/airgrab/pkg/infra/airtable"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// MaxPageSize is the largest page the Airtable API returns
const MaxPageSize = 100

// Airtable holds the record source configuration
type Airtable struct {
	APIKey          string `masq:"secret"`
	BaseID          string
	BaseName        string
	ViewName        string
	AttachmentField string
	PageSize        int
	Endpoint        string
}

// Flags returns CLI flags for Airtable configuration
func (c *Airtable) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Airtable API key or personal access token",
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("AIRTABLE_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "base-id",
			Usage:       "Airtable base ID",
			Destination: &c.BaseID,
			Sources:     cli.EnvVars("AIRTABLE_BASE_ID"),
		},
		&cli.StringFlag{
			Name:        "base-name",
			Usage:       "Table name in the base",
			Destination: &c.BaseName,
			Sources:     cli.EnvVars("AIRTABLE_BASE_NAME"),
		},
		&cli.StringFlag{
			Name:        "view",
			Usage:       "View used to select records",
			Destination: &c.ViewName,
			Sources:     cli.EnvVars("AIRTABLE_VIEW_NAME"),
		},
		&cli.StringFlag{
			Name:        "field",
			Usage:       "Name of the attachment field",
			Destination: &c.AttachmentField,
			Sources:     cli.EnvVars("AIRTABLE_ATTACHMENT_FIELD_NAME"),
		},
		&cli.IntFlag{
			Name:        "page-size",
			Usage:       "Records per page (1-100)",
			Value:       MaxPageSize,
			Destination: &c.PageSize,
			Sources:     cli.EnvVars("AIRTABLE_PAGE_SIZE"),
		},
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "Airtable API base URL",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("AIRTABLE_ENDPOINT_URL"),
		},
	}
}

// Validate checks values that can be checked without querying the service.
// Missing identifiers are reported by the service itself.
func (c *Airtable) Validate() error {
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return goerr.Wrap(types.ErrInvalidConfig, "page size must be between 1 and 100", goerr.V("page_size", c.PageSize))
	}
	return nil
}

// Configure creates the Airtable client
func (c *Airtable) Configure() (*airtable.Client, error) {
	var opts []airtable.Option
	if c.Endpoint != "" {
		opts = append(opts, airtable.WithEndpoint(c.Endpoint))
	}
	return airtable.NewClient(c.APIKey, opts...)
}
