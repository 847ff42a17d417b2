package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/airgrab/pkg/cli/config"
	"github.com/m-mizutani/airgrab/pkg/ui/console"
	"github.com/m-mizutani/airgrab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdList(rt *runtime) *cli.Command {
	var airtableCfg config.Airtable

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Print the attachments that would be downloaded",
		Flags:   airtableCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, rt.file.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Resolve(&airtableCfg, nil, nil)
			if err != nil {
				return err
			}

			source, err := airtableCfg.Configure()
			if err != nil {
				return err
			}

			// gather progress goes to stderr so stdout stays machine readable
			progress := console.New(os.Stderr, false)
			attachments, err := usecase.NewGather(source, usecase.WithGatherObserver(progress)).
				Gather(ctx, cfg.Query(), cfg.AttachmentField)
			if err != nil {
				return err
			}

			out := console.New(os.Stdout, false)
			for _, att := range attachments {
				out.Attachment(att)
			}
			return nil
		},
	}
}
