package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/airgrab/pkg/cli/config"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/airgrab/pkg/ui/console"
	"github.com/m-mizutani/airgrab/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdDownload(rt *runtime) *cli.Command {
	var (
		airtableCfg config.Airtable
		storageCfg  config.Storage
		downloadCfg config.Download
		progressCfg config.Progress
		slackCfg    config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, airtableCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, downloadCfg.Flags()...)
	flags = append(flags, progressCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl"},
		Usage:   "Download the first attachment of every record in a view",
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, rt.file.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			cfg, err := config.Resolve(&airtableCfg, &storageCfg, &downloadCfg)
			if err != nil {
				return err
			}
			if err := progressCfg.Validate(); err != nil {
				return err
			}
			logger.Debug("Resolved configuration", slog.Any("config", cfg))

			printer := console.New(os.Stdout, config.StdoutIsTerminal())
			printer.Config(cfg)

			source, err := airtableCfg.Configure()
			if err != nil {
				return err
			}

			gather := usecase.NewGather(source, usecase.WithGatherObserver(printer))
			attachments, err := gather.Gather(ctx, cfg.Query(), cfg.AttachmentField)
			if err != nil {
				return err
			}

			dst, closeStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			renderer, err := progressCfg.Configure(len(attachments))
			if err != nil {
				return err
			}

			opts := []usecase.DownloadOption{
				usecase.WithRenderer(renderer),
				usecase.WithPacer(usecase.LinearStagger{Interval: cfg.DownloadInterval}),
				usecase.WithMaxConcurrency(downloadCfg.MaxConcurrency),
				usecase.WithRunID(rt.runID),
			}
			if reporter := rt.errorReporter(); reporter != nil {
				opts = append(opts, usecase.WithErrorReporter(reporter))
			}

			printer.Downloading()
			summary := usecase.NewDownload(dst, downloadCfg.Configure(), opts...).Run(ctx, attachments)
			printer.Done(summary)

			if notifier := slackCfg.Configure(); notifier != nil {
				if err := notifier.NotifySummary(ctx, cfg, summary); err != nil {
					logger.Warn("Failed to notify summary", slog.Any("error", err))
				}
			}

			if summary.HasFailures() && downloadCfg.FailOnError {
				return goerr.Wrap(types.ErrPartialFailure, "some attachments were not downloaded",
					goerr.V("failed", summary.Failed),
					goerr.V("total", summary.Total),
				)
			}
			return nil
		},
	}
}
