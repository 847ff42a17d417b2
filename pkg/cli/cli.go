package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/airgrab/pkg/cli/config"
	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	sentryinfra "github.com/m-mizutani/airgrab/pkg/infra/sentry"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// DefaultEnvFile is loaded at startup unless AIRGRAB_ENV_FILE names another file
const DefaultEnvFile = ".env"

// runtime carries values shared by every command of one invocation
type runtime struct {
	runID    string
	reporter *sentryinfra.Reporter

	// file fills unset flags of the root and of the running command
	file config.File
}

// errorReporter returns nil when error reporting is disabled
func (r *runtime) errorReporter() interfaces.ErrorReporter {
	if r.reporter == nil {
		return nil
	}
	return r.reporter
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
		rt        = &runtime{runID: uuid.NewString()}
	)

	if err := loadEnvFile(); err != nil {
		slog.Default().Error("Failed to load env file", slog.Any("error", err))
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "airgrab",
		Usage:   "Download Airtable attachments with progress bars",
		Version: types.Version,
		Flags:   slices.Concat(rt.file.Flags(), loggerCfg.Flags(), sentryCfg.Flags()),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := rt.file.Apply(c); err != nil {
				return nil, err
			}

			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("run_id", rt.runID))

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			rt.reporter, err = sentryCfg.Configure()
			if err != nil {
				return nil, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdDownload(rt),
			cmdList(rt),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))

		if rt.reporter != nil {
			rt.reporter.Report(ctx, err, map[string]string{"run_id": rt.runID})
			rt.reporter.Flush(2 * time.Second)
		}
		return err
	}

	if rt.reporter != nil {
		rt.reporter.Flush(2 * time.Second)
	}
	return nil
}

// loadEnvFile fills unset environment variables from the dotenv file. A
// missing default file is not an error.
func loadEnvFile() error {
	path := os.Getenv("AIRGRAB_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return nil
}
