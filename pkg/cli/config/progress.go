package config

import (
	"os"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/ui/progress"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// Progress holds the progress display configuration
type Progress struct {
	Mode string
}

// Flags returns CLI flags for progress configuration
func (c *Progress) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "progress",
			Usage:       "Progress display (auto, bars, overall, plain, none)",
			Value:       string(progress.ModeAuto),
			Destination: &c.Mode,
			Sources:     cli.EnvVars("PROGRESS_MODE"),
		},
	}
}

// Validate checks the mode
func (c *Progress) Validate() error {
	_, err := progress.ParseMode(c.Mode)
	return err
}

// Configure creates a renderer for total downloads writing to stdout
func (c *Progress) Configure(total int) (interfaces.Renderer, error) {
	mode, err := progress.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	terminal := StdoutIsTerminal()
	return progress.New(mode, terminal, progress.Options{
		Output: os.Stdout,
		Color:  terminal,
		Total:  total,
	}), nil
}

// StdoutIsTerminal reports whether stdout is attached to a terminal
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
