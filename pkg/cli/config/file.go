package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File holds the path of an optional TOML config file. Its keys are flag
// names; underscores are accepted in place of dashes.
//
//	dir = "./attachments"
//	base-id = "appXXXXXXXXXXXXXX"
//	page_size = 50
type File struct {
	Path string
}

// Flags returns CLI flags for the config file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "TOML config file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("AIRGRAB_CONFIG"),
		},
	}
}

// Load parses the config file into flag name and value pairs. It returns nil
// when no file is configured.
func (c *File) Load() (map[string]string, error) {
	if c.Path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, goerr.Wrap(errors.Join(types.ErrInvalidConfig, err), "failed to parse config file", goerr.V("path", c.Path))
	}

	values := make(map[string]string, len(doc))
	for key, v := range doc {
		switch v.(type) {
		case map[string]any, []any:
			return nil, goerr.Wrap(types.ErrInvalidConfig, "config value must be a scalar", goerr.V("key", key), goerr.V("path", c.Path))
		}
		values[strings.ReplaceAll(key, "_", "-")] = fmt.Sprint(v)
	}
	return values, nil
}

// Apply sets the flags of cmd that are not given on the command line or by
// the environment from the config file. Keys naming a flag of another command
// in the same tree are left for that command; keys no command knows are an
// error.
func (c *File) Apply(cmd *cli.Command) error {
	values, err := c.Load()
	if err != nil {
		return err
	}

	own := flagNames(cmd.Flags)
	known := map[string]bool{}
	collectFlagNames(cmd.Root(), known)

	for _, key := range slices.Sorted(maps.Keys(values)) {
		if !known[key] || key == "config" {
			return goerr.Wrap(types.ErrInvalidConfig, "unknown key in config file", goerr.V("key", key), goerr.V("path", c.Path))
		}
		if !own[key] || cmd.IsSet(key) {
			continue
		}
		if err := cmd.Set(key, values[key]); err != nil {
			return goerr.Wrap(errors.Join(types.ErrInvalidConfig, err), "invalid value in config file", goerr.V("key", key), goerr.V("path", c.Path))
		}
	}
	return nil
}

func flagNames(flags []cli.Flag) map[string]bool {
	names := map[string]bool{}
	for _, f := range flags {
		for _, name := range f.Names() {
			names[name] = true
		}
	}
	return names
}

func collectFlagNames(cmd *cli.Command, names map[string]bool) {
	for name := range flagNames(cmd.Flags) {
		names[name] = true
	}
	for _, sub := range cmd.Commands {
		collectFlagNames(sub, names)
	}
}
