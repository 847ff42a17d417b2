package progress

import (
	"strings"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Mode selects a renderer
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeBars    Mode = "bars"
	ModeOverall Mode = "overall"
	ModePlain   Mode = "plain"
	ModeNone    Mode = "none"
)

// Modes lists every accepted mode
var Modes = []Mode{ModeAuto, ModeBars, ModeOverall, ModePlain, ModeNone}

// ParseMode validates a mode name (case insensitive)
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", goerr.Wrap(types.ErrInvalidConfig, "unknown progress mode", goerr.V("mode", s))
}

// New creates the renderer for mode. ModeAuto picks bars on a terminal and plain output otherwise.
func New(mode Mode, terminal bool, opts Options) interfaces.Renderer {
	if mode == ModeAuto {
		if terminal {
			mode = ModeBars
		} else {
			mode = ModePlain
		}
	}

	switch mode {
	case ModeBars:
		return NewMultiBar(opts)
	case ModeOverall:
		return NewOverall(opts)
	case ModePlain:
		return NewPlain(opts)
	default:
		return Nop{}
	}
}
