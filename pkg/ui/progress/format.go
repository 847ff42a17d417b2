package progress

import (
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	// DefaultWidth is the number of cells of a bar
	DefaultWidth = 10

	completeCell   = "█"
	incompleteCell = "░"
)

// State of a single bar
type State int

const (
	StateRunning State = iota
	StateComplete
	StateFailed
)

// palette holds the colors used by every renderer
type palette struct {
	bar      *color.Color
	running  *color.Color
	complete *color.Color
	failed   *color.Color
	filename *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		bar:      color.New(color.FgGreen),
		running:  color.New(color.FgYellow),
		complete: color.New(color.FgGreen),
		failed:   color.New(color.FgRed),
		filename: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.bar, p.running, p.complete, p.failed, p.filename} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// formatLine renders one bar line: two spaces, the cells, the rounded
// percentage padded to 4 characters, two spaces and the filename.
func formatLine(p *palette, width int, percent float64, state State, filename string) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if state == StateComplete {
		percent = 100
	}
	progress := math.Max(0, math.Min(1, percent/100))

	completeLen := int(math.Round(progress * float64(width)))
	cells := strings.Repeat(completeCell, completeLen) + strings.Repeat(incompleteCell, width-completeLen)

	pct := padStart(strconv.Itoa(int(math.Round(progress*100))), 4) + "%"
	switch {
	case state == StateFailed:
		pct = p.failed.Sprint(pct)
	case progress >= 1:
		pct = p.complete.Sprint(pct)
	default:
		pct = p.running.Sprint(pct)
	}

	return "  " + p.bar.Sprint(cells) + pct + "  " + p.filename.Sprint(filename)
}

func padStart(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}
