package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	clearLine  = "\r\033[2K"
)

// Options configures a renderer
type Options struct {
	// Output is where progress is written.
	// Default: os.Stdout
	Output io.Writer

	// UpdateInterval is how often the MultiBar redraws.
	// Default: 100ms
	UpdateInterval time.Duration

	// Width is the number of cells of a bar.
	// Default: 10
	Width int

	// Color enables ANSI colors
	Color bool

	// Total is the number of downloads, used by the Overall renderer
	Total int
}

func (o Options) withDefaults() Options {
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.UpdateInterval <= 0 {
		o.UpdateInterval = 100 * time.Millisecond
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	return o
}

// MultiBar renders one line per download and redraws them in place
type MultiBar struct {
	opts    Options
	palette *palette

	mu      sync.Mutex
	bars    []*multiBarItem
	drawn   int // lines printed by the previous redraw
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

var _ interfaces.Renderer = (*MultiBar)(nil)

// NewMultiBar creates a MultiBar. The redraw loop starts with the first bar.
func NewMultiBar(opts Options) *MultiBar {
	opts = opts.withDefaults()
	return &MultiBar{
		opts:    opts,
		palette: newPalette(opts.Color),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Create adds a bar at 0%
func (m *MultiBar) Create(filename string) interfaces.Bar {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := &multiBarItem{owner: m, filename: filename}
	m.bars = append(m.bars, b)

	if !m.started && !m.stopped {
		m.started = true
		fmt.Fprint(m.opts.Output, hideCursor)
		go m.updateLoop()
	}
	return b
}

// Stop draws the final state and restores the cursor
func (m *MultiBar) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	started := m.started
	m.mu.Unlock()

	if !started {
		return
	}

	close(m.stopCh)
	<-m.doneCh
}

// updateLoop periodically redraws every bar
func (m *MultiBar) updateLoop() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			m.mu.Lock()
			m.redraw()
			fmt.Fprint(m.opts.Output, showCursor)
			m.mu.Unlock()
			return
		case <-ticker.C:
			m.mu.Lock()
			m.redraw()
			m.mu.Unlock()
		}
	}
}

// redraw moves the cursor back over the previous frame and prints every bar.
// The caller must hold m.mu.
func (m *MultiBar) redraw() {
	var sb strings.Builder
	if m.drawn > 0 {
		fmt.Fprintf(&sb, "\033[%dA", m.drawn)
	}
	for _, b := range m.bars {
		sb.WriteString(clearLine)
		sb.WriteString(formatLine(m.palette, m.opts.Width, b.percent, b.state, b.filename))
		sb.WriteString("\n")
	}
	m.drawn = len(m.bars)

	fmt.Fprint(m.opts.Output, sb.String())
}

// Lines returns the current frame without ANSI cursor control, one entry per bar
func (m *MultiBar) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]string, 0, len(m.bars))
	for _, b := range m.bars {
		lines = append(lines, formatLine(m.palette, m.opts.Width, b.percent, b.state, b.filename))
	}
	return lines
}

type multiBarItem struct {
	owner    *MultiBar
	filename string
	percent  float64
	state    State
	retired  bool
}

func (b *multiBarItem) Update(percent float64) {
	b.owner.mu.Lock()
	defer b.owner.mu.Unlock()
	if b.retired || b.state != StateRunning {
		return
	}
	b.percent = percent
}

func (b *multiBarItem) Complete() {
	b.owner.mu.Lock()
	defer b.owner.mu.Unlock()
	if b.retired {
		return
	}
	b.percent = 100
	b.state = StateComplete
}

func (b *multiBarItem) Fail(_ error) {
	b.owner.mu.Lock()
	defer b.owner.mu.Unlock()
	if b.retired {
		return
	}
	b.state = StateFailed
}

func (b *multiBarItem) Retire() {
	b.owner.mu.Lock()
	defer b.owner.mu.Unlock()
	b.retired = true
}
