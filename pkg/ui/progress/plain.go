package progress

import (
	"fmt"
	"sync"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
)

// Plain prints one line per finished download. It suits output that is not a terminal.
type Plain struct {
	opts    Options
	palette *palette
	mu      sync.Mutex
}

var _ interfaces.Renderer = (*Plain)(nil)

// NewPlain creates a line based renderer
func NewPlain(opts Options) *Plain {
	opts = opts.withDefaults()
	return &Plain{opts: opts, palette: newPalette(opts.Color)}
}

func (p *Plain) Create(filename string) interfaces.Bar {
	return &plainItem{owner: p, filename: filename}
}

func (p *Plain) Stop() {}

func (p *Plain) println(percent float64, state State, filename string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.opts.Output, formatLine(p.palette, p.opts.Width, percent, state, filename))
}

type plainItem struct {
	owner    *Plain
	filename string

	mu      sync.Mutex
	percent float64
	once    sync.Once
}

func (b *plainItem) Update(percent float64) {
	b.mu.Lock()
	b.percent = percent
	b.mu.Unlock()
}

func (b *plainItem) Complete() {
	b.once.Do(func() { b.owner.println(100, StateComplete, b.filename) })
}

func (b *plainItem) Fail(error) {
	b.once.Do(func() {
		b.mu.Lock()
		percent := b.percent
		b.mu.Unlock()
		b.owner.println(percent, StateFailed, b.filename)
	})
}

func (b *plainItem) Retire() {}
