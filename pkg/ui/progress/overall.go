package progress

import (
	"fmt"
	"sync"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/schollz/progressbar/v3"
)

// Overall renders a single bar counting finished downloads
type Overall struct {
	opts Options

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	failed  int
	stopped bool
}

var _ interfaces.Renderer = (*Overall)(nil)

// NewOverall creates an aggregate renderer for opts.Total downloads
func NewOverall(opts Options) *Overall {
	opts = opts.withDefaults()

	bar := progressbar.NewOptions(opts.Total,
		progressbar.OptionSetWriter(opts.Output),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionEnableColorCodes(opts.Color),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        completeCell,
			SaucerPadding: incompleteCell,
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	return &Overall{opts: opts, bar: bar}
}

// Create returns a bar that counts towards the aggregate once it finishes
func (o *Overall) Create(filename string) interfaces.Bar {
	return &overallItem{owner: o, filename: filename}
}

// Stop terminates the aggregate bar line
func (o *Overall) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return
	}
	o.stopped = true
	fmt.Fprintln(o.opts.Output)
}

func (o *Overall) finish(failed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return
	}
	if failed {
		o.failed++
		o.bar.Describe(fmt.Sprintf("Downloading (%d failed)", o.failed))
	}
	_ = o.bar.Add(1)
}

type overallItem struct {
	owner    *Overall
	filename string

	once sync.Once
}

func (b *overallItem) Update(float64) {}

func (b *overallItem) Complete() {
	b.once.Do(func() { b.owner.finish(false) })
}

func (b *overallItem) Fail(error) {
	b.once.Do(func() { b.owner.finish(true) })
}

func (b *overallItem) Retire() {}
