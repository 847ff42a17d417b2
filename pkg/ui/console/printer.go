package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// Printer writes the human readable progress of a run
type Printer struct {
	w  io.Writer
	mu sync.Mutex

	heading *color.Color
	label   *color.Color
	value   *color.Color
	failure *color.Color
}

var _ interfaces.GatherObserver = (*Printer)(nil)

// New creates a printer. When w is nil, os.Stdout is used.
func New(w io.Writer, useColor bool) *Printer {
	if w == nil {
		w = os.Stdout
	}

	p := &Printer{
		w:       w,
		heading: color.New(color.FgMagenta),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
		failure: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.heading, p.label, p.value, p.failure} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

// Config prints the settings of the run. The API key is never printed.
func (p *Printer) Config(cfg model.Config) {
	p.printf("%s\n", p.heading.Sprint("Config:"))
	p.printf("  %s%s\n", p.label.Sprint("Attachments Directory: "), p.value.Sprint(cfg.AttachmentsDir))
	p.printf("  %s%s\n", p.label.Sprint("Airtable Base ID: "), p.value.Sprint(cfg.BaseID))
	p.printf("  %s%s\n", p.label.Sprint("Airtable Base Name: "), p.value.Sprint(cfg.BaseName))
	p.printf("  %s%s\n", p.label.Sprint("Airtable View Name: "), p.value.Sprint(cfg.ViewName))
	p.printf("\n")
}

// OnPage is called for every retrieved page, before its records
func (p *Printer) OnPage(_ *model.Page) {
	p.printf("%s\n", p.heading.Sprint("Retrieving page..."))
}

// OnRecord is called for every retrieved record
func (p *Printer) OnRecord(record *model.Record) {
	p.printf("  Retrieved record %s\n", p.value.Sprint(record.ID))
}

// OnPageEnd is called after the last record of a page
func (p *Printer) OnPageEnd(_ *model.Page) {
	p.printf("\n")
}

// Downloading announces the download phase
func (p *Printer) Downloading() {
	p.printf("%s\n", p.heading.Sprint("Downloading..."))
}

// Attachment prints one gathered attachment as "filename<TAB>url"
func (p *Printer) Attachment(att model.Attachment) {
	p.printf("%s\t%s\n", att.Filename, att.URL)
}

// Done prints the failures of the run and the closing banner
func (p *Printer) Done(summary *model.Summary) {
	if summary != nil && summary.HasFailures() {
		p.printf("\n%s\n", p.failure.Sprintf(" %d of %d downloads failed:", summary.Failed, summary.Total))
		for _, r := range summary.FailedResults() {
			p.printf("  %s: %v\n", r.Attachment.Filename, r.Err)
		}
	}
	p.printf("\n %s\n", p.heading.Sprint("All done!"))
}
