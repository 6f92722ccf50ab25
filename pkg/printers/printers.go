// Package printers renders entries, sheets and reports for the terminal or
// for other programs.
package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/timepouch/pkg/entry"
)

// Format selects how entries are rendered.
type Format string

const (
	Text Format = "text"
	CSV  Format = "csv"
	TSV  Format = "tsv"
)

// Formats lists every supported Format.
var Formats = []Format{Text, CSV, TSV}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q, expected one of text, csv, tsv", s)
}

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// Printer writes to Out, color.Output when nil.
type Printer struct {
	Out io.Writer
	// Verbose adds entry ids.
	Verbose bool
	// Now measures open entries, time.Now when nil.
	Now func() time.Time
	// Location for rendered times, time.Local when nil.
	Location *time.Location
}

func (p *Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return color.Output
}

func (p *Printer) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Printer) local(t time.Time) time.Time {
	if p.Location != nil {
		return t.In(p.Location)
	}
	return t.Local()
}

// Entries renders entries in format f.
func (p *Printer) Entries(f Format, entries []*entry.Entry) error {
	switch f {
	case Text, "":
		return p.Text(entries)
	case CSV:
		return p.Delimited(entries, ',')
	case TSV:
		return p.Delimited(entries, '\t')
	}
	return fmt.Errorf("unknown format %q", f)
}
