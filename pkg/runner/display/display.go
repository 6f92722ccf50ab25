// Package display provides the runner that queries and renders entries.
package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/entry"
	"tableflip.dev/timepouch/pkg/printers"
	"tableflip.dev/timepouch/pkg/store"
)

// Querier is the part of app.Timepouch Display needs.
type Querier interface {
	Query(ctx context.Context, f app.Filter) ([]*entry.Entry, error)
	ListSheets(ctx context.Context) (app.SheetList, error)
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Display prints the entries matching Filter. An empty Filter.Sheet means
// the current sheet unless All is set.
type Display struct {
	Filter  app.Filter
	All     bool
	Format  printers.Format
	Verbose bool
	// Watch re-renders on every store change until ctx is done.
	Watch bool

	Timepouch Querier
	Out       io.Writer
	Now       func() time.Time
}

func (d *Display) Do(ctx context.Context) error {
	if d.Timepouch == nil {
		return errors.New("can not display, no timepouch")
	}
	f := d.Filter
	if f.Sheet == "" && !d.All {
		list, err := d.Timepouch.ListSheets(ctx)
		if err != nil {
			return err
		}
		if list.Current == "" {
			return app.ErrNoSheetSelected
		}
		f.Sheet = list.Current
	}

	if err := d.render(ctx, f); err != nil {
		return err
	}
	if !d.Watch {
		return nil
	}

	events, err := d.Timepouch.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if d.Format == printers.Text {
				_, _ = fmt.Fprintln(d.out())
			}
			if err := d.render(ctx, f); err != nil {
				return err
			}
		}
	}
}

func (d *Display) render(ctx context.Context, f app.Filter) error {
	entries, err := d.Timepouch.Query(ctx, f)
	if err != nil {
		return err
	}
	p := printers.Printer{Out: d.Out, Verbose: d.Verbose, Now: d.Now}
	return p.Entries(d.Format, entries)
}

func (d *Display) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return color.Output
}
