// Package sheet provides runners that select, remove and list sheets.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/printers"
)

// Sheets is the part of app.Timepouch the sheet runners need.
type Sheets interface {
	SelectOrCreateSheet(ctx context.Context, name string) (bool, error)
	RemoveSheet(ctx context.Context, ref app.SheetRef, cascade bool) (app.Removal, error)
	ListSheets(ctx context.Context) (app.SheetList, error)
}

var errNoTimepouch = errors.New("can not run, no timepouch")

func out(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

// Select makes Name the current sheet, creating it when new.
type Select struct {
	Name      string
	Timepouch Sheets
	Out       io.Writer
}

func (s *Select) Do(ctx context.Context) error {
	if s.Timepouch == nil {
		return errNoTimepouch
	}
	changed, err := s.Timepouch.SelectOrCreateSheet(ctx, s.Name)
	if err != nil {
		return err
	}
	if changed {
		_, _ = fmt.Fprintf(out(s.Out), "> selected sheet %s\n", s.Name)
	} else {
		_, _ = fmt.Fprintf(out(s.Out), "> already in sheet %s\n", s.Name)
	}
	return nil
}

// Remove deletes a sheet, the current one when Name is empty.
type Remove struct {
	Name string
	// Entries also deletes the entries of the sheet.
	Entries   bool
	Timepouch Sheets
	Out       io.Writer
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Timepouch == nil {
		return errNoTimepouch
	}
	ref := app.CurrentSheet()
	if r.Name != "" {
		ref = app.Sheet(r.Name)
	}
	removed, err := r.Timepouch.RemoveSheet(ctx, ref, r.Entries)
	if err != nil {
		return err
	}
	if r.Entries {
		_, _ = fmt.Fprintf(out(r.Out), "> removed sheet %s and its entries\n", removed.Sheet)
		return nil
	}
	_, _ = fmt.Fprintf(out(r.Out), "> removed sheet %s\n", removed.Sheet)
	return nil
}

// List prints every sheet.
type List struct {
	Timepouch Sheets
	Out       io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Timepouch == nil {
		return errNoTimepouch
	}
	list, err := l.Timepouch.ListSheets(ctx)
	if err != nil {
		return err
	}
	p := printers.Printer{Out: l.Out}
	p.Sheets(list)
	return nil
}
