// Package track provides runners that check in, check out and edit entries.
package track

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/entry"
	"tableflip.dev/timepouch/pkg/timeutil"
)

// Tracker is the part of app.Timepouch the track runners need.
type Tracker interface {
	CheckIn(ctx context.Context, opts app.EditOptions) (*entry.Entry, error)
	CheckOut(ctx context.Context, opts app.OutOptions) (*entry.Entry, error)
	Edit(ctx context.Context, opts app.EditOptions) (*entry.Entry, error)
}

var errNoTimepouch = errors.New("can not track, no timepouch")

func out(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

// In checks in to Sheet, or the current sheet.
type In struct {
	Options   app.EditOptions
	Timepouch Tracker
	Out       io.Writer
}

func (n *In) Do(ctx context.Context) error {
	if n.Timepouch == nil {
		return errNoTimepouch
	}
	e, err := n.Timepouch.CheckIn(ctx, n.Options)
	if err != nil {
		return err
	}
	if e.Open() {
		_, _ = fmt.Fprintf(out(n.Out), "Checked into sheet %q\n", e.Sheet)
		return nil
	}
	_, _ = fmt.Fprintf(out(n.Out), "Recorded %s on sheet %q\n", timeutil.FormatClock(e.Duration(e.Start)), e.Sheet)
	return nil
}

// Out checks out of the open entry of a sheet.
type Out struct {
	Options   app.OutOptions
	Timepouch Tracker
	Out       io.Writer
}

func (o *Out) Do(ctx context.Context) error {
	if o.Timepouch == nil {
		return errNoTimepouch
	}
	e, err := o.Timepouch.CheckOut(ctx, o.Options)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out(o.Out), "Checked out of sheet %q after %s\n", e.Sheet, timeutil.FormatClock(e.Duration(e.Start)))
	return nil
}

// Edit changes an existing entry.
type Edit struct {
	Options   app.EditOptions
	Timepouch Tracker
	Out       io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Timepouch == nil {
		return errNoTimepouch
	}
	if n.Options.ID == "" {
		return errors.New("edit requires an entry id")
	}
	e, err := n.Timepouch.Edit(ctx, n.Options)
	if err != nil {
		return err
	}
	state := "checked out"
	if e.Open() {
		state = "checked in"
	}
	_, _ = fmt.Fprintf(out(n.Out), "Updated entry %s on sheet %q (%s)\n", e.ID, e.Sheet, state)
	return nil
}
