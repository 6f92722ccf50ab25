// Package report provides the runner that totals tracked time per sheet.
package report

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/printers"
	"tableflip.dev/timepouch/pkg/timeutil"
)

// Reporter is the part of app.Timepouch Report needs.
type Reporter interface {
	Report(ctx context.Context, since, until time.Time) (app.ReportResult, error)
}

// Report prints the time tracked in the window Last ending now.
type Report struct {
	Last      string
	Timepouch Reporter
	Out       io.Writer
	Now       func() time.Time
}

func (r *Report) Do(ctx context.Context) error {
	if r.Timepouch == nil {
		return errors.New("can not report, no timepouch")
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	last := r.Last
	if last == "" {
		last = timeutil.DefaultWindow
	}
	since, until, err := timeutil.Window(now, last)
	if err != nil {
		return err
	}
	res, err := r.Timepouch.Report(ctx, since, until)
	if err != nil {
		return err
	}
	p := printers.Printer{Out: r.Out, Now: r.Now}
	p.Report(res)
	return nil
}
