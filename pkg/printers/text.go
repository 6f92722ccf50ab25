package printers

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/timepouch/pkg/entry"
	"tableflip.dev/timepouch/pkg/timeutil"
)

// Text renders a table grouped by start date followed by the total time.
// The date is only printed on the first entry of each day.
func (p *Printer) Text(entries []*entry.Entry) error {
	out := p.out()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	active := color.New(color.FgHiGreen)

	if len(entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " no entries")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []any{bold.Sprint("Date"), bold.Sprint("Start"), bold.Sprint("End"), bold.Sprint("Duration"), bold.Sprint("Note")}
	if p.Verbose {
		header = append(header, bold.Sprint("Id"))
	}
	tbl.AddRow(header...)

	now := p.now()
	var (
		total    time.Duration
		lastDate string
	)
	for _, e := range entries {
		start := p.local(e.Start)
		d := e.Duration(now)
		total += d

		date := start.Format(dateLayout)
		if date == lastDate {
			date = ""
		} else {
			lastDate = date
		}

		end := active.Sprint("-")
		if e.End != nil {
			local := p.local(*e.End)
			if !entry.SameDay(start, local) {
				end = local.Format(dateTimeLayout)
			} else {
				end = local.Format(timeLayout)
			}
		}

		row := []any{date, start.Format(timeLayout), end, timeutil.FormatClock(d), e.Note}
		if p.Verbose {
			row = append(row, faint.Sprint(e.ID))
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(3)

	if _, err := fmt.Fprintln(out, tbl); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%s %s\n", bold.Sprint("Total:"), timeutil.FormatClock(total))
	return err
}
