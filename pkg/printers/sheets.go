package printers

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/timeutil"
)

// Sheets lists sheets, marking the current one with * and checked-in ones
// with a trailing note.
func (p *Printer) Sheets(list app.SheetList) {
	out := p.out()
	if len(list.Sheets) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " no sheets")
		return
	}

	current := color.New(color.Bold)
	in := color.New(color.FgHiGreen, color.Italic)
	for _, sheet := range list.Sheets {
		mark := " "
		name := sheet
		if sheet == list.Current {
			mark = "*"
			name = current.Sprint(sheet)
		}
		if slices.Contains(list.Active, sheet) {
			_, _ = fmt.Fprintf(out, "%s %s %s\n", mark, name, in.Sprint("(checked in)"))
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", mark, name)
	}
}

// Report prints the time per sheet followed by the total.
func (p *Printer) Report(res app.ReportResult) {
	out := p.out()
	bold := color.New(color.Bold, color.Underline)

	_, _ = bold.Fprintf(out, "%s - %s\n", p.local(res.Since).Format(dateTimeLayout), p.local(res.Until).Format(dateTimeLayout))
	if len(res.Sections) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " nothing tracked")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, section := range res.Sections {
		tbl.AddRow(section.Sheet, timeutil.FormatClock(section.Total), fmt.Sprintf("%d entries", len(section.Entries)))
	}
	tbl.AddRow(color.New(color.Bold).Sprint("Total"), timeutil.FormatClock(res.Total), "")
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(out, tbl)
}

// Stale prints active ids that no longer match their entry.
func (p *Printer) Stale(stale []app.StaleActive) {
	out := p.out()
	if len(stale) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	_, _ = warn.Fprintln(out, "Stale check-ins:")
	for _, s := range stale {
		_, _ = fmt.Fprintf(out, "  %s -> %s: %s\n", s.Sheet, s.ID, s.Reason)
	}
}
