package printers

import (
	"encoding/csv"

	"tableflip.dev/timepouch/pkg/entry"
)

// Delimited writes a header row and one record per entry, separated by comma.
// Open entries have an empty end.
func (p *Printer) Delimited(entries []*entry.Entry, comma rune) error {
	w := csv.NewWriter(p.out())
	w.Comma = comma

	header := []string{"start", "end", "note", "sheet"}
	if p.Verbose {
		header = append(header, "id")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, e := range entries {
		end := ""
		if e.End != nil {
			end = p.local(*e.End).Format(dateTimeLayout)
		}
		record := []string{p.local(e.Start).Format(dateTimeLayout), end, e.Note, e.Sheet}
		if p.Verbose {
			record = append(record, e.ID)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
