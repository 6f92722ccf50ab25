package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/entry"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func init() {
	color.NoColor = true
}

func fixture() []*entry.Entry {
	end1 := t0.Add(90 * time.Minute)
	end2 := t0.Add(3 * time.Hour)
	a := &entry.Entry{ID: "id-a", Sheet: "work", Start: t0, End: &end1, Note: "build, test"}
	b := &entry.Entry{ID: "id-b", Sheet: "work", Start: t0.Add(2 * time.Hour), End: &end2, Note: "deploy"}
	c := &entry.Entry{ID: "id-c", Sheet: "home", Start: t0.Add(24 * time.Hour), Note: "open"}
	return []*entry.Entry{a, b, c}
}

func newPrinter(buf *bytes.Buffer, verbose bool) *Printer {
	return &Printer{
		Out:      buf,
		Verbose:  verbose,
		Now:      func() time.Time { return t0.Add(25 * time.Hour) },
		Location: time.UTC,
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"text", "CSV", " tsv "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestTextGroupsByDateAndTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, false).Entries(Text, fixture()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Date")
	assert.NotContains(t, lines[0], "Id")

	assert.True(t, strings.HasPrefix(lines[1], "2024-03-04"))
	assert.Contains(t, lines[1], "1:30:00")
	assert.Contains(t, lines[1], "build, test")

	// Same day: date column left blank.
	assert.False(t, strings.HasPrefix(lines[2], "2024-03-04"))
	assert.Contains(t, lines[2], "11:00:00")

	assert.True(t, strings.HasPrefix(lines[3], "2024-03-05"))
	assert.Contains(t, lines[3], " - ")
	assert.Contains(t, lines[3], "1:00:00")

	assert.Equal(t, "Total: 3:30:00", lines[4])
}

func TestTextEndOnAnotherDay(t *testing.T) {
	end := t0.Add(16 * time.Hour)
	e := &entry.Entry{Sheet: "work", Start: t0, End: &end, Note: "release"}

	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, false).Text([]*entry.Entry{e}))
	assert.Contains(t, buf.String(), "2024-03-05 01:00:00")
}

func TestTextVerboseShowsIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, true).Text(fixture()))
	assert.Contains(t, buf.String(), "Id")
	assert.Contains(t, buf.String(), "id-b")
}

func TestTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, false).Text(nil))
	assert.Contains(t, buf.String(), "no entries")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, false).Entries(CSV, fixture()))
	assert.Equal(t, strings.Join([]string{
		"start,end,note,sheet",
		`2024-03-04 09:00:00,2024-03-04 10:30:00,"build, test",work`,
		"2024-03-04 11:00:00,2024-03-04 12:00:00,deploy,work",
		"2024-03-05 09:00:00,,open,home",
		"",
	}, "\n"), buf.String())
}

func TestTSVVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, true).Entries(TSV, fixture()[:1]))
	assert.Equal(t, "start\tend\tnote\tsheet\tid\n"+
		"2024-03-04 09:00:00\t2024-03-04 10:30:00\tbuild, test\twork\tid-a\n", buf.String())
}

func TestSheets(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, false).Sheets(app.SheetList{
		Sheets:  []string{"a", "b", "c"},
		Current: "b",
		Active:  []string{"c"},
	})
	assert.Equal(t, "  a\n* b\n  c (checked in)\n", buf.String())

	buf.Reset()
	newPrinter(&buf, false).Sheets(app.SheetList{})
	assert.Contains(t, buf.String(), "no sheets")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, false).Report(app.ReportResult{
		Since: t0,
		Until: t0.Add(24 * time.Hour),
		Sections: []app.ReportSection{
			{Sheet: "home", Total: time.Hour, Entries: make([]app.ReportItem, 1)},
			{Sheet: "work", Total: 2 * time.Hour, Entries: make([]app.ReportItem, 2)},
		},
		Total: 3 * time.Hour,
	})
	out := buf.String()
	assert.Contains(t, out, "2024-03-04 09:00:00 - 2024-03-05 09:00:00")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "2:00:00")
	assert.Contains(t, out, "3:00:00")
}

func TestStale(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, false).Stale([]app.StaleActive{{Sheet: "s", ID: "x", Reason: "entry does not exist"}})
	assert.Contains(t, buf.String(), "s -> x: entry does not exist")

	buf.Reset()
	newPrinter(&buf, false).Stale(nil)
	assert.Empty(t, buf.String())
}
