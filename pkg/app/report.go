package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/timepouch/pkg/entry"
)

// ReportItem is an entry and the part of it that falls inside the window.
type ReportItem struct {
	Entry    *entry.Entry
	Duration time.Duration
}

// ReportSection groups the entries of one sheet.
type ReportSection struct {
	Sheet   string
	Entries []ReportItem
	Total   time.Duration
}

// ReportResult summarises the time tracked in a window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    time.Duration
}

// Report returns the time tracked on each sheet between the provided bounds.
// Entries overlapping a bound are clipped to it; open entries run to now.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if err := s.ready(); err != nil {
		return ReportResult{}, err
	}
	if since.After(until) {
		since, until = until, since
	}
	now := s.now()

	all, err := s.query(ctx, Filter{Before: &until})
	if err != nil {
		return ReportResult{}, err
	}

	grouped := make(map[string]*ReportSection)
	var total time.Duration
	for _, e := range all {
		d := overlap(e, since, until, now)
		if d <= 0 {
			continue
		}
		section, ok := grouped[e.Sheet]
		if !ok {
			section = &ReportSection{Sheet: e.Sheet}
			grouped[e.Sheet] = section
		}
		section.Entries = append(section.Entries, ReportItem{Entry: e, Duration: d})
		section.Total += d
		total += d
	}

	sheets := make([]string, 0, len(grouped))
	for sheet := range grouped {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	sections := make([]ReportSection, 0, len(sheets))
	for _, sheet := range sheets {
		sections = append(sections, *grouped[sheet])
	}

	return ReportResult{
		Since:    since,
		Until:    until,
		Sections: sections,
		Total:    total,
	}, nil
}

func overlap(e *entry.Entry, since, until, now time.Time) time.Duration {
	start := e.Start
	if start.Before(since) {
		start = since
	}
	end := now
	if e.End != nil {
		end = *e.End
	}
	if end.After(until) {
		end = until
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}
