package app

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"tableflip.dev/timepouch/pkg/entry"
)

// Sort fields accepted by Filter.Sort.
const (
	SortStart     = "start"
	SortEnd       = "end"
	SortSheet     = "sheet"
	SortNote      = "note"
	SortTimestamp = "timestamp"
	SortID        = "id"
)

// SortFields lists the accepted Filter.Sort values.
var SortFields = []string{SortStart, SortEnd, SortSheet, SortNote, SortTimestamp, SortID}

// Filter selects entries. Set fields are combined with AND; Before and After
// bound the start time only.
type Filter struct {
	// Before keeps entries that started strictly before it.
	Before *time.Time
	// After keeps entries that started at or after it.
	After *time.Time
	// Active keeps open entries only.
	Active bool
	// Note keeps entries whose note contains it.
	Note  string
	Sheet string
	// Sort is the ascending sort field, SortStart when empty.
	Sort string
}

func (f Filter) match(e *entry.Entry) bool {
	switch {
	case f.Before != nil && !e.Start.Before(*f.Before):
		return false
	case f.After != nil && e.Start.Before(*f.After):
		return false
	case f.Active && !e.Open():
		return false
	case f.Note != "" && !strings.Contains(e.Note, f.Note):
		return false
	case f.Sheet != "" && e.Sheet != f.Sheet:
		return false
	}
	return true
}

func compareBy(field string) (func(a, b *entry.Entry) int, bool) {
	switch field {
	case "", SortStart:
		return func(a, b *entry.Entry) int { return a.Start.Compare(b.Start) }, true
	case SortEnd:
		return func(a, b *entry.Entry) int {
			switch {
			case a.End == nil && b.End == nil:
				return 0
			case a.End == nil:
				return 1
			case b.End == nil:
				return -1
			}
			return a.End.Compare(*b.End)
		}, true
	case SortSheet:
		return func(a, b *entry.Entry) int { return cmp.Compare(a.Sheet, b.Sheet) }, true
	case SortNote:
		return func(a, b *entry.Entry) int { return cmp.Compare(a.Note, b.Note) }, true
	case SortTimestamp:
		return func(a, b *entry.Entry) int { return a.Timestamp.Compare(b.Timestamp) }, true
	case SortID:
		return func(a, b *entry.Entry) int { return cmp.Compare(a.ID, b.ID) }, true
	}
	return nil, false
}

// Query returns every entry accepted by f, sorted ascending by f.Sort. Ties
// keep the order the store returned them in.
func (s *Service) Query(ctx context.Context, f Filter) ([]*entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.query(ctx, f)
}

func (s *Service) query(ctx context.Context, f Filter) ([]*entry.Entry, error) {
	compare, ok := compareBy(f.Sort)
	if !ok {
		return nil, newError(InvalidArgument, "cannot sort by %q; use one of %s", f.Sort, strings.Join(SortFields, ", "))
	}
	entries, err := s.Persistence.Entries(ctx, f.match)
	if err != nil {
		return nil, storeError("query entries", err)
	}
	slices.SortStableFunc(entries, compare)
	return entries, nil
}
