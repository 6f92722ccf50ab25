package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/timepouch/pkg/entry"
	"tableflip.dev/timepouch/pkg/store"
)

// EditOptions describes a check-in (ID empty) or an edit of entry ID. Nil
// fields keep their previous value, or the default on check-in.
type EditOptions struct {
	ID    string
	Sheet string
	Start *time.Time
	End   *time.Time
	Note  *string
	// Reopen clears End, checking the entry back in.
	Reopen bool
}

// OutOptions describes a check-out. Without ID the open entry of Sheet, or of
// the current sheet, is closed.
type OutOptions struct {
	ID    string
	Sheet string
	End   *time.Time
	Note  *string
}

// CheckIn starts a new entry. An End makes it a finished interval that never
// becomes active.
func (s *Service) CheckIn(ctx context.Context, opts EditOptions) (*entry.Entry, error) {
	if opts.ID != "" {
		return nil, newError(InvalidArgument, "check in creates a new entry; edit %s instead", opts.ID)
	}
	return s.Edit(ctx, opts)
}

// Edit creates an entry when opts.ID is empty and otherwise changes the given
// fields of an existing one. The entry is written before the metadata that
// points at it.
func (s *Service) Edit(ctx context.Context, opts EditOptions) (*entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if opts.Reopen && opts.End != nil {
		return nil, newError(InvalidArgument, "cannot both set an end time and reopen")
	}

	m, err := s.Metadata.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var (
		e         *entry.Entry
		prevSheet string
	)
	if opts.ID != "" {
		e, err = s.Persistence.Entry(ctx, opts.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, newError(InvalidArgument, "entry %s does not exist", opts.ID)
			}
			return nil, storeError("load entry", err)
		}
		prevSheet = e.Sheet
	}

	sheet := strings.TrimSpace(opts.Sheet)
	if sheet == "" && e != nil {
		sheet = e.Sheet
	}
	if sheet == "" {
		sheet = m.CurrentSheet
	}
	if sheet == "" {
		return nil, newError(NoSheetSelected, "no sheet selected")
	}

	if e == nil {
		if _, open := m.Active[sheet]; open {
			return nil, newError(AlreadyCheckedIn, "already checked in to sheet %q", sheet)
		}
		start := now
		if opts.Start != nil {
			start = *opts.Start
		}
		e = entry.New(sheet, start, "")
	} else {
		e.Sheet = sheet
		if opts.Start != nil {
			e.Start = *opts.Start
		}
	}
	if opts.End != nil {
		end := *opts.End
		e.End = &end
	}
	if opts.Reopen {
		e.End = nil
	}
	if opts.Note != nil {
		e.Note = *opts.Note
	}

	if e.End != nil && e.End.Before(e.Start) {
		return nil, newError(InvalidArgument, "end %s is before start %s",
			entry.FormatTime(*e.End), entry.FormatTime(e.Start))
	}
	if e.Open() && e.ID != "" {
		if cur, ok := m.Active[sheet]; ok && cur != e.ID {
			return nil, newError(AlreadyCheckedIn, "sheet %q already has open entry %s", sheet, cur)
		}
	}

	e.Timestamp = now
	if err := s.Persistence.StoreEntry(ctx, e); err != nil {
		return nil, storeError("store entry", err)
	}

	if prevSheet != "" && prevSheet != sheet && m.Active[prevSheet] == e.ID {
		delete(m.Active, prevSheet)
	}
	if e.Open() {
		m.Active[sheet] = e.ID
	} else if m.Active[sheet] == e.ID {
		delete(m.Active, sheet)
	}
	m.AddSheet(sheet)

	if err := s.Metadata.Save(ctx, m); err != nil {
		return nil, err
	}
	s.log().Debug("stored entry", "id", e.ID, "sheet", sheet, "open", e.Open())
	return e, nil
}

// CheckOut closes the entry named by opts, ending it now unless End is set.
func (s *Service) CheckOut(ctx context.Context, opts OutOptions) (*entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	m, err := s.Metadata.Load(ctx)
	if err != nil {
		return nil, err
	}

	sheet := strings.TrimSpace(opts.Sheet)
	if sheet == "" {
		sheet = m.CurrentSheet
	}
	id := opts.ID
	if id == "" && sheet != "" {
		id = m.Active[sheet]
	}
	if id == "" {
		if sheet == "" {
			return nil, newError(NotCheckedIn, "not checked in")
		}
		return nil, newError(NotCheckedIn, "not checked in to sheet %q", sheet)
	}

	end := s.now()
	if opts.End != nil {
		end = *opts.End
	}
	return s.Edit(ctx, EditOptions{ID: id, End: &end, Note: opts.Note})
}
