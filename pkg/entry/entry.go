// Package entry defines a single recorded time interval on a sheet.
package entry

import (
	"fmt"
	"time"
)

// Kind tags entry documents so they can be told apart from the metadata
// document and from anything else living in the same store.
const Kind = "timepouch"

// New returns an open entry on sheet starting at start.
func New(sheet string, start time.Time, note string) *Entry {
	return &Entry{
		Sheet: sheet,
		Start: start,
		Note:  note,
		Kind:  Kind,
	}
}

// Entry is one work interval. A nil End means the entry is open.
type Entry struct {
	ID  string `json:"-"`
	Rev string `json:"-"`

	Sheet     string     `json:"sheet"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Note      string     `json:"note"`
	Timestamp time.Time  `json:"timestamp"`
	Kind      string     `json:"type"`
}

// Open reports whether the entry has not been checked out yet.
func (e *Entry) Open() bool {
	return e.End == nil
}

// Duration is the length of the interval. Open entries are measured up to now.
func (e *Entry) Duration(now time.Time) time.Duration {
	end := now
	if e.End != nil {
		end = *e.End
	}
	if end.Before(e.Start) {
		return 0
	}
	return end.Sub(e.Start)
}

func (e *Entry) String() string {
	end := "-"
	if e.End != nil {
		end = FormatTime(*e.End)
	}
	return fmt.Sprintf("%s [%s] %s..%s %s", e.ID, e.Sheet, FormatTime(e.Start), end, e.Note)
}
