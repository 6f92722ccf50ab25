package entry

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutISO      = "2006-01-02"
	layoutMinute   = "2006-01-02 15:04"
	layoutSecond   = "2006-01-02 15:04:05"
	layoutClock    = "15:04"
	layoutClockSec = "15:04:05"
)

// ParseTime reads the time formats accepted on the command line. Clock-only
// values are placed on the day of now; everything without a zone is local.
func ParseTime(v string, now time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	for _, layout := range []string{layoutSecond, layoutMinute, layoutISO} {
		if t, err := time.ParseInLocation(layout, v, now.Location()); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{layoutClockSec, layoutClock} {
		if t, err := time.ParseInLocation(layout, v, now.Location()); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, now.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q (try \"2006-01-02 15:04\" or \"15:04\")", v)
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339)
}
