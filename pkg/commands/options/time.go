package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/timepouch/pkg/entry"
)

const timeHelp = `Accepts "2006-01-02 15:04[:05]", "2006-01-02", "15:04" (today) or RFC3339.`

// TimeOptions hold the raw start and end flags of in, out and edit.
type TimeOptions struct {
	Start string
	End   string
}

// AddStartArg registers the start flag under name, "at" for in and "start"
// for edit.
func AddStartArg(cmd *cobra.Command, o *TimeOptions, name string) {
	cmd.Flags().StringVar(&o.Start, name, "",
		"Start time. "+timeHelp)
}

// AddEndArg registers the end flag under name, "at" for out and "end"
// otherwise.
func AddEndArg(cmd *cobra.Command, o *TimeOptions, name string) {
	cmd.Flags().StringVar(&o.End, name, "",
		"End time. "+timeHelp)
}

func (o *TimeOptions) GetStart(now time.Time) (*time.Time, error) {
	return parseFlagTime("start", o.Start, now)
}

func (o *TimeOptions) GetEnd(now time.Time) (*time.Time, error) {
	return parseFlagTime("end", o.End, now)
}

func parseFlagTime(name, v string, now time.Time) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := entry.ParseTime(v, now)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}
