package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/timeutil"
)

// FilterOptions are the display predicates.
type FilterOptions struct {
	Active bool
	Note   string
	Before string
	After  string
	Last   string
	Sort   string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().BoolVar(&o.Active, "active", false,
		"Only show entries that are still checked in.")
	cmd.Flags().StringVarP(&o.Note, "note", "n", "",
		"Only show entries whose note contains this text.")
	cmd.Flags().StringVar(&o.Before, "before", "",
		"Only show entries started before this time. "+timeHelp)
	cmd.Flags().StringVar(&o.After, "after", "",
		"Only show entries started at or after this time. "+timeHelp)
	cmd.Flags().StringVar(&o.Last, "last", "",
		`Only show entries started within this window, for example "1d" or "1w2d".`)
	cmd.Flags().StringVar(&o.Sort, "sort", app.SortStart,
		"Sort by one of "+strings.Join(app.SortFields, ", ")+".")
}

// Filter builds the query for sheet. --last sets After unless --after is given.
func (o *FilterOptions) Filter(sheet string, now time.Time) (app.Filter, error) {
	f := app.Filter{
		Active: o.Active,
		Note:   o.Note,
		Sheet:  sheet,
		Sort:   o.Sort,
	}
	var err error
	if f.Before, err = parseFlagTime("before", o.Before, now); err != nil {
		return app.Filter{}, err
	}
	if f.After, err = parseFlagTime("after", o.After, now); err != nil {
		return app.Filter{}, err
	}
	if o.Last != "" && f.After == nil {
		since, _, err := timeutil.Window(now, o.Last)
		if err != nil {
			return app.Filter{}, err
		}
		f.After = &since
	}
	return f, nil
}
