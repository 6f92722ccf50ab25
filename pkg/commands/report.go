package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/runner/report"
	"tableflip.dev/timepouch/pkg/store"
	"tableflip.dev/timepouch/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Total the time tracked per sheet",
		Long: `Report totals the time tracked on each sheet within the specified time window.
Entries crossing the start of the window are clipped to it and open entries count up to now.

Examples:
  tp report
  tp report --last 3d
  tp report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(tp *app.Timepouch, _ store.Config) error {
				r := report.Report{
					Last:      last,
					Timepouch: tp,
				}
				return r.Do(context.Background())
			})
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
