package commands

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/commands/options"
	"tableflip.dev/timepouch/pkg/runner/display"
	"tableflip.dev/timepouch/pkg/store"
)

func addDisplay(topLevel *cobra.Command) {
	sho := &options.SheetOptions{}
	fo := &options.FilterOptions{}
	po := &options.FormatOptions{}
	var watch bool

	cmd := &cobra.Command{
		Use:     "display",
		Aliases: []string{"d", "show"},
		Short:   "Display the entries of the current sheet.",
		Example: `
tp display
tp display --all --last 1w --format csv
tp display --sheet work --note review --sort end -v
tp display --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			filter, err := fo.Filter(sho.Sheet, time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			return run(func(tp *app.Timepouch, cfg store.Config) error {
				format, err := po.Resolve(cfg.Format())
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				d := display.Display{
					Filter:    filter,
					All:       sho.All,
					Format:    format,
					Verbose:   po.Verbose,
					Watch:     watch,
					Timepouch: tp,
				}
				return d.Do(ctx)
			})
		},
	}
	options.AddSheetArgs(cmd, sho)
	options.AddAllSheetsArg(cmd, sho)
	options.AddFilterArgs(cmd, fo)
	options.AddFormatArgs(cmd, po)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and redisplay whenever the store changes.")
	cmd.MarkFlagsMutuallyExclusive("sheet", "all")
	_ = cmd.RegisterFlagCompletionFunc("sheet", completeSheetFlag)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
