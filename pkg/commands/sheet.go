package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/runner/sheet"
	"tableflip.dev/timepouch/pkg/store"
)

func addSheet(topLevel *cobra.Command) {
	var name string

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Select a sheet, creating it if needed.",
		Example: `
tp sheet <name>
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a sheet name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		ValidArgsFunction: completeSheet,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(tp *app.Timepouch, _ store.Config) error {
				s := sheet.Select{
					Name:      name,
					Timepouch: tp,
				}
				return s.Do(context.Background())
			})
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addRemoveSheet(topLevel *cobra.Command) {
	var entries bool

	cmd := &cobra.Command{
		Use:   "rmsheet",
		Short: "Remove a sheet, the current one when no name is given.",
		Example: `
tp rmsheet
tp rmsheet <name> --entries
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSheet,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(tp *app.Timepouch, _ store.Config) error {
				r := sheet.Remove{
					Entries:   entries,
					Timepouch: tp,
				}
				if len(args) == 1 {
					r.Name = args[0]
				}
				return r.Do(context.Background())
			})
		},
	}
	cmd.Flags().BoolVar(&entries, "entries", false, "Also delete every entry of the sheet.")
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addSheets(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "sheets",
		Aliases: []string{"list"},
		Short:   "List sheets. The current one is marked with *.",
		Example: `
tp sheets
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(tp *app.Timepouch, _ store.Config) error {
				l := sheet.List{Timepouch: tp}
				return l.Do(context.Background())
			})
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
