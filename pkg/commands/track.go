package commands

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/commands/options"
	"tableflip.dev/timepouch/pkg/runner/track"
	"tableflip.dev/timepouch/pkg/store"
)

func addIn(topLevel *cobra.Command) {
	sho := &options.SheetOptions{}
	to := &options.TimeOptions{}

	cmd := &cobra.Command{
		Use:   "in",
		Short: "Check in to the current sheet.",
		Example: `
tp in fixing the build
tp in --sheet work --at 09:00
tp in --at "2024-03-04 09:00" --end "2024-03-04 10:30" standup
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			now := time.Now()
			start, err := to.GetStart(now)
			if err != nil {
				return oo.HandleError(err)
			}
			end, err := to.GetEnd(now)
			if err != nil {
				return oo.HandleError(err)
			}
			opts := app.EditOptions{Sheet: sho.Sheet, Start: start, End: end}
			if note := strings.Join(args, " "); note != "" {
				opts.Note = &note
			}
			return run(func(tp *app.Timepouch, _ store.Config) error {
				n := track.In{Options: opts, Timepouch: tp}
				return n.Do(context.Background())
			})
		},
	}
	options.AddSheetArgs(cmd, sho)
	options.AddStartArg(cmd, to, "at")
	options.AddEndArg(cmd, to, "end")
	_ = cmd.RegisterFlagCompletionFunc("sheet", completeSheetFlag)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addOut(topLevel *cobra.Command) {
	sho := &options.SheetOptions{}
	to := &options.TimeOptions{}
	io := &options.IDOptions{}
	var note string

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Check out of the current sheet.",
		Example: `
tp out
tp out --sheet work --at 17:30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			end, err := to.GetEnd(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			opts := app.OutOptions{ID: io.ID, Sheet: sho.Sheet, End: end}
			if cmd.Flags().Changed("note") {
				opts.Note = &note
			}
			return run(func(tp *app.Timepouch, _ store.Config) error {
				o := track.Out{Options: opts, Timepouch: tp}
				return o.Do(context.Background())
			})
		},
	}
	options.AddSheetArgs(cmd, sho)
	options.AddEndArg(cmd, to, "at")
	options.AddIDArgs(cmd, io)
	cmd.Flags().StringVarP(&note, "note", "n", "", "Replace the note of the entry.")
	_ = cmd.RegisterFlagCompletionFunc("sheet", completeSheetFlag)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	sho := &options.SheetOptions{}
	to := &options.TimeOptions{}
	io := &options.IDOptions{}
	var (
		note   string
		reopen bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change the start, end, note or sheet of an entry.",
		Example: `
tp edit --id <entry id> --note "code review"
tp edit --id <entry id> --start 09:15 --end 10:00
tp edit --id <entry id> --reopen
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			now := time.Now()
			start, err := to.GetStart(now)
			if err != nil {
				return oo.HandleError(err)
			}
			end, err := to.GetEnd(now)
			if err != nil {
				return oo.HandleError(err)
			}
			opts := app.EditOptions{
				ID:     io.ID,
				Sheet:  sho.Sheet,
				Start:  start,
				End:    end,
				Reopen: reopen,
			}
			if cmd.Flags().Changed("note") {
				opts.Note = &note
			}
			return run(func(tp *app.Timepouch, _ store.Config) error {
				e := track.Edit{Options: opts, Timepouch: tp}
				return e.Do(context.Background())
			})
		},
	}
	options.AddIDArgs(cmd, io)
	options.AddSheetArgs(cmd, sho)
	options.AddStartArg(cmd, to, "start")
	options.AddEndArg(cmd, to, "end")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Replace the note.")
	cmd.Flags().BoolVar(&reopen, "reopen", false, "Clear the end time, checking the entry back in.")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.RegisterFlagCompletionFunc("sheet", completeSheetFlag)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
