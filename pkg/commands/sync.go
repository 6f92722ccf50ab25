package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/runner/sync"
	"tableflip.dev/timepouch/pkg/store"
)

func addSync(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replicate sheets and entries with a remote store.",
		Long:  base.Wrap80(`Sync pushes every local document to the remote and then pulls the remote's documents back. The remote is the argument, or the configured remote when none is given.`),
		Example: `
tp sync
tp sync nats://localhost:4222/timepouch
tp sync sqlite:///backup/timepouch.db
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(tp *app.Timepouch, cfg store.Config) error {
				s := sync.Sync{
					Remote:    cfg.Remote(),
					Timepouch: tp,
				}
				if len(args) == 1 {
					s.Remote = args[0]
				}
				return s.Do(context.Background())
			})
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
