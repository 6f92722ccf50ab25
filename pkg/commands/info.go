package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/runner/info"
	"tableflip.dev/timepouch/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the config, the store and its sheets.",
		Example: `
tp info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(tp *app.Timepouch, cfg store.Config) error {
				s := info.Info{
					Config:    cfg,
					Timepouch: tp,
				}
				return s.Do(context.Background())
			})
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
