package commands

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func addUpgrade(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade tp cli.",
		Example: `
tp upgrade
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ex := exec.Command("go", "install", "tableflip.dev/timepouch/cmd/tp@latest")
			var out bytes.Buffer
			ex.Stdout = &out
			ex.Stderr = &out
			if err := ex.Run(); err != nil {
				return oo.HandleError(fmt.Errorf("%s: %w\n%s", ex.String(), err, out.String()))
			}
			fmt.Printf("%s\n", ex.String())
			return nil
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
