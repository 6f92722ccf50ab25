package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/commands/options"
	"tableflip.dev/timepouch/pkg/store"
)

var (
	oo = &base.OutputOptions{}
	so = &options.StoreOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tp",
		Short: base.Wrap80("Time tracking on the command line. Check in and out of sheets and sync them anywhere."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(so.Logger())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddStoreArgs(cmd, so)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addSheet(topLevel)
	addRemoveSheet(topLevel)
	addSheets(topLevel)
	addIn(topLevel)
	addOut(topLevel)
	addEdit(topLevel)
	addDisplay(topLevel)
	addSync(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}

// open loads the config and starts opening its store. Callers close the
// returned Timepouch.
func open() (*app.Timepouch, store.Config, error) {
	cfg, err := so.Config()
	if err != nil {
		return nil, nil, err
	}
	return app.Open(cfg.Address(), app.WithLogger(slog.Default())), cfg, nil
}

// run opens the store, hands it to do and closes it again.
func run(do func(tp *app.Timepouch, cfg store.Config) error) error {
	tp, cfg, err := open()
	if err != nil {
		return oo.HandleError(err)
	}
	err = do(tp, cfg)
	if cerr := tp.Close(); err == nil {
		err = cerr
	}
	return oo.HandleError(err)
}

func sheetCompletions(toComplete string) []string {
	tp, _, err := open()
	if err != nil {
		return nil
	}
	defer tp.Close()

	list, err := tp.ListSheets(context.Background())
	if err != nil {
		return nil
	}
	var names []string
	for _, s := range list.Sheets {
		if strings.HasPrefix(s, toComplete) {
			names = append(names, s)
		}
	}
	return names
}

func completeSheet(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sheetCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeSheetFlag(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return sheetCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}
