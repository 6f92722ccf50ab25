package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/printers"
	"tableflip.dev/timepouch/pkg/store"
)

// Inspector is the part of app.Timepouch Info needs.
type Inspector interface {
	Address() string
	ListSheets(ctx context.Context) (app.SheetList, error)
	Stale(ctx context.Context) ([]app.StaleActive, error)
}

type Info struct {
	Config    store.Config
	Timepouch Inspector
	Out       io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv(store.ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintf(out, "%s found on env, using %s\n", store.ConfigPathEnv, override)
	} else {
		_, _ = fmt.Fprintf(out, "%s env var not set\n", store.ConfigPathEnv)
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if file := n.Config.File(); file != "" {
		_, _ = fmt.Fprintf(out, "Config file: %s\n", file)
	}
	_, _ = fmt.Fprintf(out, "Config.path: %s\n", n.Config.Address())
	if remote := n.Config.Remote(); remote != "" {
		_, _ = fmt.Fprintf(out, "Config.remote: %s\n", remote)
	}

	if n.Timepouch == nil {
		return fmt.Errorf("failed to open the store")
	}
	_, _ = fmt.Fprintf(out, "Store: %s\n", n.Timepouch.Address())

	list, err := n.Timepouch.ListSheets(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Sheets:")
	p := printers.Printer{Out: out}
	p.Sheets(list)

	stale, err := n.Timepouch.Stale(ctx)
	if err != nil {
		return err
	}
	p.Stale(stale)
	return nil
}
