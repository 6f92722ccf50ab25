package options

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/timepouch/pkg/store"
)

// StoreOptions are the persistent flags shared by every command.
type StoreOptions struct {
	Path  string
	Debug bool
}

func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVarP(&o.Path, "path", "p", "",
		"Store address, overriding the configured path. A directory, sqlite:///file.db, nats://host:4222/bucket or mem://name.")
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false,
		"Log debug output to stderr.")
}

// Config loads the configuration, applying the --path override.
func (o *StoreOptions) Config() (store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.Path == "" {
		return cfg, nil
	}
	return overridden{Config: cfg, address: o.Path}, nil
}

// Logger is a text logger on stderr, at debug level with --debug.
func (o *StoreOptions) Logger() *slog.Logger {
	level := slog.LevelWarn
	if o.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type overridden struct {
	store.Config
	address string
}

func (o overridden) Address() string { return o.address }
