// Package sync provides the runner that replicates with a remote store.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/timepouch/pkg/app"
)

// Syncer is the part of app.Timepouch Sync needs.
type Syncer interface {
	Sync(ctx context.Context, remote string) (app.SyncResult, error)
}

// Sync pushes to and pulls from Remote.
type Sync struct {
	Remote    string
	Timepouch Syncer
	Out       io.Writer
}

func (s *Sync) Do(ctx context.Context) error {
	if s.Timepouch == nil {
		return errors.New("can not sync, no timepouch")
	}
	if s.Remote == "" {
		return fmt.Errorf("%w: pass a remote or set remote in the config", app.ErrInvalidArgument)
	}
	res, err := s.Timepouch.Sync(ctx, s.Remote)
	if err != nil {
		return err
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "Synced with %s: %d pushed, %d pulled\n", s.Remote, res.Pushed, res.Pulled)
	return nil
}
