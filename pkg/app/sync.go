package app

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/timepouch/pkg/store"
)

// SyncResult counts the documents written in each direction.
type SyncResult struct {
	Pushed int
	Pulled int
}

// Sync pushes local documents to the store at remote, then pulls the
// remote's back. It is not coordinated with check-ins running meanwhile.
func (s *Service) Sync(ctx context.Context, remote string) (SyncResult, error) {
	if err := s.ready(); err != nil {
		return SyncResult{}, err
	}
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return SyncResult{}, newError(InvalidArgument, "no remote to sync with")
	}

	open := s.Remote
	if open == nil {
		open = func(ctx context.Context, address string) (store.DocumentStore, error) {
			return store.Open(ctx, address, store.WithLogger(s.log()))
		}
	}
	dst, err := open(ctx, remote)
	if err != nil {
		return SyncResult{}, replicationError("open "+remote, err)
	}
	defer func() {
		if err := dst.Close(); err != nil {
			s.log().Warn("close remote", "remote", remote, "error", err)
		}
	}()

	local := s.Persistence.Documents()
	pushed, err := store.Replicate(ctx, local, dst)
	if err != nil {
		return SyncResult{Pushed: pushed}, replicationError("push to "+remote, err)
	}
	pulled, err := store.Replicate(ctx, dst, local)
	if err != nil {
		return SyncResult{Pushed: pushed, Pulled: pulled}, replicationError("pull from "+remote, err)
	}

	s.log().Debug("synced", "remote", remote, "pushed", pushed, "pulled", pulled)
	return SyncResult{Pushed: pushed, Pulled: pulled}, nil
}

func replicationError(op string, err error) error {
	return &Error{Kind: ReplicationError, Reason: fmt.Sprintf("sync: %s: %v", op, err), Err: err}
}
