package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/timepouch/pkg/entry"
	"tableflip.dev/timepouch/pkg/queue"
	"tableflip.dev/timepouch/pkg/store"
)

// Timepouch is the caller-facing handle on one store. It is usable as soon
// as Open returns: calls made while the store is still opening are queued
// and run in order once it is ready.
type Timepouch struct {
	address string
	gate    *queue.Gate
	svc     *Service

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Timepouch.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger for the service and its store.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open starts opening the store at address in the background.
func Open(address string, opts ...Option) *Timepouch {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return start(address, o, func(ctx context.Context) (store.DocumentStore, error) {
		return store.Open(ctx, address, store.WithLogger(o.logger))
	})
}

func start(address string, o options, open func(ctx context.Context) (store.DocumentStore, error)) *Timepouch {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	t := &Timepouch{address: address, gate: queue.NewGate()}
	go t.init(o, open)
	return t
}

func (t *Timepouch) init(o options, open func(ctx context.Context) (store.DocumentStore, error)) {
	ctx := context.Background()
	docs, err := open(ctx)
	if err != nil {
		t.gate.Fail(&Error{Kind: StorageError, Reason: fmt.Sprintf("open %s: %v", t.address, err), Err: err})
		return
	}

	svc := NewService(store.NewPersistence(docs, store.WithLogger(o.logger)), o.logger)
	svc.Now = o.now
	if _, err := svc.Metadata.Load(ctx); err != nil {
		_ = docs.Close()
		t.gate.Fail(err)
		return
	}
	t.svc = svc
	o.logger.Debug("store ready", "address", t.address)
	t.gate.Open()
}

// call submits fn to the gate and waits for its result. It must not be used
// from inside another queued call.
func call[T any](t *Timepouch, fn func(*Service) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	t.gate.Submit(func(err error) {
		if err != nil {
			done <- result{err: err}
			return
		}
		v, err := fn(t.svc)
		done <- result{v: v, err: err}
	})
	r := <-done
	return r.v, r.err
}

// Address is the store address given to Open.
func (t *Timepouch) Address() string {
	return t.address
}

func (t *Timepouch) SelectOrCreateSheet(ctx context.Context, name string) (bool, error) {
	return call(t, func(s *Service) (bool, error) { return s.SelectOrCreateSheet(ctx, name) })
}

func (t *Timepouch) RemoveSheet(ctx context.Context, ref SheetRef, cascade bool) (Removal, error) {
	return call(t, func(s *Service) (Removal, error) { return s.RemoveSheet(ctx, ref, cascade) })
}

func (t *Timepouch) ListSheets(ctx context.Context) (SheetList, error) {
	return call(t, func(s *Service) (SheetList, error) { return s.ListSheets(ctx) })
}

func (t *Timepouch) CheckIn(ctx context.Context, opts EditOptions) (*entry.Entry, error) {
	return call(t, func(s *Service) (*entry.Entry, error) { return s.CheckIn(ctx, opts) })
}

func (t *Timepouch) Edit(ctx context.Context, opts EditOptions) (*entry.Entry, error) {
	return call(t, func(s *Service) (*entry.Entry, error) { return s.Edit(ctx, opts) })
}

func (t *Timepouch) CheckOut(ctx context.Context, opts OutOptions) (*entry.Entry, error) {
	return call(t, func(s *Service) (*entry.Entry, error) { return s.CheckOut(ctx, opts) })
}

func (t *Timepouch) Query(ctx context.Context, f Filter) ([]*entry.Entry, error) {
	return call(t, func(s *Service) ([]*entry.Entry, error) { return s.Query(ctx, f) })
}

func (t *Timepouch) Sync(ctx context.Context, remote string) (SyncResult, error) {
	return call(t, func(s *Service) (SyncResult, error) { return s.Sync(ctx, remote) })
}

func (t *Timepouch) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	return call(t, func(s *Service) (ReportResult, error) { return s.Report(ctx, since, until) })
}

func (t *Timepouch) Stale(ctx context.Context) ([]StaleActive, error) {
	return call(t, func(s *Service) ([]StaleActive, error) { return s.Stale(ctx) })
}

func (t *Timepouch) Watch(ctx context.Context) (<-chan store.Event, error) {
	return call(t, func(s *Service) (<-chan store.Event, error) { return s.Watch(ctx) })
}

// Close waits for pending calls and closes the store. A store that failed to
// open has nothing to close. Safe to call more than once.
func (t *Timepouch) Close() error {
	t.closeOnce.Do(func() {
		_, err := call(t, func(s *Service) (struct{}, error) {
			return struct{}{}, s.Persistence.Close()
		})
		if err != nil && t.gate.Err() == nil {
			t.closeErr = err
		}
	})
	return t.closeErr
}
