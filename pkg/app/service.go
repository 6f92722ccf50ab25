package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tableflip.dev/timepouch/pkg/store"
)

// Service provides the sheet and entry operations over one store. It holds
// no state of its own between calls; metadata is loaded and saved by each
// operation.
type Service struct {
	Persistence store.Persistence
	Metadata    *MetadataManager

	// Now is the clock, time.Now when nil.
	Now func() time.Time
	// Remote opens sync targets, store.Open when nil.
	Remote func(ctx context.Context, address string) (store.DocumentStore, error)
	Logger *slog.Logger
}

// NewService wires a Service over p with the default clock and logger.
func NewService(p store.Persistence, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Persistence: p,
		Metadata:    &MetadataManager{Persistence: p},
		Logger:      logger,
	}
}

var errNoPersistence = &Error{Kind: StorageError, Reason: "app: no persistence configured"}

func (s *Service) ready() error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if s.Metadata == nil {
		s.Metadata = &MetadataManager{Persistence: s.Persistence}
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Watch subscribes to store change events when the backend supports it.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	w, ok := s.Persistence.Documents().(store.Watcher)
	if !ok {
		return nil, errors.New("app: store does not support watching")
	}
	return w.Watch(ctx)
}

// StaleActive is an active map entry that no longer matches its entry.
type StaleActive struct {
	Sheet  string
	ID     string
	Reason string
}

// Stale reports every active id whose entry is missing, closed, or on a
// different sheet. Nothing is repaired.
func (s *Service) Stale(ctx context.Context) ([]StaleActive, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	m, err := s.Metadata.Load(ctx)
	if err != nil {
		return nil, err
	}

	var stale []StaleActive
	for _, sheet := range m.ActiveSheets() {
		id := m.Active[sheet]
		e, err := s.Persistence.Entry(ctx, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			stale = append(stale, StaleActive{Sheet: sheet, ID: id, Reason: "entry does not exist"})
		case err != nil:
			return nil, storeError("load entry", err)
		case !e.Open():
			stale = append(stale, StaleActive{Sheet: sheet, ID: id, Reason: "entry is checked out"})
		case e.Sheet != sheet:
			stale = append(stale, StaleActive{Sheet: sheet, ID: id, Reason: "entry is on sheet " + e.Sheet})
		case !m.HasSheet(sheet):
			stale = append(stale, StaleActive{Sheet: sheet, ID: id, Reason: "sheet was removed"})
		}
	}
	return stale, nil
}
