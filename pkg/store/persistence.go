package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"tableflip.dev/timepouch/pkg/entry"
)

// Persistence is the typed view of a DocumentStore the application uses:
// entries by id or predicate, plus raw load/save for singleton documents.
type Persistence interface {
	Entry(ctx context.Context, id string) (*entry.Entry, error)
	// StoreEntry upserts e, assigning ID on first write and refreshing Rev.
	StoreEntry(ctx context.Context, e *entry.Entry) error
	DeleteEntries(ctx context.Context, entries ...*entry.Entry) error
	Entries(ctx context.Context, match func(*entry.Entry) bool) ([]*entry.Entry, error)

	// LoadDocument decodes the body of id into v and returns its revision.
	LoadDocument(ctx context.Context, id string, v any) (string, error)
	// SaveDocument upserts v under id and returns the new revision.
	SaveDocument(ctx context.Context, id, kind, rev string, v any) (string, error)

	Documents() DocumentStore
	Close() error
}

// NewPersistence wraps docs.
func NewPersistence(docs DocumentStore, opts ...Option) Persistence {
	o := newOptions(opts)
	return &persistence{docs: docs, logger: o.logger}
}

type persistence struct {
	docs   DocumentStore
	logger *slog.Logger
}

func decodeEntry(doc *Document) (*entry.Entry, error) {
	e := &entry.Entry{}
	if err := json.Unmarshal(doc.Body, e); err != nil {
		return nil, fmt.Errorf("store: decode entry %s: %w", doc.ID, err)
	}
	e.ID = doc.ID
	e.Rev = doc.Rev
	if e.Kind == "" {
		e.Kind = entry.Kind
	}
	return e, nil
}

func (p *persistence) Entry(ctx context.Context, id string) (*entry.Entry, error) {
	doc, err := p.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != entry.Kind {
		return nil, fmt.Errorf("%w: %s is not an entry", ErrNotFound, id)
	}
	return decodeEntry(doc)
}

func (p *persistence) StoreEntry(ctx context.Context, e *entry.Entry) error {
	e.Kind = entry.Kind
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	res, err := p.docs.Put(ctx, &Document{ID: e.ID, Rev: e.Rev, Kind: entry.Kind, Body: body})
	if err != nil {
		return err
	}
	e.ID = res.ID
	e.Rev = res.Rev
	return nil
}

// DeleteEntries removes every entry in one bulk write. Entries that are
// already gone count as removed; any other failure is returned joined.
func (p *persistence) DeleteEntries(ctx context.Context, entries ...*entry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]*Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, &Document{ID: e.ID, Rev: e.Rev, Kind: entry.Kind, Deleted: true})
	}
	var errs []error
	for _, res := range p.docs.BulkWrite(ctx, docs) {
		if res.Err != nil && !errors.Is(res.Err, ErrNotFound) {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

func (p *persistence) Entries(ctx context.Context, match func(*entry.Entry) bool) ([]*entry.Entry, error) {
	docs, err := p.docs.Query(ctx, entry.Kind, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*entry.Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := decodeEntry(doc)
		if err != nil {
			p.logger.Warn("skipping unreadable entry", "id", doc.ID, "error", err)
			continue
		}
		if match == nil || match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (p *persistence) LoadDocument(ctx context.Context, id string, v any) (string, error) {
	doc, err := p.docs.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(doc.Body, v); err != nil {
		return "", fmt.Errorf("store: decode %s: %w", id, err)
	}
	return doc.Rev, nil
}

func (p *persistence) SaveDocument(ctx context.Context, id, kind, rev string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	res, err := p.docs.Put(ctx, &Document{ID: id, Rev: rev, Kind: kind, Body: body})
	if err != nil {
		return "", err
	}
	return res.Rev, nil
}

func (p *persistence) Documents() DocumentStore {
	return p.docs
}

func (p *persistence) Close() error {
	return p.docs.Close()
}
