package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var (
	namedMu     sync.Mutex
	namedMemory = map[string]*MemoryStore{}
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*Document
}

// NewMemory returns an empty, unnamed memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

// NamedMemory returns the memory store registered under name, creating it on
// first use. Opening "mem://x" twice yields the same store.
func NamedMemory(name string) *MemoryStore {
	namedMu.Lock()
	defer namedMu.Unlock()
	if m, ok := namedMemory[name]; ok {
		return m
	}
	m := NewMemory()
	namedMemory[name] = m
	return m
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.Deleted {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc.Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, doc *Document) (Result, error) {
	if err := prepare(doc); err != nil {
		return Result{}, err
	}
	return m.write(doc)
}

func (m *MemoryStore) Remove(_ context.Context, doc *Document) (Result, error) {
	t, err := prepareRemove(doc)
	if err != nil {
		return Result{}, err
	}
	return m.write(t)
}

func (m *MemoryStore) write(doc *Document) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := resolve(m.docs[doc.ID], doc)
	if err != nil {
		return Result{}, err
	}
	m.docs[next.ID] = next
	return Result{ID: next.ID, Rev: next.Rev}, nil
}

func (m *MemoryStore) BulkWrite(ctx context.Context, docs []*Document) []Result {
	return bulk(ctx, m, docs)
}

func (m *MemoryStore) Query(_ context.Context, kind string, match func(*Document) bool) ([]*Document, error) {
	var out []*Document
	for _, doc := range m.snapshot() {
		if matches(doc, kind, match) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *MemoryStore) All(_ context.Context) ([]*Document, error) {
	return m.snapshot(), nil
}

func (m *MemoryStore) Replace(_ context.Context, doc *Document) error {
	if err := validID(doc.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc.Clone()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// snapshot returns copies of every document ordered by id.
func (m *MemoryStore) snapshot() []*Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Document, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, doc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
