package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps one JSON file per document under a base directory,
// sharded into two-character subdirectories.
type DiskvStore struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
	logger   *slog.Logger
}

// OpenDiskv opens (creating if needed) a diskv store rooted at basePath.
func OpenDiskv(basePath string, opts ...Option) (*DiskvStore, error) {
	o := newOptions(opts)
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &DiskvStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// Other processes write the same files; a cache would hide them.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		logger:   o.logger,
	}, nil
}

// BasePath is the directory the store writes into.
func (s *DiskvStore) BasePath() string {
	return s.basePath
}

func (s *DiskvStore) read(id string) (*Document, error) {
	r, err := s.d.ReadStream(id, true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", id, err)
	}
	defer r.Close()
	val, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", id, err)
	}
	doc := &Document{}
	if err := json.Unmarshal(val, doc); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", id, err)
	}
	doc.ID = id
	return doc, nil
}

func (s *DiskvStore) Get(_ context.Context, id string) (*Document, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	doc, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Deleted {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

func (s *DiskvStore) Put(_ context.Context, doc *Document) (Result, error) {
	if err := prepare(doc); err != nil {
		return Result{}, err
	}
	return s.write(doc)
}

func (s *DiskvStore) Remove(_ context.Context, doc *Document) (Result, error) {
	t, err := prepareRemove(doc)
	if err != nil {
		return Result{}, err
	}
	return s.write(t)
}

func (s *DiskvStore) write(doc *Document) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.read(doc.ID)
	if err != nil {
		return Result{}, err
	}
	next, err := resolve(cur, doc)
	if err != nil {
		return Result{}, err
	}
	if err := s.store(next); err != nil {
		return Result{}, err
	}
	return Result{ID: next.ID, Rev: next.Rev}, nil
}

func (s *DiskvStore) store(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.d.Write(doc.ID, data); err != nil {
		return fmt.Errorf("store: write %s: %w", doc.ID, err)
	}
	return nil
}

func (s *DiskvStore) BulkWrite(ctx context.Context, docs []*Document) []Result {
	return bulk(ctx, s, docs)
}

func (s *DiskvStore) Query(ctx context.Context, kind string, match func(*Document) bool) ([]*Document, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Document, 0, len(all))
	for _, doc := range all {
		if matches(doc, kind, match) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// All reads every document, skipping (and logging) files that do not decode.
func (s *DiskvStore) All(ctx context.Context) ([]*Document, error) {
	keys := make([]string, 0)
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)

	all := make([]*Document, 0, len(keys))
	for _, key := range keys {
		doc, err := s.read(key)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "key", key, "error", err)
			continue
		}
		if doc != nil {
			all = append(all, doc)
		}
	}
	return all, nil
}

func (s *DiskvStore) Replace(_ context.Context, doc *Document) error {
	if err := validID(doc.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store(doc)
}

func (s *DiskvStore) Close() error {
	return nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{shard(key)},
		FileName: key,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

// shard uses the tail of the key; the head of a time-ordered id barely varies.
func shard(key string) string {
	if len(key) < 2 {
		return "_" + key
	}
	return key[len(key)-2:]
}
