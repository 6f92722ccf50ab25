package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the key-value bucket used when an address names none.
const DefaultBucket = "timepouch"

// KVStore keeps documents in a NATS JetStream key-value bucket, one key per
// document. Writes use the bucket's last-revision check, so two processes
// sharing a bucket see ErrConflict instead of overwriting each other.
type KVStore struct {
	nc     *nats.Conn
	bucket jetstream.KeyValue
	logger *slog.Logger
}

// OpenKV connects to the NATS server at url and creates or binds bucket.
func OpenKV(ctx context.Context, url, bucket string, opts ...Option) (*KVStore, error) {
	o := newOptions(opts)
	if bucket == "" {
		bucket = DefaultBucket
	}

	nc, err := nats.Connect(url, nats.Name("timepouch"))
	if err != nil {
		return nil, fmt.Errorf("store: connect %s: %w", url, err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("store: create JetStream context: %w", err)
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "timepouch time sheets",
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("store: create/update kv bucket %s: %w", bucket, err)
	}

	o.logger.Debug("opened kv store", "url", url, "bucket", bucket)
	return &KVStore{nc: nc, bucket: kv, logger: o.logger}, nil
}

// NewKVStore wraps an already bound bucket. Close leaves the connection open.
func NewKVStore(bucket jetstream.KeyValue, opts ...Option) *KVStore {
	o := newOptions(opts)
	return &KVStore{bucket: bucket, logger: o.logger}
}

// read returns the stored document and its bucket revision, or nil when the
// key has never been written.
func (s *KVStore) read(ctx context.Context, id string) (*Document, uint64, error) {
	kve, err := s.bucket.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("store: get %s: %w", id, err)
	}
	doc := &Document{}
	if err := json.Unmarshal(kve.Value(), doc); err != nil {
		return nil, 0, fmt.Errorf("store: decode %s: %w", id, err)
	}
	doc.ID = id
	return doc, kve.Revision(), nil
}

func (s *KVStore) Get(ctx context.Context, id string) (*Document, error) {
	doc, _, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Deleted {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

func (s *KVStore) Put(ctx context.Context, doc *Document) (Result, error) {
	if err := prepare(doc); err != nil {
		return Result{}, err
	}
	return s.write(ctx, doc)
}

func (s *KVStore) Remove(ctx context.Context, doc *Document) (Result, error) {
	t, err := prepareRemove(doc)
	if err != nil {
		return Result{}, err
	}
	return s.write(ctx, t)
}

func (s *KVStore) write(ctx context.Context, doc *Document) (Result, error) {
	cur, last, err := s.read(ctx, doc.ID)
	if err != nil {
		return Result{}, err
	}
	next, err := resolve(cur, doc)
	if err != nil {
		return Result{}, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return Result{}, err
	}

	if cur == nil {
		_, err = s.bucket.Create(ctx, next.ID, data)
	} else {
		_, err = s.bucket.Update(ctx, next.ID, data, last)
	}
	if err != nil {
		if isWrongLastSequence(err) {
			return Result{}, fmt.Errorf("%w: %s changed concurrently", ErrConflict, next.ID)
		}
		return Result{}, fmt.Errorf("store: write %s: %w", next.ID, err)
	}
	return Result{ID: next.ID, Rev: next.Rev}, nil
}

func isWrongLastSequence(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

func (s *KVStore) BulkWrite(ctx context.Context, docs []*Document) []Result {
	return bulk(ctx, s, docs)
}

func (s *KVStore) Query(ctx context.Context, kind string, match func(*Document) bool) ([]*Document, error) {
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

// All returns every document ordered by the stream sequence of its last write.
func (s *KVStore) All(ctx context.Context) ([]*Document, error) {
	keys, err := s.bucket.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []*Document{}, nil
		}
		return nil, fmt.Errorf("store: list keys: %w", err)
	}

	type sequenced struct {
		doc *Document
		seq uint64
	}
	found := make([]sequenced, 0, len(keys))
	for _, key := range keys {
		doc, seq, err := s.read(ctx, key)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "key", key, "error", err)
			continue
		}
		if doc != nil {
			found = append(found, sequenced{doc: doc, seq: seq})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	all := make([]*Document, len(found))
	for i, f := range found {
		all[i] = f.doc
	}
	return all, nil
}

func (s *KVStore) Replace(ctx context.Context, doc *Document) error {
	if err := validID(doc.ID); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := s.bucket.Put(ctx, doc.ID, data); err != nil {
		return fmt.Errorf("store: write %s: %w", doc.ID, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	if s.nc == nil {
		return nil
	}
	s.nc.Close()
	return nil
}
