// Package store holds the document store timepouch persists into, the
// backends that implement it, replication between two stores, and the
// typed entry adapter the application layer talks to.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a document does not exist or was removed.
	ErrNotFound = errors.New("store: document not found")
	// ErrConflict is returned when a write carries a stale revision.
	ErrConflict = errors.New("store: document update conflict")
)

// Document is the unit the store persists. Body holds the caller's JSON.
type Document struct {
	ID      string          `json:"_id"`
	Rev     string          `json:"_rev,omitempty"`
	Kind    string          `json:"type"`
	Deleted bool            `json:"_deleted,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// Clone returns a copy that does not share the body buffer.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	if d.Body != nil {
		cp.Body = append(json.RawMessage(nil), d.Body...)
	}
	return &cp
}

// Result reports the outcome of writing one document.
type Result struct {
	ID  string
	Rev string
	Err error
}

// DocumentStore is a revisioned key/document store. Put is an upsert: an
// empty Rev creates the document, a matching Rev updates it, anything else
// fails with ErrConflict. Remove leaves a tombstone so deletions replicate.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*Document, error)
	Put(ctx context.Context, doc *Document) (Result, error)
	Remove(ctx context.Context, doc *Document) (Result, error)
	BulkWrite(ctx context.Context, docs []*Document) []Result
	// Query returns live documents of kind accepted by match, in store order.
	Query(ctx context.Context, kind string, match func(*Document) bool) ([]*Document, error)
	// All returns every document including tombstones.
	All(ctx context.Context) ([]*Document, error)
	// Replace writes doc exactly as given, revision included.
	Replace(ctx context.Context, doc *Document) error
	Close() error
}

// NewID returns a time-ordered identifier, so lexical order is creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Generation is the numeric prefix of a revision, 0 when absent.
func Generation(rev string) int {
	head, _, ok := strings.Cut(rev, "-")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}

// Wins reports whether revision a supersedes revision b.
func Wins(a, b string) bool {
	ga, gb := Generation(a), Generation(b)
	if ga != gb {
		return ga > gb
	}
	return a > b
}

func nextRev(prev string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s", Generation(prev)+1, suffix[:16])
}

func validID(id string) error {
	switch {
	case id == "":
		return errors.New("store: empty document id")
	case strings.HasPrefix(id, "."), strings.ContainsAny(id, `/\`):
		return fmt.Errorf("store: invalid document id %q", id)
	}
	return nil
}

// resolve computes what to persist for doc given the stored document cur
// (nil when absent). Every backend funnels its writes through here so the
// revision rules are identical everywhere.
func resolve(cur, doc *Document) (*Document, error) {
	live := cur != nil && !cur.Deleted
	if doc.Deleted {
		if !live {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, doc.ID)
		}
		if doc.Rev != cur.Rev {
			return nil, fmt.Errorf("%w: %s has %s, got %q", ErrConflict, doc.ID, cur.Rev, doc.Rev)
		}
		return &Document{ID: cur.ID, Rev: nextRev(cur.Rev), Kind: cur.Kind, Deleted: true}, nil
	}

	base := ""
	switch {
	case live:
		if doc.Rev != cur.Rev {
			return nil, fmt.Errorf("%w: %s has %s, got %q", ErrConflict, doc.ID, cur.Rev, doc.Rev)
		}
		base = cur.Rev
	case cur != nil:
		if doc.Rev != "" {
			return nil, fmt.Errorf("%w: %s was removed", ErrConflict, doc.ID)
		}
		base = cur.Rev
	default:
		if doc.Rev != "" {
			return nil, fmt.Errorf("%w: %s does not exist", ErrConflict, doc.ID)
		}
	}
	next := doc.Clone()
	next.Rev = nextRev(base)
	return next, nil
}

// prepare assigns an id to new documents and validates it.
func prepare(doc *Document) error {
	if doc == nil {
		return errors.New("store: nil document")
	}
	if doc.ID == "" {
		doc.ID = NewID()
	}
	return validID(doc.ID)
}

// prepareRemove turns doc into the tombstone request Remove resolves.
func prepareRemove(doc *Document) (*Document, error) {
	if doc == nil {
		return nil, errors.New("store: nil document")
	}
	t := &Document{ID: doc.ID, Rev: doc.Rev, Kind: doc.Kind, Deleted: true}
	return t, validID(t.ID)
}

func bulk(ctx context.Context, s DocumentStore, docs []*Document) []Result {
	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		var (
			res Result
			err error
		)
		if doc != nil && doc.Deleted {
			res, err = s.Remove(ctx, doc)
		} else {
			res, err = s.Put(ctx, doc)
		}
		if err != nil {
			res = Result{Err: err}
			if doc != nil {
				res.ID = doc.ID
			}
		}
		results = append(results, res)
	}
	return results
}

func matches(doc *Document, kind string, match func(*Document) bool) bool {
	if doc.Deleted {
		return false
	}
	if kind != "" && doc.Kind != kind {
		return false
	}
	return match == nil || match(doc)
}
