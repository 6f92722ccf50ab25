package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	open func(t *testing.T) DocumentStore
}

func backends() []backend {
	return []backend{{
		name: "memory",
		open: func(t *testing.T) DocumentStore { return NewMemory() },
	}, {
		name: "diskv",
		open: func(t *testing.T) DocumentStore {
			s, err := OpenDiskv(t.TempDir())
			require.NoError(t, err)
			return s
		},
	}, {
		name: "sqlite",
		open: func(t *testing.T) DocumentStore {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "tp.db"))
			require.NoError(t, err)
			return s
		},
	}}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s DocumentStore)) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

func body(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestPutCreatesAndUpdates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		ctx := context.Background()

		res, err := s.Put(ctx, &Document{Kind: "note", Body: body(t, map[string]string{"n": "a"})})
		require.NoError(t, err)
		require.NotEmpty(t, res.ID)
		assert.Equal(t, 1, Generation(res.Rev))

		got, err := s.Get(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, res.Rev, got.Rev)
		assert.Equal(t, "note", got.Kind)
		assert.JSONEq(t, `{"n":"a"}`, string(got.Body))

		res2, err := s.Put(ctx, &Document{ID: res.ID, Rev: res.Rev, Kind: "note", Body: body(t, map[string]string{"n": "b"})})
		require.NoError(t, err)
		assert.Equal(t, 2, Generation(res2.Rev))

		got, err = s.Get(ctx, res.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":"b"}`, string(got.Body))
	})
}

func TestPutStaleRevisionConflicts(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		ctx := context.Background()

		res, err := s.Put(ctx, &Document{ID: "doc", Kind: "note"})
		require.NoError(t, err)
		_, err = s.Put(ctx, &Document{ID: "doc", Rev: res.Rev, Kind: "note"})
		require.NoError(t, err)

		_, err = s.Put(ctx, &Document{ID: "doc", Rev: res.Rev, Kind: "note"})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = s.Put(ctx, &Document{ID: "doc", Kind: "note"})
		assert.ErrorIs(t, err, ErrConflict, "create over a live document")

		_, err = s.Put(ctx, &Document{ID: "other", Rev: "1-abc", Kind: "note"})
		assert.ErrorIs(t, err, ErrConflict, "update of a missing document")
	})
}

func TestRemoveLeavesTombstone(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		ctx := context.Background()

		res, err := s.Put(ctx, &Document{ID: "doc", Kind: "note"})
		require.NoError(t, err)

		rm, err := s.Remove(ctx, &Document{ID: "doc", Rev: res.Rev})
		require.NoError(t, err)
		assert.Equal(t, 2, Generation(rm.Rev))

		_, err = s.Get(ctx, "doc")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.Remove(ctx, &Document{ID: "doc", Rev: rm.Rev})
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := s.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].Deleted)
		assert.Equal(t, rm.Rev, all[0].Rev)

		docs, err := s.Query(ctx, "note", nil)
		require.NoError(t, err)
		assert.Empty(t, docs)

		// Recreating continues the tombstone's generation.
		again, err := s.Put(ctx, &Document{ID: "doc", Kind: "note"})
		require.NoError(t, err)
		assert.Equal(t, 3, Generation(again.Rev))
	})
}

func TestRemoveRequiresID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		_, err := s.Remove(context.Background(), &Document{})
		assert.Error(t, err)
	})
}

func TestQueryFiltersByKind(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		ctx := context.Background()

		for _, doc := range []*Document{
			{ID: "a", Kind: "note", Body: body(t, map[string]int{"n": 1})},
			{ID: "b", Kind: "note", Body: body(t, map[string]int{"n": 2})},
			{ID: "c", Kind: "meta"},
		} {
			_, err := s.Put(ctx, doc)
			require.NoError(t, err)
		}

		notes, err := s.Query(ctx, "note", nil)
		require.NoError(t, err)
		assert.Len(t, notes, 2)

		even, err := s.Query(ctx, "note", func(d *Document) bool {
			var v map[string]int
			return json.Unmarshal(d.Body, &v) == nil && v["n"]%2 == 0
		})
		require.NoError(t, err)
		require.Len(t, even, 1)
		assert.Equal(t, "b", even[0].ID)

		everything, err := s.Query(ctx, "", nil)
		require.NoError(t, err)
		assert.Len(t, everything, 3)
	})
}

func TestBulkWriteReportsPerDocument(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		ctx := context.Background()

		a, err := s.Put(ctx, &Document{ID: "a", Kind: "note"})
		require.NoError(t, err)
		b, err := s.Put(ctx, &Document{ID: "b", Kind: "note"})
		require.NoError(t, err)

		results := s.BulkWrite(ctx, []*Document{
			{ID: "a", Rev: a.Rev, Deleted: true},
			{ID: "b", Rev: "1-stale", Deleted: true},
			{ID: "missing", Rev: "1-x", Deleted: true},
			{ID: "c", Kind: "note"},
		})
		require.Len(t, results, 4)
		assert.NoError(t, results[0].Err)
		assert.ErrorIs(t, results[1].Err, ErrConflict)
		assert.ErrorIs(t, results[2].Err, ErrNotFound)
		assert.NoError(t, results[3].Err)
		assert.Equal(t, "c", results[3].ID)

		_, err = s.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrNotFound)
		got, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, b.Rev, got.Rev)
	})
}

func TestInvalidIDsRejected(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		for _, id := range []string{".hidden", "a/b", `a\b`} {
			_, err := s.Put(context.Background(), &Document{ID: id, Kind: "note"})
			assert.Error(t, err, id)
		}
	})
}

func TestReplaceKeepsRevision(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DocumentStore) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, &Document{ID: "doc", Rev: "7-feed", Kind: "note"}))

		got, err := s.Get(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, "7-feed", got.Rev)

		_, err = s.Put(ctx, &Document{ID: "doc", Rev: "7-feed", Kind: "note"})
		require.NoError(t, err)
	})
}

func TestWins(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2-aaa", "1-fff", true},
		{"1-fff", "2-aaa", false},
		{"3-bbb", "3-aaa", true},
		{"3-aaa", "3-bbb", false},
		{"10-a", "9-z", true},
		{"1-a", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Wins(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestNewIDIsTimeOrdered(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestDiskvSeesOtherHandlesWrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := OpenDiskv(dir)
	require.NoError(t, err)
	b, err := OpenDiskv(dir)
	require.NoError(t, err)

	first, err := a.Put(ctx, &Document{ID: "doc", Kind: "note", Body: body(t, map[string]int{"v": 1})})
	require.NoError(t, err)
	_, err = a.Get(ctx, "doc")
	require.NoError(t, err)

	_, err = b.Put(ctx, &Document{ID: "doc", Rev: first.Rev, Kind: "note", Body: body(t, map[string]int{"v": 2})})
	require.NoError(t, err)

	got, err := a.Get(ctx, "doc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got.Body))

	_, err = a.Put(ctx, &Document{ID: "doc", Rev: first.Rev, Kind: "note", Body: body(t, map[string]int{"v": 3})})
	assert.ErrorIs(t, err, ErrConflict)
}
