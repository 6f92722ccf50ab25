package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/timepouch/pkg/entry"
)

func TestPersistenceStoresEntries(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(NewMemory())

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := entry.New("work", start, "standup")
	require.NoError(t, p.StoreEntry(ctx, e))
	require.NotEmpty(t, e.ID)
	require.NotEmpty(t, e.Rev)

	got, err := p.Entry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Rev, got.Rev)
	assert.Equal(t, "work", got.Sheet)
	assert.Equal(t, "standup", got.Note)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.Open())

	end := start.Add(time.Hour)
	got.End = &end
	require.NoError(t, p.StoreEntry(ctx, got))
	assert.NotEqual(t, e.Rev, got.Rev)

	// The stale copy is rejected.
	e.Note = "stale"
	assert.ErrorIs(t, p.StoreEntry(ctx, e), ErrConflict)
}

func TestPersistenceEntryRejectsOtherKinds(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(NewMemory())

	_, err := p.SaveDocument(ctx, "metadata", "timepouch-meta", "", map[string]string{"a": "b"})
	require.NoError(t, err)

	_, err = p.Entry(ctx, "metadata")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := p.Entries(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPersistenceEntriesAndDelete(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(NewMemory())

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var all []*entry.Entry
	for _, sheet := range []string{"a", "b", "a"} {
		e := entry.New(sheet, now, "")
		require.NoError(t, p.StoreEntry(ctx, e))
		all = append(all, e)
	}

	onA, err := p.Entries(ctx, func(e *entry.Entry) bool { return e.Sheet == "a" })
	require.NoError(t, err)
	assert.Len(t, onA, 2)

	require.NoError(t, p.DeleteEntries(ctx, onA...))
	left, err := p.Entries(ctx, nil)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, all[1].ID, left[0].ID)

	// Already removed entries are not an error.
	require.NoError(t, p.DeleteEntries(ctx, onA...))
	require.NoError(t, p.DeleteEntries(ctx))
}

func TestPersistenceDocuments(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(NewMemory())

	type meta struct {
		Sheets []string `json:"sheets"`
	}

	rev, err := p.SaveDocument(ctx, "metadata", "timepouch-meta", "", meta{Sheets: []string{"default"}})
	require.NoError(t, err)

	var got meta
	loaded, err := p.LoadDocument(ctx, "metadata", &got)
	require.NoError(t, err)
	assert.Equal(t, rev, loaded)
	assert.Equal(t, []string{"default"}, got.Sheets)

	_, err = p.SaveDocument(ctx, "metadata", "timepouch-meta", "", meta{})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = p.LoadDocument(ctx, "nope", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}
