package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/timepouch/pkg/store"
)

func TestMetadataLoadDefault(t *testing.T) {
	s, _, docs := newTestService(t)

	m, err := s.Metadata.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, m.Persisted())
	assert.Empty(t, m.Sheets)
	assert.NotNil(t, m.Active)
	assert.Empty(t, m.CurrentSheet)
	assert.Zero(t, docs.Puts(), "loading does not persist the default")
}

func TestMetadataRequire(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	_, err := s.Metadata.Require(ctx)
	assert.ErrorIs(t, err, ErrNoMetadataFound)

	selectSheet(t, s, "a")
	m, err := s.Metadata.Require(ctx)
	require.NoError(t, err)
	assert.True(t, m.Persisted())
	assert.Equal(t, MetadataID, m.ID)
}

func TestMetadataSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	m := NewMetadata()
	m.AddSheet("a")
	m.AddSheet("b")
	assert.False(t, m.AddSheet("a"))
	m.CurrentSheet = "b"
	m.Active["a"] = "entry-1"
	require.NoError(t, s.Metadata.Save(ctx, m))
	require.True(t, m.Persisted())

	got, err := s.Metadata.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.Rev, got.Rev)
	assert.Equal(t, []string{"a", "b"}, got.Sheets)
	assert.Equal(t, "b", got.CurrentSheet)
	assert.Equal(t, map[string]string{"a": "entry-1"}, got.Active)

	// A second fresh value is a stale create.
	err = s.Metadata.Save(ctx, NewMetadata())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMetadataRemoveSheet(t *testing.T) {
	m := NewMetadata()
	m.AddSheet("a")
	m.AddSheet("b")
	m.CurrentSheet = "a"
	m.Active["a"] = "x"

	assert.True(t, m.RemoveSheet("a"))
	assert.False(t, m.RemoveSheet("a"))
	assert.Equal(t, []string{"b"}, m.Sheets)
	assert.Empty(t, m.CurrentSheet)
	assert.Equal(t, "x", m.Active["a"])
}

type failingStore struct {
	store.DocumentStore
	err error
}

func (f failingStore) Get(context.Context, string) (*store.Document, error) {
	return nil, f.err
}

func TestMetadataStorageError(t *testing.T) {
	boom := errors.New("io error")
	s := NewService(store.NewPersistence(failingStore{DocumentStore: store.NewMemory(), err: boom}), nil)

	_, err := s.Metadata.Load(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, err = s.SelectOrCreateSheet(context.Background(), "a")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestErrorMatching(t *testing.T) {
	err := newError(SheetNotFound, "sheet %q does not exist", "x")
	assert.ErrorIs(t, err, ErrSheetNotFound)
	assert.NotErrorIs(t, err, ErrNotCheckedIn)
	assert.Equal(t, `sheet "x" does not exist`, err.Error())
	assert.Equal(t, "NotCheckedIn", ErrNotCheckedIn.Error())
}
