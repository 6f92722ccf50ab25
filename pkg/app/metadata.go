package app

import (
	"context"
	"errors"
	"slices"
	"sort"

	"tableflip.dev/timepouch/pkg/store"
)

const (
	// MetadataID is the fixed document id of the metadata singleton.
	MetadataID = "metadata"
	// MetadataKind tags the metadata document.
	MetadataKind = "timepouch-meta"
)

// Metadata is the per-store record of sheets, the current sheet and the
// open entry of each checked-in sheet. It is loaded, changed and saved back
// by each operation; nothing holds on to it between calls.
type Metadata struct {
	ID  string `json:"-"`
	Rev string `json:"-"`

	Sheets       []string          `json:"sheets"`
	CurrentSheet string            `json:"current_sheet,omitempty"`
	Active       map[string]string `json:"active"`
}

// NewMetadata is the value used before anything was ever saved.
func NewMetadata() *Metadata {
	return &Metadata{
		ID:     MetadataID,
		Sheets: []string{},
		Active: map[string]string{},
	}
}

// Persisted reports whether m was loaded from or saved to the store.
func (m *Metadata) Persisted() bool {
	return m.Rev != ""
}

func (m *Metadata) HasSheet(name string) bool {
	return slices.Contains(m.Sheets, name)
}

// AddSheet appends name unless present and reports whether it did.
func (m *Metadata) AddSheet(name string) bool {
	if m.HasSheet(name) {
		return false
	}
	m.Sheets = append(m.Sheets, name)
	return true
}

// RemoveSheet drops name, clearing the current sheet if it was name. The
// active map is left alone.
func (m *Metadata) RemoveSheet(name string) bool {
	i := slices.Index(m.Sheets, name)
	if i < 0 {
		return false
	}
	m.Sheets = slices.Delete(m.Sheets, i, i+1)
	if m.CurrentSheet == name {
		m.CurrentSheet = ""
	}
	return true
}

// ActiveSheets returns the sheets with an open entry, sorted.
func (m *Metadata) ActiveSheets() []string {
	out := make([]string, 0, len(m.Active))
	for sheet := range m.Active {
		out = append(out, sheet)
	}
	sort.Strings(out)
	return out
}

// MetadataManager loads and saves the metadata singleton.
type MetadataManager struct {
	Persistence store.Persistence
}

// Load returns the stored metadata, or NewMetadata when none was saved yet.
func (mm *MetadataManager) Load(ctx context.Context) (*Metadata, error) {
	m := NewMetadata()
	rev, err := mm.Persistence.LoadDocument(ctx, MetadataID, m)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewMetadata(), nil
		}
		return nil, storeError("load metadata", err)
	}
	m.ID = MetadataID
	m.Rev = rev
	if m.Sheets == nil {
		m.Sheets = []string{}
	}
	if m.Active == nil {
		m.Active = map[string]string{}
	}
	return m, nil
}

// Require is Load, failing NoMetadataFound when nothing was ever saved.
func (mm *MetadataManager) Require(ctx context.Context) (*Metadata, error) {
	m, err := mm.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !m.Persisted() {
		return nil, newError(NoMetadataFound, "no metadata found; select a sheet first")
	}
	return m, nil
}

// Save upserts m by revision and refreshes m.Rev.
func (mm *MetadataManager) Save(ctx context.Context, m *Metadata) error {
	rev, err := mm.Persistence.SaveDocument(ctx, MetadataID, MetadataKind, m.Rev, m)
	if err != nil {
		return storeError("save metadata", err)
	}
	m.ID = MetadataID
	m.Rev = rev
	return nil
}
