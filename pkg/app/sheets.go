package app

import (
	"context"
	"strings"
)

// SheetRef names the sheet to act on: either by name or "whatever is
// current when the operation runs".
type SheetRef struct {
	Name       string
	UseCurrent bool
}

func Sheet(name string) SheetRef { return SheetRef{Name: name} }

func CurrentSheet() SheetRef { return SheetRef{UseCurrent: true} }

// SheetList is the sheet projection of the metadata.
type SheetList struct {
	Sheets  []string
	Current string
	// Active holds the sheets with an open entry.
	Active []string
}

// Removal is the result of RemoveSheet.
type Removal struct {
	Sheet string
	OK    bool
}

// SelectOrCreateSheet makes name current, registering it if new. It reports
// false, and writes nothing, when name already was current.
func (s *Service) SelectOrCreateSheet(ctx context.Context, name string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, newError(InvalidArgument, "sheet name must not be empty")
	}

	m, err := s.Metadata.Load(ctx)
	if err != nil {
		return false, err
	}
	if m.CurrentSheet == name {
		return false, nil
	}

	created := m.AddSheet(name)
	m.CurrentSheet = name
	if err := s.Metadata.Save(ctx, m); err != nil {
		return false, err
	}
	s.log().Debug("selected sheet", "sheet", name, "created", created)
	return true, nil
}

// RemoveSheet unregisters a sheet, and with cascade deletes its entries
// first. Entry deletion and the metadata save are separate writes; if the
// second fails the first is not undone.
func (s *Service) RemoveSheet(ctx context.Context, ref SheetRef, cascade bool) (Removal, error) {
	if err := s.ready(); err != nil {
		return Removal{}, err
	}
	load := s.Metadata.Load
	if ref.UseCurrent {
		load = s.Metadata.Require
	}
	m, err := load(ctx)
	if err != nil {
		return Removal{}, err
	}

	name := strings.TrimSpace(ref.Name)
	if ref.UseCurrent {
		name = m.CurrentSheet
	}
	if name == "" {
		return Removal{}, newError(NoSheetSpecified, "no sheet specified")
	}
	if !m.HasSheet(name) {
		return Removal{}, newError(SheetNotFound, "sheet %q does not exist", name)
	}

	m.RemoveSheet(name)

	if cascade {
		entries, err := s.query(ctx, Filter{Sheet: name})
		if err != nil {
			return Removal{}, err
		}
		if err := s.Persistence.DeleteEntries(ctx, entries...); err != nil {
			return Removal{}, storeError("delete entries of "+name, err)
		}
		s.log().Debug("deleted sheet entries", "sheet", name, "count", len(entries))
	}

	if err := s.Metadata.Save(ctx, m); err != nil {
		return Removal{}, err
	}
	s.log().Debug("removed sheet", "sheet", name, "cascade", cascade)
	return Removal{Sheet: name, OK: true}, nil
}

// ListSheets reads only the metadata.
func (s *Service) ListSheets(ctx context.Context) (SheetList, error) {
	if err := s.ready(); err != nil {
		return SheetList{}, err
	}
	m, err := s.Metadata.Load(ctx)
	if err != nil {
		return SheetList{}, err
	}
	return SheetList{
		Sheets:  m.Sheets,
		Current: m.CurrentSheet,
		Active:  m.ActiveSheets(),
	}, nil
}
