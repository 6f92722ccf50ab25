package app

import (
	"errors"
	"fmt"

	"tableflip.dev/timepouch/pkg/store"
)

// Kind classifies an Error.
type Kind string

const (
	NoMetadataFound  Kind = "NoMetadataFound"
	NoSheetSelected  Kind = "NoSheetSelected"
	NoSheetSpecified Kind = "NoSheetSpecified"
	SheetNotFound    Kind = "SheetNotFound"
	AlreadyCheckedIn Kind = "AlreadyCheckedIn"
	NotCheckedIn     Kind = "NotCheckedIn"
	InvalidArgument  Kind = "InvalidArgument"
	ConflictError    Kind = "ConflictError"
	StorageError     Kind = "StorageError"
	ReplicationError Kind = "ReplicationError"
)

// Error is returned by every Service operation. Reason is meant for humans.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotCheckedIn)
// works regardless of Reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoMetadataFound  = &Error{Kind: NoMetadataFound}
	ErrNoSheetSelected  = &Error{Kind: NoSheetSelected}
	ErrNoSheetSpecified = &Error{Kind: NoSheetSpecified}
	ErrSheetNotFound    = &Error{Kind: SheetNotFound}
	ErrAlreadyCheckedIn = &Error{Kind: AlreadyCheckedIn}
	ErrNotCheckedIn     = &Error{Kind: NotCheckedIn}
	ErrInvalidArgument  = &Error{Kind: InvalidArgument}
	ErrConflict         = &Error{Kind: ConflictError}
	ErrStorage          = &Error{Kind: StorageError}
	ErrReplication      = &Error{Kind: ReplicationError}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// storeError translates a store failure during op.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	kind := StorageError
	if errors.Is(err, store.ErrConflict) {
		kind = ConflictError
	}
	return &Error{Kind: kind, Reason: fmt.Sprintf("%s: %v", op, err), Err: err}
}
