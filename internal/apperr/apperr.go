// Package apperr holds the error kinds services return and handlers map to
// HTTP statuses.
package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by owner-scoped lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// ValidationError reports missing or invalid input. The calculation is
// blocked before any cost is computed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid is a shorthand for &ValidationError{Field: field, Reason: reason}.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// MissingReferenceError means a usage line names a material that no longer
// exists for the owner. Saving is aborted.
type MissingReferenceError struct {
	MaterialID uuid.UUID
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("material %s no longer exists", e.MaterialID)
}

// PersistenceError wraps any failure of the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a *PersistenceError unless it is nil or already
// one of the kinds above.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var mr *MissingReferenceError
	var pe *PersistenceError
	if errors.Is(err, ErrNotFound) || errors.As(err, &ve) || errors.As(err, &mr) || errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
