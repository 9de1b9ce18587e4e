package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row matches the ID within the tenant.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when an optimistic update lost a race.
	ErrVersionConflict = errors.New("version conflict")
)

// ConstraintKind classifies integrity violations raised by the backend.
type ConstraintKind int

const (
	// ConstraintUnique is a duplicate natural key.
	ConstraintUnique ConstraintKind = iota + 1

	// ConstraintForeignKey is a missing parent or a parent still referenced.
	ConstraintForeignKey
)

// ConstraintError reports a storage-level integrity violation. Application
// checks run first; this surfaces races that slipped past them.
type ConstraintError struct {
	Kind ConstraintKind

	// Constraint names the violated key, e.g. "players.phone".
	Constraint string

	Err error
}

func (e *ConstraintError) Error() string {
	kind := "unique"
	if e.Kind == ConstraintForeignKey {
		kind = "foreign key"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s constraint %s violated: %v", kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s constraint %s violated", kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.Err }
