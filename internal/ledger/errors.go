package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

var (
	// ErrNotFound is returned for missing entities and for entities owned by
	// another tenant. It carries no detail on purpose.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentUpdate is returned when a transaction kept losing the
	// optimistic version check on a period.
	ErrConcurrentUpdate = errors.New("period was modified concurrently, try again")
)

// ValidationError reports a rejected command attributed to one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ConflictError reports a uniqueness violation. Names lists the offending
// entities when the command touched several of them.
type ConflictError struct {
	Field   string
	Message string
	Names   []string
}

func (e *ConflictError) Error() string {
	if len(e.Names) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Names, ", "))
	}
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// translate maps model and storage errors onto the ledger taxonomy. Errors
// already in the taxonomy and unknown errors pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErr *models.FieldError
	if errors.As(err, &fieldErr) {
		return &ValidationError{Field: fieldErr.Field, Message: fieldErr.Message}
	}

	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}

	var cerr *storage.ConstraintError
	if errors.As(err, &cerr) {
		switch cerr.Kind {
		case storage.ConstraintUnique:
			return conflictFor(cerr.Constraint)
		case storage.ConstraintForeignKey:
			if cerr.Constraint == "monthly_records.player_id" {
				return invalid("player", "player has payment history and cannot be deleted, deactivate instead")
			}
			return invalid("period_id", "referenced entity does not belong to this account")
		}
	}

	return err
}

func conflictFor(constraint string) *ConflictError {
	switch constraint {
	case "players.phone":
		return &ConflictError{Field: "phone", Message: "a player with this phone already exists"}
	case "periods.year_month":
		return &ConflictError{Field: "month", Message: "a period for this month already exists"}
	case "monthly_records.player_period":
		return &ConflictError{Field: "player_ids", Message: "players are already in this period"}
	case "users.email":
		return &ConflictError{Field: "email", Message: "email already registered"}
	}
	return &ConflictError{Field: "id", Message: "entity already exists"}
}
