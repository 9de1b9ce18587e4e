package models

import (
	"fmt"
	"strings"
	"time"
)

// FieldError reports a single invalid field. Factories and mutators return it
// so callers can attribute the failure without parsing messages.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Day truncates t to a calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire and storage layout for calendar days.
const DateLayout = "2006-01-02"

func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fieldErr(field, "%s is required", field)
	}
	if max > 0 && len(value) > max {
		return "", fieldErr(field, "%s must be at most %d characters", field, max)
	}
	return value, nil
}
