package integrity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by every entity service.
var (
	// ErrNotFound is returned when a well-formed id matches no record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an id is not a well-formed identifier.
	ErrInvalidID = errors.New("invalid id")

	// ErrSensorInactive is returned when a reading targets a sensor whose
	// active flag is false.
	ErrSensorInactive = errors.New("sensor is inactive")

	// ErrImmutableField is returned when an update names a field that cannot
	// change after creation.
	ErrImmutableField = errors.New("field is immutable")
)

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e if any field failed and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateKeyError is returned when a unique field collides with an
// existing record.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// ReferenceNotFoundError is returned when a foreign key points at a record
// that does not exist. Kind is "owner", "zone" or "sensor".
type ReferenceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// DependentsExistError blocks a delete that would orphan dependent records.
// Kind names the dependent collection ("devices", "readings", "sensors").
type DependentsExistError struct {
	Kind  string
	Count int
}

func (e *DependentsExistError) Error() string {
	return fmt.Sprintf("cannot delete: %d %s still reference it", e.Count, e.Kind)
}
