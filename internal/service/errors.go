package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrCategoryInUse = errors.New("category in use")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func required(field string) error {
	return &ValidationError{Field: field, Msg: "is required"}
}

// NotFoundError reports an id that does not resolve to a record.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// CategoryInUseError reports a refused category deletion.
type CategoryInUseError struct {
	ID    uint
	Tasks bool
	Notes bool
}

func (e *CategoryInUseError) Error() string {
	var linked string
	switch {
	case e.Tasks && e.Notes:
		linked = "tasks and notes"
	case e.Tasks:
		linked = "tasks"
	case e.Notes:
		linked = "notes"
	default:
		linked = "records"
	}
	return fmt.Sprintf("category %d has linked %s", e.ID, linked)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrCategoryInUse }

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
