package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingWidgetID is returned when a widget has no identifier.
	ErrMissingWidgetID = errors.New("model: widget id is required")
	// ErrInvalidPatch wraps every rejected partial update.
	ErrInvalidPatch = errors.New("model: invalid patch")
)

// DuplicateIDError reports a field id used more than once within a design.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("model: duplicate field id %q", e.ID)
}

// ValidationError is a single user-facing validation failure.
type ValidationError struct {
	FieldID string `json:"fieldId" yaml:"fieldId"`
	Message string `json:"message" yaml:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldID, e.Message)
}
