package tui

import (
	"github.com/goliatone/go-formdesigner/pkg/model"
)

// State tracks collected values and server-provided errors keyed by field
// id.
type State struct {
	values model.Values
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill model.Values, errs map[string][]string) *State {
	return &State{
		values: prefill.Clone(),
		errors: cloneErrors(errs),
	}
}

// Values returns the current value bag (mutable).
func (s *State) Values() model.Values {
	if s == nil {
		return nil
	}
	return s.values
}

// Value returns the value stored for fieldID.
func (s *State) Value(fieldID string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[fieldID]
	return v, ok
}

// SetValue stores value under fieldID and drops its pending errors.
func (s *State) SetValue(fieldID string, value any) {
	s.values[fieldID] = value
	delete(s.errors, fieldID)
}

// ErrorsFor returns the errors attached to fieldID.
func (s *State) ErrorsFor(fieldID string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[fieldID]
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for key, msgs := range src {
		out[key] = append([]string(nil), msgs...)
	}
	return out
}
