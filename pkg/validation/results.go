package validation

import "github.com/goliatone/go-formdesigner/pkg/model"

// FirstErrors keeps the first message reported for each field. Later
// failures on the same field are dropped.
func FirstErrors(errs []model.ValidationError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		if _, seen := out[err.FieldID]; seen {
			continue
		}
		out[err.FieldID] = err.Message
	}
	return out
}

// ByField groups every message by field id, preserving rule order.
func ByField(errs []model.ValidationError) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, err := range errs {
		out[err.FieldID] = append(out[err.FieldID], err.Message)
	}
	return out
}

// Without drops every error reported for fieldID.
func Without(errs []model.ValidationError, fieldID string) []model.ValidationError {
	out := errs[:0:0]
	for _, err := range errs {
		if err.FieldID != fieldID {
			out = append(out, err)
		}
	}
	return out
}
