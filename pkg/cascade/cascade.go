// Package cascade resolves dependent option lists and computes the resets a
// value change forces on dependent fields.
package cascade

import (
	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Reset is an advisory value-bag update for a dependent field.
type Reset struct {
	FieldID string `json:"fieldId"`
	Value   any    `json:"value"`
}

// Propagate returns the resets implied by a change to changedID. Only fields
// whose cascade source is changedID are reset; dependents of dependents are
// left alone.
func Propagate(changedID string, widgets []model.Widget) []Reset {
	if changedID == "" {
		return nil
	}
	var out []Reset
	for _, widget := range widgets {
		for _, field := range widget.Fields {
			if field.CascadeSource() == changedID {
				out = append(out, Reset{FieldID: field.ID, Value: ResetValue(field)})
			}
		}
	}
	return out
}

// ResetValue is the cleared value for a field: an empty list for
// multi-valued fields, the empty string otherwise.
func ResetValue(field model.Field) any {
	if field.AllowsMultiple() {
		return []string{}
	}
	return ""
}

// Apply writes resets into values and returns the ids that changed.
func Apply(values model.Values, resets []Reset) []string {
	if values == nil {
		return nil
	}
	ids := make([]string, 0, len(resets))
	for _, reset := range resets {
		values[reset.FieldID] = reset.Value
		ids = append(ids, reset.FieldID)
	}
	return ids
}

// ResolveOptions returns the options a field currently offers. Cascading
// fields look up the source field's value in their mapping; a missing entry
// yields an empty list. Other fields return their static options.
func ResolveOptions(field model.Field, values model.Values) []model.Option {
	cascade := field.Cascade()
	if cascade == nil || cascade.Source == "" {
		return field.Options()
	}
	key := sourceKey(values[cascade.Source])
	options, ok := cascade.Mapping[key]
	if !ok || key == "" {
		return []model.Option{}
	}
	return append([]model.Option{}, options...)
}

// IsCascading reports whether the field takes part in a cascade either as
// source or as dependent.
func IsCascading(field model.Field) bool {
	cascade := field.Cascade()
	return cascade != nil && (cascade.Source != "" || cascade.Target != "")
}

func sourceKey(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
	case []any:
		if len(typed) > 0 {
			if s, ok := typed[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
