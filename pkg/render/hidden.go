package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted with the form.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden builds a hidden field; the value is formatted with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken builds a hidden field carrying a CSRF token under name.
func CSRFToken(name, token string) HiddenField { return Hidden(name, token) }

// DesignVersion builds the hidden field carrying the design's last update,
// used to detect concurrent edits on submit.
func DesignVersion(updatedAt string) HiddenField { return Hidden("_design_version", updatedAt) }

// MergeHiddenFields returns base with fields applied. Blank names are
// dropped and later fields win.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields lists fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	merged := MergeHiddenFields(fields)
	if merged == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(merged))
	for name, value := range merged {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
