package render

import (
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Subset restricts rendering to some widgets and field types. Empty lists
// match everything.
type Subset struct {
	Widgets    []string
	FieldTypes []model.FieldType
}

// Empty reports whether the subset filters nothing.
func (s Subset) Empty() bool {
	return len(s.Widgets) == 0 && len(s.FieldTypes) == 0
}

// ApplySubset prunes design in place. Widgets outside the subset are
// dropped; form widgets keep only fields of the listed types and are dropped
// when nothing remains. Non-form widgets survive a type filter untouched.
func ApplySubset(design *model.Design, subset Subset) {
	if design == nil || subset.Empty() {
		return
	}
	widgets := tokenSet(subset.Widgets)
	types := make(map[model.FieldType]bool, len(subset.FieldTypes))
	for _, t := range subset.FieldTypes {
		types[t] = true
	}

	kept := design.Widgets[:0]
	for _, widget := range design.Widgets {
		if len(widgets) > 0 && !widgets[strings.TrimSpace(widget.ID)] {
			continue
		}
		if len(types) > 0 && widget.Type.CarriesFields() {
			fields := widget.Fields[:0]
			for _, field := range widget.Fields {
				if types[field.Type] {
					fields = append(fields, field)
				}
			}
			if len(fields) == 0 {
				continue
			}
			widget.Fields = fields
		}
		kept = append(kept, widget)
	}
	design.Widgets = kept
}

func tokenSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]bool, len(values))
	for _, value := range values {
		if token := strings.TrimSpace(value); token != "" {
			out[token] = true
		}
	}
	return out
}
