package panel

import (
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// CascadeCandidates lists the select fields in the selected field's widget,
// other than the field itself, that may act as its cascade source.
func (p *Panel) CascadeCandidates() ([]model.Field, error) {
	sel := p.canvas.Selection()
	if sel.FieldID == "" {
		return nil, ErrNoField
	}
	widgets := p.canvas.Widgets()
	_, wi, ok := model.FindField(widgets, sel.FieldID)
	if !ok {
		return nil, ErrNoField
	}
	return candidates(widgets[wi], sel.FieldID), nil
}

func candidates(widget model.Widget, self string) []model.Field {
	out := []model.Field{}
	for _, field := range widget.Fields {
		if field.ID != self && field.Type == model.FieldTypeSelect {
			out = append(out, field)
		}
	}
	return out
}

// WireCascade makes the selected field depend on sourceID. The source
// records the selected field as its target. An empty sourceID unwires the
// field and clears the previous source's target.
func (p *Panel) WireCascade(sourceID string) error {
	return p.mutateField(func(widget *model.Widget, field *model.Field) error {
		if !field.Type.OptionBearing() {
			return fmt.Errorf("%w: %s", ErrNotChoice, field.Type)
		}
		if sourceID != "" {
			found := false
			for _, c := range candidates(*widget, field.ID) {
				if c.ID == sourceID {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %s", ErrNotCandidate, sourceID)
			}
		}

		current := field.EnsureCascade()
		if prev := current.Source; prev != "" && prev != sourceID {
			if idx := widget.FieldIndex(prev); idx >= 0 {
				if c := widget.Fields[idx].Cascade(); c != nil && c.Target == field.ID {
					c.Target = ""
				}
			}
		}
		current.Source = sourceID
		if sourceID == "" {
			return nil
		}
		source := &widget.Fields[widget.FieldIndex(sourceID)]
		source.EnsureCascade().Target = field.ID
		p.logger.Debug("cascade wired", "source", sourceID, "target", field.ID)
		return nil
	})
}

// SetCascadeMapping sets the options offered when the source field holds
// value. A nil options list removes the entry.
func (p *Panel) SetCascadeMapping(value string, options []model.Option) error {
	return p.mutateField(func(_ *model.Widget, field *model.Field) error {
		c := field.EnsureCascade()
		if c == nil {
			return fmt.Errorf("%w: %s", ErrNotChoice, field.Type)
		}
		if options == nil {
			delete(c.Mapping, value)
			return nil
		}
		if c.Mapping == nil {
			c.Mapping = map[string][]model.Option{}
		}
		c.Mapping[value] = append([]model.Option(nil), options...)
		return nil
	})
}
