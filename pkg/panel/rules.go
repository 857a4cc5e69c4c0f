package panel

import (
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// AddRule appends an enabled rule of the given type to the selected field
// and returns it.
func (p *Panel) AddRule(kind model.RuleType, value, message string) (model.ValidationRule, error) {
	rule := model.NewRule(p.ids.NewID(model.PrefixRule), kind, value, message)
	err := p.mutateField(func(_ *model.Widget, field *model.Field) error {
		if !kind.Known() {
			return fmt.Errorf("%w: unknown rule type %q", model.ErrInvalidPatch, kind)
		}
		if !kind.TakesValue() {
			rule.Value = ""
		}
		field.Validations = append(field.Validations, rule)
		return nil
	})
	if err != nil {
		return model.ValidationRule{}, err
	}
	return rule, nil
}

func (p *Panel) editRule(id string, fn func(field *model.Field, index int) error) error {
	return p.mutateField(func(_ *model.Widget, field *model.Field) error {
		for i := range field.Validations {
			if field.Validations[i].ID == id {
				return fn(field, i)
			}
		}
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	})
}

// UpdateRule merges patch into the rule with the given id.
func (p *Panel) UpdateRule(id string, patch model.RulePatch) error {
	return p.editRule(id, func(field *model.Field, i int) error {
		next := field.Validations[i]
		if err := model.ApplyRulePatch(&next, patch); err != nil {
			return err
		}
		field.Validations[i] = next
		return nil
	})
}

// ToggleRule flips a rule's enabled flag.
func (p *Panel) ToggleRule(id string) error {
	return p.editRule(id, func(field *model.Field, i int) error {
		field.Validations[i].Enabled = !field.Validations[i].Enabled
		return nil
	})
}

// RemoveRule deletes a rule.
func (p *Panel) RemoveRule(id string) error {
	return p.editRule(id, func(field *model.Field, i int) error {
		field.Validations = append(field.Validations[:i], field.Validations[i+1:]...)
		return nil
	})
}
