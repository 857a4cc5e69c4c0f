package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator"
)

// FieldPatch is a partial update of a field. Nil members are left untouched.
type FieldPatch struct {
	Type          *FieldType `json:"type,omitempty" validate:"omitempty,fieldtype"`
	Label         *string    `json:"label,omitempty"`
	Placeholder   *string    `json:"placeholder,omitempty"`
	HelpText      *string    `json:"helpText,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Required      *bool      `json:"required,omitempty"`
	Width         *Width     `json:"width,omitempty" validate:"omitempty,width"`
	DefaultValue  *any       `json:"defaultValue,omitempty"`
	ModelProperty *string    `json:"modelProperty,omitempty"`

	Options          *[]Option            `json:"options,omitempty" validate:"omitempty,dive"`
	Min              *float64             `json:"min,omitempty"`
	Max              *float64             `json:"max,omitempty"`
	Step             *float64             `json:"step,omitempty" validate:"omitempty,gt=0"`
	ShowValue        *bool                `json:"showValue,omitempty"`
	MaxRating        *int                 `json:"maxRating,omitempty" validate:"omitempty,min=1,max=20"`
	CurrencySymbol   *string              `json:"currencySymbol,omitempty" validate:"omitempty,max=4"`
	CurrencyCode     *string              `json:"currencyCode,omitempty" validate:"omitempty,len=3,alpha"`
	Mask             *string              `json:"mask,omitempty"`
	Prefix           *string              `json:"prefix,omitempty"`
	Suffix           *string              `json:"suffix,omitempty"`
	Multiple         *bool                `json:"multiple,omitempty"`
	ServerSideSearch *bool                `json:"serverSideSearch,omitempty"`
	CascadeSource    *string              `json:"cascadeSource,omitempty"`
	CascadeTarget    *string              `json:"cascadeTarget,omitempty"`
	CascadeMapping   *map[string][]Option `json:"cascadeMapping,omitempty"`
}

// WidgetPatch is a partial update of a widget.
type WidgetPatch struct {
	Type         *WidgetType `json:"type,omitempty" validate:"omitempty,widgettype"`
	Title        *string     `json:"title,omitempty"`
	Columns      *int        `json:"columns,omitempty" validate:"omitempty,min=1,max=12"`
	Spacing      *int        `json:"spacing,omitempty" validate:"omitempty,min=0,max=64"`
	ShowBorder   *bool       `json:"showBorder,omitempty"`
	ShowShadow   *bool       `json:"showShadow,omitempty"`
	ModelBinding *string     `json:"modelBinding,omitempty"`
}

// RulePatch is a partial update of a validation rule.
type RulePatch struct {
	Type    *RuleType `json:"type,omitempty" validate:"omitempty,ruletype"`
	Value   *string   `json:"value,omitempty"`
	Message *string   `json:"message,omitempty"`
	Enabled *bool     `json:"enabled,omitempty"`
}

var (
	patchValidatorOnce sync.Once
	patchValidator     *validator.Validate
)

func patchValidate() *validator.Validate {
	patchValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
			return FieldType(fl.Field().String()).Known()
		})
		_ = v.RegisterValidation("width", func(fl validator.FieldLevel) bool {
			return Width(fl.Field().String()).Known()
		})
		_ = v.RegisterValidation("widgettype", func(fl validator.FieldLevel) bool {
			return WidgetType(fl.Field().String()).Known()
		})
		_ = v.RegisterValidation("ruletype", func(fl validator.FieldLevel) bool {
			return RuleType(fl.Field().String()).Known()
		})
		patchValidator = v
	})
	return patchValidator
}

func checkPatch(patch any) error {
	err := patchValidate().Struct(patch)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problem := fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			problem += "=" + fe.Param()
		}
		problems = append(problems, problem)
	}
	return fmt.Errorf("%w: %s", ErrInvalidPatch, strings.Join(problems, "; "))
}

// ApplyFieldPatch validates the patch and merges it into f. The field is left
// untouched when the patch is rejected.
func ApplyFieldPatch(f *Field, patch FieldPatch) error {
	if f == nil {
		return fmt.Errorf("%w: nil field", ErrInvalidPatch)
	}
	if err := checkPatch(patch); err != nil {
		return err
	}

	next := CloneField(*f)
	if next.Props == nil {
		next.Props = PropsFor(next.Type)
	}
	if patch.Type != nil && *patch.Type != next.Type {
		next.Props = convertProps(next.Props, *patch.Type)
		next.Type = *patch.Type
	}

	setString(&next.Label, patch.Label)
	setString(&next.Placeholder, patch.Placeholder)
	setString(&next.HelpText, patch.HelpText)
	setString(&next.Description, patch.Description)
	setString(&next.ModelProperty, patch.ModelProperty)
	if patch.Required != nil {
		next.Required = *patch.Required
	}
	if patch.Width != nil {
		next.Width = *patch.Width
	}
	if patch.DefaultValue != nil {
		next.DefaultValue = cloneValue(*patch.DefaultValue)
	}

	if err := applyPropsPatch(&next, patch); err != nil {
		return err
	}
	*f = next
	return nil
}

func applyPropsPatch(f *Field, patch FieldPatch) error {
	unsupported := func(attr string) error {
		return fmt.Errorf("%w: %s does not apply to %s fields", ErrInvalidPatch, attr, f.Type)
	}

	if patch.Options != nil {
		if !f.SetOptions(cloneOptions(*patch.Options)) {
			return unsupported("options")
		}
	}
	if patch.CascadeSource != nil || patch.CascadeTarget != nil || patch.CascadeMapping != nil {
		cascade := f.EnsureCascade()
		if cascade == nil {
			return unsupported("cascade")
		}
		setString(&cascade.Source, patch.CascadeSource)
		setString(&cascade.Target, patch.CascadeTarget)
		if patch.CascadeMapping != nil {
			cascade.Mapping = cloneMapping(*patch.CascadeMapping)
		}
	}

	if patch.Min != nil || patch.Max != nil || patch.Step != nil {
		switch props := f.Props.(type) {
		case *NumberProps:
			setFloat(&props.Min, patch.Min)
			setFloat(&props.Max, patch.Max)
			setFloat(&props.Step, patch.Step)
		case *RangeProps:
			setFloat(&props.Min, patch.Min)
			setFloat(&props.Max, patch.Max)
			setFloat(&props.Step, patch.Step)
		default:
			return unsupported("min/max/step")
		}
	}
	if patch.ShowValue != nil {
		props, ok := f.Props.(*RangeProps)
		if !ok {
			return unsupported("showValue")
		}
		props.ShowValue = *patch.ShowValue
	}
	if patch.MaxRating != nil {
		props, ok := f.Props.(*RatingProps)
		if !ok {
			return unsupported("maxRating")
		}
		props.MaxRating = *patch.MaxRating
	}
	if patch.CurrencySymbol != nil || patch.CurrencyCode != nil {
		props, ok := f.Props.(*CurrencyProps)
		if !ok {
			return unsupported("currency")
		}
		setString(&props.Symbol, patch.CurrencySymbol)
		if patch.CurrencyCode != nil {
			props.Code = strings.ToUpper(*patch.CurrencyCode)
		}
	}
	if patch.Mask != nil {
		props, ok := f.Props.(*MaskProps)
		if !ok {
			return unsupported("mask")
		}
		props.Mask = *patch.Mask
	}
	if patch.Prefix != nil || patch.Suffix != nil {
		switch props := f.Props.(type) {
		case *TextProps:
			setString(&props.Prefix, patch.Prefix)
			setString(&props.Suffix, patch.Suffix)
		case *NumberProps:
			setString(&props.Prefix, patch.Prefix)
			setString(&props.Suffix, patch.Suffix)
		default:
			return unsupported("prefix/suffix")
		}
	}
	if patch.Multiple != nil || patch.ServerSideSearch != nil {
		props, ok := f.Props.(*SearchProps)
		if !ok {
			return unsupported("search")
		}
		if patch.Multiple != nil {
			props.Multiple = *patch.Multiple
		}
		if patch.ServerSideSearch != nil {
			props.ServerSideSearch = *patch.ServerSideSearch
		}
	}
	return nil
}

// ApplyWidgetPatch validates the patch and merges it into w.
func ApplyWidgetPatch(w *Widget, patch WidgetPatch) error {
	if w == nil {
		return fmt.Errorf("%w: nil widget", ErrInvalidPatch)
	}
	if err := checkPatch(patch); err != nil {
		return err
	}
	if patch.Type != nil {
		w.Type = *patch.Type
	}
	setString(&w.Title, patch.Title)
	setString(&w.ModelBinding, patch.ModelBinding)
	if patch.Columns != nil {
		w.Settings.Columns = *patch.Columns
	}
	if patch.Spacing != nil {
		w.Settings.Spacing = *patch.Spacing
	}
	if patch.ShowBorder != nil {
		w.Settings.ShowBorder = *patch.ShowBorder
	}
	if patch.ShowShadow != nil {
		w.Settings.ShowShadow = *patch.ShowShadow
	}
	return nil
}

// ApplyRulePatch validates the patch and merges it into r.
func ApplyRulePatch(r *ValidationRule, patch RulePatch) error {
	if r == nil {
		return fmt.Errorf("%w: nil rule", ErrInvalidPatch)
	}
	if err := checkPatch(patch); err != nil {
		return err
	}
	if patch.Type != nil {
		r.Type = *patch.Type
		if !r.Type.TakesValue() && patch.Value == nil {
			r.Value = ""
		}
	}
	setString(&r.Value, patch.Value)
	setString(&r.Message, patch.Message)
	if patch.Enabled != nil {
		r.Enabled = *patch.Enabled
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = cloneFloat(src)
	}
}
