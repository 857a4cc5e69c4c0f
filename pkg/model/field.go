package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFieldID is returned by Field.Check when the identifier is empty.
	ErrMissingFieldID = errors.New("model: field id is required")
	// ErrPropsMismatch is returned when a field's props variant does not match its type.
	ErrPropsMismatch = errors.New("model: field props do not match field type")
)

// Field describes one input. The common header applies to every type, Props
// carries the attributes that only make sense for the field's type family.
type Field struct {
	ID            string
	Type          FieldType
	Label         string
	Placeholder   string
	HelpText      string
	Description   string
	Required      bool
	Validations   []ValidationRule
	DefaultValue  any
	Width         Width
	Order         int
	ModelProperty string
	Props         Props
}

// NewField returns a field of the given type with zero props and full width.
func NewField(id string, t FieldType, label string) Field {
	return Field{
		ID:    id,
		Type:  t,
		Label: label,
		Width: WidthFull,
		Props: PropsFor(t),
	}
}

// Check reports structural problems with the field definition.
func (f Field) Check() error {
	if f.ID == "" {
		return ErrMissingFieldID
	}
	if f.Props != nil && f.Props.Family() != FamilyFor(f.Type) {
		return fmt.Errorf("%w: %s carries %s props", ErrPropsMismatch, f.Type, f.Props.Family())
	}
	if f.Width != "" && !f.Width.Known() {
		return fmt.Errorf("model: field %s has unknown width %q", f.ID, f.Width)
	}
	return nil
}

// Normalize fills the zero props variant and default width when absent.
func (f *Field) Normalize() {
	if f == nil {
		return
	}
	if f.Props == nil || f.Props.Family() != FamilyFor(f.Type) {
		f.Props = convertProps(f.Props, f.Type)
	}
	if f.Width == "" {
		f.Width = WidthFull
	}
}

// Options returns the static option list for choice fields.
func (f Field) Options() []Option {
	if choice := f.choice(); choice != nil {
		return choice.Options
	}
	return nil
}

// SetOptions replaces the static option list. It is a no-op for fields that
// do not carry options.
func (f *Field) SetOptions(options []Option) bool {
	choice := f.choice()
	if choice == nil {
		return false
	}
	choice.Options = options
	return true
}

// Cascade returns the cascade wiring of a choice field, or nil.
func (f Field) Cascade() *Cascade {
	if choice := f.choice(); choice != nil {
		return choice.Cascade
	}
	return nil
}

// EnsureCascade returns the cascade wiring, creating it when missing. Returns
// nil when the field type cannot participate in cascades.
func (f *Field) EnsureCascade() *Cascade {
	choice := f.choice()
	if choice == nil {
		return nil
	}
	if choice.Cascade == nil {
		choice.Cascade = &Cascade{}
	}
	return choice.Cascade
}

// CascadeSource returns the id of the field controlling this field's options.
func (f Field) CascadeSource() string {
	if c := f.Cascade(); c != nil {
		return c.Source
	}
	return ""
}

// AllowsMultiple reports whether the field's value is a list of selections.
func (f Field) AllowsMultiple() bool {
	if f.Type == FieldTypeMulti {
		return true
	}
	if search, ok := f.Props.(*SearchProps); ok && search != nil {
		return search.Multiple
	}
	return false
}

// HasRule reports whether an enabled rule of the given type is attached.
func (f Field) HasRule(kind RuleType) bool {
	for _, rule := range f.Validations {
		if rule.Enabled && rule.Type == kind {
			return true
		}
	}
	return false
}

func (f Field) choice() *ChoiceProps {
	switch props := f.Props.(type) {
	case *ChoiceProps:
		return props
	case *SearchProps:
		if props == nil {
			return nil
		}
		return &props.ChoiceProps
	default:
		return nil
	}
}

// fieldWire is the flat design payload shape of a field.
type fieldWire struct {
	ID               string              `json:"id" yaml:"id"`
	Type             FieldType           `json:"type" yaml:"type"`
	Label            string              `json:"label" yaml:"label"`
	Placeholder      string              `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText         string              `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Description      string              `json:"description,omitempty" yaml:"description,omitempty"`
	Required         bool                `json:"required" yaml:"required"`
	Validations      []ValidationRule    `json:"validations,omitempty" yaml:"validations,omitempty"`
	Options          []Option            `json:"options,omitempty" yaml:"options,omitempty"`
	DefaultValue     any                 `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Width            Width               `json:"width,omitempty" yaml:"width,omitempty"`
	Order            int                 `json:"order" yaml:"order"`
	ModelProperty    string              `json:"modelProperty,omitempty" yaml:"modelProperty,omitempty"`
	Min              *float64            `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *float64            `json:"max,omitempty" yaml:"max,omitempty"`
	Step             *float64            `json:"step,omitempty" yaml:"step,omitempty"`
	MaxRating        int                 `json:"maxRating,omitempty" yaml:"maxRating,omitempty"`
	ShowValue        bool                `json:"showValue,omitempty" yaml:"showValue,omitempty"`
	CurrencySymbol   string              `json:"currencySymbol,omitempty" yaml:"currencySymbol,omitempty"`
	CurrencyCode     string              `json:"currencyCode,omitempty" yaml:"currencyCode,omitempty"`
	Mask             string              `json:"mask,omitempty" yaml:"mask,omitempty"`
	Prefix           string              `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix           string              `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Multiple         bool                `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	ServerSideSearch bool                `json:"serverSideSearch,omitempty" yaml:"serverSideSearch,omitempty"`
	CascadeSource    string              `json:"cascadeSource,omitempty" yaml:"cascadeSource,omitempty"`
	CascadeTarget    string              `json:"cascadeTarget,omitempty" yaml:"cascadeTarget,omitempty"`
	CascadeMapping   map[string][]Option `json:"cascadeMapping,omitempty" yaml:"cascadeMapping,omitempty"`
}

func (f Field) toWire() fieldWire {
	w := fieldWire{
		ID:            f.ID,
		Type:          f.Type,
		Label:         f.Label,
		Placeholder:   f.Placeholder,
		HelpText:      f.HelpText,
		Description:   f.Description,
		Required:      f.Required,
		Validations:   f.Validations,
		DefaultValue:  f.DefaultValue,
		Width:         f.Width,
		Order:         f.Order,
		ModelProperty: f.ModelProperty,
	}
	if f.Props != nil {
		f.Props.encode(&w)
	}
	return w
}

func (f *Field) fromWire(w fieldWire) {
	*f = Field{
		ID:            w.ID,
		Type:          w.Type,
		Label:         w.Label,
		Placeholder:   w.Placeholder,
		HelpText:      w.HelpText,
		Description:   w.Description,
		Required:      w.Required,
		Validations:   w.Validations,
		DefaultValue:  normalizeDecoded(w.DefaultValue),
		Width:         w.Width,
		Order:         w.Order,
		ModelProperty: w.ModelProperty,
		Props:         decodeProps(w.Type, w),
	}
	if f.Width == "" {
		f.Width = WidthFull
	}
}

// MarshalJSON encodes the field in the flat design payload shape.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.toWire())
}

// UnmarshalJSON decodes the flat payload and builds the props variant that
// matches the field type. Attributes foreign to the type are dropped.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("model: decode field: %w", err)
	}
	f.fromWire(w)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML documents.
func (f Field) MarshalYAML() (any, error) {
	return f.toWire(), nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var w fieldWire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("model: decode field: %w", err)
	}
	f.fromWire(w)
	return nil
}

// normalizeDecoded turns homogeneous string lists produced by generic
// decoders into []string so multi-valued defaults keep their shape.
func normalizeDecoded(value any) any {
	list, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return value
		}
		out = append(out, str)
	}
	return out
}
