package binding

import (
	"strconv"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// ScaffoldOption configures a Scaffolder.
type ScaffoldOption func(*Scaffolder)

// WithRegistry overrides the property to field type registry.
func WithRegistry(registry *Registry) ScaffoldOption {
	return func(s *Scaffolder) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithIDGenerator overrides the id source for widgets, fields and rules.
func WithIDGenerator(ids model.IDGenerator) ScaffoldOption {
	return func(s *Scaffolder) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithLabeler overrides how property keys become field labels.
func WithLabeler(labeler func(string) string) ScaffoldOption {
	return func(s *Scaffolder) {
		if labeler != nil {
			s.labeler = labeler
		}
	}
}

// WithReadOnlyProperties includes properties marked readOnly. They are
// skipped by default.
func WithReadOnlyProperties(include bool) ScaffoldOption {
	return func(s *Scaffolder) {
		s.readOnly = include
	}
}

// Scaffolder builds form widgets from catalog models.
type Scaffolder struct {
	catalog  *Catalog
	registry *Registry
	ids      model.IDGenerator
	labeler  func(string) string
	readOnly bool
}

// NewScaffolder binds a scaffolder to catalog.
func NewScaffolder(catalog *Catalog, opts ...ScaffoldOption) *Scaffolder {
	s := &Scaffolder{
		catalog:  catalog,
		registry: NewRegistry(),
		ids:      model.UUIDGenerator{},
		labeler:  model.DefaultLabeler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Scaffold returns a form widget bound to modelID with one field per
// property.
func (s *Scaffolder) Scaffold(modelID string) (model.Widget, error) {
	m, err := s.catalog.Model(modelID)
	if err != nil {
		return model.Widget{}, err
	}

	title := m.Title
	if title == "" {
		title = s.labeler(m.ID)
	}
	widget := model.Widget{
		ID:           s.ids.NewID(model.PrefixWidget),
		Type:         model.WidgetTypeForm,
		Title:        title,
		Settings:     model.DefaultWidgetSettings(),
		ModelBinding: m.ID,
	}
	for _, prop := range m.Properties {
		if prop.ReadOnly && !s.readOnly {
			continue
		}
		if prop.Type == "object" {
			continue
		}
		widget.Fields = append(widget.Fields, s.field(prop))
	}
	widget.Reindex()
	return widget, nil
}

// Field builds the field a property scaffolds to.
func (s *Scaffolder) Field(prop Property) model.Field {
	return s.field(prop)
}

func (s *Scaffolder) field(prop Property) model.Field {
	kind := s.registry.Resolve(prop)
	label := prop.Title
	if label == "" {
		label = s.labeler(prop.Key)
	}
	if label == "" {
		label = model.PropertyLabel(prop.Key, kind)
	}

	field := model.NewField(s.ids.NewID(model.PrefixField), kind, label)
	field.Description = prop.Description
	field.ModelProperty = prop.Key
	field.Required = prop.Required
	if prop.Default != nil {
		field.DefaultValue = prop.Default
	}

	if prop.Required {
		field.Validations = append(field.Validations, s.rule(model.RuleRequired, ""))
	}
	switch kind {
	case model.FieldTypeEmail:
		field.Validations = append(field.Validations, s.rule(model.RuleEmail, ""))
	case model.FieldTypeNumber:
		field.Validations = append(field.Validations, s.rule(model.RuleNumber, ""))
		if props, ok := field.Props.(*model.NumberProps); ok {
			props.Min = cloneFloat(prop.Minimum)
			props.Max = cloneFloat(prop.Maximum)
			if prop.Type == "integer" {
				step := 1.0
				props.Step = &step
			}
		}
	}
	if prop.MinLength != nil {
		field.Validations = append(field.Validations, s.rule(model.RuleMinLength, strconv.Itoa(*prop.MinLength)))
	}
	if prop.MaxLength != nil {
		field.Validations = append(field.Validations, s.rule(model.RuleMaxLength, strconv.Itoa(*prop.MaxLength)))
	}
	if prop.Pattern != "" {
		field.Validations = append(field.Validations, s.rule(model.RulePattern, prop.Pattern))
	}

	enum := prop.Enum
	if kind == model.FieldTypeMulti {
		enum = prop.ItemsEnum
	}
	if len(enum) > 0 {
		options := make([]model.Option, 0, len(enum))
		for _, value := range enum {
			options = append(options, model.Option{Value: value, Label: s.labeler(value)})
		}
		field.SetOptions(options)
	}
	return field
}

func (s *Scaffolder) rule(kind model.RuleType, value string) model.ValidationRule {
	return model.NewRule(s.ids.NewID(model.PrefixRule), kind, value, "")
}

// Scaffold builds a widget for modelID using the default registry and
// labeler.
func Scaffold(catalog *Catalog, modelID string, ids model.IDGenerator) (model.Widget, error) {
	return NewScaffolder(catalog, WithIDGenerator(ids)).Scaffold(modelID)
}
