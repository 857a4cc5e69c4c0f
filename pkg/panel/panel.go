// Package panel edits whatever the canvas has selected. Field-level edits
// target the selected field; widget-level edits target the selected widget,
// or the owning widget when a field is selected. Every edit is a merge
// through the model patch helpers.
package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/canvas"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

var (
	ErrNoField       = errors.New("panel: no field selected")
	ErrNoWidget      = errors.New("panel: no widget selected")
	ErrRuleNotFound  = errors.New("panel: rule not found")
	ErrOptionIndex   = errors.New("panel: option index out of range")
	ErrNotChoice     = errors.New("panel: field does not carry options")
	ErrNotCandidate  = errors.New("panel: field is not a cascade candidate")
	ErrNoModelSource = errors.New("panel: no model source attached")
)

// Models lists the bindable property keys of an external model.
type Models interface {
	Properties(ctx context.Context, modelID string) ([]string, error)
}

// Option configures a Panel.
type Option func(*Panel)

// WithModels attaches a model source for the Binding tab.
func WithModels(models Models) Option {
	return func(p *Panel) {
		p.models = models
	}
}

// WithIDGenerator overrides the id source for new rules and options.
func WithIDGenerator(ids model.IDGenerator) Option {
	return func(p *Panel) {
		if ids != nil {
			p.ids = ids
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Panel is the property editor bound to one canvas.
type Panel struct {
	canvas *canvas.Canvas
	models Models
	ids    model.IDGenerator
	logger hclog.Logger
}

// New binds a panel to c.
func New(c *canvas.Canvas, opts ...Option) *Panel {
	p := &Panel{
		canvas: c,
		ids:    model.UUIDGenerator{},
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// TargetKind reports what the panel is editing.
type TargetKind string

const (
	TargetNone   TargetKind = ""
	TargetWidget TargetKind = "widget"
	TargetField  TargetKind = "field"
)

// View is the panel's current content.
type View struct {
	Target   TargetKind    `json:"target"`
	Widget   *model.Widget `json:"widget,omitempty"`
	Field    *model.Field  `json:"field,omitempty"`
	Sections []Section     `json:"sections"`
}

// View describes the current target and its editors.
func (p *Panel) View() View {
	sel := p.canvas.Selection()
	widgets := p.canvas.Widgets()
	if sel.FieldID != "" {
		if field, wi, ok := model.FindField(widgets, sel.FieldID); ok {
			widget := widgets[wi]
			return View{Target: TargetField, Widget: &widget, Field: field, Sections: fieldSections(*field)}
		}
	}
	if sel.WidgetID != "" {
		if idx := model.WidgetIndex(widgets, sel.WidgetID); idx >= 0 {
			widget := widgets[idx]
			return View{Target: TargetWidget, Widget: &widget, Sections: widgetSections(widget)}
		}
	}
	return View{Target: TargetNone, Sections: []Section{}}
}

// Sections returns the visible editors for the current target.
func (p *Panel) Sections() []Section {
	return p.View().Sections
}

func (p *Panel) mutateField(fn func(widget *model.Widget, field *model.Field) error) error {
	id := p.canvas.Selection().FieldID
	if id == "" {
		return ErrNoField
	}
	return p.canvas.MutateField(id, fn)
}

func (p *Panel) mutateWidget(fn func(widget *model.Widget) error) error {
	id := p.canvas.Selection().WidgetID
	if id == "" {
		return ErrNoWidget
	}
	return p.canvas.MutateWidget(id, fn)
}

func (p *Panel) patchField(patch model.FieldPatch) error {
	return p.mutateField(func(_ *model.Widget, field *model.Field) error {
		return model.ApplyFieldPatch(field, patch)
	})
}

// UpdateField merges patch into the selected field.
func (p *Panel) UpdateField(patch model.FieldPatch) error {
	return p.patchField(patch)
}

// UpdateWidget merges patch into the selected widget.
func (p *Panel) UpdateWidget(patch model.WidgetPatch) error {
	return p.mutateWidget(func(widget *model.Widget) error {
		return model.ApplyWidgetPatch(widget, patch)
	})
}

// SetWidgetBinding records the external model id for the selected widget.
func (p *Panel) SetWidgetBinding(modelID string) error {
	return p.UpdateWidget(model.WidgetPatch{ModelBinding: &modelID})
}

// SetFieldBinding records the model property key for the selected field.
func (p *Panel) SetFieldBinding(key string) error {
	return p.patchField(model.FieldPatch{ModelProperty: &key})
}

// SetDefault sets the selected field's static default value.
func (p *Panel) SetDefault(value any) error {
	return p.patchField(model.FieldPatch{DefaultValue: &value})
}

// ModelProperties lists the property keys of the selected widget's bound
// model.
func (p *Panel) ModelProperties(ctx context.Context) ([]string, error) {
	if p.models == nil {
		return nil, ErrNoModelSource
	}
	sel := p.canvas.Selection()
	if sel.WidgetID == "" {
		return nil, ErrNoWidget
	}
	widgets := p.canvas.Widgets()
	idx := model.WidgetIndex(widgets, sel.WidgetID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", canvas.ErrWidgetNotFound, sel.WidgetID)
	}
	modelID := widgets[idx].ModelBinding
	if modelID == "" {
		return []string{}, nil
	}
	return p.models.Properties(ctx, modelID)
}
