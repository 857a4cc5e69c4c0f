package controls

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Behavior owns the build and interaction rules of one field type.
type Behavior interface {
	Kind() Kind
	Build(c *Control, field model.Field, value any, ctx Context)
	Handle(field model.Field, value any, ev Event, ctx Context) Result
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes behaviour diagnostics to logger.
func WithLogger(logger hclog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry maps field types to behaviours. Unknown types use the fallback,
// a plain input whose HTML type is the field type tag.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[model.FieldType]Behavior
	fallback  Behavior
	logger    hclog.Logger
}

// New returns an empty registry with the generic fallback.
func New(opts ...Option) *Registry {
	r := &Registry{
		behaviors: make(map[model.FieldType]Behavior),
		fallback:  genericBehavior{},
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewDefault returns a registry with a behaviour for every built-in field type.
func NewDefault(opts ...Option) *Registry {
	r := New(opts...)
	text := textBehavior{}
	r.MustRegister(model.FieldTypeText, text)
	r.MustRegister(model.FieldTypeEmail, text)
	r.MustRegister(model.FieldTypeTel, text)
	r.MustRegister(model.FieldTypeURL, text)
	r.MustRegister(model.FieldTypeDate, text)
	r.MustRegister(model.FieldTypeTime, text)
	r.MustRegister(model.FieldTypeTextarea, textareaBehavior{})
	r.MustRegister(model.FieldTypePassword, passwordBehavior{})
	r.MustRegister(model.FieldTypeNumber, numberBehavior{})
	r.MustRegister(model.FieldTypeColor, colorBehavior{})
	r.MustRegister(model.FieldTypeCheckbox, booleanBehavior{kind: KindCheckbox})
	r.MustRegister(model.FieldTypeToggle, booleanBehavior{kind: KindToggle})
	r.MustRegister(model.FieldTypeSelect, choiceBehavior{kind: KindSelect})
	r.MustRegister(model.FieldTypeRadio, choiceBehavior{kind: KindRadio})
	r.MustRegister(model.FieldTypeMulti, multiBehavior{})
	r.MustRegister(model.FieldTypeSearchable, searchBehavior{})
	r.MustRegister(model.FieldTypeRating, ratingBehavior{})
	r.MustRegister(model.FieldTypeRange, rangeBehavior{})
	r.MustRegister(model.FieldTypeCurrency, currencyBehavior{})
	r.MustRegister(model.FieldTypeMask, maskBehavior{})
	r.MustRegister(model.FieldTypeDateTime, datetimeBehavior{})
	r.MustRegister(model.FieldTypeFile, fileBehavior{})
	r.MustRegister(model.FieldTypePhoto, fileBehavior{accept: "image/*", capture: true})
	r.MustRegister(model.FieldTypeAvatar, fileBehavior{accept: "image/*"})
	r.MustRegister(model.FieldTypeBiometric, actionBehavior{label: "Scan fingerprint", icon: "fingerprint", sentinel: true})
	r.MustRegister(model.FieldTypeQRCode, actionBehavior{label: "Scan QR code", icon: "qr-code", sentinel: "QR scan triggered"})
	r.MustRegister(model.FieldTypeBarcode, actionBehavior{label: "Scan barcode", icon: "barcode", sentinel: "Barcode scan triggered"})
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry used by the package-level helpers.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefault()
	})
	return defaultRegistry
}

// Build describes a field's control using the default registry.
func Build(field model.Field, value any, ctx Context) Control {
	return Default().Build(field, value, ctx)
}

// Handle applies an event using the default registry.
func Handle(field model.Field, value any, ev Event, ctx Context) Result {
	return Default().Handle(field, value, ev, ctx)
}

// Register associates a behaviour with a field type, replacing any existing
// entry.
func (r *Registry) Register(t model.FieldType, behavior Behavior) error {
	if t == "" {
		return fmt.Errorf("controls: field type is required")
	}
	if behavior == nil {
		return fmt.Errorf("controls: behavior for %q is nil", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[t] = behavior
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(t model.FieldType, behavior Behavior) {
	if err := r.Register(t, behavior); err != nil {
		panic(err)
	}
}

// Behavior returns the behaviour for t, falling back to the generic input.
func (r *Registry) Behavior(t model.FieldType) (Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	behavior, ok := r.behaviors[t]
	if !ok {
		return r.fallback, false
	}
	return behavior, true
}

// Types lists registered field types in sorted order.
func (r *Registry) Types() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.FieldType, 0, len(r.behaviors))
	for t := range r.behaviors {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Build describes the control for field. In design mode every control is
// disabled and shows sample content; in readonly mode it is disabled but
// keeps the current value; in preview mode it is live.
func (r *Registry) Build(field model.Field, value any, ctx Context) Control {
	ctx.logger = r.logger
	mode := ctx.Mode
	if mode == "" {
		mode = model.ModePreview
	}
	ctx.Mode = mode

	behavior, _ := r.Behavior(field.Type)
	c := Control{
		FieldID:     field.ID,
		Type:        field.Type,
		Kind:        behavior.Kind(),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		HelpText:    field.HelpText,
		Description: field.Description,
		Required:    field.Required,
		Width:       field.Width,
		Mode:        mode,
		Disabled:    mode != model.ModePreview,
		ReadOnly:    mode == model.ModeReadOnly,
		Interactive: mode == model.ModePreview,
		Sample:      mode == model.ModeDesign,
	}
	if c.Width == "" {
		c.Width = model.WidthFull
	}

	switch mode {
	case model.ModeDesign:
		value = nil
	default:
		c.Error = ctx.Error
		if value == nil {
			value = field.DefaultValue
		}
	}
	c.Value = value
	behavior.Build(&c, field, value, ctx)
	return c
}

// Handle applies ev to the current value. Events are ignored outside
// preview mode.
func (r *Registry) Handle(field model.Field, value any, ev Event, ctx Context) Result {
	ctx.logger = r.logger
	if ctx.Mode != "" && ctx.Mode != model.ModePreview {
		return unchanged(value)
	}
	if ctx.Mode == "" {
		ctx.Mode = model.ModePreview
	}
	behavior, _ := r.Behavior(field.Type)
	return behavior.Handle(field, value, ev, ctx)
}
