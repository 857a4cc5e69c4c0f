// Package canvas owns the design being edited: the widget list, the
// drag-and-drop state machine, selection, and the preview session that fills
// the form. All mutations go through the Canvas so observers see a consistent
// sequence of changes.
package canvas

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/validation"
)

var (
	ErrWidgetNotFound  = errors.New("canvas: widget not found")
	ErrFieldNotFound   = errors.New("canvas: field not found")
	ErrNotDesignMode   = errors.New("canvas: operation requires design mode")
	ErrNotPreviewMode  = errors.New("canvas: operation requires preview mode")
	ErrNoFields        = errors.New("canvas: widget type does not carry fields")
	ErrUnknownCommand  = errors.New("canvas: unknown command")
	ErrNothingSelected = errors.New("canvas: nothing selected")
)

// ChangeKind names what an observer is being told about.
type ChangeKind string

const (
	ChangeDesign    ChangeKind = "design"
	ChangeSelection ChangeKind = "selection"
	ChangeDrag      ChangeKind = "drag"
	ChangeMode      ChangeKind = "mode"
	ChangeValues    ChangeKind = "values"
	ChangeErrors    ChangeKind = "errors"
	ChangeSubmitted ChangeKind = "submitted"
)

// Change is delivered to observers after every state transition.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	WidgetID string     `json:"widgetId,omitempty"`
	FieldID  string     `json:"fieldId,omitempty"`
}

// Selection is the current selection. A selected field records its owning
// widget, but widget-level edits only apply when FieldID is empty.
type Selection struct {
	WidgetID string `json:"widgetId,omitempty"`
	FieldID  string `json:"fieldId,omitempty"`
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.WidgetID == "" && s.FieldID == "" }

// Option configures a Canvas.
type Option func(*Canvas)

// WithIDGenerator overrides the id source for new widgets and fields.
func WithIDGenerator(ids model.IDGenerator) Option {
	return func(c *Canvas) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Canvas) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValidator sets the engine used by Submit.
func WithValidator(engine *validation.Engine) Option {
	return func(c *Canvas) {
		if engine != nil {
			c.validator = engine
		}
	}
}

// WithControls sets the control registry used for preview interaction.
func WithControls(registry *controls.Registry) Option {
	return func(c *Canvas) {
		if registry != nil {
			c.controls = registry
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Canvas) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDesign seeds the canvas with an existing design.
func WithDesign(design model.Design) Option {
	return func(c *Canvas) {
		c.design = model.CloneDesign(design)
	}
}

// Canvas is the single-session editing surface for one design.
type Canvas struct {
	mu        sync.Mutex
	design    model.Design
	mode      model.Mode
	drag      Drag
	selection Selection
	session   *session

	ids       model.IDGenerator
	logger    hclog.Logger
	validator *validation.Engine
	controls  *controls.Registry
	now       func() time.Time

	observersMu sync.RWMutex
	observers   map[int]func(Change)
	nextObs     int
}

// New constructs a Canvas in design mode.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		mode:      model.ModeDesign,
		ids:       model.UUIDGenerator{},
		logger:    hclog.NewNullLogger(),
		now:       time.Now,
		observers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.validator == nil {
		c.validator = validation.New(validation.WithLogger(c.logger.Named("validation")))
	}
	if c.controls == nil {
		c.controls = controls.Default()
	}
	c.design.Normalize()
	if c.design.Widgets == nil {
		c.design.Widgets = []model.Widget{}
	}
	return c
}

// OnChange registers an observer and returns a function removing it.
func (c *Canvas) OnChange(fn func(Change)) func() {
	if fn == nil {
		return func() {}
	}
	c.observersMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.observersMu.Unlock()
	return func() {
		c.observersMu.Lock()
		delete(c.observers, id)
		c.observersMu.Unlock()
	}
}

func (c *Canvas) notify(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	c.observersMu.RLock()
	observers := make([]func(Change), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.observersMu.RUnlock()
	for _, change := range changes {
		for _, fn := range observers {
			fn(change)
		}
	}
}

// Design returns a deep copy of the current design.
func (c *Canvas) Design() model.Design {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneDesign(c.design)
}

// Widgets returns a deep copy of the widget list.
func (c *Canvas) Widgets() []model.Widget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneWidgets(c.design.Widgets)
}

// Load replaces the design, clearing selection, drag state and the preview
// session.
func (c *Canvas) Load(design model.Design) {
	c.mu.Lock()
	c.design = model.CloneDesign(design)
	c.design.Normalize()
	if c.design.Widgets == nil {
		c.design.Widgets = []model.Widget{}
	}
	c.selection = Selection{}
	c.drag = Drag{}
	c.session = nil
	if c.mode != model.ModeDesign {
		c.session = newSession(c.design.Widgets)
	}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign}, Change{Kind: ChangeSelection})
}

// Mode returns the current presentation mode.
func (c *Canvas) Mode() model.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches between design, preview and readonly. Leaving design mode
// drops any drag in progress and starts a preview session seeded from field
// defaults; returning to design mode keeps the session for the next preview.
func (c *Canvas) SetMode(mode model.Mode) {
	mode = model.ParseMode(string(mode))
	c.mu.Lock()
	if c.mode == mode {
		c.mu.Unlock()
		return
	}
	c.mode = mode
	c.drag = Drag{}
	if mode != model.ModeDesign && c.session == nil {
		c.session = newSession(c.design.Widgets)
	}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeMode}, Change{Kind: ChangeDrag})
}

// Selection returns the current selection.
func (c *Canvas) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

func (c *Canvas) touch() {
	now := c.now().UTC()
	if c.design.CreatedAt.IsZero() {
		c.design.CreatedAt = now
	}
	c.design.UpdatedAt = now
}
