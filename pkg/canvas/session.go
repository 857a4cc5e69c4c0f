package canvas

import (
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/validation"
)

// SubmitFunc receives a copy of the value bag after a clean validation.
type SubmitFunc func(values model.Values) error

// Session is a snapshot of the preview state.
type Session struct {
	Values    model.Values                    `json:"values"`
	Errors    map[string]string               `json:"errors"`
	Revealed  map[string]bool                 `json:"revealed,omitempty"`
	Search    map[string]controls.SearchState `json:"search,omitempty"`
	Submitted bool                            `json:"submitted"`
}

type session struct {
	values    model.Values
	errors    map[string]string
	revealed  map[string]bool
	search    map[string]*controls.SearchState
	submitted bool
}

func newSession(widgets []model.Widget) *session {
	s := &session{
		values:   model.Values{},
		errors:   map[string]string{},
		revealed: map[string]bool{},
		search:   map[string]*controls.SearchState{},
	}
	model.EachField(widgets, func(_ *model.Widget, field *model.Field) {
		s.seed(*field)
	})
	return s
}

func (s *session) seed(field model.Field) {
	if field.DefaultValue != nil {
		s.values[field.ID] = field.DefaultValue
	}
}

func (s *session) forget(fieldID string) {
	delete(s.values, fieldID)
	delete(s.errors, fieldID)
	delete(s.revealed, fieldID)
	delete(s.search, fieldID)
}

func (s *session) snapshot() Session {
	out := Session{
		Values:    s.values.Clone(),
		Errors:    make(map[string]string, len(s.errors)),
		Revealed:  make(map[string]bool, len(s.revealed)),
		Search:    make(map[string]controls.SearchState, len(s.search)),
		Submitted: s.submitted,
	}
	for k, v := range s.errors {
		out.Errors[k] = v
	}
	for k, v := range s.revealed {
		if v {
			out.Revealed[k] = true
		}
	}
	for k, v := range s.search {
		state := *v
		state.Results = append([]model.Option(nil), v.Results...)
		out.Search[k] = state
	}
	return out
}

func (s *session) context(mode model.Mode, fieldID string) controls.Context {
	ctx := controls.Context{
		Mode:     mode,
		Values:   s.values,
		Error:    s.errors[fieldID],
		Revealed: s.revealed[fieldID],
	}
	if state, ok := s.search[fieldID]; ok {
		copied := *state
		ctx.Search = &copied
	}
	return ctx
}

// Session returns a snapshot of the preview state. Outside a preview the
// snapshot is empty.
func (c *Canvas) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return newSession(nil).snapshot()
	}
	return c.session.snapshot()
}

// Values returns a copy of the preview value bag.
func (c *Canvas) Values() model.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return model.Values{}
	}
	return c.session.values.Clone()
}

// ResetSession discards preview values and errors and reseeds defaults.
func (c *Canvas) ResetSession() {
	c.mu.Lock()
	c.session = nil
	if c.mode != model.ModeDesign {
		c.session = newSession(c.design.Widgets)
	}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeValues}, Change{Kind: ChangeErrors})
}

// SetValue writes a preview value, resets fields cascading from it and
// clears the field's error. It returns the ids of the reset dependents.
func (c *Canvas) SetValue(fieldID string, value any) ([]string, error) {
	c.mu.Lock()
	if c.mode != model.ModePreview {
		c.mu.Unlock()
		return nil, ErrNotPreviewMode
	}
	if _, _, ok := model.FindField(c.design.Widgets, fieldID); !ok {
		c.mu.Unlock()
		return nil, notFound(ErrFieldNotFound, fieldID)
	}
	reset := c.setValueLocked(fieldID, value)
	c.mu.Unlock()

	c.notifyValues(fieldID, reset)
	return reset, nil
}

func (c *Canvas) setValueLocked(fieldID string, value any) []string {
	s := c.session
	s.values[fieldID] = value
	delete(s.errors, fieldID)
	s.submitted = false
	reset := cascade.Apply(s.values, cascade.Propagate(fieldID, c.design.Widgets))
	if len(reset) > 0 {
		c.logger.Debug("cascade reset", "source", fieldID, "dependents", reset)
	}
	return reset
}

func (c *Canvas) notifyValues(fieldID string, reset []string) {
	changes := []Change{{Kind: ChangeValues, FieldID: fieldID}}
	for _, id := range reset {
		changes = append(changes, Change{Kind: ChangeValues, FieldID: id})
	}
	changes = append(changes, Change{Kind: ChangeErrors, FieldID: fieldID})
	c.notify(changes...)
}

// Interact routes a control event for fieldID through the control registry
// and applies the result to the session.
func (c *Canvas) Interact(fieldID string, ev controls.Event) (controls.Result, error) {
	c.mu.Lock()
	if c.mode != model.ModePreview {
		c.mu.Unlock()
		return controls.Result{}, ErrNotPreviewMode
	}
	field, _, ok := model.FindField(c.design.Widgets, fieldID)
	if !ok {
		c.mu.Unlock()
		return controls.Result{}, notFound(ErrFieldNotFound, fieldID)
	}
	s := c.session
	current, seen := s.values[fieldID]
	if !seen {
		current = field.DefaultValue
	}
	res := c.controls.Handle(*field, current, ev, s.context(c.mode, fieldID))
	if res.Reveal {
		s.revealed[fieldID] = !s.revealed[fieldID]
	}
	if res.Query != nil {
		state, ok := s.search[fieldID]
		if !ok {
			state = &controls.SearchState{}
			s.search[fieldID] = state
		}
		state.Query = *res.Query
	}
	var reset []string
	if res.Changed {
		reset = c.setValueLocked(fieldID, res.Value)
	}
	c.mu.Unlock()

	if res.Changed {
		c.notifyValues(fieldID, reset)
	} else if res.Reveal || res.Query != nil {
		c.notify(Change{Kind: ChangeValues, FieldID: fieldID})
	}
	return res, nil
}

// SetSearchState records the state of a server-side search for fieldID.
func (c *Canvas) SetSearchState(fieldID string, state controls.SearchState) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNotPreviewMode
	}
	if _, _, ok := model.FindField(c.design.Widgets, fieldID); !ok {
		c.mu.Unlock()
		return notFound(ErrFieldNotFound, fieldID)
	}
	state.Results = append([]model.Option(nil), state.Results...)
	c.session.search[fieldID] = &state
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeValues, FieldID: fieldID})
	return nil
}

// Controls builds the control description for every field using the current
// mode and session state. The result is keyed by field id.
func (c *Canvas) Controls() map[string]controls.Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		s = newSession(c.design.Widgets)
	}
	out := make(map[string]controls.Control)
	model.EachField(c.design.Widgets, func(_ *model.Widget, field *model.Field) {
		out[field.ID] = c.controls.Build(*field, s.values[field.ID], s.context(c.mode, field.ID))
	})
	return out
}

// Validate runs the engine over the preview values without submitting.
func (c *Canvas) Validate() []model.ValidationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	values := model.Values{}
	if c.session != nil {
		values = c.session.values
	}
	return c.validator.Validate(c.design.Widgets, values)
}

// Submit validates the preview values. With errors, the first error per
// field is recorded on the session and returned; onSubmit is not called.
// Otherwise onSubmit receives a copy of the value bag.
func (c *Canvas) Submit(onSubmit SubmitFunc) ([]model.ValidationError, error) {
	c.mu.Lock()
	if c.mode != model.ModePreview {
		c.mu.Unlock()
		return nil, ErrNotPreviewMode
	}
	s := c.session
	errs := c.validator.Validate(c.design.Widgets, s.values)
	s.errors = validation.FirstErrors(errs)
	if s.errors == nil {
		s.errors = map[string]string{}
	}
	s.submitted = len(errs) == 0
	values := s.values.Clone()
	c.mu.Unlock()

	if len(errs) > 0 {
		c.logger.Debug("submit blocked", "errors", len(errs))
		c.notify(Change{Kind: ChangeErrors})
		return errs, nil
	}
	c.notify(Change{Kind: ChangeErrors}, Change{Kind: ChangeSubmitted})
	if onSubmit == nil {
		return nil, nil
	}
	if err := onSubmit(values); err != nil {
		return nil, fmt.Errorf("canvas: submit: %w", err)
	}
	return nil, nil
}
