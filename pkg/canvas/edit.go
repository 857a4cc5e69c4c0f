package canvas

import (
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// CopySuffix is appended to the title of duplicated widgets.
const CopySuffix = " (Copy)"

// SelectWidget selects a widget and clears any field selection.
func (c *Canvas) SelectWidget(id string) error {
	c.mu.Lock()
	if c.mode != model.ModeDesign {
		c.mu.Unlock()
		return ErrNotDesignMode
	}
	if model.WidgetIndex(c.design.Widgets, id) < 0 {
		c.mu.Unlock()
		return notFound(ErrWidgetNotFound, id)
	}
	c.selection = Selection{WidgetID: id}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeSelection, WidgetID: id})
	return nil
}

// SelectField selects a field. The owning widget is recorded so the panel
// can show context, but field-level edits target the field.
func (c *Canvas) SelectField(id string) error {
	c.mu.Lock()
	if c.mode != model.ModeDesign {
		c.mu.Unlock()
		return ErrNotDesignMode
	}
	_, wi, ok := model.FindField(c.design.Widgets, id)
	if !ok {
		c.mu.Unlock()
		return notFound(ErrFieldNotFound, id)
	}
	c.selection = Selection{WidgetID: c.design.Widgets[wi].ID, FieldID: id}
	owner := c.selection.WidgetID
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeSelection, WidgetID: owner, FieldID: id})
	return nil
}

// ClearSelection handles a click on the canvas background.
func (c *Canvas) ClearSelection() {
	c.mu.Lock()
	if c.selection.Empty() {
		c.mu.Unlock()
		return
	}
	c.selection = Selection{}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeSelection})
}

// Duplicate deep-copies a widget, assigns fresh widget and field ids, suffixes
// the title and appends the copy.
func (c *Canvas) Duplicate(widgetID string) (model.Widget, error) {
	c.mu.Lock()
	if c.mode != model.ModeDesign {
		c.mu.Unlock()
		return model.Widget{}, ErrNotDesignMode
	}
	idx := model.WidgetIndex(c.design.Widgets, widgetID)
	if idx < 0 {
		c.mu.Unlock()
		return model.Widget{}, notFound(ErrWidgetNotFound, widgetID)
	}
	clone := model.CloneWidget(c.design.Widgets[idx])
	model.Reidentify(&clone, c.ids)
	clone.Title += CopySuffix
	c.design.Widgets = append(c.design.Widgets, clone)
	model.ReindexWidgets(c.design.Widgets)
	c.touch()
	out := model.CloneWidget(c.design.Widgets[len(c.design.Widgets)-1])
	c.mu.Unlock()

	c.notify(Change{Kind: ChangeDesign, WidgetID: out.ID})
	return out, nil
}

// DeleteWidget removes a widget and forgets its fields' preview values.
func (c *Canvas) DeleteWidget(widgetID string) error {
	c.mu.Lock()
	idx := model.WidgetIndex(c.design.Widgets, widgetID)
	if idx < 0 {
		c.mu.Unlock()
		return notFound(ErrWidgetNotFound, widgetID)
	}
	removed := c.design.Widgets[idx]
	c.design.Widgets = append(c.design.Widgets[:idx], c.design.Widgets[idx+1:]...)
	model.ReindexWidgets(c.design.Widgets)
	if c.selection.WidgetID == widgetID {
		c.selection = Selection{}
	}
	if c.session != nil {
		for _, field := range removed.Fields {
			c.session.forget(field.ID)
		}
	}
	c.touch()
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: widgetID}, Change{Kind: ChangeSelection})
	return nil
}

// MoveWidget moves a widget to index to, clamped to the list bounds.
func (c *Canvas) MoveWidget(widgetID string, to int) error {
	c.mu.Lock()
	idx := model.WidgetIndex(c.design.Widgets, widgetID)
	if idx < 0 {
		c.mu.Unlock()
		return notFound(ErrWidgetNotFound, widgetID)
	}
	widgets := c.design.Widgets
	to = clampIndex(to, len(widgets)-1)
	if to == idx {
		c.mu.Unlock()
		return nil
	}
	widget := widgets[idx]
	widgets = append(widgets[:idx], widgets[idx+1:]...)
	widgets = append(widgets, model.Widget{})
	copy(widgets[to+1:], widgets[to:])
	widgets[to] = widget
	model.ReindexWidgets(widgets)
	c.design.Widgets = widgets
	c.touch()
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: widgetID})
	return nil
}

// MoveWidgetBy shifts a widget by delta positions (negative moves up).
func (c *Canvas) MoveWidgetBy(widgetID string, delta int) error {
	c.mu.Lock()
	idx := model.WidgetIndex(c.design.Widgets, widgetID)
	c.mu.Unlock()
	if idx < 0 {
		return notFound(ErrWidgetNotFound, widgetID)
	}
	return c.MoveWidget(widgetID, idx+delta)
}

// AddField appends a new field of type t to a form widget.
func (c *Canvas) AddField(widgetID string, t model.FieldType) (model.Field, error) {
	c.mu.Lock()
	if c.mode != model.ModeDesign {
		c.mu.Unlock()
		return model.Field{}, ErrNotDesignMode
	}
	idx := model.WidgetIndex(c.design.Widgets, widgetID)
	if idx < 0 {
		c.mu.Unlock()
		return model.Field{}, notFound(ErrWidgetNotFound, widgetID)
	}
	widget := &c.design.Widgets[idx]
	if !widget.Type.CarriesFields() {
		c.mu.Unlock()
		return model.Field{}, fmt.Errorf("%w: %s", ErrNoFields, widget.Type)
	}
	field := model.NewField(c.ids.NewID(model.PrefixField), t, model.PropertyLabel("", t))
	widget.Fields = append(widget.Fields, field)
	widget.Reindex()
	if c.session != nil {
		c.session.seed(widget.Fields[len(widget.Fields)-1])
	}
	c.touch()
	out := model.CloneField(widget.Fields[len(widget.Fields)-1])
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: widgetID, FieldID: out.ID})
	return out, nil
}

// DeleteField removes a field from its widget.
func (c *Canvas) DeleteField(fieldID string) error {
	c.mu.Lock()
	_, wi, ok := model.FindField(c.design.Widgets, fieldID)
	if !ok {
		c.mu.Unlock()
		return notFound(ErrFieldNotFound, fieldID)
	}
	widget := &c.design.Widgets[wi]
	fi := widget.FieldIndex(fieldID)
	widget.Fields = append(widget.Fields[:fi], widget.Fields[fi+1:]...)
	widget.Reindex()
	if c.selection.FieldID == fieldID {
		c.selection = Selection{WidgetID: widget.ID}
	}
	if c.session != nil {
		c.session.forget(fieldID)
	}
	c.touch()
	owner := widget.ID
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: owner, FieldID: fieldID}, Change{Kind: ChangeSelection})
	return nil
}

// MoveField moves a field within its widget.
func (c *Canvas) MoveField(fieldID string, to int) error {
	c.mu.Lock()
	_, wi, ok := model.FindField(c.design.Widgets, fieldID)
	if !ok {
		c.mu.Unlock()
		return notFound(ErrFieldNotFound, fieldID)
	}
	widget := &c.design.Widgets[wi]
	fi := widget.FieldIndex(fieldID)
	to = clampIndex(to, len(widget.Fields)-1)
	if fi != to {
		field := widget.Fields[fi]
		fields := append(widget.Fields[:fi], widget.Fields[fi+1:]...)
		fields = append(fields, model.Field{})
		copy(fields[to+1:], fields[to:])
		fields[to] = field
		widget.Fields = fields
		widget.Reindex()
		c.touch()
	}
	owner := widget.ID
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: owner, FieldID: fieldID})
	return nil
}

// MutateField runs fn against the live field. fn's error aborts the change;
// on success observers are notified.
func (c *Canvas) MutateField(fieldID string, fn func(widget *model.Widget, field *model.Field) error) error {
	c.mu.Lock()
	field, wi, ok := model.FindField(c.design.Widgets, fieldID)
	if !ok {
		c.mu.Unlock()
		return notFound(ErrFieldNotFound, fieldID)
	}
	widget := &c.design.Widgets[wi]
	if err := fn(widget, field); err != nil {
		c.mu.Unlock()
		return err
	}
	c.touch()
	owner := widget.ID
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: owner, FieldID: fieldID})
	return nil
}

// MutateWidget runs fn against the live widget.
func (c *Canvas) MutateWidget(widgetID string, fn func(widget *model.Widget) error) error {
	c.mu.Lock()
	idx := model.WidgetIndex(c.design.Widgets, widgetID)
	if idx < 0 {
		c.mu.Unlock()
		return notFound(ErrWidgetNotFound, widgetID)
	}
	if err := fn(&c.design.Widgets[idx]); err != nil {
		c.mu.Unlock()
		return err
	}
	c.touch()
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign, WidgetID: widgetID})
	return nil
}

// MutateDesign runs fn against the design's top-level attributes. The
// widget list must not be replaced by fn.
func (c *Canvas) MutateDesign(fn func(design *model.Design) error) error {
	c.mu.Lock()
	if err := fn(&c.design); err != nil {
		c.mu.Unlock()
		return err
	}
	c.touch()
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDesign})
	return nil
}
