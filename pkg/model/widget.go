package model

import "time"

// WidgetSettings controls the widget grid and chrome.
type WidgetSettings struct {
	Columns    int  `json:"columns" yaml:"columns"`
	Spacing    int  `json:"spacing" yaml:"spacing"`
	ShowBorder bool `json:"showBorder" yaml:"showBorder"`
	ShowShadow bool `json:"showShadow" yaml:"showShadow"`
}

// DefaultWidgetSettings is applied to widgets created from the palette.
func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{Columns: 1, Spacing: 16, ShowBorder: true}
}

// EffectiveColumns returns the grid track count, never below one.
func (s WidgetSettings) EffectiveColumns() int {
	if s.Columns < 1 {
		return 1
	}
	return s.Columns
}

// Widget groups fields into a titled panel.
type Widget struct {
	ID           string         `json:"id" yaml:"id"`
	Type         WidgetType     `json:"type" yaml:"type"`
	Title        string         `json:"title" yaml:"title"`
	Fields       []Field        `json:"fields" yaml:"fields"`
	Settings     WidgetSettings `json:"settings" yaml:"settings"`
	Order        int            `json:"order" yaml:"order"`
	ModelBinding string         `json:"modelBinding,omitempty" yaml:"modelBinding,omitempty"`
}

// FieldIndex returns the position of the field with the given id, or -1.
func (w Widget) FieldIndex(id string) int {
	for i := range w.Fields {
		if w.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// Field returns a pointer to the field with the given id.
func (w *Widget) Field(id string) (*Field, bool) {
	idx := w.FieldIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &w.Fields[idx], true
}

// Reindex rewrites field Order values to match slice order.
func (w *Widget) Reindex() {
	for i := range w.Fields {
		w.Fields[i].Order = i
	}
}

// DesignSettings holds design-wide presentation settings.
type DesignSettings struct {
	SubmitLabel string `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	ShowSummary bool   `json:"showSummary,omitempty" yaml:"showSummary,omitempty"`
	Theme       string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Variant     string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

// Design is the unit persisted and loaded by a design library.
type Design struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Widgets     []Widget       `json:"widgets" yaml:"widgets"`
	ModelID     string         `json:"modelId,omitempty" yaml:"modelId,omitempty"`
	Settings    DesignSettings `json:"settings" yaml:"settings"`
	CreatedAt   time.Time      `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// WidgetIndex returns the position of the widget with the given id, or -1.
func (d Design) WidgetIndex(id string) int {
	return WidgetIndex(d.Widgets, id)
}

// WidgetIndex returns the position of the widget with the given id, or -1.
func WidgetIndex(widgets []Widget, id string) int {
	for i := range widgets {
		if widgets[i].ID == id {
			return i
		}
	}
	return -1
}

// FindField locates a field across widgets and returns it along with the
// index of its owning widget.
func FindField(widgets []Widget, id string) (*Field, int, bool) {
	for wi := range widgets {
		if field, ok := widgets[wi].Field(id); ok {
			return field, wi, true
		}
	}
	return nil, -1, false
}

// EachField calls fn for every field in widget then field order.
func EachField(widgets []Widget, fn func(widget *Widget, field *Field)) {
	for wi := range widgets {
		for fi := range widgets[wi].Fields {
			fn(&widgets[wi], &widgets[wi].Fields[fi])
		}
	}
}

// ReindexWidgets rewrites widget Order values to match slice order.
func ReindexWidgets(widgets []Widget) {
	for i := range widgets {
		widgets[i].Order = i
	}
}

// Check verifies every widget and field in the design.
func (d Design) Check() error {
	seen := make(map[string]struct{})
	for _, widget := range d.Widgets {
		if widget.ID == "" {
			return ErrMissingWidgetID
		}
		for _, field := range widget.Fields {
			if err := field.Check(); err != nil {
				return err
			}
			if _, dup := seen[field.ID]; dup {
				return &DuplicateIDError{ID: field.ID}
			}
			seen[field.ID] = struct{}{}
		}
	}
	return nil
}

// Normalize fills defaults on every widget and field.
func (d *Design) Normalize() {
	for wi := range d.Widgets {
		widget := &d.Widgets[wi]
		if widget.Type == "" {
			widget.Type = WidgetTypeForm
		}
		if widget.Settings.Columns < 1 {
			widget.Settings.Columns = 1
		}
		for fi := range widget.Fields {
			widget.Fields[fi].Normalize()
		}
	}
}
