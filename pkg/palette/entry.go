// Package palette describes the widget types a designer can drop onto the
// canvas, and the serialisable payload that carries them there.
package palette

import (
	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Categories in palette order.
const (
	CategoryBasic    = "Basic"
	CategoryChoice   = "Choice"
	CategoryAdvanced = "Advanced"
	CategoryMedia    = "Media"
	CategoryDevice   = "Device"
	CategoryLayout   = "Layout"
)

var categoryOrder = map[string]int{
	CategoryBasic:    0,
	CategoryChoice:   1,
	CategoryAdvanced: 2,
	CategoryMedia:    3,
	CategoryDevice:   4,
	CategoryLayout:   5,
}

// DefaultConfig is the template a dropped widget is built from. Field, when
// present, seeds the widget's single initial field.
type DefaultConfig struct {
	Type     model.WidgetType     `json:"type"`
	Title    string               `json:"title"`
	Settings model.WidgetSettings `json:"settings"`
	Field    *model.Field         `json:"field,omitempty"`
}

// Entry is one palette item. It carries only serialisable data so it can
// travel through a drag payload.
type Entry struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	Description   string        `json:"description"`
	Icon          string        `json:"icon,omitempty"`
	DefaultConfig DefaultConfig `json:"defaultConfig"`
}

// AddWidget is the command a palette posts to the canvas. A nil Zone appends.
type AddWidget struct {
	Entry Entry `json:"entry"`
	Zone  *int  `json:"zone,omitempty"`
}

// Add builds the command that drops e at zone, or at the end when zone is nil.
func (e Entry) Add(zone *int) AddWidget {
	cmd := AddWidget{Entry: e}
	if zone != nil {
		k := *zone
		cmd.Zone = &k
	}
	return cmd
}

// Instantiate builds a widget from the entry's template with fresh ids.
func (e Entry) Instantiate(ids model.IDGenerator) model.Widget {
	if ids == nil {
		ids = model.UUIDGenerator{}
	}
	cfg := e.DefaultConfig
	widget := model.Widget{
		ID:       ids.NewID(model.PrefixWidget),
		Type:     cfg.Type,
		Title:    cfg.Title,
		Settings: cfg.Settings,
		Fields:   []model.Field{},
	}
	if widget.Type == "" {
		widget.Type = model.WidgetTypeForm
	}
	if widget.Title == "" {
		widget.Title = e.Name
	}
	if widget.Settings.Columns < 1 {
		widget.Settings.Columns = 1
	}
	if cfg.Field != nil && widget.Type.CarriesFields() {
		field := model.CloneField(*cfg.Field)
		field.ID = ids.NewID(model.PrefixField)
		field.Order = 0
		if field.Label == "" {
			field.Label = e.Name
		}
		for i := range field.Validations {
			field.Validations[i].ID = ids.NewID(model.PrefixRule)
		}
		field.Normalize()
		widget.Fields = append(widget.Fields, field)
	}
	return widget
}
