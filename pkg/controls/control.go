// Package controls interprets a field, its current value and the presentation
// mode into a renderer-neutral control description, and applies user events
// to produce the next value. HTML and terminal renderers consume the same
// controls so interaction rules live in one place.
package controls

import (
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Kind identifies the interactive widget a control is drawn as.
type Kind string

const (
	KindInput       Kind = "input"
	KindTextarea    Kind = "textarea"
	KindPassword    Kind = "password"
	KindNumber      Kind = "number"
	KindSelect      Kind = "select"
	KindRadio       Kind = "radio"
	KindCheckbox    Kind = "checkbox"
	KindToggle      Kind = "toggle"
	KindMultiSelect Kind = "multiselect"
	KindSearchable  Kind = "searchable"
	KindRating      Kind = "rating"
	KindRange       Kind = "range"
	KindColor       Kind = "color"
	KindCurrency    Kind = "currency"
	KindMask        Kind = "mask"
	KindDateTime    Kind = "datetime"
	KindFile        Kind = "file"
	KindAction      Kind = "action"
)

// DefaultColor is the initial value of color pickers.
const DefaultColor = "#4A2D85"

// SearchState is the host-owned state of a searchable dropdown.
type SearchState struct {
	Query   string
	Loading bool
	Results []model.Option
	Err     string
}

// Context carries everything outside the field definition a control needs.
type Context struct {
	Mode     model.Mode
	Values   model.Values
	Error    string
	Revealed bool
	Search   *SearchState

	logger hclog.Logger
}

func (c Context) log() hclog.Logger {
	if c.logger == nil {
		return hclog.NewNullLogger()
	}
	return c.logger
}

// Choice is an option annotated with selection state.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Star is one rating star.
type Star struct {
	Index  int  `json:"index"`
	Value  int  `json:"value"`
	Filled bool `json:"filled"`
}

// RangeState describes slider bounds.
type RangeState struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Step      float64 `json:"step"`
	Value     float64 `json:"value"`
	ShowValue bool    `json:"showValue"`
}

// NumberBounds carries optional numeric input attributes.
type NumberBounds struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

// MaskState carries the mask and its derived HTML pattern.
type MaskState struct {
	Pattern     string `json:"pattern"`
	Expression  string `json:"expression,omitempty"`
	Placeholder string `json:"placeholder"`
}

// ActionState describes a stubbed hardware action button.
type ActionState struct {
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Sentinel any    `json:"sentinel"`
	Fired    bool   `json:"fired"`
}

// Control is the renderer-neutral description of one field's control.
type Control struct {
	FieldID     string          `json:"fieldId"`
	Type        model.FieldType `json:"type"`
	Kind        Kind            `json:"kind"`
	InputType   string          `json:"inputType,omitempty"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder,omitempty"`
	HelpText    string          `json:"helpText,omitempty"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"required"`
	Width       model.Width     `json:"width"`
	Error       string          `json:"error,omitempty"`

	Mode        model.Mode `json:"mode"`
	Disabled    bool       `json:"disabled"`
	ReadOnly    bool       `json:"readonly"`
	Interactive bool       `json:"interactive"`
	Sample      bool       `json:"sample"`

	Value   any    `json:"value,omitempty"`
	Display string `json:"display"`
	Checked bool   `json:"checked"`
	Prefix  string `json:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty"`

	Choices   []Choice       `json:"choices,omitempty"`
	Chips     []Choice       `json:"chips,omitempty"`
	Available []model.Option `json:"available,omitempty"`
	Multiple  bool           `json:"multiple"`
	Cascading bool           `json:"cascading"`

	ServerSideSearch bool   `json:"serverSideSearch"`
	Query            string `json:"query,omitempty"`
	Loading          bool   `json:"loading"`
	SearchError      string `json:"searchError,omitempty"`

	Stars    []Star         `json:"stars,omitempty"`
	Range    *RangeState    `json:"range,omitempty"`
	Number   *NumberBounds  `json:"number,omitempty"`
	Currency string         `json:"currencySymbol,omitempty"`
	Code     string         `json:"currencyCode,omitempty"`
	Mask     *MaskState     `json:"mask,omitempty"`
	DateTime model.DateTime `json:"datetime"`
	Accept   string         `json:"accept,omitempty"`
	File     *model.FileRef `json:"file,omitempty"`
	Revealed bool           `json:"revealed"`
	Action   *ActionState   `json:"action,omitempty"`
}

// EventKind names a user interaction.
type EventKind string

const (
	EventInput  EventKind = "input"
	EventSelect EventKind = "select"
	EventAdd    EventKind = "add"
	EventRemove EventKind = "remove"
	EventStar   EventKind = "star"
	EventToggle EventKind = "toggle"
	EventDate   EventKind = "date"
	EventTime   EventKind = "time"
	EventAction EventKind = "action"
	EventReveal EventKind = "reveal"
	EventSearch EventKind = "search"
	EventFile   EventKind = "file"
	EventClear  EventKind = "clear"
)

// Event is one user interaction with a control.
type Event struct {
	Kind  EventKind `json:"kind"`
	Value any       `json:"value,omitempty"`
	Index int       `json:"index,omitempty"`
}

// Result is the outcome of handling an event. Value is the next field value;
// Changed is false when the event left the value untouched. Reveal and Query
// describe control-local state changes the host applies without touching the
// value bag.
type Result struct {
	Value   any
	Changed bool
	Reveal  bool
	Query   *string
}

func unchanged(value any) Result {
	return Result{Value: value}
}
