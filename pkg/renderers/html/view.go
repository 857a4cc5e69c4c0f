package html

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

type formView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Mode        string         `json:"mode"`
	Classes     string         `json:"classes"`
	Design      bool           `json:"design"`
	Action      string         `json:"action,omitempty"`
	Method      string         `json:"method"`
	Socket      string         `json:"socket,omitempty"`
	SubmitLabel string         `json:"submitLabel"`
	Style       string         `json:"style,omitempty"`
	InlineCSS   string         `json:"inlineCss,omitempty"`
	Stylesheets []string       `json:"stylesheets,omitempty"`
	Scripts     []scriptView   `json:"scripts,omitempty"`
	Hidden      []hiddenView   `json:"hidden,omitempty"`
	FormErrors  []string       `json:"formErrors,omitempty"`
	Summary     []summaryEntry `json:"summary,omitempty"`
	Widgets     []widgetView   `json:"widgets"`
	// TrailingZone is the drop zone after the last widget in design mode.
	TrailingZone *zoneView `json:"trailingZone,omitempty"`
}

type widgetView struct {
	ID       string      `json:"id"`
	DOMID    string      `json:"domId"`
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	Order    string      `json:"order"`
	Columns  string      `json:"columns"`
	Gap      string      `json:"gap"`
	Classes  string      `json:"classes"`
	Form     bool        `json:"form"`
	Selected bool        `json:"selected"`
	Fields   []fieldView `json:"fields,omitempty"`
	Zone     *zoneView   `json:"zone,omitempty"`
}

type fieldView struct {
	ID          string `json:"id"`
	DOMID       string `json:"domId"`
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Span        string `json:"span"`
	Classes     string `json:"classes"`
	Error       string `json:"error,omitempty"`
	HelpText    string `json:"helpText,omitempty"`
	Description string `json:"description,omitempty"`
	Control     string `json:"control"`
	Selected    bool   `json:"selected"`
	// Group marks controls rendered as a set of inputs, labelled by a
	// legend-like span instead of a label element.
	Group bool `json:"group"`
}

type zoneView struct {
	Index  string `json:"index"`
	Active bool   `json:"active"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type summaryEntry struct {
	FieldID string `json:"fieldId"`
	Anchor  string `json:"anchor"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

type scriptView struct {
	Src    string `json:"src,omitempty"`
	Inline string `json:"inline,omitempty"`
	Module bool   `json:"module"`
	Defer  bool   `json:"defer"`
}

// domID turns an id into a DOM-safe fragment under prefix.
func domID(prefix, id string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func groupKind(kind controls.Kind) bool {
	switch kind {
	case controls.KindRadio, controls.KindRating, controls.KindMultiSelect,
		controls.KindSearchable, controls.KindDateTime:
		return true
	}
	return false
}

func widgetClasses(widget model.Widget, selected bool) string {
	classes := []string{ClassWidget, ClassWidget + "--" + string(widget.Type)}
	if widget.Settings.ShowBorder {
		classes = append(classes, ClassWidget+"--border")
	}
	if widget.Settings.ShowShadow {
		classes = append(classes, ClassWidget+"--shadow")
	}
	if selected {
		classes = append(classes, ClassSelected)
	}
	return strings.Join(classes, " ")
}

func fieldClasses(control controls.Control, selected bool) string {
	classes := []string{ClassField, ClassField + "--" + string(control.Kind)}
	if control.Required {
		classes = append(classes, ClassField+"--required")
	}
	if control.Error != "" {
		classes = append(classes, ClassField+"--invalid")
	}
	if selected {
		classes = append(classes, ClassSelected)
	}
	return strings.Join(classes, " ")
}

func zone(index int, drop dropState) *zoneView {
	return &zoneView{
		Index:  strconv.Itoa(index),
		Active: drop.active && drop.zone == index,
	}
}

type dropState struct {
	active bool
	zone   int
}
