package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Selection marks the selected widget or field in design mode.
type Selection struct {
	WidgetID string
	FieldID  string
}

// DropIndicator highlights the active drop zone in design mode. Zone is
// ignored unless Active is set.
type DropIndicator struct {
	Active bool
	Zone   int
}

// RenderOptions carry per-request state renderers combine with the design.
type RenderOptions struct {
	// Mode selects design (inert, sample content), preview (live) or
	// readonly output. Empty means preview.
	Mode model.Mode
	// Values is the preview value bag keyed by field id.
	Values model.Values
	// Errors is keyed by field id; renderers surface the first message.
	Errors map[string][]string
	// FormErrors are messages not tied to a field.
	FormErrors []string
	// Revealed marks password fields whose content is shown.
	Revealed map[string]bool
	// Search carries searchable dropdown state keyed by field id.
	Search map[string]controls.SearchState
	// HiddenFields are emitted as hidden inputs (csrf tokens, versions).
	HiddenFields map[string]string
	Selection    Selection
	Drop         DropIndicator
	// Subset restricts output to some widgets or field types.
	Subset Subset
	// Theme supplies tokens and partial overrides.
	Theme *theme.RendererConfig
	// Locale and Translator localise titles, labels and messages.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Action and Method configure the HTML form element.
	Action string
	Method string
	// Socket is the websocket URL of a live canvas session the client
	// runtime forwards control events to.
	Socket string
}

// EffectiveMode returns the mode with the preview default applied.
func (o RenderOptions) EffectiveMode() model.Mode {
	if o.Mode == "" {
		return model.ModePreview
	}
	return model.ParseMode(string(o.Mode))
}

// FirstError returns the first error recorded for fieldID.
func (o RenderOptions) FirstError(fieldID string) string {
	if msgs := o.Errors[fieldID]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ControlContext builds the controls context for one field.
func (o RenderOptions) ControlContext(fieldID string) controls.Context {
	ctx := controls.Context{
		Mode:     o.EffectiveMode(),
		Values:   o.Values,
		Error:    o.FirstError(fieldID),
		Revealed: o.Revealed[fieldID],
	}
	if state, ok := o.Search[fieldID]; ok {
		ctx.Search = &state
	}
	return ctx
}
