package components

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/controls"
)

const (
	templatePrefix = "templates/components/"

	// RuntimeScript is the asset path of the client runtime that forwards
	// control events to a canvas session.
	RuntimeScript = "formdesigner-runtime.js"
)

var builtinKinds = []controls.Kind{
	controls.KindInput,
	controls.KindTextarea,
	controls.KindPassword,
	controls.KindNumber,
	controls.KindSelect,
	controls.KindRadio,
	controls.KindCheckbox,
	controls.KindToggle,
	controls.KindMultiSelect,
	controls.KindSearchable,
	controls.KindRating,
	controls.KindRange,
	controls.KindColor,
	controls.KindCurrency,
	controls.KindMask,
	controls.KindDateTime,
	controls.KindFile,
	controls.KindAction,
}

// NewDefaultRegistry returns a registry with a template component for every
// built-in control kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, kind := range builtinKinds {
		descriptor := Descriptor{
			Renderer: templateComponentRenderer(PartialKey(kind), templatePrefix+string(kind)+".tmpl"),
		}
		switch kind {
		case controls.KindPassword, controls.KindSearchable, controls.KindMultiSelect, controls.KindAction:
			descriptor.Scripts = []Script{{Src: RuntimeScript, Defer: true}}
		}
		registry.MustRegister(kind, descriptor)
	}
	return registry
}

// PartialKey names the theme partial that overrides a kind's template.
func PartialKey(kind controls.Kind) string {
	return "forms." + string(kind)
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, control controls.Control, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.Partials != nil {
			if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"control": control,
			"id":      data.DOMID,
			"name":    control.FieldID,
			"attrs":   Attributes(control),
			"stars":   stars(control),
			"config":  data.Config,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// Attributes flattens the numeric and structured parts of a control into
// preformatted strings so templates never format numbers themselves.
func Attributes(control controls.Control) map[string]string {
	attrs := map[string]string{}
	if n := control.Number; n != nil {
		setFloat(attrs, "min", n.Min)
		setFloat(attrs, "max", n.Max)
		setFloat(attrs, "step", n.Step)
	}
	if r := control.Range; r != nil {
		attrs["min"] = formatFloat(r.Min)
		attrs["max"] = formatFloat(r.Max)
		attrs["step"] = formatFloat(r.Step)
		attrs["value"] = formatFloat(r.Value)
	}
	if m := control.Mask; m != nil {
		attrs["pattern"] = m.Expression
		attrs["mask"] = m.Pattern
	}
	if control.Kind == controls.KindDateTime {
		attrs["date"] = control.DateTime.Date
		attrs["time"] = control.DateTime.Time
	}
	if control.File != nil {
		attrs["fileName"] = control.File.Name
		if control.File.Size > 0 {
			attrs["fileSize"] = strconv.FormatInt(control.File.Size, 10)
		}
	}
	if a := control.Action; a != nil {
		attrs["sentinel"] = controls.Stringify(a.Sentinel)
	}
	return attrs
}

func stars(control controls.Control) []map[string]any {
	if len(control.Stars) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(control.Stars))
	for _, star := range control.Stars {
		label := strconv.Itoa(star.Value) + " stars"
		if star.Value == 1 {
			label = "1 star"
		}
		out = append(out, map[string]any{
			"value":  strconv.Itoa(star.Value),
			"filled": star.Filled,
			"label":  label,
		})
	}
	return out
}

func setFloat(attrs map[string]string, key string, value *float64) {
	if value != nil {
		attrs[key] = formatFloat(*value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
