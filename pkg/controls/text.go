package controls

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

type genericBehavior struct{}

func (genericBehavior) Kind() Kind { return KindInput }

func (genericBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = string(field.Type)
	if c.InputType == "" {
		c.InputType = "text"
	}
	c.Display = Stringify(value)
}

func (genericBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	return handleText(value, ev)
}

type textBehavior struct{}

func (textBehavior) Kind() Kind { return KindInput }

func (textBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = string(field.Type)
	c.Display = Stringify(value)
	if props, ok := field.Props.(*model.TextProps); ok && props != nil {
		c.Prefix, c.Suffix = props.Prefix, props.Suffix
	}
	if c.Sample && c.Placeholder == "" {
		c.Placeholder = sampleText(field.Type)
	}
}

func (textBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	return handleText(value, ev)
}

type textareaBehavior struct{}

func (textareaBehavior) Kind() Kind { return KindTextarea }

func (textareaBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.Display = Stringify(value)
	if c.Sample && c.Placeholder == "" {
		c.Placeholder = "Enter a longer answer..."
	}
}

func (textareaBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	return handleText(value, ev)
}

type passwordBehavior struct{}

func (passwordBehavior) Kind() Kind { return KindPassword }

func (passwordBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = "password"
	c.Revealed = ctx.Revealed && c.Interactive
	if c.Revealed {
		c.InputType = "text"
	}
	c.Display = Stringify(value)
	if props, ok := field.Props.(*model.TextProps); ok && props != nil {
		c.Prefix, c.Suffix = props.Prefix, props.Suffix
	}
}

func (passwordBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	if ev.Kind == EventReveal {
		return Result{Value: value, Reveal: true}
	}
	return handleText(value, ev)
}

type numberBehavior struct{}

func (numberBehavior) Kind() Kind { return KindNumber }

func (numberBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = "number"
	c.Display = Stringify(value)
	if props, ok := field.Props.(*model.NumberProps); ok && props != nil {
		c.Number = &NumberBounds{Min: props.Min, Max: props.Max, Step: props.Step}
		c.Prefix, c.Suffix = props.Prefix, props.Suffix
	}
	if c.Sample && c.Placeholder == "" {
		c.Placeholder = "0"
	}
}

// Handle commits parseable input as a number, blank input as the empty
// string and anything else verbatim so the number rule can flag it.
func (numberBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	switch ev.Kind {
	case EventInput:
		raw := strings.TrimSpace(Stringify(ev.Value))
		var next any = raw
		if raw != "" {
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				next = n
			}
		}
		return changedTo(value, next)
	case EventClear:
		return changedTo(value, "")
	}
	return unchanged(value)
}

type colorBehavior struct{}

func (colorBehavior) Kind() Kind { return KindColor }

func (colorBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = "color"
	c.Display = Stringify(value)
	if c.Display == "" {
		c.Display = DefaultColor
	}
}

func (colorBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	return handleText(value, ev)
}

func handleText(value any, ev Event) Result {
	switch ev.Kind {
	case EventInput:
		return changedTo(value, Stringify(ev.Value))
	case EventClear:
		return changedTo(value, "")
	}
	return unchanged(value)
}

func changedTo(previous, next any) Result {
	return Result{Value: next, Changed: !sameValue(previous, next)}
}

func sameValue(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string, bool, float64, int:
		return a == b
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case model.DateTime:
		bv, ok := b.(model.DateTime)
		return ok && av == bv
	default:
		return false
	}
}

// Stringify renders a value the way an input element displays it.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	case []string:
		return strings.Join(typed, ", ")
	case model.DateTime:
		return strings.TrimSpace(typed.Date + " " + typed.Time)
	case model.FileRef:
		return typed.Name
	case *model.FileRef:
		if typed == nil {
			return ""
		}
		return typed.Name
	default:
		return ""
	}
}

func sampleText(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "name@example.com"
	case model.FieldTypeTel:
		return "+1 555 0100"
	case model.FieldTypeURL:
		return "https://example.com"
	case model.FieldTypeDate, model.FieldTypeTime:
		return ""
	default:
		return "Sample text"
	}
}
