package controls

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/mask"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

type booleanBehavior struct {
	kind Kind
}

func (b booleanBehavior) Kind() Kind { return b.kind }

func (b booleanBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = "checkbox"
	c.Checked = asBool(value)
	c.Value = c.Checked
}

func (b booleanBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	switch ev.Kind {
	case EventToggle:
		return Result{Value: !asBool(value), Changed: true}
	case EventInput, EventSelect:
		return changedTo(asBool(value), asBool(ev.Value))
	case EventClear:
		return changedTo(asBool(value), false)
	}
	return unchanged(value)
}

func asBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "on", "yes", "1":
			return true
		}
	case float64:
		return typed != 0
	case int:
		return typed != 0
	}
	return false
}

type ratingBehavior struct{}

func (ratingBehavior) Kind() Kind { return KindRating }

func (ratingBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	props, _ := field.Props.(*model.RatingProps)
	max := props.Stars()
	current := int(asFloat(value, 0))
	c.Stars = make([]Star, max)
	for i := range c.Stars {
		c.Stars[i] = Star{Index: i, Value: i + 1, Filled: i < current}
	}
	if current > 0 {
		c.Display = strconv.Itoa(current) + "/" + strconv.Itoa(max)
	}
}

// Handle maps a click on star i to the value i+1.
func (ratingBehavior) Handle(field model.Field, value any, ev Event, _ Context) Result {
	props, _ := field.Props.(*model.RatingProps)
	switch ev.Kind {
	case EventStar:
		if ev.Index < 0 || ev.Index >= props.Stars() {
			return unchanged(value)
		}
		return changedTo(asNumber(value), float64(ev.Index+1))
	case EventClear:
		return changedTo(asNumber(value), nil)
	}
	return unchanged(value)
}

type rangeBehavior struct{}

func (rangeBehavior) Kind() Kind { return KindRange }

func (rangeBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	props, _ := field.Props.(*model.RangeProps)
	min, max, step := props.Bounds()
	state := &RangeState{Min: min, Max: max, Step: step, Value: clamp(asFloat(value, min), min, max)}
	if props != nil {
		state.ShowValue = props.ShowValue
	}
	if c.Sample {
		state.Value = min + (max-min)/2
	}
	c.InputType = "range"
	c.Range = state
	c.Display = Stringify(state.Value)
}

func (rangeBehavior) Handle(field model.Field, value any, ev Event, _ Context) Result {
	if ev.Kind != EventInput {
		return unchanged(value)
	}
	props, _ := field.Props.(*model.RangeProps)
	min, max, _ := props.Bounds()
	n, ok := parseFloat(ev.Value)
	if !ok {
		return unchanged(value)
	}
	return changedTo(asNumber(value), clamp(n, min, max))
}

type currencyBehavior struct{}

func (currencyBehavior) Kind() Kind { return KindCurrency }

func (currencyBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	props, _ := field.Props.(*model.CurrencyProps)
	c.InputType = "text"
	c.Currency = props.DisplaySymbol()
	if props != nil {
		c.Code = props.Code
	}
	c.Display = Stringify(value)
	if c.Sample && c.Placeholder == "" {
		c.Placeholder = "0.00"
	}
}

// Handle keeps only digits and decimal points.
func (currencyBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	switch ev.Kind {
	case EventInput:
		return changedTo(value, SanitizeAmount(Stringify(ev.Value)))
	case EventClear:
		return changedTo(value, "")
	}
	return unchanged(value)
}

// SanitizeAmount strips every character that is neither a digit nor '.'.
func SanitizeAmount(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
}

type maskBehavior struct{}

func (maskBehavior) Kind() Kind { return KindMask }

func (maskBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	props, _ := field.Props.(*model.MaskProps)
	c.InputType = "text"
	c.Display = Stringify(value)
	if props == nil {
		return
	}
	state := &MaskState{Pattern: props.Mask, Placeholder: mask.Placeholder(props.Mask)}
	expr, err := mask.Expression(props.Mask)
	switch {
	case errors.Is(err, mask.ErrEmptyMask):
		ctx.log().Debug("mask field without pattern", "field", field.ID)
	case err != nil:
		ctx.log().Warn("invalid mask", "field", field.ID, "mask", props.Mask, "error", err)
	default:
		state.Expression = expr
	}
	c.Mask = state
	if c.Placeholder == "" {
		c.Placeholder = state.Placeholder
	}
}

func (maskBehavior) Handle(field model.Field, value any, ev Event, _ Context) Result {
	switch ev.Kind {
	case EventInput:
		pattern := ""
		if props, ok := field.Props.(*model.MaskProps); ok && props != nil {
			pattern = props.Mask
		}
		return changedTo(value, mask.Apply(pattern, Stringify(ev.Value)))
	case EventClear:
		return changedTo(value, "")
	}
	return unchanged(value)
}

type datetimeBehavior struct{}

func (datetimeBehavior) Kind() Kind { return KindDateTime }

func (datetimeBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.DateTime = AsDateTime(value)
	c.Value = c.DateTime
	c.Display = Stringify(c.DateTime)
}

// Handle merges a date or time change into the pair and emits the combined
// value.
func (datetimeBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	current := AsDateTime(value)
	next := current
	switch ev.Kind {
	case EventDate:
		next.Date = Stringify(ev.Value)
	case EventTime:
		next.Time = Stringify(ev.Value)
	case EventInput:
		next = AsDateTime(ev.Value)
	case EventClear:
		next = model.DateTime{}
	default:
		return unchanged(value)
	}
	return Result{Value: next, Changed: next != current || !isDateTime(value)}
}

func isDateTime(value any) bool {
	_, ok := value.(model.DateTime)
	return ok
}

// AsDateTime reads the {date, time} pair from the shapes a value bag can
// hold: the struct, a decoded JSON object or an ISO-8601 string.
func AsDateTime(value any) model.DateTime {
	switch typed := value.(type) {
	case model.DateTime:
		return typed
	case *model.DateTime:
		if typed != nil {
			return *typed
		}
	case map[string]any:
		return model.DateTime{Date: Stringify(typed["date"]), Time: Stringify(typed["time"])}
	case map[string]string:
		return model.DateTime{Date: typed["date"], Time: typed["time"]}
	case string:
		return model.ParseDateTime(typed)
	}
	return model.DateTime{}
}

type fileBehavior struct {
	accept  string
	capture bool
}

func (fileBehavior) Kind() Kind { return KindFile }

func (b fileBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.InputType = "file"
	c.Accept = b.accept
	if ref, ok := asFileRef(value); ok {
		c.File = &ref
		c.Display = ref.Name
	}
}

func (fileBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	switch ev.Kind {
	case EventFile, EventInput:
		ref, ok := asFileRef(ev.Value)
		if !ok {
			return unchanged(value)
		}
		return Result{Value: ref, Changed: true}
	case EventClear:
		return Result{Value: nil, Changed: value != nil}
	}
	return unchanged(value)
}

func asFileRef(value any) (model.FileRef, bool) {
	switch typed := value.(type) {
	case model.FileRef:
		return typed, typed.Name != ""
	case *model.FileRef:
		if typed != nil && typed.Name != "" {
			return *typed, true
		}
	case string:
		if typed != "" {
			return model.FileRef{Name: typed}, true
		}
	case map[string]any:
		ref := model.FileRef{Name: Stringify(typed["name"]), ContentType: Stringify(typed["contentType"])}
		if size, ok := parseFloat(typed["size"]); ok {
			ref.Size = int64(size)
		}
		return ref, ref.Name != ""
	}
	return model.FileRef{}, false
}

type actionBehavior struct {
	label    string
	icon     string
	sentinel any
}

func (actionBehavior) Kind() Kind { return KindAction }

func (b actionBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	c.Action = &ActionState{
		Label:    b.label,
		Icon:     b.icon,
		Sentinel: b.sentinel,
		Fired:    value != nil && sameValue(value, b.sentinel),
	}
	c.Display = Stringify(value)
}

// Handle emits the fixed sentinel standing in for a device integration.
func (b actionBehavior) Handle(_ model.Field, value any, ev Event, _ Context) Result {
	if ev.Kind != EventAction {
		return unchanged(value)
	}
	return changedTo(value, b.sentinel)
}

func parseFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, !math.IsNaN(typed)
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return n, err == nil && !math.IsNaN(n)
	}
	return 0, false
}

func asFloat(value any, fallback float64) float64 {
	if n, ok := parseFloat(value); ok {
		return n
	}
	return fallback
}

// asNumber normalises numeric values so int and float inputs compare equal.
func asNumber(value any) any {
	if n, ok := parseFloat(value); ok {
		return n
	}
	return value
}

func clamp(v, min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	return math.Min(math.Max(v, min), max)
}
