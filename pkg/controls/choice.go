package controls

import (
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

var sampleOptions = []model.Option{
	{Value: "option-1", Label: "Option 1"},
	{Value: "option-2", Label: "Option 2"},
}

// resolveOptions returns the option list the control offers. Design mode
// shows the static options (or samples) since no values are live.
func resolveOptions(field model.Field, ctx Context, sample bool) []model.Option {
	if sample {
		if opts := field.Options(); len(opts) > 0 {
			return opts
		}
		return sampleOptions
	}
	return cascade.ResolveOptions(field, ctx.Values)
}

func choices(options []model.Option, selected func(string) bool) []Choice {
	out := make([]Choice, 0, len(options))
	for _, opt := range options {
		out = append(out, Choice{Value: opt.Value, Label: labelOf(opt), Selected: selected(opt.Value)})
	}
	return out
}

func labelOf(opt model.Option) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

// lookupLabel resolves a selected value to its option label, falling back to
// the raw value when the option is gone.
func lookupLabel(options []model.Option, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			return labelOf(opt)
		}
	}
	return value
}

func hasOption(options []model.Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

type choiceBehavior struct {
	kind Kind
}

func (b choiceBehavior) Kind() Kind { return b.kind }

func (b choiceBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	options := resolveOptions(field, ctx, c.Sample)
	current := Stringify(value)
	c.Choices = choices(options, func(v string) bool { return v == current && current != "" })
	c.Display = lookupLabel(options, current)
	c.Cascading = cascade.IsCascading(field)
}

func (b choiceBehavior) Handle(field model.Field, value any, ev Event, ctx Context) Result {
	switch ev.Kind {
	case EventSelect, EventInput:
		next := Stringify(ev.Value)
		if next != "" && !hasOption(cascade.ResolveOptions(field, ctx.Values), next) {
			ctx.log().Debug("ignoring selection outside option list", "field", field.ID, "value", next)
			return unchanged(value)
		}
		return changedTo(value, next)
	case EventClear:
		return changedTo(value, "")
	}
	return unchanged(value)
}

type multiBehavior struct{}

func (multiBehavior) Kind() Kind { return KindMultiSelect }

func (multiBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	options := resolveOptions(field, ctx, c.Sample)
	buildChips(c, options, AsStrings(value))
	c.Multiple = true
	c.Cascading = cascade.IsCascading(field)
}

func (multiBehavior) Handle(field model.Field, value any, ev Event, ctx Context) Result {
	return handleMulti(field, value, ev, ctx)
}

func buildChips(c *Control, options []model.Option, selected []string) {
	picked := make(map[string]struct{}, len(selected))
	c.Chips = make([]Choice, 0, len(selected))
	for _, v := range selected {
		picked[v] = struct{}{}
		c.Chips = append(c.Chips, Choice{Value: v, Label: lookupLabel(options, v), Selected: true})
	}
	c.Available = make([]model.Option, 0, len(options))
	for _, opt := range options {
		if _, ok := picked[opt.Value]; !ok {
			c.Available = append(c.Available, opt)
		}
	}
	c.Choices = choices(options, func(v string) bool {
		_, ok := picked[v]
		return ok
	})
	labels := make([]string, 0, len(c.Chips))
	for _, chip := range c.Chips {
		labels = append(labels, chip.Label)
	}
	c.Display = strings.Join(labels, ", ")
	c.Value = append([]string{}, selected...)
}

func handleMulti(field model.Field, value any, ev Event, ctx Context) Result {
	current := AsStrings(value)
	switch ev.Kind {
	case EventAdd, EventSelect:
		item := Stringify(ev.Value)
		if item == "" || contains(current, item) {
			return unchanged(value)
		}
		if !hasOption(cascade.ResolveOptions(field, ctx.Values), item) {
			return unchanged(value)
		}
		return Result{Value: append(append([]string{}, current...), item), Changed: true}
	case EventRemove:
		item := Stringify(ev.Value)
		if !contains(current, item) {
			return unchanged(value)
		}
		next := make([]string, 0, len(current))
		for _, v := range current {
			if v != item {
				next = append(next, v)
			}
		}
		return Result{Value: next, Changed: true}
	case EventInput:
		next := dedupe(AsStrings(ev.Value))
		return changedTo(current, next)
	case EventClear:
		return changedTo(current, []string{})
	}
	return unchanged(value)
}

type searchBehavior struct{}

func (searchBehavior) Kind() Kind { return KindSearchable }

func (searchBehavior) Build(c *Control, field model.Field, value any, ctx Context) {
	props, _ := field.Props.(*model.SearchProps)
	if props != nil {
		c.Multiple = props.Multiple
		c.ServerSideSearch = props.ServerSideSearch
	}
	c.Cascading = cascade.IsCascading(field)

	options := resolveOptions(field, ctx, c.Sample)
	visible := options
	if state := ctx.Search; state != nil && !c.Sample {
		c.Query = state.Query
		c.Loading = state.Loading
		c.SearchError = state.Err
		if c.ServerSideSearch {
			visible = state.Results
		} else {
			visible = FilterOptions(options, state.Query)
		}
	}

	if c.Multiple {
		buildChips(c, options, AsStrings(value))
		c.Available = excluding(visible, AsStrings(value))
		return
	}
	current := Stringify(value)
	c.Choices = choices(visible, func(v string) bool { return v == current && current != "" })
	c.Display = lookupLabel(append(append([]model.Option{}, options...), visible...), current)
}

func (searchBehavior) Handle(field model.Field, value any, ev Event, ctx Context) Result {
	props, _ := field.Props.(*model.SearchProps)
	multiple := props != nil && props.Multiple
	server := props != nil && props.ServerSideSearch

	if ev.Kind == EventSearch {
		query := Stringify(ev.Value)
		return Result{Value: value, Query: &query}
	}
	if multiple {
		if server && (ev.Kind == EventAdd || ev.Kind == EventSelect) {
			item := Stringify(ev.Value)
			current := AsStrings(value)
			if item == "" || contains(current, item) {
				return unchanged(value)
			}
			return Result{Value: append(append([]string{}, current...), item), Changed: true}
		}
		return handleMulti(field, value, ev, ctx)
	}
	switch ev.Kind {
	case EventSelect, EventInput:
		next := Stringify(ev.Value)
		if !server && next != "" && !hasOption(cascade.ResolveOptions(field, ctx.Values), next) {
			return unchanged(value)
		}
		return changedTo(value, next)
	case EventClear:
		return changedTo(value, "")
	}
	return unchanged(value)
}

// FilterOptions keeps options whose label or value contains query,
// case-insensitively.
func FilterOptions(options []model.Option, query string) []model.Option {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return options
	}
	out := make([]model.Option, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), query) || strings.Contains(strings.ToLower(opt.Value), query) {
			out = append(out, opt)
		}
	}
	return out
}

// AsStrings normalises a multi-valued field value.
func AsStrings(value any) []string {
	switch typed := value.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s := Stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if typed == "" {
			return []string{}
		}
		return []string{typed}
	default:
		if s := Stringify(value); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

func excluding(options []model.Option, selected []string) []model.Option {
	out := make([]model.Option, 0, len(options))
	for _, opt := range options {
		if !contains(selected, opt.Value) {
			out = append(out, opt)
		}
	}
	return out
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != "" && !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
