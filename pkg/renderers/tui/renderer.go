package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/hashicorp/go-hclog"
	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/search"
	"github.com/goliatone/go-formdesigner/pkg/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxPasses bounds the whole-form validation sweeps after the first pass.
const maxPasses = 3

// ErrIncomplete is returned when answers still fail validation after the
// final sweep.
var ErrIncomplete = errors.New("tui: form still has invalid answers")

// Renderer implements render.Renderer for terminal sessions: it walks a
// design's fields in order, prompts for each and serializes the answers.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	validator         *validation.Engine
	controls          *controls.Registry
	search            SearchProvider
	submitTransformer SubmitTransformer
	theme             Theme
	logger            hclog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{SectionPrefix: "== ", ErrorPrefix: "! "},
		logger:       hclog.NewNullLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(terminal.Stdio{})
	}
	if r.validator == nil {
		r.validator = validation.New(validation.WithLogger(r.logger))
	}
	if r.controls == nil {
		r.controls = controls.Default()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field of design and returns the serialized
// answers. opts.Values prefill defaults and opts.Errors are shown before the
// matching prompt.
func (r *Renderer) Render(ctx context.Context, design model.Design, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	working := model.CloneDesign(design)
	working.Normalize()
	render.ApplySubset(&working, opts.Subset)
	render.Localize(&working, opts)

	state := NewState(opts.Values, render.LocalizeErrors(opts.Errors, opts))
	model.EachField(working.Widgets, func(_ *model.Widget, field *model.Field) {
		if _, ok := state.Value(field.ID); !ok && field.DefaultValue != nil {
			state.values[field.ID] = field.DefaultValue
		}
	})

	for _, widget := range working.Widgets {
		if !widget.Type.CarriesFields() || len(widget.Fields) == 0 {
			continue
		}
		if widget.Title != "" {
			if err := r.driver.Info(ctx, r.theme.SectionPrefix+widget.Title); err != nil {
				return nil, err
			}
		}
		for _, field := range widget.Fields {
			if err := r.promptField(ctx, working.Widgets, field, state); err != nil {
				return nil, err
			}
		}
	}

	// Cascade resets can invalidate answers given earlier in the walk.
	for pass := 0; ; pass++ {
		errs := r.validator.Validate(working.Widgets, state.Values())
		if len(errs) == 0 {
			break
		}
		if pass == maxPasses {
			return nil, fmt.Errorf("%w: %s", ErrIncomplete, errs[0].Error())
		}
		for id, msg := range validation.FirstErrors(errs) {
			state.errors[id] = []string{msg}
		}
		for _, invalid := range invalidFields(working.Widgets, errs) {
			if err := r.promptField(ctx, working.Widgets, invalid, state); err != nil {
				return nil, err
			}
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(working, values)
}

func (r *Renderer) promptField(ctx context.Context, widgets []model.Widget, field model.Field, state *State) error {
	for {
		for _, msg := range state.ErrorsFor(field.ID) {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}

		current, _ := state.Value(field.ID)
		control := r.controls.Build(field, current, controls.Context{
			Mode:   model.ModePreview,
			Values: state.Values(),
		})
		next, err := r.ask(ctx, field, control, current, state.Values())
		if err != nil {
			return err
		}

		candidate := state.Values().Clone()
		candidate[field.ID] = next
		if errs := r.validator.ValidateField(field, next, candidate); len(errs) > 0 {
			state.errors[field.ID] = []string{errs[0].Message}
			continue
		}

		state.SetValue(field.ID, next)
		if reset := cascade.Apply(state.values, cascade.Propagate(field.ID, widgets)); len(reset) > 0 {
			r.logger.Debug("cascade reset dependents", "field", field.ID, "reset", reset)
		}
		return nil
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, control controls.Control, current any, values model.Values) (any, error) {
	message := promptMessage(control)
	help := control.HelpText
	if help == "" {
		help = control.Description
	}
	handle := func(ev controls.Event) any {
		return r.controls.Handle(field, current, ev, controls.Context{Mode: model.ModePreview, Values: values}).Value
	}

	switch control.Kind {
	case controls.KindTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: control.Display, Help: help})
		if err != nil {
			return nil, err
		}
		return handle(controls.Event{Kind: controls.EventInput, Value: text}), nil

	case controls.KindPassword:
		text, err := r.driver.Password(ctx, InputConfig{Message: message, Help: help})
		if err != nil {
			return nil, err
		}
		return handle(controls.Event{Kind: controls.EventInput, Value: text}), nil

	case controls.KindCheckbox, controls.KindToggle:
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: control.Checked, Help: help})

	case controls.KindSelect, controls.KindRadio:
		return r.askChoice(ctx, field, control, current, message, help, handle)

	case controls.KindMultiSelect:
		return r.askMulti(ctx, control, message, help)

	case controls.KindSearchable:
		return r.askSearch(ctx, field, control, current, values, message, help)

	case controls.KindRating:
		labels := make([]string, len(control.Stars))
		defaultIdx := -1
		for i, star := range control.Stars {
			labels[i] = strings.Repeat("*", star.Value)
			if star.Filled {
				defaultIdx = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIdx, Help: help})
		if err != nil {
			return nil, err
		}
		return handle(controls.Event{Kind: controls.EventStar, Index: idx}), nil

	case controls.KindDateTime:
		date, err := r.driver.Input(ctx, InputConfig{Message: message + " (date, YYYY-MM-DD)", Default: control.DateTime.Date, Help: help})
		if err != nil {
			return nil, err
		}
		current = handle(controls.Event{Kind: controls.EventDate, Value: date})
		clock, err := r.driver.Input(ctx, InputConfig{Message: message + " (time, HH:MM)", Default: control.DateTime.Time, Help: help})
		if err != nil {
			return nil, err
		}
		return handle(controls.Event{Kind: controls.EventTime, Value: clock}), nil

	case controls.KindFile:
		path, err := r.driver.Input(ctx, InputConfig{Message: message + " (path)", Default: control.Display, Help: help})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(path) == "" {
			return handle(controls.Event{Kind: controls.EventClear}), nil
		}
		return handle(controls.Event{Kind: controls.EventFile, Value: fileRef(path)}), nil

	case controls.KindAction:
		fire, err := r.driver.Confirm(ctx, ConfirmConfig{Message: control.Action.Label + "?", Default: control.Action.Fired, Help: help})
		if err != nil {
			return nil, err
		}
		if !fire {
			return current, nil
		}
		return handle(controls.Event{Kind: controls.EventAction}), nil
	}

	cfg := InputConfig{Message: message, Default: control.Display, Help: help}
	switch control.Kind {
	case controls.KindNumber, controls.KindRange:
		cfg.Validator = numericInput
		if control.Range != nil {
			cfg.Help = strings.TrimSpace(help + fmt.Sprintf(" (%s to %s)", controls.Stringify(control.Range.Min), controls.Stringify(control.Range.Max)))
		}
	case controls.KindCurrency:
		cfg.Message = message + " (" + control.Currency + ")"
	case controls.KindMask:
		if control.Mask != nil {
			cfg.Help = strings.TrimSpace(help + " format: " + control.Mask.Placeholder)
		}
	}
	text, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return handle(controls.Event{Kind: controls.EventInput, Value: text}), nil
}

func (r *Renderer) askChoice(ctx context.Context, field model.Field, control controls.Control, current any, message, help string, handle func(controls.Event) any) (any, error) {
	if len(control.Choices) == 0 {
		if field.Required {
			return nil, fmt.Errorf("%w: %s", ErrNoChoices, field.ID)
		}
		_ = r.driver.Info(ctx, message+": no options available")
		return current, nil
	}
	labels, defaultIdx := choiceLabels(control.Choices)
	if defaultIdx < 0 {
		defaultIdx = 0
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIdx, Help: help})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(control.Choices) {
		return current, nil
	}
	return handle(controls.Event{Kind: controls.EventSelect, Value: control.Choices[idx].Value}), nil
}

func (r *Renderer) askMulti(ctx context.Context, control controls.Control, message, help string) (any, error) {
	labels, _ := choiceLabels(control.Choices)
	var defaults []int
	for i, choice := range control.Choices {
		if choice.Selected {
			defaults = append(defaults, i)
		}
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: defaults, Help: help})
	if err != nil {
		return nil, err
	}
	selected := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(control.Choices) {
			selected = append(selected, control.Choices[idx].Value)
		}
	}
	return selected, nil
}

func (r *Renderer) askSearch(ctx context.Context, field model.Field, control controls.Control, current any, values model.Values, message, help string) (any, error) {
	var lookup search.Func
	if r.search != nil {
		lookup = r.search(field)
	}
	if lookup == nil {
		lookup = search.StaticSource(cascade.ResolveOptions(field, values), 0, search.EmptyTop)
	}

	for {
		query, err := r.driver.Input(ctx, InputConfig{Message: message + " (search)", Help: help})
		if err != nil {
			return nil, err
		}
		results, err := lookup(ctx, query)
		if err != nil {
			r.logger.Warn("search failed", "field", field.ID, "query", query, "error", err)
			if infoErr := r.driver.Info(ctx, r.theme.ErrorPrefix+"search failed: "+err.Error()); infoErr != nil {
				return nil, infoErr
			}
			continue
		}
		if len(results) == 0 {
			if err := r.driver.Info(ctx, "No matches for "+strconv.Quote(query)); err != nil {
				return nil, err
			}
			continue
		}

		labels := make([]string, len(results))
		for i, opt := range results {
			labels[i] = opt.Label
		}
		if control.Multiple {
			indices, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Help: help})
			if err != nil {
				return nil, err
			}
			selected := controls.AsStrings(current)
			for _, idx := range indices {
				if idx >= 0 && idx < len(results) && !containsString(selected, results[idx].Value) {
					selected = append(selected, results[idx].Value)
				}
			}
			return selected, nil
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, Help: help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(results) {
			return current, nil
		}
		return results[idx].Value, nil
	}
}

func (r *Renderer) serialize(design model.Design, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(r.prettyPrint(design, values)), nil
	default:
		return json.Marshal(values)
	}
}

func promptMessage(control controls.Control) string {
	label := control.Label
	if label == "" {
		label = control.FieldID
	}
	if control.Required {
		label += " *"
	}
	return label
}

func choiceLabels(choices []controls.Choice) ([]string, int) {
	labels := make([]string, len(choices))
	selected := -1
	for i, choice := range choices {
		labels[i] = choice.Label
		if choice.Selected && selected < 0 {
			selected = i
		}
	}
	return labels, selected
}

func invalidFields(widgets []model.Widget, errs []model.ValidationError) []model.Field {
	failing := validation.FirstErrors(errs)
	var out []model.Field
	model.EachField(widgets, func(_ *model.Widget, field *model.Field) {
		if _, ok := failing[field.ID]; ok {
			out = append(out, *field)
		}
	})
	return out
}

func numericInput(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("%q is not a number", raw)
	}
	return nil
}

func fileRef(path string) model.FileRef {
	path = strings.TrimSpace(path)
	ref := model.FileRef{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
	}
	if info, err := os.Stat(path); err == nil {
		ref.Size = info.Size()
	}
	return ref
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func flattenForm(values model.Values) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(key, item)
			}
		case []any:
			for _, item := range v {
				out.Add(key, controls.Stringify(item))
			}
		case model.DateTime:
			out.Set(key+".date", v.Date)
			out.Set(key+".time", v.Time)
		default:
			out.Set(key, controls.Stringify(v))
		}
	}
	return out.Encode()
}

// prettyPrint lists answers in design order with their labels, followed by
// any keys a transformer added.
func (r *Renderer) prettyPrint(design model.Design, values model.Values) string {
	var b strings.Builder
	seen := make(map[string]bool, len(values))
	model.EachField(design.Widgets, func(_ *model.Widget, field *model.Field) {
		value, ok := values[field.ID]
		if !ok {
			return
		}
		seen[field.ID] = true
		display := r.controls.Build(*field, value, controls.Context{Mode: model.ModeReadOnly, Values: values}).Display
		fmt.Fprintf(&b, "%s: %s\n", field.Label, display)
	})

	var extra []string
	for key := range values {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %s\n", key, controls.Stringify(values[key]))
	}
	return b.String()
}
