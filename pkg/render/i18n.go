package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated. fallback is the untranslated text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// Message keys used by Localize. The design title is "design.<id>.name",
// widget titles "widget.<id>.title" and field attributes
// "field.<id>.<attr>". Validation messages are looked up by their text under
// "validation.<message>".
func widgetKey(id string) string { return "widget." + id + ".title" }
func fieldKey(id, attr string) string { return "field." + id + "." + attr }
func validationKey(msg string) string { return "validation." + msg }
func designKey(id string) string { return "design." + id + ".name" }
func optionKey(id, value string) string { return "field." + id + ".option." + value }

// Localize translates the design's display strings in place. Missing keys
// keep the authored text.
func Localize(design *model.Design, opts RenderOptions) {
	if design == nil || opts.Translator == nil {
		return
	}
	tr := translatorFunc(opts)
	if design.ID != "" {
		design.Name = tr(designKey(design.ID), design.Name)
	}
	for wi := range design.Widgets {
		widget := &design.Widgets[wi]
		widget.Title = tr(widgetKey(widget.ID), widget.Title)
		for fi := range widget.Fields {
			field := &widget.Fields[fi]
			field.Label = tr(fieldKey(field.ID, "label"), field.Label)
			field.Placeholder = tr(fieldKey(field.ID, "placeholder"), field.Placeholder)
			field.HelpText = tr(fieldKey(field.ID, "helpText"), field.HelpText)
			field.Description = tr(fieldKey(field.ID, "description"), field.Description)
			if options := field.Options(); len(options) > 0 {
				localized := make([]model.Option, len(options))
				for i, opt := range options {
					opt.Label = tr(optionKey(field.ID, opt.Value), opt.Label)
					localized[i] = opt
				}
				field.SetOptions(localized)
			}
		}
	}
}

// LocalizeErrors translates validation messages.
func LocalizeErrors(errs map[string][]string, opts RenderOptions) map[string][]string {
	if len(errs) == 0 || opts.Translator == nil {
		return errs
	}
	tr := translatorFunc(opts)
	out := make(map[string][]string, len(errs))
	for id, msgs := range errs {
		translated := make([]string, len(msgs))
		for i, msg := range msgs {
			translated[i] = tr(validationKey(msg), msg)
		}
		out[id] = translated
	}
	return out
}

func translatorFunc(opts RenderOptions) func(key, fallback string) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return func(key, fallback string) string {
		if fallback == "" {
			return fallback
		}
		msg, err := opts.Translator.Translate(opts.Locale, key)
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
		return onMissing(opts.Locale, key, fallback, err)
	}
}

// TemplateFuncs exposes a translate(key, fallback) helper for templates.
func TemplateFuncs(opts RenderOptions) map[string]any {
	return map[string]any{
		"translate": func(key, fallback string) string {
			if opts.Translator == nil {
				return fallback
			}
			return translatorFunc(opts)(key, fallback)
		},
	}
}
