package tui

import (
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/search"
	"github.com/goliatone/go-formdesigner/pkg/validation"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes the renderer applies when
// printing through the driver.
type Theme struct {
	SectionPrefix string
	ErrorPrefix   string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(model.Values) (model.Values, error)

// SearchProvider returns the lookup used for a searchable field. Returning
// nil falls back to an in-memory search over the field's options.
type SearchProvider func(field model.Field) search.Func

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithValidator replaces the engine used to re-prompt on invalid answers.
func WithValidator(engine *validation.Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.validator = engine
		}
	}
}

// WithControls replaces the registry used to describe and convert answers.
func WithControls(registry *controls.Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.controls = registry
		}
	}
}

// WithSearch wires remote lookups for searchable fields.
func WithSearch(provider SearchProvider) Option {
	return func(r *Renderer) {
		r.search = provider
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger routes renderer diagnostics to logger.
func WithLogger(logger hclog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
