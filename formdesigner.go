// Package formdesigner is the top-level entry point of the form designer
// engine. It re-exports the orchestrator constructor and a few helpers so
// simple callers do not need to import the pkg/ tree directly.
package formdesigner

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/render"
)

// Design is the unit the engine renders and persists.
type Design = model.Design

// Values is a preview value bag keyed by field id.
type Values = model.Values

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface validation errors.
type RenderOptions = render.RenderOptions

// Subset aliases render.Subset for callers rendering part of a design.
type Subset = render.Subset

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders an inline design with the default HTML renderer.
func RenderHTML(ctx context.Context, design Design, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Design:        &design,
		RenderOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// Validate checks values against an inline design.
func Validate(ctx context.Context, design Design, values Values, options ...orchestrator.Option) ([]model.ValidationError, error) {
	result, err := orchestrator.New(options...).Validate(ctx, orchestrator.ValidateRequest{
		Design: &design,
		Values: values,
	})
	if err != nil {
		return nil, err
	}
	return result.Errors, nil
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemes registers additional theme manifests next to the built-in
// glass theme.
func WithThemes(manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemes(manifests...)
}
