package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
	"github.com/goliatone/go-formdesigner/pkg/validation"
)

const defaultRendererName = "html"

var (
	// ErrNoDesign is returned when a request names neither a design nor an id.
	ErrNoDesign = errors.New("orchestrator: design or design id is required")
	// ErrNoStore is returned when a design id is given without a store.
	ErrNoStore = errors.New("orchestrator: no design store configured")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore sets the design library used to resolve design ids.
func WithStore(store library.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithValidator overrides the validation engine.
func WithValidator(engine *validation.Engine) Option {
	return func(o *Orchestrator) {
		o.validator = engine
	}
}

// WithTransformer registers a Transformer that mutates the resolved design
// before linting and rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithStrictLint turns lint errors into render failures. By default they are
// logged and rendering proceeds.
func WithStrictLint(strict bool) Option {
	return func(o *Orchestrator) {
		o.strict = strict
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator resolves designs and hands them to renderers. Missing
// dependencies are initialised with the built-in implementations (HTML
// renderer, validation engine, glass theme) so callers can start with a
// single constructor call.
type Orchestrator struct {
	store           library.Store
	registry        *render.Registry
	defaultRenderer string
	validator       *validation.Engine
	transformer     Transformer
	themes          theme.ThemeSelector
	strict          bool
	logger          hclog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          hclog.NewNullLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// DesignID loads the design from the store. Ignored when Design is set.
	DesignID string
	// Design renders an inline design.
	Design *model.Design
	// Renderer names the renderer to use; empty selects the default.
	Renderer string
	// ThemeName and ThemeVariant override the design's theme settings.
	ThemeName    string
	ThemeVariant string
	// RenderOptions carries per-request state such as mode, values and
	// errors.
	RenderOptions render.RenderOptions
}

// Result is what Generate produced.
type Result struct {
	Output      []byte
	ContentType string
	Design      model.Design
	Issues      []Issue
}

// Generate resolves the design, lints it and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := o.ready(ctx); err != nil {
		return Result{}, err
	}

	design, err := o.Resolve(ctx, req.DesignID, req.Design)
	if err != nil {
		return Result{}, err
	}

	issues := Lint(design)
	if err := o.reportIssues(design.ID, issues); err != nil {
		return Result{Design: design, Issues: issues}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(design, req.ThemeName, req.ThemeVariant)
		if err != nil {
			return Result{}, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, design, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Result{
		Output:      output,
		ContentType: renderer.ContentType(),
		Design:      design,
		Issues:      issues,
	}, nil
}

// Resolve returns inline when set, otherwise loads id from the store. The
// configured transformer runs on the result.
func (o *Orchestrator) Resolve(ctx context.Context, id string, inline *model.Design) (model.Design, error) {
	var design model.Design
	switch {
	case inline != nil:
		design = model.CloneDesign(*inline)
	case id == "":
		return model.Design{}, ErrNoDesign
	case o.store == nil:
		return model.Design{}, ErrNoStore
	default:
		loaded, err := o.store.Load(ctx, id)
		if err != nil {
			return model.Design{}, fmt.Errorf("orchestrator: load design %q: %w", id, err)
		}
		design = loaded
	}
	design.Normalize()

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &design); err != nil {
			return model.Design{}, fmt.Errorf("orchestrator: transform design: %w", err)
		}
	}
	return design, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Store exposes the design library, which may be nil.
func (o *Orchestrator) Store() library.Store {
	return o.store
}

// Validator exposes the validation engine.
func (o *Orchestrator) Validator() *validation.Engine {
	return o.validator
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) reportIssues(designID string, issues []Issue) error {
	var failed []Issue
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			failed = append(failed, issue)
		}
		o.logger.Warn("design lint", "design", designID, "severity", issue.Severity,
			"widget", issue.WidgetID, "field", issue.FieldID, "message", issue.Message)
	}
	if o.strict && len(failed) > 0 {
		return &LintError{Issues: failed}
	}
	return nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.validator == nil {
		o.validator = validation.New(validation.WithLogger(o.logger.Named("validation")))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithLogger(o.logger.Named("html")))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themes == nil {
		manifest := html.DefaultThemeManifest()
		o.themes = NewManifestSelector(html.DefaultThemeName, "", &manifest)
	}
}
