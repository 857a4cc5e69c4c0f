package html

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/render"
	rendertemplate "github.com/goliatone/go-formdesigner/pkg/render/template"
	gotemplate "github.com/goliatone/go-formdesigner/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html/components"
)

const formTemplate = "templates/form.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	controls         *controls.Registry
	policy           *bluemonday.Policy
	minify           bool
	inlineStyles     bool
	logger           hclog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithControls replaces the registry that builds control descriptions.
func WithControls(registry *controls.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.controls = registry
		}
	}
}

// WithSanitizer sets the policy applied to help text and descriptions.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithMinify toggles HTML minification of the rendered output.
func WithMinify(enabled bool) Option {
	return func(cfg *config) {
		cfg.minify = enabled
	}
}

// WithInlineStyles embeds the default stylesheet in a style element instead
// of linking it through the theme's asset URL.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// WithLogger routes render diagnostics to logger.
func WithLogger(logger hclog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders designs to HTML through pongo2 templates.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	controls   *controls.Registry
	policy     *bluemonday.Policy
	minifier   *minify.M
	inline     bool
	logger     hclog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		inlineStyles: true,
		logger:       hclog.NewNullLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.controls == nil {
		cfg.controls = controls.Default()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	r := &Renderer{
		templates:  renderer,
		components: cfg.components,
		controls:   cfg.controls,
		policy:     cfg.policy,
		inline:     cfg.inlineStyles,
		logger:     cfg.logger.Named("html"),
	}
	if cfg.minify {
		m := minify.New()
		m.AddFunc("text/html", minhtml.Minify)
		m.AddFunc("text/css", css.Minify)
		r.minifier = m
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup for design. The design is cloned before
// subsetting and localisation so the caller's copy is never modified.
func (r *Renderer) Render(ctx context.Context, design model.Design, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := model.CloneDesign(design)
	working.Normalize()
	render.ApplySubset(&working, opts.Subset)
	render.Localize(&working, opts)
	opts.Errors = render.LocalizeErrors(opts.Errors, opts)

	view, kinds, err := r.buildView(working, opts)
	if err != nil {
		return nil, err
	}
	r.attachAssets(&view, kinds, opts)

	payload := map[string]any{"form": view}
	for name, fn := range render.TemplateFuncs(opts) {
		payload[name] = fn
	}

	result, err := r.templates.RenderTemplate(formTemplate, payload)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}

	if r.minifier != nil {
		minified, err := r.minifier.String("text/html", result)
		if err != nil {
			r.logger.Warn("minify failed, returning unminified output", "design", design.ID, "error", err)
			return []byte(result), nil
		}
		result = minified
	}
	return []byte(result), nil
}

func (r *Renderer) buildView(design model.Design, opts render.RenderOptions) (formView, []controls.Kind, error) {
	mode := opts.EffectiveMode()
	isDesign := mode == model.ModeDesign

	method := strings.ToLower(strings.TrimSpace(opts.Method))
	if method == "" {
		method = "post"
	}
	submit := design.Settings.SubmitLabel
	if submit == "" {
		submit = defaultSubmitLabel
	}

	view := formView{
		ID:          design.ID,
		Name:        design.Name,
		Description: r.policy.Sanitize(design.Description),
		Mode:        string(mode),
		Classes:     ClassForm + " " + modeClass(string(mode)),
		Design:      isDesign,
		Action:      opts.Action,
		Method:      method,
		Socket:      opts.Socket,
		SubmitLabel: submit,
		Style:       inlineStyle(opts.Theme),
		FormErrors:  opts.FormErrors,
	}
	for _, hidden := range render.SortedHiddenFields(opts.HiddenFields) {
		view.Hidden = append(view.Hidden, hiddenView{Name: hidden.Name, Value: hidden.Value})
	}

	drop := dropState{active: isDesign && opts.Drop.Active, zone: opts.Drop.Zone}
	var partials map[string]string
	if opts.Theme != nil {
		partials = opts.Theme.Partials
	}

	var kinds []controls.Kind
	seenKinds := map[controls.Kind]bool{}

	for wi, widget := range design.Widgets {
		columns := widget.Settings.EffectiveColumns()
		widgetSelected := isDesign && opts.Selection.FieldID == "" && opts.Selection.WidgetID == widget.ID
		wv := widgetView{
			ID:       widget.ID,
			DOMID:    domID(widgetDOMPrefix, widget.ID),
			Type:     string(widget.Type),
			Title:    widget.Title,
			Order:    strconv.Itoa(widget.Order),
			Columns:  strconv.Itoa(columns),
			Gap:      strconv.Itoa(widget.Settings.Spacing),
			Classes:  widgetClasses(widget, widgetSelected),
			Form:     widget.Type.CarriesFields(),
			Selected: widgetSelected,
		}
		if isDesign {
			wv.Zone = zone(wi, drop)
		}

		for _, field := range widget.Fields {
			control := r.controls.Build(field, opts.Values[field.ID], opts.ControlContext(field.ID))
			if !seenKinds[control.Kind] {
				seenKinds[control.Kind] = true
				kinds = append(kinds, control.Kind)
			}

			fieldSelected := isDesign && opts.Selection.FieldID == field.ID
			fv := fieldView{
				ID:          field.ID,
				DOMID:       domID(fieldDOMPrefix, field.ID),
				Kind:        string(control.Kind),
				Label:       control.Label,
				Required:    control.Required,
				Span:        strconv.Itoa(control.Width.Span(columns)),
				Classes:     fieldClasses(control, fieldSelected),
				Error:       control.Error,
				HelpText:    r.policy.Sanitize(control.HelpText),
				Description: r.policy.Sanitize(control.Description),
				Selected:    fieldSelected,
				Group:       groupKind(control.Kind),
			}
			markup, err := r.renderControl(control, fv.DOMID, partials)
			if err != nil {
				return formView{}, nil, err
			}
			fv.Control = markup
			wv.Fields = append(wv.Fields, fv)

			if design.Settings.ShowSummary && control.Error != "" {
				view.Summary = append(view.Summary, summaryEntry{
					FieldID: field.ID,
					Anchor:  fv.DOMID,
					Label:   control.Label,
					Message: control.Error,
				})
			}
		}
		view.Widgets = append(view.Widgets, wv)
	}
	if isDesign {
		view.TrailingZone = zone(len(design.Widgets), drop)
	}
	return view, kinds, nil
}

func (r *Renderer) renderControl(control controls.Control, id string, partials map[string]string) (string, error) {
	descriptor, ok := r.components.Descriptor(control.Kind)
	if !ok {
		r.logger.Debug("no component for control kind, using input", "kind", control.Kind, "field", control.FieldID)
		descriptor, ok = r.components.Descriptor(controls.KindInput)
		if !ok {
			return "", fmt.Errorf("html renderer: no component registered for %q", control.Kind)
		}
	}
	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, control, components.ComponentData{
		Template: r.templates,
		DOMID:    id,
		Partials: partials,
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: field %q: %w", control.FieldID, err)
	}
	return buf.String(), nil
}

func (r *Renderer) attachAssets(view *formView, kinds []controls.Kind, opts render.RenderOptions) {
	assetURL := func(name string) string { return name }
	if opts.Theme != nil && opts.Theme.AssetURL != nil {
		assetURL = opts.Theme.AssetURL
	}

	if r.inline {
		styles := defaultStylesheet()
		if r.minifier != nil {
			if minified, err := r.minifier.String("text/css", styles); err == nil {
				styles = minified
			}
		}
		view.InlineCSS = styles
	} else {
		view.Stylesheets = append(view.Stylesheets, assetURL(StylesheetName))
	}

	stylesheets, scripts := r.components.Assets(kinds)
	for _, href := range stylesheets {
		view.Stylesheets = append(view.Stylesheets, assetURL(href))
	}
	// Design output is inert; runtime scripts only ship with live forms.
	if view.Design {
		return
	}
	for _, script := range scripts {
		sv := scriptView{Inline: script.Inline, Module: script.Module, Defer: script.Defer}
		if script.Src != "" {
			sv.Src = assetURL(script.Src)
		}
		view.Scripts = append(view.Scripts, sv)
	}
}
