package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
)

// ErrThemeNotFound is returned by ManifestSelector for unknown themes.
var ErrThemeNotFound = errors.New("orchestrator: theme not found")

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		if selector != nil {
			o.themes = selector
		}
	}
}

// WithThemes registers manifests in a ManifestSelector whose default is the
// first manifest. The built-in glass theme stays available.
func WithThemes(manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		if len(manifests) == 0 {
			return
		}
		glass := html.DefaultThemeManifest()
		all := append([]*theme.Manifest{}, manifests...)
		all = append(all, &glass)
		o.themes = NewManifestSelector(manifests[0].Name, "", all...)
	}
}

// ManifestSelector implements theme.ThemeSelector over an in-memory set of
// manifests.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

// NewManifestSelector indexes manifests by name. Later manifests do not
// replace earlier ones with the same name.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			continue
		}
		if _, exists := s.manifests[m.Name]; !exists {
			s.manifests[m.Name] = m
		}
	}
	return s
}

// Register adds or replaces a manifest.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("orchestrator: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
	return nil
}

// Select implements theme.ThemeSelector. Empty arguments fall back to the
// selector defaults; unknown variants fall back to the base manifest.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if _, known := manifest.Variants[variant]; !known {
		variant = ""
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// resolveTheme picks request overrides first, then the design's settings.
func (o *Orchestrator) resolveTheme(design model.Design, name, variant string) (*theme.RendererConfig, error) {
	if o.themes == nil {
		return nil, nil
	}
	if name == "" {
		name = design.Settings.Theme
	}
	if variant == "" {
		variant = design.Settings.Variant
	}
	selection, err := o.themes.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}
	cfg := html.RendererConfig(*selection.Manifest, selection.Variant)
	if cfg.Theme == "" {
		cfg.Theme = selection.Theme
	}
	return &cfg, nil
}
