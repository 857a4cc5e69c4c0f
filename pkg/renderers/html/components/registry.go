package components

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	rendertemplate "github.com/goliatone/go-formdesigner/pkg/render/template"
)

// Renderer writes the markup of one control into buf.
type Renderer func(buf *bytes.Buffer, control controls.Control, data ComponentData) error

// ComponentData carries helpers and configuration for component renderers.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// DOMID is the element id the chrome's label points at.
	DOMID string
	// Partials maps partial keys (forms.input, forms.select, ...) to template
	// overrides supplied by the active theme.
	Partials map[string]string
	Config   map[string]any
}

// Script describes JavaScript a component needs emitted once per render.
type Script struct {
	Src    string
	Inline string
	Module bool
	Defer  bool
}

// Descriptor bundles the renderer implementation with its asset dependencies.
type Descriptor struct {
	Kind        controls.Kind
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

// Registry tracks component descriptors keyed by control kind.
type Registry struct {
	mu         sync.RWMutex
	components map[controls.Kind]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[controls.Kind]Descriptor)}
}

// Clone returns a deep copy of the registry to allow isolated mutations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for kind, descriptor := range r.components {
		cloned.components[kind] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with kind, replacing any existing entry.
func (r *Registry) Register(kind controls.Kind, descriptor Descriptor) error {
	if kind = normalize(kind); kind == "" {
		return fmt.Errorf("components: control kind is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Kind = kind
	r.components[kind] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(kind controls.Kind, descriptor Descriptor) {
	if err := r.Register(kind, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by kind.
func (r *Registry) Descriptor(kind controls.Kind) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(kind)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []controls.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.components))
}

// Assets resolves the stylesheets and scripts the given kinds depend on,
// deduplicated in first-seen order.
func (r *Registry) Assets(kinds []controls.Kind) (stylesheets []string, scripts []Script) {
	if len(kinds) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seenStyles := make(map[string]struct{})
	seenScripts := make(map[string]struct{})

	for _, kind := range kinds {
		descriptor, ok := r.components[normalize(kind)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seenStyles[href]; exists {
				continue
			}
			seenStyles[href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
		for _, script := range descriptor.Scripts {
			key := scriptKey(script)
			if _, exists := seenScripts[key]; exists {
				continue
			}
			seenScripts[key] = struct{}{}
			scripts = append(scripts, script)
		}
	}
	return stylesheets, scripts
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Kind:        src.Kind,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
		Scripts:     slices.Clone(src.Scripts),
	}
}

func scriptKey(script Script) string {
	if script.Src != "" {
		return "src:" + script.Src
	}
	return "inline:" + script.Inline
}

func normalize(kind controls.Kind) controls.Kind {
	return controls.Kind(strings.ToLower(strings.TrimSpace(string(kind))))
}
