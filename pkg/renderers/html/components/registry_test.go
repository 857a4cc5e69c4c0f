package components

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	gotemplate "github.com/goliatone/go-formdesigner/pkg/render/template/gotemplate"
)

func noop(*bytes.Buffer, controls.Control, ComponentData) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register("Rating", Descriptor{Renderer: noop, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor(controls.KindRating)
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor(controls.KindRating)
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsIncompleteDescriptors(t *testing.T) {
	reg := New()
	if err := reg.Register("", Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("expected error for blank kind")
	}
	if err := reg.Register(controls.KindInput, Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	reg.MustRegister(controls.KindInput, Descriptor{
		Renderer:    noop,
		Stylesheets: []string{"/shared.css", "/input.css"},
		Scripts:     []Script{{Src: "/shared.js"}},
	})
	reg.MustRegister(controls.KindSelect, Descriptor{
		Renderer:    noop,
		Stylesheets: []string{"/shared.css", "/select.css"},
		Scripts:     []Script{{Src: "/shared.js"}, {Src: "/select.js"}},
	})

	styles, scripts := reg.Assets([]controls.Kind{controls.KindInput, controls.KindSelect})
	if diff := cmp.Diff([]string{"/shared.css", "/input.css", "/select.css"}, styles); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 unique scripts, got %d: %v", len(scripts), scripts)
	}
}

func TestDefaultRegistryCoversBuiltinKinds(t *testing.T) {
	reg := NewDefaultRegistry()
	if diff := cmp.Diff(len(builtinKinds), len(reg.Kinds())); diff != "" {
		t.Fatalf("kind count mismatch (-want +got):\n%s", diff)
	}
	_, scripts := reg.Assets([]controls.Kind{controls.KindInput, controls.KindTextarea})
	if len(scripts) != 0 {
		t.Fatalf("plain inputs should not need the runtime: %v", scripts)
	}
	_, scripts = reg.Assets([]controls.Kind{controls.KindPassword, controls.KindSearchable})
	if len(scripts) != 1 || scripts[0].Src != RuntimeScript {
		t.Fatalf("expected the runtime script once, got %v", scripts)
	}
}

func TestTemplateComponentRendererHonoursPartials(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{
		"templates/components/input.tmpl": {Data: []byte(`default:{{ name }}`)},
		"themes/custom/input.tmpl":        {Data: []byte(`custom:{{ name }}:{{ id }}`)},
	}), gotemplate.WithExtension(".tmpl"))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	desc, _ := NewDefaultRegistry().Descriptor(controls.KindInput)
	control := controls.Build(model.NewField("field_name", model.FieldTypeText, "Name"), nil, controls.Context{})

	var buf bytes.Buffer
	if err := desc.Renderer(&buf, control, ComponentData{Template: engine, DOMID: "fd-name"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "default:field_name" {
		t.Fatalf("unexpected default output %q", got)
	}

	buf.Reset()
	err = desc.Renderer(&buf, control, ComponentData{
		Template: engine,
		DOMID:    "fd-name",
		Partials: map[string]string{PartialKey(controls.KindInput): "themes/custom/input.tmpl"},
	})
	if err != nil {
		t.Fatalf("render override: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "custom:field_name:fd-name" {
		t.Fatalf("unexpected override output %q", got)
	}
}

func TestAttributesFormatNumbers(t *testing.T) {
	lo, step := 0.0, 0.5
	control := controls.Control{
		Kind:   controls.KindNumber,
		Number: &controls.NumberBounds{Min: &lo, Step: &step},
	}
	want := map[string]string{"min": "0", "step": "0.5"}
	if diff := cmp.Diff(want, Attributes(control)); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}
