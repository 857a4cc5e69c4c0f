package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/render"
)

func sampleDesign() model.Design {
	email := model.NewField("field_email", model.FieldTypeEmail, "Email")
	email.ModelProperty = "contact.email"
	name := model.NewField("field_name", model.FieldTypeText, "Name")
	color := model.NewField("field_color", model.FieldTypeSelect, "Color")
	color.SetOptions([]model.Option{{Value: "red", Label: "Red"}})
	return model.Design{
		ID:   "signup",
		Name: "Signup",
		Widgets: []model.Widget{
			{ID: "widget_a", Type: model.WidgetTypeForm, Title: "Contact", Fields: []model.Field{email, name}},
			{ID: "widget_b", Type: model.WidgetTypeForm, Title: "Prefs", Fields: []model.Field{color}},
			{ID: "widget_c", Type: model.WidgetTypeDivider},
		},
	}
}

func TestMapErrorsKeepsOrder(t *testing.T) {
	got := render.MapErrors([]model.ValidationError{
		{FieldID: "a", Message: "first"},
		{FieldID: "b", Message: "other"},
		{FieldID: "a", Message: "second"},
	})
	want := map[string][]string{"a": {"first", "second"}, "b": {"other"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapped errors mismatch (-want +got):\n%s", diff)
	}
	if render.MapErrors(nil) != nil {
		t.Fatalf("expected nil for no errors")
	}

	opts := render.RenderOptions{Errors: got}
	if opts.FirstError("a") != "first" || opts.FirstError("z") != "" {
		t.Fatalf("FirstError returned wrong message")
	}
}

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"field_name":           {" Name taken "},
		"/body/contact/email":  {"Email invalid"},
		"$.data.contact.email": {"Email invalid"},
		"non_field_errors":     {"Try again"},
		"unknown.path":         {"Lost"},
	}
	mapped := render.MapErrorPayload(sampleDesign(), payload)

	wantFields := map[string][]string{
		"field_name":  {"Name taken"},
		"field_email": {"Email invalid", "Email invalid"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Lost", "Try again"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, got); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySubset(t *testing.T) {
	design := sampleDesign()
	render.ApplySubset(&design, render.Subset{FieldTypes: []model.FieldType{model.FieldTypeEmail}})

	var ids []string
	for _, w := range design.Widgets {
		ids = append(ids, w.ID)
	}
	if diff := cmp.Diff([]string{"widget_a", "widget_c"}, ids); diff != "" {
		t.Fatalf("widgets mismatch (-want +got):\n%s", diff)
	}
	if len(design.Widgets[0].Fields) != 1 || design.Widgets[0].Fields[0].ID != "field_email" {
		t.Fatalf("unexpected fields %+v", design.Widgets[0].Fields)
	}

	design = sampleDesign()
	render.ApplySubset(&design, render.Subset{Widgets: []string{"widget_b"}})
	if len(design.Widgets) != 1 || design.Widgets[0].ID != "widget_b" {
		t.Fatalf("widget filter failed: %+v", design.Widgets)
	}
}

type stubTranslator map[string]string

func (s stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := s[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing")
}

func TestLocalize(t *testing.T) {
	design := sampleDesign()
	opts := render.RenderOptions{
		Locale: "es",
		Translator: stubTranslator{
			"widget.widget_a.title":             "Contacto",
			"field.field_email.label":           "Correo",
			"field.field_color.option.red":      "Rojo",
			"validation.This field is required": "Campo obligatorio",
		},
	}
	render.Localize(&design, opts)

	if design.Widgets[0].Title != "Contacto" || design.Widgets[1].Title != "Prefs" {
		t.Fatalf("titles not localised: %q %q", design.Widgets[0].Title, design.Widgets[1].Title)
	}
	if design.Widgets[0].Fields[0].Label != "Correo" || design.Widgets[0].Fields[1].Label != "Name" {
		t.Fatalf("labels not localised")
	}
	if got := design.Widgets[1].Fields[0].Options()[0].Label; got != "Rojo" {
		t.Fatalf("option label = %q", got)
	}

	errs := render.LocalizeErrors(map[string][]string{"x": {"This field is required"}}, opts)
	if errs["x"][0] != "Campo obligatorio" {
		t.Fatalf("validation message not localised: %v", errs)
	}
}

func TestHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" keep ": "1", "": "x"},
		render.CSRFToken("_csrf", "tok"),
		render.Hidden("  ", "skip"),
		render.Hidden("version", 4),
	)
	want := []render.HiddenField{{Name: "_csrf", Value: "tok"}, {Name: "keep", Value: "1"}, {Name: "version", Value: "4"}}
	if diff := cmp.Diff(want, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.Design, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("html"))
	reg.MustRegister(namedRenderer("json"))
	if err := reg.Register(namedRenderer("html")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	def, err := reg.Get("")
	if err != nil || def.Name() != "html" {
		t.Fatalf("default renderer = %v, %v", def, err)
	}
	if err := reg.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if def, _ := reg.Get(""); def.Name() != "json" {
		t.Fatalf("default not switched")
	}
	if diff := cmp.Diff([]string{"html", "json"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
