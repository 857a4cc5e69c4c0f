package panel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/canvas"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/panel"
)

func ptr[T any](v T) *T { return &v }

func fixture(t *testing.T) (*canvas.Canvas, *panel.Panel) {
	t.Helper()
	name := model.NewField("name", model.FieldTypeText, "Name")
	name.Placeholder = "Your name"
	country := model.NewField("country", model.FieldTypeSelect, "Country")
	country.SetOptions([]model.Option{{Value: "us", Label: "United States"}})
	region := model.NewField("region", model.FieldTypeSelect, "Region")
	radio := model.NewField("size", model.FieldTypeRadio, "Size")

	design := model.Design{ID: "d", Widgets: []model.Widget{{
		ID:       "widget_1",
		Type:     model.WidgetTypeForm,
		Title:    "Profile",
		Settings: model.DefaultWidgetSettings(),
		Fields:   []model.Field{name, country, region, radio},
	}}}
	ids := model.NewSequenceGenerator()
	c := canvas.New(canvas.WithDesign(design), canvas.WithIDGenerator(ids))
	return c, panel.New(c, panel.WithIDGenerator(ids))
}

func field(t *testing.T, c *canvas.Canvas, id string) model.Field {
	t.Helper()
	f, _, ok := model.FindField(c.Widgets(), id)
	if !ok {
		t.Fatalf("field %s not found", id)
	}
	return *f
}

func TestViewFollowsSelection(t *testing.T) {
	c, p := fixture(t)
	if got := p.View().Target; got != panel.TargetNone {
		t.Fatalf("expected no target, got %q", got)
	}

	_ = c.SelectWidget("widget_1")
	view := p.View()
	if view.Target != panel.TargetWidget || view.Field != nil {
		t.Fatalf("expected widget target, got %+v", view)
	}

	_ = c.SelectField("country")
	view = p.View()
	if view.Target != panel.TargetField || view.Field.ID != "country" || view.Widget.ID != "widget_1" {
		t.Fatalf("expected field target with owning widget, got %+v", view)
	}
	general := view.Sections[0]
	if general.Tab != panel.TabGeneral || general.Editors[len(general.Editors)-1] != panel.EditorOptions {
		t.Fatalf("select fields must reveal the options editor: %+v", general)
	}

	_ = c.SelectField("name")
	for _, editor := range p.Sections()[0].Editors {
		if editor == panel.EditorOptions {
			t.Fatalf("text fields must not show the options editor")
		}
	}
}

func TestUpdateFieldMergesPatch(t *testing.T) {
	c, p := fixture(t)
	_ = c.SelectField("name")

	if err := p.UpdateField(model.FieldPatch{Label: ptr("Full name"), Required: ptr(true)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := field(t, c, "name")
	if got.Label != "Full name" || !got.Required || got.Placeholder != "Your name" {
		t.Fatalf("patch must merge, got %+v", got)
	}

	err := p.UpdateField(model.FieldPatch{MaxRating: ptr(3)})
	if !errors.Is(err, model.ErrInvalidPatch) {
		t.Fatalf("expected ErrInvalidPatch, got %v", err)
	}
	if field(t, c, "name").Label != "Full name" {
		t.Fatalf("rejected patch must leave field untouched")
	}
}

func TestUpdateWidgetTargetsOwner(t *testing.T) {
	c, p := fixture(t)
	_ = c.SelectField("name")
	if err := p.UpdateWidget(model.WidgetPatch{Title: ptr("About you"), Columns: ptr(2)}); err != nil {
		t.Fatalf("update widget: %v", err)
	}
	w := c.Widgets()[0]
	if w.Title != "About you" || w.Settings.Columns != 2 || w.Settings.Spacing != 16 {
		t.Fatalf("unexpected widget %+v", w)
	}

	c.ClearSelection()
	if err := p.UpdateWidget(model.WidgetPatch{Title: ptr("x")}); !errors.Is(err, panel.ErrNoWidget) {
		t.Fatalf("expected ErrNoWidget, got %v", err)
	}
}

func TestOptionsCRUD(t *testing.T) {
	c, p := fixture(t)
	_ = c.SelectField("country")

	if err := p.AddOption(model.Option{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := p.UpdateOption(1, model.Option{Value: "ca", Label: "Canada"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := p.AddOption(model.Option{Value: "mx", Label: "Mexico"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := p.MoveOption(2, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := p.RemoveOption(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []model.Option{{Value: "mx", Label: "Mexico"}, {Value: "ca", Label: "Canada"}}
	if diff := cmp.Diff(want, field(t, c, "country").Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if err := p.RemoveOption(5); !errors.Is(err, panel.ErrOptionIndex) {
		t.Fatalf("expected ErrOptionIndex, got %v", err)
	}

	_ = c.SelectField("name")
	if err := p.AddOption(model.Option{Value: "x"}); !errors.Is(err, panel.ErrNotChoice) {
		t.Fatalf("expected ErrNotChoice, got %v", err)
	}
}

func TestRuleCRUD(t *testing.T) {
	c, p := fixture(t)
	_ = c.SelectField("name")

	rule, err := p.AddRule(model.RuleMinLength, "3", "")
	if err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if !rule.Enabled || rule.Value != "3" {
		t.Fatalf("unexpected rule %+v", rule)
	}
	rules := p.Sections()[1].Rules
	if len(rules) != 1 || !rules[0].ValueInput {
		t.Fatalf("minLength must show a value input: %+v", rules)
	}

	if err := p.UpdateRule(rule.ID, model.RulePatch{Type: ptr(model.RuleEmail)}); err != nil {
		t.Fatalf("update rule: %v", err)
	}
	if err := p.ToggleRule(rule.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got := field(t, c, "name").Validations[0]
	if got.Type != model.RuleEmail || got.Value != "" || got.Enabled {
		t.Fatalf("unexpected rule after edits %+v", got)
	}
	if p.Sections()[1].Rules[0].ValueInput {
		t.Fatalf("email rules take no value")
	}

	if err := p.RemoveRule(rule.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(field(t, c, "name").Validations) != 0 {
		t.Fatalf("rule not removed")
	}
	if err := p.ToggleRule("missing"); !errors.Is(err, panel.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestCascadeWiring(t *testing.T) {
	c, p := fixture(t)
	_ = c.SelectField("region")

	candidates, err := p.CascadeCandidates()
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	var ids []string
	for _, f := range candidates {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"country"}, ids); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	if err := p.WireCascade("size"); !errors.Is(err, panel.ErrNotCandidate) {
		t.Fatalf("radio fields are not candidates, got %v", err)
	}
	if err := p.WireCascade("country"); err != nil {
		t.Fatalf("wire: %v", err)
	}
	if err := p.SetCascadeMapping("us", []model.Option{{Value: "ny", Label: "New York"}}); err != nil {
		t.Fatalf("mapping: %v", err)
	}

	region := field(t, c, "region")
	if region.CascadeSource() != "country" {
		t.Fatalf("source not wired: %+v", region.Cascade())
	}
	if got := field(t, c, "country").Cascade().Target; got != "region" {
		t.Fatalf("target not recorded on source, got %q", got)
	}
	want := map[string][]model.Option{"us": {{Value: "ny", Label: "New York"}}}
	if diff := cmp.Diff(want, region.Cascade().Mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}

	if err := p.WireCascade(""); err != nil {
		t.Fatalf("unwire: %v", err)
	}
	if field(t, c, "country").Cascade().Target != "" {
		t.Fatalf("unwiring must clear the source's target")
	}
}

type staticModels map[string][]string

func (m staticModels) Properties(_ context.Context, id string) ([]string, error) {
	return m[id], nil
}

func TestBinding(t *testing.T) {
	c, p := fixture(t)
	_ = c.SelectField("name")

	if _, err := p.ModelProperties(context.Background()); !errors.Is(err, panel.ErrNoModelSource) {
		t.Fatalf("expected ErrNoModelSource, got %v", err)
	}

	p = panel.New(c, panel.WithModels(staticModels{"User": {"email", "name"}}))
	if err := p.SetWidgetBinding("User"); err != nil {
		t.Fatalf("bind widget: %v", err)
	}
	if err := p.SetFieldBinding("name"); err != nil {
		t.Fatalf("bind field: %v", err)
	}
	if err := p.SetDefault("Ada"); err != nil {
		t.Fatalf("default: %v", err)
	}
	props, err := p.ModelProperties(context.Background())
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	if diff := cmp.Diff([]string{"email", "name"}, props); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	got := field(t, c, "name")
	if got.ModelProperty != "name" || got.DefaultValue != "Ada" {
		t.Fatalf("binding not applied: %+v", got)
	}
	if c.Widgets()[0].ModelBinding != "User" {
		t.Fatalf("widget binding not applied")
	}
}
