package cascade_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

func choice(id, source string, t model.FieldType, mapping map[string][]model.Option) model.Field {
	field := model.NewField(id, t, id)
	if source != "" || mapping != nil {
		c := field.EnsureCascade()
		c.Source = source
		c.Mapping = mapping
	}
	return field
}

func TestPropagateResetsDirectDependents(t *testing.T) {
	widgets := []model.Widget{{
		ID: "w",
		Fields: []model.Field{
			choice("country", "", model.FieldTypeSelect, nil),
			choice("state", "country", model.FieldTypeSelect, nil),
			choice("tags", "country", model.FieldTypeMulti, nil),
			choice("city", "state", model.FieldTypeSelect, nil),
		},
	}}

	got := cascade.Propagate("country", widgets)
	want := []cascade.Reset{
		{FieldID: "state", Value: ""},
		{FieldID: "tags", Value: []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resets mismatch (-want +got):\n%s", diff)
	}

	for _, prior := range []any{"tx", "", nil} {
		values := model.Values{"state": prior, "tags": []string{"a"}}
		cascade.Apply(values, cascade.Propagate("country", widgets))
		if values["state"] != "" {
			t.Fatalf("expected state reset from %v, got %v", prior, values["state"])
		}
		if diff := cmp.Diff([]string{}, values["tags"]); diff != "" {
			t.Fatalf("expected tags reset: %s", diff)
		}
	}
}

func TestResolveOptions(t *testing.T) {
	mapping := map[string][]model.Option{"us": {{Value: "ca", Label: "California"}}}
	state := choice("state", "country", model.FieldTypeSelect, mapping)

	got := cascade.ResolveOptions(state, model.Values{"country": "us"})
	if diff := cmp.Diff([]model.Option{{Value: "ca", Label: "California"}}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if got := cascade.ResolveOptions(state, model.Values{"country": "fr"}); len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}

	static := model.NewField("colour", model.FieldTypeRadio, "Colour")
	static.SetOptions([]model.Option{{Value: "r", Label: "Red"}})
	if got := cascade.ResolveOptions(static, nil); len(got) != 1 {
		t.Fatalf("expected static options, got %#v", got)
	}
}

func TestGraphCyclesAndTransitive(t *testing.T) {
	widgets := []model.Widget{{
		ID: "w",
		Fields: []model.Field{
			choice("a", "c", model.FieldTypeSelect, nil),
			choice("b", "a", model.FieldTypeSelect, nil),
			choice("c", "b", model.FieldTypeSelect, nil),
			choice("d", "c", model.FieldTypeMulti, nil),
		},
	}}
	graph := cascade.NewGraph(widgets)

	if diff := cmp.Diff([][]string{{"a", "b", "c"}}, graph.Cycles()); diff != "" {
		t.Fatalf("cycles mismatch (-want +got):\n%s", diff)
	}

	got := graph.PropagateTransitive("a")
	want := []cascade.Reset{
		{FieldID: "b", Value: ""},
		{FieldID: "c", Value: ""},
		{FieldID: "d", Value: []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("transitive mismatch (-want +got):\n%s", diff)
	}
}
