package canvas_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/canvas"
	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/palette"
	"github.com/goliatone/go-formdesigner/pkg/panel"
)

func newCanvas(t *testing.T, opts ...canvas.Option) *canvas.Canvas {
	t.Helper()
	opts = append([]canvas.Option{canvas.WithIDGenerator(model.NewSequenceGenerator())}, opts...)
	return canvas.New(opts...)
}

func entry(t *testing.T, id string) palette.Entry {
	t.Helper()
	e, err := palette.NewDefaultCatalog().Get(id)
	if err != nil {
		t.Fatalf("palette entry %s: %v", id, err)
	}
	return e
}

func transfer(t *testing.T, id string) palette.Transfer {
	t.Helper()
	payload, err := palette.Encode(entry(t, id))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return payload
}

func widgetTitles(widgets []model.Widget) []string {
	out := make([]string, len(widgets))
	for i, w := range widgets {
		out[i] = w.Title
	}
	return out
}

func TestDropOnZoneInsertsAtIndex(t *testing.T) {
	c := newCanvas(t)
	for _, id := range []string{"text", "email"} {
		if _, err := c.Drop(transfer(t, id), canvas.Background); err != nil {
			t.Fatalf("drop %s: %v", id, err)
		}
	}

	added, err := c.Drop(transfer(t, "number"), canvas.Zone(1))
	if err != nil {
		t.Fatalf("drop on zone: %v", err)
	}

	widgets := c.Widgets()
	want := []string{"Text Input", "Number", "Email"}
	if diff := cmp.Diff(want, widgetTitles(widgets)); diff != "" {
		t.Fatalf("widget order mismatch (-want +got):\n%s", diff)
	}
	for i, w := range widgets {
		if w.Order != i {
			t.Fatalf("widget %s order = %d, want %d", w.ID, w.Order, i)
		}
	}
	if added.ID != widgets[1].ID {
		t.Fatalf("returned widget %s, want %s", added.ID, widgets[1].ID)
	}
	if len(added.Fields) != 1 || added.Fields[0].Type != model.FieldTypeNumber {
		t.Fatalf("expected one seeded number field, got %+v", added.Fields)
	}
}

func TestDropZoneIsClamped(t *testing.T) {
	c := newCanvas(t)
	if _, err := c.Drop(transfer(t, "text"), canvas.Zone(7)); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := c.Drop(transfer(t, "email"), canvas.Zone(-3)); err != nil {
		t.Fatalf("drop: %v", err)
	}
	want := []string{"Email", "Text Input"}
	if diff := cmp.Diff(want, widgetTitles(c.Widgets())); diff != "" {
		t.Fatalf("widget order mismatch (-want +got):\n%s", diff)
	}
}

func TestDropMalformedPayloadIsIgnored(t *testing.T) {
	c := newCanvas(t)
	c.DragEnter(canvas.Zone(0))
	if got := c.DragState().State; got != canvas.DragOverZone {
		t.Fatalf("expected over-zone state, got %s", got)
	}

	_, err := c.Drop(palette.Transfer{palette.MIMEText: "{not json"}, canvas.Zone(0))
	if !canvas.IsMalformed(err) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
	if len(c.Widgets()) != 0 {
		t.Fatalf("malformed drop must not add widgets")
	}
	if got := c.DragState(); got != (canvas.Drag{}) {
		t.Fatalf("expected idle after drop, got %+v", got)
	}
}

func TestDragLeaveContainment(t *testing.T) {
	c := newCanvas(t)
	c.DragEnter(canvas.Background)
	c.DragOver(canvas.Zone(2))
	if got := c.DragState(); got != (canvas.Drag{State: canvas.DragOverZone, Zone: 2}) {
		t.Fatalf("unexpected drag state %+v", got)
	}

	c.DragLeave(canvas.Target{Kind: canvas.TargetWidget, WidgetID: "widget_1"})
	if got := c.DragState().State; got != canvas.DragOverCanvas {
		t.Fatalf("leaving into a child must keep dragging, got %s", got)
	}

	c.DragLeave(canvas.Outside)
	if got := c.DragState().State; got != canvas.DragIdle {
		t.Fatalf("leaving the canvas must go idle, got %s", got)
	}
}

func TestDragIgnoredOutsideDesignMode(t *testing.T) {
	c := newCanvas(t)
	c.SetMode(model.ModePreview)
	c.DragEnter(canvas.Zone(0))
	if got := c.DragState().State; got != canvas.DragIdle {
		t.Fatalf("expected idle in preview, got %s", got)
	}
	if _, err := c.Drop(transfer(t, "text"), canvas.Background); !errors.Is(err, canvas.ErrNotDesignMode) {
		t.Fatalf("expected ErrNotDesignMode, got %v", err)
	}
}

func TestDuplicateAssignsFreshIDs(t *testing.T) {
	c := newCanvas(t)
	original, err := c.AddWidget(entry(t, "select").Add(nil))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	copyWidget, err := c.Duplicate(original.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if copyWidget.Title != original.Title+canvas.CopySuffix {
		t.Fatalf("title = %q", copyWidget.Title)
	}
	if copyWidget.ID == original.ID {
		t.Fatalf("duplicate reused widget id %s", original.ID)
	}

	seen := map[string]bool{}
	for _, w := range c.Widgets() {
		for _, f := range w.Fields {
			if seen[f.ID] {
				t.Fatalf("duplicate field id %s", f.ID)
			}
			seen[f.ID] = true
		}
	}
	if diff := cmp.Diff(original.Fields[0].Options(), copyWidget.Fields[0].Options()); diff != "" {
		t.Fatalf("options not copied (-want +got):\n%s", diff)
	}
	if copyWidget.Order != 1 {
		t.Fatalf("duplicate should be appended, order = %d", copyWidget.Order)
	}
}

func TestSelection(t *testing.T) {
	c := newCanvas(t)
	w, _ := c.AddWidget(entry(t, "text").Add(nil))

	if err := c.SelectField(w.Fields[0].ID); err != nil {
		t.Fatalf("select field: %v", err)
	}
	want := canvas.Selection{WidgetID: w.ID, FieldID: w.Fields[0].ID}
	if got := c.Selection(); got != want {
		t.Fatalf("selection = %+v, want %+v", got, want)
	}

	c.ClearSelection()
	if !c.Selection().Empty() {
		t.Fatalf("expected empty selection")
	}
	if err := c.SelectWidget("missing"); !errors.Is(err, canvas.ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound, got %v", err)
	}
}

func TestDeleteAndMove(t *testing.T) {
	c := newCanvas(t)
	a, _ := c.AddWidget(entry(t, "text").Add(nil))
	b, _ := c.AddWidget(entry(t, "email").Add(nil))
	d, _ := c.AddWidget(entry(t, "number").Add(nil))

	if err := c.MoveWidget(d.ID, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := c.MoveWidgetBy(a.ID, 1); err != nil {
		t.Fatalf("move by: %v", err)
	}
	want := []string{"Number", "Email", "Text Input"}
	if diff := cmp.Diff(want, widgetTitles(c.Widgets())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	_ = c.SelectWidget(b.ID)
	if err := c.DeleteWidget(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !c.Selection().Empty() {
		t.Fatalf("deleting the selected widget must clear selection")
	}
	want = []string{"Number", "Text Input"}
	if diff := cmp.Diff(want, widgetTitles(c.Widgets())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddFieldRequiresFormWidget(t *testing.T) {
	c := newCanvas(t)
	form, _ := c.AddWidget(entry(t, "text").Add(nil))
	divider, _ := c.AddWidget(entry(t, "divider").Add(nil))

	field, err := c.AddField(form.ID, model.FieldTypeRating)
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if field.Order != 1 || field.Type != model.FieldTypeRating {
		t.Fatalf("unexpected field %+v", field)
	}
	if _, err := c.AddField(divider.ID, model.FieldTypeText); !errors.Is(err, canvas.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestRequiredFieldScenario(t *testing.T) {
	c := newCanvas(t)
	widget, err := c.Drop(transfer(t, "text"), canvas.Zone(0))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	widgets := c.Widgets()
	if len(widgets) != 1 || len(widgets[0].Fields) != 1 {
		t.Fatalf("expected one widget with one field, got %+v", widgets)
	}
	dropped := widgets[0].Fields[0]
	if dropped.Type != model.FieldTypeText || dropped.Required || len(dropped.Validations) != 0 {
		t.Fatalf("unexpected dropped field: %+v", dropped)
	}
	fieldID := widget.Fields[0].ID

	if err := c.SelectField(fieldID); err != nil {
		t.Fatalf("select field: %v", err)
	}
	rule, err := panel.New(c).AddRule(model.RuleRequired, "", "")
	if err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if got := c.Widgets()[0].Fields[0].Validations; len(got) != 1 || got[0].ID != rule.ID || !got[0].Enabled {
		t.Fatalf("expected the required rule on the field, got %+v", got)
	}

	c.SetMode(model.ModePreview)

	var submitted model.Values
	onSubmit := func(values model.Values) error {
		submitted = values
		return nil
	}

	errs, err := c.Submit(onSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	wantErrs := []model.ValidationError{{FieldID: fieldID, Message: "This field is required"}}
	if diff := cmp.Diff(wantErrs, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if submitted != nil {
		t.Fatalf("onSubmit must not run with errors")
	}
	if got := c.Session().Errors[fieldID]; got != "This field is required" {
		t.Fatalf("session error = %q", got)
	}

	if _, err := c.SetValue(fieldID, "hello"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if _, ok := c.Session().Errors[fieldID]; ok {
		t.Fatalf("setting a value must clear the field error")
	}

	errs, err = c.Submit(onSubmit)
	if err != nil || len(errs) != 0 {
		t.Fatalf("submit: errs=%v err=%v", errs, err)
	}
	if diff := cmp.Diff(model.Values{fieldID: "hello"}, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func cascadeDesign() model.Design {
	country := model.NewField("country", model.FieldTypeSelect, "Country")
	country.SetOptions([]model.Option{{Value: "us", Label: "United States"}, {Value: "ca", Label: "Canada"}})
	city := model.NewField("city", model.FieldTypeSelect, "City")
	city.EnsureCascade().Source = "country"
	city.EnsureCascade().Mapping = map[string][]model.Option{
		"us": {{Value: "nyc", Label: "New York"}},
		"ca": {{Value: "yvr", Label: "Vancouver"}},
	}
	tags := model.NewField("tags", model.FieldTypeMulti, "Tags")
	tags.EnsureCascade().Source = "country"

	return model.Design{
		ID: "design_1",
		Widgets: []model.Widget{{
			ID:       "widget_1",
			Type:     model.WidgetTypeForm,
			Settings: model.DefaultWidgetSettings(),
			Fields:   []model.Field{country, city, tags},
		}},
	}
}

func TestSetValueResetsDependents(t *testing.T) {
	c := newCanvas(t, canvas.WithDesign(cascadeDesign()))
	c.SetMode(model.ModePreview)

	if _, err := c.SetValue("city", "nyc"); err != nil {
		t.Fatalf("set city: %v", err)
	}
	if _, err := c.SetValue("tags", []string{"a"}); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	reset, err := c.SetValue("country", "ca")
	if err != nil {
		t.Fatalf("set country: %v", err)
	}
	if diff := cmp.Diff([]string{"city", "tags"}, reset); diff != "" {
		t.Fatalf("reset ids mismatch (-want +got):\n%s", diff)
	}

	want := model.Values{"country": "ca", "city": "", "tags": []string{}}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	choices := c.Controls()["city"].Choices
	if len(choices) != 1 || choices[0].Value != "yvr" {
		t.Fatalf("city choices not resolved from cascade: %+v", choices)
	}
}

func TestInteractRating(t *testing.T) {
	design := model.Design{Widgets: []model.Widget{{
		ID:     "widget_1",
		Type:   model.WidgetTypeForm,
		Fields: []model.Field{model.NewField("stars", model.FieldTypeRating, "Stars")},
	}}}
	c := newCanvas(t, canvas.WithDesign(design))

	if _, err := c.Interact("stars", controls.Event{Kind: controls.EventStar, Index: 2}); !errors.Is(err, canvas.ErrNotPreviewMode) {
		t.Fatalf("expected ErrNotPreviewMode in design mode, got %v", err)
	}

	c.SetMode(model.ModePreview)
	res, err := c.Interact("stars", controls.Event{Kind: controls.EventStar, Index: 2})
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if !res.Changed || res.Value != float64(3) {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := c.Values()["stars"]; got != float64(3) {
		t.Fatalf("stored value = %v", got)
	}
}

func TestObserversAndDispatch(t *testing.T) {
	c := newCanvas(t)
	var kinds []canvas.ChangeKind
	stop := c.OnChange(func(ch canvas.Change) { kinds = append(kinds, ch.Kind) })

	if err := c.Dispatch(entry(t, "text").Add(nil)); err != nil {
		t.Fatalf("dispatch add: %v", err)
	}
	if err := c.Dispatch(canvas.SetModeCommand{Mode: model.ModePreview}); err != nil {
		t.Fatalf("dispatch mode: %v", err)
	}
	stop()
	_ = c.Dispatch(canvas.SetModeCommand{Mode: model.ModeDesign})

	want := []canvas.ChangeKind{canvas.ChangeDesign, canvas.ChangeMode, canvas.ChangeDrag}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}

	if err := c.Dispatch(struct{}{}); !errors.Is(err, canvas.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestDecodeCommand(t *testing.T) {
	catalog := palette.NewDefaultCatalog()

	cmd, err := canvas.DecodeCommand([]byte(`{"type":"addWidget","payload":{"entry":"email","zone":0}}`), catalog)
	if err != nil {
		t.Fatalf("decode addWidget: %v", err)
	}
	add, ok := cmd.(palette.AddWidget)
	if !ok || add.Entry.ID != "email" || add.Zone == nil || *add.Zone != 0 {
		t.Fatalf("unexpected command %#v", cmd)
	}

	cmd, err = canvas.DecodeCommand([]byte(`{"type":"setValue","payload":{"fieldId":"f","value":"x"}}`), catalog)
	if err != nil {
		t.Fatalf("decode setValue: %v", err)
	}
	if diff := cmp.Diff(canvas.SetValueCommand{FieldID: "f", Value: "x"}, cmd); diff != "" {
		t.Fatalf("command mismatch (-want +got):\n%s", diff)
	}

	if _, err := canvas.DecodeCommand([]byte(`{"type":"explode"}`), catalog); !errors.Is(err, canvas.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}
