package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/palette"
	"github.com/goliatone/go-formdesigner/pkg/panel"
	"github.com/goliatone/go-formdesigner/pkg/search"
	"github.com/goliatone/go-formdesigner/pkg/testsupport"
)

type fixture struct {
	server    *httptest.Server
	store     *library.MemoryStore
	submitted []model.Values
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{store: library.NewMemoryStore()}
	if _, err := f.store.Save(context.Background(), testsupport.SampleDesign()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithStore(f.store))
	opts = append([]Option{
		WithSearchOptions(search.WithDebounce(0)),
		WithSubmitHandler(func(_ context.Context, _ model.Design, values model.Values) error {
			f.submitted = append(f.submitted, values)
			return nil
		}),
	}, opts...)
	srv, err := New(orch, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	f.server = httptest.NewServer(srv)
	t.Cleanup(func() {
		f.server.Close()
		srv.Close()
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := f.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", string(data), err)
	}
	return out
}

func TestNewRequiresOrchestrator(t *testing.T) {
	if _, err := New(nil); err != ErrNoOrchestrator {
		t.Fatalf("expected ErrNoOrchestrator, got %v", err)
	}
}

func TestPalette(t *testing.T) {
	f := newFixture(t)
	resp, data := f.do(t, http.MethodGet, "/api/palette", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	groups := decode[[]palette.Group](t, data)
	if len(groups) == 0 || len(groups[0].Entries) == 0 {
		t.Fatalf("expected palette groups, got %+v", groups)
	}
}

func TestDesignCRUD(t *testing.T) {
	f := newFixture(t)

	design := testsupport.SampleDesign()
	design.ID = ""
	design.Name = "Survey"
	resp, data := f.do(t, http.MethodPut, "/api/designs/survey", design)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status %d: %s", resp.StatusCode, data)
	}
	saved := decode[model.Design](t, data)
	if saved.ID != "survey" || saved.UpdatedAt.IsZero() {
		t.Fatalf("unexpected saved design: id=%q updated=%v", saved.ID, saved.UpdatedAt)
	}

	resp, data = f.do(t, http.MethodGet, "/api/designs", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	var ids []string
	for _, summary := range decode[[]library.Summary](t, data) {
		ids = append(ids, summary.ID)
	}
	if diff := cmp.Diff([]string{"contact", "survey"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	resp, data = f.do(t, http.MethodGet, "/api/designs/survey", nil)
	if resp.StatusCode != http.StatusOK || decode[model.Design](t, data).Name != "Survey" {
		t.Fatalf("get status %d: %s", resp.StatusCode, data)
	}

	resp, _ = f.do(t, http.MethodDelete, "/api/designs/survey", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp, _ = f.do(t, http.MethodGet, "/api/designs/survey", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestPutDesignRejectsMismatchedID(t *testing.T) {
	f := newFixture(t)
	resp, data := f.do(t, http.MethodPut, "/api/designs/other", testsupport.SampleDesign())
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.StatusCode, data)
	}
	if got := decode[errorBody](t, data).Code; got != "ID_MISMATCH" {
		t.Fatalf("unexpected code %q", got)
	}
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	resp, data := f.do(t, http.MethodGet, "/api/designs/contact/render?mode=preview", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(string(data), `data-fd-design="contact"`) {
		t.Fatalf("expected design marker in output:\n%s", data)
	}

	resp, _ = f.do(t, http.MethodGet, "/api/designs/contact/render?renderer=pdf", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown renderer, got %d", resp.StatusCode)
	}
	resp, _ = f.do(t, http.MethodGet, "/api/designs/missing/render", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing design, got %d", resp.StatusCode)
	}
}

func TestLint(t *testing.T) {
	f := newFixture(t)
	resp, data := f.do(t, http.MethodGet, "/api/designs/contact/lint", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	if issues := decode[lintBody](t, data).Issues; len(issues) != 0 {
		t.Fatalf("expected a clean sample design, got %v", issues)
	}
}

func TestValidateAndSubmit(t *testing.T) {
	f := newFixture(t)

	resp, data := f.do(t, http.MethodPost, "/api/designs/contact/validate", valuesBody{Values: model.Values{}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate status %d: %s", resp.StatusCode, data)
	}
	got := decode[validationBody](t, data)
	if got.Valid {
		t.Fatal("expected invalid result")
	}
	if diff := cmp.Diff(map[string][]string{"field_name": {"This field is required"}}, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	resp, _ = f.do(t, http.MethodPost, "/api/designs/contact/submit", valuesBody{Values: model.Values{"field_email": "nope"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if len(f.submitted) != 0 {
		t.Fatalf("submit handler must not run for invalid values")
	}

	values := model.Values{"field_name": "Ada", "field_country": "us", "field_city": "sf"}
	resp, data = f.do(t, http.MethodPost, "/api/designs/contact/submit", valuesBody{Values: values})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d: %s", resp.StatusCode, data)
	}
	if len(f.submitted) != 1 || f.submitted[0]["field_city"] != "sf" {
		t.Fatalf("unexpected submissions %#v", f.submitted)
	}

	resp, _ = f.do(t, http.MethodPost, "/api/designs/contact/validate", "not an object")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", resp.StatusCode)
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)

	resp, data := f.do(t, http.MethodGet, "/api/designs/contact/fields/field_country/search?q=can", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	want := []model.Option{{Value: "ca", Label: "Canada"}}
	if diff := cmp.Diff(want, decode[searchBody](t, data).Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	resp, data = f.do(t, http.MethodGet, "/api/designs/contact/fields/field_city/search?source=us", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cascade status %d: %s", resp.StatusCode, data)
	}
	if got := decode[searchBody](t, data).Options; len(got) != 2 || got[0].Value != "nyc" {
		t.Fatalf("unexpected cascade options %+v", got)
	}

	resp, _ = f.do(t, http.MethodGet, "/api/designs/contact/fields/field_name/search?q=a", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for text field, got %d", resp.StatusCode)
	}
	resp, _ = f.do(t, http.MethodGet, "/api/designs/contact/fields/missing/search", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing field, got %d", resp.StatusCode)
	}
}

func TestModelsAndScaffold(t *testing.T) {
	catalog := binding.NewCatalog(binding.Model{
		ID:    "Contact",
		Title: "Contact",
		Properties: []binding.Property{
			{Key: "email", Type: "string", Format: "email", Required: true},
			{Key: "age", Type: "integer"},
		},
	})
	f := newFixture(t, WithModels(catalog))

	resp, data := f.do(t, http.MethodGet, "/api/models", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("models status %d", resp.StatusCode)
	}
	want := []modelSummary{{ID: "Contact", Title: "Contact", Properties: []string{"email", "age"}}}
	if diff := cmp.Diff(want, decode[[]modelSummary](t, data)); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}

	resp, data = f.do(t, http.MethodGet, "/api/models/Contact/scaffold", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scaffold status %d: %s", resp.StatusCode, data)
	}
	widget := decode[model.Widget](t, data)
	if widget.ModelBinding != "Contact" || len(widget.Fields) != 2 {
		t.Fatalf("unexpected widget %+v", widget)
	}
	if widget.Fields[0].Type != model.FieldTypeEmail || !widget.Fields[0].Required {
		t.Fatalf("unexpected first field %+v", widget.Fields[0])
	}

	resp, _ = f.do(t, http.MethodGet, "/api/models/Missing/scaffold", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/palette", nil)
	resp, data := f.do(t, http.MethodGet, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !strings.Contains(string(data), `formdesigner_http_requests_total{method="GET",route="/api/palette",status="200"} 1`) {
		t.Fatalf("expected request counter in:\n%s", data)
	}
}

func TestCanvasSession(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/designs/contact/canvas"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	read := func() stateMessage {
		t.Helper()
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		return decode[stateMessage](t, data)
	}
	send := func(raw string) stateMessage {
		t.Helper()
		if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
			t.Fatalf("write: %v", err)
		}
		return read()
	}

	initial := read()
	if initial.Type != "state" || initial.Design == nil || len(initial.Design.Widgets) != 3 {
		t.Fatalf("unexpected initial state %+v", initial)
	}
	if initial.Mode != model.ModeDesign || initial.Panel.Target != panel.TargetNone {
		t.Fatalf("unexpected initial mode/panel: %s %q", initial.Mode, initial.Panel.Target)
	}

	selected := send(`{"type":"selectWidget","payload":{"widgetId":"widget_contact"}}`)
	if selected.Selection.WidgetID != "widget_contact" || selected.Panel.Target != panel.TargetWidget {
		t.Fatalf("unexpected selection state %+v", selected.Selection)
	}
	if selected.Design != nil {
		t.Fatal("selection must not resend the design")
	}

	updated := send(`{"type":"updateWidget","payload":{"title":"Reach us"}}`)
	if updated.Type != "state" || updated.Design == nil || updated.Design.Widgets[0].Title != "Reach us" {
		t.Fatalf("expected widget title update, got %+v", updated)
	}

	added := send(`{"type":"addWidget","payload":{"entry":"divider"}}`)
	if added.Design == nil || len(added.Design.Widgets) != 4 {
		t.Fatalf("expected appended widget, got %+v", added.Design)
	}

	failed := send(`{"type":"deleteWidget","payload":{"widgetId":"nope"}}`)
	if failed.Type != "error" || failed.Error == "" {
		t.Fatalf("expected error message, got %+v", failed)
	}

	preview := send(`{"type":"setMode","payload":{"mode":"preview"}}`)
	if preview.Mode != model.ModePreview || preview.Session == nil {
		t.Fatalf("expected preview session, got %+v", preview)
	}

	submitted := send(`{"type":"submit"}`)
	if submitted.Session == nil || submitted.Session.Errors["field_name"] != "This field is required" {
		t.Fatalf("expected blocked submit, got %+v", submitted.Session)
	}

	if saved := send(`{"type":"save"}`); saved.Type != "state" {
		t.Fatalf("save failed: %s", saved.Error)
	}
	stored, err := f.store.Load(ctx, "contact")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stored.Widgets) != 4 || stored.Widgets[0].Title != "Reach us" {
		t.Fatalf("canvas edits not saved: %+v", stored.Widgets)
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
