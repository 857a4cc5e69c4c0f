package binding_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

const contactsDoc = `openapi: 3.0.3
info:
  title: Contacts
  version: "1.0"
paths:
  /contacts:
    post:
      operationId: createContact
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Contact'
      responses:
        "201":
          description: created
  /feedback:
    post:
      operationId: sendFeedback
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [message]
              properties:
                message:
                  type: string
                  maxLength: 1000
                score:
                  type: integer
                  minimum: 1
                  maximum: 5
      responses:
        "204":
          description: accepted
components:
  schemas:
    Contact:
      type: object
      title: Contact details
      required: [name, email]
      properties:
        id:
          type: string
          readOnly: true
        name:
          type: string
          minLength: 2
          maxLength: 80
        email:
          type: string
          format: email
        country:
          type: string
          enum: [ca, us]
        tags:
          type: array
          items:
            type: string
            enum: [vip, new]
        newsletter:
          type: boolean
          default: true
        birthday:
          type: string
          format: date
        website:
          type: string
          format: uri
        zip:
          type: string
          pattern: '^[0-9]{5}$'
          x-formdesigner-type: mask
        address:
          type: object
          properties:
            street:
              type: string
    Status:
      type: string
      enum: [open]
`

func loadCatalog(t *testing.T) *binding.Catalog {
	t.Helper()
	loader := binding.NewLoader(binding.WithFileSystem(fstest.MapFS{
		"specs/contacts.yaml": {Data: []byte(contactsDoc)},
	}))
	raw, err := loader.Load(context.Background(), binding.SourceFromFS("specs/contacts.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	catalog, err := binding.Parse(context.Background(), raw, binding.WithValidation(true))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return catalog
}

func TestParse_ExposesObjectSchemasAndInlineBodies(t *testing.T) {
	catalog := loadCatalog(t)

	var ids []string
	for _, m := range catalog.Models() {
		ids = append(ids, m.ID)
	}
	if diff := cmp.Diff([]string{"Contact", "sendFeedback"}, ids); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}

	keys, err := catalog.Properties(context.Background(), "Contact")
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	want := []string{"address", "birthday", "country", "email", "id", "name", "newsletter", "tags", "website", "zip"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	contact, _ := catalog.Model("Contact")
	zip, ok := contact.Property("zip")
	if !ok {
		t.Fatalf("expected zip property")
	}
	if zip.Hint != "mask" || zip.Pattern != "^[0-9]{5}$" {
		t.Fatalf("unexpected zip property: %+v", zip)
	}
	name, _ := contact.Property("name")
	if !name.Required || name.MinLength == nil || *name.MinLength != 2 || name.MaxLength == nil || *name.MaxLength != 80 {
		t.Fatalf("unexpected name property: %+v", name)
	}
}

func TestCatalog_UnknownModel(t *testing.T) {
	catalog := loadCatalog(t)
	if _, err := catalog.Properties(context.Background(), "Missing"); !errors.Is(err, binding.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	if _, err := binding.Parse(context.Background(), nil); !errors.Is(err, binding.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

type scaffolded struct {
	Property string
	Type     model.FieldType
	Label    string
	Required bool
	Rules    []string
}

func summarize(widget model.Widget) []scaffolded {
	out := make([]scaffolded, 0, len(widget.Fields))
	for _, f := range widget.Fields {
		entry := scaffolded{Property: f.ModelProperty, Type: f.Type, Label: f.Label, Required: f.Required}
		for _, r := range f.Validations {
			entry.Rules = append(entry.Rules, string(r.Type)+":"+r.Value)
		}
		out = append(out, entry)
	}
	return out
}

func TestScaffold_BuildsBoundFormWidget(t *testing.T) {
	catalog := loadCatalog(t)

	widget, err := binding.Scaffold(catalog, "Contact", model.NewSequenceGenerator())
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if widget.ID != "widget_1" || widget.Type != model.WidgetTypeForm || widget.Title != "Contact details" {
		t.Fatalf("unexpected widget header: %+v", widget)
	}
	if widget.ModelBinding != "Contact" {
		t.Fatalf("expected model binding, got %q", widget.ModelBinding)
	}

	want := []scaffolded{
		{Property: "birthday", Type: model.FieldTypeDate, Label: "Birthday"},
		{Property: "country", Type: model.FieldTypeSelect, Label: "Country"},
		{Property: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, Rules: []string{"required:", "email:"}},
		{Property: "name", Type: model.FieldTypeText, Label: "Name", Required: true, Rules: []string{"required:", "minLength:2", "maxLength:80"}},
		{Property: "newsletter", Type: model.FieldTypeToggle, Label: "Newsletter"},
		{Property: "tags", Type: model.FieldTypeMulti, Label: "Tags"},
		{Property: "website", Type: model.FieldTypeURL, Label: "Website"},
		{Property: "zip", Type: model.FieldTypeMask, Label: "Zip", Rules: []string{"pattern:^[0-9]{5}$"}},
	}
	if diff := cmp.Diff(want, summarize(widget)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	country := widget.Fields[1]
	if diff := cmp.Diff([]model.Option{{Value: "ca", Label: "Ca"}, {Value: "us", Label: "Us"}}, country.Options()); diff != "" {
		t.Fatalf("country options mismatch (-want +got):\n%s", diff)
	}
	tags := widget.Fields[5]
	if diff := cmp.Diff([]model.Option{{Value: "vip", Label: "Vip"}, {Value: "new", Label: "New"}}, tags.Options()); diff != "" {
		t.Fatalf("tag options mismatch (-want +got):\n%s", diff)
	}
	if widget.Fields[4].DefaultValue != true {
		t.Fatalf("expected newsletter default true, got %#v", widget.Fields[4].DefaultValue)
	}
	for i, f := range widget.Fields {
		if f.Order != i {
			t.Fatalf("field %s order = %d, want %d", f.ID, f.Order, i)
		}
		if err := f.Check(); err != nil {
			t.Fatalf("field %s: %v", f.ID, err)
		}
	}
}

func TestScaffold_InlineBodyNumbersAndTextarea(t *testing.T) {
	catalog := loadCatalog(t)

	widget, err := binding.NewScaffolder(catalog, binding.WithIDGenerator(model.NewSequenceGenerator())).Scaffold("sendFeedback")
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if widget.Title != "Send Feedback" {
		t.Fatalf("expected derived title, got %q", widget.Title)
	}
	want := []scaffolded{
		{Property: "message", Type: model.FieldTypeTextarea, Label: "Message", Required: true, Rules: []string{"required:", "maxLength:1000"}},
		{Property: "score", Type: model.FieldTypeNumber, Label: "Score", Rules: []string{"number:"}},
	}
	if diff := cmp.Diff(want, summarize(widget)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	props, ok := widget.Fields[1].Props.(*model.NumberProps)
	if !ok {
		t.Fatalf("expected number props, got %T", widget.Fields[1].Props)
	}
	if props.Min == nil || *props.Min != 1 || props.Max == nil || *props.Max != 5 || props.Step == nil || *props.Step != 1 {
		t.Fatalf("unexpected number props: %+v", props)
	}
}

func TestRegistry_PriorityAndHints(t *testing.T) {
	reg := binding.NewRegistry()
	reg.Register(model.FieldTypeRating, 200, func(p binding.Property) bool {
		return p.Key == "stars"
	})

	cases := []struct {
		name string
		prop binding.Property
		want model.FieldType
	}{
		{"custom rule wins", binding.Property{Key: "stars", Type: "integer"}, model.FieldTypeRating},
		{"enum beats format", binding.Property{Type: "string", Format: "email", Enum: []string{"a@b.c"}}, model.FieldTypeSelect},
		{"password", binding.Property{Type: "string", Format: "password"}, model.FieldTypePassword},
		{"datetime", binding.Property{Type: "string", Format: "date-time"}, model.FieldTypeDateTime},
		{"plain string", binding.Property{Type: "string"}, model.FieldTypeText},
		{"known hint", binding.Property{Type: "string", Hint: "Color"}, model.FieldTypeColor},
		{"unknown hint ignored", binding.Property{Type: "boolean", Hint: "slider"}, model.FieldTypeToggle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reg.Resolve(tc.prop); got != tc.want {
				t.Fatalf("Resolve = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestLoader_Sources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(contactsDoc))
	}))
	defer server.Close()

	src, err := binding.SourceFromURL(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	if _, err := binding.NewLoader().Load(context.Background(), src); err == nil {
		t.Fatalf("expected http to be disabled without a client")
	}

	raw, err := binding.NewLoader(binding.WithHTTPClient(server.Client())).Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	if string(raw) != contactsDoc {
		t.Fatalf("unexpected body")
	}

	missing, _ := binding.SourceFromURL(server.URL + "/missing")
	if _, err := binding.NewLoader(binding.WithHTTPClient(server.Client())).Load(context.Background(), missing); err == nil {
		t.Fatalf("expected status error")
	}

	if _, err := binding.NewLoader().Load(context.Background(), binding.SourceFromFS("x.yaml")); err == nil {
		t.Fatalf("expected error without filesystem")
	}

	parsed, err := binding.ParseSource(server.URL + "/openapi.yaml")
	if err != nil || parsed.Kind() != binding.SourceKindURL {
		t.Fatalf("ParseSource url = %v, %v", parsed, err)
	}
	parsed, err = binding.ParseSource("specs/openapi.yaml")
	if err != nil || parsed.Kind() != binding.SourceKindFile {
		t.Fatalf("ParseSource file = %v, %v", parsed, err)
	}
}
