package palette_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/palette"
)

func TestDefaultCatalogCoversFieldTypes(t *testing.T) {
	catalog := palette.NewDefaultCatalog()
	for _, fieldType := range model.FieldTypes() {
		if _, ok := catalog.EntryForType(fieldType); !ok {
			t.Fatalf("missing palette entry for %s", fieldType)
		}
	}

	groups := catalog.Groups()
	if groups[0].Category != palette.CategoryBasic || groups[len(groups)-1].Category != palette.CategoryLayout {
		t.Fatalf("unexpected category order: first %s last %s", groups[0].Category, groups[len(groups)-1].Category)
	}
	if groups[0].Entries[0].ID != "text" {
		t.Fatalf("expected text input first, got %s", groups[0].Entries[0].ID)
	}
}

func TestCatalogPriorityOrdering(t *testing.T) {
	catalog := palette.NewCatalog()
	catalog.MustRegister(palette.Entry{ID: "a", Name: "A", Category: palette.CategoryBasic}, 0)
	catalog.MustRegister(palette.Entry{ID: "b", Name: "B", Category: palette.CategoryBasic}, 10)
	catalog.MustRegister(palette.Entry{ID: "c", Name: "C", Category: palette.CategoryBasic}, 0)

	var ids []string
	for _, entry := range catalog.List() {
		ids = append(ids, entry.ID)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if _, err := catalog.Get("zzz"); !errors.Is(err, palette.ErrUnknownEntry) {
		t.Fatalf("expected ErrUnknownEntry, got %v", err)
	}
}

func TestTransferRoundTripAndFallback(t *testing.T) {
	entry, err := palette.NewDefaultCatalog().Get("select")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	transfer, err := palette.Encode(entry)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	textOnly := palette.Transfer{palette.MIMEText: transfer[palette.MIMEText]}
	decoded, err := palette.Decode(textOnly)
	if err != nil {
		t.Fatalf("decode fallback: %v", err)
	}
	if decoded.ID != "select" || decoded.DefaultConfig.Field == nil {
		t.Fatalf("unexpected decoded entry %+v", decoded)
	}
	if diff := cmp.Diff(entry.DefaultConfig.Field.Options(), decoded.DefaultConfig.Field.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []palette.Transfer{{}, {palette.MIMEJSON: "{not json"}, {palette.MIMEText: `{"category":"x"}`}} {
		if _, err := palette.Decode(bad); !errors.Is(err, palette.ErrMalformedPayload) {
			t.Fatalf("expected ErrMalformedPayload for %v, got %v", bad, err)
		}
	}
}

func TestInstantiateSeedsSingleField(t *testing.T) {
	entry, _ := palette.NewDefaultCatalog().Get("text")
	widget := entry.Instantiate(model.NewSequenceGenerator())

	if widget.ID != "widget_1" || widget.Type != model.WidgetTypeForm {
		t.Fatalf("unexpected widget %+v", widget)
	}
	if len(widget.Fields) != 1 {
		t.Fatalf("expected one seeded field, got %d", len(widget.Fields))
	}
	field := widget.Fields[0]
	if field.ID != "field_1" || field.Type != model.FieldTypeText || field.Required {
		t.Fatalf("unexpected seeded field %+v", field)
	}

	divider, _ := palette.NewDefaultCatalog().Get("divider")
	if w := divider.Instantiate(model.NewSequenceGenerator()); len(w.Fields) != 0 || w.Type != model.WidgetTypeDivider {
		t.Fatalf("unexpected divider widget %+v", w)
	}
}
