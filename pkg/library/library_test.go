package library_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/testsupport"
)

type designShape struct {
	ID      string
	Name    string
	Widgets []string
	Fields  []string
}

func shape(d model.Design) designShape {
	out := designShape{ID: d.ID, Name: d.Name}
	for _, w := range d.Widgets {
		out.Widgets = append(out.Widgets, w.ID+":"+w.Title)
		for _, f := range w.Fields {
			out.Fields = append(out.Fields, f.ID+":"+string(f.Type)+":"+f.Label)
		}
	}
	return out
}

func sampleDesign(id, name string) model.Design {
	email := model.NewField("f_email", model.FieldTypeEmail, "Email")
	email.Required = true
	email.Validations = []model.ValidationRule{model.NewRule("r1", model.RuleEmail, "", "")}
	country := model.NewField("f_country", model.FieldTypeSelect, "Country")
	country.SetOptions([]model.Option{{Value: "ca", Label: "Canada"}})
	return model.Design{
		ID:   id,
		Name: name,
		Widgets: []model.Widget{{
			ID:       "w_contact",
			Type:     model.WidgetTypeForm,
			Title:    "Contact",
			Settings: model.DefaultWidgetSettings(),
			Fields:   []model.Field{email, country},
		}},
	}
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func storeContract(t *testing.T, open func(t *testing.T, opts ...library.Option) library.Store) {
	t.Helper()
	ctx := context.Background()
	clk := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := open(t, library.WithClock(clk.Now))

	if _, err := store.Save(ctx, model.Design{Name: "nameless"}); !errors.Is(err, library.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if _, err := store.Save(ctx, model.Design{ID: "../escape"}); !errors.Is(err, library.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	saved, err := store.Save(ctx, sampleDesign("contact", "Contact form"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !saved.CreatedAt.Equal(clk.now) || !saved.UpdatedAt.Equal(clk.now) {
		t.Fatalf("unexpected timestamps: %v %v", saved.CreatedAt, saved.UpdatedAt)
	}

	loaded, err := store.Load(ctx, "contact")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(shape(saved), shape(loaded)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	field, _, ok := model.FindField(loaded.Widgets, "f_country")
	if !ok {
		t.Fatalf("expected country field")
	}
	if diff := cmp.Diff([]model.Option{{Value: "ca", Label: "Canada"}}, field.Options()); diff != "" {
		t.Fatalf("options lost (-want +got):\n%s", diff)
	}
	email, _, _ := model.FindField(loaded.Widgets, "f_email")
	if !email.Required || !email.HasRule(model.RuleEmail) {
		t.Fatalf("email rules lost: %+v", email)
	}

	created := clk.now
	clk.now = clk.now.Add(time.Hour)
	renamed := loaded
	renamed.Name = "Contact us"
	renamed.CreatedAt = time.Time{}
	updated, err := store.Save(ctx, renamed)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if !updated.CreatedAt.Equal(created) || !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected created kept and updated bumped: %v %v", updated.CreatedAt, updated.UpdatedAt)
	}

	if _, err := store.Save(ctx, sampleDesign("alpha", "Alpha")); err != nil {
		t.Fatalf("save alpha: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, s := range list {
		ids = append(ids, s.ID+"="+s.Name)
	}
	if diff := cmp.Diff([]string{"alpha=Alpha", "contact=Contact us"}, ids); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if list[1].Widgets != 1 {
		t.Fatalf("expected widget count in summary, got %d", list[1].Widgets)
	}

	if err := store.Delete(ctx, "contact"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "contact"); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "contact"); !library.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T, opts ...library.Option) library.Store {
		return library.NewMemoryStore(opts...)
	})
}

func TestBoltStore(t *testing.T) {
	storeContract(t, func(t *testing.T, opts ...library.Option) library.Store {
		store, err := library.OpenBolt(filepath.Join(t.TempDir(), "designs.db"), opts...)
		if err != nil {
			t.Fatalf("open bolt: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestDirStore(t *testing.T) {
	for _, format := range []library.Format{library.FormatJSON, library.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			storeContract(t, func(t *testing.T, opts ...library.Option) library.Store {
				store, err := library.OpenDir(t.TempDir(), append(opts, library.WithFormat(format))...)
				if err != nil {
					t.Fatalf("open dir: %v", err)
				}
				return store
			})
		})
	}
}

func TestDirStore_ReopenReadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	data, err := library.Encode(sampleDesign("", "From disk"), library.FormatYAML)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "survey.yml"), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store, err := library.OpenDir(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	design, err := store.Load(context.Background(), "survey")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if design.Name != "From disk" {
		t.Fatalf("unexpected design: %+v", design)
	}
	list, _ := store.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("expected only the decodable design, got %+v", list)
	}
}

func TestDirStore_WatchPicksUpExternalEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := library.OpenDir(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	changed := make(chan string, 16)
	defer store.OnChange(func(id string) { changed <- id })()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = store.Watch(ctx) }()

	deadline := time.After(5 * time.Second)
	for attempt := 1; ; attempt++ {
		design := sampleDesign("external", "Edited outside")
		design.UpdatedAt = time.Unix(int64(attempt), 0).UTC()
		data, err := library.Encode(design, library.FormatJSON)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "external.json"), data, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case id := <-changed:
			if id != "external" {
				t.Fatalf("unexpected change id %q", id)
			}
			loaded, err := store.Load(context.Background(), "external")
			if err != nil || loaded.Name != "Edited outside" {
				t.Fatalf("load after change: %+v %v", loaded, err)
			}
			return
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatalf("watcher never reported the edit")
		}
	}
}

func TestDecode_SniffsFormat(t *testing.T) {
	jsonDesign, err := library.Decode([]byte(`  {"id":"a","name":"JSON","widgets":[]}`))
	if err != nil || jsonDesign.Name != "JSON" {
		t.Fatalf("json decode: %+v %v", jsonDesign, err)
	}
	yamlDesign, err := library.Decode([]byte("id: b\nname: YAML\nwidgets: []\n"))
	if err != nil || yamlDesign.Name != "YAML" {
		t.Fatalf("yaml decode: %+v %v", yamlDesign, err)
	}
	if _, err := library.Decode([]byte("   ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestEncode_SampleDesignMatchesGolden(t *testing.T) {
	golden := filepath.Join("testdata", "sample_shape.golden.json")
	for _, format := range []library.Format{library.FormatJSON, library.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := library.Encode(testsupport.SampleDesign(), format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			path := filepath.Join(t.TempDir(), "contact"+format.Extension())
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			got := shape(testsupport.MustLoadDesign(t, path))
			testsupport.WriteGolden(t, golden, got)

			var want designShape
			if err := jsoniter.Unmarshal(testsupport.MustReadGolden(t, golden), &want); err != nil {
				t.Fatalf("decode golden: %v", err)
			}
			if diff := testsupport.CompareGolden(want, got); diff != "" {
				t.Fatalf("design shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
