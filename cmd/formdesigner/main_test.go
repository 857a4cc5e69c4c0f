package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/internal/config"
	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/testsupport"
)

const petsDoc = `openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        species:
          type: string
          enum: [cat, dog]
        vaccinated:
          type: boolean
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeDesign(t *testing.T, design model.Design) string {
	t.Helper()
	data, err := library.Encode(design, library.FormatJSON)
	if err != nil {
		t.Fatalf("encode design: %v", err)
	}
	return writeFile(t, design.ID+".json", data)
}

func TestPaletteCommand(t *testing.T) {
	out, err := run(t, "palette")
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	for _, want := range []string{"text", "searchable", "divider"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	designPath := writeDesign(t, testsupport.SampleDesign())

	out, err := run(t, "validate", designPath)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "design ok") {
		t.Fatalf("expected clean design, got:\n%s", out)
	}

	valuesPath := writeFile(t, "values.yaml", []byte("field_email: nope\n"))
	out, err = run(t, "validate", designPath, "--values", valuesPath)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	for _, want := range []string{"field_name: This field is required", "field_email: Please enter a valid email address"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestValidateCommandReportsLintErrors(t *testing.T) {
	design := testsupport.SampleDesign()
	design.Widgets[0].Fields[1].ID = "field_name"
	out, err := run(t, "validate", writeDesign(t, design))
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected lint failure, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "error: field_name:") {
		t.Fatalf("expected duplicate id issue, got:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	designPath := writeDesign(t, testsupport.SampleDesign())
	output := filepath.Join(t.TempDir(), "contact.html")

	if out, err := run(t, "render", designPath, "--mode", "readonly", "-o", output); err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	html, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(html), `data-fd-design="contact"`) {
		t.Fatalf("unexpected html:\n%s", html)
	}
}

func TestScaffoldCommand(t *testing.T) {
	docPath := writeFile(t, "pets.yaml", []byte(petsDoc))

	out, err := run(t, "scaffold", docPath, "--list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Pet") || !strings.Contains(out, "name, species, vaccinated") {
		t.Fatalf("unexpected model listing:\n%s", out)
	}

	out, err = run(t, "scaffold", docPath, "--model", "Pet", "--format", "yaml")
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	design, err := library.Decode([]byte(out))
	if err != nil {
		t.Fatalf("decode scaffold output: %v\n%s", err, out)
	}
	if design.ID != "pet" || len(design.Widgets) != 1 {
		t.Fatalf("unexpected design %+v", design)
	}
	var types []model.FieldType
	for _, field := range design.Widgets[0].Fields {
		types = append(types, field.Type)
	}
	want := []model.FieldType{model.FieldTypeText, model.FieldTypeSelect, model.FieldTypeToggle}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("field types mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, "scaffold", docPath); err == nil {
		t.Fatal("expected error without --model")
	}
}

func TestMergeServeFlags(t *testing.T) {
	g := &globals{}
	cmd := newServeCmd(g)
	if err := cmd.Flags().Parse([]string{"--listen", ":9999", "--store", "bolt", "--store-path", "d.db", "--search-debounce", "50ms"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	var flags config.Config
	flags.Listen = ":9999"
	flags.Store.Driver = "bolt"
	flags.Store.Path = "d.db"
	flags.Search.Debounce = 50 * time.Millisecond

	cfg := config.Default()
	cfg.Theme.Name = "glass"
	mergeServeFlags(cmd, &cfg, flags, g)

	want := config.Default()
	want.Listen = ":9999"
	want.Store.Driver = "bolt"
	want.Store.Path = "d.db"
	want.Search.Debounce = 50 * time.Millisecond
	want.Theme.Name = "glass"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}
