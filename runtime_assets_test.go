package formdesigner

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
	"github.com/goliatone/go-formdesigner/pkg/testsupport"
)

func TestRuntimeAssetsFSContainsRuntimeBundle(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), html.RuntimeScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "data-fd-socket") {
		t.Fatalf("expected runtime to read the socket attribute")
	}
	if _, err := fs.ReadFile(RuntimeAssetsFS(), html.StylesheetName); err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
}

func TestEmbeddedTemplatesIncludeForm(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}

func TestRenderHTMLAndValidate(t *testing.T) {
	design := testsupport.SampleDesign()
	out, err := RenderHTML(context.Background(), design, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "Contact details") {
		t.Fatalf("expected widget title in output")
	}

	errs, err := Validate(context.Background(), design, Values{"field_name": "Ada"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}
