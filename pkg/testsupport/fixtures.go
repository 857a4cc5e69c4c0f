package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MustLoadDesign loads a JSON or YAML design fixture.
func MustLoadDesign(t *testing.T, path string) model.Design {
	t.Helper()
	design, err := LoadDesign(path)
	if err != nil {
		t.Fatalf("load design: %v", err)
	}
	return design
}

// LoadDesign reads a design fixture; the format follows the file extension.
func LoadDesign(path string) (model.Design, error) {
	if path == "" {
		return model.Design{}, errors.New("testsupport: design path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Design{}, fmt.Errorf("testsupport: read design: %w", err)
	}
	var design model.Design
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &design)
	default:
		err = json.Unmarshal(data, &design)
	}
	if err != nil {
		return model.Design{}, fmt.Errorf("testsupport: decode design: %w", err)
	}
	design.Normalize()
	return design, nil
}

// SampleDesign is a small contact form exercising required fields, a
// cascade pair and a rating.
func SampleDesign() model.Design {
	name := model.NewField("field_name", model.FieldTypeText, "Name")
	name.Required = true
	name.Placeholder = "Your name"

	email := model.NewField("field_email", model.FieldTypeEmail, "Email")
	email.Validations = []model.ValidationRule{
		model.NewRule("rule_email", model.RuleEmail, "", ""),
	}
	email.HelpText = "We never share it."
	email.Width = model.WidthHalf

	country := model.NewField("field_country", model.FieldTypeSelect, "Country")
	country.Width = model.WidthHalf
	country.SetOptions([]model.Option{{Value: "us", Label: "United States"}, {Value: "ca", Label: "Canada"}})
	country.EnsureCascade().Target = "field_city"

	city := model.NewField("field_city", model.FieldTypeSelect, "City")
	city.EnsureCascade().Source = "field_country"
	city.EnsureCascade().Mapping = map[string][]model.Option{
		"us": {{Value: "nyc", Label: "New York"}, {Value: "sf", Label: "San Francisco"}},
		"ca": {{Value: "yvr", Label: "Vancouver"}},
	}

	rating := model.NewField("field_rating", model.FieldTypeRating, "Experience")

	design := model.Design{
		ID:          "contact",
		Name:        "Contact",
		Description: "Reach out",
		Settings:    model.DesignSettings{SubmitLabel: "Send"},
		Widgets: []model.Widget{
			{
				ID:       "widget_contact",
				Type:     model.WidgetTypeForm,
				Title:    "Contact details",
				Settings: model.WidgetSettings{Columns: 2, Spacing: 16, ShowBorder: true},
				Fields:   []model.Field{name, email, country, city},
			},
			{ID: "widget_divider", Type: model.WidgetTypeDivider},
			{
				ID:       "widget_feedback",
				Type:     model.WidgetTypeForm,
				Title:    "Feedback",
				Settings: model.DefaultWidgetSettings(),
				Fields:   []model.Field{rating},
			},
		},
	}
	design.Normalize()
	return design
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set and
// reports whether it did.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
