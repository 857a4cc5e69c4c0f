package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/search"
	"github.com/goliatone/go-formdesigner/pkg/testsupport"
	"github.com/goliatone/go-formdesigner/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func contactScript() *stubDriver {
	return &stubDriver{
		inputs:    []string{"", "Ada", "not-an-email", "ada@example.com"},
		selectIdx: []int{1, 0, 3},
	}
}

func TestRender_FillsDesignWithRepromptsAndCascade(t *testing.T) {
	driver := contactScript()
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), testsupport.SampleDesign(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"field_name":    "Ada",
		"field_email":   "ada@example.com",
		"field_country": "ca",
		"field_city":    "yvr",
		"field_rating":  float64(4),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"== Contact details",
		"! " + validation.MessageRequired,
		"! " + validation.MessageEmail,
		"== Feedback",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}

	// The city prompt only offers options mapped to the chosen country.
	if diff := cmp.Diff([]string{"Vancouver"}, driver.selects[1].Options); diff != "" {
		t.Fatalf("city options mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	cases := []struct {
		name        string
		format      OutputFormat
		contentType string
		want        string
	}{
		{
			name:        "form",
			format:      OutputFormatFormURLEncoded,
			contentType: "application/x-www-form-urlencoded",
			want:        "field_city=yvr&field_country=ca&field_email=ada%40example.com&field_name=Ada&field_rating=4",
		},
		{
			name:        "pretty",
			format:      OutputFormatPrettyText,
			contentType: "text/plain; charset=utf-8",
			want:        "Name: Ada\nEmail: ada@example.com\nCountry: Canada\nCity: Vancouver\nExperience: 4/5\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(WithPromptDriver(contactScript()), WithOutputFormat(tc.format))
			if err != nil {
				t.Fatalf("new renderer: %v", err)
			}
			if r.ContentType() != tc.contentType {
				t.Fatalf("content type = %q", r.ContentType())
			}
			out, err := r.Render(context.Background(), testsupport.SampleDesign(), render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if diff := cmp.Diff(tc.want, string(out)); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_ShowsExistingErrorsAndTransformsValues(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ada"}}
	design := testsupport.SampleDesign()
	design.Widgets = design.Widgets[:1]
	design.Widgets[0].Fields = design.Widgets[0].Fields[:1]

	r, err := New(
		WithPromptDriver(driver),
		WithTheme(Theme{ErrorPrefix: "error: "}),
		WithSubmitTransformer(func(values model.Values) (model.Values, error) {
			values["source"] = "cli"
			return values, nil
		}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), design, render.RenderOptions{
		Errors: map[string][]string{"field_name": {"Name already taken"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"Contact details", "error: Name already taken"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(`{"field_name":"Ada","source":"cli"}`, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SearchableUsesProvider(t *testing.T) {
	field := model.NewField("field_lang", model.FieldTypeSearchable, "Language")
	design := model.Design{
		ID:      "langs",
		Widgets: []model.Widget{{ID: "w", Type: model.WidgetTypeForm, Fields: []model.Field{field}}},
	}
	driver := &stubDriver{inputs: []string{"go"}, selectIdx: []int{0}}
	var queried []string
	r, err := New(
		WithPromptDriver(driver),
		WithSearch(func(model.Field) search.Func {
			return func(_ context.Context, query string) ([]model.Option, error) {
				queried = append(queried, query)
				return []model.Option{{Value: "go", Label: "Go"}}, nil
			}
		}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), design, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"go"}, queried); diff != "" {
		t.Fatalf("queries mismatch (-want +got):\n%s", diff)
	}
	if string(out) != `{"field_lang":"go"}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), testsupport.SampleDesign(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to surface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, testsupport.SampleDesign(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
