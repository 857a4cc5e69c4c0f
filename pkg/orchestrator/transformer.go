package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Transformer mutates a resolved design before linting and rendering.
// Implementations can relabel fields, retitle widgets or apply arbitrary
// rewrites.
type Transformer interface {
	Transform(ctx context.Context, design *model.Design) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, design *model.Design) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, design *model.Design) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, design)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, design *model.Design) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, design); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are addressed by id or by bound model property:
//
//	{
//	  "settings": {"submitLabel": "Send", "showSummary": true},
//	  "widgets": {"widget_1": {"title": "About you"}},
//	  "fields": {
//	    "email": {"label": "Work email", "helpText": "We never share it", "width": "half"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Settings *jsonSettingsPatch         `json:"settings"`
	Widgets  map[string]jsonWidgetPatch `json:"widgets"`
	Fields   map[string]jsonFieldPatch  `json:"fields"`
}

type jsonSettingsPatch struct {
	SubmitLabel string `json:"submitLabel"`
	ShowSummary *bool  `json:"showSummary"`
	Theme       string `json:"theme"`
	Variant     string `json:"variant"`
}

type jsonWidgetPatch struct {
	Title   string `json:"title"`
	Columns int    `json:"columns"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	HelpText    string `json:"helpText"`
	Width       string `json:"width"`
	Required    *bool  `json:"required"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied design.
func (t *JSONPresetTransformer) Transform(ctx context.Context, design *model.Design) error {
	if design == nil {
		return errors.New("json preset transformer: design is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s := t.document.Settings; s != nil {
		if s.SubmitLabel != "" {
			design.Settings.SubmitLabel = s.SubmitLabel
		}
		if s.ShowSummary != nil {
			design.Settings.ShowSummary = *s.ShowSummary
		}
		if s.Theme != "" {
			design.Settings.Theme = s.Theme
		}
		if s.Variant != "" {
			design.Settings.Variant = s.Variant
		}
	}

	for id, patch := range t.document.Widgets {
		idx := design.WidgetIndex(id)
		if idx < 0 {
			return fmt.Errorf("json preset transformer: widget %q not found", id)
		}
		wp := model.WidgetPatch{}
		if patch.Title != "" {
			wp.Title = &patch.Title
		}
		if patch.Columns > 0 {
			wp.Columns = &patch.Columns
		}
		if err := model.ApplyWidgetPatch(&design.Widgets[idx], wp); err != nil {
			return fmt.Errorf("json preset transformer: widget %q: %w", id, err)
		}
	}

	for key, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findField(design.Widgets, key)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", key)
		}
		if err := applyFieldPatch(field, patch); err != nil {
			return fmt.Errorf("json preset transformer: field %q: %w", key, err)
		}
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch jsonFieldPatch) error {
	fp := model.FieldPatch{Required: patch.Required}
	if patch.Label != "" {
		fp.Label = &patch.Label
	}
	if patch.Description != "" {
		fp.Description = &patch.Description
	}
	if patch.Placeholder != "" {
		fp.Placeholder = &patch.Placeholder
	}
	if patch.HelpText != "" {
		fp.HelpText = &patch.HelpText
	}
	if patch.Width != "" {
		width := model.Width(patch.Width)
		fp.Width = &width
	}
	return model.ApplyFieldPatch(field, fp)
}

// findField matches a field id first, then a bound model property.
func findField(widgets []model.Widget, key string) *model.Field {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if field, _, ok := model.FindField(widgets, key); ok {
		return field
	}
	var match *model.Field
	model.EachField(widgets, func(_ *model.Widget, field *model.Field) {
		if match == nil && field.ModelProperty == key {
			match = field
		}
	})
	return match
}
