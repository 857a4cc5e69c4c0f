package binding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrModelNotFound is returned when a catalog has no model with the id.
	ErrModelNotFound = errors.New("binding: model not found")
	// ErrEmptyDocument is returned when Parse receives no bytes.
	ErrEmptyDocument = errors.New("binding: empty document")
)

// Property is a single bindable key of a model.
type Property struct {
	Key         string
	Type        string
	Format      string
	Title       string
	Description string
	Required    bool
	ReadOnly    bool
	Default     any
	Enum        []string
	ItemsType   string
	ItemsEnum   []string
	Minimum     *float64
	Maximum     *float64
	MinLength   *int
	MaxLength   *int
	Pattern     string
	// Hint is an explicit field type from the x-formdesigner-type extension.
	Hint string
}

// HintExtension names the schema extension that pins a property's field type.
const HintExtension = "x-formdesigner-type"

// Model is a named object schema exposed for binding.
type Model struct {
	ID          string
	Title       string
	Description string
	Properties  []Property
}

// Property returns the property with the given key.
func (m Model) Property(key string) (Property, bool) {
	for _, prop := range m.Properties {
		if prop.Key == key {
			return prop, true
		}
	}
	return Property{}, false
}

// Keys lists property keys in property order.
func (m Model) Keys() []string {
	keys := make([]string, 0, len(m.Properties))
	for _, prop := range m.Properties {
		keys = append(keys, prop.Key)
	}
	return keys
}

// Catalog holds the models parsed from one OpenAPI document.
type Catalog struct {
	models map[string]Model
}

// NewCatalog builds a catalog from already assembled models.
func NewCatalog(models ...Model) *Catalog {
	c := &Catalog{models: make(map[string]Model, len(models))}
	for _, m := range models {
		c.models[m.ID] = m
	}
	return c
}

// Models returns every model sorted by id.
func (c *Catalog) Models() []Model {
	if c == nil {
		return nil
	}
	out := make([]Model, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Model returns the model with the given id.
func (c *Catalog) Model(id string) (Model, error) {
	if c != nil {
		if m, ok := c.models[id]; ok {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
}

// Properties lists the bindable keys of a model.
func (c *Catalog) Properties(_ context.Context, modelID string) ([]string, error) {
	m, err := c.Model(modelID)
	if err != nil {
		return nil, err
	}
	return m.Keys(), nil
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	validate      bool
	externalRefs  bool
	requestBodies bool
}

// WithValidation runs the OpenAPI validator before extracting models.
func WithValidation(enabled bool) ParseOption {
	return func(c *parseConfig) {
		c.validate = enabled
	}
}

// WithExternalRefs lets the OpenAPI loader follow external references.
func WithExternalRefs(enabled bool) ParseOption {
	return func(c *parseConfig) {
		c.externalRefs = enabled
	}
}

// WithRequestBodies also exposes inline JSON request bodies, keyed by
// operation id.
func WithRequestBodies(enabled bool) ParseOption {
	return func(c *parseConfig) {
		c.requestBodies = enabled
	}
}

// Parse reads an OpenAPI 3 document and extracts its object schemas.
func Parse(ctx context.Context, raw []byte, opts ...ParseOption) (*Catalog, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}
	cfg := parseConfig{requestBodies: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: cfg.externalRefs}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("binding: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("binding: validate document: %w", err)
		}
	}

	catalog := NewCatalog()
	if spec.Components != nil {
		for name, ref := range spec.Components.Schemas {
			if ref == nil || ref.Value == nil || !isObject(ref.Value) {
				continue
			}
			catalog.models[name] = convertModel(name, ref.Value)
		}
	}

	if cfg.requestBodies && spec.Paths != nil {
		for _, item := range spec.Paths.Map() {
			for _, operation := range item.Operations() {
				id, schema := inlineRequestBody(operation)
				if schema == nil {
					continue
				}
				if _, exists := catalog.models[id]; exists {
					continue
				}
				catalog.models[id] = convertModel(id, schema)
			}
		}
	}
	return catalog, nil
}

func inlineRequestBody(operation *openapi3.Operation) (string, *openapi3.Schema) {
	if operation == nil || operation.OperationID == "" || operation.RequestBody == nil {
		return "", nil
	}
	body := operation.RequestBody.Value
	if body == nil {
		return "", nil
	}
	media := body.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return "", nil
	}
	// Bodies that reference a component schema are already in the catalog.
	if media.Schema.Ref != "" || !isObject(media.Schema.Value) {
		return "", nil
	}
	return operation.OperationID, media.Schema.Value
}

func convertModel(id string, schema *openapi3.Schema) Model {
	m := Model{
		ID:          id,
		Title:       schema.Title,
		Description: schema.Description,
	}
	required := make(map[string]struct{}, len(schema.Required))
	for _, key := range schema.Required {
		required[key] = struct{}{}
	}

	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		ref := schema.Properties[key]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[key]
		m.Properties = append(m.Properties, convertProperty(key, ref.Value, isRequired))
	}
	return m
}

func convertProperty(key string, schema *openapi3.Schema, required bool) Property {
	prop := Property{
		Key:         key,
		Type:        firstSchemaType(schema),
		Format:      strings.ToLower(schema.Format),
		Title:       schema.Title,
		Description: schema.Description,
		Required:    required,
		ReadOnly:    schema.ReadOnly,
		Default:     schema.Default,
		Enum:        enumStrings(schema.Enum),
		Pattern:     schema.Pattern,
		Minimum:     cloneFloat(schema.Min),
		Maximum:     cloneFloat(schema.Max),
	}
	if hint, ok := schema.Extensions[HintExtension].(string); ok {
		prop.Hint = strings.TrimSpace(hint)
	}
	if schema.MinLength > 0 {
		v := int(schema.MinLength)
		prop.MinLength = &v
	}
	if schema.MaxLength != nil {
		v := int(*schema.MaxLength)
		prop.MaxLength = &v
	}
	if schema.Items != nil && schema.Items.Value != nil {
		prop.ItemsType = firstSchemaType(schema.Items.Value)
		prop.ItemsEnum = enumStrings(schema.Items.Value.Enum)
	}
	return prop
}

func isObject(schema *openapi3.Schema) bool {
	if t := firstSchemaType(schema); t != "" {
		return t == "object"
	}
	return len(schema.Properties) > 0
}

func firstSchemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	for _, t := range schema.Type.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
