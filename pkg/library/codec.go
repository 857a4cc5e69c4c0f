package library

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format names a design encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension for f.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Encode serialises a design.
func Encode(design model.Design, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(design)
	case FormatJSON, "":
		return json.MarshalIndent(design, "", "  ")
	default:
		return nil, fmt.Errorf("library: unsupported format %q", format)
	}
}

// Decode parses a design, sniffing JSON versus YAML from the first
// non-blank byte.
func Decode(data []byte) (model.Design, error) {
	var design model.Design
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return design, fmt.Errorf("library: empty document")
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &design); err != nil {
			return design, fmt.Errorf("library: decode json: %w", err)
		}
		return design, nil
	}
	if err := yaml.Unmarshal(trimmed, &design); err != nil {
		return design, fmt.Errorf("library: decode yaml: %w", err)
	}
	return design, nil
}
