package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleType names a validation rule kind.
type RuleType string

const (
	RuleRequired  RuleType = "required"
	RuleMinLength RuleType = "minLength"
	RuleMaxLength RuleType = "maxLength"
	RulePattern   RuleType = "pattern"
	RuleEmail     RuleType = "email"
	RuleNumber    RuleType = "number"
	RuleCustom    RuleType = "custom"
)

// RuleTypes lists the supported rule kinds in editor order.
func RuleTypes() []RuleType {
	return []RuleType{RuleRequired, RuleMinLength, RuleMaxLength, RulePattern, RuleEmail, RuleNumber, RuleCustom}
}

// Known reports whether r is a supported rule kind.
func (r RuleType) Known() bool {
	for _, candidate := range RuleTypes() {
		if candidate == r {
			return true
		}
	}
	return false
}

// TakesValue reports whether rules of this kind need a threshold or pattern.
func (r RuleType) TakesValue() bool {
	switch r {
	case RuleMinLength, RuleMaxLength, RulePattern, RuleCustom:
		return true
	default:
		return false
	}
}

// ValidationRule is one independently toggleable constraint. Value holds the
// threshold (minLength/maxLength), the expression (pattern) or the validator
// name (custom).
type ValidationRule struct {
	ID      string
	Type    RuleType
	Value   string
	Message string
	Enabled bool
}

// NewRule returns an enabled rule.
func NewRule(id string, kind RuleType, value, message string) ValidationRule {
	return ValidationRule{ID: id, Type: kind, Value: value, Message: message, Enabled: true}
}

// Threshold parses Value as an integer length threshold.
func (r ValidationRule) Threshold() (int, bool) {
	raw := strings.TrimSpace(r.Value)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

type ruleWire struct {
	ID      string          `json:"id"`
	Type    RuleType        `json:"type"`
	Value   json.RawMessage `json:"value,omitempty"`
	Message string          `json:"message,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
}

type ruleYAML struct {
	ID      string   `yaml:"id"`
	Type    RuleType `yaml:"type"`
	Value   any      `yaml:"value,omitempty"`
	Message string   `yaml:"message,omitempty"`
	Enabled *bool    `yaml:"enabled,omitempty"`
}

// MarshalJSON always writes the enabled flag so disabled rules round-trip.
func (r ValidationRule) MarshalJSON() ([]byte, error) {
	enabled := r.Enabled
	w := ruleWire{ID: r.ID, Type: r.Type, Message: r.Message, Enabled: &enabled}
	if r.Value != "" {
		raw, err := json.Marshal(r.Value)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts string or numeric values. A missing enabled flag
// means the rule is active.
func (r *ValidationRule) UnmarshalJSON(data []byte) error {
	var w ruleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("model: decode validation rule: %w", err)
	}
	value, err := decodeRuleValue(w.Value)
	if err != nil {
		return err
	}
	*r = ValidationRule{
		ID:      w.ID,
		Type:    w.Type,
		Value:   value,
		Message: w.Message,
		Enabled: w.Enabled == nil || *w.Enabled,
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (r ValidationRule) MarshalYAML() (any, error) {
	enabled := r.Enabled
	w := ruleYAML{ID: r.ID, Type: r.Type, Message: r.Message, Enabled: &enabled}
	if r.Value != "" {
		w.Value = r.Value
	}
	return w, nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (r *ValidationRule) UnmarshalYAML(node *yaml.Node) error {
	var w ruleYAML
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("model: decode validation rule: %w", err)
	}
	value := ""
	if w.Value != nil {
		value = fmt.Sprint(w.Value)
	}
	*r = ValidationRule{
		ID:      w.ID,
		Type:    w.Type,
		Value:   value,
		Message: w.Message,
		Enabled: w.Enabled == nil || *w.Enabled,
	}
	return nil
}

func decodeRuleValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("model: decode rule value: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("model: rule value must be a string or number: %w", err)
	}
	return n.String(), nil
}
