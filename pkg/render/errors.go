package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// MapErrors groups engine errors by field id, preserving order.
func MapErrors(errs []model.ValidationError) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, err := range errs {
		out[err.FieldID] = append(out[err.FieldID], err.Message)
	}
	return out
}

// ErrorMapping splits an external error payload into field and form level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload maps errors reported by a backend onto field ids. Keys may
// be field ids or bound model property paths, optionally wrapped in JSON
// pointer or request envelope segments ("/body/email", "$.data.email").
// Unknown keys become form-level messages.
func MapErrorPayload(design model.Design, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	keys := make(map[string]string)
	model.EachField(design.Widgets, func(_ *model.Widget, field *model.Field) {
		keys[field.ID] = field.ID
		if prop := strings.TrimSpace(field.ModelProperty); prop != "" {
			if _, taken := keys[prop]; !taken {
				keys[prop] = field.ID
			}
		}
	})

	for raw, messages := range payload {
		msgs := normalizeMessages(messages)
		if len(msgs) == 0 {
			continue
		}
		if id := resolveErrorKey(raw, keys); id != "" {
			mapping.Fields[id] = append(mapping.Fields[id], msgs...)
			continue
		}
		mapping.Form = append(mapping.Form, msgs...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming and removing
// duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return normalizeMessages(append(append([]string{}, existing...), extras...))
}

func resolveErrorKey(raw string, keys map[string]string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "_form" || trimmed == "non_field_errors" {
		return ""
	}
	if id, ok := keys[trimmed]; ok {
		return id
	}
	segments := dropWrappers(pathSegments(trimmed))
	for end := len(segments); end > 0; end-- {
		if id, ok := keys[strings.Join(segments[:end], ".")]; ok {
			return id
		}
	}
	if n := len(segments); n > 0 {
		if id, ok := keys[segments[n-1]]; ok {
			return id
		}
	}
	return ""
}

func pathSegments(path string) []string {
	clean := strings.TrimLeft(path, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

var wrapperSegments = map[string]bool{
	"body": true, "request": true, "payload": true, "data": true, "attributes": true, "values": true,
}

func dropWrappers(segments []string) []string {
	for len(segments) > 0 && wrapperSegments[strings.ToLower(segments[0])] {
		segments = segments[1:]
	}
	return segments
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
