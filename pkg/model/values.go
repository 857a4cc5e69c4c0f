package model

import (
	"strings"
	"time"
)

// Values is the live value bag of a form-filling session, keyed by field id.
type Values map[string]any

// Clone returns a copy of the bag. Slice values are copied, other values are
// shared.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	out := make(Values, len(v))
	for key, value := range v {
		switch typed := value.(type) {
		case []string:
			out[key] = append([]string{}, typed...)
		case []any:
			out[key] = append([]any{}, typed...)
		default:
			out[key] = value
		}
	}
	return out
}

// String returns the value for id when it is a string.
func (v Values) String(id string) string {
	if s, ok := v[id].(string); ok {
		return s
	}
	return ""
}

// DateTime is the split value of a datetime field.
type DateTime struct {
	Date string `json:"date" yaml:"date"`
	Time string `json:"time" yaml:"time"`
}

// IsZero reports whether both parts are empty.
func (d DateTime) IsZero() bool {
	return d.Date == "" && d.Time == ""
}

// ParseDateTime splits an ISO-8601 timestamp into date and time parts. Inputs
// that are not timestamps fall back to a split on 'T'.
func ParseDateTime(raw string) DateTime {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DateTime{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return DateTime{Date: ts.Format("2006-01-02"), Time: ts.Format("15:04")}
		}
	}
	date, clock, _ := strings.Cut(raw, "T")
	if len(clock) > 5 {
		clock = clock[:5]
	}
	return DateTime{Date: date, Time: clock}
}

// FileRef references an uploaded or captured file.
type FileRef struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// IsEmpty implements the required-rule emptiness check: absent, nil or the
// empty string.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	default:
		return false
	}
}

// IsBlank is the broader check used by the required flag. Empty lists,
// false booleans and empty datetime pairs also count as unset.
func IsBlank(value any) bool {
	if IsEmpty(value) {
		return true
	}
	switch typed := value.(type) {
	case bool:
		return !typed
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case DateTime:
		return typed.IsZero()
	case *DateTime:
		return typed == nil || typed.IsZero()
	case map[string]any:
		return len(typed) == 0 || (IsEmpty(typed["date"]) && IsEmpty(typed["time"]))
	case FileRef:
		return typed.Name == ""
	case *FileRef:
		return typed == nil || typed.Name == ""
	default:
		return false
	}
}

// IsTruthy follows the loose truthiness used by the number rule and length
// rule guards: nil, "", false, 0 and NaN are falsy.
func IsTruthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return typed != ""
	case bool:
		return typed
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case float64:
		return typed != 0 && typed == typed
	case float32:
		return typed != 0 && typed == typed
	default:
		return true
	}
}
