package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Default messages used when a rule does not carry its own.
const (
	MessageRequired = "This field is required"
	MessageEmail    = "Please enter a valid email address"
	MessageNumber   = "Please enter a valid number"
	MessagePattern  = "Invalid format"
	MessageCustom   = "Invalid value"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const defaultPatternCacheSize = 256

// CustomFunc backs a custom rule. A non-nil error marks the value invalid;
// its text is used when the rule carries no message.
type CustomFunc func(field model.Field, value any, values model.Values) error

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes diagnostics (invalid patterns, unknown custom validators)
// to the supplied logger.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCustomValidator registers a named validator referenced by custom rules.
func WithCustomValidator(name string, fn CustomFunc) Option {
	return func(e *Engine) {
		if name == "" || fn == nil {
			return
		}
		e.custom[name] = fn
	}
}

// WithPatternCacheSize bounds the compiled pattern cache.
func WithPatternCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// Engine evaluates field rules against a value bag. It holds no per-form
// state; the pattern cache is safe for concurrent use.
type Engine struct {
	logger    hclog.Logger
	custom    map[string]CustomFunc
	cacheSize int
	patterns  *lru.Cache[string, compiledPattern]
}

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:    hclog.NewNullLogger(),
		custom:    make(map[string]CustomFunc),
		cacheSize: defaultPatternCacheSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	cache, err := lru.New[string, compiledPattern](e.cacheSize)
	if err != nil {
		cache, _ = lru.New[string, compiledPattern](defaultPatternCacheSize)
	}
	e.patterns = cache
	return e
}

// Validate checks every field of every widget. Errors are ordered by widget,
// then field, then rule.
func (e *Engine) Validate(widgets []model.Widget, values model.Values) []model.ValidationError {
	var out []model.ValidationError
	for _, widget := range widgets {
		for _, field := range widget.Fields {
			out = append(out, e.ValidateField(field, values[field.ID], values)...)
		}
	}
	return out
}

// ValidateField evaluates a single field. The required flag only reports an
// error when no rule has already failed for the field.
func (e *Engine) ValidateField(field model.Field, value any, values model.Values) []model.ValidationError {
	var out []model.ValidationError
	for _, rule := range field.Validations {
		if !rule.Enabled {
			continue
		}
		if msg, failed := e.evaluate(field, rule, value, values); failed {
			out = append(out, model.ValidationError{FieldID: field.ID, Message: msg})
		}
	}
	if field.Required && len(out) == 0 && (model.IsBlank(value) || unrated(field, value)) {
		out = append(out, model.ValidationError{FieldID: field.ID, Message: MessageRequired})
	}
	return out
}

// unrated reports a rating left at zero stars.
func unrated(field model.Field, value any) bool {
	if field.Type != model.FieldTypeRating {
		return false
	}
	n, ok := ToNumber(value)
	return ok && n == 0
}

func (e *Engine) evaluate(field model.Field, rule model.ValidationRule, value any, values model.Values) (string, bool) {
	switch rule.Type {
	case model.RuleRequired:
		if model.IsEmpty(value) || unrated(field, value) {
			return messageOr(rule, MessageRequired), true
		}
	case model.RuleMinLength:
		if str, ok := lengthSubject(value); ok {
			if limit, ok := rule.Threshold(); ok && utf8.RuneCountInString(str) < limit {
				return messageOr(rule, fmt.Sprintf("Minimum length is %d", limit)), true
			}
		}
	case model.RuleMaxLength:
		if str, ok := lengthSubject(value); ok {
			if limit, ok := rule.Threshold(); ok && utf8.RuneCountInString(str) > limit {
				return messageOr(rule, fmt.Sprintf("Maximum length is %d", limit)), true
			}
		}
	case model.RuleEmail:
		if str, ok := value.(string); ok && str != "" && !emailPattern.MatchString(str) {
			return messageOr(rule, MessageEmail), true
		}
	case model.RuleNumber:
		if model.IsTruthy(value) {
			if _, ok := ToNumber(value); !ok {
				return messageOr(rule, MessageNumber), true
			}
		}
	case model.RulePattern:
		str, ok := value.(string)
		if !ok || str == "" {
			return "", false
		}
		re, err := e.compile(rule.Value)
		if err != nil {
			e.logger.Warn("invalid validation pattern", "field", field.ID, "rule", rule.ID, "pattern", rule.Value, "error", err)
			return "", false
		}
		if !re.MatchString(str) {
			return messageOr(rule, MessagePattern), true
		}
	case model.RuleCustom:
		fn, ok := e.custom[rule.Value]
		if !ok {
			e.logger.Warn("unknown custom validator", "field", field.ID, "rule", rule.ID, "validator", rule.Value)
			return "", false
		}
		if err := fn(field, value, values); err != nil {
			if rule.Message != "" {
				return rule.Message, true
			}
			if msg := strings.TrimSpace(err.Error()); msg != "" {
				return msg, true
			}
			return MessageCustom, true
		}
	default:
		e.logger.Debug("skipping unknown rule type", "field", field.ID, "rule", rule.ID, "type", rule.Type)
	}
	return "", false
}

func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := e.patterns.Get(pattern); ok {
		return cached.re, cached.err
	}
	re, err := regexp.Compile(pattern)
	e.patterns.Add(pattern, compiledPattern{re: re, err: err})
	return re, err
}

// lengthSubject returns the string subject of a length rule. Falsy values
// and non-strings are skipped.
func lengthSubject(value any) (string, bool) {
	if !model.IsTruthy(value) {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func messageOr(rule model.ValidationRule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}

// ToNumber converts a value with loose numeric coercion: trimmed numeric
// strings (decimal, exponent, 0x/0o/0b prefixes, Infinity), booleans and
// single-element lists convert; everything else is not a number. The empty
// string converts to zero.
func ToNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case nil:
		return 0, true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), !math.IsNaN(float64(typed))
	case float64:
		return typed, !math.IsNaN(typed)
	case string:
		return parseNumeric(typed)
	case []string:
		switch len(typed) {
		case 0:
			return 0, true
		case 1:
			return parseNumeric(typed[0])
		}
	case []any:
		switch len(typed) {
		case 0:
			return 0, true
		case 1:
			return ToNumber(typed[0])
		}
	}
	return 0, false
}

var errNotNumeric = errors.New("validation: not numeric")

func parseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	switch strings.TrimLeft(s, "+-") {
	case "Infinity":
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	if f, err := parseDecimal(s); err == nil {
		return f, true
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		if n, err := strconv.ParseInt(s, 0, 64); err == nil && !strings.Contains(s, "_") {
			return float64(n), true
		}
	}
	return 0, false
}

func parseDecimal(s string) (float64, error) {
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	// strconv accepts spellings that are not plain decimals.
	if strings.Contains(s, "_") || strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") {
		return 0, errNotNumeric
	}
	return strconv.ParseFloat(s, 64)
}
