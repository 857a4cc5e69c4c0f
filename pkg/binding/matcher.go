package binding

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Matcher decides whether a property should be scaffolded as a field type.
type Matcher func(prop Property) bool

type rule struct {
	fieldType model.FieldType
	priority  int
	match     Matcher
	order     int
}

// Registry maps model properties onto field types. Higher priority wins; ties
// fall back to registration order. Unmatched properties become text fields.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for t at the given priority.
func (r *Registry) Register(t model.FieldType, priority int, matcher Matcher) {
	if r == nil || matcher == nil || !t.Known() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		fieldType: t,
		priority:  priority,
		match:     matcher,
		order:     len(r.rules),
	})
}

// Resolve returns the field type for prop. An explicit, known hint is
// honoured before matcher evaluation.
func (r *Registry) Resolve(prop Property) model.FieldType {
	if hint := model.FieldType(strings.ToLower(prop.Hint)); hint.Known() {
		return hint
	}
	if r == nil {
		return model.FieldTypeText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(prop) {
			return entry.fieldType
		}
	}
	return model.FieldTypeText
}

func (r *Registry) registerBuiltins() {
	r.Register(model.FieldTypeMulti, 100, func(p Property) bool {
		return p.Type == "array" && len(p.ItemsEnum) > 0
	})
	r.Register(model.FieldTypeSelect, 90, func(p Property) bool {
		return p.Type != "array" && p.Type != "object" && len(p.Enum) > 0
	})
	r.Register(model.FieldTypeToggle, 80, func(p Property) bool {
		return p.Type == "boolean"
	})
	r.Register(model.FieldTypeNumber, 70, func(p Property) bool {
		return p.Type == "integer" || p.Type == "number"
	})
	r.Register(model.FieldTypeEmail, 60, stringFormat("email", "idn-email"))
	r.Register(model.FieldTypePassword, 60, stringFormat("password"))
	r.Register(model.FieldTypeURL, 60, stringFormat("uri", "url", "iri"))
	r.Register(model.FieldTypeDateTime, 60, stringFormat("date-time"))
	r.Register(model.FieldTypeDate, 60, stringFormat("date"))
	r.Register(model.FieldTypeTime, 60, stringFormat("time"))
	r.Register(model.FieldTypeColor, 60, stringFormat("color"))
	r.Register(model.FieldTypeTel, 60, stringFormat("tel", "phone"))
	r.Register(model.FieldTypeFile, 60, stringFormat("binary"))
	r.Register(model.FieldTypeTextarea, 50, func(p Property) bool {
		return p.Type == "string" && p.MaxLength != nil && *p.MaxLength > 255
	})
}

func stringFormat(formats ...string) Matcher {
	return func(p Property) bool {
		if p.Type != "" && p.Type != "string" {
			return false
		}
		for _, f := range formats {
			if p.Format == f {
				return true
			}
		}
		return false
	}
}
