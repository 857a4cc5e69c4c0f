package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ID prefixes for generated identifiers.
const (
	PrefixWidget = "widget"
	PrefixField  = "field"
	PrefixRule   = "rule"
	PrefixOption = "opt"
)

// IDGenerator produces unique identifiers for new entities.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator yields prefix_<uuid v4>.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "_" + uuid.NewString()
}

// SequenceGenerator yields prefix_1, prefix_2, ... per prefix. It is safe for
// concurrent use and produces stable ids for tests and fixtures.
type SequenceGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewSequenceGenerator returns an empty sequence generator.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{counters: make(map[string]int)}
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counters == nil {
		g.counters = make(map[string]int)
	}
	g.counters[prefix]++
	return fmt.Sprintf("%s_%d", prefix, g.counters[prefix])
}

// Reidentify assigns fresh ids to the widget, its fields and their rules while
// preserving all other content. Cascade references between fields of the same
// widget are rewritten to the new ids; references leaving the widget are kept.
func Reidentify(w *Widget, ids IDGenerator) {
	if w == nil || ids == nil {
		return
	}
	w.ID = ids.NewID(PrefixWidget)
	renamed := make(map[string]string, len(w.Fields))
	for i := range w.Fields {
		next := ids.NewID(PrefixField)
		renamed[w.Fields[i].ID] = next
		w.Fields[i].ID = next
		for r := range w.Fields[i].Validations {
			w.Fields[i].Validations[r].ID = ids.NewID(PrefixRule)
		}
	}
	for i := range w.Fields {
		cascade := w.Fields[i].Cascade()
		if cascade == nil {
			continue
		}
		if next, ok := renamed[cascade.Source]; ok {
			cascade.Source = next
		}
		if next, ok := renamed[cascade.Target]; ok {
			cascade.Target = next
		}
	}
}
