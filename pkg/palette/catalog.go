package palette

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// ErrUnknownEntry is returned when an entry id is not registered.
var ErrUnknownEntry = errors.New("palette: unknown entry")

type registration struct {
	entry    Entry
	priority int
	order    int
}

// Catalog holds palette entries. Listing groups entries by category, then
// sorts by priority (higher first) and registration order.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]registration
	next    int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]registration)}
}

// NewDefaultCatalog returns a catalog with an entry for every field type and
// the layout widgets.
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, entry := range builtinEntries() {
		c.MustRegister(entry, 0)
	}
	return c
}

// Register adds or replaces an entry.
func (c *Catalog) Register(entry Entry, priority int) error {
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.ID == "" {
		return fmt.Errorf("palette: entry id is required")
	}
	if entry.Name == "" {
		return fmt.Errorf("palette: entry %q needs a name", entry.ID)
	}
	if f := entry.DefaultConfig.Field; f != nil && f.Type == "" {
		return fmt.Errorf("palette: entry %q seeds a field without a type", entry.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	order := c.next
	if existing, ok := c.entries[entry.ID]; ok {
		order = existing.order
	} else {
		c.next++
	}
	c.entries[entry.ID] = registration{entry: entry, priority: priority, order: order}
	return nil
}

// MustRegister mirrors Register but panics on error.
func (c *Catalog) MustRegister(entry Entry, priority int) {
	if err := c.Register(entry, priority); err != nil {
		panic(err)
	}
}

// Get returns the entry registered under id.
func (c *Catalog) Get(id string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reg, ok := c.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	return cloneEntry(reg.entry), nil
}

// List returns every entry in palette order.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	regs := make([]registration, 0, len(c.entries))
	for _, reg := range c.entries {
		regs = append(regs, reg)
	}
	c.mu.RUnlock()

	sort.SliceStable(regs, func(i, j int) bool {
		ci, cj := categoryRank(regs[i].entry.Category), categoryRank(regs[j].entry.Category)
		if ci != cj {
			return ci < cj
		}
		if regs[i].priority != regs[j].priority {
			return regs[i].priority > regs[j].priority
		}
		return regs[i].order < regs[j].order
	})
	out := make([]Entry, 0, len(regs))
	for _, reg := range regs {
		out = append(out, cloneEntry(reg.entry))
	}
	return out
}

// Group is a palette category with its entries.
type Group struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

// Groups returns entries grouped by category in palette order.
func (c *Catalog) Groups() []Group {
	var groups []Group
	for _, entry := range c.List() {
		if n := len(groups); n == 0 || groups[n-1].Category != entry.Category {
			groups = append(groups, Group{Category: entry.Category})
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, entry)
	}
	return groups
}

// EntryForType returns the first entry seeding a field of type t.
func (c *Catalog) EntryForType(t model.FieldType) (Entry, bool) {
	for _, entry := range c.List() {
		if f := entry.DefaultConfig.Field; f != nil && f.Type == t {
			return entry, true
		}
	}
	return Entry{}, false
}

func categoryRank(category string) int {
	if rank, ok := categoryOrder[category]; ok {
		return rank
	}
	return len(categoryOrder)
}

func cloneEntry(e Entry) Entry {
	if e.DefaultConfig.Field != nil {
		field := model.CloneField(*e.DefaultConfig.Field)
		e.DefaultConfig.Field = &field
	}
	return e
}
