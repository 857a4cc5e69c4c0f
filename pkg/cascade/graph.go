package cascade

import (
	"sort"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Graph is the source→dependent relation across all fields of a design.
type Graph struct {
	dependents map[string][]string
	fields     map[string]model.Field
}

// NewGraph indexes cascade edges in widget then field order.
func NewGraph(widgets []model.Widget) *Graph {
	g := &Graph{
		dependents: make(map[string][]string),
		fields:     make(map[string]model.Field),
	}
	for _, widget := range widgets {
		for _, field := range widget.Fields {
			g.fields[field.ID] = field
			if source := field.CascadeSource(); source != "" {
				g.dependents[source] = append(g.dependents[source], field.ID)
			}
		}
	}
	return g
}

// Dependents returns the direct dependents of id.
func (g *Graph) Dependents(id string) []string {
	return append([]string(nil), g.dependents[id]...)
}

// Cycles returns each dependency cycle once, as a list of field ids starting
// at the lexically smallest member.
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var (
		stack  []string
		cycles [][]string
		seen   = make(map[string]struct{})
	)

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		stack = append(stack, id)
		for _, next := range g.dependents[id] {
			switch state[next] {
			case unvisited:
				visit(next)
			case active:
				cycle := extractCycle(stack, next)
				key := cycleKey(cycle)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}

	roots := make([]string, 0, len(g.dependents))
	for id := range g.dependents {
		roots = append(roots, id)
	}
	sort.Strings(roots)
	for _, id := range roots {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return cycles
}

// PropagateTransitive resets every field reachable from changedID, breadth
// first. Each field is reset at most once so cyclic wiring terminates.
func (g *Graph) PropagateTransitive(changedID string) []Reset {
	visited := map[string]struct{}{changedID: {}}
	queue := []string{changedID}
	var out []Reset
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.dependents[current] {
			if _, ok := visited[dep]; ok {
				continue
			}
			visited[dep] = struct{}{}
			out = append(out, Reset{FieldID: dep, Value: ResetValue(g.fields[dep])})
			queue = append(queue, dep)
		}
	}
	return out
}

func extractCycle(stack []string, start string) []string {
	idx := 0
	for i, id := range stack {
		if id == start {
			idx = i
			break
		}
	}
	cycle := append([]string(nil), stack[idx:]...)
	min := 0
	for i, id := range cycle {
		if id < cycle[min] {
			min = i
		}
	}
	return append(cycle[min:], cycle[:min]...)
}

func cycleKey(cycle []string) string {
	key := ""
	for _, id := range cycle {
		key += id + "\x00"
	}
	return key
}
