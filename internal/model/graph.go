package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lewisjared/two-layer-model/internal/component"
)

var (
	// ErrUnresolvedDependency marks a declared requirement with no
	// producer: neither a component output nor a registered exogenous
	// variable.
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrGraphCycle marks a dependency cycle between component outputs.
	ErrGraphCycle = errors.New("dependency graph contains a cycle")
)

// edge links a producing component to a consuming one, indexed by
// position in the resolved execution order.
type edge struct {
	from  int
	to    int
	label string
}

// exoEdge links a registered exogenous variable to a consumer.
type exoEdge struct {
	name string
	to   int
}

// resolvedGraph is the outcome of dependency resolution: components in
// execution order plus the edges that justify it.
type resolvedGraph struct {
	components []component.Component
	names      []string
	edges      []edge
	exoEdges   []exoEdge
}

func componentKind(c component.Component) string {
	if ck, ok := c.(component.Checkpointer); ok {
		return ck.Kind()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", c), "*")
}

// resolveGraph wires component requirements to their producers and
// orders components topologically. exogenous reports whether a name is
// satisfied by externally supplied data.
//
// A component consuming its own output is state carry-over from the
// previous step, not a cycle, and contributes no edge.
func resolveGraph(components []component.Component, exogenous func(name string) bool) (*resolvedGraph, error) {
	n := len(components)

	// Producer arena: requirement name -> producing component index.
	producers := make(map[string]int)
	for i, c := range components {
		for _, name := range component.OutputNames(c) {
			if j, ok := producers[name]; ok {
				return nil, fmt.Errorf("multiple definitions of %q (%s and %s)",
					name, componentKind(components[j]), componentKind(c))
			}
			if exogenous(name) {
				return nil, fmt.Errorf("%q is produced by %s but also registered as an exogenous variable",
					name, componentKind(c))
			}
			producers[name] = i
		}
	}

	type rawEdge struct {
		from, to int
		label    string
	}
	var rawEdges []rawEdge
	var rawExo []exoEdge
	adjacency := make([][]int, n)
	indegree := make([]int, n)

	for i, c := range components {
		for _, name := range component.InputNames(c) {
			if j, ok := producers[name]; ok {
				if j != i {
					rawEdges = append(rawEdges, rawEdge{from: j, to: i, label: name})
					adjacency[j] = append(adjacency[j], i)
					indegree[i]++
				}
				continue
			}
			if exogenous(name) {
				rawExo = append(rawExo, exoEdge{name: name, to: i})
				continue
			}
			return nil, fmt.Errorf("%w: %q required by %s has no producer",
				ErrUnresolvedDependency, name, componentKind(c))
		}
	}

	// Kahn's algorithm, always taking the lowest registration index so
	// execution order is deterministic.
	order := make([]int, 0, n)
	done := make([]bool, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i := 0; i < n; i++ {
				if !done[i] {
					stuck = append(stuck, componentKind(components[i]))
				}
			}
			return nil, fmt.Errorf("%w: involving %s", ErrGraphCycle, strings.Join(stuck, ", "))
		}
		done[next] = true
		order = append(order, next)
		for _, to := range adjacency[next] {
			indegree[to]--
		}
	}

	position := make([]int, n)
	for pos, i := range order {
		position[i] = pos
	}

	resolved := &resolvedGraph{
		components: make([]component.Component, n),
		names:      make([]string, n),
	}
	kindCount := make(map[string]int)
	for _, c := range components {
		kindCount[componentKind(c)]++
	}
	for pos, i := range order {
		resolved.components[pos] = components[i]
		kind := componentKind(components[i])
		if kindCount[kind] > 1 {
			kind = fmt.Sprintf("%s#%d", kind, i)
		}
		resolved.names[pos] = kind
	}
	for _, e := range rawEdges {
		resolved.edges = append(resolved.edges, edge{
			from:  position[e.from],
			to:    position[e.to],
			label: e.label,
		})
	}
	for _, e := range rawExo {
		resolved.exoEdges = append(resolved.exoEdges, exoEdge{name: e.name, to: position[e.to]})
	}
	return resolved, nil
}
