package model

import (
	"fmt"
	"strings"
)

// AsDot renders the resolved dependency graph in Graphviz DOT form:
// components as boxes, exogenous variables as dashed ellipses, and
// requirement names as edge labels. Diagnostic output only; execution
// does not consult it.
func (m *Model) AsDot() string {
	var b strings.Builder
	b.WriteString("digraph model {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	for _, name := range m.graph.names {
		fmt.Fprintf(&b, "  %q;\n", name)
	}

	seen := make(map[string]bool)
	for _, e := range m.graph.exoEdges {
		if !seen[e.name] {
			fmt.Fprintf(&b, "  %q [shape=ellipse, style=dashed];\n", e.name)
			seen[e.name] = true
		}
	}

	for _, e := range m.graph.edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", m.graph.names[e.from], m.graph.names[e.to], e.label)
	}
	for _, e := range m.graph.exoEdges {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.name, m.graph.names[e.to])
	}

	b.WriteString("}\n")
	return b.String()
}
