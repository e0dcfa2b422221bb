// Package viz renders model state for the terminal: a styled summary of
// the collection, asciigraph plots, and a live stepping view.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/lewisjared/two-layer-model/internal/model"
)

// Summary renders one line per collection entry: name, variable type,
// units and the value at the model's cursor.
func Summary(m *model.Model) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("model state at t=%.1f", m.CurrentTime())))
	b.WriteString("\n")

	nameWidth := 0
	for _, item := range m.Collection().Items() {
		if len(item.Name) > nameWidth {
			nameWidth = len(item.Name)
		}
	}

	for _, item := range m.Collection().Items() {
		typeStyle := EndogenousStyle
		if item.Type == model.Exogenous {
			typeStyle = ExogenousStyle
		}

		value, ok, _ := item.Series.ValueAt(m.TimeIndex())
		rendered := SubtleStyle.Render("undefined")
		if ok && !math.IsNaN(value) {
			rendered = ValueStyle.Render(fmt.Sprintf("%.4g", value))
		}

		fmt.Fprintf(&b, "%s  %s  %s %s\n",
			LabelStyle.Render(fmt.Sprintf("%-*s", nameWidth, item.Name)),
			typeStyle.Render(fmt.Sprintf("%-10s", item.Type.String())),
			rendered,
			SubtleStyle.Render(item.Series.Units()),
		)
	}
	return b.String()
}

// Plot renders the defined prefix of a named series as an ASCII graph.
func Plot(m *model.Model, name string, height int) (string, error) {
	series, ok := m.Collection().GetTimeseries(name)
	if !ok {
		return "", fmt.Errorf("unknown variable %q", name)
	}

	values := series.Values()
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			break
		}
		defined = append(defined, v)
	}
	if len(defined) < 2 {
		return "", fmt.Errorf("variable %q has no defined values to plot", name)
	}

	graph := asciigraph.Plot(defined,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("%s [%s]", name, series.Units())),
	)
	return graph, nil
}
