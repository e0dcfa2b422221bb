package model

import (
	"errors"
	"fmt"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// ErrRunComplete is returned by Step once the cursor has reached the
// final index of the time axis.
var ErrRunComplete = errors.New("model run complete")

// Model is the resolved, ordered, runnable instantiation of a component
// graph over a time axis. It exclusively owns its collection; all writes
// happen through Step.
type Model struct {
	axis       *timeseries.TimeAxis
	collection *TimeseriesCollection
	graph      *resolvedGraph
	timeIndex  int
}

func (m *Model) TimeAxis() *timeseries.TimeAxis { return m.axis }

// Collection exposes the model's state store. Callers must treat it as
// read-only; series accessors hand out copies.
func (m *Model) Collection() *TimeseriesCollection { return m.collection }

// TimeIndex returns the cursor: the latest time step for which all
// state is defined.
func (m *Model) TimeIndex() int { return m.timeIndex }

// CurrentTime returns the time value at the cursor.
func (m *Model) CurrentTime() timeseries.Time {
	t, _, _ := m.axis.At(m.timeIndex)
	return t
}

// Finished reports whether the cursor has reached the final index.
func (m *Model) Finished() bool { return m.timeIndex >= m.axis.Len()-1 }

// Components returns the components in execution order.
func (m *Model) Components() []component.Component {
	cs := make([]component.Component, len(m.graph.components))
	copy(cs, m.graph.components)
	return cs
}

// Step advances the model by one time step. Each component, in
// dependency order, reads its declared inputs at the current index and
// its outputs are written at the next index. Outputs are staged and
// committed only after every component succeeds, so a failed step leaves
// the cursor and the collection unchanged.
func (m *Model) Step() error {
	i := m.timeIndex
	if i >= m.axis.Len()-1 {
		return ErrRunComplete
	}
	tCurrent, _, _ := m.axis.At(i)
	tNext, _, _ := m.axis.At(i + 1)

	type write struct {
		name  string
		value float64
	}
	var writes []write

	for pos, c := range m.graph.components {
		input := component.InputState{}
		for _, name := range component.InputNames(c) {
			item, ok := m.collection.Get(name)
			if !ok {
				return fmt.Errorf("%w: %q is not in the collection", ErrUnresolvedDependency, name)
			}
			var value float64
			if item.Type == Exogenous {
				v, err := item.Series.At(tCurrent)
				if err != nil {
					return fmt.Errorf("reading %q at t=%v: %w", name, tCurrent, err)
				}
				value = v
			} else {
				v, _, err := item.Series.ValueAt(i)
				if err != nil {
					return err
				}
				value = v
			}
			input[name] = value
		}

		output, err := c.Solve(tCurrent, tNext, input)
		if err != nil {
			if errors.Is(err, component.ErrComponentSolve) {
				return err
			}
			return fmt.Errorf("%w: %s: %w", component.ErrComponentSolve, m.graph.names[pos], err)
		}

		for _, name := range component.OutputNames(c) {
			value, ok := output[name]
			if !ok {
				return fmt.Errorf("%w: %s omitted declared output %q",
					component.ErrComponentSolve, m.graph.names[pos], name)
			}
			writes = append(writes, write{name: name, value: value})
		}
	}

	for _, w := range writes {
		series, ok := m.collection.GetTimeseries(w.name)
		if !ok {
			return fmt.Errorf("%w: %q is not in the collection", ErrUnresolvedDependency, w.name)
		}
		if err := series.Set(i+1, w.value); err != nil {
			return err
		}
	}
	m.timeIndex = i + 1
	return nil
}

// Run steps the model until the cursor reaches the final index of the
// time axis.
func (m *Model) Run() error {
	for !m.Finished() {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
