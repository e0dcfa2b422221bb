package model

import (
	"fmt"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// ModelBuilder accumulates a time axis, components and exogenous data,
// then validates them into a runnable Model.
type ModelBuilder struct {
	axis       *timeseries.TimeAxis
	components []component.Component
	exogenous  []exogenousVariable
	initial    map[string]float64
}

type exogenousVariable struct {
	name   string
	series *timeseries.Timeseries
}

func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{
		axis:    defaultTimeAxis(),
		initial: make(map[string]float64),
	}
}

// The axis used when a builder is not given one: annual steps over the
// 21st century.
func defaultTimeAxis() *timeseries.TimeAxis {
	values := make([]timeseries.Time, 101)
	for i := range values {
		values[i] = 2000 + timeseries.Time(i)
	}
	axis, err := timeseries.TimeAxisFromValues(values)
	if err != nil {
		panic(err)
	}
	return axis
}

func (b *ModelBuilder) WithTimeAxis(axis *timeseries.TimeAxis) *ModelBuilder {
	b.axis = axis
	return b
}

func (b *ModelBuilder) WithComponent(c component.Component) *ModelBuilder {
	b.components = append(b.components, c)
	return b
}

// WithExogenousVariable registers externally supplied driving data. The
// series may live on a different time axis; it is regridded onto the
// model's axis at build time using its interpolation strategy.
func (b *ModelBuilder) WithExogenousVariable(name string, series *timeseries.Timeseries) *ModelBuilder {
	b.exogenous = append(b.exogenous, exogenousVariable{name: name, series: series})
	return b
}

// WithInitialValue sets the value an endogenous variable holds at the
// first time step. Variables without one start at zero.
func (b *ModelBuilder) WithInitialValue(name string, value float64) *ModelBuilder {
	b.initial[name] = value
	return b
}

// Build validates the assembled configuration into a Model: every
// declared requirement must have a producer, the component graph must be
// acyclic, and exogenous data must cover the model's axis.
func (b *ModelBuilder) Build() (*Model, error) {
	exoIndex := make(map[string]int, len(b.exogenous))
	for i, exo := range b.exogenous {
		if _, ok := exoIndex[exo.name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, exo.name)
		}
		exoIndex[exo.name] = i
	}

	resolved, err := resolveGraph(b.components, func(name string) bool {
		_, ok := exoIndex[name]
		return ok
	})
	if err != nil {
		return nil, err
	}

	collection := NewTimeseriesCollection()
	for _, exo := range b.exogenous {
		regridded, err := exo.series.InterpolateOnto(b.axis)
		if err != nil {
			return nil, fmt.Errorf("exogenous variable %q does not cover the model axis: %w", exo.name, err)
		}
		if err := collection.Add(exo.name, regridded, Exogenous); err != nil {
			return nil, err
		}
	}

	endogenous := make(map[string]bool)
	for _, c := range resolved.components {
		for _, def := range c.Definitions() {
			if def.Type != component.RequirementOutput {
				continue
			}
			series := timeseries.NewEmpty(b.axis, def.Unit, timeseries.Linear{Extrapolate: true})
			if err := series.Set(0, b.initial[def.Name]); err != nil {
				return nil, err
			}
			if err := collection.Add(def.Name, series, Endogenous); err != nil {
				return nil, err
			}
			endogenous[def.Name] = true
		}
	}
	for name := range b.initial {
		if !endogenous[name] {
			return nil, fmt.Errorf("initial value for %q does not match any endogenous output", name)
		}
	}

	return &Model{
		axis:       b.axis,
		collection: collection,
		graph:      resolved,
		timeIndex:  0,
	}, nil
}
