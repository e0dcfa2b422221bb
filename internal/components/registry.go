package components

import (
	"fmt"

	"github.com/lewisjared/two-layer-model/internal/component"
)

// Factory builds a component from a validated parameter mapping.
type Factory func(params map[string]float64) (component.Component, error)

// Registry maps component kinds to their factories. It backs config
// loading and checkpoint restore.
type Registry struct {
	factories map[string]Factory
	kinds     []string
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(kind string, factory Factory) {
	if _, ok := r.factories[kind]; !ok {
		r.kinds = append(r.kinds, kind)
	}
	r.factories[kind] = factory
}

// New builds a component of the given kind.
func (r *Registry) New(kind string, params map[string]float64) (component.Component, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown component kind: %s", kind)
	}
	return factory(params)
}

// Kinds lists registered kinds in registration order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, len(r.kinds))
	copy(kinds, r.kinds)
	return kinds
}

// DefaultRegistry returns a registry with every native component.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("two_layer", func(params map[string]float64) (component.Component, error) {
		b, err := TwoLayerFromParameters(params)
		if err != nil {
			return nil, err
		}
		return b.Build()
	})
	r.Register("carbon_cycle", func(params map[string]float64) (component.Component, error) {
		b, err := CarbonCycleFromParameters(params)
		if err != nil {
			return nil, err
		}
		return b.Build()
	})
	r.Register("co2_erf", func(params map[string]float64) (component.Component, error) {
		b, err := CO2ERFFromParameters(params)
		if err != nil {
			return nil, err
		}
		return b.Build()
	})

	return r
}
