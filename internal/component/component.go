// Package component defines the contract every unit of computation in a
// model satisfies: a declaration of the named quantities it reads and
// produces, and a solve operation advancing those quantities across one
// time interval.
package component

import (
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// RequirementType states whether a declared quantity is read or produced
// by a component.
type RequirementType int

const (
	RequirementInput RequirementType = iota
	RequirementOutput
)

func (t RequirementType) String() string {
	if t == RequirementOutput {
		return "output"
	}
	return "input"
}

// RequirementDefinition declares a named quantity a component reads or
// produces. Names may be namespaced with '|' to avoid collisions, e.g.
// "Emissions|CO2" and "Atmospheric Concentration|CO2".
type RequirementDefinition struct {
	Name string
	Unit string
	Type RequirementType
}

func NewRequirement(name, unit string, typ RequirementType) RequirementDefinition {
	return RequirementDefinition{Name: name, Unit: unit, Type: typ}
}

// InputState carries the values for a component's declared inputs at the
// start of a solve interval.
type InputState map[string]float64

// Get returns the value for name, 0 when absent. The engine guarantees
// presence for every declared input; absent names only occur when a
// component is solved standalone with partial state.
func (s InputState) Get(name string) float64 { return s[name] }

// Has reports whether a value for name was supplied.
func (s InputState) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// OutputState carries the values a component produced for its declared
// outputs, valid at the end of the solve interval.
type OutputState map[string]float64

// Component is the polymorphic unit of computation. Implementations must
// be pure functions of their frozen parameters and the supplied input
// state over the half-open interval [tCurrent, tNext); they hold no
// mutable state between calls.
type Component interface {
	// Definitions returns the component's requirements in declaration
	// order.
	Definitions() []RequirementDefinition

	// Solve advances the component across [tCurrent, tNext) and returns a
	// value for every declared output.
	Solve(tCurrent, tNext timeseries.Time, input InputState) (OutputState, error)
}

// Checkpointer is implemented by components that can be reconstructed
// from a checkpoint document.
type Checkpointer interface {
	// Kind is the registry name the component was built under.
	Kind() string
	// Parameters returns the frozen parameters the component was built
	// from.
	Parameters() map[string]float64
}

// InputNames lists the names of c's declared inputs in order.
func InputNames(c Component) []string {
	var names []string
	for _, d := range c.Definitions() {
		if d.Type == RequirementInput {
			names = append(names, d.Name)
		}
	}
	return names
}

// OutputNames lists the names of c's declared outputs in order.
func OutputNames(c Component) []string {
	var names []string
	for _, d := range c.Definitions() {
		if d.Type == RequirementOutput {
			names = append(names, d.Name)
		}
	}
	return names
}
