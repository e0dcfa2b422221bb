// Package components provides the native physical components shipped
// with the engine, together with a registry of their builders.
package components

import (
	"fmt"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// Internal RK4 step used when solving component ODEs, in years.
const solverStep = 0.1

// TwoLayerParameters configure the two-layer energy-balance component.
type TwoLayerParameters struct {
	// Equilibrium climate feedback
	// unit: W / m^2 / K
	Lambda0 float64
	// State dependence of the feedback
	// unit: W / m^2 / K^2
	A float64
	// Deep ocean heat uptake efficacy
	// unit: dimensionless
	Efficacy float64
	// Heat exchange coefficient between the layers
	// unit: W / m^2 / K
	Eta float64
	// unit: W yr / m^2 / K
	HeatCapacitySurface float64
	// unit: W yr / m^2 / K
	HeatCapacityDeep float64
}

// TwoLayerComponent solves a two-layer energy-balance model: a surface
// mixed layer exchanging heat with a deep ocean layer, driven by an
// effective radiative forcing.
type TwoLayerComponent struct {
	parameters TwoLayerParameters
}

// TwoLayerBuilder finalises validated parameters into a component.
type TwoLayerBuilder struct {
	parameters TwoLayerParameters
}

// TwoLayerFromParameters validates the required parameters for the
// two-layer component.
func TwoLayerFromParameters(params map[string]float64) (*TwoLayerBuilder, error) {
	err := component.RequireParameters(params,
		"lambda0", "a", "efficacy", "eta", "heat_capacity_surface", "heat_capacity_deep")
	if err != nil {
		return nil, err
	}
	return &TwoLayerBuilder{parameters: TwoLayerParameters{
		Lambda0:             params["lambda0"],
		A:                   params["a"],
		Efficacy:            params["efficacy"],
		Eta:                 params["eta"],
		HeatCapacitySurface: params["heat_capacity_surface"],
		HeatCapacityDeep:    params["heat_capacity_deep"],
	}}, nil
}

func (b *TwoLayerBuilder) Build() (*TwoLayerComponent, error) {
	if b.parameters.HeatCapacitySurface < 0 || b.parameters.HeatCapacityDeep < 0 {
		return nil, fmt.Errorf("heat capacities must be non-negative")
	}
	return &TwoLayerComponent{parameters: b.parameters}, nil
}

func (c *TwoLayerComponent) Definitions() []component.RequirementDefinition {
	return []component.RequirementDefinition{
		component.NewRequirement("Effective Radiative Forcing", "W / m^2", component.RequirementInput),
		component.NewRequirement("Surface Temperature", "K", component.RequirementInput),
		component.NewRequirement("Deep Ocean Temperature", "K", component.RequirementInput),
		component.NewRequirement("Ocean Heat Content", "W yr / m^2", component.RequirementInput),
		component.NewRequirement("Surface Temperature", "K", component.RequirementOutput),
		component.NewRequirement("Deep Ocean Temperature", "K", component.RequirementOutput),
		component.NewRequirement("Ocean Heat Content", "W yr / m^2", component.RequirementOutput),
	}
}

func (c *TwoLayerComponent) Solve(tCurrent, tNext timeseries.Time, input component.InputState) (component.OutputState, error) {
	p := c.parameters
	erf := input.Get("Effective Radiative Forcing")

	// A layer with zero heat capacity holds no heat and is not stepped.
	invSurface := 0.0
	if p.HeatCapacitySurface > 0 {
		invSurface = 1 / p.HeatCapacitySurface
	}
	invDeep := 0.0
	if p.HeatCapacityDeep > 0 {
		invDeep = 1 / p.HeatCapacityDeep
	}

	f := func(t timeseries.Time, y, dydt []float64) {
		surface := y[0]
		deep := y[1]
		diff := surface - deep

		lambdaEff := p.Lambda0 - p.A*surface
		dSurface := (erf - lambdaEff*surface - p.Efficacy*p.Eta*diff) * invSurface
		dDeep := p.Eta * diff * invDeep

		dydt[0] = dSurface
		dydt[1] = dDeep
		dydt[2] = p.HeatCapacitySurface*dSurface + p.HeatCapacityDeep*dDeep
	}

	y0 := []float64{
		input.Get("Surface Temperature"),
		input.Get("Deep Ocean Temperature"),
		input.Get("Ocean Heat Content"),
	}
	y := integrateRK4(f, y0, tCurrent, tNext, solverStep)

	return component.OutputState{
		"Surface Temperature":    y[0],
		"Deep Ocean Temperature": y[1],
		"Ocean Heat Content":     y[2],
	}, nil
}

func (c *TwoLayerComponent) Kind() string { return "two_layer" }

func (c *TwoLayerComponent) Parameters() map[string]float64 {
	return map[string]float64{
		"lambda0":               c.parameters.Lambda0,
		"a":                     c.parameters.A,
		"efficacy":              c.parameters.Efficacy,
		"eta":                   c.parameters.Eta,
		"heat_capacity_surface": c.parameters.HeatCapacitySurface,
		"heat_capacity_deep":    c.parameters.HeatCapacityDeep,
	}
}
