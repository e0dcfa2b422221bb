package components

import (
	"math"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// Conversion between atmospheric CO2 mass and concentration.
const gtcPerPpm = 2.13

// CarbonCycleParameters configure the single-box carbon cycle.
type CarbonCycleParameters struct {
	// Timescale of the box's response
	// unit: yr
	Tau float64
	// Pre-industrial atmospheric CO2 concentration
	// unit: ppm
	ConcPI float64
	// Sensitivity of lifetime to changes in global-mean temperature
	// unit: 1 / K
	AlphaTemperature float64
}

// CarbonCycleComponent is a one-box carbon cycle: anthropogenic
// emissions accumulate in the atmosphere and decay towards the
// pre-industrial concentration with a temperature-dependent lifetime.
//
// dC/dt = E - (C - C_0) / (tau * exp(alpha * T))
//
// The component consumes its own concentration output from the previous
// step, which the model resolver treats as state carry-over rather than
// a dependency cycle.
type CarbonCycleComponent struct {
	parameters CarbonCycleParameters
}

type CarbonCycleBuilder struct {
	parameters CarbonCycleParameters
}

func CarbonCycleFromParameters(params map[string]float64) (*CarbonCycleBuilder, error) {
	err := component.RequireParameters(params, "tau", "conc_pi", "alpha_temperature")
	if err != nil {
		return nil, err
	}
	return &CarbonCycleBuilder{parameters: CarbonCycleParameters{
		Tau:              params["tau"],
		ConcPI:           params["conc_pi"],
		AlphaTemperature: params["alpha_temperature"],
	}}, nil
}

func (b *CarbonCycleBuilder) Build() (*CarbonCycleComponent, error) {
	return &CarbonCycleComponent{parameters: b.parameters}, nil
}

func (c *CarbonCycleComponent) Definitions() []component.RequirementDefinition {
	return []component.RequirementDefinition{
		component.NewRequirement("Emissions|CO2", "GtC / yr", component.RequirementInput),
		component.NewRequirement("Surface Temperature", "K", component.RequirementInput),
		component.NewRequirement("Atmospheric Concentration|CO2", "ppm", component.RequirementInput),
		component.NewRequirement("Atmospheric Concentration|CO2", "ppm", component.RequirementOutput),
		component.NewRequirement("Cumulative Land Uptake", "GtC", component.RequirementOutput),
		component.NewRequirement("Cumulative Emissions|CO2", "GtC", component.RequirementOutput),
	}
}

func (c *CarbonCycleComponent) Solve(tCurrent, tNext timeseries.Time, input component.InputState) (component.OutputState, error) {
	p := c.parameters
	emissions := input.Get("Emissions|CO2")
	temperature := input.Get("Surface Temperature")

	f := func(t timeseries.Time, y, dydt []float64) {
		conc := y[0]

		uptake := 0.0
		lifetime := p.Tau * math.Exp(p.AlphaTemperature*temperature)
		if lifetime > 0 {
			uptake = (conc - p.ConcPI) / lifetime // ppm / yr
		}

		dydt[0] = emissions/gtcPerPpm - uptake
		dydt[1] = uptake * gtcPerPpm
		dydt[2] = emissions
	}

	y0 := []float64{
		input.Get("Atmospheric Concentration|CO2"),
		input.Get("Cumulative Land Uptake"),
		input.Get("Cumulative Emissions|CO2"),
	}
	y := integrateRK4(f, y0, tCurrent, tNext, solverStep)

	return component.OutputState{
		"Atmospheric Concentration|CO2": y[0],
		"Cumulative Land Uptake":        y[1],
		"Cumulative Emissions|CO2":      y[2],
	}, nil
}

func (c *CarbonCycleComponent) Kind() string { return "carbon_cycle" }

func (c *CarbonCycleComponent) Parameters() map[string]float64 {
	return map[string]float64{
		"tau":               c.parameters.Tau,
		"conc_pi":           c.parameters.ConcPI,
		"alpha_temperature": c.parameters.AlphaTemperature,
	}
}
