package components

import (
	"math"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// CO2ERFParameters configure the CO2 forcing component.
type CO2ERFParameters struct {
	// ERF due to a doubling of atmospheric CO2 concentrations
	// unit: W / m^2
	ERF2xCO2 float64
	// Pre-industrial atmospheric CO2 concentration
	// unit: ppm
	ConcPI float64
}

// CO2ERFComponent computes the effective radiative forcing from the
// atmospheric CO2 concentration using the standard logarithmic
// relationship.
type CO2ERFComponent struct {
	parameters CO2ERFParameters
}

type CO2ERFBuilder struct {
	parameters CO2ERFParameters
}

func CO2ERFFromParameters(params map[string]float64) (*CO2ERFBuilder, error) {
	err := component.RequireParameters(params, "erf_2xco2", "conc_pi")
	if err != nil {
		return nil, err
	}
	return &CO2ERFBuilder{parameters: CO2ERFParameters{
		ERF2xCO2: params["erf_2xco2"],
		ConcPI:   params["conc_pi"],
	}}, nil
}

func (b *CO2ERFBuilder) Build() (*CO2ERFComponent, error) {
	return &CO2ERFComponent{parameters: b.parameters}, nil
}

func (c *CO2ERFComponent) Definitions() []component.RequirementDefinition {
	return []component.RequirementDefinition{
		component.NewRequirement("Atmospheric Concentration|CO2", "ppm", component.RequirementInput),
		component.NewRequirement("Effective Radiative Forcing|CO2", "W / m^2", component.RequirementOutput),
	}
}

func (c *CO2ERFComponent) Solve(tCurrent, tNext timeseries.Time, input component.InputState) (component.OutputState, error) {
	p := c.parameters
	conc := input.Get("Atmospheric Concentration|CO2")

	// The logarithmic form is undefined at or below zero concentration;
	// forcing is zero there.
	erf := 0.0
	if conc > 0 && p.ConcPI > 0 {
		erf = p.ERF2xCO2 / math.Log10(2) * math.Log10(conc/p.ConcPI)
	}

	return component.OutputState{
		"Effective Radiative Forcing|CO2": erf,
	}, nil
}

func (c *CO2ERFComponent) Kind() string { return "co2_erf" }

func (c *CO2ERFComponent) Parameters() map[string]float64 {
	return map[string]float64{
		"erf_2xco2": c.parameters.ERF2xCO2,
		"conc_pi":   c.parameters.ConcPI,
	}
}
