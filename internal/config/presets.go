package config

// Presets are ready-made scenarios keyed by name.
var Presets = map[string]*Config{
	// Idealised linear forcing ramp driving the two-layer energy
	// balance over the 21st century.
	"two_layer_ramp": {
		TimeAxis: TimeAxisConfig{Start: 2000, Stop: 2100, Step: 1},
		Components: []ComponentConfig{
			{
				Kind: "two_layer",
				Parameters: map[string]float64{
					"lambda0":               1.2,
					"a":                     0.01,
					"efficacy":              1.0,
					"eta":                   0.7,
					"heat_capacity_surface": 8.0,
					"heat_capacity_deep":    100.0,
				},
			},
		},
		Exogenous: []ExogenousConfig{
			{
				Name:          "Effective Radiative Forcing",
				Units:         "W / m^2",
				Interpolation: "linear_extrapolate",
				Times:         []float64{2000, 2100},
				Values:        []float64{0.0, 4.0},
			},
		},
		Output: OutputConfig{Plot: "Surface Temperature"},
	},

	// Carbon cycle driven by piecewise-constant emissions and a
	// prescribed warming trajectory, with CO2 concentrations fed into
	// the forcing calculation.
	"coupled_carbon": {
		TimeAxis: TimeAxisConfig{Start: 1850, Stop: 2100, Step: 1},
		Components: []ComponentConfig{
			{
				Kind: "carbon_cycle",
				Parameters: map[string]float64{
					"tau":               20.0,
					"conc_pi":           280.0,
					"alpha_temperature": 0.03,
				},
			},
			{
				Kind: "co2_erf",
				Parameters: map[string]float64{
					"erf_2xco2": 3.7,
					"conc_pi":   280.0,
				},
			},
		},
		Exogenous: []ExogenousConfig{
			{
				Name:          "Emissions|CO2",
				Units:         "GtC / yr",
				Interpolation: "previous_extrapolate",
				Times:         []float64{1850, 1950, 2000, 2100},
				Values:        []float64{1.0, 4.0, 10.0, 10.0},
			},
			{
				Name:          "Surface Temperature",
				Units:         "K",
				Interpolation: "linear_extrapolate",
				Times:         []float64{1850, 2100},
				Values:        []float64{0.0, 2.0},
			},
		},
		InitialValues: map[string]float64{
			"Atmospheric Concentration|CO2": 280.0,
		},
		Output: OutputConfig{Plot: "Atmospheric Concentration|CO2"},
	},
}

// GetPreset returns a named preset, nil when unknown.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
