// Package config loads and saves YAML scenario files describing a model
// run: the time axis, the components, and the exogenous driving data.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lewisjared/two-layer-model/internal/model"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

const (
	DefaultStart = 2000.0
	DefaultStop  = 2100.0
	DefaultStep  = 1.0
)

type Config struct {
	TimeAxis      TimeAxisConfig     `yaml:"time_axis"`
	Components    []ComponentConfig  `yaml:"components"`
	Exogenous     []ExogenousConfig  `yaml:"exogenous"`
	InitialValues map[string]float64 `yaml:"initial_values,omitempty"`
	Output        OutputConfig       `yaml:"output,omitempty"`
}

// TimeAxisConfig describes the model axis either as a start/stop/step
// range or as explicit values.
type TimeAxisConfig struct {
	Start  float64   `yaml:"start,omitempty"`
	Stop   float64   `yaml:"stop,omitempty"`
	Step   float64   `yaml:"step,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
}

type ComponentConfig struct {
	Kind       string             `yaml:"kind"`
	Parameters map[string]float64 `yaml:"parameters"`
}

// ExogenousConfig describes externally supplied driving data on its own
// time grid; the builder regrids it onto the model axis.
type ExogenousConfig struct {
	Name          string    `yaml:"name"`
	Units         string    `yaml:"units,omitempty"`
	Interpolation string    `yaml:"interpolation,omitempty"`
	Times         []float64 `yaml:"times"`
	Values        []float64 `yaml:"values"`
}

type OutputConfig struct {
	Plot string `yaml:"plot,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		TimeAxis: TimeAxisConfig{Start: DefaultStart, Stop: DefaultStop, Step: DefaultStep},
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
				Times:         []float64{DefaultStart, DefaultStop},
				Values:        []float64{0.0, 4.0},
			},
		},
		Output: OutputConfig{Plot: "Surface Temperature"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.TimeAxis.Values) == 0 {
		if c.TimeAxis.Step <= 0 {
			return fmt.Errorf("time_axis.step must be positive, got %v", c.TimeAxis.Step)
		}
		if c.TimeAxis.Stop <= c.TimeAxis.Start {
			return fmt.Errorf("time_axis.stop must be after time_axis.start")
		}
	}
	if len(c.Components) == 0 {
		return fmt.Errorf("at least one component is required")
	}
	for i, exo := range c.Exogenous {
		if exo.Name == "" {
			return fmt.Errorf("exogenous[%d].name is required", i)
		}
		if len(exo.Times) != len(exo.Values) {
			return fmt.Errorf("exogenous[%d] (%s): %d times against %d values",
				i, exo.Name, len(exo.Times), len(exo.Values))
		}
	}
	return nil
}

// TimeValues expands the axis description into explicit time points.
func (c *Config) TimeValues() []float64 {
	if len(c.TimeAxis.Values) > 0 {
		return c.TimeAxis.Values
	}
	var values []float64
	for t := c.TimeAxis.Start; t < c.TimeAxis.Stop; t += c.TimeAxis.Step {
		values = append(values, t)
	}
	return values
}

// BuildModel assembles the scenario into a runnable model, constructing
// components through the registry.
func (c *Config) BuildModel(registry model.ComponentRegistry) (*model.Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	axis, err := timeseries.TimeAxisFromValues(c.TimeValues())
	if err != nil {
		return nil, fmt.Errorf("time_axis: %w", err)
	}

	builder := model.NewModelBuilder().WithTimeAxis(axis)

	for i, cc := range c.Components {
		comp, err := registry.New(cc.Kind, cc.Parameters)
		if err != nil {
			return nil, fmt.Errorf("components[%d]: %w", i, err)
		}
		builder.WithComponent(comp)
	}

	for i, exo := range c.Exogenous {
		name := exo.Interpolation
		if name == "" {
			name = "linear_extrapolate"
		}
		strategy, err := timeseries.StrategyFromName(name)
		if err != nil {
			return nil, fmt.Errorf("exogenous[%d]: %w", i, err)
		}
		exoAxis, err := timeseries.TimeAxisFromValues(exo.Times)
		if err != nil {
			return nil, fmt.Errorf("exogenous[%d] (%s): %w", i, exo.Name, err)
		}
		series, err := timeseries.NewTimeseries(exo.Values, exoAxis, exo.Units, strategy)
		if err != nil {
			return nil, fmt.Errorf("exogenous[%d] (%s): %w", i, exo.Name, err)
		}
		builder.WithExogenousVariable(exo.Name, series)
	}

	for name, value := range c.InitialValues {
		builder.WithInitialValue(name, value)
	}

	return builder.Build()
}
