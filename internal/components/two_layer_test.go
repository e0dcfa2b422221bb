package components

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/lewisjared/two-layer-model/internal/component"
)

func twoLayerParams() map[string]float64 {
	return map[string]float64{
		"lambda0":               1.2,
		"a":                     0.01,
		"efficacy":              1.0,
		"eta":                   0.7,
		"heat_capacity_surface": 8.0,
		"heat_capacity_deep":    100.0,
	}
}

func TestTwoLayerFromParameters(t *testing.T) {
	if _, err := TwoLayerFromParameters(nil); !errors.Is(err, component.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch for nil parameters, got %v", err)
	}

	params := twoLayerParams()
	delete(params, "lambda0")
	delete(params, "eta")
	_, err := TwoLayerFromParameters(params)
	if !errors.Is(err, component.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	for _, name := range []string{"`lambda0`", "`eta`"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err.Error(), name)
		}
	}

	if _, err := TwoLayerFromParameters(twoLayerParams()); err != nil {
		t.Errorf("expected success with complete parameters, got %v", err)
	}
}

func TestTwoLayerBuildRejectsNegativeCapacity(t *testing.T) {
	params := twoLayerParams()
	params["heat_capacity_surface"] = -1

	b, err := TwoLayerFromParameters(params)
	if err != nil {
		t.Fatalf("parameter validation failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Error("expected error for negative heat capacity, got nil")
	}
}

func TestTwoLayerSolveWarms(t *testing.T) {
	b, err := TwoLayerFromParameters(twoLayerParams())
	if err != nil {
		t.Fatalf("parameter validation failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out, err := c.Solve(2000, 2001, component.InputState{
		"Effective Radiative Forcing": 4.0,
		"Surface Temperature":         0.0,
		"Deep Ocean Temperature":      0.0,
		"Ocean Heat Content":          0.0,
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if out["Surface Temperature"] <= 0 {
		t.Errorf("expected positive forcing to warm the surface, got %v", out["Surface Temperature"])
	}
	if out["Ocean Heat Content"] <= 0 {
		t.Errorf("expected positive forcing to add heat, got %v", out["Ocean Heat Content"])
	}
	if out["Deep Ocean Temperature"] < 0 {
		t.Errorf("deep ocean cooled under positive forcing: %v", out["Deep Ocean Temperature"])
	}
	if out["Surface Temperature"] <= out["Deep Ocean Temperature"] {
		t.Errorf("deep ocean warmed faster than the surface: %v vs %v",
			out["Deep Ocean Temperature"], out["Surface Temperature"])
	}
}

func TestTwoLayerSolveZeroParameters(t *testing.T) {
	params := map[string]float64{
		"lambda0": 0, "a": 0, "efficacy": 0, "eta": 0,
		"heat_capacity_surface": 0, "heat_capacity_deep": 0,
	}
	b, err := TwoLayerFromParameters(params)
	if err != nil {
		t.Fatalf("parameter validation failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out, err := c.Solve(2000, 2010, component.InputState{
		"Effective Radiative Forcing": 12.0,
		"Surface Temperature":         0.0,
		"Deep Ocean Temperature":      0.0,
		"Ocean Heat Content":          0.0,
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	for _, name := range component.OutputNames(c) {
		v, ok := out[name]
		if !ok {
			t.Errorf("missing declared output %q", name)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("output %q is not finite: %v", name, v)
		}
	}
}

func TestTwoLayerEquilibrium(t *testing.T) {
	b, err := TwoLayerFromParameters(twoLayerParams())
	if err != nil {
		t.Fatalf("parameter validation failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// No forcing and both layers at rest: nothing moves.
	out, err := c.Solve(2000, 2001, component.InputState{
		"Effective Radiative Forcing": 0.0,
		"Surface Temperature":         0.0,
		"Deep Ocean Temperature":      0.0,
		"Ocean Heat Content":          0.0,
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	for name, v := range out {
		if math.Abs(v) > 1e-12 {
			t.Errorf("%s drifted from equilibrium: %v", name, v)
		}
	}
}
