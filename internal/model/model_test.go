package model

import (
	"errors"
	"math"
	"testing"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

func shortAxis(t *testing.T) *timeseries.TimeAxis {
	t.Helper()
	axis, err := timeseries.TimeAxisFromValues([]timeseries.Time{2000, 2001, 2002, 2003})
	if err != nil {
		t.Fatalf("axis build failed: %v", err)
	}
	return axis
}

func rampForcing(t *testing.T) *timeseries.Timeseries {
	t.Helper()
	ts, err := timeseries.TimeseriesFromValues([]float64{0, 3}, []timeseries.Time{2000, 2003})
	if err != nil {
		t.Fatalf("series build failed: %v", err)
	}
	return ts
}

// accumulator adds its forcing input to its own previous output.
func accumulator() *stub {
	return &stub{
		kind: "accumulator",
		defs: []component.RequirementDefinition{in("Forcing"), in("Total"), out("Total")},
		fn: func(input component.InputState) (component.OutputState, error) {
			return component.OutputState{"Total": input.Get("Total") + input.Get("Forcing")}, nil
		},
	}
}

func TestStepAdvancesCursor(t *testing.T) {
	m, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if m.TimeIndex() != 0 {
		t.Errorf("expected cursor 0 after build, got %d", m.TimeIndex())
	}
	if m.CurrentTime() != 2000 {
		t.Errorf("expected t=2000, got %v", m.CurrentTime())
	}

	if err := m.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if m.TimeIndex() != 1 {
		t.Errorf("expected cursor 1, got %d", m.TimeIndex())
	}
	if m.CurrentTime() != 2001 {
		t.Errorf("expected t=2001, got %v", m.CurrentTime())
	}
}

func TestStepReadsCurrentWritesNext(t *testing.T) {
	m, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if err := m.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	series, _ := m.Collection().GetTimeseries("Total")
	values := series.Values()

	// Total starts at 0; the first step adds the forcing at t=2000.
	if values[0] != 0 {
		t.Errorf("initial value changed: %v", values[0])
	}
	if values[1] != 0 {
		t.Errorf("expected 0 at index 1 (forcing was 0 at 2000), got %v", values[1])
	}
	if !math.IsNaN(values[2]) {
		t.Errorf("expected index 2 to stay undefined, got %v", values[2])
	}

	// The second step reads the forcing ramp at t=2001.
	if err := m.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	values = series.Values()
	if math.Abs(values[2]-1) > 1e-12 {
		t.Errorf("expected 1 at index 2, got %v", values[2])
	}
}

func TestRunToCompletion(t *testing.T) {
	m, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		WithInitialValue("Total", 10).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if err := m.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !m.Finished() {
		t.Error("expected model to be finished")
	}
	if m.TimeIndex() != 3 {
		t.Errorf("expected cursor at final index 3, got %d", m.TimeIndex())
	}

	// 10 + 0 + 1 + 2 accumulated over the three steps.
	series, _ := m.Collection().GetTimeseries("Total")
	values := series.Values()
	want := []float64{10, 10, 11, 13}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-12 {
			t.Errorf("at index %d: got %v, want %v", i, values[i], want[i])
		}
	}

	if err := m.Step(); !errors.Is(err, ErrRunComplete) {
		t.Errorf("expected ErrRunComplete past the end, got %v", err)
	}
}

func TestStepFailureLeavesStateUntouched(t *testing.T) {
	boom := errors.New("boom")
	failing := &stub{
		kind: "failing",
		defs: []component.RequirementDefinition{out("Other")},
		fn: func(input component.InputState) (component.OutputState, error) {
			return nil, boom
		},
	}

	m, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithComponent(failing).
		WithExogenousVariable("Forcing", rampForcing(t)).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	err = m.Step()
	if !errors.Is(err, component.ErrComponentSolve) {
		t.Fatalf("expected ErrComponentSolve, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("underlying error lost: %v", err)
	}

	// The accumulator succeeded but its write must not have landed.
	if m.TimeIndex() != 0 {
		t.Errorf("failed step moved the cursor to %d", m.TimeIndex())
	}
	series, _ := m.Collection().GetTimeseries("Total")
	if v := series.Values()[1]; !math.IsNaN(v) {
		t.Errorf("failed step committed a staged write: %v", v)
	}
}

func TestStepRejectsMissingOutput(t *testing.T) {
	silent := &stub{
		kind: "silent",
		defs: []component.RequirementDefinition{out("Promised")},
		fn: func(input component.InputState) (component.OutputState, error) {
			return component.OutputState{}, nil
		},
	}

	m, err := NewModelBuilder().WithTimeAxis(shortAxis(t)).WithComponent(silent).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	err = m.Step()
	if !errors.Is(err, component.ErrComponentSolve) {
		t.Fatalf("expected ErrComponentSolve, got %v", err)
	}
}

func TestBuilderInitialValues(t *testing.T) {
	m, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		WithInitialValue("Total", 5).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	series, _ := m.Collection().GetTimeseries("Total")
	values := series.Values()
	if values[0] != 5 {
		t.Errorf("expected initial value 5, got %v", values[0])
	}
	for i := 1; i < len(values); i++ {
		if !math.IsNaN(values[i]) {
			t.Errorf("expected undefined value at index %d, got %v", i, values[i])
		}
	}
}

func TestBuilderRejectsUnknownInitialValue(t *testing.T) {
	_, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		WithInitialValue("Unknown", 1).
		Build()
	if err == nil {
		t.Error("expected error for initial value without matching output, got nil")
	}
}

func TestBuilderRejectsDuplicateExogenous(t *testing.T) {
	_, err := NewModelBuilder().
		WithTimeAxis(shortAxis(t)).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		WithExogenousVariable("Forcing", rampForcing(t)).
		Build()
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestBuilderRegridsExogenous(t *testing.T) {
	// Decadal forcing data on an annual model axis.
	coarse, err := timeseries.TimeseriesFromValues([]float64{0, 10}, []timeseries.Time{2000, 2010})
	if err != nil {
		t.Fatalf("series build failed: %v", err)
	}

	values := make([]timeseries.Time, 11)
	for i := range values {
		values[i] = 2000 + timeseries.Time(i)
	}
	axis, err := timeseries.TimeAxisFromValues(values)
	if err != nil {
		t.Fatalf("axis build failed: %v", err)
	}

	m, err := NewModelBuilder().
		WithTimeAxis(axis).
		WithComponent(accumulator()).
		WithExogenousVariable("Forcing", coarse).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	series, _ := m.Collection().GetTimeseries("Forcing")
	if series.Len() != 11 {
		t.Fatalf("expected regridded series of 11 samples, got %d", series.Len())
	}
	if got := series.Values()[5]; math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5 at 2005, got %v", got)
	}
}

func TestDefaultTimeAxis(t *testing.T) {
	m, err := NewModelBuilder().WithComponent(accumulator()).
		WithExogenousVariable("Forcing", rampForcing(t)).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	axis := m.TimeAxis()
	if axis.Len() != 101 {
		t.Errorf("expected 101 annual steps, got %d", axis.Len())
	}
	if axis.First() != 2000 {
		t.Errorf("expected start 2000, got %v", axis.First())
	}
}
