package timeseries

import (
	"errors"
	"fmt"
	"math"
)

var ErrShapeMismatch = errors.New("shape mismatch")

// Timeseries is a value sample aligned to a TimeAxis, tagged with units
// and an interpolation strategy.
//
// The axis is shared read-only between series; values are owned by the
// series and every accessor hands out copies.
type Timeseries struct {
	values   []float64
	axis     *TimeAxis
	units    string
	strategy Strategy

	// Index of the most recent non-NaN value, -1 when the series is
	// entirely undefined.
	latest int
}

// NewTimeseries binds values to an axis. The lengths must agree.
func NewTimeseries(values []float64, axis *TimeAxis, units string, strategy Strategy) (*Timeseries, error) {
	if len(values) != axis.Len() {
		return nil, fmt.Errorf("%w: %d values against a %d-point axis",
			ErrShapeMismatch, len(values), axis.Len())
	}
	v := make([]float64, len(values))
	copy(v, values)

	latest := -1
	for i, x := range v {
		if math.IsNaN(x) {
			break
		}
		latest = i
	}
	return &Timeseries{values: v, axis: axis, units: units, strategy: strategy, latest: latest}, nil
}

// TimeseriesFromValues builds a series over its own axis derived from
// times, defaulting to linear interpolation with extrapolation.
func TimeseriesFromValues(values []float64, times []Time) (*Timeseries, error) {
	axis, err := TimeAxisFromValues(times)
	if err != nil {
		return nil, err
	}
	return NewTimeseries(values, axis, "", Linear{Extrapolate: true})
}

// NewEmpty creates an entirely undefined (NaN-filled) series over axis.
func NewEmpty(axis *TimeAxis, units string, strategy Strategy) *Timeseries {
	values := make([]float64, axis.Len())
	for i := range values {
		values[i] = math.NaN()
	}
	return &Timeseries{values: values, axis: axis, units: units, strategy: strategy, latest: -1}
}

// Values returns an owned copy of the sample values.
func (ts *Timeseries) Values() []float64 {
	v := make([]float64, len(ts.values))
	copy(v, ts.values)
	return v
}

func (ts *Timeseries) Len() int            { return len(ts.values) }
func (ts *Timeseries) Units() string       { return ts.units }
func (ts *Timeseries) TimeAxis() *TimeAxis { return ts.axis }
func (ts *Timeseries) Strategy() Strategy  { return ts.strategy }

// WithStrategy replaces the interpolation strategy.
func (ts *Timeseries) WithStrategy(strategy Strategy) *Timeseries {
	ts.strategy = strategy
	return ts
}

// ValueAt returns the sample at time index i without interpolating.
func (ts *Timeseries) ValueAt(i int) (float64, bool, error) {
	if i < 0 {
		return 0, false, fmt.Errorf("%w: index %d is negative", ErrIndexOverflow, i)
	}
	if i >= len(ts.values) {
		return 0, false, nil
	}
	return ts.values[i], true, nil
}

// Set stores a value at time index i.
func (ts *Timeseries) Set(i int, value float64) error {
	if i < 0 || i >= len(ts.values) {
		return fmt.Errorf("%w: index %d out of range for %d values",
			ErrIndexOverflow, i, len(ts.values))
	}
	ts.values[i] = value
	if !math.IsNaN(value) && i > ts.latest {
		ts.latest = i
	}
	return nil
}

// Latest returns the index of the most recent defined value, -1 if none.
// It does not verify that all prior values are defined.
func (ts *Timeseries) Latest() int { return ts.latest }

// LatestValue returns the most recent defined value.
func (ts *Timeseries) LatestValue() (float64, bool) {
	if ts.latest < 0 {
		return 0, false
	}
	return ts.values[ts.latest], true
}

// At interpolates the series at an arbitrary time using its strategy.
func (ts *Timeseries) At(t Time) (float64, error) {
	return NewInterpolator(ts.axis.bounds[:ts.axis.Len()], ts.values, ts.strategy).Interpolate(t)
}

// InterpolateOnto regrids the series onto another axis, evaluating the
// strategy at each of the target axis values. The result keeps the units
// and strategy of the source.
func (ts *Timeseries) InterpolateOnto(axis *TimeAxis) (*Timeseries, error) {
	values := make([]float64, axis.Len())
	for i, t := range axis.bounds[:axis.Len()] {
		v, err := ts.At(t)
		if err != nil {
			return nil, fmt.Errorf("regridding at t=%v: %w", t, err)
		}
		values[i] = v
	}
	return NewTimeseries(values, axis, ts.units, ts.strategy)
}
