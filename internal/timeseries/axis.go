package timeseries

import (
	"errors"
	"fmt"
	"sort"
)

// Time values are decimal years (e.g. 2020.5).
type Time = float64

var (
	ErrIndexOverflow = errors.New("index overflow")
	ErrNotMonotonic  = errors.New("time values must be strictly increasing")
)

// Bounds is the half-open interval [Start, End) covered by one time step.
type Bounds struct {
	Start Time
	End   Time
}

// TimeAxis is an immutable set of time points and the interval bounds
// between them. The value at index i marks the start of step i; the axis
// stores N+1 bounds for N values so every step has an explicit end.
type TimeAxis struct {
	bounds []Time
}

// NewTimeAxis builds an axis directly from interval bounds.
func NewTimeAxis(bounds []Time) (*TimeAxis, error) {
	if len(bounds) < 2 {
		return nil, fmt.Errorf("need at least 2 bounds, got %d", len(bounds))
	}
	if !monotonicIncreasing(bounds) {
		return nil, ErrNotMonotonic
	}
	b := make([]Time, len(bounds))
	copy(b, bounds)
	return &TimeAxis{bounds: b}, nil
}

// TimeAxisFromValues builds an axis from step-start values, extrapolating
// the final bound using the last inter-point spacing.
func TimeAxisFromValues(values []Time) (*TimeAxis, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("need at least 2 values, got %d", len(values))
	}
	step := values[len(values)-1] - values[len(values)-2]
	bounds := make([]Time, len(values)+1)
	copy(bounds, values)
	bounds[len(values)] = values[len(values)-1] + step
	if !monotonicIncreasing(bounds) {
		return nil, ErrNotMonotonic
	}
	return &TimeAxis{bounds: bounds}, nil
}

func monotonicIncreasing(values []Time) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

// Values returns a copy of the N step-start values.
func (a *TimeAxis) Values() []Time {
	v := make([]Time, a.Len())
	copy(v, a.bounds[:a.Len()])
	return v
}

// Bounds returns a copy of the N+1 interval edges.
func (a *TimeAxis) Bounds() []Time {
	b := make([]Time, len(a.bounds))
	copy(b, a.bounds)
	return b
}

// Len returns the number of time steps.
func (a *TimeAxis) Len() int { return len(a.bounds) - 1 }

// LenBounds returns the number of bounds, always Len()+1.
func (a *TimeAxis) LenBounds() int { return len(a.bounds) }

// First returns the first time value.
func (a *TimeAxis) First() Time { return a.bounds[0] }

// Last returns the final bound of the axis.
func (a *TimeAxis) Last() Time { return a.bounds[len(a.bounds)-1] }

// At returns the time value for step i.
//
// A negative index is a hard error; an index at or beyond Len() is merely
// absent (ok == false). Callers rely on that distinction: walking off the
// end of the axis is how iteration terminates, while a negative index is
// always a bug.
func (a *TimeAxis) At(i int) (Time, bool, error) {
	if i < 0 {
		return 0, false, fmt.Errorf("%w: index %d is negative", ErrIndexOverflow, i)
	}
	if i >= a.Len() {
		return 0, false, nil
	}
	return a.bounds[i], true, nil
}

// AtBounds returns the interval covered by step i, with the same index
// policy as At.
func (a *TimeAxis) AtBounds(i int) (Bounds, bool, error) {
	if i < 0 {
		return Bounds{}, false, fmt.Errorf("%w: index %d is negative", ErrIndexOverflow, i)
	}
	if i >= a.Len() {
		return Bounds{}, false, nil
	}
	return Bounds{Start: a.bounds[i], End: a.bounds[i+1]}, true, nil
}

// Index returns the position of the step whose start is the latest value
// not after t.
func (a *TimeAxis) Index(t Time) int {
	i := sort.SearchFloat64s(a.bounds[:a.Len()], t)
	if i < a.Len() && a.bounds[i] == t {
		return i
	}
	return i - 1
}

// Contains reports whether t is one of the axis values.
func (a *TimeAxis) Contains(t Time) bool {
	for _, v := range a.bounds[:a.Len()] {
		if v == t {
			return true
		}
	}
	return false
}
