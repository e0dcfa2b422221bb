package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrExtrapolation = errors.New("extrapolation is not allowed")

// Strategy converts a sampled series into values at arbitrary times.
//
// A simple climate model regularly needs to move data between time grids
// of different resolution, e.g. aligning decadal emissions data with an
// annual model axis. The strategy encodes the assumption about what the
// series does between (and beyond) its samples.
type Strategy interface {
	// Interpolate derives the value at target from equal-length times and
	// values arrays.
	Interpolate(times []Time, values []float64, target Time) (float64, error)
	// Name identifies the strategy in checkpoints and config files.
	Name() string
}

// Previous holds the sample at or before the target time.
//
// y = values[i] for times[i] <= t < times[i+1]. values[len-1] is only
// used for forward extrapolation.
type Previous struct {
	Extrapolate bool
}

// Next holds the sample at or after the target time.
//
// y = values[i+1] for times[i] < t <= times[i+1]. values[0] is only used
// for backward extrapolation.
type Next struct {
	Extrapolate bool
}

// Linear interpolates linearly between samples and, when allowed,
// extrapolates using the slope of the closest segment.
type Linear struct {
	Extrapolate bool
}

func (s Previous) Name() string { return strategyName("previous", s.Extrapolate) }
func (s Next) Name() string     { return strategyName("next", s.Extrapolate) }
func (s Linear) Name() string   { return strategyName("linear", s.Extrapolate) }

func strategyName(kind string, extrapolate bool) string {
	if extrapolate {
		return kind + "_extrapolate"
	}
	return kind
}

// StrategyFromName is the inverse of Strategy.Name.
func StrategyFromName(name string) (Strategy, error) {
	switch name {
	case "previous":
		return Previous{}, nil
	case "previous_extrapolate":
		return Previous{Extrapolate: true}, nil
	case "next":
		return Next{}, nil
	case "next_extrapolate":
		return Next{Extrapolate: true}, nil
	case "linear":
		return Linear{}, nil
	case "linear_extrapolate":
		return Linear{Extrapolate: true}, nil
	default:
		return nil, fmt.Errorf("unknown interpolation strategy %q", name)
	}
}

type segment int

const (
	inSegment segment = iota
	onBoundary
	extrapolateBackward
	extrapolateForward
)

// findSegment locates target within times. The returned index is the end
// of the enclosing segment: for in-segment hits, times[idx-1] < target <
// times[idx]; for boundary hits, times[idx] == target (within floating
// point tolerance).
func findSegment(target Time, times []Time, extrapolate bool) (segment, int, error) {
	idx := sort.SearchFloat64s(times, target)

	forward := idx == len(times)
	backward := !forward && idx == 0

	if !forward && isClose(times[idx], target) {
		return onBoundary, idx, nil
	}
	// The search only lands on the sample at or above the target, so a
	// target a hair above a sample needs the symmetric check.
	if idx > 0 && isClose(times[idx-1], target) {
		return onBoundary, idx - 1, nil
	}

	if (forward || backward) && !extrapolate {
		if backward {
			return 0, 0, fmt.Errorf("%w: %v is before the start of the axis (%v)",
				ErrExtrapolation, target, times[0])
		}
		return 0, 0, fmt.Errorf("%w: %v is after the end of the axis (%v)",
			ErrExtrapolation, target, times[len(times)-1])
	}
	if backward {
		return extrapolateBackward, 0, nil
	}
	if forward {
		return extrapolateForward, len(times), nil
	}
	return inSegment, idx, nil
}

func isClose(a, b Time) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func (s Previous) Interpolate(times []Time, values []float64, target Time) (float64, error) {
	seg, idx, err := findSegment(target, times, s.Extrapolate)
	if err != nil {
		return 0, err
	}
	switch seg {
	case onBoundary:
		return values[idx], nil
	case extrapolateBackward:
		return values[0], nil
	case extrapolateForward:
		return values[len(values)-1], nil
	default:
		return values[idx-1], nil
	}
}

func (s Next) Interpolate(times []Time, values []float64, target Time) (float64, error) {
	seg, idx, err := findSegment(target, times, s.Extrapolate)
	if err != nil {
		return 0, err
	}
	switch seg {
	case onBoundary:
		return values[idx], nil
	case extrapolateBackward:
		return values[0], nil
	case extrapolateForward:
		return values[len(values)-1], nil
	default:
		return values[idx], nil
	}
}

func (s Linear) Interpolate(times []Time, values []float64, target Time) (float64, error) {
	seg, idx, err := findSegment(target, times, s.Extrapolate)
	if err != nil {
		return 0, err
	}
	switch seg {
	case onBoundary:
		return values[idx], nil
	case extrapolateBackward:
		idx = 1
	case extrapolateForward:
		idx = len(times) - 1
	}
	if len(times) < 2 {
		return values[0], nil
	}
	t0, t1 := times[idx-1], times[idx]
	y0, y1 := values[idx-1], values[idx]
	return y0 + (target-t0)*(y1-y0)/(t1-t0), nil
}

// Interpolator bundles a sample grid with a strategy.
type Interpolator struct {
	times    []Time
	values   []float64
	strategy Strategy
}

func NewInterpolator(times []Time, values []float64, strategy Strategy) *Interpolator {
	return &Interpolator{times: times, values: values, strategy: strategy}
}

func (in *Interpolator) Interpolate(target Time) (float64, error) {
	return in.strategy.Interpolate(in.times, in.values, target)
}
