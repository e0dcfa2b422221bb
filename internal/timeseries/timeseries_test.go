package timeseries

import (
	"errors"
	"math"
	"testing"
)

func mustAxis(t *testing.T, values ...Time) *TimeAxis {
	t.Helper()
	axis, err := TimeAxisFromValues(values)
	if err != nil {
		t.Fatalf("axis build failed: %v", err)
	}
	return axis
}

func TestNewTimeseriesShapeMismatch(t *testing.T) {
	axis := mustAxis(t, 2000, 2001, 2002)

	tests := []struct {
		name   string
		values []float64
	}{
		{"too few", []float64{1, 2}},
		{"too many", []float64{1, 2, 3, 4}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTimeseries(tt.values, axis, "K", Linear{}); !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}

func TestTimeseriesValuesAreCopies(t *testing.T) {
	axis := mustAxis(t, 2000, 2001, 2002)
	input := []float64{1, 2, 3}

	ts, err := NewTimeseries(input, axis, "K", Linear{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	input[0] = -1
	if got := ts.Values()[0]; got != 1 {
		t.Errorf("series shares memory with the input slice: %v", got)
	}

	out := ts.Values()
	out[1] = -1
	if got := ts.Values()[1]; got != 2 {
		t.Errorf("mutating the returned slice changed the series: %v", got)
	}
}

func TestTimeseriesLatest(t *testing.T) {
	axis := mustAxis(t, 2000, 2001, 2002, 2003)

	empty := NewEmpty(axis, "K", Linear{})
	if empty.Latest() != -1 {
		t.Errorf("expected latest -1 for empty series, got %d", empty.Latest())
	}
	if _, ok := empty.LatestValue(); ok {
		t.Error("expected no latest value for empty series")
	}

	if err := empty.Set(0, 1.5); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := empty.Set(1, 2.5); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if empty.Latest() != 1 {
		t.Errorf("expected latest 1, got %d", empty.Latest())
	}
	v, ok := empty.LatestValue()
	if !ok || v != 2.5 {
		t.Errorf("expected latest value 2.5, got %v ok=%v", v, ok)
	}

	// Setting NaN does not advance the latest marker.
	if err := empty.Set(2, math.NaN()); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if empty.Latest() != 1 {
		t.Errorf("NaN advanced the latest marker to %d", empty.Latest())
	}

	// A partially defined series reports the end of its defined prefix.
	partial, err := NewTimeseries([]float64{1, 2, math.NaN(), 4}, axis, "K", Linear{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if partial.Latest() != 1 {
		t.Errorf("expected latest 1, got %d", partial.Latest())
	}
}

func TestTimeseriesSetRange(t *testing.T) {
	axis := mustAxis(t, 2000, 2001, 2002)
	ts := NewEmpty(axis, "K", Linear{})

	if err := ts.Set(-1, 1); !errors.Is(err, ErrIndexOverflow) {
		t.Errorf("expected ErrIndexOverflow for negative index, got %v", err)
	}
	if err := ts.Set(3, 1); !errors.Is(err, ErrIndexOverflow) {
		t.Errorf("expected ErrIndexOverflow past the end, got %v", err)
	}
}

func TestTimeseriesValueAt(t *testing.T) {
	axis := mustAxis(t, 2000, 2001, 2002)
	ts, err := NewTimeseries([]float64{1, 2, 3}, axis, "K", Linear{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if _, _, err := ts.ValueAt(-1); !errors.Is(err, ErrIndexOverflow) {
		t.Errorf("expected ErrIndexOverflow for negative index, got %v", err)
	}
	if _, ok, err := ts.ValueAt(5); ok || err != nil {
		t.Errorf("expected absent value past the end, got ok=%v err=%v", ok, err)
	}
	v, ok, err := ts.ValueAt(2)
	if err != nil || !ok || v != 3 {
		t.Errorf("expected 3, got %v ok=%v err=%v", v, ok, err)
	}
}

func TestTimeseriesAt(t *testing.T) {
	ts, err := TimeseriesFromValues([]float64{5, 8, 9}, []Time{0, 0.5, 1})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	got, err := ts.At(0.25)
	if err != nil {
		t.Fatalf("interpolation failed: %v", err)
	}
	if got != 6.5 {
		t.Errorf("expected 6.5, got %v", got)
	}

	// The default strategy extrapolates.
	got, err = ts.At(1.5)
	if err != nil {
		t.Fatalf("extrapolation failed: %v", err)
	}
	if got != 10 {
		t.Errorf("expected 10, got %v", got)
	}

	// Swapping the strategy changes the answer at the same time.
	got, err = ts.WithStrategy(Previous{Extrapolate: true}).At(0.25)
	if err != nil {
		t.Fatalf("interpolation failed: %v", err)
	}
	if got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestInterpolateOnto(t *testing.T) {
	ts, err := TimeseriesFromValues([]float64{0, 10}, []Time{2000, 2010})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	target := mustAxis(t, 2000, 2005, 2010, 2015)
	regridded, err := ts.InterpolateOnto(target)
	if err != nil {
		t.Fatalf("regrid failed: %v", err)
	}

	want := []float64{0, 5, 10, 15}
	got := regridded.Values()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("at index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if regridded.TimeAxis() != target {
		t.Error("regridded series is not bound to the target axis")
	}
}

func TestInterpolateOntoRefusesUncoveredAxis(t *testing.T) {
	axis := mustAxis(t, 2000, 2001, 2002)
	ts, err := NewTimeseries([]float64{1, 2, 3}, axis, "K", Linear{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	wider := mustAxis(t, 1990, 2000, 2010)
	if _, err := ts.InterpolateOnto(wider); !errors.Is(err, ErrExtrapolation) {
		t.Errorf("expected ErrExtrapolation, got %v", err)
	}
}
