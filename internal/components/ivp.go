package components

import (
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// derivative computes dy/dt at time t for state y, writing into dydt.
// Exogenous drivers are captured by the closure and held constant across
// the solve interval.
type derivative func(t timeseries.Time, y, dydt []float64)

// integrateRK4 advances y0 from t0 to t1 with classic fourth-order
// Runge-Kutta using internal steps of at most dt. The final step is
// shortened to land exactly on t1.
func integrateRK4(f derivative, y0 []float64, t0, t1 timeseries.Time, dt timeseries.Time) []float64 {
	n := len(y0)
	y := make([]float64, n)
	copy(y, y0)

	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	tmp := make([]float64, n)

	t := t0
	for t < t1 {
		h := dt
		if t+h > t1 {
			h = t1 - t
		}

		f(t, y, k1)
		for i := range tmp {
			tmp[i] = y[i] + h/2*k1[i]
		}
		f(t+h/2, tmp, k2)
		for i := range tmp {
			tmp[i] = y[i] + h/2*k2[i]
		}
		f(t+h/2, tmp, k3)
		for i := range tmp {
			tmp[i] = y[i] + h*k3[i]
		}
		f(t+h, tmp, k4)

		for i := range y {
			y[i] += h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		}
		t += h
	}
	return y
}
