package component

import (
	"fmt"

	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// HostSolver is the narrow contract a host-supplied component must
// satisfy to participate in a model.
type HostSolver interface {
	Solve(tCurrent, tNext float64, input map[string]float64) (map[string]float64, error)
}

// HostDefiner may additionally be implemented to declare static
// requirements. Hosts that omit it declare none.
type HostDefiner interface {
	Definitions() []RequirementDefinition
}

// hostComponent adapts a host object into the Component contract. The
// call into host code is synchronous; failures there, including panics,
// surface as ErrComponentSolve rather than leaking through the engine.
type hostComponent struct {
	kind string
	host HostSolver
}

// AdaptHost wraps a host-supplied solver as a Component. kind names the
// component in diagnostics and checkpoints.
func AdaptHost(kind string, host HostSolver) Component {
	return &hostComponent{kind: kind, host: host}
}

func (c *hostComponent) Definitions() []RequirementDefinition {
	if d, ok := c.host.(HostDefiner); ok {
		return d.Definitions()
	}
	return nil
}

func (c *hostComponent) Solve(tCurrent, tNext timeseries.Time, input InputState) (out OutputState, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %s: panic in host code: %v", ErrComponentSolve, c.kind, r)
		}
	}()

	in := make(map[string]float64, len(input))
	for name, value := range input {
		in[name] = value
	}
	result, err := c.host.Solve(tCurrent, tNext, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrComponentSolve, c.kind, err)
	}
	return OutputState(result), nil
}

func (c *hostComponent) Kind() string { return c.kind }

func (c *hostComponent) Parameters() map[string]float64 { return nil }
