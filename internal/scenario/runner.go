package scenario

import (
	"context"
	"fmt"
	"math"

	"flightdyn/internal/fdm"
	"flightdyn/internal/telemetry"
)

// Observer receives every completed simulation step.
type Observer interface {
	OnStep(st fdm.State, c fdm.Controls, t float64)
}

// Result holds the full trajectory of a run plus final metric values.
type Result struct {
	Times    []float64
	States   []fdm.State
	Controls []fdm.Controls
	Metrics  map[string]float64
}

// Final returns the last recorded state.
func (r *Result) Final() fdm.State {
	if len(r.States) == 0 {
		return fdm.State{}
	}
	return r.States[len(r.States)-1]
}

// StateAt returns the recorded state closest to time t.
func (r *Result) StateAt(t float64) fdm.State {
	if len(r.Times) == 0 {
		return fdm.State{}
	}
	best := 0
	for i, rt := range r.Times {
		if math.Abs(rt-t) < math.Abs(r.Times[best]-t) {
			best = i
		}
	}
	return r.States[best]
}

// Run drives the scenario to completion, observing each step with the
// given metrics and observers. It stops early if the context is canceled
// or the state goes non-finite.
func Run(ctx context.Context, s Scenario, metrics []telemetry.Metric, observers ...Observer) (*Result, error) {
	if s.DtSec <= 0 {
		return nil, fmt.Errorf("scenario %q: dt must be positive, got %f", s.Name, s.DtSec)
	}
	if s.DurationSec <= 0 {
		return nil, fmt.Errorf("scenario %q: duration must be positive, got %f", s.Name, s.DurationSec)
	}

	m := s.NewModel()
	prog := s.Program
	if prog == nil {
		prog = Steady{}
	}
	for _, mt := range metrics {
		mt.Reset()
	}

	steps := int(math.Round(s.DurationSec / s.DtSec))
	res := &Result{
		Times:    make([]float64, 0, steps+1),
		States:   make([]fdm.State, 0, steps+1),
		Controls: make([]fdm.Controls, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	record := func(st fdm.State, c fdm.Controls, t float64) {
		res.Times = append(res.Times, t)
		res.States = append(res.States, st)
		res.Controls = append(res.Controls, c)
		for _, mt := range metrics {
			mt.Observe(st, c, t)
		}
		for _, ob := range observers {
			ob.OnStep(st, c, t)
		}
	}
	record(m.State(), fdm.Controls{}, 0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			finalize(res, metrics)
			return res, ctx.Err()
		default:
		}

		t := float64(i) * s.DtSec
		c := prog.Controls(m.State(), t)
		m.Update(s.DtSec, c)

		st := m.State()
		if !finiteState(st) {
			finalize(res, metrics)
			return res, fmt.Errorf("scenario %q: state went non-finite at t=%.3f", s.Name, t+s.DtSec)
		}
		record(st, c, t+s.DtSec)
	}

	finalize(res, metrics)
	return res, nil
}

func finalize(res *Result, metrics []telemetry.Metric) {
	for _, mt := range metrics {
		res.Metrics[mt.Name()] = mt.Value()
	}
}

func finiteState(st fdm.State) bool {
	vals := []float64{
		st.PositionEnuM.X, st.PositionEnuM.Y, st.PositionEnuM.Z,
		st.VelocityEnuMps.X, st.VelocityEnuMps.Y, st.VelocityEnuMps.Z,
		st.Orientation.X, st.Orientation.Y, st.Orientation.Z, st.Orientation.W,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
