// Package scenario holds control programs, prebuilt flight scenarios and
// the run loop that drives a model through them.
package scenario

import (
	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
)

// Program produces the control inputs for a simulation step. Implementations
// may be open-loop schedules or closed-loop holds reading the state.
type Program interface {
	Controls(st fdm.State, t float64) fdm.Controls
}

// Steady applies a fixed set of controls.
type Steady struct {
	C fdm.Controls
}

func (s Steady) Controls(fdm.State, float64) fdm.Controls { return s.C }

// Segment runs its program until the scenario clock reaches Until.
type Segment struct {
	Until   float64
	Program Program
}

// Sequence chains segments in order; past the last boundary the final
// segment keeps control.
type Sequence []Segment

func (seq Sequence) Controls(st fdm.State, t float64) fdm.Controls {
	for _, seg := range seq {
		if t < seg.Until {
			return seg.Program.Controls(st, t)
		}
	}
	if n := len(seq); n > 0 {
		return seq[n-1].Program.Controls(st, t)
	}
	return fdm.Controls{}
}

// PitchHold drives the elevator proportionally toward a target pitch angle
// while holding a fixed throttle.
type PitchHold struct {
	TargetPitchRad float64
	Gain           float64
	Throttle       float64
}

func (p PitchHold) Controls(st fdm.State, t float64) fdm.Controls {
	// positive elevator lowers the nose, so the correction sign flips
	err := p.TargetPitchRad - st.PitchRad
	return fdm.Controls{
		Elevator: mathx.Clamp(-p.Gain*err, -1, 1),
		Throttle: p.Throttle,
	}
}
