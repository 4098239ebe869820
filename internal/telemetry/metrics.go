// Package telemetry accumulates per-step flight metrics and sample history
// for scenario runs, plotting and the run store.
package telemetry

import (
	"math"

	"flightdyn/internal/fdm"
)

// Metric observes every simulation step and reduces it to a single value.
type Metric interface {
	Name() string
	Observe(st fdm.State, c fdm.Controls, t float64)
	Value() float64
	Reset()
}

// AltitudeGain reports final minus initial altitude in meters.
type AltitudeGain struct {
	first   bool
	initial float64
	current float64
}

func NewAltitudeGain() *AltitudeGain { return &AltitudeGain{first: true} }

func (a *AltitudeGain) Name() string { return "altitude_gain_m" }

func (a *AltitudeGain) Observe(st fdm.State, c fdm.Controls, t float64) {
	if a.first {
		a.initial = st.PositionEnuM.Z
		a.first = false
	}
	a.current = st.PositionEnuM.Z
}

func (a *AltitudeGain) Value() float64 {
	if a.first {
		return 0
	}
	return a.current - a.initial
}

func (a *AltitudeGain) Reset() { *a = AltitudeGain{first: true} }

// HeadingChange reports the accumulated (unwrapped) heading change in
// degrees, signed, positive toward the left (east toward north).
type HeadingChange struct {
	first   bool
	prevYaw float64
	total   float64
}

func NewHeadingChange() *HeadingChange { return &HeadingChange{first: true} }

func (h *HeadingChange) Name() string { return "heading_change_deg" }

func (h *HeadingChange) Observe(st fdm.State, c fdm.Controls, t float64) {
	if h.first {
		h.prevYaw = st.YawRad
		h.first = false
		return
	}
	d := st.YawRad - h.prevYaw
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	h.total += d
	h.prevYaw = st.YawRad
}

func (h *HeadingChange) Value() float64 { return h.total * 180 / math.Pi }

func (h *HeadingChange) Reset() { *h = HeadingChange{first: true} }

// PeakSpeed reports the maximum ground speed seen, m/s.
type PeakSpeed struct {
	max float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed_mps" }

func (p *PeakSpeed) Observe(st fdm.State, c fdm.Controls, t float64) {
	if s := st.VelocityEnuMps.Norm(); s > p.max {
		p.max = s
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }

func (p *PeakSpeed) Reset() { p.max = 0 }

// QuatDrift reports the worst deviation of the attitude quaternion norm
// from unity.
type QuatDrift struct {
	worst float64
}

func NewQuatDrift() *QuatDrift { return &QuatDrift{} }

func (q *QuatDrift) Name() string { return "quat_norm_drift" }

func (q *QuatDrift) Observe(st fdm.State, c fdm.Controls, t float64) {
	if d := math.Abs(st.Orientation.Norm() - 1); d > q.worst {
		q.worst = d
	}
}

func (q *QuatDrift) Value() float64 { return q.worst }

func (q *QuatDrift) Reset() { q.worst = 0 }

// DefaultMetrics is the standard set attached to every scenario run.
func DefaultMetrics() []Metric {
	return []Metric{NewAltitudeGain(), NewHeadingChange(), NewPeakSpeed(), NewQuatDrift()}
}
