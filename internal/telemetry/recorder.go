package telemetry

import (
	"math"

	"flightdyn/internal/fdm"
)

// Sample is one recorded simulation step.
type Sample struct {
	T        float64
	State    fdm.State
	Controls fdm.Controls
}

// Recorder keeps a bounded sample history. With Capacity zero it grows
// unbounded (batch runs); the live view sets a capacity and gets a rolling
// window.
type Recorder struct {
	Capacity int
	samples  []Sample
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{Capacity: capacity}
}

func (r *Recorder) OnStep(st fdm.State, c fdm.Controls, t float64) {
	r.samples = append(r.samples, Sample{T: t, State: st, Controls: c})
	if r.Capacity > 0 && len(r.samples) > r.Capacity {
		r.samples = r.samples[1:]
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) Reset() { r.samples = r.samples[:0] }

// Channel extracts one named telemetry channel from the history for
// plotting.
func (r *Recorder) Channel(extract func(Sample) float64) []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = extract(s)
	}
	return out
}

// Common channel extractors.
var (
	AltitudeM = func(s Sample) float64 { return s.State.PositionEnuM.Z }
	SpeedMps  = func(s Sample) float64 { return s.State.VelocityEnuMps.Norm() }
	PitchDeg  = func(s Sample) float64 { return s.State.PitchRad * 180 / math.Pi }
)
