// Package fdm implements a six-degree-of-freedom flight dynamics model:
// quaternion attitude kinematics driven by rate commands, a compact
// lift/drag/sideforce model, and fixed-substep translational integration.
//
// Axis conventions, relied on throughout: body frame is X forward, Y right,
// Z up; world frame is ENU (X east, Y north, Z up). With these axes a
// positive body roll rate raises the right wing (banks left), a positive
// body pitch rate lowers the nose, and a positive body yaw rate turns the
// nose left — the standard right-hand-rule signs for Z-up frames.
package fdm

import (
	"math"

	"flightdyn/internal/mathx"
)

// Parameters describes the airframe. Immutable for the lifetime of a model;
// all values must be finite and physically sane (they are not validated on
// the hot path).
type Parameters struct {
	MassKg            float64
	WingAreaM2        float64
	WingSpanM         float64
	MaxThrustN        float64
	ParasiteDragCoeff float64
	LiftSlopePerRad   float64
	OswaldEfficiency  float64
}

// DefaultParameters describes a light single-engine trainer with an
// intentionally generous engine; the aircraft presets in internal/config
// derive from it.
func DefaultParameters() Parameters {
	return Parameters{
		MassKg:            1100,
		WingAreaM2:        16.2,
		WingSpanM:         11.0,
		MaxThrustN:        13000,
		ParasiteDragCoeff: 0.028,
		LiftSlopePerRad:   5.5,
		OswaldEfficiency:  0.8,
	}
}

// AspectRatio is span²/area.
func (p Parameters) AspectRatio() float64 {
	if p.WingAreaM2 == 0 {
		return 0
	}
	return p.WingSpanM * p.WingSpanM / p.WingAreaM2
}

// Controls are the four pilot inputs for one tick. Surface deflections are
// in [-1, 1], throttle in [0, 1]; out-of-range values are clamped, never
// rejected. Positive elevator lowers the nose and positive aileron banks
// left, matching the body-rate signs above; scenarios and UIs flip signs at
// their layer if they prefer stick conventions.
type Controls struct {
	Elevator float64
	Ailerons float64
	Rudder   float64
	Throttle float64
}

func (c Controls) clamped() Controls {
	return Controls{
		Elevator: mathx.Clamp(c.Elevator, -1, 1),
		Ailerons: mathx.Clamp(c.Ailerons, -1, 1),
		Rudder:   mathx.Clamp(c.Rudder, -1, 1),
		Throttle: mathx.Clamp(c.Throttle, 0, 1),
	}
}

// Config tunes the rate-command response and the aerodynamic angles.
type Config struct {
	// Maximum body rates (rad/s) reached at full deflection, full gain and
	// full airspeed scaling.
	MaxRollRate  float64
	MaxPitchRate float64
	MaxYawRate   float64

	// Fraction of the maximum rate commanded at full deflection.
	RollGain  float64
	PitchGain float64
	YawGain   float64

	// Angle of attack (rad) beyond which the lift coefficient saturates.
	StallAlphaRad float64

	// Yaw rate induced per unit sin(bank), as a fraction of MaxYawRate.
	TurnCoordinationGain float64

	// Per-radian sideslip force coefficient.
	SideforceCoeffPerRad float64
}

// DefaultConfig returns response tuning suitable for a light single-engine
// trainer.
func DefaultConfig() Config {
	return Config{
		MaxRollRate:          1.6,
		MaxPitchRate:         1.0,
		MaxYawRate:           0.8,
		RollGain:             0.6,
		PitchGain:            0.5,
		YawGain:              0.4,
		StallAlphaRad:        mathx.DegToRad(15),
		TurnCoordinationGain: 1.0,
		SideforceCoeffPerRad: 1.2,
	}
}

// State is the full simulation state. The model owns and mutates it in
// place; callers read copies via Model.State.
type State struct {
	PositionEnuM    mathx.Vec3
	VelocityEnuMps  mathx.Vec3
	Orientation     mathx.Quat // body -> ENU, unit magnitude

	// Derived ZYX Euler angles (rad), recomputed from the quaternion every
	// substep for telemetry; never integrated.
	YawRad   float64
	PitchRad float64
	RollRad  float64

	// Body angular rates p, q, r (rad/s) commanded on the last substep.
	RollRateRps  float64
	PitchRateRps float64
	YawRateRps   float64
}

// LevelState builds a state at the given ENU position, moving horizontally
// at the given speed along the heading, with the attitude pitched nose-up
// by pitchRad. The initial angle of attack therefore equals the pitch.
func LevelState(position mathx.Vec3, speedMps, yawRad, pitchRad float64) State {
	q := mathx.QuatFromEuler(yawRad, pitchRad, 0)
	s := State{
		PositionEnuM: position,
		VelocityEnuMps: mathx.Vec3{
			X: speedMps * math.Cos(yawRad),
			Y: speedMps * math.Sin(yawRad),
		},
		Orientation: q,
	}
	s.YawRad, s.PitchRad, s.RollRad = q.Euler()
	return s
}

// AeroScale carries independent multipliers applied to the lift and drag
// magnitudes before force summation. Intended for deterministic behavioral
// tests, not part of the physical model.
type AeroScale struct {
	Lift float64
	Drag float64
}

func UnitAeroScale() AeroScale { return AeroScale{Lift: 1, Drag: 1} }
