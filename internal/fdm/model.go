package fdm

import (
	"math"

	"flightdyn/internal/aero"
	"flightdyn/internal/mathx"
)

// GravityMps2 is standard gravity, applied along world -Z.
const GravityMps2 = 9.80665

const (
	// maxFrameSeconds caps a single Update call, defending against large
	// wall-clock gaps (a backgrounded caller regaining focus).
	maxFrameSeconds = 0.25

	// maxStepSeconds bounds the integration substep; every state field
	// advances once per substep, which keeps the explicit-Euler quaternion
	// step and the nonlinear forces stable under irregular external dt.
	maxStepSeconds = 0.02

	// stepResidue below which leftover frame time is discarded.
	stepResidue = 1e-6

	// speedCapMps rescales runaway velocities. A numerical guard, not a
	// physical top speed.
	speedCapMps = 250

	// controlFadeSpeedMps is the airspeed at which control surfaces reach
	// full effectiveness; below it authority fades linearly to zero.
	controlFadeSpeedMps = 50

	// minAeroAirspeed below which aerodynamic angles and forces are zero.
	minAeroAirspeed = 0.1

	// alphaForwardFloor keeps atan2 defined when forward velocity is zero.
	alphaForwardFloor = 1e-6
)

// Model owns the aircraft parameters, response tuning and mutable state,
// and advances them through Update. Single-threaded: nothing else may
// mutate the state concurrently.
type Model struct {
	params Parameters
	cfg    Config
	state  State

	windEnuMps mathx.Vec3
	scale      AeroScale
}

// New constructs a model at the given initial state. A zero-valued cfg
// falls back to DefaultConfig.
func New(params Parameters, initial State, cfg Config) *Model {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	initial.Orientation = initial.Orientation.Normalize()
	initial.YawRad, initial.PitchRad, initial.RollRad = initial.Orientation.Euler()
	return &Model{
		params: params,
		cfg:    cfg,
		state:  initial,
		scale:  UnitAeroScale(),
	}
}

// State returns a copy of the current simulation state.
func (m *Model) State() State { return m.state }

func (m *Model) Parameters() Parameters { return m.params }
func (m *Model) Config() Config         { return m.cfg }

// SetWindEnuMps sets the ambient wind used by the relative-airflow
// computation from the next substep on.
func (m *Model) SetWindEnuMps(wind mathx.Vec3) { m.windEnuMps = wind }

// SetAeroScale overrides the lift and drag multipliers. Non-positive
// components are treated as the neutral 1.0. Test/debug hook, not part of
// the physical model.
func (m *Model) SetAeroScale(scale AeroScale) {
	if scale.Lift <= 0 {
		scale.Lift = 1
	}
	if scale.Drag <= 0 {
		scale.Drag = 1
	}
	m.scale = scale
}

// Update advances the owned state by dtSeconds of simulated time under the
// given controls. Non-finite or non-positive dt is a no-op; dt above
// 0.25 s is truncated, then consumed in substeps of at most 0.02 s.
func (m *Model) Update(dtSeconds float64, controls Controls) {
	if math.IsNaN(dtSeconds) || math.IsInf(dtSeconds, 0) || dtSeconds <= 0 {
		return
	}
	if dtSeconds > maxFrameSeconds {
		dtSeconds = maxFrameSeconds
	}
	c := controls.clamped()
	for remaining := dtSeconds; remaining > stepResidue; {
		h := math.Min(remaining, maxStepSeconds)
		m.step(h, c)
		remaining -= h
	}
}

func (m *Model) step(dt float64, c Controls) {
	st := &m.state

	// Angular rate commands. Control authority scales with airspeed: no
	// surface effectiveness without airflow, saturating at the fade speed.
	airRelWorld := st.VelocityEnuMps.Sub(m.windEnuMps)
	airspeed := airRelWorld.Norm()
	speedFactor := mathx.Clamp(airspeed/controlFadeSpeedMps, 0, 1)

	p := c.Ailerons * m.cfg.MaxRollRate * m.cfg.RollGain * speedFactor
	q := c.Elevator * m.cfg.MaxPitchRate * m.cfg.PitchGain * speedFactor
	r := c.Rudder * m.cfg.MaxYawRate * m.cfg.YawGain * speedFactor

	// Coordinated turn: bank alone yaws the nose toward the lowered wing,
	// standing in for a true force-and-moment yaw model.
	r += -math.Sin(st.RollRad) * m.cfg.MaxYawRate * m.cfg.TurnCoordinationGain * speedFactor * 0.2

	// Attitude. The quaternion is the sole source of truth; Euler angles
	// are re-derived for telemetry only.
	st.Orientation = st.Orientation.IntegrateRates(p, q, r, dt)
	st.YawRad, st.PitchRad, st.RollRad = st.Orientation.Euler()
	st.RollRateRps, st.PitchRateRps, st.YawRateRps = p, q, r

	bodyToWorld := st.Orientation.RotationMatrix()
	worldToBody := bodyToWorld.Transposed()

	// Relative airflow in the body frame. Negative forward velocity is
	// clamped to zero for the angle computation (no angle of attack for
	// flying backwards); drag still uses the true body velocity.
	vBody := worldToBody.MulVec(airRelWorld)
	vAero := vBody
	if vAero.X < 0 {
		vAero.X = 0
	}

	force := mathx.Vec3{X: m.params.MaxThrustN * c.Throttle}

	// The coefficient model is only meaningful with flow along the body X
	// axis: a straight-up or straight-down flow has no angle of attack and
	// generates no force, so a fall from rest integrates gravity alone.
	// Tail-first flow keeps drag but no lift or sideforce.
	if airspeed >= minAeroAirspeed && math.Abs(vBody.X) >= minAeroAirspeed {
		var cl, side float64
		if vAero.X >= minAeroAirspeed {
			alpha := math.Atan2(-vAero.Z, math.Max(vAero.X, alphaForwardFloor))
			beta := math.Atan2(vAero.Y, math.Hypot(vAero.X, vAero.Z))
			cl = aero.LiftCoefficient(alpha, m.params.LiftSlopePerRad, m.cfg.StallAlphaRad)
			side = aero.SideForce(beta, airspeed, m.params.WingAreaM2, m.cfg.SideforceCoeffPerRad)
		}
		cd := aero.DragCoefficient(cl, m.params.ParasiteDragCoeff, m.params.AspectRatio(), m.params.OswaldEfficiency)

		lift := aero.LiftForce(cl, airspeed, m.params.WingAreaM2) * m.scale.Lift
		drag := aero.DragForce(cd, airspeed, m.params.WingAreaM2) * m.scale.Drag

		// Lift acts perpendicular to both the relative wind and the span
		// axis; drag opposes the true through-air direction.
		liftDir := vAero.Normalize().Cross(mathx.Vec3{Y: 1}).Normalize()
		dragDir := vBody.Normalize().Scale(-1)

		force = force.
			Add(liftDir.Scale(lift)).
			Add(dragDir.Scale(drag)).
			Add(mathx.Vec3{Y: side})
	}

	worldForce := bodyToWorld.MulVec(force)
	worldForce.Z -= m.params.MassKg * GravityMps2

	accel := worldForce.Scale(1.0 / m.params.MassKg)
	st.VelocityEnuMps = st.VelocityEnuMps.Add(accel.Scale(dt))
	if speed := st.VelocityEnuMps.Norm(); speed > speedCapMps {
		st.VelocityEnuMps = st.VelocityEnuMps.Scale(speedCapMps / speed)
	}
	st.PositionEnuM = st.PositionEnuM.Add(st.VelocityEnuMps.Scale(dt))
}
