package fdm

import (
	"math"
	"testing"

	"flightdyn/internal/mathx"
)

func newTestModel(initial State) *Model {
	return New(DefaultParameters(), initial, DefaultConfig())
}

func TestUpdateIgnoresBadDt(t *testing.T) {
	m := newTestModel(LevelState(mathx.Vec3{Z: 500}, 40, 0, 0))
	before := m.State()

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		m.Update(dt, Controls{Throttle: 1})
	}

	if m.State() != before {
		t.Error("non-finite or non-positive dt should be a no-op")
	}
}

func TestFreefallUnderGravity(t *testing.T) {
	m := newTestModel(State{
		PositionEnuM: mathx.Vec3{Z: 1000},
		Orientation:  mathx.IdentityQuat(),
	})

	for i := 0; i < 50; i++ {
		m.Update(0.02, Controls{})
	}

	vz := m.State().VelocityEnuMps.Z
	if math.Abs(vz-(-GravityMps2)) > 1e-3 {
		t.Errorf("after 1s of freefall expected vz %f, got %f", -GravityMps2, vz)
	}
	if m.State().VelocityEnuMps.X != 0 || m.State().VelocityEnuMps.Y != 0 {
		t.Error("freefall should stay purely vertical")
	}
}

func TestVerticalDiveSeesGravityOnly(t *testing.T) {
	// Airspeed is well above the aero floor but the flow is straight up
	// the body Z axis: no angle of attack exists, so no lift shoves the
	// aircraft forward and no drag shaves the sink rate.
	m := newTestModel(State{
		PositionEnuM:   mathx.Vec3{Z: 2000},
		VelocityEnuMps: mathx.Vec3{Z: -40},
		Orientation:    mathx.IdentityQuat(),
	})

	m.Update(0.02, Controls{})

	st := m.State()
	if st.VelocityEnuMps.X != 0 || st.VelocityEnuMps.Y != 0 {
		t.Errorf("vertical dive should stay vertical, v = %+v", st.VelocityEnuMps)
	}
	if vz := st.VelocityEnuMps.Z; math.Abs(vz-(-40-GravityMps2*0.02)) > 1e-9 {
		t.Errorf("expected pure gravity on Z, vz %f", vz)
	}
}

func TestFrameDtCapped(t *testing.T) {
	a := newTestModel(State{Orientation: mathx.IdentityQuat()})
	b := newTestModel(State{Orientation: mathx.IdentityQuat()})

	a.Update(10, Controls{})
	b.Update(0.25, Controls{})

	if math.Abs(a.State().VelocityEnuMps.Z-b.State().VelocityEnuMps.Z) > 1e-12 {
		t.Errorf("a 10s frame should integrate as 0.25s: %f vs %f",
			a.State().VelocityEnuMps.Z, b.State().VelocityEnuMps.Z)
	}
}

func TestControlsClamped(t *testing.T) {
	a := newTestModel(LevelState(mathx.Vec3{Z: 500}, 40, 0, 0))
	b := newTestModel(LevelState(mathx.Vec3{Z: 500}, 40, 0, 0))

	a.Update(0.1, Controls{Throttle: 7, Elevator: -4})
	b.Update(0.1, Controls{Throttle: 1, Elevator: -1})

	if a.State() != b.State() {
		t.Error("out-of-range controls should clamp to the valid interval")
	}
}

func TestQuaternionStaysUnit(t *testing.T) {
	m := newTestModel(LevelState(mathx.Vec3{Z: 800}, 55, 0.4, 0.05))

	controls := []Controls{
		{Elevator: -0.8, Throttle: 1},
		{Ailerons: 0.6, Throttle: 0.5},
		{Rudder: -0.9, Throttle: 0.2},
		{Elevator: 0.4, Ailerons: -0.5, Rudder: 0.3, Throttle: 0.8},
	}
	for i := 0; i < 2000; i++ {
		m.Update(0.031, controls[i%len(controls)])
	}

	norm := m.State().Orientation.Norm()
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("quaternion norm should stay 1, got %.12f", norm)
	}
}

func TestSpeedNeverExceedsCap(t *testing.T) {
	m := newTestModel(LevelState(mathx.Vec3{Z: 2000}, 60, 0, 0))

	for i := 0; i < 6000; i++ {
		m.Update(0.02, Controls{Throttle: 1})
		if speed := m.State().VelocityEnuMps.Norm(); speed > speedCapMps+1e-9 {
			t.Fatalf("speed %f exceeds cap at step %d", speed, i)
		}
	}
}

func TestNoControlAuthorityWithoutAirflow(t *testing.T) {
	m := newTestModel(State{
		PositionEnuM: mathx.Vec3{Z: 100},
		Orientation:  mathx.IdentityQuat(),
	})

	m.Update(0.02, Controls{Elevator: 1, Ailerons: 1, Rudder: 1})

	st := m.State()
	if st.RollRateRps != 0 || st.PitchRateRps != 0 || st.YawRateRps != 0 {
		t.Errorf("deflections at zero airspeed should command no rates, got p=%f q=%f r=%f",
			st.RollRateRps, st.PitchRateRps, st.YawRateRps)
	}
}

// Per-axis control signs at full airspeed scaling. Positive elevator lowers
// the nose, positive aileron banks left (right wing up), positive rudder
// yaws the nose left.
func TestControlAxisSigns(t *testing.T) {
	fly := func(c Controls) State {
		m := newTestModel(LevelState(mathx.Vec3{Z: 1000}, 60, 0, 0))
		for i := 0; i < 25; i++ {
			m.Update(0.02, c)
		}
		return m.State()
	}

	if st := fly(Controls{Elevator: 1, Throttle: 0.5}); st.PitchRad >= 0 {
		t.Errorf("positive elevator should lower the nose, pitch %f", st.PitchRad)
	}
	if st := fly(Controls{Ailerons: 1, Throttle: 0.5}); st.RollRad >= 0 {
		t.Errorf("positive aileron should raise the right wing, roll %f", st.RollRad)
	}
	if st := fly(Controls{Rudder: 1, Throttle: 0.5}); st.YawRad <= 0 {
		t.Errorf("positive rudder should increase yaw, yaw %f", st.YawRad)
	}
}

func TestBankInducesCoordinatedTurn(t *testing.T) {
	// Start banked left with no deflections: the coordination term alone
	// should walk the heading left (increasing yaw).
	st := LevelState(mathx.Vec3{Z: 1000}, 60, 0, 0)
	st.Orientation = mathx.QuatFromEuler(0, 0, mathx.DegToRad(-25))
	m := newTestModel(st)

	for i := 0; i < 100; i++ {
		m.Update(0.02, Controls{Throttle: 0.3})
	}

	if yaw := m.State().YawRad; yaw <= 0 {
		t.Errorf("left bank should induce a left turn, yaw %f", yaw)
	}
}

func TestHeadwindRemovesAeroForces(t *testing.T) {
	// Wind moving with the aircraft zeroes the relative airflow; only
	// gravity remains.
	m := newTestModel(LevelState(mathx.Vec3{Z: 500}, 40, 0, 0))
	m.SetWindEnuMps(mathx.Vec3{X: 40})

	m.Update(0.02, Controls{})

	st := m.State()
	if math.Abs(st.VelocityEnuMps.X-40) > 1e-9 {
		t.Errorf("no aero force expected along X, vx %f", st.VelocityEnuMps.X)
	}
	if math.Abs(st.VelocityEnuMps.Z-(-GravityMps2*0.02)) > 1e-9 {
		t.Errorf("expected pure gravity on Z, vz %f", st.VelocityEnuMps.Z)
	}
}

func TestHeadwindIncreasesDrag(t *testing.T) {
	still := newTestModel(LevelState(mathx.Vec3{Z: 500}, 50, 0, 0))
	headwind := newTestModel(LevelState(mathx.Vec3{Z: 500}, 50, 0, 0))
	headwind.SetWindEnuMps(mathx.Vec3{X: -15})

	still.Update(0.02, Controls{})
	headwind.Update(0.02, Controls{})

	if headwind.State().VelocityEnuMps.X >= still.State().VelocityEnuMps.X {
		t.Error("a headwind should decelerate the aircraft faster")
	}
}

func TestAeroScaleMultipliesLift(t *testing.T) {
	base := newTestModel(LevelState(mathx.Vec3{Z: 500}, 50, 0, mathx.DegToRad(5)))
	scaled := newTestModel(LevelState(mathx.Vec3{Z: 500}, 50, 0, mathx.DegToRad(5)))
	scaled.SetAeroScale(AeroScale{Lift: 6, Drag: 1})

	base.Update(0.02, Controls{})
	scaled.Update(0.02, Controls{})

	baseClimb := base.State().VelocityEnuMps.Z
	scaledClimb := scaled.State().VelocityEnuMps.Z
	if scaledClimb <= baseClimb {
		t.Errorf("scaled lift should climb harder: %f vs %f", scaledClimb, baseClimb)
	}
}

func TestAeroScaleDefaultsNeutral(t *testing.T) {
	a := newTestModel(LevelState(mathx.Vec3{Z: 500}, 50, 0, mathx.DegToRad(4)))
	b := newTestModel(LevelState(mathx.Vec3{Z: 500}, 50, 0, mathx.DegToRad(4)))
	b.SetAeroScale(AeroScale{})

	a.Update(0.1, Controls{Throttle: 0.4})
	b.Update(0.1, Controls{Throttle: 0.4})

	if a.State() != b.State() {
		t.Error("zero-valued aero scale should behave as 1.0 multipliers")
	}
}

func TestBackwardsMotionStaysFinite(t *testing.T) {
	// Sliding tail-first: no angle of attack is computed, but drag still
	// opposes the true motion.
	st := State{
		PositionEnuM:   mathx.Vec3{Z: 500},
		VelocityEnuMps: mathx.Vec3{X: -30},
		Orientation:    mathx.IdentityQuat(),
	}
	m := newTestModel(st)

	for i := 0; i < 100; i++ {
		m.Update(0.02, Controls{})
	}

	out := m.State()
	if math.IsNaN(out.VelocityEnuMps.X) || math.IsNaN(out.PositionEnuM.Z) {
		t.Fatal("backwards motion produced NaN")
	}
	if out.VelocityEnuMps.X <= -30 {
		t.Errorf("drag should slow rearward motion, vx %f", out.VelocityEnuMps.X)
	}
}

func TestAspectRatio(t *testing.T) {
	p := Parameters{WingSpanM: 11, WingAreaM2: 16.2}
	expected := 11.0 * 11.0 / 16.2
	if math.Abs(p.AspectRatio()-expected) > 1e-12 {
		t.Errorf("expected aspect ratio %f, got %f", expected, p.AspectRatio())
	}
}
