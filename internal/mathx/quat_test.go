package mathx

import (
	"math"
	"testing"
)

func TestQuatEulerRoundtrip(t *testing.T) {
	cases := []struct{ yaw, pitch, roll float64 }{
		{0, 0, 0},
		{0.5, 0.2, -0.3},
		{-2.0, 0.8, 1.2},
		{3.0, -1.2, -2.5},
	}

	for _, c := range cases {
		q := QuatFromEuler(c.yaw, c.pitch, c.roll)
		yaw, pitch, roll := q.Euler()

		if math.Abs(yaw-c.yaw) > 1e-9 {
			t.Errorf("yaw: expected %f, got %f", c.yaw, yaw)
		}
		if math.Abs(pitch-c.pitch) > 1e-9 {
			t.Errorf("pitch: expected %f, got %f", c.pitch, pitch)
		}
		if math.Abs(roll-c.roll) > 1e-9 {
			t.Errorf("roll: expected %f, got %f", c.roll, roll)
		}
	}
}

func TestQuatPitchClamped(t *testing.T) {
	q := QuatFromEuler(0, math.Pi/2, 0)
	_, pitch, _ := q.Euler()
	if pitch >= math.Pi/2 {
		t.Errorf("pitch should stay below pi/2, got %f", pitch)
	}
}

// Body rate signs: with X forward, Y right, Z up, a positive roll rate
// raises the right wing (negative roll angle), a positive pitch rate
// lowers the nose, and a positive yaw rate turns the nose left (toward
// north from east).
func TestQuatRateSigns(t *testing.T) {
	dt := 0.001

	q := IdentityQuat()
	for i := 0; i < 100; i++ {
		q = q.IntegrateRates(0.5, 0, 0, dt)
	}
	_, _, roll := q.Euler()
	if roll >= 0 {
		t.Errorf("positive roll rate should give negative roll angle, got %f", roll)
	}

	q = IdentityQuat()
	for i := 0; i < 100; i++ {
		q = q.IntegrateRates(0, 0.5, 0, dt)
	}
	_, pitch, _ := q.Euler()
	if pitch >= 0 {
		t.Errorf("positive pitch rate should lower the nose, got %f", pitch)
	}

	q = IdentityQuat()
	for i := 0; i < 100; i++ {
		q = q.IntegrateRates(0, 0, 0.5, dt)
	}
	yaw, _, _ := q.Euler()
	if yaw <= 0 {
		t.Errorf("positive yaw rate should increase yaw, got %f", yaw)
	}
}

func TestQuatIntegrationStaysUnit(t *testing.T) {
	q := QuatFromEuler(0.3, 0.1, -0.2)
	for i := 0; i < 10000; i++ {
		q = q.IntegrateRates(0.9, -0.4, 0.6, 0.02)
	}
	if math.Abs(q.Norm()-1) > 1e-9 {
		t.Errorf("quaternion should stay unit, norm %f", q.Norm())
	}
}

func TestQuatIntegrationSmallStep(t *testing.T) {
	// Integrating a constant yaw rate should track the analytic rotation
	// closely at the enforced substep sizes.
	q := IdentityQuat()
	rate, dt, steps := 0.4, 0.02, 250
	for i := 0; i < steps; i++ {
		q = q.IntegrateRates(0, 0, rate, dt)
	}
	yaw, _, _ := q.Euler()
	expected := rate * dt * float64(steps)
	if math.Abs(yaw-expected) > 1e-2 {
		t.Errorf("expected yaw ~%f, got %f", expected, yaw)
	}
}
