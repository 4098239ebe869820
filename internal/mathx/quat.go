package mathx

import "math"

// Quat is a unit quaternion rotating vectors from the aircraft body frame
// (X forward, Y right, Z up) into the ENU world frame (X east, Y north,
// Z up). Attitude is kept in quaternion form only; Euler angles are a
// derived projection for display.
type Quat struct {
	X, Y, Z, W float64
}

func IdentityQuat() Quat { return Quat{W: 1} }

// Mul is the Hamilton product q ⊗ o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n < 1e-12 {
		return IdentityQuat()
	}
	return Quat{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// IntegrateRates advances the quaternion by body angular rates p, q, r
// (rad/s about body X, Y, Z) over dt seconds using a single explicit Euler
// step on q' = 0.5 * q ⊗ [p,q,r,0], then renormalizes. Only accurate for
// the small substep sizes the integrator enforces.
func (q Quat) IntegrateRates(p, qRate, r, dt float64) Quat {
	omega := Quat{X: p, Y: qRate, Z: r, W: 0}
	dq := q.Mul(omega)
	return Quat{
		X: q.X + 0.5*dt*dq.X,
		Y: q.Y + 0.5*dt*dq.Y,
		Z: q.Z + 0.5*dt*dq.Z,
		W: q.W + 0.5*dt*dq.W,
	}.Normalize()
}

// RotationMatrix builds the body-to-world rotation matrix.
func (q Quat) RotationMatrix() Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// pitchLimit keeps the ZYX decomposition away from the straight-up/down
// attitudes where the yaw/roll split is ill-defined.
const pitchLimit = math.Pi/2 - 1e-6

// Euler extracts ZYX yaw/pitch/roll in radians. Yaw is measured about
// world up from east toward north; pitch is positive nose above the
// horizon; roll is positive right wing down.
func (q Quat) Euler() (yaw, pitch, roll float64) {
	m := q.RotationMatrix()
	yaw = math.Atan2(m[3], m[0])
	pitch = math.Asin(Clamp(m[6], -1, 1))
	pitch = Clamp(pitch, -pitchLimit, pitchLimit)
	roll = math.Atan2(-m[7], m[8])
	return yaw, pitch, roll
}

func axisAngle(x, y, z, angle float64) Quat {
	s := math.Sin(angle / 2)
	return Quat{X: x * s, Y: y * s, Z: z * s, W: math.Cos(angle / 2)}
}

// QuatFromEuler builds the attitude quaternion from ZYX yaw/pitch/roll,
// inverse of Euler.
func QuatFromEuler(yaw, pitch, roll float64) Quat {
	qz := axisAngle(0, 0, 1, yaw)
	qy := axisAngle(0, 1, 0, -pitch)
	qx := axisAngle(1, 0, 0, -roll)
	return qz.Mul(qy).Mul(qx).Normalize()
}
