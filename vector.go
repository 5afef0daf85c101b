package smd

import "math"

// Vec3 is an ordered triple of IEEE-754 double floats, the basic position,
// velocity, and acceleration type used throughout the core. Functions that
// already operate on []float64 or *mat64.Vector (norm, unit, cross, dot in
// math.go) remain the low-level primitives; Vec3 is the ergonomic wrapper
// the rest of the package and the Monte Carlo engine build on.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 returns a Vec3 from three components.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Vec3FromSlice builds a Vec3 from a length-3 slice, panicking otherwise:
// a caller passing the wrong length is a programmer error, not recoverable
// input.
func Vec3FromSlice(v []float64) Vec3 {
	if len(v) != 3 {
		panic("Vec3FromSlice requires a length-3 slice")
	}
	return Vec3{v[0], v[1], v[2]}
}

// Slice returns the components as a []float64 for interop with the
// gonum/matrix-based routines (rotation.go, tools.go, hill.go).
func (v Vec3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the inner product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns |v|.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v/|v|, or the zero vector if v is within 1e-12 of zero
// (mirrors math.go's unit epsilon).
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Quat is a scalar-first unit quaternion (w, x, y, z) representing
// attitude. The normalization invariant |q| ∈ [1-ε, 1+ε] is re-enforced
// by Normalize after every integration step; nothing in this package
// silently renormalizes on every access, since that would mask an
// integrator bug.
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// Norm returns the quaternion's 4-vector norm.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize rescales q to unit norm. Panics on a degenerate (near-zero)
// quaternion: that can only happen from an integrator bug upstream, not
// from any valid input this package produces.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n < 1e-12 {
		panic("cannot normalize a near-zero quaternion")
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Mul composes rotations: applying the result is equivalent to applying
// q second, p first (standard Hamilton product, p followed by q is q*p).
func (q Quat) Mul(p Quat) Quat {
	return Quat{
		W: q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		X: q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		Y: q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		Z: q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
	}
}

// Rotate applies q's rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	qv := Quat{0, v.X, v.Y, v.Z}
	conj := Quat{q.W, -q.X, -q.Y, -q.Z}
	r := q.Mul(qv).Mul(conj)
	return Vec3{r.X, r.Y, r.Z}
}

// Integrate advances q by angular velocity ω (rad/s, body frame) over dt
// using the standard quaternion kinematic equation q̇ = ½ q ⊗ (0, ω), then
// re-normalizes, restoring the |q| ∈ [1-ε, 1+ε] invariant every step.
func (q Quat) Integrate(omega Vec3, dt float64) Quat {
	dq := Quat{0, omega.X, omega.Y, omega.Z}
	qdot := q.Mul(dq)
	next := Quat{
		q.W + 0.5*qdot.W*dt,
		q.X + 0.5*qdot.X*dt,
		q.Y + 0.5*qdot.Y*dt,
		q.Z + 0.5*qdot.Z*dt,
	}
	return next.Normalize()
}

// Frame tags the interpretation of a StateVector's position/velocity.
type Frame uint8

// Recognized reference frames.
const (
	J2000ECI Frame = iota
	TEME
	ECEF
	HeliocentricJ2000
	PlanetCentered
	BodyFrame
)

func (f Frame) String() string {
	switch f {
	case J2000ECI:
		return "J2000_ECI"
	case TEME:
		return "TEME"
	case ECEF:
		return "ECEF"
	case HeliocentricJ2000:
		return "HELIOCENTRIC_J2000"
	case PlanetCentered:
		return "PLANET_CENTERED"
	case BodyFrame:
		return "BODY"
	default:
		panic("unknown Frame")
	}
}

// StateVector is the full kinematic+attitude state threaded through the
// RK4 core. AngularVelocity is in the body frame.
type StateVector struct {
	Position        Vec3
	Velocity        Vec3
	Attitude        Quat
	AngularVelocity Vec3
	Time            float64
	Frame           Frame
}

// AssertSameFrame panics if a and b tag different frames: combining
// vectors across frames without an explicit transform is a programmer
// error the core refuses to paper over.
func AssertSameFrame(a, b Frame) {
	if a != b {
		panic("frame mismatch: " + a.String() + " vs " + b.String())
	}
}
