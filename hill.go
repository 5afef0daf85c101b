package smd

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Clohessy-Wiltshire relative motion about a circular reference orbit,
// expressed with the same `gonum/matrix/mat64` idiom used for every
// other matrix-shaped computation here (rotation.go's R1/R2/R3,
// tools.go's Lambert).

// RICFrame is the basis (R̂, Î, Ĉ) of the radial/in-track/cross-track
// frame attached to a target on a circular reference orbit.
type RICFrame struct {
	Rhat, Ihat, Chat Vec3
}

// NewRICFrame builds the RIC basis from the target's inertial state:
// R̂ = r̂_t, Ĉ = ĥ where h = r_t × v_t, Î = Ĉ × R̂.
func NewRICFrame(rTarget, vTarget Vec3) RICFrame {
	rHat := rTarget.Unit()
	h := rTarget.Cross(vTarget)
	cHat := h.Unit()
	iHat := cHat.Cross(rHat)
	return RICFrame{Rhat: rHat, Ihat: iHat, Chat: cHat}
}

// ToRIC expresses an inertial vector in this RIC basis.
func (f RICFrame) ToRIC(v Vec3) Vec3 {
	return Vec3{v.Dot(f.Rhat), v.Dot(f.Ihat), v.Dot(f.Chat)}
}

// FromRIC expresses a RIC-frame vector back in the inertial basis
// (symmetric inverse rotation, since R̂/Î/Ĉ are orthonormal).
func (f RICFrame) FromRIC(v Vec3) Vec3 {
	return Vec3{
		X: v.X*f.Rhat.X + v.Y*f.Ihat.X + v.Z*f.Chat.X,
		Y: v.X*f.Rhat.Y + v.Y*f.Ihat.Y + v.Z*f.Chat.Y,
		Z: v.X*f.Rhat.Z + v.Y*f.Ihat.Z + v.Z*f.Chat.Z,
	}
}

// RelativeState computes the chaser's position/velocity relative to the
// target, expressed in the target's RIC frame (an
// "inertial → RIC" transform). The relative velocity does not account
// for frame rotation, which is sufficient for
// planning-level accuracy.
func RelativeState(rChaser, vChaser, rTarget, vTarget Vec3) (relPos, relVel Vec3, frame RICFrame) {
	frame = NewRICFrame(rTarget, vTarget)
	relPos = frame.ToRIC(rChaser.Sub(rTarget))
	relVel = frame.ToRIC(vChaser.Sub(vTarget))
	return
}

// CWBlocks holds the four 3×3 Clohessy-Wiltshire state-transition blocks
// for mean motion n and elapsed time t: r(t) = Φrr r0 + Φrv v0,
// v(t) = Φvr r0 + Φvv v0.
type CWBlocks struct {
	Phirr, Phirv, Phivr, Phivv *mat64.Dense
}

// NewCWBlocks computes the standard CW state-transition matrix blocks.
func NewCWBlocks(n, t float64) CWBlocks {
	nt := n * t
	s, c := math.Sincos(nt)

	phirr := mat64.NewDense(3, 3, []float64{
		4 - 3*c, 0, 0,
		6 * (s - nt), 1, 0,
		0, 0, c,
	})
	phirv := mat64.NewDense(3, 3, []float64{
		s / n, 2 * (1 - c) / n, 0,
		-2 * (1 - c) / n, (4*s - 3*nt) / n, 0,
		0, 0, s / n,
	})
	phivr := mat64.NewDense(3, 3, []float64{
		3 * n * s, 0, 0,
		-6 * n * (1 - c), 0, 0,
		0, 0, -n * s,
	})
	phivv := mat64.NewDense(3, 3, []float64{
		c, 2 * s, 0,
		-2 * s, 4*c - 3, 0,
		0, 0, c,
	})
	return CWBlocks{Phirr: phirr, Phirv: phirv, Phivr: phivr, Phivv: phivv}
}

// Propagate advances a RIC relative state (r0, v0) by this block set.
func (b CWBlocks) Propagate(r0, v0 Vec3) (r, v Vec3) {
	r = mat64Mul3(b.Phirr, r0).Add(mat64Mul3(b.Phirv, v0))
	v = mat64Mul3(b.Phivr, r0).Add(mat64Mul3(b.Phivv, v0))
	return
}

func mat64Mul3(m *mat64.Dense, v Vec3) Vec3 {
	vVec := mat64.NewVector(3, v.Slice())
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return Vec3{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// TwoImpulseTransfer solves for the RIC departure velocity v0 that
// carries r0 to rF in time T under mean motion n: the
// in-plane (R,I) 2×2 block and the cross-track scalar equation decouple.
// Returns the two impulses Δv1 = v0 - vCurrent and Δv2 = -vF (arrival
// brake to match the target's zero relative velocity).
func TwoImpulseTransfer(r0, rF, vCurrent Vec3, n, transferTime float64) (deltaV1, deltaV2 Vec3, err error) {
	b := NewCWBlocks(n, transferTime)

	// In-plane 2x2 block: solve Φrv_inplane v0_inplane = rF_inplane - Φrr r0.
	rhs := rF.Sub(mat64Mul3(b.Phirr, r0))

	phirvInplane := mat64.NewDense(2, 2, []float64{
		b.Phirv.At(0, 0), b.Phirv.At(0, 1),
		b.Phirv.At(1, 0), b.Phirv.At(1, 1),
	})
	var phirvInv mat64.Dense
	if err2 := phirvInv.Inverse(phirvInplane); err2 != nil {
		return Vec3{}, Vec3{}, err2
	}
	rhsInplane := mat64.NewVector(2, []float64{rhs.X, rhs.Y})
	var v0Inplane mat64.Vector
	v0Inplane.MulVec(&phirvInv, rhsInplane)

	// Cross-track scalar equation: rF_z = Φrv_zz * v0_z (Φrr_zz*r0_z
	// already folded into rhs.Z above).
	v0z := rhs.Z / b.Phirv.At(2, 2)

	v0 := Vec3{v0Inplane.At(0, 0), v0Inplane.At(1, 0), v0z}
	vF := mat64Mul3(b.Phivr, r0).Add(mat64Mul3(b.Phivv, v0))

	deltaV1 = v0.Sub(vCurrent)
	deltaV2 = vF.Scale(-1)
	return deltaV1, deltaV2, nil
}

// VBarApproach plans a V-bar (along in-track) approach: rF = (0, range, 0).
func VBarApproach(r0, vCurrent Vec3, n, rng, approachRate float64) (deltaV1, deltaV2 Vec3, err error) {
	rF := Vec3{0, rng, 0}
	transferTime := math.Abs(rng) / math.Max(approachRate, 1e-9)
	return TwoImpulseTransfer(r0, rF, vCurrent, n, transferTime)
}

// RBarApproach plans an R-bar (radial) approach: rF = (range, 0, 0).
func RBarApproach(r0, vCurrent Vec3, n, rng, approachRate float64) (deltaV1, deltaV2 Vec3, err error) {
	rF := Vec3{rng, 0, 0}
	transferTime := math.Abs(rng) / math.Max(approachRate, 1e-9)
	return TwoImpulseTransfer(r0, rF, vCurrent, n, transferTime)
}
