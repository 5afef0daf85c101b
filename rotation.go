package smd

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// axisRotation builds the direction-cosine matrix for a right-handed
// rotation of `angle` radians about the given axis (1, 2, or 3).
func axisRotation(axis int, angle float64) *mat64.Dense {
	s, c := math.Sincos(angle)
	switch axis {
	case 1:
		return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
	case 2:
		return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
	case 3:
		return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
	default:
		panic("axisRotation: axis must be 1, 2, or 3")
	}
}

// R1 is the DCM for a rotation about the first axis.
func R1(angle float64) *mat64.Dense { return axisRotation(1, angle) }

// R2 is the DCM for a rotation about the second axis.
func R2(angle float64) *mat64.Dense { return axisRotation(2, angle) }

// R3 is the DCM for a rotation about the third axis.
func R3(angle float64) *mat64.Dense { return axisRotation(3, angle) }

// R3R1R3 returns the composite 3-1-3 Euler-angle DCM R3(θ3)·R1(θ2)·R3(θ1),
// expanded by hand into closed form rather than chaining three mat64.Mul
// calls (Schaub & Junkins' convention; the Vallado text has a sign error
// here).
func R3R1R3(θ1, θ2, θ3 float64) *mat64.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat64.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// Rot313Vec applies a 3-1-3 Euler rotation directly to a vector, used by
// orbit.go to carry PQW-frame position/velocity into the inertial frame.
func Rot313Vec(θ1, θ2, θ3 float64, v []float64) []float64 {
	return MxV33(R3R1R3(θ1, θ2, θ3), v)
}

// MxV33 multiplies a 3x3 matrix by a 3-vector. Callers are responsible for
// the dimensions matching; no check is performed here.
func MxV33(m *mat64.Dense, v []float64) []float64 {
	result := mat64.NewVector(3, nil)
	result.MulVec(m, mat64.NewVector(len(v), v))
	return []float64{result.At(0, 0), result.At(1, 0), result.At(2, 0)}
}
