package smd

import (
	"errors"
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
)

// SolveLambert solves Lambert's problem: given two position vectors, a
// time of flight, a gravitational parameter, and a prograde/retrograde
// direction flag, return the transfer velocities at each endpoint, or an
// error for unsolvable geometry, non-convergence, or a non-positive time
// of flight. This is a thin Vec3
// adapter over `Lambert` (tools.go, universal-variables
// algorithm, unchanged below) — a synthetic CelestialObject carries the
// caller's bare μ, since this signature takes μ directly rather than
// a named body the way tools.go's signature does.
func SolveLambert(r1, r2 Vec3, transferTime, mu float64, longWay bool) (v1, v2 Vec3, err error) {
	if transferTime <= 0 {
		return Vec3{}, Vec3{}, errors.New("lambert: time of flight must be positive")
	}
	body := CelestialObject{Name: "lambert-μ", μ: mu}
	ttype := TType1
	if longWay {
		ttype = TType2
	}
	Ri := mat64.NewVector(3, r1.Slice())
	Rf := mat64.NewVector(3, r2.Slice())
	Vi, Vf, _, lerr := Lambert(Ri, Rf, time.Duration(transferTime*float64(time.Second)), ttype, body)
	if lerr != nil {
		return Vec3{}, Vec3{}, lerr
	}
	v1 = Vec3{Vi.At(0, 0), Vi.At(1, 0), Vi.At(2, 0)}
	v2 = Vec3{Vf.At(0, 0), Vf.At(1, 0), Vf.At(2, 0)}
	return v1, v2, nil
}

// HohmannTransfer implements the simple circular-to-circular special
// case, a thin Vec3-agnostic pass-through to
// `Hohmann` (tools.go): radii and a central body in, departure/arrival
// speeds and time of flight out.
func HohmannTransfer(r1, r2, mu float64) (deltaV1, deltaV2 float64, tof time.Duration) {
	body := CelestialObject{Name: "hohmann-μ", μ: mu}
	vDeparture, vArrival, transferTOF := Hohmann(r1, 0, r2, 0, body)
	vCircular1 := math.Sqrt(mu / r1)
	vCircular2 := math.Sqrt(mu / r2)
	return vDeparture - vCircular1, vCircular2 - vArrival, transferTOF
}
