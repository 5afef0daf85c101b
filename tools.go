package smd

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// TransferType picks which branch of the Lambert geometry a solve should
// take: short/long way, and zero- versus one-revolution.
type TransferType uint8

const (
	// TTypeAuto asks Lambert to pick short/long way from the geometry.
	TTypeAuto TransferType = iota + 1
	TType1                // zero revolutions, short way
	TType2                // zero revolutions, long way
	TType3                // one revolution, short way
	TType4                // one revolution, long way

	universalVarEps  = 1e-4                   // convergence tolerance on φ
	transferTimeEps  = 1e-4                   // convergence tolerance on Δt, seconds
	trueAnomalyEps   = (5e-5 / 180) * math.Pi // ~0.00005°, guards a degenerate 0/0 transfer
)

// Longway reports whether this transfer type goes around the long way.
func (t TransferType) Longway() bool {
	switch t {
	case TType1, TType3:
		return false
	case TType2, TType4:
		return true
	default:
		panic(fmt.Errorf("cannot determine whether long or short way for %s", t))
	}
}

// Revs returns the number of whole revolutions this transfer type makes.
func (t TransferType) Revs() float64 {
	switch t {
	case TTypeAuto, TType1, TType2:
		return 0
	case TType3, TType4:
		return 1
	default:
		panic("unknown transfer type")
	}
}

func (t TransferType) String() string {
	switch t {
	case TTypeAuto:
		return "auto-revs"
	case TType1:
		return "type-1"
	case TType2:
		return "type-2"
	case TType3:
		return "type-3"
	case TType4:
		return "type-4"
	default:
		panic("unknown transfer type")
	}
}

// Hohmann solves the circular-to-circular special case directly: given the
// departure/arrival radii (velocities are unused but kept for symmetry with
// Lambert's call shape) and a central body, it returns the transfer orbit's
// departure/arrival speeds and the one-way time of flight (half the
// transfer ellipse's period). Subtracting the circular speeds at rI/rF from
// vDeparture/vArrival yields the two burn magnitudes.
func Hohmann(rI, vI, rF, vF float64, body CelestialObject) (vDeparture, vArrival float64, tof time.Duration) {
	aXfer := 0.5 * (rI + rF)
	vDeparture = math.Sqrt(2*body.GM()/rI - body.GM()/aXfer)
	vArrival = math.Sqrt(2*body.GM()/rF - body.GM()/aXfer)
	tof = time.Duration(math.Pi*math.Sqrt(math.Pow(aXfer, 3)/body.GM())) * time.Second
	return
}

// stumpffC2C3 evaluates the universal-variable Stumpff functions c2(φ),
// c3(φ) used throughout the Lambert bisection below, branching on the sign
// of φ between the trigonometric (elliptic), hyperbolic, and parabolic
// (φ≈0) regimes.
func stumpffC2C3(phi float64) (c2, c3 float64) {
	switch {
	case phi > universalVarEps:
		sp := math.Sqrt(phi)
		sinSp, cosSp := math.Sincos(sp)
		c2 = (1 - cosSp) / phi
		c3 = (sp - sinSp) / math.Sqrt(math.Pow(phi, 3))
	case phi < -universalVarEps:
		sp := math.Sqrt(-phi)
		c2 = (1 - math.Cosh(sp)) / phi
		c3 = (math.Sinh(sp) - sp) / math.Sqrt(math.Pow(-phi, 3))
	default:
		c2 = 1.0 / 2.0
		c3 = 1.0 / 6.0
	}
	return
}

// lambertRevBounds narrows the φ search bracket for a multi-revolution
// (type-3/type-4) transfer by scanning for the φ that minimizes the time
// of flight, then assigning that as the lower or upper bound depending on
// which side of the minimum-energy solution ttype asks for.
func lambertRevBounds(ttype TransferType, rI, rF, a, mu, phiUp float64) (phiLow, phiHighOut float64) {
	const scanFloor = 15.0
	minTOF := 4000 * 24 * 3600.0
	phiAtMin := 0.0

	for phi := scanFloor; phi < phiUp; phi += 0.1 {
		c2, c3 := stumpffC2C3(phi)
		y := rI + rF + a*(phi*c3-1)/math.Sqrt(c2)
		chi := math.Sqrt(y / c2)
		tof := (math.Pow(chi, 3)*c3 + a*math.Sqrt(y)) / math.Sqrt(mu)
		if tof < minTOF {
			minTOF = tof
			phiAtMin = phi
		}
	}

	if ttype == TType3 {
		return phiUp, phiAtMin
	}
	// TType4
	return phiAtMin, phiUp
}

// Lambert solves Lambert's orbital boundary value problem via the
// universal-variable (φ, Stumpff c2/c3) formulation: given the departure
// and arrival position vectors, the desired time of flight, a transfer
// type, and the central body, it bisects on φ until the implied time of
// flight matches Δt0, then returns the departure/arrival velocities.
func Lambert(Ri, Rf *mat64.Vector, Δt0 time.Duration, ttype TransferType, body CelestialObject) (Vi, Vf *mat64.Vector, phi float64, err error) {
	Vi = mat64.NewVector(3, nil)
	Vf = mat64.NewVector(3, nil)

	riRows, _ := Ri.Dims()
	rfRows, _ := Rf.Dims()
	if riRows != rfRows || riRows != 3 {
		return Vi, Vf, 0, errors.New("initial and final radii must be 3x1 vectors")
	}

	targetTOF := Δt0.Seconds()
	rI := mat64.Norm(Ri, 2)
	rF := mat64.Norm(Rf, 2)
	cosDeltaNu := mat64.Dot(Ri, Rf) / (rI * rF)

	// Direction of motion: short way unless the caller forces the long way,
	// or auto-detection finds the swept true anomaly exceeds a half-turn.
	direction := 1.0
	switch ttype {
	case TType2:
		direction = -1.0
	case TTypeAuto:
		sweptNu := math.Atan2(Rf.At(1, 0), Rf.At(0, 0)) - math.Atan2(Ri.At(1, 0), Ri.At(0, 0))
		if sweptNu > 2*math.Pi {
			sweptNu -= 2 * math.Pi
		} else if sweptNu < 0 {
			sweptNu += 2 * math.Pi
		}
		if sweptNu > math.Pi {
			direction = -1.0
		}
	}

	a := direction * math.Sqrt(rI*rF*(1+cosDeltaNu))
	nuI := math.Atan2(Ri.At(1, 0), Ri.At(0, 0))
	nuF := math.Atan2(Rf.At(1, 0), Rf.At(0, 0))
	if nuF-nuI < trueAnomalyEps && floats.EqualWithinAbs(a, 0, universalVarEps) {
		return Vi, Vf, 0, errors.New("cannot compute trajectory: Δν ~=0 and A ~=0")
	}

	phiHigh := 4 * math.Pow(math.Pi, 2) * math.Pow(ttype.Revs()+1, 2)
	phiLow := -4 * math.Pi
	if ttype.Revs() > 0 {
		phiLow, phiHigh = lambertRevBounds(ttype, rI, rF, a, body.μ, phiHigh)
	}

	c2, c3 := 1/2., 1/6.
	var tof, y float64
	var iterations uint
	for math.Abs(tof-targetTOF) > transferTimeEps {
		if iterations > 10000 {
			return Vi, Vf, 0, errors.New("did not converge after 10000 iterations")
		}
		iterations++

		y = rI + rF + a*(phi*c3-1)/math.Sqrt(c2)
		if a > 0 && y < 0 {
			// Widen φ until y recovers positivity (Vallado's "y<0" patch).
			for growIt := 0; y < 0; growIt++ {
				if growIt > 10000 {
					return Vi, Vf, 0, errors.New("did not converge after 10000 attempts to increase φ")
				}
				phi += 0.1
				y = rI + rF + a*(phi*c3-1)/math.Sqrt(c2)
			}
		}

		chi := math.Sqrt(y / c2)
		tof = (math.Pow(chi, 3)*c3 + a*math.Sqrt(y)) / math.Sqrt(body.μ)

		aboveTarget := tof <= targetTOF
		if ttype == TType3 {
			aboveTarget = tof >= targetTOF
		}
		if aboveTarget {
			phiLow = phi
		} else {
			phiHigh = phi
		}
		phi = (phiHigh + phiLow) / 2
		c2, c3 = stumpffC2C3(phi)
	}

	f := 1 - y/rI
	gDot := 1 - y/rF
	g := a * math.Sqrt(y/body.μ)

	Rf2 := mat64.NewVector(3, nil)
	Vi.AddScaledVec(Rf, -f, Ri)
	Vi.ScaleVec(1/g, Vi)
	Rf2.ScaleVec(gDot, Rf)
	Vf.AddScaledVec(Rf2, -1, Ri)
	Vf.ScaleVec(1/g, Vf)
	return Vi, Vf, phi, nil
}
