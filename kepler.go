package smd

import "math"

// This file adds the mean-anomaly direction of the Kepler solver that
// orbit.go's RV2COE path (state → elements only) does not cover: solving
// Kepler's equation M = E - e sin E by Newton-Raphson, the anomaly
// conversions needed to go the other way (elements → state), and mean-motion
// propagation. These are expressed on plain float64s (angles in radians, a
// and μ in whatever consistent unit system the caller uses) so both the
// kilometer-based astrodynamics core (orbit.go, Orbit.Origin.μ in km³/s²) and
// the meter-based Monte Carlo tick engine (internal/mc, SI throughout) share
// the same implementation.

// keplerMaxIter bounds the Newton-Raphson loop; convergence happens in
// under 10 iterations for e < 0.9, with 20 as the hard ceiling.
const keplerMaxIter = 20

// keplerTol is the |ΔE| convergence tolerance.
const keplerTol = 1e-10

// SolveKeplerEquation finds the eccentric anomaly E satisfying
// M = E - e sin E for 0 <= e < 1, starting from E0 = M.
func SolveKeplerEquation(M, e float64) float64 {
	E := M
	for iter := 0; iter < keplerMaxIter; iter++ {
		f := E - e*math.Sin(E) - M
		fPrime := 1 - e*math.Cos(E)
		dE := f / fPrime
		E -= dE
		if math.Abs(dE) < keplerTol {
			break
		}
	}
	return E
}

// EccentricToTrueAnomaly converts eccentric anomaly E to true anomaly ν.
func EccentricToTrueAnomaly(E, e float64) float64 {
	sinHalfE, cosHalfE := math.Sincos(E / 2)
	return 2 * math.Atan2(math.Sqrt(1+e)*sinHalfE, math.Sqrt(1-e)*cosHalfE)
}

// TrueToEccentricAnomaly converts true anomaly ν to eccentric anomaly E,
// wrapped to [0, 2π).
func TrueToEccentricAnomaly(nu, e float64) float64 {
	sinHalfNu, cosHalfNu := math.Sincos(nu / 2)
	E := 2 * math.Atan2(math.Sqrt(1-e)*sinHalfNu, math.Sqrt(1+e)*cosHalfNu)
	return wrap2Pi(E)
}

// EccentricToMeanAnomaly converts eccentric anomaly E to mean anomaly M.
func EccentricToMeanAnomaly(E, e float64) float64 {
	return wrap2Pi(E - e*math.Sin(E))
}

// TrueToMeanAnomaly is the composition used when ingesting a state: true →
// eccentric → mean.
func TrueToMeanAnomaly(nu, e float64) float64 {
	return EccentricToMeanAnomaly(TrueToEccentricAnomaly(nu, e), e)
}

// MeanToTrueAnomaly is the composition used when advancing a propagated
// state: mean → eccentric (Newton-Raphson) → true.
func MeanToTrueAnomaly(M, e float64) float64 {
	return EccentricToTrueAnomaly(SolveKeplerEquation(M, e), e)
}

// MeanMotion returns n = sqrt(μ/a³).
func MeanMotion(mu, a float64) float64 {
	return math.Sqrt(mu / (a * a * a))
}

// PropagateMeanAnomaly advances M by n·Δt, wrapped to [0, 2π).
func PropagateMeanAnomaly(M, n, dt float64) float64 {
	return wrap2Pi(M + n*dt)
}

func wrap2Pi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ElementsToStateVectors implements elements → state (perifocal then
// Rz(Ω)Rx(i)Rz(ω)) directly on plain floats. Angles in
// radians; a and mu in consistent units. This is the function
// NewOrbitFromOE (orbit.go) and the Monte Carlo engine's
// init_from_elements both reduce to — orbit.go keeps its own km-flavored
// copy via Rot313Vec for cache/epsilon compatibility with the rest of that
// file, while callers working in SI (internal/mc) use this one directly.
func ElementsToStateVectors(a, e, i, raan, argPeriapsis, nu, mu float64) (Vec3, Vec3) {
	p := a * (1 - e*e)
	sinNu, cosNu := math.Sincos(nu)
	denom := 1 + e*cosNu
	rPQW := Vec3{p * cosNu / denom, p * sinNu / denom, 0}
	muOverP := math.Sqrt(mu / p)
	vPQW := Vec3{-muOverP * sinNu, muOverP * (e + cosNu), 0}

	rIJK := rotate313(-argPeriapsis, -i, -raan, rPQW)
	vIJK := rotate313(-argPeriapsis, -i, -raan, vPQW)
	return rIJK, vIJK
}

// rotate313 performs the 3-1-3 Euler rotation used by COE2RV, the Vec3
// equivalent of rotation.go's Rot313Vec/R3R1R3 (same trig layout, kept
// alongside rather than routed through mat64 to avoid an allocation on
// every per-tick Kepler-step call in the Monte Carlo engine).
func rotate313(theta1, theta2, theta3 float64, v Vec3) Vec3 {
	s1, c1 := math.Sincos(theta1)
	s2, c2 := math.Sincos(theta2)
	s3, c3 := math.Sincos(theta3)
	return Vec3{
		X: (c3*c1-s3*c2*s1)*v.X + (c3*s1+s3*c2*c1)*v.Y + (s3*s2)*v.Z,
		Y: (-s3*c1-c3*c2*s1)*v.X + (-s3*s1+c3*c2*c1)*v.Y + (c3*s2)*v.Z,
		Z: (s2*s1)*v.X + (-s2*c1)*v.Y + c2*v.Z,
	}
}

// StateVectorsToElements implements state → elements on plain Vec3/mu, the
// SI-friendly sibling of orbit.go's Orbit.Elements() (which additionally
// caches against an Orbit's Origin and handles the km-scale epsilons used
// by the rest of that file). Used by the Monte Carlo engine's per-tick
// Kepler propagator, where a fresh conversion is wanted every tick with no
// caching (the state itself changes every tick).
func StateVectorsToElements(r, v Vec3, mu float64) (a, e, i, raan, argPeriapsis, nu float64) {
	h := r.Cross(v)
	n := Vec3{0, 0, 1}.Cross(h)
	rNorm := r.Norm()
	vNorm := v.Norm()
	xi := vNorm*vNorm/2 - mu/rNorm
	a = -mu / (2 * xi)

	eVec := Vec3{
		X: ((vNorm*vNorm-mu/rNorm)*r.X - r.Dot(v)*v.X) / mu,
		Y: ((vNorm*vNorm-mu/rNorm)*r.Y - r.Dot(v)*v.Y) / mu,
		Z: ((vNorm*vNorm-mu/rNorm)*r.Z - r.Dot(v)*v.Z) / mu,
	}
	e = eVec.Norm()

	i = math.Acos(clamp(h.Z/h.Norm(), -1, 1))

	nNorm := n.Norm()
	if nNorm < 1e-9 {
		raan = 0
	} else {
		raan = math.Acos(clamp(n.X/nNorm, -1, 1))
		if n.Y < 0 {
			raan = 2*math.Pi - raan
		}
	}

	if e < 1e-9 {
		argPeriapsis = 0
	} else if nNorm < 1e-9 {
		argPeriapsis = math.Atan2(eVec.Y, eVec.X)
	} else {
		argPeriapsis = math.Acos(clamp(n.Dot(eVec)/(nNorm*e), -1, 1))
		if eVec.Z < 0 {
			argPeriapsis = 2*math.Pi - argPeriapsis
		}
	}

	if e < 1e-9 {
		// Circular: use argument of latitude in place of true anomaly.
		if nNorm < 1e-9 {
			nu = math.Atan2(r.Y, r.X)
		} else {
			nu = math.Acos(clamp(n.Dot(r)/(nNorm*rNorm), -1, 1))
			if r.Z < 0 {
				nu = 2*math.Pi - nu
			}
		}
	} else {
		cosNu := clamp(eVec.Dot(r)/(e*rNorm), -1, 1)
		nu = math.Acos(cosNu)
		if r.Dot(v) < 0 {
			nu = 2*math.Pi - nu
		}
	}

	i = wrap2Pi(i)
	raan = wrap2Pi(raan)
	argPeriapsis = wrap2Pi(argPeriapsis)
	nu = wrap2Pi(nu)
	return
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
