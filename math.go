package smd

import (
	"math"

	"github.com/gonum/floats"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
)

// norm returns the Euclidean length of a 3-vector expressed as a plain
// []float64, for the handful of call sites (orbit.go's orbital-element
// extraction, celestial.go's ephemerides) that predate Vec3 and still
// carry raw slices rather than the Vec3 type.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns a, scaled to unit length; the zero vector maps to itself
// rather than dividing by zero.
func unit(a []float64) []float64 {
	n := norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b := make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return b
}

// sign returns -1 or 1, treating exact (or near-) zero as positive so
// callers dividing by sign(x) never hit a zero denominator.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot is the inner product of two equal-length slices.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// cross is the 3-vector cross product a × b.
func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Spherical2Cartesian converts a (r, θ, φ) spherical triple — radius,
// polar angle from +Z, azimuth from +X — into Cartesian coordinates.
func Spherical2Cartesian(a []float64) []float64 {
	sθ, cθ := math.Sincos(a[1])
	sφ, cφ := math.Sincos(a[2])
	return []float64{
		a[0] * sθ * cφ,
		a[0] * sθ * sφ,
		a[0] * cθ,
	}
}

// Cartesian2Spherical is the inverse of Spherical2Cartesian; the zero
// vector maps to (0, 0, 0) rather than dividing by a zero radius.
func Cartesian2Spherical(a []float64) []float64 {
	r := norm(a)
	if r == 0 {
		return []float64{0, 0, 0}
	}
	return []float64{r, math.Acos(a[2] / r), math.Atan2(a[1], a[0])}
}

// Deg2rad converts degrees to radians, wrapped into [0, 2π).
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, wrapped into [0, 360).
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a*rad2deg, 360)
}
