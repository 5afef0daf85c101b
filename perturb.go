package smd

import "math"

// earthRotationRate is ω_⊕, used by the drag term's co-rotating
// atmosphere model.
const earthRotationRate = 7.2921159e-5 // rad/s

// auKm is one astronomical unit in kilometers, matching celestial.go's AU
// constant so SRP's (1 AU / r)² term uses the same convention as the rest
// of the package.
const auKm = 1.49597870700e8

// PerturbationConfig selects which terms AccelerationComposer.Accelerate
// includes. Zero value means central-term-only.
type PerturbationConfig struct {
	J2, J3, J4 bool
	ThirdBodySun, ThirdBodyMoon bool
	SRP  bool
	Drag bool

	Cr   float64 // SRP reflectivity coefficient
	AreaOverMassSRP float64 // m²/kg
	Cd   float64 // drag coefficient
	AreaOverMassDrag float64 // m²/kg
}

// AccelerationComposer evaluates the full perturbation acceleration in
// the central body's inertial frame, for a given central CelestialObject
// and (optionally) Sun/Moon ephemerides.
type AccelerationComposer struct {
	Central *CelestialObject
	Config  PerturbationConfig

	// SunPosition and MoonPosition return the inertial position (km, same
	// frame as r) of the Sun/Moon at Julian date jd; nil if the
	// corresponding third-body/SRP terms are unused. Wired to ephemeris.go.
	SunPosition  func(jd float64) Vec3
	MoonPosition func(jd float64) Vec3
}

// Accelerate returns total inertial acceleration (km/s²) at position r
// (km), velocity v (km/s), Julian date jd. This is the RK4 state
// derivative's velocity-derivative term.
func (ac *AccelerationComposer) Accelerate(r, v Vec3, jd float64) Vec3 {
	rNorm := r.Norm()
	if rNorm < 1.0e-3 {
		// Degenerate: inside the central body. This function is pure and
		// has no logger of its own; returning zero here lets the caller
		// log but not abort, for |r| < 1 m (1e-3 km).
		return Vec3{}
	}

	total := ac.centralTerm(r, rNorm)

	if ac.Config.J2 {
		total = total.Add(ac.zonalJ2(r, rNorm))
	}
	if ac.Config.J3 {
		total = total.Add(ac.zonalJ3(r, rNorm))
	}
	if ac.Config.J4 {
		total = total.Add(ac.zonalJ4(r, rNorm))
	}
	if ac.Config.ThirdBodySun && ac.SunPosition != nil {
		total = total.Add(thirdBodyTerm(r, ac.SunPosition(jd), Sun.μ))
	}
	if ac.Config.ThirdBodyMoon && ac.MoonPosition != nil {
		total = total.Add(thirdBodyTerm(r, ac.MoonPosition(jd), moonGM))
	}
	if ac.Config.SRP && ac.SunPosition != nil {
		total = total.Add(ac.srpTerm(r, ac.SunPosition(jd)))
	}
	if ac.Config.Drag {
		total = total.Add(ac.dragTerm(r, v, rNorm))
	}
	return total
}

// centralTerm is a_central = -μ r / |r|³, always included.
func (ac *AccelerationComposer) centralTerm(r Vec3, rNorm float64) Vec3 {
	return r.Scale(-ac.Central.μ / (rNorm * rNorm * rNorm))
}

// zonalJ2 is the Cartesian J2 oblateness term, for any Central body.
func (ac *AccelerationComposer) zonalJ2(r Vec3, rNorm float64) Vec3 {
	μ := ac.Central.μ
	R := ac.Central.Radius
	J2 := ac.Central.J(2)
	factor := -(3 * μ * J2 * R * R) / (2 * math.Pow(rNorm, 5))
	z2OverR2 := 5 * r.Z * r.Z / (rNorm * rNorm)
	return Vec3{
		X: factor * r.X * (1 - z2OverR2),
		Y: factor * r.Y * (1 - z2OverR2),
		Z: factor * r.Z * (3 - z2OverR2),
	}
}

// zonalJ3 is the standard closed-form J3 zonal-harmonic term, following
// the same leading -μ J_n R^n / r^(n+2) factor pattern as the J2 case.
func (ac *AccelerationComposer) zonalJ3(r Vec3, rNorm float64) Vec3 {
	μ := ac.Central.μ
	R := ac.Central.Radius
	J3 := ac.Central.J(3)
	z := r.Z
	r2 := rNorm * rNorm
	factor := -(5 * μ * J3 * R * R * R) / (2 * math.Pow(rNorm, 7))
	return Vec3{
		X: factor * r.X * (3*z - 7*z*z*z/r2),
		Y: factor * r.Y * (3*z - 7*z*z*z/r2),
		Z: factor * (6*z*z - 7*z*z*z*z/r2 - 3.0/5.0*r2),
	}
}

// zonalJ4, same grounding rationale as zonalJ3.
func (ac *AccelerationComposer) zonalJ4(r Vec3, rNorm float64) Vec3 {
	μ := ac.Central.μ
	R := ac.Central.Radius
	J4 := ac.Central.J(4)
	z := r.Z
	r2 := rNorm * rNorm
	z2 := z * z
	factor := (15 * μ * J4 * math.Pow(R, 4)) / (8 * math.Pow(rNorm, 7))
	return Vec3{
		X: factor * r.X * (1 - 14.0*z2/r2 + 21.0*z2*z2/(r2*r2)),
		Y: factor * r.Y * (1 - 14.0*z2/r2 + 21.0*z2*z2/(r2*r2)),
		Z: factor * r.Z * (5 - 70.0/3.0*z2/r2 + 21.0*z2*z2/(r2*r2)),
	}
}

// thirdBodyTerm implements the third-body contribution:
// μ_B · ((r_B − r)/|r_B − r|³ − r_B/|r_B|³). The r_B/|r_B|³ indirect
// term is essential — it is the
// acceleration of the central body itself toward the perturbing body,
// which must be subtracted to get the *relative* perturbation.
func thirdBodyTerm(r, rBody Vec3, muBody float64) Vec3 {
	delta := rBody.Sub(r)
	deltaNorm := delta.Norm()
	rBodyNorm := rBody.Norm()
	direct := delta.Scale(1 / (deltaNorm * deltaNorm * deltaNorm))
	indirect := rBody.Scale(1 / (rBodyNorm * rBodyNorm * rBodyNorm))
	return direct.Sub(indirect).Scale(muBody)
}

// moonGM is the Moon's gravitational parameter (km³/s²); celestial.go
// predefines the Sun and planets but not the Moon, so this value is
// carried as a bare constant rather than a CelestialObject — standard
// published value (DE-series constant).
const moonGM = 4902.800118

// srpTerm implements solar radiation pressure with
// cylindrical-shadow test. solarPressureAt1AU (P₀) is the standard solar
// constant expressed as radiation pressure.
const solarPressureAt1AU = 4.56e-6 // N/m² at 1 AU; combined with AreaOverMassSRP (m²/kg) in srpTerm

func (ac *AccelerationComposer) srpTerm(r, rSun Vec3) Vec3 {
	sunToSC := r.Sub(rSun)
	if ac.inShadow(r, rSun) {
		return Vec3{}
	}
	dist := sunToSC.Norm()
	distAU := dist / auKm
	// P0 is defined in N/m² (SI); AreaOverMassSRP is in m²/kg. Acceleration
	// in m/s² is then converted to km/s² by the 1e-3 factor.
	magSI := solarPressureAt1AU * ac.Config.Cr * ac.Config.AreaOverMassSRP / (distAU * distAU)
	return sunToSC.Unit().Scale(magSI * 1e-3)
}

// inShadow implements the cylindrical shadow test: project r onto the
// r_sun axis (from Earth toward the Sun); the spacecraft is shadowed when
// that projection is on the anti-sun side and its perpendicular distance
// to the axis is less than R_earth.
func (ac *AccelerationComposer) inShadow(r, rSun Vec3) bool {
	sunDir := rSun.Unit()
	proj := r.Dot(sunDir)
	if proj >= 0 {
		return false
	}
	perp := r.Sub(sunDir.Scale(proj))
	return perp.Norm() < ac.Central.Radius
}

// dragTerm implements an exponential-atmosphere drag model: evaluated only within
// 200 km of the surface, co-rotating atmosphere via ω_⊕ × r.
func (ac *AccelerationComposer) dragTerm(r, v Vec3, rNorm float64) Vec3 {
	altitudeKm := rNorm - ac.Central.Radius
	if altitudeKm >= 200 {
		return Vec3{}
	}
	omega := Vec3{0, 0, earthRotationRate}
	vRelKmS := v.Sub(omega.Cross(r)) // km/s, since r is km and ω is rad/s
	vRelNormKmS := vRelKmS.Norm()

	atm := GetAtmosphere(altitudeKm * 1000) // atmosphere.go works in SI meters
	// a_drag = -1/2 rho Cd (A/m) |v_rel| v_rel, evaluated in SI (m, m/s,
	// m/s²) then scaled back to km/s² for this package's convention.
	magPerKmS := -0.5 * atm.Density * ac.Config.Cd * ac.Config.AreaOverMassDrag * vRelNormKmS * 1000
	return vRelKmS.Scale(magPerKmS)
}
