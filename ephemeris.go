package smd

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/planetposition"
)

// earthVSOP87 caches the loaded VSOP87 Earth series across calls, exactly
// as CelestialObject.PP caches it in celestial.go's HelioOrbit.
var earthVSOP87 *planetposition.V87Planet

// Ephemeris provides the geocentric positions (km, Earth-equatorial
// J2000 frame) the acceleration composer needs for third-body and SRP
// terms. Two implementations: the default analytical
// low-precision series, and an optional meeus-backed HighPrecision one.
type Ephemeris struct {
	// HighPrecision switches SunPosition/MoonPosition from the bundled
	// analytical series to the meeus VSOP87 Earth series (the same data
	// CelestialObject.HelioOrbit loads, read directly here; only affects the Sun term here, since the Sun's own position in a
	// geocentric frame is just the negative of Earth's heliocentric
	// position; meeus has no bundled low-level Moon series so
	// MoonPosition always uses the analytical formula below).
	HighPrecision bool
}

// SunPosition returns the Sun's position (km) relative to Earth's center
// at Julian date jd. The default path reuses Earth's low-precision
// analytical heliocentric series and negates it, since
// r_sun_from_earth = -r_earth_from_sun. HighPrecision
// instead loads Earth's VSOP87 series directly via
// `github.com/soniakeys/meeus/planetposition`, the same library call
// `celestial.go:HelioOrbit` makes for Venus/Earth/Mars/Jupiter, rather
// than going through that method's `smdConfig().VSOP87` gate (which this
// package wants to exercise unconditionally when HighPrecision is
// requested, independent of the ambient viper config). Both series are
// ecliptic, so the result is rotated into the equatorial frame by the
// J2000 obliquity.
func (e Ephemeris) SunPosition(jd float64) Vec3 {
	var rEarth Vec3
	if e.HighPrecision {
		if earthVSOP87 == nil {
			planet, err := planetposition.LoadPlanetPath(2, smdConfig().VSOP87Dir) // Earth is VSOP87 body index 2 (0=Mercury)
			if err != nil {
				panic(fmt.Errorf("could not load VSOP87 Earth series: %s", err))
			}
			earthVSOP87 = planet
		}
		l, b, r := earthVSOP87.Position2000(jd)
		r *= AU
		sB, cB := math.Sincos(b.Rad())
		sL, cL := math.Sincos(l.Rad())
		rEarth = Vec3{r * cB * cL, r * cB * sL, r * sB}
	} else {
		rEarth = earthHeliocentricPositionLowPrecision(jd)
	}
	sun := rEarth.Scale(-1)
	sinEps, cosEps := math.Sincos(23.439291 * deg2rad)
	return Vec3{X: sun.X, Y: sun.Y*cosEps - sun.Z*sinEps, Z: sun.Y*sinEps + sun.Z*cosEps}
}

// MoonPosition returns the Moon's position (km) relative to Earth's
// center at Julian date jd, via a low-precision analytical lunar theory
// (Meeus ch. 47's abbreviated series, truncated to the leading periodic
// terms) — adequate for third-body perturbation magnitudes.
func (e Ephemeris) MoonPosition(jd float64) Vec3 {
	t := (jd - 2451545.0) / 36525.0

	lPrime := wrapDeg(218.3164477 + 481267.88123421*t)
	d := wrapDeg(297.8501921 + 445267.1114034*t)
	m := wrapDeg(357.5291092 + 35999.0502909*t)
	mPrime := wrapDeg(134.9633964 + 477198.8675055*t)
	f := wrapDeg(93.2720950 + 483202.0175233*t)

	dRad := d * deg2rad
	mRad := m * deg2rad
	mPrimeRad := mPrime * deg2rad
	fRad := f * deg2rad

	// Leading-term longitude, latitude (degrees), and distance (km)
	// perturbations; truncated series, adequate for planning-level
	// third-body perturbation magnitudes ("analytical, low precision"
	// ephemerides are sufficient here).
	sigmaL := 6.288774*math.Sin(mPrimeRad) +
		1.274027*math.Sin(2*dRad-mPrimeRad) +
		0.658314*math.Sin(2*dRad) +
		0.213618*math.Sin(2*mPrimeRad) -
		0.185116*math.Sin(mRad) -
		0.114332*math.Sin(2*fRad)

	sigmaB := 5.128122*math.Sin(fRad) +
		0.280602*math.Sin(mPrimeRad+fRad) +
		0.277693*math.Sin(mPrimeRad-fRad) +
		0.173237*math.Sin(2*dRad-fRad)

	sigmaR := -20905.355*math.Cos(mPrimeRad) -
		3699.111*math.Cos(2*dRad-mPrimeRad) -
		2955.968*math.Cos(2*dRad)

	lambda := wrapDeg(lPrime+sigmaL) * deg2rad
	beta := sigmaB * deg2rad
	dist := 385000.56 + sigmaR // km

	eps := (23.439291 - 0.0130042*t) * deg2rad

	sinLambda, cosLambda := math.Sincos(lambda)
	sinBeta, cosBeta := math.Sincos(beta)
	sinEps, cosEps := math.Sincos(eps)

	xEcl := dist * cosBeta * cosLambda
	yEcl := dist * cosBeta * sinLambda
	zEcl := dist * sinBeta

	return Vec3{
		X: xEcl,
		Y: yEcl*cosEps - zEcl*sinEps,
		Z: yEcl*sinEps + zEcl*cosEps,
	}
}

// earthHeliocentricPositionLowPrecision is the low-order analytical
// Earth orbital series (Meeus, ch. 25, truncated) used as this
// package's default ephemerides path; the full VSOP87 series is
// reserved for the opt-in HighPrecision mode.
func earthHeliocentricPositionLowPrecision(jd float64) Vec3 {
	t := (jd - 2451545.0) / 36525.0
	tVec := []float64{1, t, t * t, t * t * t}

	L := []float64{100.466449, 35999.3728519, -0.00000568, 0.0}
	a := []float64{1.000001018, 0.0, 0.0, 0.0}
	eVec := []float64{0.01670862, -0.000042037, -0.0000001236, 0.00000000004}
	i := []float64{0.0, 0.0130546, -0.00000931, -0.000000034}
	W := []float64{174.873174, -0.2410908, 0.00004067, -0.000001327}
	P := []float64{102.937348, 0.3225557, 0.00015026, 0.000000478}

	// The series coefficients are in degrees; NewOrbitFromOE also takes
	// degrees. Only the equation-of-center evaluation needs radians.
	valLDeg := dot(L, tVec)
	valSMA := dot(a, tVec) * AU
	e := dot(eVec, tVec)
	valIncDeg := dot(i, tVec)
	valWDeg := dot(W, tVec)
	valPDeg := dot(P, tVec)
	wDeg := valPDeg - valWDeg
	m := (valLDeg - valPDeg) * deg2rad

	ccen := (2*e-math.Pow(e, 3)/4+5./96*math.Pow(e, 5))*math.Sin(m) +
		(5./4*math.Pow(e, 2)-11./24*math.Pow(e, 4))*math.Sin(2*m) +
		(13./12*math.Pow(e, 3)-43./64*math.Pow(e, 5))*math.Sin(3*m) +
		103./96*math.Pow(e, 4)*math.Sin(4*m) +
		1097./960*math.Pow(e, 5)*math.Sin(5*m)
	nuDeg := (m + ccen) * rad2deg

	r, _ := NewOrbitFromOE(valSMA, e, valIncDeg, valWDeg, wDeg, nuDeg, Sun).RV()
	return Vec3FromSlice(r)
}

func wrapDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
