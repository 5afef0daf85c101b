package smd

import (
	"math"
	"testing"
)

const muEarthSI = 3.986004418e14

func TestSolveKeplerEquationResidual(t *testing.T) {
	for _, e := range []float64{0, 0.001, 0.1, 0.5, 0.8, 0.89} {
		for _, M := range []float64{0, 0.5, 1.5, 3.0, 4.5, 6.0} {
			E := SolveKeplerEquation(M, e)
			residual := E - e*math.Sin(E) - M
			if math.Abs(residual) > 1e-9 {
				t.Fatalf("e=%f M=%f: residual=%g, want <1e-9", e, M, residual)
			}
		}
	}
}

func TestAnomalyRoundTrip(t *testing.T) {
	for _, e := range []float64{0, 0.01, 0.3, 0.7} {
		for nu := 0.0; nu < 2*math.Pi; nu += 0.3 {
			M := TrueToMeanAnomaly(nu, e)
			got := MeanToTrueAnomaly(M, e)
			diff := wrap2Pi(got - nu)
			if diff > math.Pi {
				diff = 2*math.Pi - diff
			}
			if diff > 1e-8 {
				t.Fatalf("e=%f nu=%f: round-tripped to %f (diff %g)", e, nu, got, diff)
			}
		}
	}
}

// TestKeplerElementsStateRoundTrip checks that elements -> state ->
// elements round-trips to within 1 m / 1 mm/s for LEO, GEO, and an
// eccentric orbit.
func TestKeplerElementsStateRoundTrip(t *testing.T) {
	cases := []struct {
		name                             string
		a, e, i, raan, argPe, nu         float64
	}{
		{"LEO", 6778137.0, 0.001, 51.6 * math.Pi / 180, 30 * math.Pi / 180, 40 * math.Pi / 180, 10 * math.Pi / 180},
		{"GEO", 42164137.0, 0.0005, 0.05 * math.Pi / 180, 100 * math.Pi / 180, 200 * math.Pi / 180, 300 * math.Pi / 180},
		{"eccentric", 10000000.0, 0.4, 28 * math.Pi / 180, 200 * math.Pi / 180, 15 * math.Pi / 180, 250 * math.Pi / 180},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, v := ElementsToStateVectors(c.a, c.e, c.i, c.raan, c.argPe, c.nu, muEarthSI)
			a2, e2, i2, raan2, argPe2, nu2 := StateVectorsToElements(r, v, muEarthSI)
			r2, v2 := ElementsToStateVectors(a2, e2, i2, raan2, argPe2, nu2, muEarthSI)

			dPos := r.Sub(r2).Norm()
			dVel := v.Sub(v2).Norm()
			if dPos > 1.0 {
				t.Errorf("%s: position round-trip error %g m, want <1 m", c.name, dPos)
			}
			if dVel > 1e-3 {
				t.Errorf("%s: velocity round-trip error %g m/s, want <1mm/s", c.name, dVel)
			}
			if math.Abs(a2-c.a) > 1.0 {
				t.Errorf("%s: sma round-tripped to %f, want %f", c.name, a2, c.a)
			}
			if math.Abs(e2-c.e) > 1e-9 {
				t.Errorf("%s: ecc round-tripped to %f, want %f", c.name, e2, c.e)
			}
		})
	}
}

func TestMeanMotionAndPropagation(t *testing.T) {
	a := 6778137.0
	n := MeanMotion(muEarthSI, a)
	period := 2 * math.Pi / n
	// A full period should return to the same mean anomaly.
	M0 := 1.2345
	Mfull := PropagateMeanAnomaly(M0, n, period)
	diff := math.Abs(wrap2Pi(Mfull) - wrap2Pi(M0))
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	if diff > 1e-6 {
		t.Fatalf("mean anomaly after one full period drifted by %g rad", diff)
	}
}

func TestPropagateMeanAnomalyWraps(t *testing.T) {
	got := PropagateMeanAnomaly(6.0, 1.0, 1.0)
	if got < 0 || got >= 2*math.Pi {
		t.Fatalf("PropagateMeanAnomaly should wrap into [0, 2pi), got %f", got)
	}
}
