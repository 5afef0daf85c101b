package mc

import (
	"math"
	"testing"

	smd "github.com/relaysim/sentinel"
)

func TestGeodeticECEFRoundTrip(t *testing.T) {
	cases := []struct {
		name          string
		latDeg, lonDeg, altM float64
	}{
		{"equator-prime-meridian", 0, 0, 0},
		{"mid-latitude", 45.0, -93.0, 1000.0},
		{"high-latitude", 75.0, 150.0, 12000.0},
		{"southern", -33.5, 151.0, 50.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			latRad := c.latDeg * math.Pi / 180
			lonRad := c.lonDeg * math.Pi / 180
			ecef := GeodeticToECEF(latRad, lonRad, c.altM)
			lat2, lon2, alt2 := ECEFToGeodetic(ecef)

			if d := math.Abs(lat2 - latRad); d > 1e-9 {
				t.Errorf("lat round-trip error %g rad", d)
			}
			if d := math.Abs(lon2 - lonRad); d > 1e-9 {
				t.Errorf("lon round-trip error %g rad", d)
			}
			if d := math.Abs(alt2 - c.altM); d > 1e-3 {
				t.Errorf("alt round-trip error %g m", d)
			}
		})
	}
}

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	if d := HaversineDistance(0.5, 1.0, 0.5, 1.0); d != 0 {
		t.Fatalf("HaversineDistance(p,p) = %g, want 0", d)
	}
}

func TestHaversineDistanceQuarterCircumference(t *testing.T) {
	// North pole to equator is a quarter of the great circle.
	d := HaversineDistance(math.Pi/2, 0, 0, 0)
	want := rEarthMean * math.Pi / 2
	if math.Abs(d-want) > 1.0 {
		t.Fatalf("pole-to-equator distance = %g, want %g", d, want)
	}
}

func TestGreatCircleBearingCardinalDirections(t *testing.T) {
	// Due north: bearing 0.
	if b := GreatCircleBearing(0, 0, 0.1, 0); math.Abs(b) > 1e-6 {
		t.Fatalf("due-north bearing = %g, want 0", b)
	}
	// Due east along the equator: bearing pi/2.
	if b := GreatCircleBearing(0, 0, 0, 0.1); math.Abs(b-math.Pi/2) > 1e-6 {
		t.Fatalf("due-east bearing = %g, want pi/2", b)
	}
}

func TestAngleDiffWrapsToShortestPath(t *testing.T) {
	cases := []struct{ a, b, want float64 }{
		{0.1, 0, 0.1},
		{0, 0.1, -0.1},
		{-math.Pi + 0.1, math.Pi - 0.1, 0.2},
	}
	for _, c := range cases {
		got := AngleDiff(c.a, c.b)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("AngleDiff(%g,%g) = %g, want %g", c.a, c.b, got, c.want)
		}
		if got > math.Pi || got < -math.Pi {
			t.Errorf("AngleDiff(%g,%g) = %g out of [-pi,pi]", c.a, c.b, got)
		}
	}
}

func TestSlantRangeECEFZeroForSamePoint(t *testing.T) {
	if d := SlantRangeECEF(0.3, 0.4, 1000, 0.3, 0.4, 1000); d > 1e-6 {
		t.Fatalf("SlantRangeECEF(p,p) = %g, want ~0", d)
	}
}

func TestDestinationPointNorthMatchesHaversine(t *testing.T) {
	lat, lon := 0.2, 0.3
	dist := 100000.0
	lat2, lon2 := DestinationPoint(lat, lon, 0, dist)
	if math.Abs(lon2-lon) > 1e-6 {
		t.Fatalf("travelling due north should not change longitude: got %g, want %g", lon2, lon)
	}
	got := HaversineDistance(lat, lon, lat2, lon2)
	if math.Abs(got-dist) > 1.0 {
		t.Fatalf("destination point distance = %g, want %g", got, dist)
	}
}

func TestElevationAngleOverheadAndHorizon(t *testing.T) {
	e := ElevationAngle(0, 0, 0, 0, 0, 1000)
	if math.Abs(e-90) > 1e-6 {
		t.Fatalf("directly overhead elevation = %g, want 90", e)
	}
	e = ElevationAngle(0, 0, 1000, 0, 0, 0)
	if math.Abs(e-(-90)) > 1e-6 {
		t.Fatalf("directly below elevation = %g, want -90", e)
	}
}

func TestECIToECEFIdentityAtZeroTime(t *testing.T) {
	pos := smd.Vec3{X: 7000000, Y: 1000000, Z: 500000}
	got := ECIToECEF(pos, 0)
	if got != pos {
		t.Fatalf("ECIToECEF at simTime=0 = %+v, want identity %+v", got, pos)
	}
}

func TestECIToECEFPreservesNorm(t *testing.T) {
	pos := smd.Vec3{X: 7000000, Y: 1000000, Z: 500000}
	got := ECIToECEF(pos, 3600)
	if d := math.Abs(got.Norm() - pos.Norm()); d > 1e-6 {
		t.Fatalf("rotation about Z should preserve vector norm: before=%g after=%g", pos.Norm(), got.Norm())
	}
	if math.Abs(got.Z-pos.Z) > 1e-9 {
		t.Fatalf("rotation about Z should not change the Z component: %g vs %g", got.Z, pos.Z)
	}
}
