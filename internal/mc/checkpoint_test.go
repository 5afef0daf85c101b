package mc

import (
	"math"
	"testing"

	"github.com/gonum/floats"

	"github.com/relaysim/sentinel"
)

func checkpointTestWorld() *World {
	w := NewWorld(NewSimRNG(7))
	w.SimTime = 123.5

	sat := NewEntity("sat1", "Sentinel-1", "satellite", "blue")
	sat.PhysicsType = PhysicsOrbital2Body
	sat.ECIPos = smd.Vec3{X: 6778137.0, Y: 1000.0, Z: -2000.0}
	sat.ECIVel = smd.Vec3{X: 10.0, Y: 7668.0, Z: 5.0}
	w.AddEntity(sat)

	ac := NewEntity("ac1", "Viper-1", "aircraft", "blue")
	ac.PhysicsType = PhysicsFlight3DOF
	ac.GeoLatDeg = 35.0
	ac.GeoLonDeg = -117.0
	ac.GeoAltM = 8000.0
	ac.FlightSpeedMS = 250.0
	ac.FlightGammaRad = 0.05
	ac.FlightHeadingRad = 1.2
	w.AddEntity(ac)

	site := NewEntity("sam1", "Patriot", "sam", "blue")
	site.PhysicsType = PhysicsStatic
	site.GeoLatDeg = 34.5
	site.GeoLonDeg = -116.5
	site.GeoAltM = 600.0
	w.AddEntity(site)

	return w
}

func TestCheckpointRoundTrip(t *testing.T) {
	w := checkpointTestWorld()

	data, err := SaveCheckpoint(w, "SIMULATION", 1.0)
	if err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	// Scribble over the live state the way a continued run would, then
	// restore from the checkpoint.
	sat := w.Get("sat1")
	savedPos, savedVel := sat.ECIPos, sat.ECIVel
	sat.ECIPos = smd.Vec3{X: 1, Y: 2, Z: 3}
	sat.ECIVel = smd.Vec3{}

	ac := w.Get("ac1")
	ac.GeoLatDeg, ac.GeoLonDeg, ac.GeoAltM = 0, 0, 0
	ac.FlightSpeedMS, ac.FlightGammaRad, ac.FlightHeadingRad = 0, 0, 0

	w.SimTime = 9999.0

	mode, timeScale, err := LoadCheckpoint(data, w)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if mode != "SIMULATION" || timeScale != 1.0 {
		t.Errorf("mode/timeScale = %q/%v, want SIMULATION/1.0", mode, timeScale)
	}
	if w.SimTime != 123.5 {
		t.Errorf("SimTime = %v, want 123.5", w.SimTime)
	}

	if sat.ECIPos != savedPos || sat.ECIVel != savedVel {
		t.Errorf("orbital state not restored exactly: pos %v vel %v", sat.ECIPos, sat.ECIVel)
	}

	if !floats.EqualWithinAbs(ac.GeoLatDeg, 35.0, 1e-6) ||
		!floats.EqualWithinAbs(ac.GeoLonDeg, -117.0, 1e-6) ||
		!floats.EqualWithinAbs(ac.GeoAltM, 8000.0, 0.1) {
		t.Errorf("flight position not restored: %v %v %v", ac.GeoLatDeg, ac.GeoLonDeg, ac.GeoAltM)
	}
	if !floats.EqualWithinAbs(ac.FlightSpeedMS, 250.0, 1e-6) ||
		!floats.EqualWithinAbs(ac.FlightGammaRad, 0.05, 1e-9) ||
		!floats.EqualWithinAbs(ac.FlightHeadingRad, 1.2, 1e-9) {
		t.Errorf("flight state not restored: V=%v gamma=%v psi=%v",
			ac.FlightSpeedMS, ac.FlightGammaRad, ac.FlightHeadingRad)
	}
}

func TestCheckpointUnknownEntity(t *testing.T) {
	w := checkpointTestWorld()
	data, err := SaveCheckpoint(w, "MODEL", 1.0)
	if err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	fresh := NewWorld(NewSimRNG(7))
	if _, _, err := LoadCheckpoint(data, fresh); err == nil {
		t.Error("expected error loading into a world missing the checkpointed entities")
	}
}

func TestCheckpointDomainMismatch(t *testing.T) {
	w := checkpointTestWorld()
	data, err := SaveCheckpoint(w, "MODEL", 1.0)
	if err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	w.Get("sat1").PhysicsType = PhysicsFlight3DOF
	if _, _, err := LoadCheckpoint(data, w); err == nil {
		t.Error("expected error when checkpoint domain disagrees with scenario domain")
	}
}

func TestCheckpointRejectsBadInput(t *testing.T) {
	w := checkpointTestWorld()

	if _, _, err := LoadCheckpoint([]byte(`{"version":0,"entities":[]}`), w); err == nil {
		t.Error("expected version rejection")
	}
	if _, _, err := LoadCheckpoint([]byte(`not json`), w); err == nil {
		t.Error("expected parse error")
	}
}

func TestENUVelocityRoundTrip(t *testing.T) {
	cases := []struct {
		speed, gamma, heading float64
	}{
		{250.0, 0.0, 0.0},
		{300.0, 0.1, math.Pi / 2},
		{100.0, -0.3, 5.5},
	}
	lat, lon := 0.6, -2.0
	for _, c := range cases {
		vel := enuVelocity(lat, lon, c.speed, c.gamma, c.heading)
		speed, gamma, heading := flightStateFromECEFVelocity(lat, lon, vel)
		if !floats.EqualWithinAbs(speed, c.speed, 1e-9) ||
			!floats.EqualWithinAbs(gamma, c.gamma, 1e-9) ||
			!floats.EqualWithinAbs(heading, c.heading, 1e-9) {
			t.Errorf("round trip (%v,%v,%v) -> (%v,%v,%v)",
				c.speed, c.gamma, c.heading, speed, gamma, heading)
		}
	}
}
