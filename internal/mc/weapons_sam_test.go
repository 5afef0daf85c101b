package mc

import "testing"

func newSAMBattery(id, team string) *Entity {
	e := NewEntity(id, id, "sam", team)
	e.PhysicsType = PhysicsStatic
	e.WeaponType = WeaponSAMBattery
	e.SAMMaxRangeM = 150000
	e.SAMMinRangeM = 5000
	e.SAMMissileSpeedMS = 1000
	e.SAMMissilesReady = 8
	e.SAMSalvoSize = 2
	e.SAMPkPerMissile = 1.0
	return e
}

func TestUpdateSAMBatteryFullKillChainGuaranteedHit(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	sam := newSAMBattery("sam1", "blue")
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	target.PhysicsType = PhysicsFlight3DOF
	target.GeoAltM = 8000
	w.AddEntity(sam)
	w.AddEntity(target)

	sam.SAMEngagements = []SAMEngagement{{TargetID: "bandit", Phase: 0, PhaseTimer: samDetectTime}}

	// DETECT -> TRACK
	UpdateSAMBattery(samDetectTime, w)
	if len(sam.SAMEngagements) != 1 || sam.SAMEngagements[0].Phase != 1 {
		t.Fatalf("after detect timer, phase = %+v, want TRACK(1)", sam.SAMEngagements)
	}
	readyBefore := sam.SAMMissilesReady

	// TRACK -> ENGAGE, fires a salvo
	UpdateSAMBattery(samTrackTime, w)
	if len(sam.SAMEngagements) != 1 || sam.SAMEngagements[0].Phase != 2 {
		t.Fatalf("after track timer, phase = %+v, want ENGAGE(2)", sam.SAMEngagements)
	}
	if sam.SAMMissilesReady != readyBefore-sam.SAMSalvoSize {
		t.Fatalf("missiles ready = %d, want %d consumed by the salvo", sam.SAMMissilesReady, readyBefore-sam.SAMSalvoSize)
	}
	launches := 0
	for _, eng := range sam.Engagements {
		if eng.Result == "LAUNCH" {
			launches++
		}
	}
	if launches != sam.SAMSalvoSize {
		t.Fatalf("LAUNCH engagements = %d, want %d", launches, sam.SAMSalvoSize)
	}

	// ENGAGE -> ASSESS, guaranteed hit kills the target
	tof := sam.SAMEngagements[0].PhaseTimer
	UpdateSAMBattery(tof, w)
	if !target.Destroyed {
		t.Fatal("guaranteed-hit salvo should destroy the target")
	}
	if len(sam.SAMEngagements) != 1 || sam.SAMEngagements[0].Phase != 3 {
		t.Fatalf("after engage timer, phase = %+v, want ASSESS(3)", sam.SAMEngagements)
	}

	// ASSESS complete, engagement drops
	UpdateSAMBattery(samAssessTime, w)
	if len(sam.SAMEngagements) != 0 {
		t.Fatalf("SAMEngagements = %+v, want empty after assess completes", sam.SAMEngagements)
	}
}

func TestUpdateSAMBatteryAcquiresFromRadarDetection(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	sam := newSAMBattery("sam1", "blue")
	radar := NewEntity("radar1", "radar1", "radar", "blue")
	radar.PhysicsType = PhysicsStatic
	radar.HasRadar = true
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	target.PhysicsType = PhysicsFlight3DOF
	target.GeoLonDeg = 0.1
	target.GeoAltM = 8000
	w.AddEntity(sam)
	w.AddEntity(radar)
	w.AddEntity(target)

	radar.RadarDetections = []RadarDetection{{EntityID: "bandit"}}

	UpdateSAMBattery(0.1, w)

	if len(sam.SAMEngagements) != 1 {
		t.Fatalf("SAMEngagements = %+v, want a new DETECT engagement against bandit", sam.SAMEngagements)
	}
	if sam.SAMEngagements[0].TargetID != "bandit" {
		t.Fatalf("engagement target = %q, want bandit", sam.SAMEngagements[0].TargetID)
	}
}

func TestUpdateSAMBatteryRespectsWeaponsHold(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	sam := newSAMBattery("sam1", "blue")
	sam.EngagementRules = WeaponsHold
	radar := NewEntity("radar1", "radar1", "radar", "blue")
	radar.HasRadar = true
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	target.GeoLonDeg = 0.1
	target.GeoAltM = 8000
	w.AddEntity(sam)
	w.AddEntity(radar)
	w.AddEntity(target)
	radar.RadarDetections = []RadarDetection{{EntityID: "bandit"}}

	UpdateSAMBattery(0.1, w)

	if len(sam.SAMEngagements) != 0 {
		t.Fatal("a battery under weapons_hold should never start a new engagement")
	}
}

func TestUpdateSAMBatteryIgnoresGroundTargets(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	sam := newSAMBattery("sam1", "blue")
	radar := NewEntity("radar1", "radar1", "radar", "blue")
	radar.HasRadar = true
	ground := NewEntity("truck", "truck", "ground", "red")
	ground.PhysicsType = PhysicsStatic
	ground.GeoLonDeg = 0.1
	w.AddEntity(sam)
	w.AddEntity(radar)
	w.AddEntity(ground)
	radar.RadarDetections = []RadarDetection{{EntityID: "truck"}}

	UpdateSAMBattery(0.1, w)

	if len(sam.SAMEngagements) != 0 {
		t.Fatal("ground (PhysicsStatic) targets should never be acquired by SAM")
	}
}

func TestUpdateSAMBatteryHoldLetsExistingEngagementComplete(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	sam := newSAMBattery("sam1", "blue")
	sam.EngagementRules = WeaponsHold
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	target.PhysicsType = PhysicsFlight3DOF
	target.GeoLonDeg = 0.1
	target.GeoAltM = 8000
	w.AddEntity(sam)
	w.AddEntity(target)

	sam.SAMEngagements = []SAMEngagement{{TargetID: "bandit", Phase: 1, PhaseTimer: samTrackTime}}

	UpdateSAMBattery(samTrackTime, w)

	if len(sam.SAMEngagements) != 1 || sam.SAMEngagements[0].Phase != 2 {
		t.Fatalf("engagements = %+v, want the pre-hold engagement advanced to ENGAGE->ASSESS wait", sam.SAMEngagements)
	}
	if sam.SAMMissilesReady == 8 {
		t.Fatal("pre-hold engagement should still fire its salvo under weapons_hold")
	}
}
