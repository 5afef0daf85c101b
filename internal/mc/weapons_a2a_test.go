package mc

import "testing"

func newA2AShooter(id, team string) *Entity {
	e := NewEntity(id, id, "aircraft", team)
	e.PhysicsType = PhysicsFlight3DOF
	e.WeaponType = WeaponA2AMissile
	e.A2ALockTime = 1.0
	e.A2AInventory["aim120"] = 2
	return e
}

func TestUpdateA2AMissileFullKillChainGuaranteedHit(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	shooter := newA2AShooter("f1", "blue")
	shooter.A2ASpecs = map[string]WeaponSpec{
		"aim120": {Name: "aim120", RangeM: 80000, Pk: 1.0, SpeedMS: 1000},
	}
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	target.PhysicsType = PhysicsFlight3DOF
	w.AddEntity(shooter)
	w.AddEntity(target)

	shooter.A2AEngagements = []A2AEngagement{{TargetID: "bandit", Phase: 0, PhaseTimer: shooter.A2ALockTime, WeaponType: "aim120"}}

	// LOCK -> GUIDE, consumes one round of inventory and logs LAUNCH
	UpdateA2AMissile(shooter.A2ALockTime, w)
	if shooter.A2AInventory["aim120"] != 1 {
		t.Fatalf("aim120 inventory = %d, want 1 after firing", shooter.A2AInventory["aim120"])
	}
	if len(shooter.A2AEngagements) != 1 || shooter.A2AEngagements[0].Phase != 1 {
		t.Fatalf("engagements = %+v, want phase GUIDE(1)", shooter.A2AEngagements)
	}

	// GUIDE -> ASSESS, guaranteed hit kills the target
	tof := shooter.A2AEngagements[0].PhaseTimer
	UpdateA2AMissile(tof, w)
	if !target.Destroyed {
		t.Fatal("guaranteed-hit shot should destroy the target")
	}
	if len(shooter.A2AEngagements) != 1 || shooter.A2AEngagements[0].Phase != 2 {
		t.Fatalf("engagements = %+v, want phase ASSESS(2)", shooter.A2AEngagements)
	}

	// ASSESS complete, engagement drops
	UpdateA2AMissile(a2aAssessTime, w)
	if len(shooter.A2AEngagements) != 0 {
		t.Fatalf("engagements = %+v, want empty after assess completes", shooter.A2AEngagements)
	}
}

func TestUpdateA2AMissileSkipsWithoutAmmo(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	shooter := newA2AShooter("f1", "blue")
	shooter.A2AInventory["aim120"] = 0
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	w.AddEntity(shooter)
	w.AddEntity(target)
	shooter.HasRadar = true
	shooter.RadarDetections = []RadarDetection{{EntityID: "bandit"}}

	UpdateA2AMissile(1.0, w)

	if len(shooter.A2AEngagements) != 0 {
		t.Fatal("a shooter with empty inventory should never start a new engagement")
	}
}

func TestUpdateA2AMissileAcquiresFromRadarDetection(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	shooter := newA2AShooter("f1", "blue")
	shooter.HasRadar = true
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	w.AddEntity(shooter)
	w.AddEntity(target)
	shooter.RadarDetections = []RadarDetection{{EntityID: "bandit"}}

	UpdateA2AMissile(0.1, w)

	if len(shooter.A2AEngagements) != 1 {
		t.Fatalf("engagements = %+v, want a new LOCK against bandit", shooter.A2AEngagements)
	}
	if shooter.A2AEngagements[0].TargetID != "bandit" {
		t.Fatalf("engagement target = %q, want bandit", shooter.A2AEngagements[0].TargetID)
	}
}

func TestSelectBestA2AWeaponPrefersShortestSufficientRange(t *testing.T) {
	e := NewEntity("f1", "f1", "aircraft", "blue")
	ensureDefaultA2ASpecs(e)
	e.A2AInventory["aim120"] = 1
	e.A2AInventory["aim9"] = 1

	got := selectBestA2AWeapon(e, 10000)
	if got == nil {
		t.Fatal("expected a weapon selection within range")
	}
	if got.Name != "aim9" {
		t.Fatalf("selected %q, want aim9 (shortest range covering 10km)", got.Name)
	}
}

func TestSelectBestA2AWeaponFallsBackToSmallestWithAmmo(t *testing.T) {
	e := NewEntity("f1", "f1", "aircraft", "blue")
	ensureDefaultA2ASpecs(e)
	e.A2AInventory["aim9"] = 1 // 18km range; aim120's 80km envelope covers 50km

	got := selectBestA2AWeapon(e, 50000)
	if got == nil {
		t.Fatal("expected the smallest-with-ammo fallback while within aim120's envelope")
	}
	if got.Name != "aim9" {
		t.Fatalf("fallback selected %q, want aim9", got.Name)
	}
}

func TestSelectBestA2AWeaponReturnsNilWhenNoneInRange(t *testing.T) {
	e := NewEntity("f1", "f1", "aircraft", "blue")
	ensureDefaultA2ASpecs(e)
	e.A2AInventory["aim9"] = 1

	if got := selectBestA2AWeapon(e, 100000); got != nil {
		t.Fatalf("selectBestA2AWeapon should return nil beyond every weapon's envelope, got %+v", got)
	}
}

func TestUpdateA2AMissileHoldLetsExistingEngagementComplete(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	shooter := newA2AShooter("f1", "blue")
	shooter.EngagementRules = WeaponsHold
	shooter.A2ASpecs = map[string]WeaponSpec{
		"aim120": {Name: "aim120", RangeM: 80000, Pk: 1.0, SpeedMS: 1000},
	}
	shooter.HasRadar = true
	target := NewEntity("bandit", "bandit", "aircraft", "red")
	target.PhysicsType = PhysicsFlight3DOF
	w.AddEntity(shooter)
	w.AddEntity(target)

	shooter.A2AEngagements = []A2AEngagement{{TargetID: "bandit", Phase: 0, PhaseTimer: shooter.A2ALockTime, WeaponType: "aim120"}}
	shooter.RadarDetections = []RadarDetection{{EntityID: "bandit"}}

	UpdateA2AMissile(shooter.A2ALockTime, w)

	if len(shooter.A2AEngagements) != 1 || shooter.A2AEngagements[0].Phase != 1 {
		t.Fatalf("engagements = %+v, want the pre-hold engagement advanced to GUIDE(1)", shooter.A2AEngagements)
	}
	if shooter.A2AInventory["aim120"] != 1 {
		t.Fatalf("aim120 inventory = %d, want 1 (pre-hold engagement still fires)", shooter.A2AInventory["aim120"])
	}
}
