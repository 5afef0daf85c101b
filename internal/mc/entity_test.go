package mc

import (
	"testing"

	kitlog "github.com/go-kit/kit/log"
)

func TestNewWorldAddAndGetEntity(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	if w.EntityCount() != 0 {
		t.Fatalf("new world entity count = %d, want 0", w.EntityCount())
	}

	e1 := NewEntity("e1", "Alpha", "aircraft", "blue")
	e2 := NewEntity("e2", "Bravo", "satellite", "red")
	w.AddEntity(e1)
	w.AddEntity(e2)

	if w.EntityCount() != 2 {
		t.Fatalf("entity count = %d, want 2", w.EntityCount())
	}
	if got := w.Get("e1"); got != e1 {
		t.Fatalf("Get(e1) = %+v, want the same pointer as e1", got)
	}
	if got := w.Get("e2"); got != e2 {
		t.Fatalf("Get(e2) = %+v, want the same pointer as e2", got)
	}
	if got := w.Get("missing"); got != nil {
		t.Fatalf("Get(missing) = %+v, want nil", got)
	}
}

func TestWorldEntitiesPreservesInsertionOrder(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		w.AddEntity(NewEntity(id, id, "ground", "blue"))
	}
	got := w.Entities()
	if len(got) != len(ids) {
		t.Fatalf("len(Entities()) = %d, want %d", len(got), len(ids))
	}
	for i, id := range ids {
		if got[i].ID != id {
			t.Fatalf("Entities()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestWorldGetReflectsInPlaceMutation(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	e := NewEntity("e1", "Alpha", "aircraft", "blue")
	w.AddEntity(e)

	w.Get("e1").Active = false
	if w.Get("e1").Active {
		t.Fatal("mutation through Get should be visible on a subsequent Get")
	}
}

func TestNewEntityDefaults(t *testing.T) {
	e := NewEntity("id", "name", "aircraft", "blue")
	if !e.Active {
		t.Fatal("NewEntity should default Active to true")
	}
	if e.Destroyed {
		t.Fatal("NewEntity should default Destroyed to false")
	}
	if e.PhysicsType != PhysicsNone || e.AIType != AINone || e.WeaponType != WeaponNone {
		t.Fatal("NewEntity should default all discriminators to the None variant")
	}
	if e.EngagementRules != WeaponsFree {
		t.Fatalf("EngagementRules default = %v, want WeaponsFree", e.EngagementRules)
	}
	if e.A2AInventory == nil || e.A2ASpecs == nil {
		t.Fatal("NewEntity should pre-allocate the A2A inventory/spec maps")
	}
}

func TestParsePhysicsType(t *testing.T) {
	cases := map[string]PhysicsType{
		"orbital_2body": PhysicsOrbital2Body,
		"flight3dof":    PhysicsFlight3DOF,
		"static":        PhysicsStatic,
		"ground":        PhysicsStatic,
		"unknown":       PhysicsNone,
		"":              PhysicsNone,
	}
	for in, want := range cases {
		if got := ParsePhysicsType(in); got != want {
			t.Errorf("ParsePhysicsType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseAIType(t *testing.T) {
	cases := map[string]AIType{
		"orbital_combat":  AIOrbitalCombat,
		"waypoint_patrol": AIWaypointPatrol,
		"intercept":       AIIntercept,
		"bogus":           AINone,
	}
	for in, want := range cases {
		if got := ParseAIType(in); got != want {
			t.Errorf("ParseAIType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseWeaponType(t *testing.T) {
	cases := map[string]WeaponType{
		"kinetic_kill":     WeaponKineticKill,
		"sam_battery":      WeaponSAMBattery,
		"a2a_missile":      WeaponA2AMissile,
		"fighter_loadout":  WeaponA2AMissile,
		"nonexistent":      WeaponNone,
	}
	for in, want := range cases {
		if got := ParseWeaponType(in); got != want {
			t.Errorf("ParseWeaponType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseCombatRoleAndString(t *testing.T) {
	cases := map[string]CombatRole{
		"hva":      RoleHVA,
		"defender": RoleDefender,
		"attacker": RoleAttacker,
		"escort":   RoleEscort,
		"sweep":    RoleSweep,
		"other":    RoleNone,
	}
	for in, want := range cases {
		if got := ParseCombatRole(in); got != want {
			t.Errorf("ParseCombatRole(%q) = %v, want %v", in, got, want)
		}
	}
	if RoleHVA.String() != "hva" {
		t.Fatalf("RoleHVA.String() = %q, want %q", RoleHVA.String(), "hva")
	}
	if RoleNone.String() != "" {
		t.Fatalf("RoleNone.String() = %q, want empty", RoleNone.String())
	}
}

func TestParseEngagementRules(t *testing.T) {
	cases := map[string]EngagementRules{
		"weapons_free":  WeaponsFree,
		"weapons_hold":  WeaponsHold,
		"weapons_tight": WeaponsTight,
		"garbage":       WeaponsFree,
	}
	for in, want := range cases {
		if got := ParseEngagementRules(in); got != want {
			t.Errorf("ParseEngagementRules(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWorldLogOnce(t *testing.T) {
	w := NewWorld(NewSimRNG(1))

	// nil logger: no-op, no panic
	w.LogOnce("a", "msg", "x")

	var calls int
	w.Logger = kitlog.LoggerFunc(func(keyvals ...interface{}) error {
		calls++
		return nil
	})

	w.LogOnce("b", "msg", "x")
	w.LogOnce("b", "msg", "x")
	w.LogOnce("c", "msg", "y")
	if calls != 2 {
		t.Errorf("logger called %d times, want 2 (one per distinct key)", calls)
	}
}
