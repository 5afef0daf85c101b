package mc

import "testing"

func TestUpdateEventsTimeTriggerFiresOnceAtOrPastItsTime(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	w.Events = []ScenarioEvent{{
		ID:      "ev1",
		Trigger: EventTrigger{Kind: "time", Time: 10},
		Action:  EventAction{Kind: "message", Message: "go"},
	}}

	w.SimTime = 5
	UpdateEvents(0, w)
	if len(w.MessageLog) != 0 {
		t.Fatal("event should not fire before its trigger time")
	}

	w.SimTime = 10
	UpdateEvents(0, w)
	if len(w.MessageLog) != 1 || w.MessageLog[0] != "go" {
		t.Fatalf("MessageLog = %v, want [\"go\"]", w.MessageLog)
	}
	if !w.Events[0].Fired {
		t.Fatal("event should be marked Fired once its trigger condition is met")
	}

	w.SimTime = 20
	UpdateEvents(0, w)
	if len(w.MessageLog) != 1 {
		t.Fatalf("MessageLog = %v, event should not fire a second time", w.MessageLog)
	}
}

func TestUpdateEventsProximityTriggerGeodetic(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	a := NewEntity("a", "a", "ground", "blue")
	a.PhysicsType = PhysicsStatic
	b := NewEntity("b", "b", "ground", "red")
	b.PhysicsType = PhysicsStatic
	b.GeoLonDeg = 0.01 // ~1.1km at the equator
	w.AddEntity(a)
	w.AddEntity(b)
	w.Events = []ScenarioEvent{{
		Trigger: EventTrigger{Kind: "proximity", EntityA: "a", EntityB: "b", RangeM: 2000},
		Action:  EventAction{Kind: "message", Message: "close"},
	}}

	UpdateEvents(0, w)
	if len(w.MessageLog) != 1 {
		t.Fatalf("proximity event should have fired, MessageLog = %v", w.MessageLog)
	}
}

func TestUpdateEventsProximityTriggerDoesNotFireWhenFarApart(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	a := NewEntity("a", "a", "ground", "blue")
	a.PhysicsType = PhysicsStatic
	b := NewEntity("b", "b", "ground", "red")
	b.PhysicsType = PhysicsStatic
	b.GeoLonDeg = 10 // far away
	w.AddEntity(a)
	w.AddEntity(b)
	w.Events = []ScenarioEvent{{
		Trigger: EventTrigger{Kind: "proximity", EntityA: "a", EntityB: "b", RangeM: 2000},
		Action:  EventAction{Kind: "message", Message: "close"},
	}}

	UpdateEvents(0, w)
	if len(w.MessageLog) != 0 {
		t.Fatalf("proximity event should not have fired, MessageLog = %v", w.MessageLog)
	}
}

func TestUpdateEventsDetectionTrigger(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	sensor := NewEntity("sensor", "sensor", "ground", "blue")
	sensor.HasRadar = true
	w.AddEntity(sensor)
	w.Events = []ScenarioEvent{{
		Trigger: EventTrigger{Kind: "detection", SensorEntity: "sensor", TargetEntity: "bandit"},
		Action:  EventAction{Kind: "message", Message: "spotted"},
	}}

	UpdateEvents(0, w)
	if len(w.MessageLog) != 0 {
		t.Fatal("detection event should not fire before any detection is recorded")
	}

	sensor.RadarDetections = append(sensor.RadarDetections, RadarDetection{EntityID: "bandit"})
	UpdateEvents(0, w)
	if len(w.MessageLog) != 1 {
		t.Fatal("detection event should fire once the target appears in RadarDetections")
	}
}

func TestUpdateEventsChangeRulesAction(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	e := NewEntity("a", "a", "ground", "blue")
	w.AddEntity(e)
	w.Events = []ScenarioEvent{{
		Trigger: EventTrigger{Kind: "time", Time: 0},
		Action:  EventAction{Kind: "change_rules", EntityID: "a", Value: "weapons_hold"},
	}}

	UpdateEvents(0, w)
	if e.EngagementRules != WeaponsHold {
		t.Fatalf("EngagementRules = %v, want WeaponsHold", e.EngagementRules)
	}
}

func TestUpdateEventsSetStateAction(t *testing.T) {
	w := NewWorld(NewSimRNG(1))
	e := NewEntity("a", "a", "ground", "blue")
	w.AddEntity(e)
	w.Events = []ScenarioEvent{{
		Trigger: EventTrigger{Kind: "time", Time: 0},
		Action:  EventAction{Kind: "set_state", EntityID: "a", Field: "destroyed", Value: "true"},
	}}

	UpdateEvents(0, w)
	if !e.Destroyed {
		t.Fatal("set_state(destroyed=true) should have destroyed the entity")
	}
}
