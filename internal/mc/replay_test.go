package mc

import (
	"encoding/json"
	"testing"
)

func TestReplayWriterSampleRespectsInterval(t *testing.T) {
	world := NewWorld(NewSimRNG(1))
	e := NewEntity("a", "a", "ground", "blue")
	e.PhysicsType = PhysicsStatic
	world.AddEntity(e)

	writer := NewReplayWriter(world.Entities(), 2.0)

	world.SimTime = 0
	if !writer.Sample(world) {
		t.Fatal("first sample at t=0 should always be taken")
	}

	world.SimTime = 1.0
	if writer.Sample(world) {
		t.Fatal("sample at t=1.0 should be skipped before the next 2.0s boundary")
	}

	world.SimTime = 2.0
	if !writer.Sample(world) {
		t.Fatal("sample at t=2.0 should be taken")
	}
}

func TestReplayWriterRecordDeathAndWriteJSON(t *testing.T) {
	world := NewWorld(NewSimRNG(1))
	e := NewEntity("a", "a", "ground", "blue")
	e.PhysicsType = PhysicsStatic
	world.AddEntity(e)
	entities := append([]*Entity(nil), world.Entities()...)

	writer := NewReplayWriter(entities, 1.0)
	writer.Sample(world)
	writer.RecordDeath("a", 5.0)

	data, err := writer.WriteJSON(entities, 42, 10)
	if err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["format"] != "replay_v1" {
		t.Fatalf("format = %v, want replay_v1", doc["format"])
	}
	entitiesDoc, ok := doc["entities"].([]interface{})
	if !ok || len(entitiesDoc) != 1 {
		t.Fatalf("entities = %+v, want one entry", doc["entities"])
	}
	ent := entitiesDoc[0].(map[string]interface{})
	if ent["deathTime"] != float64(5.0) {
		t.Fatalf("deathTime = %v, want 5.0", ent["deathTime"])
	}
}

func TestReplayWriterWriteJSONOmitsDeathTimeWhenAlive(t *testing.T) {
	world := NewWorld(NewSimRNG(1))
	e := NewEntity("a", "a", "ground", "blue")
	world.AddEntity(e)
	entities := append([]*Entity(nil), world.Entities()...)

	writer := NewReplayWriter(entities, 1.0)
	writer.Sample(world)

	data, err := writer.WriteJSON(entities, 1, 10)
	if err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	var doc map[string]interface{}
	json.Unmarshal(data, &doc)
	ent := doc["entities"].([]interface{})[0].(map[string]interface{})
	if ent["deathTime"] != nil {
		t.Fatalf("deathTime = %v, want nil/omitted for a still-alive entity", ent["deathTime"])
	}
}
