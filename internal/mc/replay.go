package mc

import (
	"encoding/json"
	"sort"

	"github.com/relaysim/sentinel"
)

// ReplayEvent is one recorded engagement for trajectory playback.
type ReplayEvent struct {
	Time       float64
	Type       string // "KILL", "MISS", "LAUNCH"
	SourceID   string
	TargetID   string
	SourcePos  smd.Vec3
	TargetPos  smd.Vec3
}

// ReplayWriter accumulates trajectory samples and engagement events
// over a single run for later JSON serialization.
type ReplayWriter struct {
	sampleInterval  float64
	nextSampleTime  float64
	sampleTimes     []float64

	positions  [][]smd.Vec3
	deathTimes []float64 // -1 = alive at end

	idToIndex map[string]int

	events []ReplayEvent
}

// NewReplayWriter initializes a writer for the given entity list and
// sample interval. Must be called before any Sample call.
func NewReplayWriter(entities []*Entity, sampleInterval float64) *ReplayWriter {
	n := len(entities)
	w := &ReplayWriter{
		sampleInterval: sampleInterval,
		positions:      make([][]smd.Vec3, n),
		deathTimes:     make([]float64, n),
		idToIndex:      make(map[string]int, n),
	}
	for i, e := range entities {
		w.deathTimes[i] = -1.0
		w.idToIndex[e.ID] = i
	}
	return w
}

// Sample records all entity positions if simTime has reached the next
// sample boundary, returning whether a sample was taken.
func (w *ReplayWriter) Sample(world *World) bool {
	if world.SimTime < w.nextSampleTime {
		return false
	}

	t := world.SimTime
	w.sampleTimes = append(w.sampleTimes, t)

	for i, e := range world.Entities() {
		switch {
		case e.Active && !e.Destroyed:
			w.positions[i] = append(w.positions[i], entityECEF(e, t))
		case len(w.positions[i]) > 0:
			w.positions[i] = append(w.positions[i], w.positions[i][len(w.positions[i])-1])
		default:
			w.positions[i] = append(w.positions[i], smd.Vec3{})
		}
	}

	w.nextSampleTime = t + w.sampleInterval
	return true
}

// RecordDeath marks id as destroyed at time, for death-time reporting.
func (w *ReplayWriter) RecordDeath(id string, time float64) {
	if idx, ok := w.idToIndex[id]; ok {
		w.deathTimes[idx] = time
	}
}

// RecordEvent appends an engagement event with its ECEF positions.
func (w *ReplayWriter) RecordEvent(evt ReplayEvent) {
	w.events = append(w.events, evt)
}

type replayConfig struct {
	Seed           int32   `json:"seed"`
	Duration       float64 `json:"duration"`
	SampleInterval float64 `json:"sampleInterval"`
}

type replayTimeline struct {
	EndTime     float64   `json:"endTime"`
	SampleTimes []float64 `json:"sampleTimes"`
}

type replayEntityDoc struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Team      string      `json:"team"`
	Type      string      `json:"type"`
	Role      *string     `json:"role"`
	DeathTime *float64    `json:"deathTime"`
	Positions [][3]float64 `json:"positions"`
}

type replayEventDoc struct {
	Time           float64    `json:"time"`
	Type           string     `json:"type"`
	SourceID       string     `json:"sourceId"`
	TargetID       string     `json:"targetId"`
	SourcePosition [3]float64 `json:"sourcePosition"`
	TargetPosition [3]float64 `json:"targetPosition"`
}

type replaySummary struct {
	BlueAlive     int `json:"blueAlive"`
	BlueTotal     int `json:"blueTotal"`
	RedAlive      int `json:"redAlive"`
	RedTotal      int `json:"redTotal"`
	TotalKills    int `json:"totalKills"`
	TotalLaunches int `json:"totalLaunches"`
}

type replayDocument struct {
	Format   string            `json:"format"`
	Config   replayConfig      `json:"config"`
	Timeline replayTimeline    `json:"timeline"`
	Entities []replayEntityDoc `json:"entities"`
	Events   []replayEventDoc  `json:"events"`
	Summary  replaySummary     `json:"summary"`
}

// WriteJSON serializes the complete replay document consumable by a
// 3D timeline-scrub viewer.
func (w *ReplayWriter) WriteJSON(entities []*Entity, seed int32, maxSimTime float64) ([]byte, error) {
	endTime := 0.0
	if n := len(w.sampleTimes); n > 0 {
		endTime = w.sampleTimes[n-1]
	}

	doc := replayDocument{
		Format: "replay_v1",
		Config: replayConfig{
			Seed:           seed,
			Duration:       maxSimTime,
			SampleInterval: w.sampleInterval,
		},
		Timeline: replayTimeline{EndTime: endTime, SampleTimes: w.sampleTimes},
	}

	for i, e := range entities {
		ed := replayEntityDoc{
			ID:   e.ID,
			Name: e.Name,
			Team: e.Team,
			Type: e.Type,
			Role: roleLabel(e.Role),
		}
		if w.deathTimes[i] >= 0.0 {
			dt := w.deathTimes[i]
			ed.DeathTime = &dt
		}
		for _, p := range w.positions[i] {
			ed.Positions = append(ed.Positions, [3]float64{p.X, p.Y, p.Z})
		}
		doc.Entities = append(doc.Entities, ed)
	}

	sortedEvents := make([]ReplayEvent, len(w.events))
	copy(sortedEvents, w.events)
	sort.Slice(sortedEvents, func(i, j int) bool { return sortedEvents[i].Time < sortedEvents[j].Time })

	for _, evt := range sortedEvents {
		doc.Events = append(doc.Events, replayEventDoc{
			Time:           evt.Time,
			Type:           evt.Type,
			SourceID:       evt.SourceID,
			TargetID:       evt.TargetID,
			SourcePosition: [3]float64{evt.SourcePos.X, evt.SourcePos.Y, evt.SourcePos.Z},
			TargetPosition: [3]float64{evt.TargetPos.X, evt.TargetPos.Y, evt.TargetPos.Z},
		})
	}

	var summary replaySummary
	for i, e := range entities {
		if e.AIType == AINone && e.WeaponType == WeaponNone {
			continue
		}
		alive := w.deathTimes[i] < 0.0
		switch e.Team {
		case "blue":
			summary.BlueTotal++
			if alive {
				summary.BlueAlive++
			}
		case "red":
			summary.RedTotal++
			if alive {
				summary.RedAlive++
			}
		}
	}
	for _, evt := range w.events {
		switch evt.Type {
		case "KILL":
			summary.TotalKills++
		case "LAUNCH":
			summary.TotalLaunches++
		}
	}
	doc.Summary = summary

	return json.Marshal(doc)
}
