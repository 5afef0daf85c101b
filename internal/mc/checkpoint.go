package mc

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/relaysim/sentinel"
)

// Checkpoint save/load for deterministic single-run resume: a versioned
// JSON document carrying sim_time, mode, time scale, and every entity's
// identity, physics domain, and type-tagged state vector. PRNG state is
// deliberately not persisted — a resumed run is deterministic only from
// the restored states forward, not bit-identical to the uninterrupted
// run.

type checkpointState struct {
	Position        [3]float64 `json:"position"`
	Velocity        [3]float64 `json:"velocity"`
	Attitude        [4]float64 `json:"attitude"`
	AngularVelocity [3]float64 `json:"angular_velocity"`
	Time            float64    `json:"time"`
	Frame           string     `json:"frame"`
}

type checkpointEntity struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Domain     string                 `json:"domain"`
	State      checkpointState        `json:"state"`
	EntityData map[string]interface{} `json:"entity_data"`
}

type checkpointDoc struct {
	Version   int                `json:"version"`
	SimTime   float64            `json:"sim_time"`
	Mode      string             `json:"mode"`
	TimeScale float64            `json:"time_scale"`
	Entities  []checkpointEntity `json:"entities"`
}

// physicsDomainLabel maps a PhysicsType onto the checkpoint document's
// physics-domain vocabulary.
func physicsDomainLabel(p PhysicsType) string {
	switch p {
	case PhysicsOrbital2Body:
		return "ORBITAL"
	case PhysicsFlight3DOF:
		return "AERO"
	default:
		return "GROUND"
	}
}

// enuVelocity converts a 3-DOF flight state (speed, flight path angle,
// heading) into an ECEF velocity through the local east-north-up basis,
// so the checkpoint's state vector is a real velocity rather than a
// bundle of flight angles.
func enuVelocity(latRad, lonRad, speed, gammaRad, headingRad float64) smd.Vec3 {
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)

	east := smd.Vec3{X: -sinLon, Y: cosLon}
	north := smd.Vec3{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat}
	up := smd.Vec3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}

	horiz := speed * math.Cos(gammaRad)
	vE := horiz * math.Sin(headingRad)
	vN := horiz * math.Cos(headingRad)
	vU := speed * math.Sin(gammaRad)

	return east.Scale(vE).Add(north.Scale(vN)).Add(up.Scale(vU))
}

// flightStateFromECEFVelocity inverts enuVelocity: recover speed, flight
// path angle, and heading from an ECEF velocity at the given location.
func flightStateFromECEFVelocity(latRad, lonRad float64, vel smd.Vec3) (speed, gammaRad, headingRad float64) {
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)

	east := smd.Vec3{X: -sinLon, Y: cosLon}
	north := smd.Vec3{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat}
	up := smd.Vec3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}

	vE := vel.Dot(east)
	vN := vel.Dot(north)
	vU := vel.Dot(up)

	speed = vel.Norm()
	if speed < 1e-9 {
		return 0, 0, 0
	}
	gammaRad = math.Asin(clampMC(vU/speed, -1.0, 1.0))
	headingRad = math.Mod(math.Atan2(vE, vN)+2.0*math.Pi, 2.0*math.Pi)
	return
}

func checkpointEntityState(e *Entity, simTime float64) checkpointState {
	s := checkpointState{
		Attitude: [4]float64{1, 0, 0, 0},
		Time:     simTime,
	}

	if e.PhysicsType == PhysicsOrbital2Body {
		s.Frame = "J2000_ECI"
		s.Position = [3]float64{e.ECIPos.X, e.ECIPos.Y, e.ECIPos.Z}
		s.Velocity = [3]float64{e.ECIVel.X, e.ECIVel.Y, e.ECIVel.Z}
		return s
	}

	latRad := e.GeoLatDeg * math.Pi / 180.0
	lonRad := e.GeoLonDeg * math.Pi / 180.0
	pos := GeodeticToECEF(latRad, lonRad, e.GeoAltM)

	s.Frame = "ECEF"
	s.Position = [3]float64{pos.X, pos.Y, pos.Z}
	if e.PhysicsType == PhysicsFlight3DOF {
		vel := enuVelocity(latRad, lonRad, e.FlightSpeedMS, e.FlightGammaRad, e.FlightHeadingRad)
		s.Velocity = [3]float64{vel.X, vel.Y, vel.Z}
	}
	return s
}

// SaveCheckpoint serializes the world into the checkpoint document.
// mode is "MODEL" or "SIMULATION"; timeScale is the host's real-time
// multiplier (1.0 when the caller runs untimed batches).
func SaveCheckpoint(world *World, mode string, timeScale float64) ([]byte, error) {
	doc := checkpointDoc{
		Version:   1,
		SimTime:   world.SimTime,
		Mode:      mode,
		TimeScale: timeScale,
		Entities:  make([]checkpointEntity, 0, world.EntityCount()),
	}

	for _, e := range world.Entities() {
		doc.Entities = append(doc.Entities, checkpointEntity{
			Type:       e.Type,
			ID:         e.ID,
			Name:       e.Name,
			Domain:     physicsDomainLabel(e.PhysicsType),
			State:      checkpointEntityState(e, world.SimTime),
			EntityData: map[string]interface{}{},
		})
	}

	return json.Marshal(doc)
}

// LoadCheckpoint restores a checkpoint into an already-parsed world:
// sim_time is reset and each checkpointed entity's state vector is
// written back over the entity with the matching id. The scenario parse
// remains the source of entity composition; the checkpoint supplies
// state only. Returns the document's mode and time scale for the
// caller.
func LoadCheckpoint(data []byte, world *World) (mode string, timeScale float64, err error) {
	var doc checkpointDoc
	if err = json.Unmarshal(data, &doc); err != nil {
		return "", 0, fmt.Errorf("checkpoint: %v", err)
	}
	if doc.Version < 1 {
		return "", 0, fmt.Errorf("checkpoint: unsupported version %d", doc.Version)
	}

	for _, ce := range doc.Entities {
		e := world.Get(ce.ID)
		if e == nil {
			return "", 0, fmt.Errorf("checkpoint: unknown entity id %q", ce.ID)
		}
		if got := physicsDomainLabel(e.PhysicsType); got != ce.Domain {
			return "", 0, fmt.Errorf("checkpoint: entity %q domain %q does not match scenario domain %q",
				ce.ID, ce.Domain, got)
		}

		pos := smd.Vec3{X: ce.State.Position[0], Y: ce.State.Position[1], Z: ce.State.Position[2]}
		vel := smd.Vec3{X: ce.State.Velocity[0], Y: ce.State.Velocity[1], Z: ce.State.Velocity[2]}

		switch e.PhysicsType {
		case PhysicsOrbital2Body:
			e.ECIPos = pos
			e.ECIVel = vel
		case PhysicsFlight3DOF:
			latRad, lonRad, altM := ECEFToGeodetic(pos)
			e.GeoLatDeg = latRad * 180.0 / math.Pi
			e.GeoLonDeg = lonRad * 180.0 / math.Pi
			e.GeoAltM = altM
			e.FlightSpeedMS, e.FlightGammaRad, e.FlightHeadingRad = flightStateFromECEFVelocity(latRad, lonRad, vel)
		default:
			latRad, lonRad, altM := ECEFToGeodetic(pos)
			e.GeoLatDeg = latRad * 180.0 / math.Pi
			e.GeoLonDeg = lonRad * 180.0 / math.Pi
			e.GeoAltM = altM
		}
	}

	world.SimTime = doc.SimTime
	return doc.Mode, doc.TimeScale, nil
}
