package mc

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/relaysim/sentinel"
)

// earthMuSI is Earth's gravitational parameter in SI units (m^3/s^2),
// used only for initializing orbital_2body entities from elements — the
// root package's Earth.GM() returns km^3/s^2, the wrong unit system for
// this package's meter-based state.
const earthMuSI = 3.986004418e14

// jsonObj is the loosely-typed scenario document shape: scenario JSON is
// heterogeneous enough (optional nested component blocks,
// either-one-of-two field names) that a fixed struct per entity type
// would require as much branching as a map-based accessor, so
// ParseScenario uses encoding/json's generic map[string]interface{}
// decoding rather than per-shape unmarshal structs.
type jsonObj map[string]interface{}

func asObj(v interface{}) jsonObj {
	if m, ok := v.(map[string]interface{}); ok {
		return jsonObj(m)
	}
	return nil
}

func asArray(v interface{}) []interface{} {
	a, _ := v.([]interface{})
	return a
}

func (o jsonObj) str(key, def string) string {
	if o == nil {
		return def
	}
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

func (o jsonObj) num(key string, def float64) float64 {
	if o == nil {
		return def
	}
	if n, ok := o[key].(float64); ok {
		return n
	}
	return def
}

func (o jsonObj) integer(key string, def int) int {
	return int(o.num(key, float64(def)))
}

func (o jsonObj) boolean(key string, def bool) bool {
	if o == nil {
		return def
	}
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

func (o jsonObj) obj(key string) jsonObj {
	if o == nil {
		return nil
	}
	return asObj(o[key])
}

func (o jsonObj) has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o[key]
	return ok
}

// ParseScenario parses a scenario JSON document into a fresh World:
// entities array → parseEntity, events array → trigger/action, with
// either-one-of-two-field-name fallbacks for keys that appear in both
// spellings in the wild.
func ParseScenario(data []byte, rng *SimRNG) (*World, error) {
	var doc jsonObj
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	world := NewWorld(rng)

	for _, raw := range asArray(doc["entities"]) {
		def := asObj(raw)
		if def == nil {
			continue
		}
		entity, err := parseEntity(def)
		if err != nil {
			return nil, err
		}
		world.AddEntity(entity)
	}

	for _, raw := range asArray(doc["events"]) {
		ev := asObj(raw)
		if ev == nil {
			continue
		}
		world.Events = append(world.Events, parseScenarioEvent(ev))
	}

	return world, nil
}

func parseScenarioEvent(ev jsonObj) ScenarioEvent {
	se := ScenarioEvent{
		ID: ev.str("id", ""),
	}
	se.Name = ev.str("name", se.ID)

	trig := ev.obj("trigger")
	se.Trigger.Kind = trig.str("type", "")

	switch se.Trigger.Kind {
	case "time":
		se.Trigger.Time = trig.num("time", 0.0)

	case "proximity":
		se.Trigger.EntityA = trig.str("entityA", trig.str("entityId", ""))
		se.Trigger.EntityB = trig.str("entityB", trig.str("targetId", ""))
		se.Trigger.RangeM = trig.num("range_m", trig.num("range", 0.0))

	case "detection":
		se.Trigger.SensorEntity = trig.str("sensorEntityId", trig.str("entityA", ""))
		se.Trigger.TargetEntity = trig.str("targetEntityId", trig.str("entityB", ""))
	}

	act := ev.obj("action")
	se.Action.Kind = act.str("type", "")

	switch se.Action.Kind {
	case "message":
		se.Action.Message = act.str("text", act.str("message", ""))

	case "set_state":
		se.Action.EntityID = act.str("entity", act.str("entityId", ""))
		se.Action.Field = act.str("field", "")
		se.Action.Value = act.str("value", "")

	case "change_rules":
		se.Action.EntityID = act.str("entity", act.str("entityId", ""))
		se.Action.Field = "engagementRules"
		se.Action.Value = act.str("engagementRules", act.str("value", ""))
	}

	return se
}

func parseEntity(def jsonObj) (*Entity, error) {
	id := def.str("id", "")
	if id == "" {
		return nil, fmt.Errorf("parse scenario: entity missing required field \"id\"")
	}

	e := NewEntity(id, def.str("name", id), def.str("type", "satellite"), def.str("team", ""))

	if state := def.obj("initialState"); state != nil {
		e.GeoLatDeg = state.num("lat", 0.0)
		e.GeoLonDeg = state.num("lon", 0.0)
		e.GeoAltM = state.num("alt", 0.0)
		e.FlightSpeedMS = state.num("speed", 0.0)
		e.FlightHeadingRad = state.num("heading", 0.0) * math.Pi / 180.0
		e.FlightGammaRad = state.num("gamma", 0.0) * math.Pi / 180.0
		e.FlightThrottle = state.num("throttle", 0.8)
		e.FlightEngineOn = state.boolean("engineOn", true)
	}

	components := def.obj("components")

	if phys := components.obj("physics"); phys != nil {
		switch phys.str("type", "") {
		case "orbital_2body":
			e.PhysicsType = PhysicsOrbital2Body
			if phys.str("source", "elements") == "elements" {
				initFromElements(e,
					phys.num("sma", 42164000.0),
					phys.num("ecc", 0.0001),
					phys.num("inc", 0.001),
					phys.num("raan", 0.0),
					phys.num("argPerigee", 0.0),
					phys.num("meanAnomaly", 0.0))
			}

		case "flight3dof":
			e.PhysicsType = PhysicsFlight3DOF
			applyAircraftConfig(e, phys.str("config", "f16"))
		}
	}

	if e.PhysicsType == PhysicsNone && (e.Type == "ground" || e.Type == "sam" || e.Type == "radar") {
		e.PhysicsType = PhysicsStatic
	}

	if ai := components.obj("ai"); ai != nil {
		switch ai.str("type", "") {
		case "orbital_combat":
			e.AIType = AIOrbitalCombat
			e.Role = ParseCombatRole(ai.str("role", "attacker"))
			e.SensorRangeM = ai.num("sensorRange", 1000000.0)
			e.DefenseRadiusM = ai.num("defenseRadius", 500000.0)
			e.MaxAccel = ai.num("maxAccel", 50.0)
			e.KillRangeM = ai.num("killRange", 50000.0)
			e.ScanInterval = ai.num("scanInterval", 1.0)
			if ai.has("assignedHvaId") {
				e.AssignedHVAID = ai.str("assignedHvaId", "")
			}

		case "waypoint_patrol":
			e.AIType = AIWaypointPatrol
			for _, raw := range asArray(ai["waypoints"]) {
				wp := asObj(raw)
				e.Waypoints = append(e.Waypoints, Waypoint{
					LatDeg:  wp.num("lat", 0.0),
					LonDeg:  wp.num("lon", 0.0),
					AltM:    wp.num("alt", 0.0),
					SpeedMS: wp.num("speed", 0.0),
				})
			}
			loop := ai.str("loopMode", "cycle")
			e.WaypointLoop = loop == "cycle" || loop == "loop"

		case "intercept":
			e.AIType = AIIntercept
			e.InterceptTargetID = ai.str("targetId", "")
			switch ai.str("mode", "pursuit") {
			case "pursuit":
				e.InterceptMode = 0
			case "lead":
				e.InterceptMode = 1
			case "stern":
				e.InterceptMode = 2
			}
			e.InterceptEngageRange = ai.num("engageRange_m", ai.num("engageRange", 0.0))
		}
	}

	if ctrl := components.obj("control"); ctrl != nil && ctrl.str("type", "") == "player_input" && e.AIType == AINone {
		assignRacetrackPatrol(e)
	}

	if sens := components.obj("sensors"); sens != nil && sens.str("type", "") == "radar" {
		e.HasRadar = true
		e.RadarMaxRangeM = sens.num("maxRange_m", sens.num("maxRange", 300000.0))
		e.RadarFOVDeg = sens.num("fov_deg", 360.0)
		e.RadarPDetect = sens.num("detectionProbability", 0.9)
		e.RadarMinElevDeg = sens.num("minElevation_deg", -5.0)
		e.RadarMaxElevDeg = sens.num("maxElevation_deg", 80.0)

		if scanRate := sens.num("scanRate_dps", 0.0); scanRate > 0.0 {
			e.RadarSweepInterval = 360.0 / scanRate
		}
	}

	if wpn := components.obj("weapons"); wpn != nil {
		switch wpn.str("type", "") {
		case "kinetic_kill":
			e.WeaponType = WeaponKineticKill
			e.Pk = wpn.num("Pk", 0.7)
			e.WeaponKillRangeM = wpn.num("killRange", 50000.0)
			e.CooldownTime = wpn.num("cooldown", 5.0)

		case "sam_battery":
			e.WeaponType = WeaponSAMBattery
			e.SAMMaxRangeM = wpn.num("maxRange_m", wpn.num("maxRange", 150000.0))
			e.SAMMinRangeM = wpn.num("minRange_m", wpn.num("minRange", 5000.0))
			e.SAMMissileSpeedMS = wpn.num("missileSpeed", 1200.0)
			e.SAMMissilesReady = wpn.integer("missiles", 8)
			e.SAMSalvoSize = wpn.integer("salvoSize", 2)
			e.SAMPkPerMissile = wpn.num("pkPerMissile", 0.7)
			if rules := wpn.str("engagementRules", ""); rules != "" {
				e.EngagementRules = ParseEngagementRules(rules)
			}

		case "fighter_loadout", "a2a_missile":
			e.WeaponType = WeaponA2AMissile
			for _, raw := range asArray(wpn["loadout"]) {
				name, _ := raw.(string)
				if name == "" {
					continue
				}
				e.A2ALoadout = append(e.A2ALoadout, name)
				e.A2AInventory[name]++
			}
		}
	}

	return e, nil
}

// initFromElements seeds an orbital_2body entity's ECI state from
// classical elements (SI units, angles in degrees as authored in the
// scenario document).
func initFromElements(e *Entity, smaM, ecc, incDeg, raanDeg, argPeDeg, meanAnomalyDeg float64) {
	incRad := incDeg * math.Pi / 180.0
	raanRad := raanDeg * math.Pi / 180.0
	argPeRad := argPeDeg * math.Pi / 180.0
	maRad := meanAnomalyDeg * math.Pi / 180.0

	nu := smd.MeanToTrueAnomaly(maRad, ecc)
	r, v := smd.ElementsToStateVectors(smaM, ecc, incRad, raanRad, argPeRad, nu, earthMuSI)

	e.ECIPos = r
	e.ECIVel = v
	e.SMA = smaM
	e.Ecc = ecc
	e.IncRad = incRad
	e.RAANRad = raanRad
	e.ArgPeRad = argPeRad
	e.MeanAnomalyRad = maRad
}

// assignRacetrackPatrol auto-builds a 50 km x 20 km racetrack patrol
// around an entity's current position and heading, the fallback for
// player_input entities running headless.
func assignRacetrackPatrol(e *Entity) {
	e.AIType = AIWaypointPatrol
	e.WaypointLoop = true

	heading := e.FlightHeadingRad
	lat0 := e.GeoLatDeg * math.Pi / 180.0
	lon0 := e.GeoLonDeg * math.Pi / 180.0
	alt := e.GeoAltM
	spd := e.FlightSpeedMS

	const legFwd = 50000.0
	const legSide = 20000.0
	rightHdg := heading + math.Pi/2.0

	p1Lat, p1Lon := DestinationPoint(lat0, lon0, heading, legFwd)
	p2Lat, p2Lon := DestinationPoint(p1Lat, p1Lon, rightHdg, legSide)
	p3Lat, p3Lon := DestinationPoint(lat0, lon0, rightHdg, legSide)

	addWP := func(latR, lonR float64) {
		e.Waypoints = append(e.Waypoints, Waypoint{
			LatDeg:  latR * 180.0 / math.Pi,
			LonDeg:  lonR * 180.0 / math.Pi,
			AltM:    alt,
			SpeedMS: spd,
		})
	}

	addWP(p1Lat, p1Lon)
	addWP(p2Lat, p2Lon)
	addWP(p3Lat, p3Lon)
	addWP(lat0, lon0)
}

// aircraftConfig is a named airframe performance envelope.
type aircraftConfig struct {
	massLoaded float64
	wingArea   float64
	aspectRatio float64
	cd0        float64
	oswald     float64
	clAlphaPerDeg float64
	clMax      float64
	thrustMil  float64
	thrustAB   float64
	maxG       float64
	maxAoARad  float64
}

var aircraftConfigs = map[string]aircraftConfig{
	"f16": {
		massLoaded: 12000.0, wingArea: 27.87, aspectRatio: 3.55,
		cd0: 0.0175, oswald: 0.85, clAlphaPerDeg: 0.08, clMax: 1.6,
		thrustMil: 79000.0, thrustAB: 127000.0, maxG: 9.0, maxAoARad: 25.0 * math.Pi / 180.0,
	},
	"mig29": {
		massLoaded: 15000.0, wingArea: 38.0, aspectRatio: 3.5,
		cd0: 0.020, oswald: 0.82, clAlphaPerDeg: 0.075, clMax: 1.4,
		thrustMil: 81000.0, thrustAB: 110000.0, maxG: 9.0, maxAoARad: 28.0 * math.Pi / 180.0,
	},
	"awacs": {
		massLoaded: 147000.0, wingArea: 283.0, aspectRatio: 7.7,
		cd0: 0.030, oswald: 0.80, clAlphaPerDeg: 0.06, clMax: 1.4,
		thrustMil: 372000.0, thrustAB: 372000.0, maxG: 2.5, maxAoARad: 14.0 * math.Pi / 180.0,
	},
	"f15": {
		massLoaded: 24500.0, wingArea: 56.5, aspectRatio: 3.0,
		cd0: 0.019, oswald: 0.82, clAlphaPerDeg: 0.075, clMax: 1.5,
		thrustMil: 130000.0, thrustAB: 210000.0, maxG: 9.0, maxAoARad: 30.0 * math.Pi / 180.0,
	},
	"su27": {
		massLoaded: 23430.0, wingArea: 62.0, aspectRatio: 3.5,
		cd0: 0.021, oswald: 0.82, clAlphaPerDeg: 0.075, clMax: 1.5,
		thrustMil: 152000.0, thrustAB: 245000.0, maxG: 9.0, maxAoARad: 30.0 * math.Pi / 180.0,
	},
	"f22": {
		massLoaded: 29300.0, wingArea: 78.0, aspectRatio: 2.36,
		cd0: 0.015, oswald: 0.80, clAlphaPerDeg: 0.075, clMax: 1.4,
		thrustMil: 156000.0, thrustAB: 312000.0, maxG: 9.0, maxAoARad: 60.0 * math.Pi / 180.0,
	},
	"f35": {
		massLoaded: 22470.0, wingArea: 42.7, aspectRatio: 2.68,
		cd0: 0.015, oswald: 0.78, clAlphaPerDeg: 0.07, clMax: 1.3,
		thrustMil: 125000.0, thrustAB: 191000.0, maxG: 9.0, maxAoARad: 50.0 * math.Pi / 180.0,
	},
	"f18": {
		massLoaded: 21320.0, wingArea: 46.45, aspectRatio: 4.0,
		cd0: 0.020, oswald: 0.82, clAlphaPerDeg: 0.08, clMax: 1.5,
		thrustMil: 124000.0, thrustAB: 190000.0, maxG: 7.5, maxAoARad: 35.0 * math.Pi / 180.0,
	},
	"a10": {
		massLoaded: 14865.0, wingArea: 47.01, aspectRatio: 6.54,
		cd0: 0.032, oswald: 0.85, clAlphaPerDeg: 0.09, clMax: 1.8,
		thrustMil: 40000.0, thrustAB: 40000.0, maxG: 7.33, maxAoARad: 20.0 * math.Pi / 180.0,
	},
	"su35": {
		massLoaded: 25300.0, wingArea: 62.0, aspectRatio: 3.78,
		cd0: 0.020, oswald: 0.83, clAlphaPerDeg: 0.08, clMax: 1.5,
		thrustMil: 172000.0, thrustAB: 286000.0, maxG: 9.0, maxAoARad: 30.0 * math.Pi / 180.0,
	},
	"su57": {
		massLoaded: 25000.0, wingArea: 78.8, aspectRatio: 2.52,
		cd0: 0.015, oswald: 0.80, clAlphaPerDeg: 0.075, clMax: 1.4,
		thrustMil: 176000.0, thrustAB: 360000.0, maxG: 9.0, maxAoARad: 60.0 * math.Pi / 180.0,
	},
	"b2": {
		massLoaded: 152600.0, wingArea: 478.0, aspectRatio: 5.74,
		cd0: 0.018, oswald: 0.90, clAlphaPerDeg: 0.06, clMax: 1.2,
		thrustMil: 340000.0, thrustAB: 340000.0, maxG: 2.5, maxAoARad: 15.0 * math.Pi / 180.0,
	},
	"bomber_fast": {
		massLoaded: 148000.0, wingArea: 181.0, aspectRatio: 9.6,
		cd0: 0.020, oswald: 0.82, clAlphaPerDeg: 0.07, clMax: 1.3,
		thrustMil: 360000.0, thrustAB: 600000.0, maxG: 3.0, maxAoARad: 18.0 * math.Pi / 180.0,
	},
	"transport": {
		massLoaded: 70300.0, wingArea: 162.1, aspectRatio: 10.08,
		cd0: 0.025, oswald: 0.85, clAlphaPerDeg: 0.09, clMax: 2.0,
		thrustMil: 64000.0, thrustAB: 64000.0, maxG: 2.5, maxAoARad: 15.0 * math.Pi / 180.0,
	},
	"c17": {
		massLoaded: 265350.0, wingArea: 353.0, aspectRatio: 7.57,
		cd0: 0.022, oswald: 0.82, clAlphaPerDeg: 0.085, clMax: 1.8,
		thrustMil: 480000.0, thrustAB: 480000.0, maxG: 2.5, maxAoARad: 15.0 * math.Pi / 180.0,
	},
	"mq9": {
		massLoaded: 4760.0, wingArea: 38.0, aspectRatio: 10.53,
		cd0: 0.020, oswald: 0.88, clAlphaPerDeg: 0.09, clMax: 1.6,
		thrustMil: 6700.0, thrustAB: 6700.0, maxG: 3.0, maxAoARad: 15.0 * math.Pi / 180.0,
	},
	"rq4": {
		massLoaded: 14628.0, wingArea: 50.0, aspectRatio: 31.84,
		cd0: 0.015, oswald: 0.92, clAlphaPerDeg: 0.10, clMax: 1.5,
		thrustMil: 35000.0, thrustAB: 35000.0, maxG: 2.0, maxAoARad: 12.0 * math.Pi / 180.0,
	},
}

var aircraftConfigAliases = map[string]string{
	"bomber":     "b2",
	"drone_male": "mq9",
	"drone_hale": "rq4",
}

// applyAircraftConfig resolves a config name (falling back to "f16" on
// an unknown name) including the bare-callsign aliases.
func applyAircraftConfig(e *Entity, configName string) {
	if alias, ok := aircraftConfigAliases[configName]; ok {
		configName = alias
	}
	cfg, ok := aircraftConfigs[configName]
	if !ok {
		cfg = aircraftConfigs["f16"]
	}

	e.ACMass = cfg.massLoaded
	e.ACWingArea = cfg.wingArea
	e.ACAR = cfg.aspectRatio
	e.ACCd0 = cfg.cd0
	e.ACOswald = cfg.oswald
	e.ACClAlpha = cfg.clAlphaPerDeg * (180.0 / math.Pi)
	e.ACClMax = cfg.clMax
	e.ACThrustMil = cfg.thrustMil
	e.ACThrustAB = cfg.thrustAB
	e.ACMaxG = cfg.maxG
	e.ACMaxAoARad = cfg.maxAoARad
}
