package mc

import (
	"math"
	"strconv"

	"github.com/relaysim/sentinel"
)

// propagateKepler advances an orbital entity's ECI state by dt seconds
// analytically (state → elements → advance mean anomaly → solve Kepler
// → state), reusing the root package's classical-element math, and falls
// back to straight-line propagation for degenerate/hyperbolic states. A
// state with |r| < 1 km or |v| < 0.1 m/s, or one whose propagated result
// is not finite, is returned unchanged.
// The second return is false when any fallback was taken, so the tick
// loop can log the degeneracy once per run.
func propagateKepler(pos, vel smd.Vec3, dt float64) (smd.Vec3, smd.Vec3, bool) {
	rMag := pos.Norm()
	vMag := vel.Norm()

	if rMag < 1000.0 || vMag < 0.1 {
		return pos, vel, false
	}

	h := pos.Cross(vel)
	if h.Norm() < 1e3 {
		return pos.Add(vel.Scale(dt)), vel, false
	}

	energy := 0.5*vMag*vMag - earthMuSI/rMag
	sma := -earthMuSI / (2.0 * energy)
	if math.IsNaN(sma) || math.IsInf(sma, 0) || sma <= 0.0 {
		return pos.Add(vel.Scale(dt)), vel, false
	}

	a, ecc, inc, raan, argPe, nu := smd.StateVectorsToElements(pos, vel, earthMuSI)
	if ecc >= 1.0 {
		return pos.Add(vel.Scale(dt)), vel, false
	}

	M := smd.TrueToMeanAnomaly(nu, ecc)
	n := smd.MeanMotion(earthMuSI, a)
	mNew := smd.PropagateMeanAnomaly(M, n, dt)
	nuNew := smd.MeanToTrueAnomaly(mNew, ecc)

	newPos, newVel := smd.ElementsToStateVectors(a, ecc, inc, raan, argPe, nuNew, earthMuSI)

	if isFiniteVec3(newPos) && isFiniteVec3(newVel) {
		return newPos, newVel, true
	}
	return pos, vel, false
}

func isFiniteVec3(v smd.Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Tick advances the world one timestep through the fixed pipeline order
// AI → Physics → Sensors → Weapons → Events. A kill in the weapon stage
// is visible to the event stage of the same tick, but the AI stage saw
// the pre-kill state.
func Tick(world *World, dt float64) {
	UpdateOrbitalCombatAI(dt, world)
	UpdateWaypointPatrolAI(dt, world)
	UpdateInterceptAI(dt, world)

	for _, e := range world.Entities() {
		if !e.Active || e.Destroyed {
			continue
		}
		if e.PhysicsType == PhysicsOrbital2Body {
			var ok bool
			e.ECIPos, e.ECIVel, ok = propagateKepler(e.ECIPos, e.ECIVel, dt)
			if !ok {
				world.LogOnce("kepler_fallback_"+e.ID,
					"msg", "degenerate orbit, linear fallback", "entity", e.ID, "simTime", world.SimTime)
			}
		}
	}
	UpdateFlight3DOF(dt, world)

	UpdateRadarSensor(dt, world)

	UpdateKineticKill(dt, world)
	UpdateSAMBattery(dt, world)
	UpdateA2AMissile(dt, world)

	UpdateEvents(dt, world)
}

// combatTally tracks a category's fielded-vs-surviving counts for one
// team. Its wipe criterion is non-vacuous: a team that never fielded
// the category cannot trigger it by having zero survivors.
type combatTally struct {
	total, alive int
}

func (c *combatTally) count(alive bool) {
	c.total++
	if alive {
		c.alive++
	}
}

func (c combatTally) wiped() bool {
	return c.total > 0 && c.alive == 0
}

// allCombatResolved reports whether either team has lost all of its
// orbital-combat HVAs/combat units, or all of its atmospheric combat
// aircraft — two independent early-termination criteria; either fires
// termination.
func allCombatResolved(world *World) bool {
	var blueHVA, redHVA, blueCombat, redCombat combatTally
	var blueAtmo, redAtmo combatTally

	for _, e := range world.Entities() {
		alive := e.Active && !e.Destroyed

		if e.AIType == AIOrbitalCombat && e.Role != RoleNone {
			if e.Role == RoleHVA {
				switch e.Team {
				case "blue":
					blueHVA.count(alive)
				case "red":
					redHVA.count(alive)
				}
			} else {
				switch e.Team {
				case "blue":
					blueCombat.count(alive)
				case "red":
					redCombat.count(alive)
				}
			}
		}

		if e.PhysicsType == PhysicsFlight3DOF && (e.AIType != AINone || e.WeaponType != WeaponNone) {
			switch e.Team {
			case "blue":
				blueAtmo.count(alive)
			case "red":
				redAtmo.count(alive)
			}
		}
	}

	if blueHVA.wiped() || redHVA.wiped() {
		return true
	}
	if blueCombat.wiped() || redCombat.wiped() {
		return true
	}
	if blueAtmo.wiped() || redAtmo.wiped() {
		return true
	}
	return false
}

// collectEngagements appends newly-seen LAUNCH/KILL/MISS records from
// every entity's per-entity log into the run-level log, deduplicating
// on a (source, target, result, time) key so the periodic collection
// cadence never double-counts.
func collectEngagements(world *World, log []EngagementEvent, seen map[string]bool) []EngagementEvent {
	for _, e := range world.Entities() {
		for _, eng := range e.Engagements {
			if eng.Result != "LAUNCH" && eng.Result != "KILL" && eng.Result != "MISS" {
				continue
			}

			key := e.ID + "_" + eng.TargetID + "_" + eng.Result + "_" + strconv.FormatFloat(eng.Time, 'f', -1, 64)
			if seen[key] {
				continue
			}
			seen[key] = true

			log = append(log, EngagementEvent{
				Time:       eng.Time,
				SourceID:   e.ID,
				SourceName: e.Name,
				SourceTeam: e.Team,
				TargetID:   eng.TargetID,
				TargetName: eng.TargetName,
				Result:     eng.Result,
				WeaponType: weaponTypeLabel(e.WeaponType),
			})
		}
	}
	return log
}

// collectSurvival snapshots every entity's end-of-run fate.
func collectSurvival(world *World) map[string]EntitySurvival {
	survival := make(map[string]EntitySurvival, world.EntityCount())
	for _, e := range world.Entities() {
		survival[e.ID] = EntitySurvival{
			Name:      e.Name,
			Team:      e.Team,
			Type:      e.Type,
			Role:      roleLabel(e.Role),
			Alive:     e.Active && !e.Destroyed,
			Destroyed: e.Destroyed,
		}
	}
	return survival
}
