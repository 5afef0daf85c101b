package mc

import (
	"math"
	"sort"
)

const a2aAssessTime = 2.0

// ensureDefaultA2ASpecs seeds an entity's weapon spec table on first
// use.
func ensureDefaultA2ASpecs(e *Entity) {
	if len(e.A2ASpecs) > 0 {
		return
	}
	e.A2ASpecs["aim120"] = WeaponSpec{Name: "aim120", RangeM: 80000.0, Pk: 0.75, SpeedMS: 1400.0}
	e.A2ASpecs["aim9"] = WeaponSpec{Name: "aim9", RangeM: 18000.0, Pk: 0.85, SpeedMS: 900.0}
	e.A2ASpecs["r77"] = WeaponSpec{Name: "r77", RangeM: 80000.0, Pk: 0.70, SpeedMS: 1300.0}
	e.A2ASpecs["r73"] = WeaponSpec{Name: "r73", RangeM: 18000.0, Pk: 0.80, SpeedMS: 850.0}
}

// a2aWeaponNames returns the shooter's weapon names in a stable order:
// scenario loadout order first, then any inventory-only names sorted.
// Map iteration order must never influence a seeded run.
func a2aWeaponNames(e *Entity) []string {
	names := make([]string, 0, len(e.A2AInventory))
	seen := make(map[string]bool, len(e.A2AInventory))
	for _, name := range e.A2ALoadout {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	rest := make([]string, 0, len(e.A2AInventory))
	for name := range e.A2AInventory {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// selectBestA2AWeapon prefers the shortest-range weapon still in
// inventory that covers the target range (min-overkill). When no weapon
// with ammunition covers the range but some known spec's envelope does,
// it falls back to the smallest-range weapon with non-zero inventory.
func selectBestA2AWeapon(e *Entity, rangeM float64) *WeaponSpec {
	var best *WeaponSpec
	bestRange := math.MaxFloat64

	names := a2aWeaponNames(e)
	for _, name := range names {
		if e.A2AInventory[name] <= 0 {
			continue
		}
		spec, ok := e.A2ASpecs[name]
		if !ok {
			continue
		}
		if spec.RangeM >= rangeM && spec.RangeM < bestRange {
			s := spec
			best = &s
			bestRange = spec.RangeM
		}
	}
	if best != nil {
		return best
	}

	inEnvelope := false
	for _, spec := range e.A2ASpecs {
		if spec.RangeM >= rangeM {
			inEnvelope = true
			break
		}
	}
	if !inEnvelope {
		return nil
	}

	for _, name := range names {
		if e.A2AInventory[name] <= 0 {
			continue
		}
		spec, ok := e.A2ASpecs[name]
		if !ok {
			continue
		}
		if spec.RangeM < bestRange {
			s := spec
			best = &s
			bestRange = spec.RangeM
		}
	}
	return best
}

func hasAnyA2AAmmo(e *Entity) bool {
	for _, count := range e.A2AInventory {
		if count > 0 {
			return true
		}
	}
	return false
}

// UpdateA2AMissile advances every WeaponA2AMissile entity's kill chain:
// a three-phase state machine (LOCK→GUIDE→ASSESS) per active engagement,
// weapon selection by min-overkill range, and new-target acquisition
// from both the shooter's own radar and intercept-AI assignment.
func UpdateA2AMissile(dt float64, world *World) {
	for _, entity := range world.Entities() {
		if entity.WeaponType != WeaponA2AMissile {
			continue
		}
		if !entity.Active || entity.Destroyed {
			continue
		}
		updateA2AMissileEntity(entity, dt, world)
	}
}

func updateA2AMissileEntity(e *Entity, dt float64, world *World) {
	ensureDefaultA2ASpecs(e)

	selfLatRad := e.GeoLatDeg * math.Pi / 180.0
	selfLonRad := e.GeoLonDeg * math.Pi / 180.0

	remaining := e.A2AEngagements[:0]
	for i := range e.A2AEngagements {
		eng := e.A2AEngagements[i]
		eng.PhaseTimer -= dt
		if eng.PhaseTimer > 0.0 {
			remaining = append(remaining, eng)
			continue
		}

		switch eng.Phase {
		case 0:
			target := world.Get(eng.TargetID)
			if target == nil || !target.Active || target.Destroyed {
				continue
			}

			count, ok := e.A2AInventory[eng.WeaponType]
			if !ok || count <= 0 {
				continue
			}
			e.A2AInventory[eng.WeaponType] = count - 1

			e.Engagements = append(e.Engagements, EngagementRecord{
				TargetID: eng.TargetID, TargetName: target.Name, Result: "LAUNCH", Time: world.SimTime,
			})

			rangeM := SlantRangeECEF(
				selfLatRad, selfLonRad, e.GeoAltM,
				target.GeoLatDeg*math.Pi/180.0, target.GeoLonDeg*math.Pi/180.0, target.GeoAltM,
			)

			missileSpeed := 1000.0
			if spec, ok := e.A2ASpecs[eng.WeaponType]; ok {
				missileSpeed = spec.SpeedMS
			}
			tof := rangeM / missileSpeed

			eng.Phase = 1
			eng.PhaseTimer = tof
			remaining = append(remaining, eng)

		case 1:
			target := world.Get(eng.TargetID)

			pk := 0.5
			if spec, ok := e.A2ASpecs[eng.WeaponType]; ok {
				pk = spec.Pk
			}
			hit := world.RNG != nil && world.RNG.Bernoulli(pk)

			targetName := eng.TargetID
			if target != nil {
				targetName = target.Name
			}

			if hit && target != nil && target.Active && !target.Destroyed {
				target.Active = false
				target.Destroyed = true

				e.Engagements = append(e.Engagements, EngagementRecord{
					TargetID: eng.TargetID, TargetName: targetName, Result: "KILL", Time: world.SimTime,
				})
				target.Engagements = append(target.Engagements, EngagementRecord{
					TargetID: e.ID, TargetName: e.Name, Result: "KILLED_BY", Time: world.SimTime,
				})
			} else {
				e.Engagements = append(e.Engagements, EngagementRecord{
					TargetID: eng.TargetID, TargetName: targetName, Result: "MISS", Time: world.SimTime,
				})
			}

			eng.Phase = 2
			eng.PhaseTimer = a2aAssessTime
			remaining = append(remaining, eng)

		case 2:
			// assess complete, drop engagement

		default:
			// unknown phase, drop engagement
		}
	}
	e.A2AEngagements = remaining

	// weapons_hold blocks new engagements but lets existing ones
	// complete; a winchester shooter cannot open one either.
	if e.EngagementRules == WeaponsHold || !hasAnyA2AAmmo(e) {
		return
	}

	isEngaging := func(targetID string) bool {
		for _, eng := range e.A2AEngagements {
			if eng.TargetID == targetID {
				return true
			}
		}
		return false
	}

	if e.HasRadar {
		for _, det := range e.RadarDetections {
			if isEngaging(det.EntityID) {
				continue
			}
			target := world.Get(det.EntityID)
			if target == nil || !target.Active || target.Destroyed {
				continue
			}

			rangeM := SlantRangeECEF(
				selfLatRad, selfLonRad, e.GeoAltM,
				target.GeoLatDeg*math.Pi/180.0, target.GeoLonDeg*math.Pi/180.0, target.GeoAltM,
			)

			spec := selectBestA2AWeapon(e, rangeM)
			if spec == nil {
				continue
			}

			e.A2AEngagements = append(e.A2AEngagements, A2AEngagement{
				TargetID: det.EntityID, Phase: 0, PhaseTimer: e.A2ALockTime, WeaponType: spec.Name,
			})
		}
	}

	if e.InterceptState == 1 && e.InterceptTargetID != "" && !isEngaging(e.InterceptTargetID) {
		target := world.Get(e.InterceptTargetID)
		if target != nil && target.Active && !target.Destroyed {
			rangeM := SlantRangeECEF(
				selfLatRad, selfLonRad, e.GeoAltM,
				target.GeoLatDeg*math.Pi/180.0, target.GeoLonDeg*math.Pi/180.0, target.GeoAltM,
			)

			spec := selectBestA2AWeapon(e, rangeM)
			if spec != nil {
				e.A2AEngagements = append(e.A2AEngagements, A2AEngagement{
					TargetID: e.InterceptTargetID, Phase: 0, PhaseTimer: e.A2ALockTime, WeaponType: spec.Name,
				})
			}
		}
	}
}
