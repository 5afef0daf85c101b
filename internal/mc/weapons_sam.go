package mc

import "math"

const samDetectTime = 1.0
const samTrackTime = 2.0
const samAssessTime = 3.0

// UpdateSAMBattery advances every WeaponSAMBattery entity's kill chain:
// a four-phase state machine (DETECT→TRACK→ENGAGE→ASSESS) per active
// engagement, salvo sizing against remaining inventory, and
// new-engagement acquisition from same-team radar detections within
// range.
func UpdateSAMBattery(dt float64, world *World) {
	for _, e := range world.Entities() {
		if e.WeaponType != WeaponSAMBattery {
			continue
		}
		if !e.Active || e.Destroyed {
			continue
		}
		updateSAMBatteryEntity(e, dt, world)
	}
}

func updateSAMBatteryEntity(e *Entity, dt float64, world *World) {
	samLatRad := e.GeoLatDeg * math.Pi / 180.0
	samLonRad := e.GeoLonDeg * math.Pi / 180.0

	remaining := e.SAMEngagements[:0]
	for i := range e.SAMEngagements {
		eng := e.SAMEngagements[i]
		eng.PhaseTimer -= dt
		if eng.PhaseTimer > 0.0 {
			remaining = append(remaining, eng)
			continue
		}

		switch eng.Phase {
		case 0:
			eng.Phase = 1
			eng.PhaseTimer = samTrackTime
			remaining = append(remaining, eng)

		case 1:
			target := world.Get(eng.TargetID)
			if target == nil || !target.Active || target.Destroyed {
				continue
			}
			if e.SAMMissilesReady <= 0 {
				continue
			}

			rangeM := SlantRangeECEF(
				samLatRad, samLonRad, e.GeoAltM,
				target.GeoLatDeg*math.Pi/180.0, target.GeoLonDeg*math.Pi/180.0, target.GeoAltM,
			)
			tof := rangeM / e.SAMMissileSpeedMS

			eng.MissilesFired = 0
			toFire := e.SAMSalvoSize
			if e.SAMMissilesReady < toFire {
				toFire = e.SAMMissilesReady
			}
			for i := 0; i < toFire; i++ {
				eng.MissilesFired++
				e.SAMMissilesReady--
				e.Engagements = append(e.Engagements, EngagementRecord{
					TargetID:   eng.TargetID,
					TargetName: target.Name,
					Result:     "LAUNCH",
					Time:       world.SimTime,
				})
			}

			eng.Phase = 2
			eng.PhaseTimer = tof
			remaining = append(remaining, eng)

		case 2:
			target := world.Get(eng.TargetID)

			anyHit := false
			for i := 0; i < eng.MissilesFired; i++ {
				if world.RNG != nil && world.RNG.Bernoulli(e.SAMPkPerMissile) {
					anyHit = true
				}
			}

			targetName := eng.TargetID
			if target != nil {
				targetName = target.Name
			}

			if anyHit && target != nil && target.Active && !target.Destroyed {
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

			eng.Phase = 3
			eng.PhaseTimer = samAssessTime
			remaining = append(remaining, eng)

		case 3:
			// assess complete, drop engagement

		default:
			// unknown phase, drop engagement
		}
	}
	e.SAMEngagements = remaining

	// weapons_hold suspends new engagements only; chains already in
	// flight run to completion.
	if e.EngagementRules == WeaponsHold {
		return
	}

	for _, radarEntity := range world.Entities() {
		if !radarEntity.HasRadar {
			continue
		}
		if radarEntity.Team != e.Team {
			continue
		}
		if !radarEntity.Active || radarEntity.Destroyed {
			continue
		}

		for _, det := range radarEntity.RadarDetections {
			already := false
			for _, eng := range e.SAMEngagements {
				if eng.TargetID == det.EntityID {
					already = true
					break
				}
			}
			if already {
				continue
			}

			target := world.Get(det.EntityID)
			if target == nil || !target.Active || target.Destroyed {
				continue
			}
			if target.PhysicsType == PhysicsStatic {
				continue
			}
			if target.GeoAltM < 100.0 {
				continue
			}

			rangeM := SlantRangeECEF(
				samLatRad, samLonRad, e.GeoAltM,
				target.GeoLatDeg*math.Pi/180.0, target.GeoLonDeg*math.Pi/180.0, target.GeoAltM,
			)
			if rangeM > e.SAMMaxRangeM || rangeM < e.SAMMinRangeM {
				continue
			}

			e.SAMEngagements = append(e.SAMEngagements, SAMEngagement{
				TargetID:      det.EntityID,
				Phase:         0,
				PhaseTimer:    samDetectTime,
				MissilesFired: 0,
			})
		}
	}
}
