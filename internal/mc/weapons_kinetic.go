package mc

// UpdateKineticKill advances every WeaponKineticKill entity's sacrificial
// kill chain: cooldown after a miss, a LAUNCH log on first engaging a
// new target, and, once within kill range, a single Pk roll that either
// destroys both entities (mutual kill) or sends the shooter into
// cooldown.
func UpdateKineticKill(dt float64, world *World) {
	for _, entity := range world.Entities() {
		if entity.WeaponType != WeaponKineticKill {
			continue
		}
		if !entity.Active || entity.Destroyed {
			continue
		}
		updateKineticKillEntity(entity, dt, world)
	}
}

func updateKineticKillEntity(entity *Entity, dt float64, world *World) {
	if entity.CooldownTimer > 0.0 {
		entity.CooldownTimer -= dt
		if entity.CooldownTimer <= 0.0 {
			entity.CooldownTimer = 0.0
		}
		return
	}

	if entity.KKTargetID == "" {
		return
	}

	target := world.Get(entity.KKTargetID)
	if target == nil || !target.Active || target.Destroyed {
		entity.KKTargetID = ""
		return
	}

	dist := target.ECIPos.Sub(entity.ECIPos).Norm()

	if entity.KKTargetID != entity.LastLaunchTarget {
		entity.LastLaunchTarget = entity.KKTargetID
		entity.Engagements = append(entity.Engagements, EngagementRecord{
			TargetID:   entity.KKTargetID,
			TargetName: target.Name,
			Result:     "LAUNCH",
			Time:       world.SimTime,
		})
	}

	if dist > entity.WeaponKillRangeM {
		return
	}

	hit := world.RNG != nil && world.RNG.Bernoulli(entity.Pk)

	if hit {
		target.Active = false
		target.Destroyed = true
		target.Engagements = append(target.Engagements, EngagementRecord{
			TargetID:   entity.ID,
			TargetName: entity.Name,
			Result:     "KILLED_BY",
			Time:       world.SimTime,
		})

		entity.Active = false
		entity.Destroyed = true
		entity.Engagements = append(entity.Engagements, EngagementRecord{
			TargetID:   entity.KKTargetID,
			TargetName: target.Name,
			Result:     "KILL",
			Time:       world.SimTime,
		})
	} else {
		entity.CooldownTimer = entity.CooldownTime
		entity.KKTargetID = ""
		entity.Engagements = append(entity.Engagements, EngagementRecord{
			TargetID:   entity.LastLaunchTarget,
			TargetName: target.Name,
			Result:     "MISS",
			Time:       world.SimTime,
		})
	}
}
