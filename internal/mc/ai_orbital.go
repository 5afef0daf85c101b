package mc

import (
	"math"
	"sort"

	"github.com/relaysim/sentinel"
)

// targetInfo is a scanned contact, sorted by range for target
// selection.
type targetInfo struct {
	EntityID string
	Distance float64
	Role     CombatRole
}

// UpdateOrbitalCombatAI drives every AIOrbitalCombat entity in world for
// one tick: periodic sensor sweep, role-based target selection, then
// either close distance under thrust or hand off to the weapon stage
// once within kill range.
func UpdateOrbitalCombatAI(dt float64, world *World) {
	for _, entity := range world.Entities() {
		if entity.AIType != AIOrbitalCombat {
			continue
		}
		if !entity.Active || entity.Destroyed {
			continue
		}
		if entity.Role == RoleHVA {
			continue
		}

		entity.ScanTimer += dt
		if entity.ScanTimer >= entity.ScanInterval {
			entity.ScanTimer = 0.0
			entity.CachedTargets = scanForTargets(entity, world)
		}
		targets := entity.CachedTargets

		switch entity.Role {
		case RoleDefender:
			selectTargetDefender(entity, world, targets)
		case RoleAttacker:
			selectTargetAttacker(entity, targets)
		case RoleEscort:
			selectTargetEscort(entity, dt, world, targets)
		case RoleSweep:
			selectTargetSweep(entity, targets)
		}

		if entity.CurrentTarget != "" {
			target := world.Get(entity.CurrentTarget)
			if target != nil && target.Active && !target.Destroyed {
				dist := target.ECIPos.Sub(entity.ECIPos).Norm()
				if dist < entity.KillRangeM {
					entity.KKTargetID = entity.CurrentTarget
				} else {
					entity.KKTargetID = ""
					applyThrust(entity, dt, target.ECIPos)
				}
				continue
			}
			entity.CurrentTarget = ""
		}

		entity.KKTargetID = ""
	}
}

func scanForTargets(entity *Entity, world *World) []targetInfo {
	var targets []targetInfo
	srSq := entity.SensorRangeM * entity.SensorRangeM

	for _, other := range world.Entities() {
		if other.ID == entity.ID {
			continue
		}
		if other.Team == entity.Team {
			continue
		}
		if !other.Active || other.Destroyed {
			continue
		}
		delta := other.ECIPos.Sub(entity.ECIPos)
		distSq := delta.Dot(delta)
		if distSq <= srSq {
			targets = append(targets, targetInfo{
				EntityID: other.ID,
				Distance: delta.Norm(),
				Role:     other.Role,
			})
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Distance < targets[j].Distance })
	return targets
}

func selectTargetDefender(entity *Entity, world *World, targets []targetInfo) {
	var hva *Entity
	if entity.AssignedHVAID != "" {
		hva = world.Get(entity.AssignedHVAID)
	}
	if hva == nil || !hva.Active {
		entity.CurrentTarget = ""
		return
	}

	defRadiusSq := entity.DefenseRadiusM * entity.DefenseRadiusM
	bestID := ""
	bestDist := math.MaxFloat64

	for _, t := range targets {
		if t.Role != RoleAttacker && t.Role != RoleSweep && t.Role != RoleEscort {
			continue
		}
		enemy := world.Get(t.EntityID)
		if enemy == nil {
			continue
		}
		delta := enemy.ECIPos.Sub(hva.ECIPos)
		if delta.Dot(delta) <= defRadiusSq && t.Distance < bestDist {
			bestID = t.EntityID
			bestDist = t.Distance
		}
	}

	entity.CurrentTarget = bestID
}

func selectTargetAttacker(entity *Entity, targets []targetInfo) {
	bestID := ""
	bestDist := math.MaxFloat64

	for _, t := range targets {
		if t.Role == RoleHVA && t.Distance < bestDist {
			bestID = t.EntityID
			bestDist = t.Distance
		}
	}

	entity.CurrentTarget = bestID
}

func selectTargetEscort(entity *Entity, dt float64, world *World, targets []targetInfo) {
	bestID := ""
	bestDist := math.MaxFloat64

	for _, t := range targets {
		if (t.Role == RoleDefender || t.Role == RoleSweep) && t.Distance < bestDist {
			bestID = t.EntityID
			bestDist = t.Distance
		}
	}

	if bestID != "" {
		entity.CurrentTarget = bestID
		return
	}

	entity.CurrentTarget = ""
	driftTowardFriendlyAttacker(entity, dt, world)
}

func selectTargetSweep(entity *Entity, targets []targetInfo) {
	bestID := ""
	bestDist := math.MaxFloat64

	for _, t := range targets {
		if (t.Role == RoleAttacker || t.Role == RoleEscort) && t.Distance < bestDist {
			bestID = t.EntityID
			bestDist = t.Distance
		}
	}

	entity.CurrentTarget = bestID
}

func driftTowardFriendlyAttacker(entity *Entity, dt float64, world *World) {
	if entity.ScanTimer > 0.01 {
		return
	}

	nearestID := ""
	nearestDist := math.MaxFloat64

	for _, other := range world.Entities() {
		if other.ID == entity.ID {
			continue
		}
		if other.Team != entity.Team {
			continue
		}
		if !other.Active || other.Destroyed {
			continue
		}
		if other.Role != RoleAttacker {
			continue
		}
		dist := other.ECIPos.Sub(entity.ECIPos).Norm()
		if dist < nearestDist {
			nearestDist = dist
			nearestID = other.ID
		}
	}

	if nearestID != "" {
		friendly := world.Get(nearestID)
		if friendly != nil {
			applyThrustScaled(entity, dt, friendly.ECIPos, 0.3)
		}
	}
}

func applyThrust(entity *Entity, dt float64, targetPos smd.Vec3) {
	delta := targetPos.Sub(entity.ECIPos)
	dist := delta.Norm()
	if dist < 1.0 {
		return
	}
	dv := entity.MaxAccel * dt
	entity.ECIVel = entity.ECIVel.Add(delta.Scale(dv / dist))
}

func applyThrustScaled(entity *Entity, dt float64, targetPos smd.Vec3, scale float64) {
	delta := targetPos.Sub(entity.ECIPos)
	dist := delta.Norm()
	if dist < 1.0 {
		return
	}
	effectiveDt := dt
	if effectiveDt <= 0 {
		effectiveDt = entity.ScanInterval
	}
	dv := entity.MaxAccel * scale * effectiveDt
	entity.ECIVel = entity.ECIVel.Add(delta.Scale(dv / dist))
}
