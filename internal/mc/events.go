package mc

import "math"

// isGeodeticPhysics reports whether entities with this physics type
// carry a meaningful geodetic position.
func isGeodeticPhysics(p PhysicsType) bool {
	return p == PhysicsFlight3DOF || p == PhysicsStatic
}

// UpdateEvents evaluates every unfired ScenarioEvent's trigger and
// executes its action once triggered: time/proximity/detection triggers,
// message/change_rules/set_state actions. dt is unused — triggers are
// evaluated purely against the world's current state. Fired "message"
// actions append to world.MessageLog rather than stderr, so a run's
// messages travel with its own World instead of a shared global (each
// run's World is independent, which is what keeps parallel seeded runs
// race-free).
func UpdateEvents(dt float64, world *World) {
	for i := range world.Events {
		event := &world.Events[i]
		if event.Fired {
			continue
		}
		if checkTrigger(event.Trigger, world) {
			executeAction(event.Action, world)
			event.Fired = true
		}
	}
}

func checkTrigger(trigger EventTrigger, world *World) bool {
	switch trigger.Kind {
	case "time":
		return world.SimTime >= trigger.Time

	case "proximity":
		a := world.Get(trigger.EntityA)
		b := world.Get(trigger.EntityB)
		if a == nil || b == nil {
			return false
		}
		if !a.Active || a.Destroyed {
			return false
		}
		if !b.Active || b.Destroyed {
			return false
		}

		var distance float64
		if isGeodeticPhysics(a.PhysicsType) && isGeodeticPhysics(b.PhysicsType) {
			distance = HaversineDistance(
				a.GeoLatDeg*math.Pi/180.0, a.GeoLonDeg*math.Pi/180.0,
				b.GeoLatDeg*math.Pi/180.0, b.GeoLonDeg*math.Pi/180.0,
			)
		} else {
			pa := entityECEF(a, world.SimTime)
			pb := entityECEF(b, world.SimTime)
			distance = pb.Sub(pa).Norm()
		}

		return distance <= trigger.RangeM

	case "detection":
		sensor := world.Get(trigger.SensorEntity)
		if sensor == nil || !sensor.HasRadar {
			return false
		}
		for _, det := range sensor.RadarDetections {
			if det.EntityID == trigger.TargetEntity {
				return true
			}
		}
		return false
	}

	return false
}

func executeAction(action EventAction, world *World) {
	switch action.Kind {
	case "message":
		world.MessageLog = append(world.MessageLog, action.Message)

	case "change_rules":
		entity := world.Get(action.EntityID)
		if entity == nil {
			return
		}
		entity.EngagementRules = ParseEngagementRules(action.Value)

	case "set_state":
		entity := world.Get(action.EntityID)
		if entity == nil {
			return
		}
		switch action.Field {
		case "engagementRules", "engagement_rules":
			entity.EngagementRules = ParseEngagementRules(action.Value)
		case "active":
			entity.Active = action.Value == "true"
		case "destroyed":
			entity.Destroyed = action.Value == "true"
		}
	}
}
