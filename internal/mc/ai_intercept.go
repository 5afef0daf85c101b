package mc

import "math"

// UpdateInterceptAI steers every AIIntercept entity toward its
// designated target: pure pursuit (modes 0/1/2 are aliases for now),
// full-throttle chase, and an engaged flag set once within slant range
// of the engage threshold. Orbital targets cannot be intercepted — no
// atmospheric steering solution exists for them.
func UpdateInterceptAI(dt float64, world *World) {
	for _, e := range world.Entities() {
		if e.AIType != AIIntercept {
			continue
		}
		if !e.Active || e.Destroyed {
			continue
		}
		updateInterceptEntity(e, dt, world)
	}
}

func updateInterceptEntity(e *Entity, dt float64, world *World) {
	if e.InterceptTargetID == "" {
		return
	}

	target := world.Get(e.InterceptTargetID)
	if target == nil || !target.Active || target.Destroyed {
		e.InterceptState = 0
		return
	}

	if target.PhysicsType == PhysicsOrbital2Body {
		e.InterceptState = 0
		return
	}

	tgtLat := target.GeoLatDeg
	tgtLon := target.GeoLonDeg
	tgtAlt := target.GeoAltM

	latRad := e.GeoLatDeg * math.Pi / 180.0
	lonRad := e.GeoLonDeg * math.Pi / 180.0
	tgtLatRad := tgtLat * math.Pi / 180.0
	tgtLonRad := tgtLon * math.Pi / 180.0

	bearing := GreatCircleBearing(latRad, lonRad, tgtLatRad, tgtLonRad)
	distance := HaversineDistance(latRad, lonRad, tgtLatRad, tgtLonRad)

	altDiff := tgtAlt - e.GeoAltM
	slantDistance := math.Sqrt(distance*distance + altDiff*altDiff)

	desiredHeading := bearing

	var desiredAlt float64
	if target.PhysicsType == PhysicsFlight3DOF {
		desiredAlt = tgtAlt
	} else {
		desiredAlt = math.Max(tgtAlt, 500.0)
	}

	e.FlightThrottle = 1.0

	headingError := AngleDiff(desiredHeading, e.FlightHeadingRad)
	rollCmd := clampMC(headingError*2.0, -0.7, 0.7)
	rollRate := math.Min(dt*3.0, 1.0)
	e.FlightRollRad += (rollCmd - e.FlightRollRad) * rollRate

	altError := desiredAlt - e.GeoAltM
	e.FlightAlphaRad = clampMC(altError*0.001, -0.15, 0.15)

	if e.InterceptEngageRange > 0.0 && slantDistance < e.InterceptEngageRange {
		e.InterceptState = 1
	} else {
		e.InterceptState = 0
	}
}
