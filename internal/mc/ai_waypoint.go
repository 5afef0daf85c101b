package mc

import "math"

// UpdateWaypointPatrolAI flies every AIWaypointPatrol entity through its
// waypoint list: bank proportional to heading error, alpha proportional
// to altitude error, bang-bang-with-ramp throttle, advancing (looping if
// configured) on arrival within 2 km great-circle distance.
func UpdateWaypointPatrolAI(dt float64, world *World) {
	for _, e := range world.Entities() {
		if e.AIType != AIWaypointPatrol {
			continue
		}
		if !e.Active || e.Destroyed {
			continue
		}
		if len(e.Waypoints) == 0 {
			continue
		}
		updateWaypointEntity(e, dt)
	}
}

func updateWaypointEntity(e *Entity, dt float64) {
	wp := e.Waypoints[e.WaypointIndex]

	latRad := e.GeoLatDeg * math.Pi / 180.0
	lonRad := e.GeoLonDeg * math.Pi / 180.0
	wpLatRad := wp.LatDeg * math.Pi / 180.0
	wpLonRad := wp.LonDeg * math.Pi / 180.0

	bearing := GreatCircleBearing(latRad, lonRad, wpLatRad, wpLonRad)
	distance := HaversineDistance(latRad, lonRad, wpLatRad, wpLonRad)

	desiredHeading := bearing
	desiredAlt := wp.AltM
	desiredSpeed := wp.SpeedMS
	if desiredSpeed <= 0.0 {
		desiredSpeed = e.FlightSpeedMS
	}

	headingError := AngleDiff(desiredHeading, e.FlightHeadingRad)
	rollCmd := clampMC(headingError*2.0, -0.7, 0.7)
	rollRate := math.Min(dt*3.0, 1.0)
	e.FlightRollRad += (rollCmd - e.FlightRollRad) * rollRate

	altError := desiredAlt - e.GeoAltM
	e.FlightAlphaRad = clampMC(altError*0.001, -0.15, 0.15)

	if e.FlightSpeedMS < desiredSpeed*0.95 {
		e.FlightThrottle += 0.1 * dt
	} else if e.FlightSpeedMS > desiredSpeed*1.05 {
		e.FlightThrottle -= 0.1 * dt
	}
	e.FlightThrottle = clampMC(e.FlightThrottle, 0.3, 1.0)

	if distance < 2000.0 {
		e.WaypointIndex++
		if e.WaypointIndex >= len(e.Waypoints) {
			if e.WaypointLoop {
				e.WaypointIndex = 0
			} else {
				e.WaypointIndex = len(e.Waypoints) - 1
			}
		}
	}
}

// clampMC clamps v to [lo, hi], shared by the waypoint and intercept
// steering loops.
func clampMC(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
