package mc

import (
	"math"

	"github.com/relaysim/sentinel"
)

// entityECEF returns an entity's ECEF position at simTime: orbital
// entities rotate their ECI state via the shared GMST model, ground and
// flight entities convert their geodetic state directly.
func entityECEF(e *Entity, simTime float64) smd.Vec3 {
	if e.PhysicsType == PhysicsOrbital2Body {
		return ECIToECEF(e.ECIPos, simTime)
	}
	latRad := e.GeoLatDeg * math.Pi / 180.0
	lonRad := e.GeoLonDeg * math.Pi / 180.0
	return GeodeticToECEF(latRad, lonRad, e.GeoAltM)
}

// computeBearingECEF returns the bearing (radians, [0, 2π)) from the
// observer's ECEF position to the target's, via a local ENU projection
// around the observer.
func computeBearingECEF(obs, tgt smd.Vec3) float64 {
	rObs := obs.Norm()
	if rObs < 1.0 {
		return 0.0
	}

	lat := math.Asin(obs.Z / rObs)
	lon := math.Atan2(obs.Y, obs.X)

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	dx := tgt.X - obs.X
	dy := tgt.Y - obs.Y
	dz := tgt.Z - obs.Z

	east := -sinLon*dx + cosLon*dy
	north := -sinLat*cosLon*dx - sinLat*sinLon*dy + cosLat*dz

	bearing := math.Atan2(east, north)
	if bearing < 0.0 {
		bearing += 2.0 * math.Pi
	}
	return bearing
}

// UpdateRadarSensor sweeps every HasRadar entity's sensor once its
// sweep interval has elapsed: slant range gate, elevation gate, a
// probabilistic detection roll against the world's shared RNG, then a
// recorded RadarDetection with range and bearing.
func UpdateRadarSensor(dt float64, world *World) {
	for _, e := range world.Entities() {
		if !e.HasRadar {
			continue
		}
		if !e.Active || e.Destroyed {
			continue
		}
		updateRadarEntity(e, dt, world)
	}
}

func updateRadarEntity(e *Entity, dt float64, world *World) {
	e.RadarSweepTimer += dt
	if e.RadarSweepTimer < e.RadarSweepInterval {
		return
	}

	e.RadarSweepTimer = 0.0
	e.RadarDetections = nil

	sensorECEF := entityECEF(e, world.SimTime)

	for _, target := range world.Entities() {
		if target.ID == e.ID {
			continue
		}
		if target.Team == e.Team {
			continue
		}
		if !target.Active || target.Destroyed {
			continue
		}

		tgtECEF := entityECEF(target, world.SimTime)
		rng := tgtECEF.Sub(sensorECEF).Norm()

		if rng > e.RadarMaxRangeM {
			continue
		}

		latRad := e.GeoLatDeg * math.Pi / 180.0
		lonRad := e.GeoLonDeg * math.Pi / 180.0

		var tgtLatRad, tgtLonRad, tgtAlt float64
		if target.PhysicsType == PhysicsOrbital2Body {
			r := tgtECEF.Norm()
			tgtLatRad = math.Asin(tgtECEF.Z / r)
			tgtLonRad = math.Atan2(tgtECEF.Y, tgtECEF.X)
			tgtAlt = r - rEarthMean
		} else {
			tgtLatRad = target.GeoLatDeg * math.Pi / 180.0
			tgtLonRad = target.GeoLonDeg * math.Pi / 180.0
			tgtAlt = target.GeoAltM
		}

		elev := ElevationAngle(latRad, lonRad, e.GeoAltM, tgtLatRad, tgtLonRad, tgtAlt)
		if elev < e.RadarMinElevDeg || elev > e.RadarMaxElevDeg {
			continue
		}

		if world.RNG != nil && !world.RNG.Bernoulli(e.RadarPDetect) {
			continue
		}

		bearing := computeBearingECEF(sensorECEF, tgtECEF)

		e.RadarDetections = append(e.RadarDetections, RadarDetection{
			EntityID:   target.ID,
			RangeM:     rng,
			BearingRad: bearing,
			Time:       world.SimTime,
		})
	}
}
