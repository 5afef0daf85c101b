package mc

import (
	"math"

	"github.com/relaysim/sentinel"
)

// rho0SeaLevel is sea-level standard density (kg/m^3), used only for the
// thrust density-lapse ratio below — duplicated from the root package's
// atmosphere model rather than exported from it, since that constant is
// private to GetAtmosphere's own layer table.
const rho0SeaLevel = 1.225

const flightGravity = 9.80665

// UpdateFlight3DOF propagates every PhysicsFlight3DOF entity for one
// tick: point-mass equations of motion (speed, flight path angle,
// heading) driven by lift/drag from the current angle of attack and
// bank, thrust with an altitude density lapse, integrated and then
// advanced geodetically via great-circle navigation.
func UpdateFlight3DOF(dt float64, world *World) {
	for _, e := range world.Entities() {
		if e.PhysicsType != PhysicsFlight3DOF {
			continue
		}
		if !e.Active || e.Destroyed {
			continue
		}
		updateFlight3DOFEntity(e, dt)
	}
}

func updateFlight3DOFEntity(e *Entity, dt float64) {
	atmo := smd.GetAtmosphere(e.GeoAltM)

	v := e.FlightSpeedMS
	gamma := e.FlightGammaRad
	heading := e.FlightHeadingRad
	alpha := e.FlightAlphaRad
	roll := e.FlightRollRad
	mass := e.ACMass

	q := 0.5 * atmo.Density * v * v

	cl := clampMC(e.ACClAlpha*alpha, -e.ACClMax, e.ACClMax)
	cd := e.ACCd0 + cl*cl/(math.Pi*e.ACOswald*e.ACAR)

	mach := 0.0
	if atmo.SpeedOfSound > 1.0 {
		mach = v / atmo.SpeedOfSound
	}
	if mach > 0.85 {
		dm := mach - 0.85
		cd += 0.1 * dm * dm
	}

	lift := q * e.ACWingArea * cl
	drag := q * e.ACWingArea * cd

	thrust := 0.0
	if e.FlightEngineOn {
		thrustBase := e.ACThrustMil
		if e.FlightThrottle > 0.95 {
			thrustBase = e.ACThrustAB
		}
		densityRatio := atmo.Density / rho0SeaLevel
		thrust = e.FlightThrottle * thrustBase * math.Pow(densityRatio, 0.7)
	}

	dV := (thrust*math.Cos(alpha)-drag)/mass - flightGravity*math.Sin(gamma)

	dGamma := 0.0
	if v > 1.0 {
		dGamma = (lift*math.Cos(roll) + thrust*math.Sin(alpha) - mass*flightGravity*math.Cos(gamma)) / (mass * v)
	}

	dHeading := 0.0
	if v > 1.0 && math.Abs(math.Cos(gamma)) > 0.01 {
		dHeading = lift * math.Sin(roll) / (mass * v * math.Cos(gamma))
	}

	v += dV * dt
	gamma += dGamma * dt
	heading += dHeading * dt

	if v < 50.0 {
		v = 50.0
	}

	const gammaLimit = 80.0 * math.Pi / 180.0
	gamma = clampMC(gamma, -gammaLimit, gammaLimit)

	heading = math.Mod(heading, 2.0*math.Pi)
	if heading < 0.0 {
		heading += 2.0 * math.Pi
	}

	dAlt := v * math.Sin(gamma) * dt
	dist := v * math.Cos(gamma) * dt

	latRad := e.GeoLatDeg * math.Pi / 180.0
	lonRad := e.GeoLonDeg * math.Pi / 180.0

	newLatRad, newLonRad := DestinationPoint(latRad, lonRad, heading, dist)

	e.GeoLatDeg = newLatRad * 180.0 / math.Pi
	e.GeoLonDeg = newLonRad * 180.0 / math.Pi

	e.GeoAltM += dAlt
	if e.GeoAltM < 0.0 {
		e.GeoAltM = 0.0
	}

	if atmo.SpeedOfSound > 1.0 {
		e.FlightMach = v / atmo.SpeedOfSound
	} else {
		e.FlightMach = 0.0
	}

	e.FlightSpeedMS = v
	e.FlightHeadingRad = heading
	e.FlightGammaRad = gamma
}
