package mc

import (
	"math"

	"github.com/relaysim/sentinel"
)

// WGS-84 ellipsoid constants and the geodesy helpers (ECEF conversion,
// haversine, bearing, destination point, elevation angle) shared by the
// flight dynamics, radar, weapon, and event stages.
const (
	wgs84A       = 6378137.0        // semi-major axis, meters
	wgs84E2      = 0.00669437999014 // first eccentricity squared
	rEarthMean   = 6371000.0        // mean Earth radius, meters
	earthRotRate = 7.2921159e-5     // rad/s, ω_⊕
)

// GeodeticToECEF converts geodetic lat/lon (radians) and altitude
// (meters) to ECEF position (meters).
func GeodeticToECEF(latRad, lonRad, altM float64) smd.Vec3 {
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)
	n := wgs84A / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)
	return smd.Vec3{
		X: (n + altM) * cosLat * cosLon,
		Y: (n + altM) * cosLat * sinLon,
		Z: (n*(1.0-wgs84E2) + altM) * sinLat,
	}
}

// HaversineDistance returns the great-circle distance (meters) between
// two points on the mean-radius sphere.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	sinDlat2 := math.Sin(dlat * 0.5)
	sinDlon2 := math.Sin(dlon * 0.5)
	a := sinDlat2*sinDlat2 + math.Cos(lat1)*math.Cos(lat2)*sinDlon2*sinDlon2
	c := 2.0 * math.Atan2(math.Sqrt(a), math.Sqrt(1.0-a))
	return rEarthMean * c
}

// GreatCircleBearing returns the initial bearing (radians, [0, 2π)) from
// point 1 to point 2.
func GreatCircleBearing(lat1, lon1, lat2, lon2 float64) float64 {
	dlon := lon2 - lon1
	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	theta := math.Atan2(y, x)
	return math.Mod(theta+2.0*math.Pi, 2.0*math.Pi)
}

// AngleDiff returns the shortest signed difference a-b, in [-π, π].
func AngleDiff(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2.0 * math.Pi
	}
	for d < -math.Pi {
		d += 2.0 * math.Pi
	}
	return d
}

// SlantRangeECEF returns the straight-line (not great-circle) distance
// (meters) between two geodetic points via their ECEF positions.
func SlantRangeECEF(lat1, lon1, alt1, lat2, lon2, alt2 float64) float64 {
	p1 := GeodeticToECEF(lat1, lon1, alt1)
	p2 := GeodeticToECEF(lat2, lon2, alt2)
	return p2.Sub(p1).Norm()
}

// DestinationPoint returns the lat/lon (radians) reached by travelling
// distance (meters) along bearing (radians) from (lat, lon) on the
// great circle.
func DestinationPoint(lat, lon, bearing, distance float64) (lat2, lon2 float64) {
	delta := distance / rEarthMean
	sinLat, cosLat := math.Sincos(lat)
	sinD, cosD := math.Sincos(delta)

	lat2 = math.Asin(sinLat*cosD + cosLat*sinD*math.Cos(bearing))
	lon2 = lon + math.Atan2(math.Sin(bearing)*sinD*cosLat, cosD-sinLat*math.Sin(lat2))
	return
}

// ElevationAngle returns the elevation angle (degrees) from point 1
// looking toward point 2.
func ElevationAngle(lat1, lon1, alt1, lat2, lon2, alt2 float64) float64 {
	groundDist := HaversineDistance(lat1, lon1, lat2, lon2)
	altDiff := alt2 - alt1
	if groundDist < 1.0 {
		if altDiff > 0.0 {
			return 90.0
		}
		return -90.0
	}
	return math.Atan2(altDiff, groundDist) * 180.0 / math.Pi
}

// ECIToECEF rotates an ECI position to ECEF using the simplified
// GMST = ω_⊕ · simTime model (GMST = 0 at simTime = 0). Every entity
// shares the same rotation, so relative geometry is exact even though
// absolute astronomical alignment is not.
func ECIToECEF(eciPos smd.Vec3, simTime float64) smd.Vec3 {
	theta := earthRotRate * simTime
	sinT, cosT := math.Sincos(theta)
	return smd.Vec3{
		X: eciPos.X*cosT + eciPos.Y*sinT,
		Y: -eciPos.X*sinT + eciPos.Y*cosT,
		Z: eciPos.Z,
	}
}

// ECEFToGeodetic converts an ECEF position (meters) to geodetic
// lat/lon (radians) and altitude (meters) via Bowring's method, used
// when a checkpoint is restored to turn a flight or ground entity's saved
// ECEF position back into its geodetic state.
func ECEFToGeodetic(ecef smd.Vec3) (latRad, lonRad, altM float64) {
	p := math.Hypot(ecef.X, ecef.Y)
	lonRad = math.Atan2(ecef.Y, ecef.X)

	lat := math.Atan2(ecef.Z, p*(1-wgs84E2))
	for iter := 0; iter < 5; iter++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)
		altM = p/math.Cos(lat) - n
		lat = math.Atan2(ecef.Z, p*(1-wgs84E2*n/(n+altM)))
	}
	latRad = lat
	return
}
