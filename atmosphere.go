package smd

import "math"

// US Standard Atmosphere 1976 constants.
const (
	rAir               = 287.058   // J/(kg K), specific gas constant for dry air
	gammaAir           = 1.4       // ratio of specific heats
	g0                 = 9.80665   // m/s^2, standard gravity
	rEarthGeopotential = 6356766.0 // m, geopotential Earth radius
	t0Atmosphere       = 288.15    // K, sea-level standard temperature
	p0Atmosphere       = 101325.0  // Pa, sea-level standard pressure
	rho0Atmosphere     = 1.225     // kg/m^3, sea-level standard density
	atmosphereTopH     = 84852.0   // m, top of the 7-layer model (geopotential)
	atmosphereTopT     = 186.946   // K, temperature at the top of the model
)

// Layer base geopotential heights (m), base temperatures (K), and lapse
// rates (K/m) for the 7 layers below 84852 m, per the 1976 standard.
var (
	atmosphereLayerH = [7]float64{0, 11000, 20000, 32000, 47000, 51000, 71000}
	atmosphereLayerT = [7]float64{288.15, 216.65, 216.65, 228.65, 270.65, 270.65, 214.65}
	atmosphereLapse  = [7]float64{-0.0065, 0, 0.001, 0.0028, 0, -0.0028, -0.002}
)

// atmosphereLayerP holds the base pressure of each layer, computed once
// from the layer table above.
var atmosphereLayerP [7]float64

func init() {
	atmosphereLayerP[0] = p0Atmosphere
	for i := 1; i < 7; i++ {
		atmosphereLayerP[i] = layerPressure(i-1, atmosphereLayerH[i])
	}
}

// layerPressure evaluates the pressure at geopotential height h within
// layer i, given that layer's own base pressure is already known.
func layerPressure(i int, h float64) float64 {
	hb := atmosphereLayerH[i]
	tb := atmosphereLayerT[i]
	lapse := atmosphereLapse[i]
	pb := atmosphereLayerP[i]
	if math.Abs(lapse) < 1e-12 {
		return pb * math.Exp(-g0*(h-hb)/(rAir*tb))
	}
	return pb * math.Pow(tb/(tb+lapse*(h-hb)), g0/(rAir*lapse))
}

// GeometricToGeopotential converts a geometric altitude (m above the
// reference ellipsoid) to geopotential altitude.
func GeometricToGeopotential(hGeometric float64) float64 {
	return rEarthGeopotential * hGeometric / (rEarthGeopotential + hGeometric)
}

// AtmosphereState holds the local air properties returned by
// GetAtmosphere: temperature (K), pressure (Pa), density (kg/m^3), and
// local speed of sound (m/s).
type AtmosphereState struct {
	Temperature  float64
	Pressure     float64
	Density      float64
	SpeedOfSound float64
}

// GetAtmosphere evaluates the US Standard Atmosphere 1976 model at a
// geometric altitude (m): layer search below 84852 m geopotential,
// exponential decay above it.
func GetAtmosphere(altitudeGeometric float64) AtmosphereState {
	h := GeometricToGeopotential(altitudeGeometric)

	var t, p float64
	if h >= atmosphereTopH {
		// Exponential decay above the modeled layers, anchored at the top.
		t = atmosphereTopT
		scaleHeight := rAir * t / g0
		pTop := layerPressure(6, atmosphereTopH)
		p = pTop * math.Exp(-(h-atmosphereTopH)/scaleHeight)
	} else {
		layer := 0
		for i := 6; i >= 0; i-- {
			if h >= atmosphereLayerH[i] {
				layer = i
				break
			}
		}
		hb := atmosphereLayerH[layer]
		tb := atmosphereLayerT[layer]
		lapse := atmosphereLapse[layer]
		t = tb + lapse*(h-hb)
		p = layerPressure(layer, h)
	}

	rho := p / (rAir * t)
	a := math.Sqrt(gammaAir * rAir * t)
	return AtmosphereState{Temperature: t, Pressure: p, Density: rho, SpeedOfSound: a}
}
