package smd

import (
	"os"

	"github.com/spf13/viper"
)

// smdconfig holds the process-wide options the VSOP87 ephemerides
// paths (celestial.go:HelioOrbit, ephemeris.go:SunPosition's
// HighPrecision branch) need. This
// is deliberately thin: unlike an operational astrodynamics toolkit that
// shells out to an external SPICE/Horizons binary for high-precision
// frame conversions, this engine's ephemerides are scoped to the
// analytical/VSOP87 series already vendored via
// github.com/soniakeys/meeus, so there is nothing else to configure.
type smdconfig struct {
	// VSOP87 selects the meeus VSOP87 series for HelioOrbit; always true
	// here since no alternate (e.g. SPICE) ephemeris backend is wired.
	VSOP87 bool
	// VSOP87Dir is the directory meeus/planetposition loads its VSOP87
	// coefficient files from.
	VSOP87Dir string
}

var config = loadSMDConfig()

func loadSMDConfig() smdconfig {
	viper.SetEnvPrefix("SENTINEL")
	viper.BindEnv("VSOP87_DIR")
	viper.AutomaticEnv()
	dir := viper.GetString("VSOP87_DIR")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home + "/.vsop87"
		}
	}
	return smdconfig{VSOP87: true, VSOP87Dir: dir}
}

func smdConfig() smdconfig {
	return config
}
