package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
	"github.com/spf13/viper"

	"github.com/relaysim/sentinel"
)

var scenario = flag.String("scenario", "", "rendezvous scenario TOML file (required)")

func main() {
	flag.Parse()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "cmd", "rendezvous")

	if *scenario == "" {
		level.Error(logger).Log("msg", "missing required -scenario flag")
		os.Exit(1)
	}

	viper.SetConfigFile(*scenario)
	if err := viper.ReadInConfig(); err != nil {
		level.Error(logger).Log("msg", "failed reading scenario", "path", *scenario, "err", err)
		os.Exit(1)
	}

	target, err := smd.CelestialObjectFromString(viper.GetString("orbit.body"))
	if err != nil {
		level.Error(logger).Log("msg", "unknown central body", "err", err)
		os.Exit(1)
	}

	targetOrbit := smd.NewOrbitFromOE(
		viper.GetFloat64("target.sma"),
		viper.GetFloat64("target.ecc"),
		viper.GetFloat64("target.inc"),
		viper.GetFloat64("target.raan"),
		viper.GetFloat64("target.argPeri"),
		viper.GetFloat64("target.tAnomaly"),
		target,
	)
	chaserOrbit := smd.NewOrbitFromOE(
		viper.GetFloat64("chaser.sma"),
		viper.GetFloat64("chaser.ecc"),
		viper.GetFloat64("chaser.inc"),
		viper.GetFloat64("chaser.raan"),
		viper.GetFloat64("chaser.argPeri"),
		viper.GetFloat64("chaser.tAnomaly"),
		target,
	)

	rTarget, vTarget := targetOrbit.RV()
	rChaser, vChaser := chaserOrbit.RV()

	relPos, relVel, _ := smd.RelativeState(
		smd.Vec3{X: rChaser[0], Y: rChaser[1], Z: rChaser[2]},
		smd.Vec3{X: vChaser[0], Y: vChaser[1], Z: vChaser[2]},
		smd.Vec3{X: rTarget[0], Y: rTarget[1], Z: rTarget[2]},
		smd.Vec3{X: vTarget[0], Y: vTarget[1], Z: vTarget[2]},
	)

	level.Info(logger).Log("msg", "initial relative state (RIC, m, m/s)",
		"relR", relPos.X, "relI", relPos.Y, "relC", relPos.Z,
		"relVR", relVel.X, "relVI", relVel.Y, "relVC", relVel.Z)

	n := 2.0 * math.Pi / chaserOrbit.Period().Seconds()
	transferTime := viper.GetFloat64("transfer.time")

	dv1, dv2, err := smd.TwoImpulseTransfer(relPos, smd.Vec3{}, relVel, n, transferTime)
	if err != nil {
		level.Error(logger).Log("msg", "transfer solution failed", "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log("msg", "two-impulse rendezvous solution",
		"dv1R", dv1.X, "dv1I", dv1.Y, "dv1C", dv1.Z,
		"dv2R", dv2.X, "dv2I", dv2.Y, "dv2C", dv2.Z,
		"totalDV", dv1.Norm()+dv2.Norm())

	// Simulate noisy onboard range measurements along the approach and run
	// them through the relative-navigation Kalman filter.
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	rangeSigma := viper.GetFloat64("nav.rangeSigma")
	if rangeSigma <= 0.0 {
		rangeSigma = 1.0
	}
	rangeNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{rangeSigma * rangeSigma}), seed)
	if !ok {
		level.Error(logger).Log("msg", "degenerate navigation noise covariance")
		os.Exit(1)
	}

	navFilter, err := smd.NewRelativeNavFilter(relPos, relVel, rangeSigma*rangeSigma, 1e-6, rangeSigma*rangeSigma, n)
	if err != nil {
		level.Error(logger).Log("msg", "could not initialize relative-navigation filter", "err", err)
		os.Exit(1)
	}

	navSteps := viper.GetInt("nav.steps")
	if navSteps <= 0 {
		navSteps = 5
	}
	navDt := transferTime / float64(navSteps)
	curR, curV := relPos, relVel
	for i := 0; i < navSteps; i++ {
		blocks := smd.NewCWBlocks(n, navDt)
		trueR, trueV := blocks.Propagate(curR, curV)
		noisyRange := trueR.Norm() + rangeNoise.Rand(nil)[0]

		filteredR, filteredV, ferr := navFilter.Step(navDt, curR, curV, noisyRange)
		if ferr != nil {
			level.Error(logger).Log("msg", "navigation filter update failed", "err", ferr)
			os.Exit(1)
		}

		level.Info(logger).Log("msg", "relative-navigation filter step",
			"step", i, "trueRange", trueR.Norm(), "noisyRange", noisyRange,
			"filteredR", filteredR.Norm(), "filteredVNorm", filteredV.Norm())

		curR, curV = trueR, trueV
	}

	fmt.Printf("rendezvous plan: dV1=%.4f m/s, dV2=%.4f m/s, total=%.4f m/s\n",
		dv1.Norm(), dv2.Norm(), dv1.Norm()+dv2.Norm())
}
