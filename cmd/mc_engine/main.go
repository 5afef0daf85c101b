package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/viper"

	"github.com/relaysim/sentinel/internal/mc"
)

var (
	scenarioPath   = flag.String("scenario", "", "scenario JSON file (required)")
	replay         = flag.Bool("replay", false, "run a single replay instead of a batch")
	runs           = flag.Int("runs", 100, "number of independent seeded runs")
	seed           = flag.Int("seed", 42, "base seed; run i uses seed+i")
	maxTime        = flag.Float64("max-time", 600.0, "maximum simulated seconds per run")
	dt             = flag.Float64("dt", 0.1, "fixed tick size in seconds")
	sampleInterval = flag.Float64("sample-interval", 2.0, "replay trajectory sample interval in seconds")
	output         = flag.String("output", "", "output file path (default: stdout)")
	verbose        = flag.Bool("verbose", false, "log per-run progress")
	progress       = flag.Bool("progress", false, "print a machine-readable completed/total line per run")
)

func main() {
	flag.Parse()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "cmd", "mc_engine")

	viper.SetEnvPrefix("SENTINEL")
	viper.AutomaticEnv()
	if viper.IsSet("config") {
		viper.SetConfigFile(viper.GetString("config"))
		if err := viper.ReadInConfig(); err != nil {
			level.Error(logger).Log("msg", "failed reading SENTINEL_CONFIG", "err", err)
			os.Exit(1)
		}
	}

	if *scenarioPath == "" {
		level.Error(logger).Log("msg", "missing required -scenario flag")
		os.Exit(1)
	}

	scenarioJSON, err := ioutil.ReadFile(*scenarioPath)
	if err != nil {
		level.Error(logger).Log("msg", "failed reading scenario", "path", *scenarioPath, "err", err)
		os.Exit(1)
	}

	config := mc.Config{
		NumRuns:        *runs,
		BaseSeed:       int32(*seed),
		MaxSimTime:     *maxTime,
		Dt:             *dt,
		ScenarioPath:   *scenarioPath,
		OutputPath:     *output,
		Verbose:        *verbose,
		ReplayMode:     *replay,
		SampleInterval: *sampleInterval,
		Logger:         logger,
	}

	runner := mc.NewRunner(config)

	var out []byte
	if *replay {
		level.Info(logger).Log("msg", "running replay", "seed", config.BaseSeed, "maxTime", config.MaxSimTime)
		out, err = runner.RunReplay(scenarioJSON)
	} else {
		onProgress := func(completed, total int) {
			if *progress {
				fmt.Fprintf(os.Stderr, "{\"completed\":%d,\"total\":%d}\n", completed, total)
			}
			if *verbose {
				level.Info(logger).Log("msg", "run complete", "completed", completed, "total", total)
			}
		}
		var results []mc.RunResult
		results, err = runner.Run(scenarioJSON, onProgress)
		if err == nil {
			out, err = mc.MarshalResultsJSON(results, config.NumRuns, config.BaseSeed, config.MaxSimTime)
		}
	}

	if err != nil {
		level.Error(logger).Log("msg", "run failed", "err", err)
		os.Exit(1)
	}

	if *output == "" {
		os.Stdout.Write(out)
		fmt.Println()
		return
	}

	if err := ioutil.WriteFile(*output, out, 0644); err != nil {
		level.Error(logger).Log("msg", "failed writing output", "path", *output, "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "wrote output", "path", *output)
}
