package mc

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"

	"github.com/relaysim/sentinel"
)

// Config holds the batch-runner's tunables.
type Config struct {
	NumRuns        int
	BaseSeed       int32
	MaxSimTime     float64
	Dt             float64
	ScenarioPath   string
	OutputPath     string
	Verbose        bool
	ReplayMode     bool
	SampleInterval float64

	// Logger, when set, receives per-run degeneracy and failure notices.
	Logger kitlog.Logger
}

// DefaultConfig returns the engine defaults: 100 runs from seed 42,
// 600s at 0.1s steps, 2s replay sampling.
func DefaultConfig() Config {
	return Config{
		NumRuns:        100,
		BaseSeed:       42,
		MaxSimTime:     600.0,
		Dt:             0.1,
		SampleInterval: 2.0,
	}
}

// ProgressFunc is invoked after each completed run.
type ProgressFunc func(completed, total int)

// Runner is the batch Monte Carlo orchestrator: each run builds a fresh
// World from the same scenario document, ticks it independently, and is
// fully isolated from every other run (its own World, its own SimRNG) —
// so runs are safe to execute in parallel goroutines should a caller
// choose to; Run itself executes them one after another.
type Runner struct {
	config Config
}

// NewRunner returns a Runner for the given config.
func NewRunner(config Config) *Runner {
	return &Runner{config: config}
}

// Run executes config.NumRuns independent seeded runs against the given
// scenario document and returns their results.
func (r *Runner) Run(scenarioJSON []byte, onProgress ProgressFunc) ([]RunResult, error) {
	results := make([]RunResult, 0, r.config.NumRuns)

	for i := 0; i < r.config.NumRuns; i++ {
		seed := r.config.BaseSeed + int32(i)
		result := r.runSingle(scenarioJSON, i, seed)
		results = append(results, result)

		if onProgress != nil {
			onProgress(i+1, r.config.NumRuns)
		}
	}

	return results, nil
}

func (r *Runner) runSingle(scenarioJSON []byte, runIndex int, seed int32) (result RunResult) {
	result = RunResult{
		RunIndex:       runIndex,
		Seed:           seed,
		EngagementLog:  []EngagementEvent{},
		EntitySurvival: map[string]EntitySurvival{},
	}

	// A panic inside the tick loop terminates this run only: the error
	// lands in the run's result slot and the batch moves on to the next
	// seed.
	defer func() {
		if rec := recover(); rec != nil {
			errMsg := fmt.Sprintf("run error: %v", rec)
			result.Error = &errMsg
			if r.config.Logger != nil {
				r.config.Logger.Log("msg", "run failed", "run", runIndex, "seed", seed, "err", errMsg)
			}
		}
	}()

	world, err := ParseScenario(scenarioJSON, NewSimRNG(seed))
	if err != nil {
		errMsg := fmt.Sprintf("run error: %v", err)
		result.Error = &errMsg
		return result
	}
	if r.config.Logger != nil {
		world.Logger = kitlog.With(r.config.Logger, "run", runIndex)
	}

	totalSteps := int(math.Ceil(r.config.MaxSimTime / r.config.Dt))
	dt := r.config.Dt

	seen := make(map[string]bool)

	for step := 0; step < totalSteps; step++ {
		world.SimTime += dt

		Tick(world, dt)

		if step%200 == 199 || step == totalSteps-1 {
			result.EngagementLog = collectEngagements(world, result.EngagementLog, seen)
		}

		if allCombatResolved(world) {
			result.EngagementLog = collectEngagements(world, result.EngagementLog, seen)
			break
		}
	}

	result.SimTimeFinal = world.SimTime
	result.EntitySurvival = collectSurvival(world)

	return result
}

// RunReplay executes a single seeded run with trajectory sampling and
// returns the replay document bytes.
func (r *Runner) RunReplay(scenarioJSON []byte) ([]byte, error) {
	world, err := ParseScenario(scenarioJSON, NewSimRNG(r.config.BaseSeed))
	if err != nil {
		return nil, err
	}
	world.Logger = r.config.Logger

	initialEntities := append([]*Entity(nil), world.Entities()...)

	writer := NewReplayWriter(initialEntities, r.config.SampleInterval)

	totalSteps := int(math.Ceil(r.config.MaxSimTime / r.config.Dt))
	dt := r.config.Dt

	wasAlive := make([]bool, world.EntityCount())
	for i := range wasAlive {
		wasAlive[i] = true
	}
	prevEngCounts := make([]int, world.EntityCount())

	writer.Sample(world)

	for step := 0; step < totalSteps; step++ {
		world.SimTime += dt

		Tick(world, dt)

		writer.Sample(world)

		entities := world.Entities()
		for i, e := range entities {
			if wasAlive[i] && (e.Destroyed || !e.Active) {
				wasAlive[i] = false
				writer.RecordDeath(e.ID, world.SimTime)
			}

			for j := prevEngCounts[i]; j < len(e.Engagements); j++ {
				eng := e.Engagements[j]
				if eng.Result != "LAUNCH" && eng.Result != "KILL" && eng.Result != "MISS" {
					continue
				}

				sourcePos := entityECEF(e, world.SimTime)
				var targetPos smd.Vec3
				if target := world.Get(eng.TargetID); target != nil {
					targetPos = entityECEF(target, world.SimTime)
				}

				writer.RecordEvent(ReplayEvent{
					Time:      eng.Time,
					Type:      eng.Result,
					SourceID:  e.ID,
					TargetID:  eng.TargetID,
					SourcePos: sourcePos,
					TargetPos: targetPos,
				})
			}
			prevEngCounts[i] = len(e.Engagements)
		}

		if allCombatResolved(world) {
			writer.Sample(world)
			break
		}
	}

	return writer.WriteJSON(initialEntities, r.config.BaseSeed, r.config.MaxSimTime)
}
