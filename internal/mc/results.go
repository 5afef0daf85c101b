package mc

import "encoding/json"

// EngagementEvent is a single source→target combat log line in
// batch-run output.
type EngagementEvent struct {
	Time       float64 `json:"time"`
	SourceID   string  `json:"sourceId"`
	SourceName string  `json:"sourceName"`
	SourceTeam string  `json:"sourceTeam"`
	TargetID   string  `json:"targetId"`
	TargetName string  `json:"targetName"`
	Result     string  `json:"result"`
	WeaponType string  `json:"weaponType"`
}

// EntitySurvival is one entity's end-of-run fate.
type EntitySurvival struct {
	Name      string  `json:"name"`
	Team      string  `json:"team"`
	Type      string  `json:"type"`
	Role      *string `json:"role"`
	Alive     bool    `json:"alive"`
	Destroyed bool    `json:"destroyed"`
}

// RunResult is one seeded run's complete output.
type RunResult struct {
	RunIndex       int                        `json:"runIndex"`
	Seed           int32                      `json:"seed"`
	SimTimeFinal   float64                    `json:"simTimeFinal"`
	EngagementLog  []EngagementEvent          `json:"engagementLog"`
	EntitySurvival map[string]EntitySurvival  `json:"entitySurvival"`
	Error          *string                    `json:"error"`
}

// resultsConfig is the "config" object written alongside "runs".
type resultsConfig struct {
	NumRuns    int     `json:"numRuns"`
	BaseSeed   int32   `json:"baseSeed"`
	MaxSimTime float64 `json:"maxSimTime"`
}

type resultsDocument struct {
	Config resultsConfig `json:"config"`
	Runs   []RunResult   `json:"runs"`
}

// MarshalResultsJSON serializes a batch run's results as a top-level
// {config, runs} object. EngagementLog and EntitySurvival should never
// be left nil on an individual RunResult (callers default them to
// empty, not nil, so they serialize as `[]`/`{}` rather than `null` —
// downstream aggregation treats the containers as always present).
func MarshalResultsJSON(results []RunResult, numRuns int, baseSeed int32, maxSimTime float64) ([]byte, error) {
	doc := resultsDocument{
		Config: resultsConfig{NumRuns: numRuns, BaseSeed: baseSeed, MaxSimTime: maxSimTime},
		Runs:   results,
	}
	return json.Marshal(doc)
}

func weaponTypeLabel(wt WeaponType) string {
	switch wt {
	case WeaponKineticKill:
		return "KKV"
	case WeaponSAMBattery:
		return "SAM"
	case WeaponA2AMissile:
		return "A2A"
	default:
		return "UNK"
	}
}

func roleLabel(r CombatRole) *string {
	s := r.String()
	if s == "" {
		return nil
	}
	return &s
}
