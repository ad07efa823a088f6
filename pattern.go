package psyche

import (
	"context"
	"math"

	"github.com/zoobzio/capitan"
)

// Pattern detection thresholds.
const (
	// minPatternSample gates every check: shorter histories report all
	// flags false to avoid false positives on short sessions.
	minPatternSample = 15

	positionCount      = 3
	monotonicShare     = 0.8
	skipRateThreshold  = 0.4
	timingFloorMs      = 300
	timingCeilingMs    = 30000
	timingMinSamples   = 10
	roboticStdDevMs    = 500.0
	monotonySensations = 3
)

// PatternFlags are the quality flags computed on demand from a history.
// They are never persisted.
type PatternFlags struct {
	Monotonic       bool `json:"monotonic"`
	HighSkipRate    bool `json:"high_skip_rate"`
	Flatline        bool `json:"flatline"`
	RoboticTiming   bool `json:"robotic_timing"`
	SomaticMonotony bool `json:"somatic_monotony"`

	// DominantPosition is set only when Monotonic is raised.
	DominantPosition *int `json:"dominant_position,omitempty"`
}

func (f PatternFlags) count() int {
	n := 0
	for _, raised := range []bool{f.Monotonic, f.HighSkipRate, f.Flatline, f.RoboticTiming, f.SomaticMonotony} {
		if raised {
			n++
		}
	}
	return n
}

// DetectPatterns inspects a response history for degenerate answer
// sequences. It is a pure function of the history plus the total node
// count of the system, which dilutes the skip rate for partial sessions.
// Each check is computed independently over the full history.
func DetectPatterns(ctx context.Context, history []HistoryEntry, totalNodes int) PatternFlags {
	var flags PatternFlags
	if len(history) < minPatternSample {
		return flags
	}

	flags.Monotonic, flags.DominantPosition = detectMonotonic(history)
	flags.HighSkipRate = detectHighSkipRate(history, totalNodes)
	// Flatline needs per-answer trait telemetry that is not recorded at
	// this layer. Reserved: always false.
	flags.Flatline = false
	flags.RoboticTiming = detectRoboticTiming(history)
	flags.SomaticMonotony = detectSomaticMonotony(history)

	if n := flags.count(); n > 0 {
		capitan.Emit(ctx, PatternFlagged,
			FieldHistoryLen.Field(len(history)),
			FieldFlagCount.Field(n),
		)
	}
	return flags
}

// detectMonotonic tallies how often each of the three presented positions
// was picked; any position holding 80% or more of the valid picks flags
// positional straight-lining.
func detectMonotonic(history []HistoryEntry) (bool, *int) {
	var tally [positionCount]int
	valid := 0
	for _, e := range history {
		if e.Position >= 0 && e.Position < positionCount {
			tally[e.Position]++
			valid++
		}
	}
	if valid == 0 {
		return false, nil
	}
	for pos, n := range tally {
		if float64(n)/float64(valid) >= monotonicShare {
			p := pos
			return true, &p
		}
	}
	return false, nil
}

// detectHighSkipRate counts skip-sentinel answers against the larger of
// answered entries and total nodes, deliberately diluting partial
// sessions.
func detectHighSkipRate(history []HistoryEntry, totalNodes int) bool {
	skips := 0
	for _, e := range history {
		if e.Belief == BeliefDefault {
			skips++
		}
	}
	denom := len(history)
	if totalNodes > denom {
		denom = totalNodes
	}
	if denom == 0 {
		return false
	}
	return float64(skips)/float64(denom) >= skipRateThreshold
}

// detectRoboticTiming flags unnaturally uniform response timing: the
// population standard deviation of plausible latencies under 500ms.
// Fewer than 10 qualifying samples never flag.
func detectRoboticTiming(history []HistoryEntry) bool {
	samples := make([]float64, 0, len(history))
	for _, e := range history {
		if e.LatencyMs > timingFloorMs && e.LatencyMs < timingCeilingMs {
			samples = append(samples, float64(e.LatencyMs))
		}
	}
	if len(samples) < timingMinSamples {
		return false
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, v := range samples {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(samples))

	return math.Sqrt(variance) < roboticStdDevMs
}

// detectSomaticMonotony flags fewer than three distinct sensations, and
// force-flags the oscillation case of exactly two distinct values where
// one is the neutral sentinel.
func detectSomaticMonotony(history []HistoryEntry) bool {
	distinct := make(map[Sensation]bool)
	for _, e := range history {
		distinct[e.Sensation] = true
	}
	// Oscillating between neutral and one other reading is flagged
	// outright, independent of the distinct-count gate.
	if len(distinct) == 2 && distinct[SensationNeutral] {
		return true
	}
	return len(distinct) < monotonySensations
}
