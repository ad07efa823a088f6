package psyche

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Scoring constants. These are versioned configuration: changing any of
// them changes every profile ever produced, so they live in one place.
const (
	baselineLeadIn     = 8
	baselineMinLatency = 400
	baselineMaxLatency = 12000
	baselineMinSamples = 4
	baselineFallbackMs = 2200.0

	resonanceStep          = 0.25
	resistanceLatencyRatio = 2.5
	congruenceLatencyRatio = 0.8
	entropyNudge           = 5.0
	syncBaseline           = 100.0
	syncPenalty            = 6.0
	agencyTensionGate      = 2.0
	bugThreshold           = 2
	maxCorrelations        = 5
)

// TraitState is the fold accumulator for one scoring run: three bounded
// trait scores plus entropy. It is never persisted independently.
type TraitState struct {
	Foundation float64 `json:"foundation"`
	Agency     float64 `json:"agency"`
	Resource   float64 `json:"resource"`
	Entropy    float64 `json:"entropy"`
}

// baselineTraits is the fixed starting point of every scoring run.
var baselineTraits = TraitState{Foundation: 50, Agency: 50, Resource: 50, Entropy: 10}

// CorrelationKind tags a neural correlation.
type CorrelationKind string

const (
	// CorrelationResistance marks an answer that arrived far slower than
	// the session's own baseline.
	CorrelationResistance CorrelationKind = "resistance"
	// CorrelationResonance marks a fast answer paired with a positive
	// body signal.
	CorrelationResonance CorrelationKind = "resonance"
)

// Correlation pairs a timing/somatic observation with the node, domain and
// belief it occurred on.
type Correlation struct {
	Kind   CorrelationKind `json:"kind"`
	NodeID int             `json:"node_id"`
	Domain Domain          `json:"domain"`
	Belief BeliefTag       `json:"belief"`
}

// SomaticProfile summarizes the body readings of one session. Dominant is
// the most frequent sensation; ties are broken by first-seen order, which
// is tracked explicitly because map iteration order is randomized.
type SomaticProfile struct {
	Blocks    int       `json:"blocks"`
	Resources int       `json:"resources"`
	Dominant  Sensation `json:"dominant"`
}

// AnalysisResult is the scorer's output for one completed session. It is
// immutable once produced; consumers (reporting, share-image export) must
// not mutate it.
type AnalysisResult struct {
	Traits TraitState `json:"traits"`

	Integrity    int `json:"integrity"`
	Capacity     int `json:"capacity"`
	EntropyScore int `json:"entropy_score"`
	NeuroSync    int `json:"neuro_sync"`
	SystemHealth int `json:"system_health"`

	Archetype          Archetype `json:"archetype"`
	SecondaryArchetype Archetype `json:"secondary_archetype"`
	Confidence         int       `json:"confidence"`

	Verdict             Verdict `json:"verdict"`
	CoreConflict        string  `json:"core_conflict"`
	ShadowDirective     string  `json:"shadow_directive"`
	InterferenceInsight string  `json:"interference_insight,omitempty"`

	Phase   Phase         `json:"phase"`
	Roadmap []RoadmapStep `json:"roadmap"`

	Correlations []Correlation  `json:"correlations"`
	Somatic      SomaticProfile `json:"somatic"`
	Bugs         []BeliefTag    `json:"bugs"`
}

// scan is the accumulator threaded through the analysis pipeline stages.
type scan struct {
	history   []HistoryEntry
	partition DomainPartition

	baseline float64
	traits   TraitState
	sync     float64

	blocks    int
	resources int
	freq      map[Sensation]int
	freqOrder []Sensation

	// rawBugs may hold duplicates: the fold appends on every occurrence
	// of a tag that clears the threshold. Deduplication happens in the
	// indices stage, preserving first-append order for the roadmap FIFO.
	rawBugs      []BeliefTag
	correlations []Correlation

	result *AnalysisResult
}

// analysisPipeline stages are pure transforms over the accumulator; the
// sequence as a whole is deterministic and side-effect free.
var analysisPipeline = pipz.NewSequence(pipz.Name("analysis"),
	pipz.Transform(pipz.Name("baseline"), stageBaseline),
	pipz.Transform(pipz.Name("fold"), stageFold),
	pipz.Transform(pipz.Name("somatic"), stageSomatic),
	pipz.Transform(pipz.Name("indices"), stageIndices),
	pipz.Transform(pipz.Name("archetype"), stageArchetype),
	pipz.Transform(pipz.Name("roadmap"), stageRoadmap),
	pipz.Transform(pipz.Name("verdict"), stageVerdict),
)

// Analyze folds an ordered response history into a full profile using the
// default domain partition. It is a deterministic pure function: identical
// input produces an identical result, with no randomness and no external
// calls. It never fails on malformed or short input; an empty history
// yields a baseline-derived profile.
func Analyze(ctx context.Context, history []HistoryEntry) (*AnalysisResult, error) {
	return AnalyzeWithPartition(ctx, history, DefaultPartition)
}

// AnalyzeWithPartition is Analyze with an explicit domain partition, for
// hosts that configure their own node layout.
func AnalyzeWithPartition(ctx context.Context, history []HistoryEntry, partition DomainPartition) (*AnalysisResult, error) {
	s := &scan{
		history:   history,
		partition: partition,
		traits:    baselineTraits,
		sync:      syncBaseline,
		freq:      make(map[Sensation]int),
		result:    &AnalysisResult{},
	}

	out, err := analysisPipeline.Process(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("analysis pipeline: %w", err)
	}

	capitan.Emit(ctx, AnalysisCompleted,
		FieldHistoryLen.Field(len(history)),
		FieldArchetype.Field(string(out.result.Archetype)),
		FieldPhase.Field(string(out.result.Phase)),
		FieldSystemHealth.Field(out.result.SystemHealth),
	)

	return out.result, nil
}

// stageBaseline establishes the session's personal timing reference. The
// lead-in window is the first max(8, len) entries, which spans the whole
// history at every length; the documented window is kept as-is. Latencies
// outside (400ms, 12000ms) are discarded as page-load or walk-away noise.
func stageBaseline(_ context.Context, s *scan) *scan {
	limit := baselineLeadIn
	if n := len(s.history); n > limit {
		limit = n
	}
	if limit > len(s.history) {
		limit = len(s.history)
	}

	qualified := make([]float64, 0, limit)
	for _, e := range s.history[:limit] {
		if e.LatencyMs > baselineMinLatency && e.LatencyMs < baselineMaxLatency {
			qualified = append(qualified, float64(e.LatencyMs))
		}
	}
	sort.Float64s(qualified)

	if len(qualified) > baselineMinSamples {
		s.baseline = qualified[len(qualified)/2]
	} else {
		s.baseline = baselineFallbackMs
	}
	return s
}

// stageFold is the main accumulation pass, in chronological order.
func stageFold(_ context.Context, s *scan) *scan {
	prior := make(map[BeliefTag]int)
	totals := make(map[BeliefTag]int)
	for _, e := range s.history {
		totals[e.Belief]++
	}

	for _, e := range s.history {
		w := weightFor(e.Belief)

		// Repeated expression of the same belief is weighted
		// progressively heavier. Uncapped.
		resonance := 1 + resonanceStep*float64(prior[e.Belief])
		prior[e.Belief]++

		s.traits.Foundation = applyDelta(s.traits.Foundation, w.Foundation*resonance)
		s.traits.Agency = applyDelta(s.traits.Agency, w.Agency*resonance)
		s.traits.Resource = applyDelta(s.traits.Resource, w.Resource*resonance)
		s.traits.Entropy = applyDelta(s.traits.Entropy, w.Entropy*resonance)

		if e.Sensation.isBlock() {
			s.blocks++
		}
		if e.Sensation.isResource() {
			s.resources++
		}
		if _, seen := s.freq[e.Sensation]; !seen {
			s.freqOrder = append(s.freqOrder, e.Sensation)
		}
		s.freq[e.Sensation]++

		domain, ok := s.partition.Resolve(e.NodeID)
		if !ok {
			domain = DomainFoundation
		}

		lat := float64(e.LatencyMs)
		if lat > s.baseline*resistanceLatencyRatio {
			s.correlations = append(s.correlations, Correlation{
				Kind:   CorrelationResistance,
				NodeID: e.NodeID,
				Domain: domain,
				Belief: e.Belief,
			})
			s.traits.Entropy = applyDelta(s.traits.Entropy, entropyNudge)
		}
		if e.Sensation.isResource() && lat < s.baseline*congruenceLatencyRatio {
			s.correlations = append(s.correlations, Correlation{
				Kind:   CorrelationResonance,
				NodeID: e.NodeID,
				Domain: domain,
				Belief: e.Belief,
			})
		}

		if w.Agency > agencyTensionGate && e.Sensation.isBlock() {
			// Not clamped at fold time; NeuroSync may go negative.
			s.sync -= syncPenalty
		}

		// The threshold check looks ahead over the entire session while
		// resonance above counts only prior entries. Intentional: kept
		// exactly as originally shipped.
		if totals[e.Belief] > bugThreshold {
			s.rawBugs = append(s.rawBugs, e.Belief)
		}
	}
	return s
}

// stageSomatic resolves the dominant sensation and fills the somatic
// profile.
func stageSomatic(_ context.Context, s *scan) *scan {
	var dominant Sensation
	best := 0
	for _, sensation := range s.freqOrder {
		if s.freq[sensation] > best {
			best = s.freq[sensation]
			dominant = sensation
		}
	}
	s.result.Somatic = SomaticProfile{
		Blocks:    s.blocks,
		Resources: s.resources,
		Dominant:  dominant,
	}
	return s
}

// stageIndices computes the derived indices, deduplicates bugs and trims
// correlations to the retained window.
func stageIndices(_ context.Context, s *scan) *scan {
	t := s.traits
	r := s.result

	r.Traits = t
	r.Integrity = int(math.Round(((t.Foundation + t.Agency + t.Resource) / 3) * (1 - t.Entropy/110)))
	r.SystemHealth = int(math.Round(float64(r.Integrity)*0.6 + s.sync*0.4))
	r.Capacity = int(math.Round((t.Foundation + t.Resource) / 2))
	r.EntropyScore = int(math.Round(t.Entropy))
	r.NeuroSync = int(math.Round(s.sync))

	seen := make(map[BeliefTag]bool, len(s.rawBugs))
	for _, b := range s.rawBugs {
		if !seen[b] {
			seen[b] = true
			r.Bugs = append(r.Bugs, b)
		}
	}

	if len(s.correlations) > maxCorrelations {
		s.correlations = s.correlations[:maxCorrelations]
	}
	r.Correlations = s.correlations
	return s
}
