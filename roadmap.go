package psyche

import "context"

// Phase is the remediation phase selected from system health.
type Phase string

const (
	PhaseSanitation    Phase = "sanitation"
	PhaseStabilization Phase = "stabilization"
	PhaseExpansion     Phase = "expansion"
)

// Phase thresholds over systemHealth.
const (
	sanitationCeiling    = 42
	stabilizationCeiling = 72
)

const roadmapDays = 7

// RoadmapStep is one day in the generated roadmap. Task is a copy
// reference. BugFix marks a day substituted with a targeted intervention
// for a recurring belief.
type RoadmapStep struct {
	Day    int       `json:"day"`
	Task   string    `json:"task"`
	BugFix bool      `json:"bug_fix,omitempty"`
	Belief BeliefTag `json:"belief,omitempty"`
}

// phaseTasks is the fixed 3-task pool per phase, cycled by day index.
var phaseTasks = map[Phase][3]string{
	PhaseSanitation:    {"task.sanitation.drain_audit", "task.sanitation.single_no", "task.sanitation.sleep_floor"},
	PhaseStabilization: {"task.stabilization.money_map", "task.stabilization.anchor_routine", "task.stabilization.small_ask"},
	PhaseExpansion:     {"task.expansion.visibility_rep", "task.expansion.delegate_one", "task.expansion.stretch_offer"},
}

// bugFixTasks maps recurring maladaptive beliefs to targeted roadmap
// interventions. Beliefs absent here fall through to the phase pool even
// when flagged as bugs.
var bugFixTasks = map[BeliefTag]string{
	BeliefHeroMartyr:        "fix.hero_martyr.receive_help",
	BeliefFamilyLoyalty:     "fix.family_loyalty.loyalty_ledger",
	BeliefScarcityLoop:      "fix.scarcity_loop.abundance_proof",
	BeliefGoldenCage:        "fix.golden_cage.exit_rehearsal",
	BeliefControlFear:       "fix.control_fear.delegation_drill",
	BeliefApprovalSeeking:   "fix.approval_seeking.unpolished_share",
	BeliefPerfectionTrap:    "fix.perfection_trap.ship_at_eighty",
	BeliefImposterVoice:     "fix.imposter_voice.evidence_file",
	BeliefBoundaryLeak:      "fix.boundary_leak.hard_edge",
	BeliefConflictAvoidance: "fix.conflict_avoidance.name_the_thing",
}

func phaseFor(systemHealth int) Phase {
	switch {
	case systemHealth < sanitationCeiling:
		return PhaseSanitation
	case systemHealth < stabilizationCeiling:
		return PhaseStabilization
	default:
		return PhaseExpansion
	}
}

// buildRoadmap produces exactly 7 day-steps. Days divisible by 3 consume
// the deduplicated bug queue in FIFO order, one per qualifying day; a
// consumed belief with no mapped fix falls through to the phase pool.
func buildRoadmap(phase Phase, bugs []BeliefTag) []RoadmapStep {
	queue := append([]BeliefTag(nil), bugs...)
	pool := phaseTasks[phase]

	steps := make([]RoadmapStep, 0, roadmapDays)
	for day := 1; day <= roadmapDays; day++ {
		if day%3 == 0 && len(queue) > 0 {
			belief := queue[0]
			queue = queue[1:]
			if task, ok := bugFixTasks[belief]; ok {
				steps = append(steps, RoadmapStep{
					Day:    day,
					Task:   task,
					BugFix: true,
					Belief: belief,
				})
				continue
			}
		}
		steps = append(steps, RoadmapStep{
			Day:  day,
			Task: pool[(day-1)%len(pool)],
		})
	}
	return steps
}

// stageRoadmap selects the phase and generates the roadmap.
func stageRoadmap(_ context.Context, s *scan) *scan {
	r := s.result
	r.Phase = phaseFor(r.SystemHealth)
	r.Roadmap = buildRoadmap(r.Phase, r.Bugs)
	return s
}
