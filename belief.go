package psyche

// BeliefTag names a cognitive or behavioral pattern elicited by a choice.
// The set is closed and defined at compile time; unknown tags fall back to
// a neutral effect vector rather than failing a scoring run.
type BeliefTag string

// BeliefDefault is the skip sentinel: it is recorded when a node is skipped
// or answered without signal, and carries no trait effect beyond a small
// entropy drift.
const BeliefDefault BeliefTag = "default"

// Money beliefs.
const (
	BeliefMoneyIsTool   BeliefTag = "money_is_tool"
	BeliefMoneyIsDanger BeliefTag = "money_is_danger"
	BeliefMoneyIsStatus BeliefTag = "money_is_status"
	BeliefScarcityLoop  BeliefTag = "scarcity_loop"
	BeliefGoldenCage    BeliefTag = "golden_cage"
	BeliefSuccessGuilt  BeliefTag = "success_guilt"
)

// Foundation beliefs.
const (
	BeliefSafetyFirst   BeliefTag = "safety_first"
	BeliefRoutineAnchor BeliefTag = "routine_anchor"
	BeliefBurnoutBadge  BeliefTag = "burnout_badge"
	BeliefHeroMartyr    BeliefTag = "hero_martyr"
	BeliefBoundaryLeak  BeliefTag = "boundary_leak"
)

// Agency beliefs.
const (
	BeliefControlFear     BeliefTag = "control_fear"
	BeliefDelegationBlock BeliefTag = "delegation_block"
	BeliefDriftDefault    BeliefTag = "drift_default"
	BeliefRiskHunger      BeliefTag = "risk_hunger"
	BeliefPerfectionTrap  BeliefTag = "perfection_trap"
	BeliefImposterVoice   BeliefTag = "imposter_voice"
)

// Social beliefs.
const (
	BeliefApprovalSeeking   BeliefTag = "approval_seeking"
	BeliefConflictAvoidance BeliefTag = "conflict_avoidance"
	BeliefVisibilityFear    BeliefTag = "visibility_fear"
	BeliefComparisonTrap    BeliefTag = "comparison_trap"
)

// Legacy beliefs.
const (
	BeliefFamilyLoyalty   BeliefTag = "family_loyalty"
	BeliefInheritedScript BeliefTag = "inherited_script"
)

// EffectVector is the per-belief trait delta, applied once per history
// entry through the bounded metric updater. Values are signed; positive
// entropy destabilizes the profile.
type EffectVector struct {
	Foundation float64
	Agency     float64
	Resource   float64
	Entropy    float64
}

// beliefWeights is versioned static configuration: loaded once at process
// start, never mutated.
var beliefWeights = map[BeliefTag]EffectVector{
	BeliefDefault: {Entropy: 1},

	BeliefMoneyIsTool:   {Foundation: 1, Agency: 3, Resource: 4, Entropy: -1},
	BeliefMoneyIsDanger: {Foundation: -2, Agency: -1, Resource: -3, Entropy: 3},
	BeliefMoneyIsStatus: {Agency: 1, Resource: 2, Entropy: 2},
	BeliefScarcityLoop:  {Foundation: -1, Agency: -2, Resource: -4, Entropy: 3},
	BeliefGoldenCage:    {Foundation: 2, Agency: -4, Resource: 3, Entropy: 1},
	BeliefSuccessGuilt:  {Agency: -2, Resource: -2, Entropy: 2},

	BeliefSafetyFirst:   {Foundation: 4, Agency: -2, Entropy: -1},
	BeliefRoutineAnchor: {Foundation: 3, Agency: -1, Entropy: -2},
	BeliefBurnoutBadge:  {Foundation: -3, Agency: 3, Resource: -2, Entropy: 3},
	BeliefHeroMartyr:    {Foundation: -2, Agency: 3, Resource: -3, Entropy: 2},
	BeliefBoundaryLeak:  {Foundation: -3, Agency: -1, Resource: -1, Entropy: 2},

	BeliefControlFear:     {Foundation: 1, Agency: -3, Entropy: 2},
	BeliefDelegationBlock: {Agency: 3, Resource: -2, Entropy: 1},
	BeliefDriftDefault:    {Foundation: -1, Agency: -4, Entropy: 2},
	BeliefRiskHunger:      {Foundation: -2, Agency: 4, Resource: 1, Entropy: 3},
	BeliefPerfectionTrap:  {Foundation: 1, Agency: -2, Resource: -1, Entropy: 2},
	BeliefImposterVoice:   {Foundation: -1, Agency: -3, Entropy: 2},

	BeliefApprovalSeeking:   {Agency: -3, Resource: -1, Entropy: 2},
	BeliefConflictAvoidance: {Foundation: 1, Agency: -3, Entropy: 1},
	BeliefVisibilityFear:    {Agency: -2, Resource: -2, Entropy: 2},
	BeliefComparisonTrap:    {Foundation: -1, Agency: -1, Resource: -1, Entropy: 3},

	BeliefFamilyLoyalty:   {Foundation: 2, Agency: -3, Resource: -2, Entropy: 1},
	BeliefInheritedScript: {Foundation: 1, Agency: -2, Resource: -1, Entropy: 2},
}

// weightFor resolves a belief's effect vector. Unknown tags get a neutral
// vector with a single point of entropy drift, so a malformed history never
// fails a scoring run.
func weightFor(tag BeliefTag) EffectVector {
	if w, ok := beliefWeights[tag]; ok {
		return w
	}
	return EffectVector{Entropy: 1}
}
