package psyche

import (
	"context"
	"math"
)

// Archetype names the dominant behavioral profile of a session.
type Archetype string

const (
	ArchetypeChaosSurfer    Archetype = "chaos_surfer"
	ArchetypeDrifter        Archetype = "drifter"
	ArchetypeBurnedHero     Archetype = "burned_hero"
	ArchetypeGoldenPrisoner Archetype = "golden_prisoner"
	ArchetypeGuardian       Archetype = "guardian"
	ArchetypeArchitect      Archetype = "architect"
)

// Verdict is the headline classification over the final trait values.
type Verdict string

const (
	VerdictBrilliantSabotage Verdict = "brilliant_sabotage"
	VerdictSystemOverload    Verdict = "system_overload"
	VerdictResourceCollapse  Verdict = "resource_collapse"
	VerdictStableAscent      Verdict = "stable_ascent"
	VerdictHoldingPattern    Verdict = "holding_pattern"
)

type archetypeScore struct {
	archetype Archetype
	score     float64
}

// archetypeScores computes the six named scores in declared order. The
// declared order doubles as the tie-break rule, keeping classification
// deterministic when two formulas land on the same value.
func archetypeScores(t TraitState) []archetypeScore {
	return []archetypeScore{
		{ArchetypeChaosSurfer, t.Entropy},
		{ArchetypeDrifter, 100 - t.Agency},
		{ArchetypeBurnedHero, (t.Agency + (100 - t.Resource)) / 2},
		{ArchetypeGoldenPrisoner, (t.Resource + (100 - t.Agency)) / 2},
		{ArchetypeGuardian, (t.Foundation + (100 - t.Agency)) / 2},
		{ArchetypeArchitect, (t.Agency + t.Foundation + t.Resource) / 3},
	}
}

// stageArchetype classifies the profile: primary and secondary archetypes
// with a relative match confidence.
func stageArchetype(_ context.Context, s *scan) *scan {
	scores := archetypeScores(s.traits)

	// Insertion sort keeps the declared-order tie break; the slice is
	// always six elements.
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].score > scores[j-1].score; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}

	primary, secondary := scores[0], scores[1]

	r := s.result
	r.Archetype = primary.archetype
	r.SecondaryArchetype = secondary.archetype
	if total := primary.score + secondary.score; total > 0 {
		r.Confidence = int(math.Round(primary.score / total * 100))
	} else {
		r.Confidence = 50
	}
	return s
}

// coreConflicts and shadow directives are copy references resolved by the
// presentation layer; the engine only selects which one applies.
var archetypeConflicts = map[Archetype]string{
	ArchetypeChaosSurfer:    "conflict.stimulus_over_structure",
	ArchetypeDrifter:        "conflict.motion_without_ownership",
	ArchetypeBurnedHero:     "conflict.output_over_reserves",
	ArchetypeGoldenPrisoner: "conflict.comfort_over_freedom",
	ArchetypeGuardian:       "conflict.protection_over_growth",
	ArchetypeArchitect:      "conflict.plan_over_presence",
}

var archetypeShadows = map[Archetype]string{
	ArchetypeChaosSurfer:    "shadow.novelty_escape",
	ArchetypeDrifter:        "shadow.deferred_authorship",
	ArchetypeBurnedHero:     "shadow.earned_exhaustion",
	ArchetypeGoldenPrisoner: "shadow.gilded_inertia",
	ArchetypeGuardian:       "shadow.preemptive_defense",
	ArchetypeArchitect:      "shadow.blueprint_retreat",
}

// stageVerdict selects the verdict, core conflict, shadow directive and
// the optional interference insight by threshold rules over the final
// traits and the presence of specific recurring bugs.
func stageVerdict(_ context.Context, s *scan) *scan {
	t := s.traits
	r := s.result

	switch {
	case t.Agency > 70 && t.Foundation < 40:
		r.Verdict = VerdictBrilliantSabotage
	case t.Entropy > 60:
		r.Verdict = VerdictSystemOverload
	case t.Resource < 30:
		r.Verdict = VerdictResourceCollapse
	case r.SystemHealth >= 72 && t.Entropy < 30:
		r.Verdict = VerdictStableAscent
	default:
		r.Verdict = VerdictHoldingPattern
	}

	switch {
	case t.Agency-t.Foundation > 25:
		r.CoreConflict = "conflict.vision_outruns_foundation"
	case t.Resource-t.Agency > 25:
		r.CoreConflict = "conflict.resources_without_direction"
	case s.blocks > s.resources:
		r.CoreConflict = "conflict.body_vetoes_plan"
	default:
		r.CoreConflict = archetypeConflicts[r.Archetype]
	}

	r.ShadowDirective = archetypeShadows[r.Archetype]
	for _, bug := range r.Bugs {
		if bug == BeliefHeroMartyr {
			r.ShadowDirective = "shadow.self_sabotage_rescue"
			break
		}
		if bug == BeliefGoldenCage {
			r.ShadowDirective = "shadow.comfort_trap"
			break
		}
	}

	for _, bug := range r.Bugs {
		if bug == BeliefFamilyLoyalty {
			r.InterferenceInsight = "interference.family_vs_money"
			break
		}
		if bug == BeliefSuccessGuilt {
			r.InterferenceInsight = "interference.permission_to_receive"
			break
		}
	}
	return s
}
