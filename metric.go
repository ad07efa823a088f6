package psyche

// Trait bounds and the neutral midpoint used by the resistance model.
const (
	traitMin = 0.0
	traitMax = 100.0
	traitMid = 50.0

	// resistanceScale caps how much of a delta psychological inertia can
	// absorb: a trait at either extreme loses 40% of any further push.
	resistanceScale = 0.4
)

// applyDelta applies one signed delta to a bounded trait value with
// diminishing returns near the bounds.
//
// A zero delta returns v unchanged (fast path, also keeps repeated folds
// free of floating noise). Otherwise the effective delta shrinks in
// proportion to how far v already sits from the neutral midpoint, and the
// result is clamped to [0,100].
//
// The function is pure and deterministic but not associative: applied
// repeatedly, later evidence has less leverage once a trait is already
// extreme. Callers rely on that ordering.
func applyDelta(v, d float64) float64 {
	if d == 0 {
		return v
	}

	resistance := (v - traitMid) / traitMid
	if resistance < 0 {
		resistance = -resistance
	}

	next := v + d*(1-resistance*resistanceScale)
	if next < traitMin {
		return traitMin
	}
	if next > traitMax {
		return traitMax
	}
	return next
}
