package psyche

// Cue identifies a user-facing feedback event raised by the state machine.
type Cue string

const (
	// CueBlocked accompanies a silently rejected demo-mode action.
	CueBlocked Cue = "blocked"
	// CueReflect accompanies the reflection interstitial after a
	// non-neutral body reading.
	CueReflect Cue = "reflect"
	// CueComplete accompanies the terminal results transition.
	CueComplete Cue = "complete"
)

// Haptics is the injected haptic/notification sink. Hosts map cues onto
// device vibration, alerts or nothing at all; the engine never touches a
// device API directly.
type Haptics interface {
	Cue(cue Cue)
}

// NopHaptics discards every cue. It is the default sink.
type NopHaptics struct{}

func (NopHaptics) Cue(Cue) {}
