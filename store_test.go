package psyche

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("missing"); ok {
		t.Error("empty store reported a hit")
	}

	s.Set("k", "v1")
	s.Set("k", "v2")
	if v, ok := s.Get("k"); !ok || v != "v2" {
		t.Errorf("Get = %q (ok=%v), want v2", v, ok)
	}

	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("deleted key still present")
	}
}

func TestSaveLoadJSON(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := SessionState{
		Completed: []int{0, 1},
		History: []HistoryEntry{
			{Belief: BeliefSafetyFirst, Sensation: SensationWarmth, LatencyMs: 800, NodeID: 1},
		},
	}
	SaveJSON(ctx, s, "state", in)

	out := LoadJSON(s, "state", SessionState{})
	if len(out.Completed) != 2 || len(out.History) != 1 {
		t.Errorf("round trip lost data: %+v", out)
	}
	if out.History[0].Belief != BeliefSafetyFirst {
		t.Errorf("belief = %q, want safety_first", out.History[0].Belief)
	}
}

func TestLoadJSONFallbacks(t *testing.T) {
	s := NewMemoryStore()

	fallback := SessionState{Completed: []int{7}}
	if out := LoadJSON(s, "missing", fallback); len(out.Completed) != 1 || out.Completed[0] != 7 {
		t.Errorf("missing key returned %+v, want fallback", out)
	}

	s.Set("corrupt", "{not json")
	if out := LoadJSON(s, "corrupt", fallback); len(out.Completed) != 1 || out.Completed[0] != 7 {
		t.Errorf("corrupt value returned %+v, want fallback", out)
	}
}

func TestSaveJSONAbsorbsMarshalFailure(t *testing.T) {
	s := NewMemoryStore()

	// Channels are not serializable; the failure is absorbed and the
	// store is left untouched.
	SaveJSON(context.Background(), s, "bad", make(chan int))
	if _, ok := s.Get("bad"); ok {
		t.Error("failed marshal still wrote a value")
	}
}
