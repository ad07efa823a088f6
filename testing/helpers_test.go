package psychetest

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/psyche"
)

func testRegistry() *psyche.Registry {
	scenes := make(map[int]psyche.Scene)
	for id := 0; id < 8; id++ {
		scenes[id] = psyche.Scene{
			TitleRef:  "scene.title",
			Intensity: 1,
			Choices: []psyche.SceneChoice{
				{TitleRef: "choice.a", Belief: psyche.BeliefSafetyFirst},
				{TitleRef: "choice.b", Belief: psyche.BeliefRiskHunger},
			},
		}
	}
	return psyche.NewRegistry(map[psyche.Domain]map[int]psyche.Scene{
		psyche.DomainFoundation: scenes,
	})
}

func TestManualScheduler(t *testing.T) {
	sched := NewManualScheduler()

	fired := 0
	sched.Schedule(10*time.Millisecond, func() { fired++ })
	cancel := sched.Schedule(10*time.Millisecond, func() { fired++ })
	cancel()

	if sched.Pending() != 1 {
		t.Errorf("pending = %d, want 1 after cancel", sched.Pending())
	}

	sched.Advance(5 * time.Millisecond)
	if fired != 0 {
		t.Error("callback fired before its due time")
	}

	sched.Advance(5 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired = %d, want 1 (canceled task skipped)", fired)
	}

	// A callback scheduled while firing waits for the next Advance.
	sched.Schedule(0, func() {
		sched.Schedule(0, func() { fired++ })
	})
	sched.Advance(0)
	if fired != 1 {
		t.Error("nested callback fired on the same tick")
	}
	sched.Advance(0)
	if fired != 2 {
		t.Error("nested callback never fired")
	}
}

func TestManualSchedulerFiresAtDueTime(t *testing.T) {
	sched := NewManualScheduler()
	start := sched.Now()

	var seen []time.Duration
	sched.Schedule(10*time.Millisecond, func() { seen = append(seen, sched.Now().Sub(start)) })
	sched.Schedule(30*time.Millisecond, func() { seen = append(seen, sched.Now().Sub(start)) })

	sched.Advance(50 * time.Millisecond)

	if len(seen) != 2 || seen[0] != 10*time.Millisecond || seen[1] != 30*time.Millisecond {
		t.Errorf("fire times = %v, want each callback at its own due time", seen)
	}
	if got := sched.Now().Sub(start); got != 50*time.Millisecond {
		t.Errorf("clock = %v after advance, want 50ms", got)
	}
}

func TestRecordingHaptics(t *testing.T) {
	h := &RecordingHaptics{}
	h.Cue(psyche.CueReflect)
	h.Cue(psyche.CueComplete)

	cues := h.Cues()
	if len(cues) != 2 || cues[0] != psyche.CueReflect || cues[1] != psyche.CueComplete {
		t.Errorf("cues = %v, want [reflect complete]", cues)
	}
}

func TestNewTestSession(t *testing.T) {
	ctx := context.Background()
	s, sched, _ := NewTestSession(t, testRegistry())

	if s.Calibration() != 0 {
		t.Errorf("calibration = %v, want pre-seeded zero", s.Calibration())
	}

	s.StartNode(ctx, 4, psyche.DomainFoundation)
	RequireRoute(t, s, psyche.RouteAnswering)

	sched.Advance(800 * time.Millisecond)
	if err := s.HandleChoice(ctx, 0); err != nil {
		t.Fatalf("HandleChoice: %v", err)
	}
	if got := s.History()[0].LatencyMs; got != 800 {
		t.Errorf("latency = %d, want 800 off the manual clock", got)
	}
}

func TestNeutralHistory(t *testing.T) {
	history := NeutralHistory(15)
	if len(history) != 15 {
		t.Fatalf("len = %d, want 15", len(history))
	}
	for i, e := range history {
		if e.NodeID != i || e.Belief != psyche.BeliefDefault {
			t.Errorf("entry %d = %+v, want sequential default entries", i, e)
		}
	}
}
