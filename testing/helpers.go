// Package psychetest provides test utilities for psyche.
package psychetest

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/psyche"
)

// ManualScheduler implements psyche.Scheduler with a hand-driven clock.
// Scheduled callbacks fire when Advance moves the clock past their due
// time; callbacks scheduled while firing wait for the next Advance, which
// models next-tick semantics.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*manualTask
}

type manualTask struct {
	at       time.Time
	fn       func()
	canceled bool
	fired    bool
}

// NewManualScheduler creates a scheduler at a fixed arbitrary epoch.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{now: time.Unix(1700000000, 0)}
}

// Now returns the manual clock.
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule registers fn to fire once d has elapsed on the manual clock.
func (m *ManualScheduler) Schedule(d time.Duration, fn func()) psyche.CancelFunc {
	m.mu.Lock()
	task := &manualTask{at: m.now.Add(d), fn: fn}
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		task.canceled = true
		m.mu.Unlock()
	}
}

// Advance moves the clock forward and fires every due callback in due
// order. Each callback runs with Now() at its own due time, so timestamps
// taken inside callbacks reflect when the callback was due rather than
// where the advance ends up.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	var due []*manualTask
	for _, task := range m.tasks {
		if !task.fired && !task.canceled && !task.at.After(target) {
			task.fired = true
			due = append(due, task)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	m.mu.Unlock()

	for _, task := range due {
		m.mu.Lock()
		if task.canceled {
			m.mu.Unlock()
			continue
		}
		if m.now.Before(task.at) {
			m.now = task.at
		}
		m.mu.Unlock()
		task.fn()
	}

	m.mu.Lock()
	if m.now.Before(target) {
		m.now = target
	}
	m.mu.Unlock()
}

// Pending reports how many callbacks are scheduled but not yet fired or
// canceled.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.tasks {
		if !task.fired && !task.canceled {
			n++
		}
	}
	return n
}

// Verify ManualScheduler implements psyche.Scheduler.
var _ psyche.Scheduler = (*ManualScheduler)(nil)

// RecordingHaptics implements psyche.Haptics and records every cue.
type RecordingHaptics struct {
	mu   sync.Mutex
	cues []psyche.Cue
}

// Cue records the cue.
func (h *RecordingHaptics) Cue(c psyche.Cue) {
	h.mu.Lock()
	h.cues = append(h.cues, c)
	h.mu.Unlock()
}

// Cues returns a copy of the recorded cues in order.
func (h *RecordingHaptics) Cues() []psyche.Cue {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]psyche.Cue, len(h.cues))
	copy(out, h.cues)
	return out
}

// Verify RecordingHaptics implements psyche.Haptics.
var _ psyche.Haptics = (*RecordingHaptics)(nil)

// NewTestSession builds a session over an in-memory store, a manual
// scheduler and recording haptics, with the calibration offset pre-seeded
// to zero so latency math is exact.
func NewTestSession(t *testing.T, registry *psyche.Registry, opts ...psyche.Option) (*psyche.Session, *ManualScheduler, *RecordingHaptics) {
	t.Helper()

	store := psyche.NewMemoryStore()
	store.Set("psychetest.calibration", "0")

	sched := NewManualScheduler()
	haptics := &RecordingHaptics{}
	all := append([]psyche.Option{
		psyche.WithScheduler(sched),
		psyche.WithHaptics(haptics),
		psyche.WithCalibrationKey("psychetest.calibration"),
	}, opts...)

	return psyche.NewSession(store, registry, all...), sched, haptics
}

// RequireRoute asserts the session's current route.
func RequireRoute(t *testing.T, s *psyche.Session, want psyche.Route) {
	t.Helper()
	if got := s.Route(); got != want {
		t.Fatalf("route = %q, want %q", got, want)
	}
}

// NeutralHistory builds n sequential entries with the default belief and
// neutral sensation, useful as filler for detector and scoring tests.
func NeutralHistory(n int) []psyche.HistoryEntry {
	history := make([]psyche.HistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		history = append(history, psyche.HistoryEntry{
			Belief:    psyche.BeliefDefault,
			Sensation: psyche.SensationNeutral,
			LatencyMs: 1000 + (i%7)*300,
			NodeID:    i,
			Domain:    psyche.DomainFoundation,
			Position:  i % 3,
		})
	}
	return history
}
