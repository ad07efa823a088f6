package psyche

import "time"

// CancelFunc cancels a scheduled callback. Safe to call more than once;
// calling it after the callback fired is a no-op.
type CancelFunc func()

// Scheduler is the cancellable scheduled-callback abstraction the
// progression state machine runs on. Latency measurement deliberately
// starts on the next scheduling tick after a node opens, and reflection
// interstitials auto-advance on a delayed callback; routing both through
// this interface lets tests simulate time deterministically instead of
// depending on real timers.
type Scheduler interface {
	Now() time.Time
	// Schedule runs fn once after d. A zero duration means "next tick".
	Schedule(d time.Duration, fn func()) CancelFunc
}

// realScheduler backs Scheduler with the runtime timers.
type realScheduler struct{}

// NewScheduler returns the wall-clock Scheduler used outside tests.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) Now() time.Time {
	return time.Now()
}

func (realScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
