package psyche

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Progression constants.
const (
	// DemoNodeCap is the first node id a demo session may not open.
	DemoNodeCap = 3

	// The first onboardingNodes nodes always sample a body sensation,
	// regardless of scene intensity.
	onboardingNodes   = 3
	intensitySampling = 4

	reflectionDelay = 1200 * time.Millisecond
	checkpointEvery = 10
	forcedLatencyMs = 1500

	defaultStateKey       = "psyche.session"
	defaultCalibrationKey = "psyche.calibration"
)

// Route is the externally visible progression state.
type Route string

const (
	RouteIdle      Route = "idle"
	RouteAnswering Route = "answering"
	RouteBodySync  Route = "body_sync"
	RouteDashboard Route = "dashboard"
	RouteResults   Route = "results"
)

var (
	// ErrNoOpenNode is returned when a choice arrives with no node open.
	ErrNoOpenNode = errors.New("no node is open for answering")
	// ErrNoPendingChoice is returned when a body reading arrives with no
	// choice held for sampling.
	ErrNoPendingChoice = errors.New("no pending choice awaiting a body reading")
	// ErrNotPrivileged guards the administrative escape hatch.
	ErrNotPrivileged = errors.New("session is not privileged")
)

// pendingChoice holds one answered-but-uncommitted choice while body-sync
// sampling runs. There is at most one pending choice at a time.
type pendingChoice struct {
	nodeID    int
	domain    Domain
	belief    BeliefTag
	position  int
	latencyMs int
}

// Session is the progression state machine. It owns the SessionState
// exclusively: every history append and completion record go through one
// atomic commit, so durable state never diverges.
//
// All collaborators are injected; the engine never reaches for a device,
// timer or storage API ambiently.
type Session struct {
	mu sync.Mutex

	id        string
	store     Store
	sched     Scheduler
	haptics   Haptics
	registry  *Registry
	partition DomainPartition

	demo       bool
	privileged bool

	stateKey       string
	calibrationKey string

	state SessionState
	route Route

	currentNode   int
	currentDomain Domain

	// epoch guards scheduled callbacks against superseded nodes.
	epoch       int
	nodeStartAt time.Time
	nodeStarted bool

	calibration time.Duration
	calibrated  bool

	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration

	pending       *pendingChoice
	cancelReflect CancelFunc
}

// Option configures a Session at construction.
type Option func(*Session)

// WithDemoMode caps progression at DemoNodeCap.
func WithDemoMode() Option {
	return func(s *Session) { s.demo = true }
}

// WithPrivileged enables the administrative ForceCompleteAll escape hatch.
// Never enable it for end-user sessions.
func WithPrivileged() Option {
	return func(s *Session) { s.privileged = true }
}

// WithScheduler substitutes the timer source, letting tests drive time.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithHaptics substitutes the cue sink.
func WithHaptics(h Haptics) Option {
	return func(s *Session) { s.haptics = h }
}

// WithPartition substitutes the domain partition.
func WithPartition(p DomainPartition) Option {
	return func(s *Session) { s.partition = p }
}

// WithStateKey overrides the durable key for session state, so multiple
// sessions can share one store.
func WithStateKey(key string) Option {
	return func(s *Session) { s.stateKey = key }
}

// WithCalibrationKey overrides the durable key for the input-latency
// calibration offset.
func WithCalibrationKey(key string) Option {
	return func(s *Session) { s.calibrationKey = key }
}

// NewSession builds a session over the given store and scene registry,
// resuming any previously persisted state under the configured keys.
func NewSession(store Store, registry *Registry, opts ...Option) *Session {
	s := &Session{
		id:             uuid.New().String(),
		store:          store,
		sched:          NewScheduler(),
		haptics:        NopHaptics{},
		registry:       registry,
		partition:      DefaultPartition,
		stateKey:       defaultStateKey,
		calibrationKey: defaultCalibrationKey,
		route:          RouteIdle,
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = LoadJSON(s.store, s.stateKey, SessionState{})
	if ms := LoadJSON(s.store, s.calibrationKey, -1); ms >= 0 {
		s.calibration = time.Duration(ms) * time.Millisecond
		s.calibrated = true
	}
	return s
}

// StartNode opens a node for answering. In demo mode, nodes at or beyond
// the cap are silently rejected with a haptic cue.
//
// The node-start timestamp is taken on the next scheduler tick rather than
// synchronously, so render/layout cost never counts toward the user's
// reaction time. The very first node of a device's lifetime additionally
// measures the scheduling delay itself and persists it; the offset is
// subtracted from every later latency measurement.
func (s *Session) StartNode(ctx context.Context, nodeID int, domain Domain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startNode(ctx, nodeID, domain)
}

func (s *Session) startNode(ctx context.Context, nodeID int, domain Domain) {
	if s.demo && nodeID >= DemoNodeCap {
		s.haptics.Cue(CueBlocked)
		capitan.Emit(ctx, NodeBlocked,
			FieldSessionID.Field(s.id),
			FieldNodeID.Field(nodeID),
		)
		return
	}

	// A node open supersedes any reflection interstitial still counting
	// down; the stale timer must never re-route progression.
	if s.cancelReflect != nil {
		s.cancelReflect()
		s.cancelReflect = nil
	}

	if !s.calibrated {
		s.calibrated = true
		requested := s.sched.Now()
		s.sched.Schedule(0, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.calibration = s.sched.Now().Sub(requested)
			SaveJSON(ctx, s.store, s.calibrationKey, int(s.calibration/time.Millisecond))
		})
	}

	s.epoch++
	epoch := s.epoch
	s.currentNode = nodeID
	s.currentDomain = domain
	s.route = RouteAnswering
	s.nodeStarted = false
	s.pausedTotal = 0
	s.paused = false
	s.pending = nil

	s.sched.Schedule(0, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		s.nodeStartAt = s.sched.Now()
		s.nodeStarted = true
	})

	capitan.Emit(ctx, NodeStarted,
		FieldSessionID.Field(s.id),
		FieldNodeID.Field(nodeID),
		FieldDomain.Field(string(domain)),
	)
}

// HandleChoice records the answer at the given option position (negative
// means skipped). Nodes in the onboarding window or with high configured
// intensity transition to body-sync sampling with the choice held pending;
// everything else commits immediately with the neutral sensation and
// advances.
func (s *Session) HandleChoice(ctx context.Context, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.route != RouteAnswering {
		return ErrNoOpenNode
	}

	latency := s.measureLatency()

	belief := BeliefDefault
	scene, haveScene := Scene{}, false
	if s.registry != nil {
		scene, haveScene = s.registry.Scene(s.currentDomain, s.currentNode)
	}
	if position >= 0 && haveScene && position < len(scene.Choices) {
		belief = scene.Choices[position].Belief
	}

	if s.currentNode < onboardingNodes || (haveScene && scene.Intensity >= intensitySampling) {
		s.pending = &pendingChoice{
			nodeID:    s.currentNode,
			domain:    s.currentDomain,
			belief:    belief,
			position:  position,
			latencyMs: latency,
		}
		s.route = RouteBodySync
		return nil
	}

	s.commit(ctx, HistoryEntry{
		Belief:    belief,
		Sensation: SensationNeutral,
		LatencyMs: latency,
		NodeID:    s.currentNode,
		Domain:    s.currentDomain,
		Position:  position,
	}, s.currentNode)
	s.advance(ctx)
	return nil
}

// measureLatency computes elapsed time since the node-start tick, minus
// backgrounded time and the calibration offset, floored at zero.
func (s *Session) measureLatency() int {
	if !s.nodeStarted {
		return 0
	}
	elapsed := s.sched.Now().Sub(s.nodeStartAt) - s.pausedTotal - s.calibration
	if s.paused {
		elapsed -= s.sched.Now().Sub(s.pausedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Millisecond)
}

// SyncBodySensation completes a pending choice with the sampled sensation
// and commits it. A neutral reading advances immediately; anything else
// shows a brief reflection interstitial and auto-advances after a fixed
// delay. A superseding call cancels the previous delay so the session can
// never double-advance.
func (s *Session) SyncBodySensation(ctx context.Context, sensation Sensation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingChoice
	}
	p := s.pending
	s.pending = nil

	s.commit(ctx, HistoryEntry{
		Belief:    p.belief,
		Sensation: sensation,
		LatencyMs: p.latencyMs,
		NodeID:    p.nodeID,
		Domain:    p.domain,
		Position:  p.position,
	}, p.nodeID)

	capitan.Emit(ctx, BodySampled,
		FieldSessionID.Field(s.id),
		FieldNodeID.Field(p.nodeID),
		FieldSensation.Field(string(sensation)),
	)

	if sensation == SensationNeutral {
		s.advance(ctx)
		return nil
	}

	if s.cancelReflect != nil {
		s.cancelReflect()
	}
	s.haptics.Cue(CueReflect)
	s.cancelReflect = s.sched.Schedule(reflectionDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cancelReflect = nil
		s.advance(ctx)
	})
	return nil
}

// commit appends the entry and records completion as one durable write.
// Indivisible from the caller's perspective: in-memory state and the
// persisted snapshot always carry both or neither.
func (s *Session) commit(ctx context.Context, entry HistoryEntry, nodeID int) {
	s.state.History = append(s.state.History, entry)
	if !s.state.hasCompleted(nodeID) {
		s.state.Completed = append(s.state.Completed, nodeID)
	}
	SaveJSON(ctx, s.store, s.stateKey, s.state)

	capitan.Emit(ctx, ChoiceCommitted,
		FieldSessionID.Field(s.id),
		FieldNodeID.Field(nodeID),
		FieldBelief.Field(string(entry.Belief)),
		FieldSensation.Field(string(entry.Sensation)),
		FieldLatencyMs.Field(entry.LatencyMs),
		FieldPosition.Field(entry.Position),
	)
}

// Advance routes progression after a commit or a dashboard return. It
// reads the completed set written by commit; commit always finishes (both
// in-memory and durable) before this runs.
func (s *Session) Advance(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(ctx)
}

func (s *Session) advance(ctx context.Context) {
	next := s.state.maxCompleted() + 1

	if next >= s.partition.TotalNodes() {
		s.route = RouteResults
		s.haptics.Cue(CueComplete)
		capitan.Emit(ctx, SessionCompleted,
			FieldSessionID.Field(s.id),
			FieldHistoryLen.Field(len(s.state.History)),
		)
		return
	}

	if s.demo && next >= DemoNodeCap {
		s.route = RouteDashboard
		capitan.Emit(ctx, DashboardCheckpoint,
			FieldSessionID.Field(s.id),
			FieldNodeID.Field(next),
		)
		return
	}

	// Periodic "come back to the hub" break every ten completed nodes.
	if n := len(s.state.Completed); n > 0 && n%checkpointEvery == 0 && !s.state.hasCompleted(next) {
		s.route = RouteDashboard
		capitan.Emit(ctx, DashboardCheckpoint,
			FieldSessionID.Field(s.id),
			FieldNodeID.Field(next),
		)
		return
	}

	domain, ok := s.partition.Resolve(next)
	if !ok {
		s.route = RouteDashboard
		capitan.Emit(ctx, DashboardCheckpoint,
			FieldSessionID.Field(s.id),
			FieldNodeID.Field(next),
		)
		return
	}

	s.startNode(ctx, next, domain)
}

// ForceCompleteAll synthesizes a fully neutral history covering every node
// and commits it as the entire session state in one write, bypassing
// normal progression. It exists so an operator can jump straight to a
// completed-profile view; it is rejected unless the session was built
// WithPrivileged.
func (s *Session) ForceCompleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.privileged {
		return ErrNotPrivileged
	}

	total := s.partition.TotalNodes()
	state := SessionState{
		Completed: make([]int, 0, total),
		History:   make([]HistoryEntry, 0, total),
	}
	for id := 0; id < total; id++ {
		domain, ok := s.partition.Resolve(id)
		if !ok {
			domain = DomainFoundation
		}
		state.History = append(state.History, HistoryEntry{
			Belief:    BeliefDefault,
			Sensation: SensationNeutral,
			LatencyMs: forcedLatencyMs,
			NodeID:    id,
			Domain:    domain,
			Position:  SkippedPosition,
		})
		state.Completed = append(state.Completed, id)
	}

	s.state = state
	SaveJSON(ctx, s.store, s.stateKey, s.state)

	if s.cancelReflect != nil {
		s.cancelReflect()
		s.cancelReflect = nil
	}
	s.pending = nil
	s.route = RouteResults

	capitan.Emit(ctx, SessionCompleted,
		FieldSessionID.Field(s.id),
		FieldHistoryLen.Field(len(s.state.History)),
	)
	return nil
}

// Pause marks the host view hidden: elapsed time stops counting toward
// latency so backgrounding a tab does not inflate resistance detection.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.pausedAt = s.sched.Now()
}

// Resume marks the host view visible again and folds the hidden interval
// into the paused-duration accumulator.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused = false
	s.pausedTotal += s.sched.Now().Sub(s.pausedAt)
}

// ID returns the session identity.
func (s *Session) ID() string {
	return s.id
}

// Route returns the current progression state.
func (s *Session) Route() Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// CurrentNode returns the open node id; meaningful while answering.
func (s *Session) CurrentNode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentNode
}

// History returns a copy of the recorded entries in chronological order.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]HistoryEntry, len(s.state.History))
	copy(history, s.state.History)
	return history
}

// Completed returns a copy of the completed node ids.
func (s *Session) Completed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := make([]int, len(s.state.Completed))
	copy(completed, s.state.Completed)
	return completed
}

// Calibration returns the persisted input-latency offset.
func (s *Session) Calibration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calibration
}
