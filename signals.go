package psyche

import "github.com/zoobzio/capitan"

// Signal definitions for psyche engine events.
// Signals follow the pattern: psyche.<entity>.<event>.
var (
	// Session progression signals.
	NodeStarted = capitan.NewSignal(
		"psyche.node.started",
		"A node was opened and latency measurement scheduled",
	)
	NodeBlocked = capitan.NewSignal(
		"psyche.node.blocked",
		"Demo mode rejected a node beyond the cap",
	)
	ChoiceCommitted = capitan.NewSignal(
		"psyche.choice.committed",
		"History entry and completed set persisted in one write",
	)
	BodySampled = capitan.NewSignal(
		"psyche.body.sampled",
		"A somatic reading completed a pending choice",
	)
	DashboardCheckpoint = capitan.NewSignal(
		"psyche.session.dashboard",
		"Progression routed to a dashboard interstitial",
	)
	SessionCompleted = capitan.NewSignal(
		"psyche.session.completed",
		"All nodes answered, session reached terminal results state",
	)

	// Analysis signals.
	AnalysisCompleted = capitan.NewSignal(
		"psyche.analysis.completed",
		"Scoring engine produced a profile from a history",
	)
	PatternFlagged = capitan.NewSignal(
		"psyche.pattern.flagged",
		"Pattern detector raised at least one quality flag",
	)

	// Persistence signals.
	StoreSaveFailed = capitan.NewSignal(
		"psyche.store.save_failed",
		"Serialization or store error absorbed at the adapter boundary",
	)
	ScanArchived = capitan.NewSignal(
		"psyche.scan.archived",
		"Analysis result appended to the scan history log",
	)

	// Feedback collaborator signals.
	FeedbackGenerated = capitan.NewSignal(
		"psyche.feedback.generated",
		"Generative feedback parsed into text and score",
	)
	FeedbackFailed = capitan.NewSignal(
		"psyche.feedback.failed",
		"Generative feedback call failed or returned unusable output",
	)
)

// Field keys for psyche event data.
var (
	FieldSessionID = capitan.NewStringKey("session_id")
	FieldNodeID    = capitan.NewIntKey("node_id")
	FieldDomain    = capitan.NewStringKey("domain")
	FieldBelief    = capitan.NewStringKey("belief")
	FieldSensation = capitan.NewStringKey("sensation")
	FieldPosition  = capitan.NewIntKey("position")
	FieldLatencyMs = capitan.NewIntKey("latency_ms")

	FieldHistoryLen   = capitan.NewIntKey("history_len")
	FieldArchetype    = capitan.NewStringKey("archetype")
	FieldPhase        = capitan.NewStringKey("phase")
	FieldSystemHealth = capitan.NewIntKey("system_health")
	FieldFlagCount    = capitan.NewIntKey("flag_count")

	FieldStoreKey = capitan.NewStringKey("store_key")
	FieldScanID   = capitan.NewStringKey("scan_id")
	FieldScore    = capitan.NewIntKey("score")

	FieldError = capitan.NewErrorKey("error")
)
