// Package psyche implements the scoring and progression engine behind an
// interactive psychometric questionnaire: it records belief-tagged,
// timestamped answers as a session advances through a branching node
// sequence, and derives a behavioral profile from the accumulated history.
//
// # Core Types
//
// The package is built around three core concepts:
//
//   - [HistoryEntry] - One recorded answer: belief tag, somatic sensation,
//     response latency, node, domain and chosen position. Entries are
//     append-only and chronological.
//   - [Session] - The progression state machine. It opens one node at a
//     time, measures latency, optionally samples a body sensation, and
//     commits each entry together with the completed-node set in a single
//     durable write.
//   - [AnalysisResult] - The profile produced by [Analyze]: trait scores,
//     derived indices, archetype classification, verdict, a 7-day roadmap,
//     neural correlations and recurring "bug" patterns.
//
// # Scoring
//
// [Analyze] is a deterministic pure function over an ordered history. It
// folds belief effect vectors into bounded trait scores with diminishing
// returns near the bounds (see [TraitState]), weights repeated beliefs
// progressively heavier (resonance), and cross-references response latency
// against a per-session baseline to detect resistance and congruence.
// Identical input always produces an identical result.
//
// # Pattern Detection
//
// [DetectPatterns] independently inspects the same history for degenerate
// answer sequences: positional straight-lining, high skip rates, robotic
// timing uniformity and somatic monotony. Histories shorter than 15 entries
// report all flags false to avoid false positives.
//
// # Progression
//
// A [Session] is driven by an injected [Store] (durable key/value
// persistence), [Scheduler] (cancellable timers, so tests can simulate
// time), [Haptics] (user-facing cues) and [Registry] (static scene
// content). Demo mode caps progression at an early node; every tenth
// completed node routes through a dashboard checkpoint.
//
// # Persistence
//
// [MemoryStore] and [SQLStore] (embedded SQLite) implement [Store]. Store
// operations never propagate errors to the state machine: saves are
// best-effort, loads fall back on missing or corrupt values. Completed
// profiles can be appended to a [ScanArchive] over any Store, or to a
// Postgres-backed [SoyArchive].
//
// # Feedback
//
// The legacy single-track mode sends a journey transcript to a generative
// collaborator via [Feedback]. The collaborator is opaque and
// failure-tolerant; it is never consulted by [Analyze].
//
// # Observability
//
// psyche emits capitan signals throughout execution. See signals.go for
// the complete list, including NodeStarted, ChoiceCommitted,
// SessionCompleted, AnalysisCompleted and PatternFlagged.
package psyche
