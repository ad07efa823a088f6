package psyche

// Sensation is a user-reported bodily reading sampled alongside a choice.
// It corroborates response latency as a congruence signal.
type Sensation string

const (
	// SensationNeutral is the sentinel for "no signal": committed
	// automatically when a node does not require body-sync sampling.
	SensationNeutral Sensation = "neutral"

	SensationTension      Sensation = "tension"
	SensationWarmth       Sensation = "warmth"
	SensationHeaviness    Sensation = "heaviness"
	SensationConstriction Sensation = "constriction"
)

// isBlock reports whether the sensation counts toward the somatic block
// tally. isResource reports whether it counts as a resource reading.
func (s Sensation) isBlock() bool {
	return s == SensationTension || s == SensationConstriction
}

func (s Sensation) isResource() bool {
	return s == SensationWarmth
}

// Domain is a thematic partition tag over the node sequence.
type Domain string

const (
	DomainFoundation Domain = "foundation"
	DomainMoney      Domain = "money"
	DomainAgency     Domain = "agency"
	DomainSocial     Domain = "social"
	DomainLegacy     Domain = "legacy"
)

// SkippedPosition is the choice-position sentinel recorded when a node was
// skipped rather than answered.
const SkippedPosition = -1

// HistoryEntry is one recorded response. Entries are created exactly once
// per answered node, appended to an ordered sequence, and never mutated:
// chronological order drives resonance and skip-rate calculations.
type HistoryEntry struct {
	Belief    BeliefTag `json:"belief"`
	Sensation Sensation `json:"sensation"`
	LatencyMs int       `json:"latency_ms"`
	NodeID    int       `json:"node_id"`
	Domain    Domain    `json:"domain"`
	Position  int       `json:"position"`
}

// SessionState is the only durable representation of a session. Completed
// and History are always persisted together in one atomic write: no reader
// of durable state may ever observe one reflecting an entry the other does
// not.
type SessionState struct {
	Completed []int          `json:"completed"`
	History   []HistoryEntry `json:"history"`
}

func (s *SessionState) hasCompleted(nodeID int) bool {
	for _, id := range s.Completed {
		if id == nodeID {
			return true
		}
	}
	return false
}

// maxCompleted returns the highest completed node id, or -1 for a fresh
// session so that progression starts at node 0.
func (s *SessionState) maxCompleted() int {
	max := -1
	for _, id := range s.Completed {
		if id > max {
			max = id
		}
	}
	return max
}

// PartitionSegment assigns a contiguous run of node ids to one domain.
type PartitionSegment struct {
	Domain Domain `json:"domain"`
	Start  int    `json:"start"`
	Count  int    `json:"count"`
}

// DomainPartition carves the flat node-id space into ordered thematic
// sections. It is static configuration, consulted by both the progression
// state machine and the scorer.
type DomainPartition []PartitionSegment

// DefaultPartition covers 40 nodes across five domains.
var DefaultPartition = DomainPartition{
	{Domain: DomainFoundation, Start: 0, Count: 8},
	{Domain: DomainMoney, Start: 8, Count: 10},
	{Domain: DomainAgency, Start: 18, Count: 10},
	{Domain: DomainSocial, Start: 28, Count: 8},
	{Domain: DomainLegacy, Start: 36, Count: 4},
}

// Resolve returns the domain owning a node id, if any.
func (p DomainPartition) Resolve(nodeID int) (Domain, bool) {
	for _, seg := range p {
		if nodeID >= seg.Start && nodeID < seg.Start+seg.Count {
			return seg.Domain, true
		}
	}
	return "", false
}

// TotalNodes is the number of nodes covered by the partition.
func (p DomainPartition) TotalNodes() int {
	total := 0
	for _, seg := range p {
		total += seg.Count
	}
	return total
}
