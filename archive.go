package psyche

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

const (
	defaultArchiveKey = "psyche.scans"

	// trendWindow caps the trend arrays; older points roll off.
	trendWindow = 30
)

// ScanRecord is one archived analysis result.
type ScanRecord struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Result    AnalysisResult `json:"result"`
}

// ScanLog is the append-only scan history: past results plus rolling
// trend arrays for the headline indices.
type ScanLog struct {
	Scans          []ScanRecord `json:"scans"`
	IntegrityTrend []int        `json:"integrity_trend"`
	EntropyTrend   []int        `json:"entropy_trend"`
}

// ScanArchive persists the scan log over any Store.
type ScanArchive struct {
	store Store
	key   string
	now   func() time.Time
}

// NewScanArchive creates an archive under the default key.
func NewScanArchive(store Store) *ScanArchive {
	return &ScanArchive{
		store: store,
		key:   defaultArchiveKey,
		now:   time.Now,
	}
}

// WithKey overrides the durable key, so multiple profiles can share one
// store.
func (a *ScanArchive) WithKey(key string) *ScanArchive {
	a.key = key
	return a
}

// Append records a completed analysis. The result is copied into the log;
// the archive never mutates it.
func (a *ScanArchive) Append(ctx context.Context, result *AnalysisResult) ScanRecord {
	log := LoadJSON(a.store, a.key, ScanLog{})

	rec := ScanRecord{
		ID:        uuid.New().String(),
		CreatedAt: a.now(),
		Result:    *result,
	}
	log.Scans = append(log.Scans, rec)
	log.IntegrityTrend = appendTrend(log.IntegrityTrend, result.Integrity)
	log.EntropyTrend = appendTrend(log.EntropyTrend, result.EntropyScore)

	SaveJSON(ctx, a.store, a.key, log)

	capitan.Emit(ctx, ScanArchived,
		FieldScanID.Field(rec.ID),
		FieldSystemHealth.Field(result.SystemHealth),
	)
	return rec
}

// Log returns the current scan history; missing or corrupt stored data
// yields an empty log.
func (a *ScanArchive) Log() ScanLog {
	return LoadJSON(a.store, a.key, ScanLog{})
}

func appendTrend(trend []int, value int) []int {
	trend = append(trend, value)
	if len(trend) > trendWindow {
		trend = trend[len(trend)-trendWindow:]
	}
	return trend
}
