package psyche

import (
	"context"
	"testing"
	"time"
)

func TestScanArchiveAppendAndLog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	archive := NewScanArchive(store)

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	archive.now = func() time.Time { return fixed }

	first := archive.Append(ctx, &AnalysisResult{Integrity: 45, EntropyScore: 10, SystemHealth: 67})
	second := archive.Append(ctx, &AnalysisResult{Integrity: 52, EntropyScore: 18, SystemHealth: 70})

	if first.ID == "" || first.ID == second.ID {
		t.Errorf("scan ids %q / %q, want distinct non-empty ids", first.ID, second.ID)
	}
	if !first.CreatedAt.Equal(fixed) {
		t.Errorf("created at = %v, want the injected clock", first.CreatedAt)
	}

	log := archive.Log()
	if len(log.Scans) != 2 {
		t.Fatalf("log holds %d scans, want 2", len(log.Scans))
	}
	if log.Scans[0].Result.Integrity != 45 || log.Scans[1].Result.Integrity != 52 {
		t.Errorf("scan order lost: %+v", log.Scans)
	}
	wantIntegrity := []int{45, 52}
	wantEntropy := []int{10, 18}
	for i := range wantIntegrity {
		if log.IntegrityTrend[i] != wantIntegrity[i] || log.EntropyTrend[i] != wantEntropy[i] {
			t.Errorf("trends = %v / %v, want %v / %v",
				log.IntegrityTrend, log.EntropyTrend, wantIntegrity, wantEntropy)
		}
	}
}

func TestScanArchiveTrendWindow(t *testing.T) {
	ctx := context.Background()
	archive := NewScanArchive(NewMemoryStore())

	for i := 0; i < trendWindow+5; i++ {
		archive.Append(ctx, &AnalysisResult{Integrity: i, EntropyScore: i})
	}

	log := archive.Log()
	if len(log.IntegrityTrend) != trendWindow {
		t.Fatalf("trend len = %d, want %d", len(log.IntegrityTrend), trendWindow)
	}
	if log.IntegrityTrend[0] != 5 || log.IntegrityTrend[trendWindow-1] != trendWindow+4 {
		t.Errorf("trend = %v, want oldest points rolled off", log.IntegrityTrend)
	}
	if len(log.Scans) != trendWindow+5 {
		t.Errorf("scan list len = %d, want all %d kept", len(log.Scans), trendWindow+5)
	}
}

func TestScanArchiveWithKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := NewScanArchive(store).WithKey("profile.a")
	b := NewScanArchive(store).WithKey("profile.b")

	a.Append(ctx, &AnalysisResult{Integrity: 40})
	b.Append(ctx, &AnalysisResult{Integrity: 80})

	if log := a.Log(); len(log.Scans) != 1 || log.Scans[0].Result.Integrity != 40 {
		t.Errorf("profile a log = %+v, want its own single scan", log)
	}
	if log := b.Log(); len(log.Scans) != 1 || log.Scans[0].Result.Integrity != 80 {
		t.Errorf("profile b log = %+v, want its own single scan", log)
	}
}
