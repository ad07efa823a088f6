package psyche

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/astql/postgres"
	"github.com/zoobzio/soy"
)

// ScanRow is the Postgres representation of one archived analysis. The
// headline indices are lifted into columns for trend queries; the full
// result travels as JSON.
type ScanRow struct {
	ID           string    `db:"id" type:"uuid" constraints:"primarykey" default:"gen_random_uuid()"`
	SessionID    string    `db:"session_id" type:"text" constraints:"notnull"`
	Archetype    string    `db:"archetype" type:"text" constraints:"notnull"`
	Integrity    int       `db:"integrity" type:"integer" constraints:"notnull"`
	Entropy      int       `db:"entropy" type:"integer" constraints:"notnull"`
	SystemHealth int       `db:"system_health" type:"integer" constraints:"notnull"`
	Result       string    `db:"result" type:"jsonb" constraints:"notnull"`
	CreatedAt    time.Time `db:"created_at" type:"timestamp" constraints:"notnull"`
}

// SoyArchive is the Postgres-backed scan archive, for hosts that keep
// profiles server-side instead of in the session store.
type SoyArchive struct {
	scans *soy.Soy[ScanRow]
	db    *sqlx.DB
}

// NewSoyArchive creates a soy-backed archive and its table.
func NewSoyArchive(db *sqlx.DB) (*SoyArchive, error) {
	renderer := postgres.New()

	scans, err := soy.New[ScanRow](db, "scans", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scans table: %w", err)
	}

	return &SoyArchive{scans: scans, db: db}, nil
}

// Append persists one analysis result for a session and returns the row
// with its ID populated.
func (a *SoyArchive) Append(ctx context.Context, sessionID string, result *AnalysisResult) (*ScanRow, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	row := &ScanRow{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Archetype:    string(result.Archetype),
		Integrity:    result.Integrity,
		Entropy:      result.EntropyScore,
		SystemHealth: result.SystemHealth,
		Result:       string(payload),
		CreatedAt:    time.Now(),
	}

	inserted, err := a.scans.Insert().Exec(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scan: %w", err)
	}
	return inserted, nil
}

// List loads all scans for a session, oldest first.
func (a *SoyArchive) List(ctx context.Context, sessionID string) ([]ScanRow, error) {
	rowPtrs, err := a.scans.Query().
		Where("session_id", "=", "session_id").
		OrderBy("created_at", "asc").
		Exec(ctx, map[string]any{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	rows := make([]ScanRow, len(rowPtrs))
	for i, r := range rowPtrs {
		rows[i] = *r
	}
	return rows, nil
}

// Delete removes all scans for a session.
func (a *SoyArchive) Delete(ctx context.Context, sessionID string) error {
	_, err := a.scans.Remove().
		Where("session_id", "=", "session_id").
		Exec(ctx, map[string]any{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete scans: %w", err)
	}
	return nil
}

// Decode unpacks the stored result JSON.
func (r *ScanRow) Decode() (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal([]byte(r.Result), &result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}
