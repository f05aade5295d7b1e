package generic

import (
	"context"
	"time"
)

// =============================================================================
// SNAPSHOT - Frozen projection for a property
// =============================================================================

// Snapshot captures a projection as it was computed at TakenAt.
// Used for:
//   - Fast reads (avoid recomputing on every dashboard load)
//   - Audit trail of what was reported in a given financial year
//   - Detecting when a new financial year has rolled the default range
type Snapshot struct {
	ID         string
	PropertyID string

	// The financial years the projection covers
	Range YearRange

	// When the snapshot was taken
	TakenAt time.Time

	Rows []ProjectionRow

	// Why was this snapshot taken?
	Reason SnapshotReason
}

type SnapshotReason string

const (
	SnapshotYearRollover SnapshotReason = "year_rollover" // Default range moved to a new financial year
	SnapshotScheduled    SnapshotReason = "scheduled"     // Periodic refresh
	SnapshotManual       SnapshotReason = "manual"        // Requested through the API
)

// IsCurrent reports whether the snapshot still starts at the financial year
// containing now.
func (s Snapshot) IsCurrent(now time.Time) bool {
	return s.Range.From == CurrentFinancialYear(now)
}

// =============================================================================
// SNAPSHOT STORE - Persistence for snapshots
// =============================================================================

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	// GetLatestSnapshot returns ErrSnapshotNotFound when none is stored.
	GetLatestSnapshot(ctx context.Context, propertyID string) (*Snapshot, error)
}
