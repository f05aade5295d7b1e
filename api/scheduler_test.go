package api

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/generic"
	"github.com/warp/depreciation-engine/generic/store"
)

func newTestScheduler(t *testing.T) (*testServer, *SnapshotScheduler) {
	t.Helper()
	s := setupTestHandler(t)
	s.seedFixture(t)
	return s, NewSnapshotScheduler(s.handler)
}

func TestScheduler_FirstRunTakesSnapshot(t *testing.T) {
	s, sched := newTestScheduler(t)
	ctx := context.Background()

	// WHEN: Running with no snapshot stored
	summary := sched.RunOnce(ctx)

	// THEN: One scheduled snapshot over the default range
	assert.Equal(t, RunSummary{Taken: 1}, summary)

	snap, err := s.handler.Store.GetLatestSnapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, generic.SnapshotScheduled, snap.Reason)
	assert.Equal(t, generic.YearRange{From: 2027, To: 2037}, snap.Range)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.handler.Metrics.SnapshotsTaken.WithLabelValues("scheduled")))
}

func TestScheduler_SkipsFreshSnapshot(t *testing.T) {
	_, sched := newTestScheduler(t)
	ctx := context.Background()

	sched.RunOnce(ctx)
	summary := sched.RunOnce(ctx)

	assert.Equal(t, RunSummary{Skipped: 1}, summary)
}

func TestScheduler_YearRollover(t *testing.T) {
	s, sched := newTestScheduler(t)
	ctx := context.Background()
	sched.RunOnce(ctx)

	// GIVEN: The clock crosses 1 July, only a few hours later
	s.handler.Now = func() time.Time { return time.Date(2027, time.July, 1, 2, 0, 0, 0, time.UTC) }
	sched.MaxAge = 365 * 24 * time.Hour

	// WHEN: The next pass runs
	summary := sched.RunOnce(ctx)

	// THEN: A rollover snapshot starting at FY2028 replaces the stale one
	assert.Equal(t, RunSummary{Taken: 1}, summary)

	snap, err := s.handler.Store.GetLatestSnapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, generic.SnapshotYearRollover, snap.Reason)
	assert.Equal(t, 2028, snap.Range.From)
	assert.True(t, snap.IsCurrent(s.handler.Now()))
}

func TestScheduler_RefreshesAfterMaxAge(t *testing.T) {
	s, sched := newTestScheduler(t)
	ctx := context.Background()
	sched.RunOnce(ctx)

	s.handler.Now = func() time.Time { return testNow.Add(25 * time.Hour) }

	summary := sched.RunOnce(ctx)

	assert.Equal(t, RunSummary{Taken: 1}, summary)
	snap, err := s.handler.Store.GetLatestSnapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, generic.SnapshotScheduled, snap.Reason)
	assert.True(t, testNow.Add(25*time.Hour).Equal(snap.TakenAt))
}

func TestScheduler_InvalidRegisterCountsAsFailure(t *testing.T) {
	s, sched := newTestScheduler(t)
	ctx := context.Background()

	// GIVEN: A stored asset the factory rejects
	require.NoError(t, s.handler.Store.SaveAsset(ctx, "p1", factory.AssetRecord{
		ID: "broken", Cost: "lots", EffectiveLife: "5", Method: "diminishing_value", Pool: "individual", PurchaseDate: "2025-07-01",
	}))

	summary := sched.RunOnce(ctx)

	assert.Equal(t, RunSummary{Failed: 1}, summary)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.handler.Metrics.SnapshotErrors))
}

func TestScheduler_StartStop(t *testing.T) {
	s, sched := newTestScheduler(t)
	sched.CheckInterval = time.Hour

	// Start runs one pass immediately; Stop waits for it.
	sched.Start()
	sched.Stop()

	_, err := s.handler.Store.GetLatestSnapshot(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), sched.GetNextRunTime())

	// Stopping twice is harmless.
	sched.Stop()
}

func TestScheduler_Disabled(t *testing.T) {
	s, sched := newTestScheduler(t)
	sched.Enabled = false

	sched.Start()
	sched.Stop()

	_, err := s.handler.Store.GetLatestSnapshot(context.Background(), "p1")
	assert.ErrorIs(t, err, generic.ErrSnapshotNotFound)
	assert.Equal(t, testNow, sched.GetNextRunTime())
}

func TestScheduler_InMemorySnapshots(t *testing.T) {
	s, sched := newTestScheduler(t)
	ctx := context.Background()

	// GIVEN: Snapshots kept in memory instead of SQLite
	mem := store.NewMemory()
	s.handler.Snapshots = mem

	sched.RunOnce(ctx)
	sched.RunOnce(ctx)

	// THEN: One snapshot in memory, none in the database
	assert.Equal(t, 1, mem.Count("p1"))
	_, err := s.handler.Store.GetLatestSnapshot(ctx, "p1")
	assert.ErrorIs(t, err, generic.ErrSnapshotNotFound)
}
