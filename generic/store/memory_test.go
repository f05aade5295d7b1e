package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/depreciation-engine/generic"
	"github.com/warp/depreciation-engine/generic/store"
)

func TestMemory_LatestByTakenAt(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	base := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.SaveSnapshot(ctx, generic.Snapshot{ID: "b", PropertyID: "p1", TakenAt: base.Add(time.Hour)}))
	require.NoError(t, m.SaveSnapshot(ctx, generic.Snapshot{ID: "a", PropertyID: "p1", TakenAt: base}))
	require.NoError(t, m.SaveSnapshot(ctx, generic.Snapshot{ID: "other", PropertyID: "p2", TakenAt: base.Add(2 * time.Hour)}))

	got, err := m.GetLatestSnapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
	assert.Equal(t, 2, m.Count("p1"))
}

func TestMemory_NotFound(t *testing.T) {
	_, err := store.NewMemory().GetLatestSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, generic.ErrSnapshotNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	rows := []generic.ProjectionRow{{FinancialYear: 2027, GrandTotal: decimal.NewFromInt(100)}}
	require.NoError(t, m.SaveSnapshot(ctx, generic.Snapshot{ID: "s", PropertyID: "p", Rows: rows}))
	rows[0].GrandTotal = decimal.Zero

	got, err := m.GetLatestSnapshot(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "100", got.Rows[0].GrandTotal.String())
}
