// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/depreciation-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	snapshots map[string][]generic.Snapshot // by property, oldest first
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string][]generic.Snapshot),
	}
}

var _ generic.SnapshotStore = (*Memory)(nil)

// SaveSnapshot stores a copy of snap. Snapshots are append-only.
func (m *Memory) SaveSnapshot(_ context.Context, snap generic.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap.Rows = append([]generic.ProjectionRow(nil), snap.Rows...)
	snaps := m.snapshots[snap.PropertyID]

	i := sort.Search(len(snaps), func(i int) bool {
		return snaps[i].TakenAt.After(snap.TakenAt)
	})

	snaps = append(snaps, generic.Snapshot{})
	copy(snaps[i+1:], snaps[i:])
	snaps[i] = snap
	m.snapshots[snap.PropertyID] = snaps
	return nil
}

// GetLatestSnapshot returns the most recently taken snapshot for a property.
func (m *Memory) GetLatestSnapshot(_ context.Context, propertyID string) (*generic.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.snapshots[propertyID]
	if len(snaps) == 0 {
		return nil, generic.ErrSnapshotNotFound
	}
	latest := snaps[len(snaps)-1]
	latest.Rows = append([]generic.ProjectionRow(nil), latest.Rows...)
	return &latest, nil
}

// Count returns how many snapshots are stored for a property.
func (m *Memory) Count(propertyID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots[propertyID])
}
