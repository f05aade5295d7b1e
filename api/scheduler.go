/*
scheduler.go - Automated projection snapshot scheduler

PURPOSE:
  Keeps a stored projection for every property. The default projection
  window starts at the current financial year, so every snapshot goes
  stale on July 1; the scheduler notices and takes a fresh one.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Takes a snapshot when a property has none, when its latest snapshot
    starts in an earlier financial year, or when it is older than MaxAge
  - Snapshots are append-only; older ones stay as an audit trail

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - MaxAge: Refresh snapshots older than this (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewSnapshotScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TakeSnapshot, CreateSnapshot (manual snapshot)
  - generic/snapshot.go: Snapshot.IsCurrent
*/
package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/depreciation-engine/generic"
)

// SnapshotScheduler refreshes stored projections in the background.
type SnapshotScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	MaxAge        time.Duration
	Enabled       bool
	Logger        zerolog.Logger

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRun time.Time
}

// RunSummary counts what one pass did.
type RunSummary struct {
	Taken   int
	Skipped int
	Failed  int
}

// NewSnapshotScheduler creates a new scheduler.
func NewSnapshotScheduler(handler *Handler) *SnapshotScheduler {
	return &SnapshotScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		MaxAge:        24 * time.Hour,
		Enabled:       true,
		Logger:        handler.Logger.With().Str("component", "snapshot_scheduler").Logger(),
	}
}

// Start begins the scheduler.
func (s *SnapshotScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info().Msg("disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Info().Dur("check_interval", s.CheckInterval).Msg("started")
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	ticker, stop := s.ticker, s.stop
	s.ticker = nil
	s.mu.Unlock()

	// RunOnce takes mu, so wait without holding it.
	if ticker != nil {
		ticker.Stop()
		close(stop)
		s.wg.Wait()
		s.Logger.Info().Msg("stopped")
	}
}

func (s *SnapshotScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-stop:
			return
		}
	}
}

// RunOnce checks every property and snapshots the ones that need it.
func (s *SnapshotScheduler) RunOnce(ctx context.Context) RunSummary {
	var summary RunSummary
	now := s.Handler.Now()

	properties, err := s.Handler.Store.ListProperties(ctx)
	if err != nil {
		s.Logger.Error().Err(err).Msg("listing properties")
		return summary
	}

	for _, p := range properties {
		reason, due, err := s.due(ctx, p.ID, now)
		if err != nil {
			s.Logger.Error().Err(err).Str("property_id", p.ID).Msg("reading latest snapshot")
			summary.Failed++
			continue
		}
		if !due {
			summary.Skipped++
			continue
		}

		snap, err := s.Handler.TakeSnapshot(ctx, p.ID, reason)
		if err != nil {
			s.Logger.Error().Err(err).Str("property_id", p.ID).Msg("taking snapshot")
			if s.Handler.Metrics != nil {
				s.Handler.Metrics.SnapshotErrors.Inc()
			}
			summary.Failed++
			continue
		}

		s.Logger.Debug().
			Str("property_id", p.ID).
			Str("reason", string(reason)).
			Str("range", snap.Range.String()).
			Msg("snapshot taken")
		summary.Taken++
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()

	if summary.Taken > 0 || summary.Failed > 0 {
		s.Logger.Info().
			Int("taken", summary.Taken).
			Int("skipped", summary.Skipped).
			Int("failed", summary.Failed).
			Msg("snapshot pass completed")
	}
	return summary
}

// due decides whether a property needs a new snapshot, and why.
func (s *SnapshotScheduler) due(ctx context.Context, propertyID string, now time.Time) (generic.SnapshotReason, bool, error) {
	latest, err := s.Handler.Snapshots.GetLatestSnapshot(ctx, propertyID)
	if errors.Is(err, generic.ErrSnapshotNotFound) {
		return generic.SnapshotScheduled, true, nil
	}
	if err != nil {
		return "", false, err
	}

	if !latest.IsCurrent(now) {
		return generic.SnapshotYearRollover, true, nil
	}
	if s.MaxAge > 0 && now.Sub(latest.TakenAt) >= s.MaxAge {
		return generic.SnapshotScheduled, true, nil
	}
	return "", false, nil
}

// GetNextRunTime returns when the next pass is expected.
func (s *SnapshotScheduler) GetNextRunTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun.IsZero() {
		return s.Handler.Now()
	}
	return s.lastRun.Add(s.CheckInterval)
}
