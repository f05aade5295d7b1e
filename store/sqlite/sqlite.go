/*
Package sqlite provides a SQLite-backed asset register and snapshot store.

PURPOSE:
  Persists what the engine needs as input (properties, their depreciating
  assets and capital works) and what it produces (projection snapshots).
  The engine itself never touches storage; callers load a register, build
  an engine.Input and project.

INTERFACES IMPLEMENTED:
  generic.SnapshotStore: Projection snapshots

RECORD FORMAT:
  Assets and capital works are stored as factory records: decimal strings
  in TEXT columns, YYYY-MM-DD dates. Nothing is stored as REAL, so costs
  round-trip exactly.

KEY TABLES:
  properties:           One row per investment property
  assets:               Division 40 assets, FK to properties
  capital_works:        Division 43 works, FK to properties
  projection_snapshots: Frozen projections, newest wins

CASCADES:
  Deleting a property deletes its assets, capital works and snapshots.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Writes that still hit SQLITE_BUSY
  (another process holding the WAL write lock) are retried with
  exponential backoff.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/depreciation.db", sqlite.WithLogger(log))
  if err != nil {
      return err
  }
  defer store.Close()

  reg, err := store.LoadRegister(ctx, propertyID)

SEE ALSO:
  - factory/records.go: Record types and parsing
  - generic/snapshot.go: Snapshot and SnapshotStore
  - api/handlers.go: HTTP callers
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/generic"
)

// Store implements the asset register and generic.SnapshotStore using SQLite.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	retry *retrier
}

var _ generic.SnapshotStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.retry.logger = logger
	}
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=1000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, retry: newRetrier(zerolog.Nop())}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Division 40 assets. Amounts are decimal strings.
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		cost TEXT NOT NULL,
		effective_life TEXT NOT NULL DEFAULT '',
		method TEXT NOT NULL,
		pool TEXT NOT NULL,
		purchase_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assets_property
		ON assets(property_id, purchase_date);

	-- Division 43 capital works
	CREATE TABLE IF NOT EXISTS capital_works (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		construction_cost TEXT NOT NULL,
		construction_date TEXT NOT NULL,
		claim_start_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_capital_works_property
		ON capital_works(property_id, construction_date);

	-- Projection snapshots (append-only)
	CREATE TABLE IF NOT EXISTS projection_snapshots (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		from_fy INTEGER NOT NULL,
		to_fy INTEGER NOT NULL,
		rows_json TEXT NOT NULL,
		reason TEXT NOT NULL,
		taken_at TEXT NOT NULL
	);

	-- Latest snapshot lookup (hot path)
	CREATE INDEX IF NOT EXISTS idx_snapshots_property_taken
		ON projection_snapshots(property_id, taken_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// exec runs a write under the store lock, retrying on SQLITE_BUSY.
func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res sql.Result
	err := s.retry.Retry(ctx, func() error {
		var err error
		res, err = s.db.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

// =============================================================================
// PROPERTY STORE
// =============================================================================

// PropertyRecord is a stored investment property.
type PropertyRecord struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveProperty creates or updates a property.
func (s *Store) SaveProperty(ctx context.Context, p PropertyRecord) error {
	query := `
		INSERT INTO properties (id, name, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.exec(ctx, query, p.ID, p.Name, p.Address, now, now)
	if err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

// GetProperty retrieves a property by ID.
func (s *Store) GetProperty(ctx context.Context, id string) (*PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PropertyRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, address, created_at, updated_at FROM properties WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.Address, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// ListProperties returns all properties ordered by name.
func (s *Store) ListProperties(ctx context.Context) ([]PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, address, created_at, updated_at FROM properties ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []PropertyRecord
	for rows.Next() {
		var p PropertyRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// DeleteProperty removes a property and everything recorded against it.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return requireAffected(res, generic.ErrPropertyNotFound)
}

// =============================================================================
// ASSET STORE
// =============================================================================

// SaveAsset creates or updates an asset under a property. An asset ID that
// already belongs to another property is rejected.
func (s *Store) SaveAsset(ctx context.Context, propertyID string, a factory.AssetRecord) error {
	query := `
		INSERT INTO assets
		(id, property_id, description, cost, effective_life, method, pool, purchase_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			cost = excluded.cost,
			effective_life = excluded.effective_life,
			method = excluded.method,
			pool = excluded.pool,
			purchase_date = excluded.purchase_date
		WHERE assets.property_id = excluded.property_id
	`

	res, err := s.exec(ctx, query,
		a.ID, propertyID, a.Description, a.Cost, a.EffectiveLife,
		a.Method, a.Pool, a.PurchaseDate,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrPropertyNotFound
		}
		return fmt.Errorf("failed to save asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: asset %s", generic.ErrDuplicateID, a.ID)
	}
	return nil
}

// GetAsset retrieves one asset of a property.
func (s *Store) GetAsset(ctx context.Context, propertyID, assetID string) (*factory.AssetRecord, error) {
	assets, err := s.queryAssets(ctx,
		assetSelect+" WHERE property_id = ? AND id = ?", propertyID, assetID)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, generic.ErrAssetNotFound
	}
	return &assets[0], nil
}

// ListAssets returns a property's assets in purchase order.
func (s *Store) ListAssets(ctx context.Context, propertyID string) ([]factory.AssetRecord, error) {
	return s.queryAssets(ctx,
		assetSelect+" WHERE property_id = ? ORDER BY purchase_date, id", propertyID)
}

// DeleteAsset removes an asset from a property.
func (s *Store) DeleteAsset(ctx context.Context, propertyID, assetID string) error {
	res, err := s.exec(ctx, "DELETE FROM assets WHERE property_id = ? AND id = ?", propertyID, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return requireAffected(res, generic.ErrAssetNotFound)
}

const assetSelect = `
	SELECT id, description, cost, effective_life, method, pool, purchase_date
	FROM assets`

func (s *Store) queryAssets(ctx context.Context, query string, args ...any) ([]factory.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := []factory.AssetRecord{}
	for rows.Next() {
		var a factory.AssetRecord
		if err := rows.Scan(&a.ID, &a.Description, &a.Cost, &a.EffectiveLife, &a.Method, &a.Pool, &a.PurchaseDate); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// =============================================================================
// CAPITAL WORKS STORE
// =============================================================================

// SaveCapitalWork creates or updates a capital work under a property.
func (s *Store) SaveCapitalWork(ctx context.Context, propertyID string, w factory.CapitalWorkRecord) error {
	query := `
		INSERT INTO capital_works
		(id, property_id, description, construction_cost, construction_date, claim_start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			construction_cost = excluded.construction_cost,
			construction_date = excluded.construction_date,
			claim_start_date = excluded.claim_start_date
		WHERE capital_works.property_id = excluded.property_id
	`

	claimStart := w.ClaimStartDate
	if claimStart == "" {
		claimStart = w.ConstructionDate
	}

	res, err := s.exec(ctx, query,
		w.ID, propertyID, w.Description, w.ConstructionCost,
		w.ConstructionDate, claimStart,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrPropertyNotFound
		}
		return fmt.Errorf("failed to save capital work: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: capital work %s", generic.ErrDuplicateID, w.ID)
	}
	return nil
}

// ListCapitalWorks returns a property's capital works in construction order.
func (s *Store) ListCapitalWorks(ctx context.Context, propertyID string) ([]factory.CapitalWorkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, construction_cost, construction_date, claim_start_date
		FROM capital_works
		WHERE property_id = ?
		ORDER BY construction_date, id`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query capital works: %w", err)
	}
	defer rows.Close()

	works := []factory.CapitalWorkRecord{}
	for rows.Next() {
		var w factory.CapitalWorkRecord
		if err := rows.Scan(&w.ID, &w.Description, &w.ConstructionCost, &w.ConstructionDate, &w.ClaimStartDate); err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	return works, rows.Err()
}

// DeleteCapitalWork removes a capital work from a property.
func (s *Store) DeleteCapitalWork(ctx context.Context, propertyID, workID string) error {
	res, err := s.exec(ctx, "DELETE FROM capital_works WHERE property_id = ? AND id = ?", propertyID, workID)
	if err != nil {
		return fmt.Errorf("failed to delete capital work: %w", err)
	}
	return requireAffected(res, generic.ErrCapitalWorkNotFound)
}

// LoadRegister returns a property's full register as factory records.
func (s *Store) LoadRegister(ctx context.Context, propertyID string) (factory.RegisterJSON, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return factory.RegisterJSON{}, err
	}

	assets, err := s.ListAssets(ctx, propertyID)
	if err != nil {
		return factory.RegisterJSON{}, err
	}
	works, err := s.ListCapitalWorks(ctx, propertyID)
	if err != nil {
		return factory.RegisterJSON{}, err
	}
	return factory.RegisterJSON{Assets: assets, CapitalWorks: works}, nil
}

// =============================================================================
// SNAPSHOT STORE (generic.SnapshotStore interface)
// =============================================================================

// snapshotTimeLayout is fixed width so taken_at sorts correctly as TEXT.
const snapshotTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SaveSnapshot stores a projection snapshot. A missing ID or TakenAt is
// filled in.
func (s *Store) SaveSnapshot(ctx context.Context, snap generic.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}

	rowsJSON, err := json.Marshal(snap.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot rows: %w", err)
	}

	query := `
		INSERT INTO projection_snapshots (id, property_id, from_fy, to_fy, rows_json, reason, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.exec(ctx, query,
		snap.ID, snap.PropertyID, snap.Range.From, snap.Range.To,
		string(rowsJSON), string(snap.Reason),
		snap.TakenAt.UTC().Format(snapshotTimeLayout),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrPropertyNotFound
		}
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: snapshot %s", generic.ErrDuplicateID, snap.ID)
		}
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a property.
func (s *Store) GetLatestSnapshot(ctx context.Context, propertyID string) (*generic.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap generic.Snapshot
	var rowsJSON, reason, takenAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, property_id, from_fy, to_fy, rows_json, reason, taken_at
		FROM projection_snapshots
		WHERE property_id = ?
		ORDER BY taken_at DESC
		LIMIT 1`,
		propertyID,
	).Scan(&snap.ID, &snap.PropertyID, &snap.Range.From, &snap.Range.To, &rowsJSON, &reason, &takenAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rowsJSON), &snap.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", snap.ID, err)
	}
	snap.Reason = generic.SnapshotReason(reason)
	snap.TakenAt, _ = time.Parse(snapshotTimeLayout, takenAt)
	return &snap, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"projection_snapshots", "assets", "capital_works", "properties"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
