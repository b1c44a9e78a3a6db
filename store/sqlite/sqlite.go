/*
Package sqlite provides the SQLite-backed implementation of the booking
storage interfaces.

PURPOSE:
  Implements booking.Directory, booking.ReservationStore, and
  directory.Store over one database. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  nodes:         The resource hierarchy (buildings, floors, rooms)
  scope_configs: Department-scoped capacity/availability per resource
  reservations:  Committed bookings, one row per contiguous interval

CONFLICT DETECTION:
  CreateReservation is the single point of shared-mutable-state access. It
  opens a write transaction (BEGIN IMMEDIATE via _txlock=immediate, which on
  SQLite's single-writer model is serializable), re-checks for temporal
  overlap with the half-open interval test

      existing.start < candidate.end AND existing.end > candidate.start

  and inserts only if no row matches. A busy/locked failure from the driver
  means a concurrent writer won the race; it is translated into the same
  booking.ErrSlotConflict outcome as a pre-check collision so callers have
  exactly one retry path. Any other driver failure propagates unmodified.

CASCADING DELETES:
  Foreign keys are enabled; deleting a hierarchy node removes its descendant
  nodes, their scope configs, and their reservations in one statement.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging): readers do not
  block, a single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/booking.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := booking.NewService(store, store)

SEE ALSO:
  - booking/types.go:        Interface definitions
  - booking/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/warp/booking-engine/booking"
	"github.com/warp/booking-engine/directory"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Resource hierarchy: buildings > floors > rooms
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		parent_id TEXT REFERENCES nodes(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(parent_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_parent
		ON nodes(parent_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_name
		ON nodes(name);

	-- Department-scoped booking configuration per resource
	CREATE TABLE IF NOT EXISTS scope_configs (
		resource_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		department TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		availability_window TEXT,
		created_at TEXT NOT NULL,
		PRIMARY KEY(resource_id, department)
	);

	-- Committed reservations; no two rows for one resource overlap
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		department TEXT NOT NULL,
		attendee_count INTEGER NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Overlap pre-check (hot path)
	CREATE INDEX IF NOT EXISTS idx_reservations_resource_interval
		ON reservations(resource_id, start_at, end_at);
	-- Listing, creation order descending
	CREATE INDEX IF NOT EXISTS idx_reservations_created_at
		ON reservations(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONFLICT DETECTOR (booking.ReservationStore interface)
// =============================================================================

// CreateReservation re-checks the overlap invariant and inserts the
// candidate atomically. See the package comment for the translation of
// commit-time lock failures into booking.ErrSlotConflict.
func (s *Store) CreateReservation(ctx context.Context, res booking.Reservation) (*booking.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		if isLockContention(err) {
			return nil, &booking.ConflictError{ResourceID: res.ResourceID}
		}
		return nil, fmt.Errorf("failed to begin reservation transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT start_at, end_at FROM reservations
		WHERE resource_id = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at
		LIMIT 1
	`, res.ResourceID, formatTime(res.EndAt), formatTime(res.StartAt))

	var exStart, exEnd string
	switch err := row.Scan(&exStart, &exEnd); {
	case err == nil:
		return nil, &booking.ConflictError{
			ResourceID:    res.ResourceID,
			ExistingStart: parseTime(exStart),
			ExistingEnd:   parseTime(exEnd),
		}
	case errors.Is(err, sql.ErrNoRows):
		// No collision; proceed to insert.
	default:
		return nil, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservations
		(id, resource_id, department, attendee_count, start_at, end_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		res.ID,
		res.ResourceID,
		res.Department,
		res.AttendeeCount,
		formatTime(res.StartAt),
		formatTime(res.EndAt),
		formatTime(res.CreatedAt),
	)
	if err != nil {
		if isLockContention(err) {
			return nil, &booking.ConflictError{ResourceID: res.ResourceID}
		}
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isLockContention(err) {
			return nil, &booking.ConflictError{ResourceID: res.ResourceID}
		}
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	out := res
	return &out, nil
}

// ListReservations returns reservations ordered by creation time descending.
func (s *Store) ListReservations(ctx context.Context, filter booking.ListFilter) ([]booking.Reservation, error) {
	query := `
		SELECT r.id, r.resource_id, r.department, r.attendee_count,
		       r.start_at, r.end_at, r.created_at
		FROM reservations r
	`
	var args []any
	if filter.ResourceName != "" {
		query += ` JOIN nodes n ON n.id = r.resource_id WHERE n.name = ?`
		args = append(args, filter.ResourceName)
	}
	query += ` ORDER BY r.created_at DESC, r.id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []booking.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// GetReservation fetches one reservation by ID.
func (s *Store) GetReservation(ctx context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, resource_id, department, attendee_count, start_at, end_at, created_at
		FROM reservations WHERE id = ?
	`, id)

	var (
		res                     booking.Reservation
		startAt, endAt, created string
	)
	err := row.Scan(&res.ID, &res.ResourceID, &res.Department, &res.AttendeeCount,
		&startAt, &endAt, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reservation: %w", err)
	}
	res.StartAt = parseTime(startAt)
	res.EndAt = parseTime(endAt)
	res.CreatedAt = parseTime(created)
	return &res, nil
}

// DeleteReservation removes a reservation by ID.
func (s *Store) DeleteReservation(ctx context.Context, id booking.ReservationID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return booking.ErrReservationNotFound
	}
	return nil
}

// =============================================================================
// RESOURCE DIRECTORY (booking.Directory interface)
// =============================================================================

// ResolveConfig looks up the scope config for a resource name and department.
func (s *Store) ResolveConfig(ctx context.Context, resourceName, department string) (*booking.ResourceConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.resource_id, c.department, c.capacity, c.availability_window
		FROM scope_configs c
		JOIN nodes n ON n.id = c.resource_id
		WHERE n.name = ? AND c.department = ?
	`, resourceName, department)

	var (
		cfg    booking.ResourceConfig
		window sql.NullString
	)
	err := row.Scan(&cfg.ResourceID, &cfg.Department, &cfg.Capacity, &window)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrUnknownScope
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scope config: %w", err)
	}
	cfg.AvailabilityWindow = window.String
	return &cfg, nil
}

// ResourceExists reports whether any node carries the given name.
func (s *Store) ResourceExists(ctx context.Context, resourceName string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nodes WHERE name = ?`, resourceName,
	).Scan(&count)
	return count > 0, err
}

// =============================================================================
// HIERARCHY STORE (directory.Store interface)
// =============================================================================

// CreateNode inserts a hierarchy node. The parent, when set, must exist.
func (s *Store) CreateNode(ctx context.Context, node directory.Node) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, parent_id, kind, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		node.ID,
		nullString(string(node.ParentID)),
		node.Kind,
		node.Name,
		formatTime(node.CreatedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return booking.ErrResourceNotFound
		}
		return fmt.Errorf("failed to create node: %w", err)
	}
	return nil
}

// RenameNode changes a node's display name.
func (s *Store) RenameNode(ctx context.Context, id booking.ResourceID, name string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE nodes SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename node: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return booking.ErrResourceNotFound
	}
	return nil
}

// DeleteNode removes a node. Foreign keys cascade the delete to descendant
// nodes, their scope configs, and their reservations.
func (s *Store) DeleteNode(ctx context.Context, id booking.ResourceID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return booking.ErrResourceNotFound
	}
	return nil
}

// ListNodes returns the whole hierarchy as a flat list.
func (s *Store) ListNodes(ctx context.Context) ([]directory.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, kind, name, created_at FROM nodes ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []directory.Node
	for rows.Next() {
		var (
			node     directory.Node
			parentID sql.NullString
			created  string
		)
		if err := rows.Scan(&node.ID, &parentID, &node.Kind, &node.Name, &created); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		node.ParentID = booking.ResourceID(parentID.String)
		node.CreatedAt = parseTime(created)
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// PutConfig attaches a department scope to a resource. The window string is
// validated against the grammar here, at attach time, so the pipeline never
// sees an unparseable window.
func (s *Store) PutConfig(ctx context.Context, cfg booking.ResourceConfig) error {
	if cfg.AvailabilityWindow != "" {
		if _, err := booking.ParseWindow(cfg.AvailabilityWindow); err != nil {
			return err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scope_configs (resource_id, department, capacity, availability_window, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		cfg.ResourceID,
		cfg.Department,
		cfg.Capacity,
		nullString(cfg.AvailabilityWindow),
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return booking.ErrDuplicateScope
		}
		if isForeignKeyError(err) {
			return booking.ErrResourceNotFound
		}
		return fmt.Errorf("failed to attach scope config: %w", err)
	}
	return nil
}

// ListConfigs returns all department scopes attached to a resource.
func (s *Store) ListConfigs(ctx context.Context, resourceID booking.ResourceID) ([]booking.ResourceConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_id, department, capacity, availability_window
		FROM scope_configs WHERE resource_id = ? ORDER BY department
	`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scope configs: %w", err)
	}
	defer rows.Close()

	var configs []booking.ResourceConfig
	for rows.Next() {
		var (
			cfg    booking.ResourceConfig
			window sql.NullString
		)
		if err := rows.Scan(&cfg.ResourceID, &cfg.Department, &cfg.Capacity, &window); err != nil {
			return nil, fmt.Errorf("failed to scan scope config: %w", err)
		}
		cfg.AvailabilityWindow = window.String
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func scanReservation(rows *sql.Rows) (booking.Reservation, error) {
	var (
		res                     booking.Reservation
		startAt, endAt, created string
	)
	err := rows.Scan(&res.ID, &res.ResourceID, &res.Department, &res.AttendeeCount,
		&startAt, &endAt, &created)
	if err != nil {
		return res, fmt.Errorf("failed to scan reservation: %w", err)
	}
	res.StartAt = parseTime(startAt)
	res.EndAt = parseTime(endAt)
	res.CreatedAt = parseTime(created)
	return res, nil
}

// Timestamps are stored as second-granularity RFC3339 in UTC, which makes
// string comparison in SQL agree with time comparison in Go.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isLockContention reports whether the driver failed because a concurrent
// writer held the database. SQLITE_BUSY surfaces at BEGIN IMMEDIATE or at
// commit when two write transactions interleave; both translate to the same
// slot-conflict outcome.
func isLockContention(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
