/*
Package sqlite provides a SQLite-backed implementation of booking.Store.

PURPOSE:
  Persists pricing configurations, departures, resource assignments,
  bookings and monitor runs. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  pricing_configs:      JSON configurations (versioned on every save)
  departures:           Scheduled tour runs with seat counters
  resource_assignments: Vehicle and guide time blocks
  bookings:             Confirmed seats with frozen prices
  availability_runs:    Monitor verdicts

CAPACITY:
  CreateBooking increments booked_count with a guarded UPDATE
  (booked_count + seats <= max_capacity) and inserts the booking in the
  same transaction. Two concurrent bookings for the last seat cannot both
  succeed.

TIME FORMAT:
  Instants are stored as fixed-width UTC strings so that text ordering is
  time ordering. Calendar days are stored as YYYY-MM-DD.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/tours.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := booking.NewService(store, booking.Options{...})

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - booking/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/generic"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements booking.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ booking.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
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
	-- Pricing configurations (versioned)
	CREATE TABLE IF NOT EXISTS pricing_configs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		currency TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Departures
	CREATE TABLE IF NOT EXISTS departures (
		id TEXT PRIMARY KEY,
		tour_name TEXT NOT NULL,
		pricing_config_id TEXT NOT NULL REFERENCES pricing_configs(id),
		starts_at TEXT NOT NULL,
		day TEXT NOT NULL,
		max_capacity INTEGER NOT NULL,
		booked_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_departures_day
		ON departures(day, starts_at);

	-- Resource assignments (vehicle and guide blocks)
	CREATE TABLE IF NOT EXISTS resource_assignments (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		resource_id TEXT NOT NULL,
		departure_id TEXT,
		day TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Day snapshot for availability checks (hot path)
	CREATE INDEX IF NOT EXISTS idx_assignments_day
		ON resource_assignments(day, start_at);
	CREATE INDEX IF NOT EXISTS idx_assignments_resource_day
		ON resource_assignments(kind, resource_id, day);

	-- Bookings
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		departure_id TEXT NOT NULL REFERENCES departures(id),
		adult INTEGER NOT NULL DEFAULT 0,
		child INTEGER NOT NULL DEFAULT 0,
		infant INTEGER NOT NULL DEFAULT 0,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		seats INTEGER NOT NULL,
		subtotal TEXT NOT NULL,
		modifiers TEXT NOT NULL,
		taxes TEXT NOT NULL,
		total TEXT NOT NULL,
		currency TEXT NOT NULL,
		season_id TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_departure
		ON bookings(departure_id, created_at);

	-- Availability monitor runs
	CREATE TABLE IF NOT EXISTS availability_runs (
		id TEXT PRIMARY KEY,
		departure_id TEXT NOT NULL,
		day TEXT NOT NULL,
		status TEXT NOT NULL,
		conflicts_json TEXT,
		checked_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_availability_runs_checked
		ON availability_runs(checked_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PRICING CONFIG STORE
// =============================================================================

// SavePricingConfig upserts a configuration. Updates bump the version.
func (s *Store) SavePricingConfig(ctx context.Context, rec booking.PricingConfigRecord) (booking.PricingConfigRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO pricing_configs (id, name, currency, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			currency = excluded.currency,
			config_json = excluded.config_json,
			version = pricing_configs.version + 1,
			updated_at = excluded.updated_at
	`

	now := formatTime(time.Now())
	if _, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, string(rec.Currency), rec.ConfigJSON, now, now,
	); err != nil {
		return booking.PricingConfigRecord{}, fmt.Errorf("failed to save pricing config: %w", err)
	}

	return s.getPricingConfig(ctx, rec.ID)
}

// GetPricingConfig retrieves a configuration by ID.
func (s *Store) GetPricingConfig(ctx context.Context, id string) (booking.PricingConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getPricingConfig(ctx, id)
}

func (s *Store) getPricingConfig(ctx context.Context, id string) (booking.PricingConfigRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, config_json, version, created_at, updated_at FROM pricing_configs WHERE id = ?",
		id,
	)
	rec, err := scanPricingConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("pricing config %s: %w", id, generic.ErrNotFound)
	}
	return rec, err
}

// ListPricingConfigs returns all configurations.
func (s *Store) ListPricingConfigs(ctx context.Context) ([]booking.PricingConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, currency, config_json, version, created_at, updated_at FROM pricing_configs ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.PricingConfigRecord
	for rows.Next() {
		rec, err := scanPricingConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanPricingConfig(sc scanner) (booking.PricingConfigRecord, error) {
	var rec booking.PricingConfigRecord
	var currency, createdAt, updatedAt string
	if err := sc.Scan(&rec.ID, &rec.Name, &currency, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
		return rec, err
	}
	rec.Currency = generic.Currency(currency)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}

// =============================================================================
// DEPARTURE STORE
// =============================================================================

// CreateDeparture inserts a departure.
func (s *Store) CreateDeparture(ctx context.Context, d booking.Departure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO departures (id, tour_name, pricing_config_id, starts_at, day, max_capacity, booked_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID, d.TourName, d.PricingConfigID, formatTime(d.StartsAt), d.Date().String(),
		d.MaxCapacity, d.BookedCount, formatTime(d.CreatedAt),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("departure %s: %w", d.ID, generic.ErrDuplicateID)
	}
	if isForeignKeyError(err) {
		return fmt.Errorf("pricing config %s: %w", d.PricingConfigID, generic.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create departure: %w", err)
	}
	return nil
}

const departureColumns = "id, tour_name, pricing_config_id, starts_at, max_capacity, booked_count, created_at"

// GetDeparture retrieves a departure by ID.
func (s *Store) GetDeparture(ctx context.Context, id string) (booking.Departure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+departureColumns+" FROM departures WHERE id = ?", id)
	d, err := scanDeparture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("departure %s: %w", id, generic.ErrNotFound)
	}
	return d, err
}

// ListDepartures returns departures by day window, ordered by start.
func (s *Store) ListDepartures(ctx context.Context, from, to generic.Date) ([]booking.Departure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if !from.IsZero() {
		where = append(where, "day >= ?")
		args = append(args, from.String())
	}
	if !to.IsZero() {
		where = append(where, "day <= ?")
		args = append(args, to.String())
	}

	query := "SELECT " + departureColumns + " FROM departures"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY starts_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query departures: %w", err)
	}
	defer rows.Close()

	var out []booking.Departure
	for rows.Next() {
		d, err := scanDeparture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDeparture(sc scanner) (booking.Departure, error) {
	var d booking.Departure
	var startsAt, createdAt string
	if err := sc.Scan(&d.ID, &d.TourName, &d.PricingConfigID, &startsAt, &d.MaxCapacity, &d.BookedCount, &createdAt); err != nil {
		return d, err
	}
	d.StartsAt = parseTime(startsAt)
	d.CreatedAt = parseTime(createdAt)
	return d, nil
}

// =============================================================================
// ASSIGNMENT STORE
// =============================================================================

// SaveAssignment upserts a resource block.
func (s *Store) SaveAssignment(ctx context.Context, a booking.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resource_assignments (id, kind, resource_id, departure_id, day, start_at, end_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			resource_id = excluded.resource_id,
			departure_id = excluded.departure_id,
			day = excluded.day,
			start_at = excluded.start_at,
			end_at = excluded.end_at
	`,
		a.ID, string(a.Kind), a.ResourceID, nullString(a.DepartureID), a.Date.String(),
		formatTime(a.Start), formatTime(a.End), formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes a block.
func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM resource_assignments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("assignment %s: %w", id, generic.ErrNotFound)
	}
	return nil
}

// ListAssignmentsByDate returns a day's blocks ordered by start.
func (s *Store) ListAssignmentsByDate(ctx context.Context, date generic.Date) ([]booking.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, resource_id, departure_id, day, start_at, end_at, created_at
		FROM resource_assignments
		WHERE day = ?
		ORDER BY start_at, id
	`, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var out []booking.Assignment
	for rows.Next() {
		var (
			a                                    booking.Assignment
			kind, day, startAt, endAt, createdAt string
			departureID                          sql.NullString
		)
		if err := rows.Scan(&a.ID, &kind, &a.ResourceID, &departureID, &day, &startAt, &endAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Kind = availability.ResourceKind(kind)
		a.DepartureID = departureID.String
		a.Date, _ = generic.ParseDate(day)
		a.Start = parseTime(startAt)
		a.End = parseTime(endAt)
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// BOOKING STORE
// =============================================================================

// CreateBooking takes the seats and inserts the booking in one transaction.
func (s *Store) CreateBooking(ctx context.Context, b booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE departures SET booked_count = booked_count + ?
		WHERE id = ? AND booked_count + ? <= max_capacity
	`, b.Seats, b.DepartureID, b.Seats)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var maxCap, booked int
		err := tx.QueryRowContext(ctx, "SELECT max_capacity, booked_count FROM departures WHERE id = ?", b.DepartureID).Scan(&maxCap, &booked)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("departure %s: %w", b.DepartureID, generic.ErrNotFound)
		}
		if err != nil {
			return err
		}
		remaining := availability.CapacityInfo{MaxCapacity: maxCap, BookedCount: booked}.Remaining()
		return fmt.Errorf("%w: departure %s has %d seats left", generic.ErrInsufficientCapacity, b.DepartureID, remaining)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, departure_id, adult, child, infant, is_private, seats,
			subtotal, modifiers, taxes, total, currency, season_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.DepartureID, b.Pax.Adult, b.Pax.Child, b.Pax.Infant, b.IsPrivate, b.Seats,
		b.Subtotal, b.Modifiers, b.Taxes, b.Total, string(b.Currency), nullString(b.SeasonID),
		string(b.Status), formatTime(b.CreatedAt),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("booking %s: %w", b.ID, generic.ErrDuplicateID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return tx.Commit()
}

const bookingColumns = `id, departure_id, adult, child, infant, is_private, seats,
	subtotal, modifiers, taxes, total, currency, season_id, status, created_at`

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("booking %s: %w", id, generic.ErrNotFound)
	}
	return b, err
}

// ListBookingsByDeparture returns a departure's bookings, oldest first.
func (s *Store) ListBookingsByDeparture(ctx context.Context, departureID string) ([]booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE departure_id = ? ORDER BY created_at, id",
		departureID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(sc scanner) (booking.Booking, error) {
	var (
		b                          booking.Booking
		currency, status, created  string
		seasonID                   sql.NullString
		subtotal, mods, taxes, tot decimal.Decimal
	)
	if err := sc.Scan(
		&b.ID, &b.DepartureID, &b.Pax.Adult, &b.Pax.Child, &b.Pax.Infant, &b.IsPrivate, &b.Seats,
		&subtotal, &mods, &taxes, &tot, &currency, &seasonID, &status, &created,
	); err != nil {
		return b, err
	}
	b.Subtotal, b.Modifiers, b.Taxes, b.Total = subtotal, mods, taxes, tot
	b.Currency = generic.Currency(currency)
	b.SeasonID = seasonID.String
	b.Status = booking.BookingStatus(status)
	b.CreatedAt = parseTime(created)
	return b, nil
}

// =============================================================================
// AVAILABILITY RUNS
// =============================================================================

// SaveAvailabilityRun records a monitor verdict.
func (s *Store) SaveAvailabilityRun(ctx context.Context, r booking.AvailabilityRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conflicts, err := json.Marshal(r.Conflicts)
	if err != nil {
		return fmt.Errorf("failed to encode conflicts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO availability_runs (id, departure_id, day, status, conflicts_json, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.DepartureID, r.Date.String(), string(r.Status), string(conflicts), formatTime(r.CheckedAt))
	if err != nil {
		return fmt.Errorf("failed to save availability run: %w", err)
	}
	return nil
}

// ListAvailabilityRuns returns runs newest first.
func (s *Store) ListAvailabilityRuns(ctx context.Context, limit int) ([]booking.AvailabilityRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, departure_id, day, status, conflicts_json, checked_at
		FROM availability_runs
		ORDER BY checked_at DESC, rowid DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []booking.AvailabilityRun
	for rows.Next() {
		var (
			r                      booking.AvailabilityRun
			day, status, checkedAt string
			conflictsJSON          sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.DepartureID, &day, &status, &conflictsJSON, &checkedAt); err != nil {
			return nil, err
		}
		r.Date, _ = generic.ParseDate(day)
		r.Status = availability.Status(status)
		r.CheckedAt = parseTime(checkedAt)
		r.Conflicts = []string{}
		if conflictsJSON.Valid && conflictsJSON.String != "" {
			if err := json.Unmarshal([]byte(conflictsJSON.String), &r.Conflicts); err != nil {
				return nil, fmt.Errorf("run %s: failed to decode conflicts: %w", r.ID, err)
			}
			if r.Conflicts == nil {
				r.Conflicts = []string{}
			}
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"availability_runs", "bookings", "resource_assignments", "departures", "pricing_configs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
