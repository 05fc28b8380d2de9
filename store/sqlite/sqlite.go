/*
Package sqlite provides a SQLite-backed store for report configuration.

PURPOSE:
  Holds the only state that outlives a report request: the report profiles
  (thresholds, cutoff, date layouts as factory JSON) and the shift cutoff
  overrides. Punches and computed reports are never stored.

KEY TABLES:
  report_profiles:  One row per variant, JSON config, bumped version on save
  shift_overrides:  (site, employee_id) -> cutoff_hour, site matched NOCASE

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; report requests only read.

WAL MODE:
  Opened with WAL so the admin API can write while reports read.

USAGE:
  store, err := sqlite.New("./data/punch.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - factory/profile.go: Profile JSON
  - report/presets.go: Rows seeded into an empty store
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/punch-engine/report"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Store implements profile and override storage using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see a different, empty database.
	db.SetMaxOpenConns(1)

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
	CREATE TABLE IF NOT EXISTS report_profiles (
		variant TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shift_overrides (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL COLLATE NOCASE,
		employee_id TEXT NOT NULL,
		cutoff_hour INTEGER NOT NULL CHECK (cutoff_hour BETWEEN 0 AND 23),
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_overrides_site_employee
		ON shift_overrides(site, employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROFILES
// =============================================================================

// ProfileRecord is a stored profile.
type ProfileRecord struct {
	Variant    string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveProfile inserts or replaces the profile of a variant, bumping its version.
func (s *Store) SaveProfile(ctx context.Context, p ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_profiles (variant, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(variant) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = report_profiles.version + 1,
			updated_at = excluded.updated_at
	`, p.Variant, p.Name, p.ConfigJSON, now, now)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile of a variant. Returns nil if absent.
func (s *Store) GetProfile(ctx context.Context, variant string) (*ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT variant, name, config_json, version, created_at, updated_at
		FROM report_profiles WHERE variant = ?
	`, variant)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every stored profile ordered by variant.
func (s *Store) ListProfiles(ctx context.Context) ([]ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT variant, name, config_json, version, created_at, updated_at
		FROM report_profiles ORDER BY variant
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProfileRecord
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (ProfileRecord, error) {
	var p ProfileRecord
	var createdAt, updatedAt string
	if err := row.Scan(&p.Variant, &p.Name, &p.ConfigJSON, &p.Version, &createdAt, &updatedAt); err != nil {
		return ProfileRecord{}, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// =============================================================================
// SHIFT OVERRIDES
// =============================================================================

// SaveOverride inserts an override, or updates the cutoff when the
// (site, employee) pair already exists. The stored row is returned.
func (s *Store) SaveOverride(ctx context.Context, o report.Override) (report.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.Site = strings.TrimSpace(o.Site)
	o.EmployeeID = strings.TrimSpace(o.EmployeeID)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_overrides (id, site, employee_id, cutoff_hour, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(site, employee_id) DO UPDATE SET cutoff_hour = excluded.cutoff_hour
	`, o.ID, o.Site, o.EmployeeID, o.CutoffHour, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return report.Override{}, fmt.Errorf("failed to save override: %w", err)
	}

	// On conflict the existing row keeps its id.
	row := s.db.QueryRowContext(ctx, `
		SELECT id, site, employee_id, cutoff_hour FROM shift_overrides
		WHERE site = ? AND employee_id = ?
	`, o.Site, o.EmployeeID)
	var saved report.Override
	if err := row.Scan(&saved.ID, &saved.Site, &saved.EmployeeID, &saved.CutoffHour); err != nil {
		return report.Override{}, fmt.Errorf("failed to read back override: %w", err)
	}
	return saved, nil
}

// ListOverrides returns every override ordered by site then employee.
func (s *Store) ListOverrides(ctx context.Context) ([]report.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site, employee_id, cutoff_hour FROM shift_overrides
		ORDER BY site, employee_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []report.Override{}
	for rows.Next() {
		var o report.Override
		if err := rows.Scan(&o.ID, &o.Site, &o.EmployeeID, &o.CutoffHour); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// DeleteOverride removes an override by id.
func (s *Store) DeleteOverride(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM shift_overrides WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOverrides is used to decide whether defaults need seeding.
func (s *Store) CountOverrides(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shift_overrides`).Scan(&n)
	return n, err
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset removes all configuration. Used by tests and the demo reset.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM shift_overrides; DELETE FROM report_profiles;`)
	return err
}
