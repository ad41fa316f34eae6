package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gymtrack/internal/adherence"
	"gymtrack/internal/models"
)

// Setting keys.
const (
	KeyToken     = "token"
	KeyLastMonth = "last_month"
	KeyBaseURL   = "base_url"
)

// Store is the local session database: the bearer token, the last-viewed
// month, and an offline cache of confirmed adherence facts so the calendar
// renders before the first refresh lands.
//
// Store is not safe for concurrent use by multiple gymtrack processes sharing
// the same path.
type Store struct {
	path string
	db   *sql.DB
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	s := &Store{path: path, db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	// No migrations machinery: the schema is tiny and additive, created
	// idempotently on every open.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fact_cache (
			day TEXT NOT NULL,
			habit_id TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (day, habit_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) DB() *sql.DB { return s.db }

// Get returns the setting value for key, or "" when unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// SaveMonthFacts replaces the cached facts for one month (YYYY-MM) with the
// given set. Called after each merge so the cache tracks confirmed state.
func (s *Store) SaveMonthFacts(month string, facts map[adherence.Key]models.TriState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM fact_cache WHERE day LIKE ?", month+"-%"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO fact_cache (day, habit_id, value, updated_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range facts {
		if v == models.TriUnset {
			continue
		}
		if _, err := stmt.Exec(k.Day, k.HabitID, string(v), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadMonthFacts reads the cached facts for one month (YYYY-MM).
func (s *Store) LoadMonthFacts(month string) (map[adherence.Key]models.TriState, error) {
	rows, err := s.db.Query("SELECT day, habit_id, value FROM fact_cache WHERE day LIKE ?", month+"-%")
	if err != nil {
		return nil, fmt.Errorf("failed to read fact cache: %w", err)
	}
	defer rows.Close()

	facts := make(map[adherence.Key]models.TriState)
	for rows.Next() {
		var day, habitID, value string
		if err := rows.Scan(&day, &habitID, &value); err != nil {
			return nil, err
		}
		v := models.TriState(value)
		if !v.Valid() || v == models.TriUnset {
			continue
		}
		facts[adherence.Key{Day: day, HabitID: habitID}] = v
	}
	return facts, rows.Err()
}

// Wipe clears the token and the fact cache. Called on logout and when the
// backend invalidates the session.
func (s *Store) Wipe() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settings WHERE key = ?", KeyToken); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM fact_cache"); err != nil {
		return err
	}
	return tx.Commit()
}
