package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" works for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the slot table if needed.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			seed TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			battles INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_slots_updated_at ON slots(updated_at DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveSlot inserts a new slot (assigning an id if empty) or overwrites an
// existing one.
func (s *SQLiteStore) SaveSlot(slot *Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	_, err := s.db.Exec(`INSERT INTO slots (id, label, seed, snapshot, battles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			seed = excluded.seed,
			snapshot = excluded.snapshot,
			battles = excluded.battles,
			updated_at = excluded.updated_at`,
		slot.ID, slot.Label, slot.Seed, slot.Snapshot, slot.Battles, slot.CreatedAt, slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save slot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSlot(id string) (*Slot, error) {
	var slot Slot
	err := s.db.QueryRow(`SELECT id, label, seed, snapshot, battles, created_at, updated_at
		FROM slots WHERE id = ?`, id).Scan(
		&slot.ID, &slot.Label, &slot.Seed, &slot.Snapshot, &slot.Battles, &slot.CreatedAt, &slot.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

// ListSlots returns slots, most recently updated first.
func (s *SQLiteStore) ListSlots() ([]Slot, error) {
	rows, err := s.db.Query(`SELECT id, label, seed, snapshot, battles, created_at, updated_at
		FROM slots ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var slot Slot
		if err := rows.Scan(&slot.ID, &slot.Label, &slot.Seed, &slot.Snapshot, &slot.Battles, &slot.CreatedAt, &slot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteSlot(id string) error {
	res, err := s.db.Exec(`DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSlotNotFound
	}
	return nil
}
