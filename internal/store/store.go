// Package store persists save slots: a serialized flow snapshot plus the
// seed that reproduces the run.
package store

import (
	"time"

	apperrors "roguecore/internal/errors"
)

// ErrSlotNotFound is returned when a slot id has no row.
var ErrSlotNotFound = apperrors.New(apperrors.CodeNotFound, "save slot not found")

// Slot is one saved run.
type Slot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Seed      string    `json:"seed"`
	Snapshot  string    `json:"snapshot"`
	Battles   int       `json:"battles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the save-slot persistence interface.
type Store interface {
	Close() error
	Migrate() error
	SaveSlot(slot *Slot) error
	GetSlot(id string) (*Slot, error)
	ListSlots() ([]Slot, error)
	DeleteSlot(id string) error
}
