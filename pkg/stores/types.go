package stores

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Snapshot is one persisted detection result.
type Snapshot struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Facts     string    `json:"facts"`    // JSON blob
	Packages  string    `json:"packages"` // JSON blob
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the snapshot persistence operations.
type Store interface {
	// Init opens the underlying database.
	Init(ctx context.Context) error

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// Close releases the database.
	Close() error

	// SaveSnapshot inserts a snapshot.
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// GetSnapshot returns the snapshot with id, or ErrNotFound.
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)

	// LatestSnapshot returns the most recent snapshot, or ErrNotFound.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)

	// ListSnapshots returns snapshots newest first.
	ListSnapshots(ctx context.Context, limit, offset int) ([]*Snapshot, error)

	// PruneSnapshots deletes snapshots created before the cutoff and returns how many
	// were removed.
	PruneSnapshots(ctx context.Context, before time.Time) (int64, error)
}
