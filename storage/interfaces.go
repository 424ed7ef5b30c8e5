package storage

import (
	"context"

	"github.com/poiesic/resolvit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// RecordRepository provides operations for managing address records.
type RecordRepository interface {
	Repository
	// PutRecords inserts or replaces one or more address records.
	// For records with ID=0, derives a content-based ID from the display
	// string, so storing the same address twice is idempotent.
	// Returns the records with IDs populated.
	PutRecords(ctx context.Context, records ...*core.AddressRecord) ([]*core.AddressRecord, error)

	// DeleteRecords removes address records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error

	// GetRecord retrieves a single address record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.AddressRecord, error)

	// GetRecords retrieves multiple address records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.AddressRecord, error)

	// CountRecords returns the number of stored address records.
	CountRecords(ctx context.Context) (uint64, error)

	// ForEachRecord streams every stored record to fn in ID order.
	// Iteration stops on the first error returned by fn or when ctx ends.
	ForEachRecord(ctx context.Context, fn func(record *core.AddressRecord) error) error
}

// CheckpointRepository persists index build checkpoints.
type CheckpointRepository interface {
	// SaveCheckpoint stores the checkpoint for its kind, replacing any
	// previous one. Updates the UpdatedAt timestamp automatically.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a build kind.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, kind string) (*core.Checkpoint, error)
}
