// Path: internal/service/storage.go
package service

import (
	"context"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/query"
)

// RecordStore defines the interface for the remote gene table.
type RecordStore interface {
	// Configured is false when the store has no usable credentials.
	// It never changes for the lifetime of a store.
	Configured() bool

	// Available reports whether the store is configured and answers a ping.
	Available(ctx context.Context) bool

	// Query returns the requested window of matching records and the
	// number of matches before the window was applied.
	Query(ctx context.Context, q query.Query) ([]domain.GeneRecord, int64, error)

	// FindByID retrieves a single record. It returns nil, nil when absent.
	FindByID(ctx context.Context, id string) (*domain.GeneRecord, error)

	// Insert stores a new record.
	Insert(ctx context.Context, gene domain.GeneRecord) error

	// Replace overwrites an existing record. It reports false when no
	// record has the gene's ID.
	Replace(ctx context.Context, gene domain.GeneRecord) (bool, error)

	// Delete removes a record. It reports false when nothing was deleted.
	Delete(ctx context.Context, id string) (bool, error)

	// BulkUpsert inserts or replaces many records in one round trip.
	BulkUpsert(ctx context.Context, genes []domain.GeneRecord) error
}
