// Path: internal/storage/unconfigured.go
package storage

import (
	"context"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/query"
)

// Unconfigured stands in for the remote store when no credentials are set.
// Every call fails with domain.ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Configured() bool               { return false }
func (Unconfigured) Available(context.Context) bool { return false }

func (Unconfigured) Query(context.Context, query.Query) ([]domain.GeneRecord, int64, error) {
	return nil, 0, domain.ErrNotConfigured
}

func (Unconfigured) FindByID(context.Context, string) (*domain.GeneRecord, error) {
	return nil, domain.ErrNotConfigured
}

func (Unconfigured) Insert(context.Context, domain.GeneRecord) error {
	return domain.ErrNotConfigured
}

func (Unconfigured) Replace(context.Context, domain.GeneRecord) (bool, error) {
	return false, domain.ErrNotConfigured
}

func (Unconfigured) Delete(context.Context, string) (bool, error) {
	return false, domain.ErrNotConfigured
}

func (Unconfigured) BulkUpsert(context.Context, []domain.GeneRecord) error {
	return domain.ErrNotConfigured
}

func (Unconfigured) EnsureSchema(context.Context) error { return domain.ErrNotConfigured }

func (Unconfigured) Close(context.Context) error { return nil }
