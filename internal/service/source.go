// Path: internal/service/source.go
package service

import (
	"context"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/metrics"
	"gene-catalog/internal/query"
)

// GeneSource answers read queries. The service picks one per call.
type GeneSource interface {
	Name() string
	Search(ctx context.Context, q query.Query) ([]domain.GeneRecord, int64, error)
	FindByID(ctx context.Context, id string) (*domain.GeneRecord, error)
}

// remoteSource reads through the RecordStore.
type remoteSource struct {
	store RecordStore
}

func (r remoteSource) Name() string { return metrics.SourceRemote }

func (r remoteSource) Search(ctx context.Context, q query.Query) ([]domain.GeneRecord, int64, error) {
	return r.store.Query(ctx, q)
}

func (r remoteSource) FindByID(ctx context.Context, id string) (*domain.GeneRecord, error) {
	return r.store.FindByID(ctx, id)
}

// fixedSource evaluates queries against a read-only in-memory dataset.
// It never fails.
type fixedSource struct {
	records []domain.GeneRecord
}

func newFixedSource(records []domain.GeneRecord) fixedSource {
	own := make([]domain.GeneRecord, len(records))
	copy(own, records)
	return fixedSource{records: own}
}

func (f fixedSource) Name() string { return metrics.SourceFallback }

func (f fixedSource) Search(_ context.Context, q query.Query) ([]domain.GeneRecord, int64, error) {
	matched := query.Filter(f.records, q.Where)
	query.Sort(matched, q.Order)
	return query.Slice(matched, q.Range), int64(len(matched)), nil
}

func (f fixedSource) FindByID(_ context.Context, id string) (*domain.GeneRecord, error) {
	for _, g := range f.records {
		if g.ID == id {
			found := g
			return &found, nil
		}
	}
	return nil, nil
}
