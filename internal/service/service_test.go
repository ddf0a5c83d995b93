package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/events"
	"gene-catalog/internal/fallback"
	"gene-catalog/internal/metrics"
	"gene-catalog/internal/query"
)

// fakeStore is an in-memory RecordStore with switchable failures.
type fakeStore struct {
	configured bool
	available  bool
	failWith   error
	records    map[string]domain.GeneRecord
	queries    []query.Query
}

func newFakeStore(records ...domain.GeneRecord) *fakeStore {
	f := &fakeStore{configured: true, available: true, records: map[string]domain.GeneRecord{}}
	for _, r := range records {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeStore) Configured() bool               { return f.configured }
func (f *fakeStore) Available(context.Context) bool { return f.configured && f.available }

func (f *fakeStore) Query(_ context.Context, q query.Query) ([]domain.GeneRecord, int64, error) {
	f.queries = append(f.queries, q)
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	all := make([]domain.GeneRecord, 0, len(f.records))
	for _, r := range f.records {
		all = append(all, r)
	}
	matched := query.Filter(all, q.Where)
	query.Sort(matched, q.Order)
	return query.Slice(matched, q.Range), int64(len(matched)), nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*domain.GeneRecord, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeStore) Insert(_ context.Context, g domain.GeneRecord) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.records[g.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", domain.ErrRemote, g.ID)
	}
	f.records[g.ID] = g
	return nil
}

func (f *fakeStore) Replace(_ context.Context, g domain.GeneRecord) (bool, error) {
	if _, ok := f.records[g.ID]; !ok {
		return false, nil
	}
	f.records[g.ID] = g
	return true, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeStore) BulkUpsert(_ context.Context, genes []domain.GeneRecord) error {
	for _, g := range genes {
		f.records[g.ID] = g
	}
	return nil
}

func newTestService(store RecordStore, dataset []domain.GeneRecord) (*Service, *events.Broker, *metrics.Metrics) {
	broker := events.NewBroker()
	m := metrics.New(prometheus.NewRegistry())
	clock := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return NewService(store, dataset, broker, m, zerolog.Nop(), WithClock(clock)), broker, m
}

func geneIDs(gs []domain.GeneRecord) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

func TestSearchFallbackReturnsEverything(t *testing.T) {
	ctx := context.Background()
	for name, store := range map[string]RecordStore{
		"NilStore":      nil,
		"NotConfigured": &fakeStore{},
	} {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newTestService(store, fallback.Records())

			res := svc.SearchGenes(ctx, "", domain.SearchFilters{}, 1, 20)
			assert.Equal(t, int64(5), res.Total)
			assert.Len(t, res.Genes, 5)
			assert.Equal(t, 1, res.Page)
			assert.Equal(t, 20, res.PageSize)
		})
	}
}

func TestSearchTotalIndependentOfPageSize(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil, fallback.Records())

	filters := domain.SearchFilters{Domain: "糖苷水解酶"}
	for _, size := range []int{1, 2, 3, 20} {
		res := svc.SearchGenes(ctx, "", filters, 1, size)
		assert.Equal(t, int64(2), res.Total, "pageSize %d", size)
		assert.LessOrEqual(t, len(res.Genes), size)
	}
}

func TestSearchPagesConcatenate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil, fallback.Records())

	full := svc.SearchGenes(ctx, "", domain.SearchFilters{}, 1, 100)
	require.Equal(t, int64(5), full.Total)

	for _, size := range []int{1, 2, 3, 4} {
		var joined []domain.GeneRecord
		pages := int((full.Total + int64(size) - 1) / int64(size))
		for p := 1; p <= pages; p++ {
			res := svc.SearchGenes(ctx, "", domain.SearchFilters{}, p, size)
			joined = append(joined, res.Genes...)
		}
		assert.Equal(t, geneIDs(full.Genes), geneIDs(joined), "pageSize %d", size)
	}

	beyond := svc.SearchGenes(ctx, "", domain.SearchFilters{}, 9, 2)
	assert.NotNil(t, beyond.Genes)
	assert.Empty(t, beyond.Genes)
	assert.Equal(t, int64(5), beyond.Total)
}

func TestSearchNormalisesPaging(t *testing.T) {
	svc, _, _ := newTestService(nil, fallback.Records())
	res := svc.SearchGenes(context.Background(), "", domain.SearchFilters{}, 0, -1)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPageSize, res.PageSize)
}

func TestSearchHugePaging(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil, fallback.Records())

	t.Run("PageFarPastTotal", func(t *testing.T) {
		res := svc.SearchGenes(ctx, "", domain.SearchFilters{}, math.MaxInt/10, 20)
		assert.Empty(t, res.Genes)
		assert.NotNil(t, res.Genes)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, math.MaxInt/10, res.Page)
	})

	t.Run("PageSizeCapped", func(t *testing.T) {
		res := svc.SearchGenes(ctx, "", domain.SearchFilters{}, 4, math.MaxInt/2)
		assert.Empty(t, res.Genes)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, MaxPageSize, res.PageSize)

		first := svc.SearchGenes(ctx, "", domain.SearchFilters{}, 1, math.MaxInt)
		assert.Len(t, first.Genes, 5)
		assert.Equal(t, MaxPageSize, first.PageSize)
	})
}

func TestSearchLengthBucketBoundary(t *testing.T) {
	dataset := []domain.GeneRecord{
		{ID: "short", Name: "a", Length: 499, Completeness: domain.CompletenessComplete},
		{ID: "edge", Name: "b", Length: 500, Completeness: domain.CompletenessComplete},
	}
	svc, _, _ := newTestService(nil, dataset)

	res := svc.SearchGenes(context.Background(), "", domain.SearchFilters{SequenceLength: "<500 bp"}, 1, 20)
	assert.Equal(t, []string{"short"}, geneIDs(res.Genes))
}

func TestSearchEnzymeTypeExample(t *testing.T) {
	a := domain.GeneRecord{ID: "A", Name: "Alkaline protease", EnzymeType: "蛋白酶", Length: 1515, Completeness: domain.CompletenessComplete}
	b := domain.GeneRecord{ID: "B", Name: "Bacillolysin", EnzymeType: "蛋白酶", Length: 1023, Completeness: domain.CompletenessComplete}
	c := domain.GeneRecord{ID: "C", Name: "Amylase", EnzymeType: "淀粉酶", Length: 900, Completeness: domain.CompletenessComplete}
	svc, _, _ := newTestService(nil, []domain.GeneRecord{b, c, a})

	res := svc.SearchGenes(context.Background(), "", domain.SearchFilters{EnzymeType: "蛋白酶"}, 1, 20)
	assert.Equal(t, domain.SearchResult{Genes: []domain.GeneRecord{a, b}, Total: 2, Page: 1, PageSize: 20}, res)
}

func TestSearchUsesRemoteWhenAvailable(t *testing.T) {
	remote := domain.GeneRecord{ID: "P12345", Name: "Remote amylase", EnzymeType: "淀粉酶", Completeness: domain.CompletenessComplete}
	store := newFakeStore(remote)
	svc, _, _ := newTestService(store, fallback.Records())

	res := svc.SearchGenes(context.Background(), "amylase", domain.SearchFilters{}, 2, 10)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, store.queries, 1)
	assert.Equal(t, query.Range{Offset: 10, Limit: 10}, store.queries[0].Range)
	assert.Equal(t, query.DefaultOrder, store.queries[0].Order)
	assert.Equal(t, metrics.SourceRemote, svc.Mode(context.Background()))
}

func TestSearchFallsBackOnRemoteError(t *testing.T) {
	store := newFakeStore()
	store.failWith = fmt.Errorf("%w: connection reset", domain.ErrRemote)
	svc, broker, _ := newTestService(store, fallback.Records())
	degraded := broker.Subscribe(events.TopicStoreDegraded, 4)

	res := svc.SearchGenes(context.Background(), "", domain.SearchFilters{EnzymeType: "果胶酶"}, 1, 20)
	assert.Equal(t, []string{"TLE001"}, geneIDs(res.Genes))
	assert.Len(t, store.queries, 1, "remote is tried exactly once")

	require.Len(t, degraded, 1)
	ev := (<-degraded).Data.(events.Degraded)
	assert.Equal(t, ReasonRemoteError, ev.Reason)
	assert.ErrorIs(t, ev.Err, domain.ErrRemote)
}

func TestSearchFallsBackWhenUnreachable(t *testing.T) {
	store := newFakeStore(domain.GeneRecord{ID: "remote-only", Name: "x"})
	store.available = false
	svc, _, _ := newTestService(store, fallback.Records())

	res := svc.SearchGenes(context.Background(), "", domain.SearchFilters{}, 1, 20)
	assert.Equal(t, int64(5), res.Total)
	assert.Empty(t, store.queries)
	assert.Equal(t, metrics.SourceFallback, svc.Mode(context.Background()))

	// Availability is re-checked on every call.
	store.available = true
	res = svc.SearchGenes(context.Background(), "", domain.SearchFilters{}, 1, 20)
	assert.Equal(t, []string{"remote-only"}, geneIDs(res.Genes))
}

func TestGetGeneByID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil, fallback.Records())

	g := svc.GetGeneByID(ctx, "TLE003")
	require.NotNil(t, g)
	assert.Equal(t, "脂肪酶α/β", g.Name)

	assert.Nil(t, svc.GetGeneByID(ctx, "missing"))
	assert.Nil(t, svc.GetGeneByID(ctx, " "))

	store := newFakeStore()
	store.failWith = errors.New("boom")
	svc, _, _ = newTestService(store, fallback.Records())
	g = svc.GetGeneByID(ctx, "TLE001")
	require.NotNil(t, g, "remote error falls back to the dataset")
	assert.Equal(t, "TLE001", g.ID)
}

func TestGetEnzymeStats(t *testing.T) {
	svc, _, _ := newTestService(nil, fallback.Records())
	stats := svc.GetEnzymeStats(context.Background())

	sum := 0
	for _, s := range stats {
		sum += s.Count
		assert.Equal(t, 1, s.Count)
	}
	assert.Equal(t, 5, sum)
	assert.Len(t, stats, 5)
}

func TestGetEnzymeStatsClassifiesMissingTypes(t *testing.T) {
	store := newFakeStore(
		domain.GeneRecord{ID: "1", Name: "x", ProteinNames: "Polygalacturonase; Pectinase"},
		domain.GeneRecord{ID: "2", Name: "Endoglucanase 3"},
		domain.GeneRecord{ID: "3", Name: "y", EnzymeType: "果胶酶"},
		domain.GeneRecord{ID: "4", Name: "Photosystem II protein"},
	)
	svc, _, _ := newTestService(store, nil)

	stats := svc.GetEnzymeStats(context.Background())
	assert.Equal(t, []domain.EnzymeStat{
		{EnzymeType: "果胶酶", Count: 2},
		{EnzymeType: "other", Count: 1},
		{EnzymeType: "纤维素酶", Count: 1},
	}, stats)
	require.Len(t, store.queries, 1)
	assert.Equal(t, statsFields, store.queries[0].Fields)
}

func TestGetDomainStats(t *testing.T) {
	svc, _, _ := newTestService(nil, fallback.Records())
	stats := svc.GetDomainStats(context.Background())

	require.NotEmpty(t, stats)
	assert.Equal(t, domain.DomainStat{Domain: "糖苷水解酶家族", Count: 2}, stats[0])
	assert.Len(t, stats, 4)
	for i := 1; i < len(stats); i++ {
		assert.GreaterOrEqual(t, stats[i-1].Count, stats[i].Count)
	}
}

func TestMutationsWithoutStore(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeStore{}, fallback.Records())

	added, err := svc.AddGene(ctx, domain.GeneRecord{Name: "x", Completeness: domain.CompletenessComplete})
	assert.Nil(t, added)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	updated, err := svc.UpdateGene(ctx, "TLE001", domain.GeneUpdate{})
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	deleted, err := svc.DeleteGene(ctx, "TLE001")
	assert.False(t, deleted)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	unreachable := newFakeStore()
	unreachable.available = false
	svc, _, _ = newTestService(unreachable, nil)
	_, err = svc.AddGene(ctx, domain.GeneRecord{Name: "x", Completeness: domain.CompletenessComplete})
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func TestAddUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc, broker, _ := newTestService(store, nil)
	created := broker.Subscribe(events.TopicGeneCreated, 1)
	updatedCh := broker.Subscribe(events.TopicGeneUpdated, 1)
	deletedCh := broker.Subscribe(events.TopicGeneDeleted, 1)

	added, err := svc.AddGene(ctx, domain.GeneRecord{Name: "α-淀粉酶", Length: 1234, Completeness: domain.CompletenessComplete})
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), added.CreatedAt)
	assert.Len(t, created, 1)

	_, err = svc.AddGene(ctx, domain.GeneRecord{Name: "bad", Length: -3, Completeness: domain.CompletenessComplete})
	assert.ErrorIs(t, err, domain.ErrInvalidGene)

	length := 1300
	updated, err := svc.UpdateGene(ctx, added.ID, domain.GeneUpdate{Length: &length})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 1300, updated.Length)
	assert.Equal(t, "α-淀粉酶", updated.Name)
	assert.Equal(t, 1300, store.records[added.ID].Length)
	assert.Len(t, updatedCh, 1)

	missing, err := svc.UpdateGene(ctx, "nope", domain.GeneUpdate{Length: &length})
	assert.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := svc.DeleteGene(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, deletedCh, 1)

	ok, err = svc.DeleteGene(ctx, added.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
}
