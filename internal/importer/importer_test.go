package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/metrics"
	"gene-catalog/internal/uniprot"
)

// pagedFetcher serves pages "p0", "p1", ... each linking to the next.
type pagedFetcher struct {
	pages    [][]uniprot.Entry
	failures map[string]int
	calls    []string
}

func (f *pagedFetcher) SearchURL(q string, pageSize int) string { return "p0" }

func (f *pagedFetcher) FetchEntries(ctx context.Context, pageURL string) (*uniprot.FetchResult, error) {
	f.calls = append(f.calls, pageURL)
	if f.failures[pageURL] > 0 {
		f.failures[pageURL]--
		return nil, errors.New("unexpected status code: 503")
	}
	var i int
	if _, err := fmt.Sscanf(pageURL, "p%d", &i); err != nil {
		return nil, err
	}
	next := ""
	if i+1 < len(f.pages) {
		next = fmt.Sprintf("p%d", i+1)
	}
	return &uniprot.FetchResult{Entries: f.pages[i], NextURL: next}, nil
}

type recordingSink struct {
	batches [][]domain.GeneRecord
	err     error
}

func (s *recordingSink) BulkUpsert(ctx context.Context, genes []domain.GeneRecord) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, genes)
	return nil
}

func entry(acc string) uniprot.Entry {
	return uniprot.Entry{
		PrimaryAccession: acc,
		UniProtKBID:      acc + "_TOBAC",
		ProteinDescription: uniprot.ProteinDescription{
			RecommendedName: &uniprot.ProteinName{FullName: uniprot.Value{Value: "Alpha-amylase " + acc}},
		},
		Sequence: uniprot.Sequence{Value: "MK", Length: 2},
	}
}

func threePages() [][]uniprot.Entry {
	return [][]uniprot.Entry{
		{entry("A1"), entry("A2")},
		{entry("B1"), {UniProtKBID: "NOACC"}},
		{entry("C1")},
	}
}

func TestRunFollowsNextLinks(t *testing.T) {
	fetcher := &pagedFetcher{pages: threePages()}
	sink := &recordingSink{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	report, err := New(fetcher, sink, m, zerolog.Nop(), Options{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Report{Pages: 3, Imported: 4, Skipped: 1}, report)
	assert.Equal(t, []string{"p0", "p1", "p2"}, fetcher.calls)
	require.Len(t, sink.batches, 3)
	assert.Equal(t, "A1", sink.batches[0][0].ID)
	assert.Equal(t, "淀粉酶", sink.batches[0][0].EnzymeType)

	expected := `
# HELP gene_catalog_imported_records_total Records upserted by the UniProt importer.
# TYPE gene_catalog_imported_records_total counter
gene_catalog_imported_records_total 4
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gene_catalog_imported_records_total"))
}

func TestRunStopsAtMaxPages(t *testing.T) {
	fetcher := &pagedFetcher{pages: threePages()}
	sink := &recordingSink{}

	report, err := New(fetcher, sink, nil, zerolog.Nop(), Options{MaxPages: 2}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, []string{"p0", "p1"}, fetcher.calls)
}

func TestRunRetriesFetch(t *testing.T) {
	opts := Options{MaxRetries: 3, RetryDelay: time.Millisecond}

	t.Run("RecoversWithinLimit", func(t *testing.T) {
		fetcher := &pagedFetcher{pages: threePages(), failures: map[string]int{"p1": 2}}
		report, err := New(fetcher, &recordingSink{}, nil, zerolog.Nop(), opts).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, report.Pages)
		assert.Len(t, fetcher.calls, 5)
	})

	t.Run("GivesUp", func(t *testing.T) {
		fetcher := &pagedFetcher{pages: threePages(), failures: map[string]int{"p1": 3}}
		report, err := New(fetcher, &recordingSink{}, nil, zerolog.Nop(), opts).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Equal(t, 1, report.Pages)
	})
}

func TestRunStoreFailure(t *testing.T) {
	sink := &recordingSink{err: fmt.Errorf("bulk write: %w", domain.ErrRemote)}
	_, err := New(&pagedFetcher{pages: threePages()}, sink, nil, zerolog.Nop(), Options{}).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &pagedFetcher{pages: threePages(), failures: map[string]int{"p0": 1}}

	_, err := New(fetcher, &recordingSink{}, nil, zerolog.Nop(), Options{RetryDelay: time.Hour}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
