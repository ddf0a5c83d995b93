// Path: internal/importer/importer.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/metrics"
	"gene-catalog/internal/uniprot"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 10 * time.Second
)

// Fetcher fetches one page of UniProt entries.
type Fetcher interface {
	SearchURL(q string, pageSize int) string
	FetchEntries(ctx context.Context, pageURL string) (*uniprot.FetchResult, error)
}

// Sink receives imported records.
type Sink interface {
	BulkUpsert(ctx context.Context, genes []domain.GeneRecord) error
}

// Options bounds an import run.
type Options struct {
	Query      string
	PageSize   int
	MaxPages   int
	MaxRetries int
	RetryDelay time.Duration
}

// Report summarises a finished run.
type Report struct {
	Pages    int
	Imported int
	Skipped  int
}

// Importer copies UniProt entries into the remote gene store.
type Importer struct {
	fetcher Fetcher
	sink    Sink
	metrics *metrics.Metrics
	log     zerolog.Logger
	opts    Options
}

// New creates an importer.
func New(fetcher Fetcher, sink Sink, m *metrics.Metrics, logger zerolog.Logger, opts Options) *Importer {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Importer{
		fetcher: fetcher,
		sink:    sink,
		metrics: m,
		log:     logger.With().Str("component", "importer").Logger(),
		opts:    opts,
	}
}

// Run walks the paginated search until no next link remains or
// MaxPages pages were stored. MaxPages <= 0 means no limit.
func (im *Importer) Run(ctx context.Context) (Report, error) {
	var report Report
	pageURL := im.fetcher.SearchURL(im.opts.Query, im.opts.PageSize)
	im.log.Info().Str("url", pageURL).Msg("Starting import")

	for pageURL != "" {
		if im.opts.MaxPages > 0 && report.Pages >= im.opts.MaxPages {
			im.log.Info().Int("max_pages", im.opts.MaxPages).Msg("Page limit reached")
			break
		}

		result, err := im.fetch(ctx, pageURL)
		if err != nil {
			return report, err
		}
		report.Pages++

		genes := make([]domain.GeneRecord, 0, len(result.Entries))
		for _, e := range result.Entries {
			g := e.ToGeneRecord()
			if err := g.Validate(); err != nil || g.ID == "" {
				im.log.Debug().Err(err).Str("accession", e.PrimaryAccession).Msg("Skipping entry")
				report.Skipped++
				continue
			}
			genes = append(genes, g)
		}

		if len(genes) > 0 {
			if err := im.sink.BulkUpsert(ctx, genes); err != nil {
				return report, fmt.Errorf("failed to store page %d: %w", report.Pages, err)
			}
			report.Imported += len(genes)
			im.metrics.Imported(len(genes))
		}
		im.log.Info().Int("page", report.Pages).Int("stored", len(genes)).Msg("Page imported")

		pageURL = result.NextURL
	}

	im.log.Info().
		Int("pages", report.Pages).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Msg("Import completed")
	return report, nil
}

// fetch retries a page up to MaxRetries times.
func (im *Importer) fetch(ctx context.Context, pageURL string) (*uniprot.FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= im.opts.MaxRetries; attempt++ {
		result, err := im.fetcher.FetchEntries(ctx, pageURL)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
		im.log.Warn().Err(err).Int("attempt", attempt).Str("url", pageURL).Msg("Fetch failed")

		if attempt == im.opts.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(im.opts.RetryDelay):
		}
	}
	return nil, fmt.Errorf("giving up on %s after %d attempts: %w", pageURL, im.opts.MaxRetries, lastErr)
}
