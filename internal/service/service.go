// Path: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/events"
	"gene-catalog/internal/metrics"
	"gene-catalog/internal/query"
)

const (
	// DefaultPageSize applies when a caller asks for a non-positive page size.
	DefaultPageSize = 20
	// MaxPageSize bounds a single page.
	MaxPageSize = 1000

	// Reasons a read was served from the fallback dataset.
	ReasonNotConfigured = "not_configured"
	ReasonUnavailable   = "unavailable"
	ReasonRemoteError   = "remote_error"
)

// Operation names used in logs, metrics and events.
const (
	opSearch      = "search"
	opGetByID     = "get_by_id"
	opEnzymeStats = "enzyme_stats"
	opDomainStats = "domain_stats"
	opAdd         = "add"
	opUpdate      = "update"
	opDelete      = "delete"
)

// Service is the gene query service. It owns no state besides its
// collaborators; the remote-or-fallback decision is made on every call.
type Service struct {
	store   RecordStore
	fixed   fixedSource
	broker  *events.Broker
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the gene query service. store may be nil, in which
// case every read is served from dataset and every write fails.
func NewService(
	store RecordStore,
	dataset []domain.GeneRecord,
	broker *events.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:   store,
		fixed:   newFixedSource(dataset),
		broker:  broker,
		metrics: m,
		log:     logger.With().Str("component", "gene_service").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// source picks the remote store when it is configured and reachable.
func (s *Service) source(ctx context.Context, op string) GeneSource {
	switch {
	case s.store == nil || !s.store.Configured():
		s.degrade(op, ReasonNotConfigured, domain.ErrNotConfigured)
		return s.fixed
	case !s.store.Available(ctx):
		s.degrade(op, ReasonUnavailable, fmt.Errorf("%w: ping failed", domain.ErrRemote))
		return s.fixed
	}
	return remoteSource{store: s.store}
}

// degrade records that op is being answered from the fallback dataset.
func (s *Service) degrade(op, reason string, err error) {
	s.metrics.StoreError(op, reason)
	s.broker.Publish(events.TopicStoreDegraded, events.Degraded{Op: op, Reason: reason, Err: err})

	ev := s.log.Warn()
	if reason == ReasonNotConfigured {
		ev = s.log.Debug()
	}
	ev.Err(err).Str("op", op).Str("reason", reason).Msg("Serving from fallback dataset")
}

// read runs fn against the chosen source. A remote failure is retried
// once against the fallback dataset and never reaches the caller.
func read[T any](ctx context.Context, s *Service, op string, fn func(GeneSource) (T, error)) T {
	src := s.source(ctx, op)
	out, err := fn(src)
	if err == nil {
		s.metrics.Served(op, src.Name())
		return out
	}

	s.degrade(op, ReasonRemoteError, err)
	out, _ = fn(s.fixed)
	s.metrics.Served(op, s.fixed.Name())
	return out
}

// Mode reports which source a read issued now would use.
func (s *Service) Mode(ctx context.Context) string {
	if s.store == nil || !s.store.Configured() || !s.store.Available(ctx) {
		return metrics.SourceFallback
	}
	return metrics.SourceRemote
}

// SearchGenes returns one page of genes matching text and filters,
// ordered by name. A page below 1 is treated as 1, a page size below 1
// as DefaultPageSize and one above MaxPageSize as MaxPageSize.
func (s *Service) SearchGenes(ctx context.Context, text string, filters domain.SearchFilters, page, pageSize int) domain.SearchResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	q := query.Query{
		Where: query.FromSearch(text, filters),
		Order: query.DefaultOrder,
		Range: query.PageRange(page, pageSize),
	}

	type pageOf struct {
		genes []domain.GeneRecord
		total int64
	}
	res := read(ctx, s, opSearch, func(src GeneSource) (pageOf, error) {
		genes, total, err := src.Search(ctx, q)
		return pageOf{genes: genes, total: total}, err
	})

	genes := res.genes
	if genes == nil {
		genes = []domain.GeneRecord{}
	}
	return domain.SearchResult{
		Genes:    genes,
		Total:    res.total,
		Page:     page,
		PageSize: pageSize,
	}
}

// GetGeneByID returns the gene with the given id, or nil when absent.
func (s *Service) GetGeneByID(ctx context.Context, id string) *domain.GeneRecord {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return read(ctx, s, opGetByID, func(src GeneSource) (*domain.GeneRecord, error) {
		return src.FindByID(ctx, id)
	})
}

// statsFields is the projection needed to compute statistics.
var statsFields = []query.Field{
	query.FieldID,
	query.FieldName,
	query.FieldEnzymeType,
	query.FieldProteinNames,
	query.FieldDomain,
}

func (s *Service) allForStats(ctx context.Context, op string) []domain.GeneRecord {
	q := query.Query{Fields: statsFields}
	return read(ctx, s, op, func(src GeneSource) ([]domain.GeneRecord, error) {
		genes, _, err := src.Search(ctx, q)
		return genes, err
	})
}

// GetEnzymeStats counts genes per enzyme family, most common first.
// Records without an enzyme type are classified from their protein names.
func (s *Service) GetEnzymeStats(ctx context.Context) []domain.EnzymeStat {
	counts := make(map[string]int)
	for _, g := range s.allForStats(ctx, opEnzymeStats) {
		counts[g.EnzymeCategory()]++
	}

	out := make([]domain.EnzymeStat, 0, len(counts))
	for _, kc := range sortCounts(counts) {
		out = append(out, domain.EnzymeStat{EnzymeType: kc.key, Count: kc.count})
	}
	return out
}

// GetDomainStats counts genes per annotated domain, most common first.
func (s *Service) GetDomainStats(ctx context.Context) []domain.DomainStat {
	counts := make(map[string]int)
	for _, g := range s.allForStats(ctx, opDomainStats) {
		if d := strings.TrimSpace(g.Domain); d != "" {
			counts[d]++
		}
	}

	out := make([]domain.DomainStat, 0, len(counts))
	for _, kc := range sortCounts(counts) {
		out = append(out, domain.DomainStat{Domain: kc.key, Count: kc.count})
	}
	return out
}

// writable returns nil when mutations can reach the remote store.
func (s *Service) writable(ctx context.Context) error {
	if s.store == nil || !s.store.Configured() {
		return domain.ErrNotConfigured
	}
	if !s.store.Available(ctx) {
		return fmt.Errorf("%w: store unreachable", domain.ErrRemote)
	}
	return nil
}

func (s *Service) mutationFailed(op string, err error) {
	outcome := "failed"
	switch {
	case errors.Is(err, domain.ErrNotConfigured), errors.Is(err, domain.ErrRemote):
		outcome = "unavailable"
	case errors.Is(err, domain.ErrInvalidGene):
		outcome = "invalid"
	}
	s.metrics.Mutation(op, outcome)
	s.log.Warn().Err(err).Str("op", op).Msg("Mutation rejected")
}

// AddGene inserts a new gene. An empty ID is replaced by a generated one.
func (s *Service) AddGene(ctx context.Context, gene domain.GeneRecord) (*domain.GeneRecord, error) {
	if err := s.writable(ctx); err != nil {
		s.mutationFailed(opAdd, err)
		return nil, err
	}

	if strings.TrimSpace(gene.ID) == "" {
		gene.ID = uuid.NewString()
	}
	now := s.now().UTC()
	gene.CreatedAt = now
	gene.UpdatedAt = now

	if err := gene.Validate(); err != nil {
		s.mutationFailed(opAdd, err)
		return nil, err
	}
	if err := s.store.Insert(ctx, gene); err != nil {
		s.mutationFailed(opAdd, err)
		return nil, fmt.Errorf("failed to add gene %s: %w", gene.ID, err)
	}

	s.metrics.Mutation(opAdd, "ok")
	s.broker.Publish(events.TopicGeneCreated, gene)
	return &gene, nil
}

// UpdateGene applies a partial update. It returns nil, nil when the gene
// does not exist.
func (s *Service) UpdateGene(ctx context.Context, id string, update domain.GeneUpdate) (*domain.GeneRecord, error) {
	if err := s.writable(ctx); err != nil {
		s.mutationFailed(opUpdate, err)
		return nil, err
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		s.mutationFailed(opUpdate, err)
		return nil, fmt.Errorf("failed to load gene %s: %w", id, err)
	}
	if existing == nil {
		s.metrics.Mutation(opUpdate, "not_found")
		return nil, nil
	}

	gene := *existing
	update.Apply(&gene)
	gene.ID = existing.ID
	gene.CreatedAt = existing.CreatedAt
	gene.UpdatedAt = s.now().UTC()

	if err := gene.Validate(); err != nil {
		s.mutationFailed(opUpdate, err)
		return nil, err
	}
	ok, err := s.store.Replace(ctx, gene)
	if err != nil {
		s.mutationFailed(opUpdate, err)
		return nil, fmt.Errorf("failed to update gene %s: %w", id, err)
	}
	if !ok {
		// Deleted between the read and the write.
		s.metrics.Mutation(opUpdate, "not_found")
		return nil, nil
	}

	s.metrics.Mutation(opUpdate, "ok")
	s.broker.Publish(events.TopicGeneUpdated, gene)
	return &gene, nil
}

// DeleteGene removes a gene. It reports false when nothing was deleted.
func (s *Service) DeleteGene(ctx context.Context, id string) (bool, error) {
	if err := s.writable(ctx); err != nil {
		s.mutationFailed(opDelete, err)
		return false, err
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		s.mutationFailed(opDelete, err)
		return false, fmt.Errorf("failed to delete gene %s: %w", id, err)
	}
	if !deleted {
		s.metrics.Mutation(opDelete, "not_found")
		return false, nil
	}

	s.metrics.Mutation(opDelete, "ok")
	s.broker.Publish(events.TopicGeneDeleted, id)
	return true, nil
}
