// Path: internal/storage/postgres_storage.go
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gene-catalog/internal/config"
	"gene-catalog/internal/domain"
	"gene-catalog/internal/query"
)

// PostgresGeneStorage is the Postgres implementation of the RecordStore interface.
type PostgresGeneStorage struct {
	pool  *pgxpool.Pool
	table string
	gate  gate
}

// NewPostgresGeneStorage creates a new storage adapter over an existing pool.
func NewPostgresGeneStorage(pool *pgxpool.Pool, table string, cfg config.StoreConfig) *PostgresGeneStorage {
	return &PostgresGeneStorage{
		pool:  pool,
		table: table,
		gate:  newGate(cfg),
	}
}

// openPostgres builds a pool from the configured URL; the key is used as
// the password. No connection is made until the first call.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig, storeCfg config.StoreConfig) (*PostgresGeneStorage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	poolCfg.ConnConfig.Password = cfg.Key
	if t := storeCfg.Timeout(); t > 0 {
		poolCfg.ConnConfig.ConnectTimeout = t
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgresGeneStorage(pool, cfg.Collection, storeCfg), nil
}

// Configured implements the RecordStore interface.
func (s *PostgresGeneStorage) Configured() bool { return true }

// Available implements the RecordStore interface.
func (s *PostgresGeneStorage) Available(ctx context.Context) bool {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return false
	}
	return s.pool.Ping(ctx) == nil
}

// Query implements the RecordStore interface.
func (s *PostgresGeneStorage) Query(ctx context.Context, q query.Query) ([]domain.GeneRecord, int64, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := countSQL(s.table, q.Where)
	var total int64
	if err := s.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, remoteErr("count genes", err)
	}

	genes, err := s.collect(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return genes, total, nil
}

func (s *PostgresGeneStorage) collect(ctx context.Context, q query.Query) ([]domain.GeneRecord, error) {
	sql, args := selectSQL(s.table, q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, remoteErr("select genes", err)
	}
	genes, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[domain.GeneRecord])
	if err != nil {
		return nil, remoteErr("scan genes", err)
	}
	return genes, nil
}

// FindByID implements the RecordStore interface.
func (s *PostgresGeneStorage) FindByID(ctx context.Context, id string) (*domain.GeneRecord, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}

	q := query.Query{
		Where: query.Where{}.And(query.Predicate{Field: query.FieldID, Op: query.OpEq, Value: id}),
		Range: query.Range{Limit: 1},
	}
	genes, err := s.collect(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(genes) == 0 {
		return nil, nil
	}
	return &genes[0], nil
}

// Insert implements the RecordStore interface.
func (s *PostgresGeneStorage) Insert(ctx context.Context, gene domain.GeneRecord) error {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, insertSQL(s.table), geneArgs(gene)...); err != nil {
		return remoteErr("insert gene", err)
	}
	return nil
}

// Replace implements the RecordStore interface.
func (s *PostgresGeneStorage) Replace(ctx context.Context, gene domain.GeneRecord) (bool, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx, updateSQL(s.table), geneArgs(gene)...)
	if err != nil {
		return false, remoteErr("update gene", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete implements the RecordStore interface.
func (s *PostgresGeneStorage) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx, deleteSQL(s.table), id)
	if err != nil {
		return false, remoteErr("delete gene", err)
	}
	return tag.RowsAffected() > 0, nil
}

// BulkUpsert implements the RecordStore interface.
func (s *PostgresGeneStorage) BulkUpsert(ctx context.Context, genes []domain.GeneRecord) error {
	if len(genes) == 0 {
		return nil
	}
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return err
	}

	sql := upsertSQL(s.table)
	batch := &pgx.Batch{}
	for _, gene := range genes {
		batch.Queue(sql, geneArgs(gene)...)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return remoteErr("bulk upsert genes", err)
	}
	return nil
}

// EnsureSchema creates the gene table and its indexes when missing.
func (s *PostgresGeneStorage) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL(s.table) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return remoteErr("execute ddl", err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *PostgresGeneStorage) Close(context.Context) error {
	s.pool.Close()
	return nil
}
