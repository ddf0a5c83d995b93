// Path: internal/storage/open.go
package storage

import (
	"context"
	"fmt"

	"gene-catalog/internal/config"
	"gene-catalog/internal/service"
)

// Adapter is a RecordStore that main owns: constructed once at start-up,
// shared by every request, closed on shutdown.
type Adapter interface {
	service.RecordStore
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Adapter = (*MongoGeneStorage)(nil)
	_ Adapter = (*PostgresGeneStorage)(nil)
	_ Adapter = Unconfigured{}
)

// Open returns the adapter selected by cfg. Missing or placeholder secrets
// yield Unconfigured, never an error.
func Open(ctx context.Context, cfg config.DatabaseConfig, storeCfg config.StoreConfig) (Adapter, error) {
	if !cfg.Configured() {
		return Unconfigured{}, nil
	}
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := openMongo(ctx, cfg, storeCfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := openPostgres(ctx, cfg, storeCfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
