// Path: cmd/importer/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"gene-catalog/internal/config"
	"gene-catalog/internal/importer"
	"gene-catalog/internal/logging"
	"gene-catalog/internal/storage"
	"gene-catalog/internal/uniprot"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger := logging.New(cfg.Log)

	// 2. Cancel the import on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error().Err(err).Msg("Import failed")
		os.Exit(1)
	}
}

// run imports into the configured store. The store is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// 3. Open the remote store; importing needs a real one
	if !cfg.Database.Configured() {
		return errors.New("database.url and database.key must be set to import")
	}
	store, err := storage.Open(ctx, cfg.Database, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open remote store: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Error closing remote store")
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare gene table: %w", err)
	}

	// 4. Run the import; the counters are only scraped by the API server
	client := uniprot.NewClient(cfg.UniProt)
	imp := importer.New(client, store, nil, logger, importer.Options{
		Query:    cfg.UniProt.Query,
		PageSize: cfg.UniProt.PageSize,
		MaxPages: cfg.UniProt.MaxPages,
	})

	report, err := imp.Run(ctx)
	if err != nil {
		return fmt.Errorf("stopped after %d pages (%d records stored): %w", report.Pages, report.Imported, err)
	}

	logger.Info().
		Int("pages", report.Pages).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Msg("Import finished")
	return nil
}
