// Path: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"gene-catalog/internal/config"
	"gene-catalog/internal/delivery/rest"
	"gene-catalog/internal/events"
	"gene-catalog/internal/fallback"
	"gene-catalog/internal/logging"
	"gene-catalog/internal/metrics"
	"gene-catalog/internal/service"
	"gene-catalog/internal/storage"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger := logging.New(cfg.Log)

	// 2. Setup Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open the remote store; any failure leaves the service on the fallback dataset
	store, err := storage.Open(ctx, cfg.Database, cfg.Store)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Database.Driver).Msg("Remote store unavailable, serving fallback dataset")
		store = storage.Unconfigured{}
	} else if !store.Configured() {
		logger.Info().Msg("No remote store configured, serving fallback dataset")
	} else {
		logger.Info().Str("driver", cfg.Database.Driver).Msg("Remote store opened")
	}

	// 4. Initialize cross-cutting components
	broker := events.NewBroker()
	go logEvents(logger,
		broker.Subscribe(events.TopicStoreDegraded, 64),
		broker.Subscribe(events.TopicGeneCreated, 16),
		broker.Subscribe(events.TopicGeneUpdated, 16),
		broker.Subscribe(events.TopicGeneDeleted, 16),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 5. Initialize the gene service
	geneService := service.NewService(store, fallback.Records(), broker, m, logger)

	// 6. Initialize and Start The API Server
	apiServer := rest.NewServer(cfg.Server.Port, geneService, registry, logger)
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("API server starting")
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("API server failed")
		}
	}()

	// 7. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutdown signal received. Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during API server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error closing remote store")
	}
	broker.Close()

	logger.Info().Msg("Server shut down successfully.")
}

// logEvents reports store degradation and catalog changes until the broker closes.
func logEvents(logger zerolog.Logger, subs ...<-chan events.Event) {
	logger = logger.With().Str("component", "events").Logger()

	merged := make(chan events.Event)
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub <-chan events.Event) {
			defer wg.Done()
			for ev := range sub {
				merged <- ev
			}
		}(sub)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	for ev := range merged {
		if d, ok := ev.Data.(events.Degraded); ok {
			logger.Debug().Str("topic", ev.Topic).Str("op", d.Op).Str("reason", d.Reason).Err(d.Err).Msg("Event")
			continue
		}
		logger.Debug().Str("topic", ev.Topic).Interface("data", ev.Data).Msg("Event")
	}
}
