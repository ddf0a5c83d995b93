package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gene-catalog/internal/config"
	"gene-catalog/internal/domain"
)

func TestRunNeedsConfiguredStore(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: config.DriverPostgres,
		URL:    "your_supabase_project_url",
		Key:    "your_supabase_anon_key",
	}}

	err := run(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set")
}

func TestRunReturnsSchemaFailure(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     config.DriverPostgres,
			URL:        "postgres://catalog@127.0.0.1:1/genes?sslmode=disable",
			Key:        "k",
			Collection: "genes",
		},
		Store: config.StoreConfig{TimeoutSeconds: 1},
	}

	err := run(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prepare gene table")
	assert.ErrorIs(t, err, domain.ErrRemote)
}
