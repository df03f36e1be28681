package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnrirwin/fpviraq/internal/config"
	"github.com/johnrirwin/fpviraq/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Cache:   config.CacheConfig{Backend: "memory", TTL: time.Minute},
		Logging: config.LoggingConfig{Level: "error"},
		Session: config.SessionConfig{Secret: "s", Issuer: "test", TTL: time.Hour, StockRequestDelay: time.Millisecond},
		Catalog: config.CatalogConfig{Path: filepath.Join(dir, "data", "parts_db.json"), GenerateIfMissing: true, Seed: 7},
		Vault:   config.VaultConfig{Backend: "file", Dir: dir, Namespace: "drone-edu-storage"},
		Market:  config.MarketConfig{ExchangeRate: 1310, Locale: "en"},
	}
}

func TestNew_GeneratesMissingCatalog(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Shutdown(context.Background()) })

	assert.Equal(t, 835, a.Catalog.Len())
	_, err = os.Stat(cfg.Catalog.Path)
	require.NoError(t, err, "generated catalog should be written")

	// A second start reads the artifact back
	b, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Shutdown(context.Background()) })
	assert.Equal(t, a.Catalog.All()[0].ID, b.Catalog.All()[0].ID)
	assert.Equal(t, a.Catalog.Len(), b.Catalog.Len())
}

func TestNew_MissingCatalogWithoutGeneration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.GenerateIfMissing = false

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_FileVaultPersists(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(cfg)
	require.NoError(t, err)
	_, err = a.Vault.Add(ctx, models.CreateProjectParams{Name: "Long Range"})
	require.NoError(t, err)
	a.Shutdown(ctx)

	b, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Shutdown(ctx) })

	list := b.Vault.List()
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "Long Range", list.Projects[0].Name)
}

func TestNew_PostgresUnavailableFallsBackToFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Vault.Backend = "postgres"
	cfg.Database = config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "nobody", Database: "none", SSLMode: "disable"}

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Shutdown(context.Background()) })

	assert.Nil(t, a.db)
	_, err = a.Vault.Add(context.Background(), models.CreateProjectParams{Name: "Fallback"})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.Vault.Dir, "drone-edu-storage.json"))
	assert.NoError(t, err)
}
