package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orneryd/ragdb/pkg/index"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RAGDB_INDEX_KIND", "RAGDB_INDEX_LSH_TABLES", "RAGDB_INDEX_LSH_BITS",
		"RAGDB_CHUNKER_KIND", "RAGDB_CHUNKER_SIZE",
		"RAGDB_EMBEDDER_PROVIDER", "RAGDB_EMBEDDER_API_URL", "RAGDB_EMBEDDER_API_KEY",
		"RAGDB_EMBEDDER_MODEL", "RAGDB_EMBEDDER_DIMENSIONS", "RAGDB_EMBEDDER_TIMEOUT",
		"RAGDB_EMBEDDER_CACHE_SIZE", "RAGDB_SERVER_ADDRESS", "RAGDB_SERVER_CORS_ORIGINS",
	} {
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := LoadFromEnv()

	require.Equal(t, index.KindExhaustive, cfg.Index.Kind)
	require.Equal(t, "fixed", string(cfg.Chunker.Kind))
	require.Equal(t, "cohere", cfg.Embedder.Provider)
	require.Equal(t, 1024, cfg.Embedder.Dimensions)
	require.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGDB_INDEX_KIND", "lsh")
	t.Setenv("RAGDB_INDEX_LSH_TABLES", "3")
	t.Setenv("RAGDB_CHUNKER_SIZE", "500")
	t.Setenv("RAGDB_EMBEDDER_PROVIDER", "mock")
	t.Setenv("RAGDB_SERVER_ADDRESS", ":9090")

	cfg := LoadFromEnv()
	require.Equal(t, index.KindLSH, cfg.Index.Kind)
	require.Equal(t, 3, cfg.Index.LSHTables)
	require.Equal(t, 500, cfg.Chunker.ChunkSize)
	require.Equal(t, "mock", cfg.Embedder.Provider)
	require.Equal(t, ":9090", cfg.Server.Address)
}

func TestValidate_RejectsUnknownIndexKind(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGDB_EMBEDDER_PROVIDER", "mock")
	cfg := LoadFromEnv()
	cfg.Index.Kind = "nonsense"
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsMissingCohereKey(t *testing.T) {
	clearEnv(t)
	cfg := LoadFromEnv()
	require.Empty(t, cfg.Embedder.APIKey)
	require.Error(t, cfg.Validate())
}

func TestValidate_MockProviderNeedsNoKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGDB_EMBEDDER_PROVIDER", "mock")
	cfg := LoadFromEnv()
	require.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadDimensions(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGDB_EMBEDDER_PROVIDER", "mock")
	cfg := LoadFromEnv()
	cfg.Embedder.Dimensions = 0
	require.Error(t, cfg.Validate())
}

func TestConfigString_OmitsAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGDB_EMBEDDER_API_KEY", "super-secret")
	cfg := LoadFromEnv()
	require.NotContains(t, cfg.String(), "super-secret")
}
