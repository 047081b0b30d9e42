// Package config loads ragdb's configuration from environment variables,
// following the RAGDB_-prefixed convention used throughout this repo.
//
// Configuration is organized into per-component sections (Index, Chunker,
// Embedder, Server) so each package can depend on just its own slice of
// Config. Call LoadFromEnv() to build a Config from the process environment,
// then Validate() before using it — invalid configuration is a startup-fatal
// ragerr.KindConfig error, never a silent fallback.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/orneryd/ragdb/pkg/chunk"
	"github.com/orneryd/ragdb/pkg/index"
	"github.com/orneryd/ragdb/pkg/ragerr"
)

// Config holds all ragdb configuration loaded from environment variables.
type Config struct {
	Index    IndexConfig
	Chunker  ChunkerConfig
	Embedder EmbedderConfig
	Server   ServerConfig
}

// IndexConfig selects and tunes the vector index backing the catalog.
type IndexConfig struct {
	// Kind selects the variant: "brute force", "kd tree", or "lsh".
	Kind index.Kind
	// LSHTables and LSHBits only apply when Kind is "lsh"; zero uses the
	// package defaults (see index.DefaultLSHTables/DefaultLSHBits).
	LSHTables int
	LSHBits   int
}

// ChunkerConfig selects and tunes the text chunker used at ingest time.
type ChunkerConfig struct {
	// Kind selects the variant: "fixed" or "sentence".
	Kind chunk.Kind
	// ChunkSize only applies when Kind is "fixed"; zero uses chunk.DefaultChunkSize.
	ChunkSize int
}

// EmbedderConfig configures the embedding provider used for both documents
// and queries.
type EmbedderConfig struct {
	// Provider selects the backend: "cohere" or "mock". "mock" never makes a
	// network call and is meant for local development and tests.
	Provider   string
	APIURL     string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
	// CacheSize is the LRU embedding-result cache capacity; zero uses
	// embed.DefaultEmbeddingCacheSize.
	CacheSize int
}

// ServerConfig configures the HTTP API surface.
type ServerConfig struct {
	// Address is the host:port the HTTP server listens on.
	Address string
	// CORSOrigins lists allowed Origin values; empty falls back to the cors
	// package's default of allowing every origin.
	CORSOrigins []string
}

// LoadFromEnv loads configuration from environment variables, having first
// loaded a .env file from the working directory if one exists (a missing
// .env is not an error — it just means all values come from the real
// environment or defaults).
//
// All values have sensible defaults, so LoadFromEnv() can be called without
// any environment variables set — except RAGDB_EMBEDDER_API_KEY, which
// Validate() requires when Provider is "cohere".
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: error reading .env: %v", err)
	}

	cfg := &Config{}

	cfg.Index.Kind = index.Kind(getEnv("RAGDB_INDEX_KIND", string(index.KindExhaustive)))
	cfg.Index.LSHTables = getEnvInt("RAGDB_INDEX_LSH_TABLES", index.DefaultLSHTables)
	cfg.Index.LSHBits = getEnvInt("RAGDB_INDEX_LSH_BITS", index.DefaultLSHBits)

	cfg.Chunker.Kind = chunk.Kind(getEnv("RAGDB_CHUNKER_KIND", string(chunk.KindFixed)))
	cfg.Chunker.ChunkSize = getEnvInt("RAGDB_CHUNKER_SIZE", chunk.DefaultChunkSize)

	cfg.Embedder.Provider = getEnv("RAGDB_EMBEDDER_PROVIDER", "cohere")
	cfg.Embedder.APIURL = getEnv("RAGDB_EMBEDDER_API_URL", "https://api.cohere.com")
	cfg.Embedder.APIKey = getEnv("RAGDB_EMBEDDER_API_KEY", "")
	cfg.Embedder.Model = getEnv("RAGDB_EMBEDDER_MODEL", "embed-english-v3.0")
	cfg.Embedder.Dimensions = getEnvInt("RAGDB_EMBEDDER_DIMENSIONS", 1024)
	cfg.Embedder.Timeout = getEnvDuration("RAGDB_EMBEDDER_TIMEOUT", 30*time.Second)
	cfg.Embedder.CacheSize = getEnvInt("RAGDB_EMBEDDER_CACHE_SIZE", 1000)

	cfg.Server.Address = getEnv("RAGDB_SERVER_ADDRESS", ":8080")
	cfg.Server.CORSOrigins = getEnvStringSlice("RAGDB_SERVER_CORS_ORIGINS", []string{"*"})

	return cfg
}

// LoadFile reads a YAML file and merges it over the configuration that
// LoadFromEnv builds (environment variables plus defaults), so any value set
// in the file takes precedence over the environment. This is an optional override
// path for deployments that prefer a checked-in config file to environment
// variables; most callers only need LoadFromEnv.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ragerr.Config("read config file %s: %v", path, err)
	}

	cfg := LoadFromEnv()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ragerr.Config("parse config file %s: %v", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for logical errors and invalid values.
// Returns a ragerr.KindConfig error describing the first problem found, or
// nil if the configuration is usable.
func (c *Config) Validate() error {
	switch c.Index.Kind {
	case index.KindExhaustive, index.KindKDTree, index.KindLSH:
	default:
		return ragerr.Config("unknown index kind: %q", c.Index.Kind)
	}

	switch c.Chunker.Kind {
	case chunk.KindFixed, chunk.KindSentence:
	default:
		return ragerr.Config("unknown chunker kind: %q", c.Chunker.Kind)
	}

	switch c.Embedder.Provider {
	case "cohere":
		if c.Embedder.APIKey == "" {
			return ragerr.Config("RAGDB_EMBEDDER_API_KEY is required for provider %q", c.Embedder.Provider)
		}
	case "mock":
	default:
		return ragerr.Config("unknown embedder provider: %q", c.Embedder.Provider)
	}

	if c.Embedder.Dimensions <= 0 {
		return ragerr.Config("invalid embedder dimensions: %d", c.Embedder.Dimensions)
	}

	if c.Server.Address == "" {
		return ragerr.Config("server address must not be empty")
	}

	return nil
}

// String returns a safe string representation of the Config. The API key is
// deliberately omitted, so this is safe for logging.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Index: %s, Chunker: %s, Embedder: %s/%s, Server: %s}",
		c.Index.Kind, c.Chunker.Kind, c.Embedder.Provider, c.Embedder.Model, c.Server.Address,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultVal
}
