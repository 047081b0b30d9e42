// Package main provides the ragdb CLI entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orneryd/ragdb/pkg/catalog"
	"github.com/orneryd/ragdb/pkg/chunk"
	"github.com/orneryd/ragdb/pkg/config"
	"github.com/orneryd/ragdb/pkg/embed"
	"github.com/orneryd/ragdb/pkg/index"
	"github.com/orneryd/ragdb/pkg/server"
	"github.com/orneryd/ragdb/pkg/service"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ragdb",
		Short: "ragdb - in-memory vector search service for RAG workloads",
		Long: `ragdb is an in-memory vector search service for retrieval-augmented
generation workloads. It stores libraries of documents, chunks them,
embeds each chunk through an external provider, and serves approximate
and exact k-nearest-neighbor queries over the resulting vectors.

Index variants:
  • Exhaustive (brute force) - exact cosine similarity
  • KD-Tree                  - exact, squared Euclidean distance
  • LSH                      - approximate cosine similarity`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ragdb v%s (%s)\n", version, commit)
		},
	})

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ragdb HTTP server",
		Long:  "Start the ragdb HTTP server, wiring the configured index, chunker, and embedder.",
		RunE:  runServe,
	}
	serveCmd.Flags().Bool("seed", false, "create a demo library with sample documents at startup")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetBool("seed")

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Printf("ragdb v%s starting: %s", version, cfg.String())

	idx, err := index.New(cfg.Index.Kind, index.Options{
		LSHTables: cfg.Index.LSHTables,
		LSHBits:   cfg.Index.LSHBits,
	})
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	chunker, err := chunk.New(cfg.Chunker.Kind, cfg.Chunker.ChunkSize)
	if err != nil {
		return fmt.Errorf("building chunker: %w", err)
	}

	embedder := buildEmbedder(cfg.Embedder)

	cat := catalog.New()
	svc := service.New(cat, idx, chunker, embedder)

	if seed {
		log.Println("seeding demo library...")
		if err := seedDemoLibrary(context.Background(), svc); err != nil {
			return fmt.Errorf("seeding demo library: %w", err)
		}
	}

	srv := server.New(svc, cfg.Server.CORSOrigins)
	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-sigCh:
		log.Println("shutting down...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("server stopped gracefully")
	return nil
}

// buildEmbedder wires the provider named by cfg.Provider, wrapped with an
// LRU result cache, matching pkg/embed/cached_embedder.go's layering.
func buildEmbedder(cfg config.EmbedderConfig) embed.Embedder {
	var inner embed.Embedder
	switch cfg.Provider {
	case "mock":
		inner = embed.NewMockEmbedder(cfg.Dimensions)
	default:
		inner = embed.NewCohere(&embed.Config{
			Provider:   cfg.Provider,
			APIURL:     cfg.APIURL,
			APIPath:    "/v1/embed",
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    cfg.Timeout,
		})
	}
	return embed.NewCachedEmbedder(inner, cfg.CacheSize)
}
