// Package embed provides the embedding-generation client used to turn chunk
// and query text into vectors for pkg/index.
//
// Embeddings convert text into high-dimensional vectors that capture
// semantic meaning: similar texts end up with similar vectors, which is what
// makes nearest-neighbor search over them useful. The default provider talks
// to Cohere's embed API, which distinguishes how a text will be used —
// indexed content vs. a search query — via an input_type parameter; Kind
// carries that distinction through this package's API.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/orneryd/ragdb/pkg/ragerr"
)

// Kind distinguishes text being embedded for storage from text being
// embedded as a search query. Some providers (Cohere among them) produce
// measurably better results when told which is which.
type Kind string

const (
	KindDocument Kind = "search_document"
	KindQuery    Kind = "search_query"
)

// Embedder generates vector embeddings from text.
//
// Implementations must be safe for concurrent use from multiple goroutines.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string, kind Kind) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts in one round trip.
	EmbedBatch(ctx context.Context, texts []string, kind Kind) ([][]float64, error)

	// Dimensions returns the embedding vector length this embedder produces.
	Dimensions() int

	// Model returns the model name in use, for logging and diagnostics.
	Model() string
}

// Config holds embedding provider configuration.
type Config struct {
	Provider   string // "cohere" or "mock"
	APIURL     string
	APIPath    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// DefaultCohereConfig returns configuration for Cohere's embed-english-v3.0
// model. Requires an API key; get one at https://dashboard.cohere.com.
func DefaultCohereConfig(apiKey string) *Config {
	return &Config{
		Provider:   "cohere",
		APIURL:     "https://api.cohere.com",
		APIPath:    "/v1/embed",
		APIKey:     apiKey,
		Model:      "embed-english-v3.0",
		Dimensions: 1024,
		Timeout:    30 * time.Second,
	}
}

// CohereEmbedder implements Embedder against Cohere's embed API.
//
// Thread-safe: the underlying http.Client is shared and safe for concurrent
// use.
type CohereEmbedder struct {
	config *Config
	client *http.Client
}

// NewCohere creates a Cohere-backed embedder. If config is nil,
// DefaultCohereConfig("") is used, which will fail requests without an API
// key set afterward.
func NewCohere(config *Config) *CohereEmbedder {
	if config == nil {
		config = DefaultCohereConfig("")
	}
	return &CohereEmbedder{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type cohereRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type cohereResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed implements Embedder.
func (e *CohereEmbedder) Embed(ctx context.Context, text string, kind Kind) ([]float64, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text}, kind)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements Embedder.
func (e *CohereEmbedder) EmbedBatch(ctx context.Context, texts []string, kind Kind) ([][]float64, error) {
	reqBody := cohereRequest{
		Texts:     texts,
		Model:     e.config.Model,
		InputType: string(kind),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	url := e.config.APIURL + e.config.APIPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.config.APIKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, ragerr.Upstream(fmt.Errorf("cohere request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, ragerr.Upstream(fmt.Errorf("cohere returned %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var cohereResp cohereResponse
	if err := json.NewDecoder(resp.Body).Decode(&cohereResp); err != nil {
		return nil, ragerr.Upstream(fmt.Errorf("decode cohere response: %w", err))
	}
	if len(cohereResp.Embeddings) != len(texts) {
		return nil, ragerr.Upstream(fmt.Errorf("cohere returned %d embeddings for %d texts", len(cohereResp.Embeddings), len(texts)))
	}

	return cohereResp.Embeddings, nil
}

// Dimensions implements Embedder.
func (e *CohereEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// Model implements Embedder.
func (e *CohereEmbedder) Model() string {
	return e.config.Model
}
