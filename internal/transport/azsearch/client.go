// Package azsearch is the HTTP client for the external semantic search
// service. One outbound POST per retrieval, no retries; failures propagate
// immediately as upstream errors.
package azsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/domain/semantic"
	"github.com/kailas-cloud/topiclens/internal/metrics"
)

// Config holds the search service settings.
type Config struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client retrieves ranked documents from named semantic indexes.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a semantic search client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// searchRequest is the wire body of one retrieval call.
type searchRequest struct {
	Search                string `json:"search"`
	QueryType             string `json:"queryType"`
	SemanticConfiguration string `json:"semanticConfiguration"`
	Captions              string `json:"captions"`
	Answers               string `json:"answers"`
	QueryLanguage         string `json:"queryLanguage"`
	Select                string `json:"select,omitempty"`
}

// Retrieve implements rag.Retriever: one semantic query against one index
// and semantic configuration.
func (c *Client) Retrieve(
	ctx context.Context, index, semanticConfig, selectFields, query string,
) (semantic.Result, error) {
	url := fmt.Sprintf("%s/indexes('%s')/docs/search?api-version=%s", c.endpoint, index, c.apiVersion)

	body, err := json.Marshal(searchRequest{
		Search:                query,
		QueryType:             "semantic",
		SemanticConfiguration: semanticConfig,
		Captions:              "extractive",
		Answers:               "extractive|count-5",
		QueryLanguage:         "en-US",
		Select:                selectFields,
	})
	if err != nil {
		return semantic.Result{}, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return semantic.Result{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues(index, "error").Inc()
		return semantic.Result{}, fmt.Errorf("send search request: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RetrievalRequestsTotal.WithLabelValues(index, "error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return semantic.Result{}, fmt.Errorf(
			"search returned status %d: %s: %w", resp.StatusCode, string(snippet), domain.ErrUpstream)
	}

	var wire searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues(index, "error").Inc()
		return semantic.Result{}, fmt.Errorf("decode search response: %w: %w", domain.ErrUpstream, err)
	}

	metrics.RetrievalRequestsTotal.WithLabelValues(index, "success").Inc()
	metrics.RetrievalDuration.WithLabelValues(index).Observe(duration.Seconds())

	result := wire.toDomain()
	c.logger.Debug("semantic retrieval completed",
		zap.String("index", index),
		zap.Int("answers", len(result.Answers)),
		zap.Int("documents", len(result.Documents)),
		zap.Duration("latency", duration),
	)
	return result, nil
}
