// Package vectordb is a client for the Qdrant HTTP API, scoped to the
// single collection this service indexes into.
package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"news-rag-backend/internal/config"
	"news-rag-backend/models"
)

type Client struct {
	baseURL    string
	apiKey     string
	collection string
	http       *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.QdrantURL,
		apiKey:     cfg.QdrantAPIKey,
		collection: cfg.QdrantCollection,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// EnsureCollection creates the collection with the given dimensionality
// and distance metric. An already-existing collection is success.
func (c *Client) EnsureCollection(ctx context.Context, dim int, distance string) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": distance,
		},
	}

	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", c.collection), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 409 means the collection exists, which is the steady state.
	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("qdrant create collection: %s: %s", resp.Status, readBody(resp))
	}
	return nil
}

type point struct {
	ID      uint64              `json:"id"`
	Vector  []float32           `json:"vector"`
	Payload models.PointPayload `json:"payload"`
}

// Upsert writes one point. Re-upserting the same id overwrites it.
func (c *Client) Upsert(ctx context.Context, id uint64, vector []float32, payload models.PointPayload) error {
	body := map[string]any{
		"points": []point{{ID: id, Vector: vector, Payload: payload}},
	}

	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points", c.collection), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("qdrant upsert: %s: %s", resp.Status, readBody(resp))
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		ID      uint64              `json:"id"`
		Score   float32             `json:"score"`
		Payload models.PointPayload `json:"payload"`
	} `json:"result"`
}

// Search returns the top-k nearest points, best score first.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}

	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", c.collection), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qdrant search: %s: %s", resp.Status, readBody(resp))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]models.SearchResult, 0, len(result.Result))
	for _, r := range result.Result {
		hits = append(hits, models.SearchResult{ID: r.ID, Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	return c.http.Do(req)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return string(b)
}
