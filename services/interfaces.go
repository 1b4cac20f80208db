package services

import (
	"context"

	"news-rag-backend/models"
)

// FeedSource fetches one page of candidate articles. An empty page
// means the source is exhausted.
type FeedSource interface {
	FetchPage(ctx context.Context, page int) ([]models.Article, error)
}

// Embedder maps text to a fixed-length dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator maps a prompt to a generated answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex is the similarity store behind retrieval.
type VectorIndex interface {
	EnsureCollection(ctx context.Context, dim int, distance string) error
	Upsert(ctx context.Context, id uint64, vector []float32, payload models.PointPayload) error
	Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error)
}

// TurnStore persists conversation histories and the trending snapshot.
type TurnStore interface {
	Append(ctx context.Context, sessionID string, turn models.SessionTurn) error
	History(ctx context.Context, sessionID string) ([]models.SessionTurn, error)
	Clear(ctx context.Context, sessionID string) error
	SetTrending(ctx context.Context, titles []string) error
	Trending(ctx context.Context) ([]string, error)
}
