package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"news-rag-backend/internal/logger"
	"news-rag-backend/models"
)

// ErrRunInProgress is returned when an ingestion run is requested while
// a previous one is still executing.
var ErrRunInProgress = errors.New("ingestion run already in progress")

const distanceMetric = "Cosine"

// Ingestor keeps the vector index populated with fresh, de-duplicated
// articles and publishes the trending snapshot after each run.
type Ingestor struct {
	feed     FeedSource
	embedder Embedder
	index    VectorIndex
	store    TurnStore

	target      int
	maxAttempts int
	dimensions  int

	running atomic.Bool
}

func NewIngestor(feed FeedSource, embedder Embedder, index VectorIndex, store TurnStore, target, maxAttempts, dimensions int) *Ingestor {
	return &Ingestor{
		feed:        feed,
		embedder:    embedder,
		index:       index,
		store:       store,
		target:      target,
		maxAttempts: maxAttempts,
		dimensions:  dimensions,
	}
}

// Running reports whether a run is currently in flight.
func (ing *Ingestor) Running() bool {
	return ing.running.Load()
}

// RunOnce executes one full ingestion pass: collect, embed and index,
// publish. At most one run is in flight at a time; a second caller gets
// ErrRunInProgress instead of a concurrent run.
func (ing *Ingestor) RunOnce(ctx context.Context) error {
	if !ing.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer ing.running.Store(false)

	tracer := otel.Tracer("ingestor")
	ctx, span := tracer.Start(ctx, "ingest.run")
	defer span.End()

	started := time.Now()
	logger.Info("Ingestion run started", "target", ing.target)

	if err := ing.index.EnsureCollection(ctx, ing.dimensions, distanceMetric); err != nil {
		logger.Error("Ingestion run aborted: ensure collection failed", "error", err)
		return models.NewUpstreamError("vector index", err)
	}

	collected := ing.collect(ctx)
	span.SetAttributes(attribute.Int("ingest.collected", len(collected)))

	if len(collected) == 0 {
		// Nothing fetched: keep the previous snapshot untouched.
		logger.Warn("Ingestion run collected no articles, keeping previous snapshot")
		return nil
	}

	indexed := ing.embedAndIndex(ctx, collected)
	span.SetAttributes(attribute.Int("ingest.indexed", indexed))

	// The snapshot reflects the full collected working set, not only
	// the articles that made it into the index.
	titles := make([]string, 0, len(collected))
	for _, a := range collected {
		titles = append(titles, a.Title)
	}
	if err := ing.store.SetTrending(ctx, titles); err != nil {
		logger.Error("Failed to publish trending snapshot", "error", err)
		return models.NewUpstreamError("session store", err)
	}

	logger.Info("Ingestion run finished",
		"collected", len(collected),
		"indexed", indexed,
		"duration", time.Since(started).String())
	return nil
}

// collect pages through the feed until the working set reaches the
// target size, attempts run out, or the source is exhausted. Articles
// are de-duplicated by URL, first occurrence wins. Fetch failures end
// collection; whatever was gathered so far is still used.
func (ing *Ingestor) collect(ctx context.Context) []models.Article {
	seen := make(map[string]struct{}, ing.target)
	collected := make([]models.Article, 0, ing.target)

	for attempt := 1; attempt <= ing.maxAttempts && len(collected) < ing.target; attempt++ {
		page, err := ing.feed.FetchPage(ctx, attempt)
		if err != nil {
			logger.Warn("Feed fetch failed, stopping collection", "attempt", attempt, "error", err)
			break
		}
		if len(page) == 0 {
			logger.Debug("Feed exhausted", "attempt", attempt)
			break
		}

		for _, a := range page {
			if len(collected) >= ing.target {
				break
			}
			if a.URL == "" {
				continue
			}
			if _, dup := seen[a.URL]; dup {
				continue
			}
			seen[a.URL] = struct{}{}
			collected = append(collected, a)
		}
	}

	return collected
}

// embedAndIndex embeds and upserts each collected article in order.
// Failures are absorbed per article; returns the number indexed.
func (ing *Ingestor) embedAndIndex(ctx context.Context, collected []models.Article) int {
	// Wall-clock seed plus a run-scoped offset keeps ids unique within
	// a run without ambient global state.
	seed := uint64(time.Now().UnixMilli())
	indexed := 0

	for i, article := range collected {
		text := article.EmbeddingText()
		if text == "" {
			continue
		}

		vector, err := ing.embedder.Embed(ctx, text)
		if err != nil {
			logger.Warn("Embedding failed, skipping article", "url", article.URL, "error", err)
			continue
		}
		if len(vector) == 0 {
			logger.Warn("Empty embedding, skipping article", "url", article.URL)
			continue
		}

		id := seed + uint64(i)
		payload := models.PointPayload{
			Text:  text,
			URL:   article.URL,
			Title: article.Title,
		}
		if err := ing.index.Upsert(ctx, id, vector, payload); err != nil {
			logger.Warn("Upsert failed, skipping article", "url", article.URL, "error", err)
			continue
		}
		indexed++
	}

	return indexed
}
