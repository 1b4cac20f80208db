package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"news-rag-backend/internal/logger"
	"news-rag-backend/models"
)

const fallbackIntro = "I'm sorry, I couldn't find any recent news matching your question. Here are some trending topics you could ask about:"

// maxSuggestions is how many snapshot titles the fallback offers.
const maxSuggestions = 5

// defaultTopics backs the fallback when no snapshot has been published
// yet (e.g. before the first ingestion run completes).
var defaultTopics = []string{
	"World news",
	"Technology",
	"Business",
	"Sports",
	"Science",
}

// Chat answers user queries against the indexed corpus and persists
// the conversational turns.
type Chat struct {
	embedder  Embedder
	index     VectorIndex
	generator Generator
	store     TurnStore
	topK      int
}

func NewChat(embedder Embedder, index VectorIndex, generator Generator, store TurnStore, topK int) *Chat {
	return &Chat{
		embedder:  embedder,
		index:     index,
		generator: generator,
		store:     store,
		topK:      topK,
	}
}

// HandleQuery runs the full query pipeline: embed, search, answer or
// fall back, persist both turns. The user turn and bot turn are only
// written once an answer exists; a failed request writes no history.
func (c *Chat) HandleQuery(ctx context.Context, sessionID, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", models.ErrEmptyQuery
	}

	tracer := otel.Tracer("chat")
	ctx, span := tracer.Start(ctx, "chat.handle_query")
	defer span.End()
	span.SetAttributes(attribute.String("chat.session_id", sessionID))

	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("Query embedding failed", "session_id", sessionID, "error", err)
		return "", models.NewUpstreamError("embedding", err)
	}

	hits, err := c.index.Search(ctx, vector, c.topK)
	if err != nil {
		logger.Error("Vector search failed", "session_id", sessionID, "error", err)
		return "", models.NewUpstreamError("vector index", err)
	}

	passages := buildPassages(hits)
	span.SetAttributes(
		attribute.Int("chat.hits", len(hits)),
		attribute.Int("chat.passages", len(passages)),
	)

	var answer string
	if len(passages) == 0 {
		answer = c.fallbackAnswer(ctx)
		span.SetAttributes(attribute.Bool("chat.fallback", true))
	} else {
		answer, err = c.generator.Generate(ctx, buildPrompt(passages, query))
		if err != nil {
			// A non-empty search means content exists; a degraded
			// non-answer here would be misleading, so the request
			// fails and no turns are written.
			logger.Error("Answer generation failed", "session_id", sessionID, "error", err)
			return "", models.NewUpstreamError("answer generation", err)
		}
	}

	if err := c.store.Append(ctx, sessionID, models.SessionTurn{Role: models.RoleUser, Text: query}); err != nil {
		return "", models.NewUpstreamError("session store", err)
	}
	if err := c.store.Append(ctx, sessionID, models.SessionTurn{Role: models.RoleBot, Text: answer}); err != nil {
		return "", models.NewUpstreamError("session store", err)
	}

	return answer, nil
}

// History returns the full ordered history for a session.
func (c *Chat) History(ctx context.Context, sessionID string) ([]models.SessionTurn, error) {
	turns, err := c.store.History(ctx, sessionID)
	if err != nil {
		return nil, models.NewUpstreamError("session store", err)
	}
	return turns, nil
}

// ClearSession deletes a session's history.
func (c *Chat) ClearSession(ctx context.Context, sessionID string) error {
	if err := c.store.Clear(ctx, sessionID); err != nil {
		return models.NewUpstreamError("session store", err)
	}
	return nil
}

// Trending returns the current trending snapshot titles.
func (c *Chat) Trending(ctx context.Context) ([]string, error) {
	titles, err := c.store.Trending(ctx)
	if err != nil {
		return nil, models.NewUpstreamError("session store", err)
	}
	return titles, nil
}

// buildPassages extracts the stored text of each hit, skipping blanks.
func buildPassages(hits []models.SearchResult) []string {
	passages := make([]string, 0, len(hits))
	for _, hit := range hits {
		text := strings.TrimSpace(hit.Payload.Text)
		if text == "" {
			continue
		}
		passages = append(passages, text)
	}
	return passages
}

func buildPrompt(passages []string, query string) string {
	var b strings.Builder
	b.WriteString("You are a news assistant. Answer the question using only the numbered passages below. ")
	b.WriteString("If the passages do not contain the answer, say you don't know.\n\nPassages:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	fmt.Fprintf(&b, "\nQuestion: %s", query)
	return b.String()
}

// fallbackAnswer builds the apology-with-suggestions reply from the
// trending snapshot. Never calls the generator.
func (c *Chat) fallbackAnswer(ctx context.Context) string {
	titles, err := c.store.Trending(ctx)
	if err != nil {
		logger.Warn("Trending snapshot read failed, using default topics", "error", err)
		titles = nil
	}
	if len(titles) == 0 {
		titles = defaultTopics
	}
	if len(titles) > maxSuggestions {
		titles = titles[:maxSuggestions]
	}

	var b strings.Builder
	b.WriteString(fallbackIntro)
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(title)
	}
	return b.String()
}
