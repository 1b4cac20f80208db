package services

import (
	"context"
	"errors"

	"news-rag-backend/models"
)

// Stub collaborators shared by the ingestion and chat pipeline tests.

type stubFeed struct {
	pages [][]models.Article
	err   error
	calls int
}

func (f *stubFeed) FetchPage(ctx context.Context, page int) ([]models.Article, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if page-1 < len(f.pages) {
		return f.pages[page-1], nil
	}
	return nil, nil
}

type stubEmbedder struct {
	inputs []string
	vector []float32
	err    error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.inputs = append(e.inputs, text)
	if e.err != nil {
		return nil, e.err
	}
	if e.vector != nil {
		return e.vector, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type upsertCall struct {
	id      uint64
	payload models.PointPayload
}

type stubIndex struct {
	ensured   int
	ensureErr error
	upserts   []upsertCall
	upsertErr error
	hits      []models.SearchResult
	searchErr error
}

func (i *stubIndex) EnsureCollection(ctx context.Context, dim int, distance string) error {
	i.ensured++
	return i.ensureErr
}

func (i *stubIndex) Upsert(ctx context.Context, id uint64, vector []float32, payload models.PointPayload) error {
	if i.upsertErr != nil {
		return i.upsertErr
	}
	i.upserts = append(i.upserts, upsertCall{id: id, payload: payload})
	return nil
}

func (i *stubIndex) Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
	if i.searchErr != nil {
		return nil, i.searchErr
	}
	if limit < len(i.hits) {
		return i.hits[:limit], nil
	}
	return i.hits, nil
}

type stubGenerator struct {
	calls  int
	prompt string
	answer string
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

type memStore struct {
	sessions    map[string][]models.SessionTurn
	trending    []string
	hasTrending bool
	appendErr   error
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string][]models.SessionTurn)}
}

func (s *memStore) Append(ctx context.Context, sessionID string, turn models.SessionTurn) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}

func (s *memStore) History(ctx context.Context, sessionID string) ([]models.SessionTurn, error) {
	return s.sessions[sessionID], nil
}

func (s *memStore) Clear(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *memStore) SetTrending(ctx context.Context, titles []string) error {
	s.trending = titles
	s.hasTrending = true
	return nil
}

func (s *memStore) Trending(ctx context.Context) ([]string, error) {
	if !s.hasTrending {
		return nil, nil
	}
	return s.trending, nil
}

var errStub = errors.New("stub failure")
