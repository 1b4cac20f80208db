package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"news-rag-backend/models"
)

func hit(id uint64, text string) models.SearchResult {
	return models.SearchResult{ID: id, Score: 0.9, Payload: models.PointPayload{Text: text}}
}

func TestHandleQueryAnswersFromPassages(t *testing.T) {
	idx := &stubIndex{hits: []models.SearchResult{
		hit(1, "Markets rallied today."),
		hit(2, "Tech stocks led the gains."),
	}}
	gen := &stubGenerator{answer: "Markets went up, led by tech."}
	st := newMemStore()

	chat := NewChat(&stubEmbedder{}, idx, gen, st, 3)
	answer, err := chat.HandleQuery(context.Background(), "s1", "What happened to the markets?")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if answer != "Markets went up, led by tech." {
		t.Errorf("expected generator answer verbatim, got %q", answer)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generation call, got %d", gen.calls)
	}
	if !strings.Contains(gen.prompt, "1. Markets rallied today.") ||
		!strings.Contains(gen.prompt, "2. Tech stocks led the gains.") {
		t.Errorf("prompt missing numbered passages:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "What happened to the markets?") {
		t.Errorf("prompt missing original query:\n%s", gen.prompt)
	}
}

func TestHandleQueryFallbackOnZeroResults(t *testing.T) {
	idx := &stubIndex{} // no hits
	gen := &stubGenerator{answer: "should not be used"}
	st := newMemStore()
	st.SetTrending(context.Background(), []string{"A", "B", "C", "D", "E", "F", "G"})

	chat := NewChat(&stubEmbedder{}, idx, gen, st, 3)
	answer, err := chat.HandleQuery(context.Background(), "s1", "anything")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if gen.calls != 0 {
		t.Errorf("fallback must never call the generator, got %d calls", gen.calls)
	}
	if !strings.Contains(answer, fallbackIntro) {
		t.Errorf("expected apology template in answer, got %q", answer)
	}
	for _, want := range []string{"A", "B", "C", "D", "E"} {
		if !strings.Contains(answer, "- "+want) {
			t.Errorf("expected suggestion %q in answer:\n%s", want, answer)
		}
	}
	if strings.Contains(answer, "- F") {
		t.Errorf("expected at most 5 suggestions:\n%s", answer)
	}
}

func TestHandleQueryFallbackOnAllBlankPassages(t *testing.T) {
	idx := &stubIndex{hits: []models.SearchResult{hit(1, "   "), hit(2, "")}}
	gen := &stubGenerator{}
	st := newMemStore()

	chat := NewChat(&stubEmbedder{}, idx, gen, st, 3)
	answer, err := chat.HandleQuery(context.Background(), "s1", "anything")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if gen.calls != 0 {
		t.Errorf("blank passages must trigger the fallback, got %d generator calls", gen.calls)
	}
	// No snapshot published yet: the default topic list backs the reply.
	for _, want := range defaultTopics {
		if !strings.Contains(answer, want) {
			t.Errorf("expected default topic %q in fallback:\n%s", want, answer)
		}
	}
}

func TestHandleQueryHistoryOrdering(t *testing.T) {
	idx := &stubIndex{hits: []models.SearchResult{hit(1, "Some passage.")}}
	gen := &stubGenerator{answer: "The answer."}
	st := newMemStore()

	chat := NewChat(&stubEmbedder{}, idx, gen, st, 3)
	if _, err := chat.HandleQuery(context.Background(), "s1", "my question"); err != nil {
		t.Fatalf("query failed: %v", err)
	}

	turns, err := chat.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected exactly 2 turns, got %d", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[0].Text != "my question" {
		t.Errorf("expected user turn first, got %+v", turns[0])
	}
	if turns[1].Role != models.RoleBot || turns[1].Text != "The answer." {
		t.Errorf("expected bot turn second, got %+v", turns[1])
	}
}

func TestHandleQueryEmptyQueryValidation(t *testing.T) {
	st := newMemStore()
	chat := NewChat(&stubEmbedder{}, &stubIndex{}, &stubGenerator{}, st, 3)

	for _, q := range []string{"", "   "} {
		_, err := chat.HandleQuery(context.Background(), "s1", q)
		if !errors.Is(err, models.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}

	turns, _ := chat.History(context.Background(), "s1")
	if len(turns) != 0 {
		t.Errorf("validation failure must store no turns, got %d", len(turns))
	}
}

func TestHandleQueryEmbedFailure(t *testing.T) {
	st := newMemStore()
	chat := NewChat(&stubEmbedder{err: errStub}, &stubIndex{}, &stubGenerator{}, st, 3)

	_, err := chat.HandleQuery(context.Background(), "s1", "q")
	if !models.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if turns, _ := chat.History(context.Background(), "s1"); len(turns) != 0 {
		t.Errorf("failed request must store no turns, got %d", len(turns))
	}
}

func TestHandleQueryGeneratorFailureWritesNoTurns(t *testing.T) {
	idx := &stubIndex{hits: []models.SearchResult{hit(1, "Some passage.")}}
	gen := &stubGenerator{err: errStub}
	st := newMemStore()

	chat := NewChat(&stubEmbedder{}, idx, gen, st, 3)
	_, err := chat.HandleQuery(context.Background(), "s1", "q")
	if !models.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if turns, _ := chat.History(context.Background(), "s1"); len(turns) != 0 {
		t.Errorf("generator failure must store no turns, got %d", len(turns))
	}
}

func TestHandleQueryIndependentSessions(t *testing.T) {
	idx := &stubIndex{hits: []models.SearchResult{hit(1, "p")}}
	gen := &stubGenerator{answer: "a"}
	st := newMemStore()

	chat := NewChat(&stubEmbedder{}, idx, gen, st, 3)
	if _, err := chat.HandleQuery(context.Background(), "s1", "q1"); err != nil {
		t.Fatal(err)
	}
	if _, err := chat.HandleQuery(context.Background(), "s2", "q2"); err != nil {
		t.Fatal(err)
	}

	t1, _ := chat.History(context.Background(), "s1")
	t2, _ := chat.History(context.Background(), "s2")
	if len(t1) != 2 || len(t2) != 2 {
		t.Errorf("sessions must be independent, got %d and %d turns", len(t1), len(t2))
	}
	if t1[0].Text != "q1" || t2[0].Text != "q2" {
		t.Errorf("history crossed sessions: %v / %v", t1, t2)
	}
}

func TestClearSession(t *testing.T) {
	idx := &stubIndex{hits: []models.SearchResult{hit(1, "p")}}
	st := newMemStore()

	chat := NewChat(&stubEmbedder{}, idx, &stubGenerator{answer: "a"}, st, 3)
	if _, err := chat.HandleQuery(context.Background(), "s1", "q"); err != nil {
		t.Fatal(err)
	}
	if err := chat.ClearSession(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}

	turns, _ := chat.History(context.Background(), "s1")
	if len(turns) != 0 {
		t.Errorf("expected empty history after clear, got %d turns", len(turns))
	}
}
