package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"news-rag-backend/internal/config"
)

func testClient(srvURL string) *Client {
	return NewClient(&config.Config{
		GNewsAPIKey:   "test-key",
		GNewsEndpoint: srvURL,
		GNewsLang:     "en",
		GNewsPageSize: 10,
	})
}

func TestFetchPageParsesArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("token") != "test-key" {
			t.Errorf("missing token param, got %q", q.Get("token"))
		}
		if q.Get("page") != "2" {
			t.Errorf("expected page=2, got %q", q.Get("page"))
		}
		if q.Get("max") != "10" {
			t.Errorf("expected max=10, got %q", q.Get("max"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalArticles": 2,
			"articles": [
				{"title": "T1", "description": "D1", "url": "https://example.com/1", "publishedAt": "2025-06-01T10:00:00Z"},
				{"title": "T2", "description": "", "url": "https://example.com/2"}
			]
		}`))
	}))
	defer srv.Close()

	articles, err := testClient(srv.URL).FetchPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "T1" || articles[0].URL != "https://example.com/1" {
		t.Errorf("unexpected first article: %+v", articles[0])
	}
	if articles[0].LastModified == nil {
		t.Errorf("expected publishedAt mapped to LastModified")
	}
	if articles[1].LastModified != nil {
		t.Errorf("expected nil LastModified for missing publishedAt")
	}
}

func TestFetchPageEmptyMeansExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalArticles": 0, "articles": []}`))
	}))
	defer srv.Close()

	articles, err := testClient(srv.URL).FetchPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("empty page must not be an error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %d", len(articles))
	}
}

func TestFetchPageUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).FetchPage(context.Background(), 1); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
