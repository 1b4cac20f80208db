// Package news fetches candidate articles from the GNews API.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"news-rag-backend/internal/config"
	"news-rag-backend/models"
)

type gnewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

// Client fetches pages of top headlines. An empty page signals the
// source is exhausted, never an error.
type Client struct {
	apiKey   string
	endpoint string
	lang     string
	pageSize int
	http     *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:   cfg.GNewsAPIKey,
		endpoint: cfg.GNewsEndpoint,
		lang:     cfg.GNewsLang,
		pageSize: cfg.GNewsPageSize,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchPage returns one page of candidate articles. Pages are 1-based.
func (c *Client) FetchPage(ctx context.Context, page int) ([]models.Article, error) {
	params := url.Values{}
	params.Add("token", c.apiKey)
	params.Add("lang", c.lang)
	params.Add("max", strconv.Itoa(c.pageSize))
	params.Add("page", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s?%s", c.endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews error: %s", resp.Status)
	}

	var result gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	articles := make([]models.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		art := models.Article{
			URL:         a.URL,
			Title:       a.Title,
			Description: a.Description,
		}
		if !a.PublishedAt.IsZero() {
			t := a.PublishedAt
			art.LastModified = &t
		}
		articles = append(articles, art)
	}
	return articles, nil
}
