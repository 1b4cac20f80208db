package models

import (
	"strings"
	"time"
)

// Article is one candidate story returned by the news feed.
// Identity within an ingestion run is the URL.
type Article struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// EmbeddingText is the text sent to the embedding model: title and
// description joined and trimmed. Empty result means the article
// carries no embeddable content and must be skipped.
func (a Article) EmbeddingText() string {
	return strings.TrimSpace(a.Title + " " + a.Description)
}
