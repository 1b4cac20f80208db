package models

// PointPayload is the metadata stored alongside each vector in the
// index. Text is what gets quoted back as a passage at query time.
type PointPayload struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SearchResult is a single similarity search hit, ordered by score.
type SearchResult struct {
	ID      uint64       `json:"id"`
	Score   float32      `json:"score"`
	Payload PointPayload `json:"payload"`
}
