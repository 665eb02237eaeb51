package store

// Document is a generic retrievable unit of text. Chunks produced by the
// splitter and hits returned by the vector index both use this shape.
type Document struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Score    float32                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}
