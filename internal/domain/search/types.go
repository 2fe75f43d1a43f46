package search

import "context"

// Match is a stored Q&A pair scored against a query.
type Match struct {
	QuestionID int64   `json:"-"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Score      float64 `json:"score"`
}

// TrendingQuery represents a frequently searched query.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Embedder produces embeddings for free form text, one vector per input
// in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingRepository persists per-question vectors.
type EmbeddingRepository interface {
	ListVectors(ctx context.Context) (map[int64][]float32, error)
	ReplaceAll(ctx context.Context, vectors map[int64][]float32) error
}

// TrendingStore counts search queries for the trending listing.
type TrendingStore interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
