package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/crobro234/wuebuddy/internal/domain/faq"
	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

// Config holds runtime knobs for semantic search.
type Config struct {
	DefaultTopK         int
	SimilarityThreshold float64
	TrendingLimit       int
}

// Service retrieves stored Q&A pairs relevant to a free-form query.
type Service interface {
	// Search serves the public search endpoint with the configured threshold.
	Search(ctx context.Context, query string, topK int) ([]Match, error)
	// Retrieve returns grounding context for the chat responder. It never
	// fails on an empty embedding store.
	Retrieve(ctx context.Context, query string, topK int, threshold float64) ([]Match, error)
	// Rebuild recomputes every stored embedding and returns the new count.
	Rebuild(ctx context.Context) (int, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

type service struct {
	cfg        Config
	catalog    faq.CatalogRepository
	embeddings EmbeddingRepository
	embedder   Embedder
	trending   TrendingStore
	logger     *slog.Logger
}

// NewService wires the retriever against catalog and embedding storage.
func NewService(cfg Config, catalog faq.CatalogRepository, embeddings EmbeddingRepository, embedder Embedder, trending TrendingStore, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		catalog:    catalog,
		embeddings: embeddings,
		embedder:   embedder,
		trending:   trending,
		logger:     logger.With("component", "search.service"),
	}
}

func (s *service) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	questions, vectors, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) > 0 && len(vectors) == 0 {
		return nil, apperrors.Wrap("no_embeddings", "embeddings have not been built yet", nil)
	}

	matches, err := s.retrieve(ctx, query, questions, vectors, topK, s.cfg.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.trending.IncrementQuery(ctx, normalizeQuery(query), query); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}
	return matches, nil
}

func (s *service) Retrieve(ctx context.Context, query string, topK int, threshold float64) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Match{}, nil
	}
	questions, vectors, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	return s.retrieve(ctx, query, questions, vectors, topK, threshold)
}

func (s *service) Rebuild(ctx context.Context) (int, error) {
	questions, err := s.catalog.ListQuestions(ctx)
	if err != nil {
		return 0, apperrors.Wrap("search_error", "failed to load questions", err)
	}
	if len(questions) == 0 {
		if err := s.embeddings.ReplaceAll(ctx, map[int64][]float32{}); err != nil {
			return 0, apperrors.Wrap("search_error", "failed to clear embeddings", err)
		}
		return 0, nil
	}

	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Question
	}
	embedded, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, apperrors.Wrap("embedding_error", "embedding provider failed", err)
	}
	if len(embedded) != len(questions) {
		return 0, apperrors.Wrap("embedding_error", "embedding count mismatch", errors.New("provider returned partial result"))
	}

	vectors := make(map[int64][]float32, len(questions))
	for i, q := range questions {
		vectors[q.ID] = embedded[i]
	}
	if err := s.embeddings.ReplaceAll(ctx, vectors); err != nil {
		return 0, apperrors.Wrap("search_error", "failed to replace embeddings", err)
	}
	s.logger.Info("embeddings rebuilt", "count", len(vectors))
	return len(vectors), nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	queries, err := s.trending.TopQueries(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, apperrors.Wrap("search_error", "failed to load trending queries", err)
	}
	if queries == nil {
		queries = []TrendingQuery{}
	}
	return queries, nil
}

func (s *service) loadCandidates(ctx context.Context) ([]faq.Question, map[int64][]float32, error) {
	questions, err := s.catalog.ListQuestions(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap("search_error", "failed to load questions", err)
	}
	vectors, err := s.embeddings.ListVectors(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap("search_error", "failed to load embeddings", err)
	}
	return questions, vectors, nil
}

// retrieve embeds the query, fills in vectors for questions that have none
// stored, and ranks the result. Stored questions without an embedding are
// embedded on demand rather than skipped.
func (s *service) retrieve(ctx context.Context, query string, questions []faq.Question, vectors map[int64][]float32, topK int, threshold float64) ([]Match, error) {
	if len(questions) == 0 {
		return []Match{}, nil
	}

	queryVector, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	missing := make([]faq.Question, 0)
	for _, q := range questions {
		if _, ok := vectors[q.ID]; !ok {
			missing = append(missing, q)
		}
	}
	if len(missing) > 0 {
		filled, err := s.embedMissing(ctx, missing)
		if err != nil {
			return nil, err
		}
		for id, vec := range filled {
			vectors[id] = vec
		}
	}

	candidates := make([]Candidate, 0, len(questions))
	for _, q := range questions {
		vec, ok := vectors[q.ID]
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Match:  Match{QuestionID: q.ID, Question: q.Question, Answer: q.Answer},
			Vector: vec,
		})
	}
	return Rank(queryVector, candidates, threshold, topK), nil
}

func (s *service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embedded, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, apperrors.Wrap("embedding_error", "embedding provider failed", err)
	}
	if len(embedded) == 0 || len(embedded[0]) == 0 {
		return nil, apperrors.Wrap("embedding_error", "embedding response empty", nil)
	}
	return embedded[0], nil
}

func (s *service) embedMissing(ctx context.Context, missing []faq.Question) (map[int64][]float32, error) {
	texts := make([]string, len(missing))
	for i, q := range missing {
		texts[i] = q.Question
	}
	embedded, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, apperrors.Wrap("embedding_error", "embedding provider failed", err)
	}
	if len(embedded) != len(missing) {
		return nil, apperrors.Wrap("embedding_error", "embedding count mismatch", errors.New("provider returned partial result"))
	}
	out := make(map[int64][]float32, len(missing))
	for i, q := range missing {
		out[q.ID] = embedded[i]
	}
	return out, nil
}
