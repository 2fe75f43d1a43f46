package faqrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/crobro234/wuebuddy/internal/domain/faq"
	"github.com/crobro234/wuebuddy/internal/domain/search"
)

// PostgresCatalog implements faq.CatalogRepository using pgx.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog constructs the repository.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

// ListCategories returns all categories in insertion order.
func (r *PostgresCatalog) ListCategories(ctx context.Context) ([]faq.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []faq.Category
	for rows.Next() {
		var category faq.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

// ListQuestionsByCategory returns the listing shape for one category.
func (r *PostgresCatalog) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]faq.QuestionSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question
		FROM questions
		WHERE category_id = $1
		ORDER BY id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []faq.QuestionSummary
	for rows.Next() {
		var summary faq.QuestionSummary
		if err := rows.Scan(&summary.ID, &summary.Question); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// GetAnswer fetches the curated answer for one question.
func (r *PostgresCatalog) GetAnswer(ctx context.Context, questionID int64) (string, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT answer
		FROM questions
		WHERE id = $1
		LIMIT 1
	`, questionID)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var answer string
	if err := rows.Scan(&answer); err != nil {
		return "", false, err
	}
	return answer, true, rows.Err()
}

// ListQuestions returns every stored question row.
func (r *PostgresCatalog) ListQuestions(ctx context.Context) ([]faq.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, question, answer
		FROM questions
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []faq.Question
	for rows.Next() {
		var question faq.Question
		if err := rows.Scan(&question.ID, &question.CategoryID, &question.Question, &question.Answer); err != nil {
			return nil, err
		}
		out = append(out, question)
	}
	return out, rows.Err()
}

var _ faq.CatalogRepository = (*PostgresCatalog)(nil)

// PostgresEmbeddings implements search.EmbeddingRepository on pgvector.
type PostgresEmbeddings struct {
	pool *pgxpool.Pool
}

// NewPostgresEmbeddings constructs the repository.
func NewPostgresEmbeddings(pool *pgxpool.Pool) *PostgresEmbeddings {
	return &PostgresEmbeddings{pool: pool}
}

// ListVectors loads every stored question vector keyed by question id.
func (r *PostgresEmbeddings) ListVectors(ctx context.Context) (map[int64][]float32, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT question_id, embedding
		FROM question_embeddings
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]float32)
	for rows.Next() {
		var (
			questionID int64
			vector     pgvector.Vector
		)
		if err := rows.Scan(&questionID, &vector); err != nil {
			return nil, err
		}
		out[questionID] = vector.Slice()
	}
	return out, rows.Err()
}

// ReplaceAll swaps the full embedding set in one transaction.
func (r *PostgresEmbeddings) ReplaceAll(ctx context.Context, vectors map[int64][]float32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM question_embeddings`); err != nil {
		return err
	}
	for questionID, vector := range vectors {
		if _, err := tx.Exec(ctx, `
			INSERT INTO question_embeddings (question_id, embedding)
			VALUES ($1, $2)
		`, questionID, pgvector.NewVector(vector)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

var _ search.EmbeddingRepository = (*PostgresEmbeddings)(nil)
