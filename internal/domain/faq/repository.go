package faq

import "context"

// CatalogRepository encapsulates reads over the curated Q&A tables.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]QuestionSummary, error)
	GetAnswer(ctx context.Context, questionID int64) (string, bool, error)
	ListQuestions(ctx context.Context) ([]Question, error)
}
