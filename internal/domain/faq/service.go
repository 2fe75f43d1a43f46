package faq

import (
	"context"
	"log/slog"

	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

// Service exposes the FAQ catalog.
type Service interface {
	Categories(ctx context.Context) ([]Category, error)
	Questions(ctx context.Context, categoryID int64) ([]QuestionSummary, error)
	Answer(ctx context.Context, questionID int64) (AnswerView, error)
}

type service struct {
	repo   CatalogRepository
	logger *slog.Logger
}

// NewService wires up the FAQ catalog domain.
func NewService(repo CatalogRepository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "faq.service"),
	}
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to list categories", err)
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

func (s *service) Questions(ctx context.Context, categoryID int64) ([]QuestionSummary, error) {
	questions, err := s.repo.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to list questions", err)
	}
	// Unknown categories yield an empty listing, not an error.
	if questions == nil {
		questions = []QuestionSummary{}
	}
	return questions, nil
}

func (s *service) Answer(ctx context.Context, questionID int64) (AnswerView, error) {
	answer, found, err := s.repo.GetAnswer(ctx, questionID)
	if err != nil {
		return AnswerView{}, apperrors.Wrap("faq_error", "failed to fetch answer", err)
	}
	if !found {
		return AnswerView{}, apperrors.Wrap("not_found", "no answer for that question", nil)
	}
	return AnswerView{Answer: answer}, nil
}
