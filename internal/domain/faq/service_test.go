package faq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

func TestCategories(t *testing.T) {
	repo := &fakeCatalog{categories: []Category{
		{ID: 1, Name: "Visa"},
		{ID: 2, Name: "Phone & SIM"},
	}}
	svc := NewService(repo, newTestLogger())

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Visa", categories[0].Name)
}

func TestCategories_EmptyCatalog(t *testing.T) {
	svc := NewService(&fakeCatalog{}, newTestLogger())

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.NotNil(t, categories)
	require.Empty(t, categories)
}

func TestQuestions_FiltersByCategory(t *testing.T) {
	repo := &fakeCatalog{questionsByCategory: map[int64][]QuestionSummary{
		1: {{ID: 10, Question: "How do I apply?"}},
	}}
	svc := NewService(repo, newTestLogger())

	questions, err := svc.Questions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, "How do I apply?", questions[0].Question)
}

func TestQuestions_UnknownCategoryYieldsEmptyList(t *testing.T) {
	svc := NewService(&fakeCatalog{}, newTestLogger())

	questions, err := svc.Questions(context.Background(), 999)
	require.NoError(t, err)
	require.NotNil(t, questions)
	require.Empty(t, questions)
}

func TestAnswer(t *testing.T) {
	repo := &fakeCatalog{answers: map[int64]string{10: "Book an appointment at the embassy."}}
	svc := NewService(repo, newTestLogger())

	answer, err := svc.Answer(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, "Book an appointment at the embassy.", answer.Answer)
}

func TestAnswer_UnknownQuestion(t *testing.T) {
	svc := NewService(&fakeCatalog{}, newTestLogger())

	_, err := svc.Answer(context.Background(), 999)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestAnswer_RepositoryFailure(t *testing.T) {
	svc := NewService(&fakeCatalog{err: errors.New("connection reset")}, newTestLogger())

	_, err := svc.Answer(context.Background(), 10)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "faq_error"))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCatalog struct {
	categories          []Category
	questionsByCategory map[int64][]QuestionSummary
	answers             map[int64]string
	err                 error
}

func (f *fakeCatalog) ListCategories(context.Context) ([]Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalog) ListQuestionsByCategory(_ context.Context, categoryID int64) ([]QuestionSummary, error) {
	return f.questionsByCategory[categoryID], f.err
}

func (f *fakeCatalog) GetAnswer(_ context.Context, questionID int64) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	answer, ok := f.answers[questionID]
	return answer, ok, nil
}

func (f *fakeCatalog) ListQuestions(context.Context) ([]Question, error) {
	return nil, f.err
}
