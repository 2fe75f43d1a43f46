package faqrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/crobro234/wuebuddy/internal/domain/faq"
	"github.com/crobro234/wuebuddy/internal/domain/search"
)

// MemoryCatalog is an in-memory faq.CatalogRepository used for tests/dev.
type MemoryCatalog struct {
	mu         sync.RWMutex
	nextID     int64
	nextCatID  int64
	categories map[int64]faq.Category
	questions  map[int64]faq.Question
}

// NewMemoryCatalog constructs an empty catalog backed by memory.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		nextID:     1,
		nextCatID:  1,
		categories: make(map[int64]faq.Category),
		questions:  make(map[int64]faq.Question),
	}
}

// AddCategory inserts a category and returns it.
func (r *MemoryCatalog) AddCategory(name string) faq.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	category := faq.Category{ID: r.nextCatID, Name: name}
	r.nextCatID++
	r.categories[category.ID] = category
	return category
}

// AddQuestion inserts a question row and returns it.
func (r *MemoryCatalog) AddQuestion(categoryID int64, question, answer string) faq.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := faq.Question{ID: r.nextID, CategoryID: categoryID, Question: question, Answer: answer}
	r.nextID++
	r.questions[row.ID] = row
	return row
}

// ListCategories implements faq.CatalogRepository.
func (r *MemoryCatalog) ListCategories(_ context.Context) ([]faq.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faq.Category, 0, len(r.categories))
	for _, category := range r.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListQuestionsByCategory implements faq.CatalogRepository.
func (r *MemoryCatalog) ListQuestionsByCategory(_ context.Context, categoryID int64) ([]faq.QuestionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []faq.QuestionSummary
	for _, question := range r.questions {
		if question.CategoryID == categoryID {
			out = append(out, faq.QuestionSummary{ID: question.ID, Question: question.Question})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetAnswer implements faq.CatalogRepository.
func (r *MemoryCatalog) GetAnswer(_ context.Context, questionID int64) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	question, ok := r.questions[questionID]
	if !ok {
		return "", false, nil
	}
	return question.Answer, true, nil
}

// ListQuestions implements faq.CatalogRepository.
func (r *MemoryCatalog) ListQuestions(_ context.Context) ([]faq.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faq.Question, 0, len(r.questions))
	for _, question := range r.questions {
		out = append(out, question)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ faq.CatalogRepository = (*MemoryCatalog)(nil)

// Seed loads the same starter catalog the postgres bootstrap installs.
func (r *MemoryCatalog) Seed() {
	visa := r.AddCategory("Visa")
	r.AddQuestion(visa.ID, "How do I book a visa interview?", "Book a Termin on the Auslaenderbehoerde website and bring your passport, enrollment certificate, and proof of funds.")
	r.AddQuestion(visa.ID, "Where do I pick up my residence permit?", "At the Service Point inside the Auslaenderbehoerde building, after you receive the pickup notification letter.")
	phone := r.AddCategory("Phone & SIM")
	r.AddQuestion(phone.ID, "How do I get a German phone number?", "Buy an Aldi Talk SIM at REWE or Aldi, then register it online with your passport before it activates.")
}

// MemoryEmbeddings is an in-memory search.EmbeddingRepository.
type MemoryEmbeddings struct {
	mu      sync.RWMutex
	vectors map[int64][]float32
}

// NewMemoryEmbeddings constructs an empty embedding store.
func NewMemoryEmbeddings() *MemoryEmbeddings {
	return &MemoryEmbeddings{vectors: make(map[int64][]float32)}
}

// ListVectors implements search.EmbeddingRepository.
func (r *MemoryEmbeddings) ListVectors(_ context.Context) (map[int64][]float32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64][]float32, len(r.vectors))
	for id, vector := range r.vectors {
		out[id] = append([]float32(nil), vector...)
	}
	return out, nil
}

// ReplaceAll implements search.EmbeddingRepository. The map swap keeps the
// replacement atomic for concurrent readers.
func (r *MemoryEmbeddings) ReplaceAll(_ context.Context, vectors map[int64][]float32) error {
	next := make(map[int64][]float32, len(vectors))
	for id, vector := range vectors {
		next[id] = append([]float32(nil), vector...)
	}
	r.mu.Lock()
	r.vectors = next
	r.mu.Unlock()
	return nil
}

var _ search.EmbeddingRepository = (*MemoryEmbeddings)(nil)
