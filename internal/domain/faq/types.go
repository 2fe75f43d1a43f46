package faq

// Category is a top level FAQ grouping.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// QuestionSummary is the listing shape returned per category.
type QuestionSummary struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
}

// Question is the full stored row including its curated answer.
type Question struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"categoryId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// AnswerView wraps a single answer payload.
type AnswerView struct {
	Answer string `json:"answer"`
}
