package search

import (
	"math"
	"sort"
)

// Candidate pairs an item with its embedding before ranking.
type Candidate struct {
	Match  Match
	Vector []float32
}

// Cosine computes cosine similarity over the shorter common prefix of the
// two vectors. When either vector has zero norm the result is 0 rather than
// NaN; that is the documented fallback, not a real cosine.
func Cosine(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	den := math.Sqrt(normA) * math.Sqrt(normB)
	if den == 0 {
		return 0
	}
	return dot / den
}

// Rank scores every candidate against the query vector and returns matches
// sorted by score descending. Equal scores keep the input candidate order.
// Scores strictly below threshold are dropped; topK <= 0 disables truncation.
func Rank(query []float32, candidates []Candidate, threshold float64, topK int) []Match {
	scored := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		score := Cosine(query, candidate.Vector)
		if score < threshold {
			continue
		}
		match := candidate.Match
		match.Score = score
		scored = append(scored, match)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
