package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	v := []float32{0.2, 0.5, 0.8}
	require.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_OrthogonalVectors(t *testing.T) {
	require.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosine_OppositeVectors(t *testing.T) {
	require.InDelta(t, -1.0, Cosine([]float32{1, 2}, []float32{-1, -2}), 1e-9)
}

func TestCosine_Symmetry(t *testing.T) {
	a := []float32{0.1, 0.9, 0.3}
	b := []float32{0.7, 0.2, 0.5}
	require.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_ZeroNormFallsBackToZero(t *testing.T) {
	require.Zero(t, Cosine([]float32{0, 0, 0}, []float32{1, 2, 3}))
	require.Zero(t, Cosine(nil, []float32{1}))
	require.Zero(t, Cosine(nil, nil))
}

func TestCosine_UsesShorterPrefix(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0, 999, 999}
	require.InDelta(t, 1.0, Cosine(a, b), 1e-9)
}

func TestRank_SortsByScoreDescending(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Match: Match{QuestionID: 1, Question: "far"}, Vector: []float32{0, 1}},
		{Match: Match{QuestionID: 2, Question: "close"}, Vector: []float32{1, 0}},
		{Match: Match{QuestionID: 3, Question: "middle"}, Vector: []float32{1, 1}},
	}

	matches := Rank(query, candidates, -1, 0)
	require.Len(t, matches, 3)
	require.Equal(t, int64(2), matches[0].QuestionID)
	require.Equal(t, int64(3), matches[1].QuestionID)
	require.Equal(t, int64(1), matches[2].QuestionID)
	require.True(t, matches[0].Score >= matches[1].Score)
	require.True(t, matches[1].Score >= matches[2].Score)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Match: Match{QuestionID: 10}, Vector: []float32{2, 0}},
		{Match: Match{QuestionID: 20}, Vector: []float32{5, 0}},
		{Match: Match{QuestionID: 30}, Vector: []float32{1, 0}},
	}

	matches := Rank(query, candidates, 0, 0)
	require.Len(t, matches, 3)
	require.Equal(t, int64(10), matches[0].QuestionID)
	require.Equal(t, int64(20), matches[1].QuestionID)
	require.Equal(t, int64(30), matches[2].QuestionID)
}

func TestRank_DropsScoresBelowThreshold(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Match: Match{QuestionID: 1}, Vector: []float32{1, 0}},
		{Match: Match{QuestionID: 2}, Vector: []float32{0, 1}},
	}

	matches := Rank(query, candidates, 0.5, 0)
	require.Len(t, matches, 1)
	require.Equal(t, int64(1), matches[0].QuestionID)
}

func TestRank_ThresholdIsInclusive(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Match: Match{QuestionID: 1}, Vector: []float32{1, 0}},
	}

	matches := Rank(query, candidates, 1.0, 0)
	require.Len(t, matches, 1)
}

func TestRank_TruncatesToTopK(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Match: Match{QuestionID: 1}, Vector: []float32{1, 0.1}},
		{Match: Match{QuestionID: 2}, Vector: []float32{1, 0.2}},
		{Match: Match{QuestionID: 3}, Vector: []float32{1, 0.3}},
	}

	matches := Rank(query, candidates, -1, 2)
	require.Len(t, matches, 2)
	require.Equal(t, int64(1), matches[0].QuestionID)
	require.Equal(t, int64(2), matches[1].QuestionID)
}

func TestRank_EmptyCandidates(t *testing.T) {
	require.Empty(t, Rank([]float32{1}, nil, 0, 5))
}

func TestNormalizeQuery_CollapsesCaseAndPunctuation(t *testing.T) {
	require.Equal(t, "visa", normalizeQuery("  Visa?  "))
	require.Equal(t, "how do i apply", normalizeQuery("How do I apply?!"))
	require.Equal(t, "german sim card", normalizeQuery("German   SIM-card"))
	require.Equal(t, "", normalizeQuery("  ?!  "))
}
