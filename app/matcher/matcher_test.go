package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name, query string
		want        float64
	}{
		{"Halo Infinite", "Halo Infinite", 1.0},
		{"HALO INFINITE", "halo infinite", 1.0},
		{"Halo Infinite: Campaign Evolved", "Halo Infinite", 0.9},
		{"Halo: The Master Chief Collection", "Halo Infinite", 0.5},
		{"Mass Effect", "Expected Game Title", 0},
		{"Expected Something", "Expected Game Title", 1.0 / 3},
		{"Spider-Man", "Marvel's Spider Man", 2.0 / 3},
		{"", "Halo", 0},
		{"Halo", "", 0},
		{"Halo", " - ", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name+"|"+tc.query, func(t *testing.T) {
			assert.InDelta(t, tc.want, Score(tc.name, tc.query), 1e-9)
		})
	}
}

func TestBestPicksHighestScore(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Name: "Halo: The Master Chief Collection"},
		{ID: "2", Name: "Halo Infinite"},
		{ID: "3", Name: "Halo Infinite Deluxe"},
	}

	best, score, ok := Best(candidates, "Halo Infinite")
	require.True(t, ok)
	assert.Equal(t, "2", best.ID)
	assert.Equal(t, 1.0, score)
}

func TestBestKeepsFirstOnTie(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Name: "Doom Eternal"},
		{ID: "b", Name: "Doom 64"},
		{ID: "c", Name: "Doom Eternal"},
	}

	best, _, ok := Best(candidates, "Doom Eternal")
	require.True(t, ok)
	assert.Equal(t, "a", best.ID)
}

func TestBestFallsBackToFirstOnLowConfidence(t *testing.T) {
	candidates := []Candidate{
		{ID: "first", Name: "Completely Unrelated"},
		{ID: "second", Name: "Expected Something"},
	}

	best, score, ok := Best(candidates, "Expected Game Title")
	require.True(t, ok)
	assert.Equal(t, "first", best.ID)
	assert.Less(t, score, LowConfidenceThreshold)
}

func TestBestSingleCandidate(t *testing.T) {
	best, _, ok := Best([]Candidate{{ID: "only", Name: "Nothing Alike"}}, "Halo")
	require.True(t, ok)
	assert.Equal(t, "only", best.ID)
}

func TestBestEmpty(t *testing.T) {
	_, _, ok := Best(nil, "Halo")
	assert.False(t, ok)
}
