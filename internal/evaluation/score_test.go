package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormops-backend/internal/model"
)

var criteria = []model.EvaluationCriterion{
	{ID: 1, Name: "Cleanliness", Weight: 2, MaxScore: 10},
	{ID: 2, Name: "Cooperation", Weight: 1, MaxScore: 10},
}

func TestWeightedScore(t *testing.T) {
	testCases := []struct {
		name   string
		scores map[int64]float64
		want   float64
	}{
		{"full marks", map[int64]float64{1: 10, 2: 10}, 10},
		{"weights apply", map[int64]float64{1: 9, 2: 3}, 7}, // (2*9+1*3)/3
		{"missing criterion counts as zero", map[int64]float64{1: 6}, 4},
		{"scores clamp to max", map[int64]float64{1: 50, 2: 10}, 10},
		{"negative scores clamp to zero", map[int64]float64{1: -5, 2: 3}, 1},
		{"empty map", map[int64]float64{}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, WeightedScore(criteria, tc.scores), 1e-9)
		})
	}
}

func TestWeightedScoreZeroWeights(t *testing.T) {
	zero := []model.EvaluationCriterion{{ID: 1, Weight: 0, MaxScore: 10}}
	assert.Zero(t, WeightedScore(zero, map[int64]float64{1: 10}))
}

func TestParseScores(t *testing.T) {
	scores, err := ParseScores(`{"1": 8.5, "2": 6}`)
	require.NoError(t, err)
	assert.Equal(t, map[int64]float64{1: 8.5, 2: 6}, scores)

	_, err = ParseScores(`not json`)
	assert.Error(t, err)

	_, err = ParseScores(`{"abc": 1}`)
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	occupants := []model.Occupant{
		{ID: 100, FullName: "Asha"},
		{ID: 101, FullName: "Biko"},
		{ID: 102, FullName: "Chen"},
	}
	submissions := []model.EvaluationSubmission{
		{OccupantID: 100, SubmittedBy: 1, Scores: `{"1": 8, "2": 8}`},
		{OccupantID: 100, SubmittedBy: 2, Scores: `{"1": 6, "2": 6}`},
		{OccupantID: 101, SubmittedBy: 1, Scores: `{"1": 9, "2": 9}`},
		{OccupantID: 101, SubmittedBy: 2, Scores: `bad payload`}, // skipped
	}

	results := Rank(criteria, occupants, submissions)
	require.Len(t, results, 3)

	// Biko: single valid submission scoring 9. Asha: average of 8 and 6 = 7.
	assert.Equal(t, int64(101), results[0].OccupantID)
	assert.InDelta(t, 9, results[0].Score, 1e-9)
	assert.Equal(t, 1, results[0].Submissions)

	assert.Equal(t, int64(100), results[1].OccupantID)
	assert.InDelta(t, 7, results[1].Score, 1e-9)
	assert.Equal(t, 2, results[1].Submissions)

	// Chen has no submissions and ranks last with zero.
	assert.Equal(t, int64(102), results[2].OccupantID)
	assert.Zero(t, results[2].Score)
	assert.Equal(t, 3, results[2].Rank)
}

func TestRankTieBrokenByName(t *testing.T) {
	occupants := []model.Occupant{
		{ID: 1, FullName: "Zola"},
		{ID: 2, FullName: "Abel"},
	}
	results := Rank(criteria, occupants, nil)
	assert.Equal(t, "Abel", results[0].OccupantName)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
}
