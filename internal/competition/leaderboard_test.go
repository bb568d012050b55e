package competition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dormops-backend/internal/model"
)

func intPtr(v int) *int { return &v }

func TestLeaderboardOrdering(t *testing.T) {
	categories := []model.EventScoreCategory{
		{ID: 10, Name: "Drama", SortOrder: 1},
		{ID: 11, Name: "Quiz", SortOrder: 2},
	}

	testCases := []struct {
		name      string
		teams     []model.EventTeam
		scores    []model.EventScore
		wantOrder []int64
		wantRanks []int
	}{
		{
			name: "total points decides",
			teams: []model.EventTeam{
				{ID: 1, Name: "Alpha"},
				{ID: 2, Name: "Beta"},
			},
			scores: []model.EventScore{
				{TeamID: 1, CategoryID: 10, Points: 5},
				{TeamID: 2, CategoryID: 10, Points: 8},
			},
			wantOrder: []int64{2, 1},
			wantRanks: []int{1, 2},
		},
		{
			name: "tied total broken by higher priority category",
			teams: []model.EventTeam{
				{ID: 1, Name: "Alpha"},
				{ID: 2, Name: "Beta"},
			},
			scores: []model.EventScore{
				// Both total 10; Beta leads Drama (sort order 1).
				{TeamID: 1, CategoryID: 10, Points: 4},
				{TeamID: 1, CategoryID: 11, Points: 6},
				{TeamID: 2, CategoryID: 10, Points: 6},
				{TeamID: 2, CategoryID: 11, Points: 4},
			},
			wantOrder: []int64{2, 1},
			wantRanks: []int{1, 2},
		},
		{
			name: "category tie broken by member count then name",
			teams: []model.EventTeam{
				{ID: 1, Name: "Zeta", MemberCount: 4},
				{ID: 2, Name: "Alpha", MemberCount: 4},
				{ID: 3, Name: "Gamma", MemberCount: 6},
			},
			scores:    nil, // everyone zero
			wantOrder: []int64{3, 2, 1},
			wantRanks: []int{1, 2, 3},
		},
		{
			name: "manual override wins regardless of points",
			teams: []model.EventTeam{
				{ID: 1, Name: "Alpha"},
				{ID: 2, Name: "Beta", RankOverride: intPtr(1)},
			},
			scores: []model.EventScore{
				{TeamID: 1, CategoryID: 10, Points: 100},
			},
			wantOrder: []int64{2, 1},
			wantRanks: []int{1, 2},
		},
		{
			name: "score rows for unknown teams are ignored",
			teams: []model.EventTeam{
				{ID: 1, Name: "Alpha"},
			},
			scores: []model.EventScore{
				{TeamID: 99, CategoryID: 10, Points: 50},
				{TeamID: 1, CategoryID: 10, Points: 3},
			},
			wantOrder: []int64{1},
			wantRanks: []int{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			standings := Leaderboard(tc.teams, categories, tc.scores)

			gotOrder := make([]int64, len(standings))
			gotRanks := make([]int, len(standings))
			for i, s := range standings {
				gotOrder[i] = s.TeamID
				gotRanks[i] = s.Rank
			}
			assert.Equal(t, tc.wantOrder, gotOrder)
			assert.Equal(t, tc.wantRanks, gotRanks)
		})
	}
}

func TestLeaderboardAggregatesPerCategory(t *testing.T) {
	teams := []model.EventTeam{{ID: 1, Name: "Alpha"}}
	categories := []model.EventScoreCategory{{ID: 10, Name: "Drama", SortOrder: 1}}
	scores := []model.EventScore{
		{TeamID: 1, CategoryID: 10, Points: 3},
		{TeamID: 1, CategoryID: 10, Points: 4},
	}

	standings := Leaderboard(teams, categories, scores)
	assert.Equal(t, 7, standings[0].ByCategory[10])
	assert.Equal(t, 7, standings[0].Total)
}

func TestLeaderboardDeterministic(t *testing.T) {
	teams := []model.EventTeam{
		{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}, {ID: 3, Name: "Gamma"},
	}
	categories := []model.EventScoreCategory{{ID: 10, SortOrder: 1}}

	first := Leaderboard(teams, categories, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Leaderboard(teams, categories, nil))
	}
}
