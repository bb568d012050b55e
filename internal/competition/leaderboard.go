// Package competition computes the ranked leaderboard of a
// competition-mode event from its raw score rows.
package competition

import (
	"sort"

	"dormops-backend/internal/model"
)

// Standing is one team's computed leaderboard row.
type Standing struct {
	TeamID       int64         `json:"teamId"`
	TeamName     string        `json:"teamName"`
	MemberCount  int           `json:"memberCount"`
	RankOverride *int          `json:"rankOverride,omitempty"`
	ByCategory   map[int64]int `json:"byCategory"`
	Total        int           `json:"total"`
	Rank         int           `json:"rank"`
}

// Leaderboard sums score rows per (team, category) and orders teams by:
// manual override rank ascending (missing sorts last), total points
// descending, per-category score descending in category sort order, member
// count descending, name ascending. Ranks are dense, 1..N.
func Leaderboard(teams []model.EventTeam, categories []model.EventScoreCategory, scores []model.EventScore) []Standing {
	// Categories in tie-break priority order.
	cats := make([]model.EventScoreCategory, len(categories))
	copy(cats, categories)
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].ID < cats[j].ID
	})

	standings := make([]Standing, 0, len(teams))
	byTeam := make(map[int64]*Standing, len(teams))
	for _, team := range teams {
		standings = append(standings, Standing{
			TeamID:       team.ID,
			TeamName:     team.Name,
			MemberCount:  team.MemberCount,
			RankOverride: team.RankOverride,
			ByCategory:   make(map[int64]int, len(cats)),
		})
		byTeam[team.ID] = &standings[len(standings)-1]
	}

	for _, score := range scores {
		s, ok := byTeam[score.TeamID]
		if !ok {
			continue // score row for a deleted team
		}
		s.ByCategory[score.CategoryID] += score.Points
		s.Total += score.Points
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		ao, bo := overrideOrLast(a.RankOverride), overrideOrLast(b.RankOverride)
		if ao != bo {
			return ao < bo
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		for _, cat := range cats {
			if a.ByCategory[cat.ID] != b.ByCategory[cat.ID] {
				return a.ByCategory[cat.ID] > b.ByCategory[cat.ID]
			}
		}
		if a.MemberCount != b.MemberCount {
			return a.MemberCount > b.MemberCount
		}
		return a.TeamName < b.TeamName
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// overrideOrLast maps a missing override to a value that sorts after every
// real override.
func overrideOrLast(override *int) int {
	if override == nil {
		return int(^uint(0) >> 1)
	}
	return *override
}
