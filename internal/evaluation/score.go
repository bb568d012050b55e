// Package evaluation computes weighted occupant scores from peer
// evaluation submissions.
package evaluation

import (
	"encoding/json"
	"fmt"
	"sort"

	"dormops-backend/internal/model"
)

// Result is one occupant's computed standing in an evaluation cycle.
type Result struct {
	OccupantID   int64   `json:"occupantId"`
	OccupantName string  `json:"occupantName"`
	Score        float64 `json:"score"`
	Submissions  int     `json:"submissions"`
	Rank         int     `json:"rank"`
}

// WeightedScore computes Σ(weight·score)/Σweight for one submission's score
// map. Criteria missing from the map count as zero; scores above a
// criterion's maximum are clamped to it.
func WeightedScore(criteria []model.EvaluationCriterion, scores map[int64]float64) float64 {
	var weightSum, total float64
	for _, c := range criteria {
		weightSum += c.Weight
		s := scores[c.ID]
		if c.MaxScore > 0 && s > float64(c.MaxScore) {
			s = float64(c.MaxScore)
		}
		if s < 0 {
			s = 0
		}
		total += c.Weight * s
	}
	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

// ParseScores decodes a submission's JSON score map keyed by criterion ID.
func ParseScores(raw string) (map[int64]float64, error) {
	var byKey map[string]float64
	if err := json.Unmarshal([]byte(raw), &byKey); err != nil {
		return nil, fmt.Errorf("invalid scores payload: %w", err)
	}
	scores := make(map[int64]float64, len(byKey))
	for k, v := range byKey {
		var id int64
		if _, err := fmt.Sscanf(k, "%d", &id); err != nil {
			return nil, fmt.Errorf("invalid criterion id %q", k)
		}
		scores[id] = v
	}
	return scores, nil
}

// Rank averages each occupant's weighted submission scores and orders the
// results by score descending, then name ascending. Ranks are dense.
// Submissions with malformed payloads are skipped.
func Rank(criteria []model.EvaluationCriterion, occupants []model.Occupant, submissions []model.EvaluationSubmission) []Result {
	type agg struct {
		sum   float64
		count int
	}
	byOccupant := make(map[int64]*agg)
	for _, sub := range submissions {
		scores, err := ParseScores(sub.Scores)
		if err != nil {
			continue
		}
		a := byOccupant[sub.OccupantID]
		if a == nil {
			a = &agg{}
			byOccupant[sub.OccupantID] = a
		}
		a.sum += WeightedScore(criteria, scores)
		a.count++
	}

	results := make([]Result, 0, len(occupants))
	for _, occ := range occupants {
		r := Result{OccupantID: occ.ID, OccupantName: occ.FullName}
		if a := byOccupant[occ.ID]; a != nil && a.count > 0 {
			r.Score = a.sum / float64(a.count)
			r.Submissions = a.count
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].OccupantName < results[j].OccupantName
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
