// Package analysis turns the persisted debate dataset into comparable tables:
// per-judge normalised scores, resolved votes and an agent leaderboard.
package analysis

import (
	"aidebater/models"
)

// DegenerateScore is the normalised score given to every row of a group whose
// scores are all equal.
const DegenerateScore = 0.5

type scoreGroup struct {
	judgeKnown bool
	judge      string
	category   string
}

func groupOf(r models.EnrichedJudgementRow) scoreGroup {
	g := scoreGroup{category: r.Category}
	if r.JudgeEntity != nil {
		g.judgeKnown = true
		g.judge = *r.JudgeEntity
	}
	return g
}

// Normalise min-max scales Score within each (judge entity, category) group
// and returns a copy of rows with NormalisedScore set. Rows whose judge is
// unregistered form their own group.
func Normalise(rows []models.EnrichedJudgementRow) []models.EnrichedJudgementRow {
	type bounds struct{ min, max float64 }
	ranges := make(map[scoreGroup]bounds)
	for _, r := range rows {
		g := groupOf(r)
		b, ok := ranges[g]
		if !ok {
			ranges[g] = bounds{min: r.Score, max: r.Score}
			continue
		}
		if r.Score < b.min {
			b.min = r.Score
		}
		if r.Score > b.max {
			b.max = r.Score
		}
		ranges[g] = b
	}

	out := make([]models.EnrichedJudgementRow, len(rows))
	for i, r := range rows {
		b := ranges[groupOf(r)]
		score := DegenerateScore
		if b.max > b.min {
			score = (r.Score - b.min) / (b.max - b.min)
		}
		r.NormalisedScore = &score
		out[i] = r
	}
	return out
}
