package analysis

import (
	"sort"

	"aidebater/models"
	"aidebater/rating"
)

// matchup is one judgement seen as a match between the two sides.
type matchup struct {
	proposer, opponent string // entities
	proposerTotal      float64
	opponentTotal      float64
	scored             bool
}

// matchups folds judgement rows into one match per judgement, in order of
// first appearance. Judgements whose sides cannot be resolved to two distinct
// entities are dropped.
func matchups(rows []models.EnrichedJudgementRow) []matchup {
	var order []string
	byID := make(map[string]*matchup)
	for _, r := range rows {
		if r.ModelProposing == nil || r.ModelOpposing == nil || r.ProposerEntity == nil || r.OpponentEntity == nil {
			continue
		}
		m, ok := byID[r.JudgementID]
		if !ok {
			m = &matchup{proposer: *r.ProposerEntity, opponent: *r.OpponentEntity}
			byID[r.JudgementID] = m
			order = append(order, r.JudgementID)
		}
		switch r.TeamID {
		case *r.ModelProposing:
			m.proposerTotal += r.Score
			m.scored = true
		case *r.ModelOpposing:
			m.opponentTotal += r.Score
			m.scored = true
		}
	}

	out := make([]matchup, 0, len(order))
	for _, id := range order {
		m := byID[id]
		if m.scored && m.proposer != m.opponent {
			out = append(out, *m)
		}
	}
	return out
}

func (m matchup) outcome() float64 {
	switch {
	case m.proposerTotal > m.opponentTotal:
		return rating.Win
	case m.proposerTotal < m.opponentTotal:
		return rating.Loss
	default:
		return rating.Draw
	}
}

// Leaderboard replays every judgement as a Glicko-2 match between the
// proposer and opponent entities, the side with the higher summed score
// winning. Ratings are returned best first.
func Leaderboard(rows []models.EnrichedJudgementRow, system *rating.Glicko2) []models.AgentRating {
	if system == nil {
		system = rating.New(nil)
	}
	contenders := make(map[string]*rating.Contender)
	stats := make(map[string]*models.AgentRating)
	get := func(entity string) (*rating.Contender, *models.AgentRating) {
		if _, ok := contenders[entity]; !ok {
			contenders[entity] = system.NewContender()
			stats[entity] = &models.AgentRating{ModelEntity: entity}
		}
		return contenders[entity], stats[entity]
	}

	for _, m := range matchups(rows) {
		pc, ps := get(m.proposer)
		oc, os := get(m.opponent)
		outcome := m.outcome()
		system.UpdateMatch(pc, oc, outcome)

		ps.Matches++
		os.Matches++
		switch outcome {
		case rating.Win:
			ps.Wins++
			os.Losses++
		case rating.Loss:
			ps.Losses++
			os.Wins++
		default:
			ps.Draws++
			os.Draws++
		}
	}

	board := make([]models.AgentRating, 0, len(stats))
	for entity, s := range stats {
		c := contenders[entity]
		s.Rating, s.RD, s.Volatility = c.Rating, c.RD, c.Volatility
		board = append(board, *s)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Rating != board[j].Rating {
			return board[i].Rating > board[j].Rating
		}
		return board[i].ModelEntity < board[j].ModelEntity
	})
	return board
}
