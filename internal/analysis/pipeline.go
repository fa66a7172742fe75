package analysis

import (
	"context"

	"aidebater/db"
	"aidebater/models"
	"aidebater/rating"
)

// Pipeline reads the dataset from a store and produces the analysis tables.
type Pipeline struct {
	store  db.Store
	rating *rating.Glicko2
}

func NewPipeline(store db.Store, system *rating.Glicko2) *Pipeline {
	if system == nil {
		system = rating.New(nil)
	}
	return &Pipeline{store: store, rating: system}
}

// Judgements returns every enriched judgement row with its normalised score.
func (p *Pipeline) Judgements(ctx context.Context) ([]models.EnrichedJudgementRow, error) {
	rows, err := p.store.LoadEnrichedJudgements(ctx)
	if err != nil {
		return nil, err
	}
	return Normalise(rows), nil
}

// Votes returns every vote with its ordinal label.
func (p *Pipeline) Votes(ctx context.Context) ([]models.ResolvedVote, error) {
	rows, err := p.store.LoadEnrichedJudgements(ctx)
	if err != nil {
		return nil, err
	}
	votes, err := p.store.LoadVotes(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveVotes(votes, KnownJudgements(rows)), nil
}

// Leaderboard rates every agent entity from the stored judgements.
func (p *Pipeline) Leaderboard(ctx context.Context) ([]models.AgentRating, error) {
	rows, err := p.store.LoadEnrichedJudgements(ctx)
	if err != nil {
		return nil, err
	}
	return Leaderboard(rows, p.rating), nil
}
