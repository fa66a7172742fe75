package db

import (
	"context"
	"errors"
	"fmt"

	"aidebater/models"
)

var (
	// ErrDiscourseExists is returned when a discourse id is appended twice.
	ErrDiscourseExists = errors.New("discourse already exists")
	// ErrNotFound is returned by single-row loads that match nothing.
	ErrNotFound = errors.New("not found")
)

// Store is the append-only persistence used by the debate passes and the
// analysis pipeline. Load* methods that return enriched rows perform left
// joins against the registered agents; unmatched joins yield nil fields.
type Store interface {
	AppendAgent(ctx context.Context, info models.AgentInfo) error
	AppendTopics(ctx context.Context, topics []models.Topic) error
	AppendDiscourse(ctx context.Context, d models.Discourse) error
	AppendArguments(ctx context.Context, discourseID string, args []models.Argument) error
	AppendJudgement(ctx context.Context, j models.Judgement) error
	AppendVote(ctx context.Context, v models.Vote) error

	HasDiscourse(ctx context.Context, discourseID string) (bool, error)
	LoadTopic(ctx context.Context, topicID string) (models.Topic, error)
	LoadTopics(ctx context.Context) ([]models.EnrichedTopic, error)
	LoadCompetitions(ctx context.Context) ([]models.EnrichedDiscourse, error)
	LoadDiscourse(ctx context.Context, discourseID string) ([]models.Argument, error)
	LoadJudgements(ctx context.Context, discourseID string) ([]models.Judgement, error)
	LoadEnrichedJudgements(ctx context.Context) ([]models.EnrichedJudgementRow, error)
	LoadVotes(ctx context.Context) ([]models.ResolvedVote, error)

	Close(ctx context.Context) error
}

// Open connects to the store selected by driver ("mongo" or "sqlite").
func Open(ctx context.Context, driver, uri, path string) (Store, error) {
	switch driver {
	case "mongo":
		return ConnectMongoDB(ctx, uri)
	case "sqlite":
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// groupJudgements folds flattened rows back into judgements, keeping the
// order in which each judgement first appears.
func groupJudgements(rows []models.JudgementRow) []models.Judgement {
	var out []models.Judgement
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.JudgementID]
		if !ok {
			i = len(out)
			index[r.JudgementID] = i
			out = append(out, models.Judgement{
				JudgementID:    r.JudgementID,
				DiscourseID:    r.DiscourseID,
				ModelIDJudging: r.ModelIDJudging,
			})
		}
		out[i].Rows = append(out[i].Rows, r.ScoreRow)
	}
	return out
}
