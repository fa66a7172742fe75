package debate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"aidebater/db"
	"aidebater/internal/agent"
	"aidebater/internal/analysis"
	"aidebater/internal/contract"
	"aidebater/models"
)

// ErrNoJudgements is returned when a vote is requested for a discourse that
// has not been judged.
var ErrNoJudgements = errors.New("discourse has no judgements")

// CreateTopics asks creator for debate topics and stores them with fresh
// topic ids. It returns no topics, without error, when the creator never
// produced a valid list.
func (o *Orchestrator) CreateTopics(ctx context.Context, creator *agent.Agent) ([]models.Topic, error) {
	if err := requireContract(creator, contract.KindTopicCreation); err != nil {
		return nil, err
	}
	if err := o.store.AppendAgent(ctx, creator.Info()); err != nil {
		return nil, err
	}

	out, ok, err := o.acquirer.Acquire(ctx, creator, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		o.logger.WithField("agent_id", creator.ID()).Warn("no topics created")
		return nil, nil
	}

	drafts := out.(contract.TopicList)
	topics := make([]models.Topic, 0, len(drafts))
	for i, d := range drafts {
		topics = append(topics, models.Topic{
			TopicID:  uuid.NewString(),
			ModelID:  creator.ID(),
			IthTopic: i,
			Subject:  d.Subject,
			Rational: d.Rational,
		})
	}
	if err := o.store.AppendTopics(ctx, topics); err != nil {
		return nil, err
	}
	o.logger.WithFields(logrus.Fields{"agent_id": creator.ID(), "topics": len(topics)}).Info("topics created")
	return topics, nil
}

func (o *Orchestrator) loadTranscript(ctx context.Context, discourseID string) ([]models.Argument, error) {
	args, err := o.store.LoadDiscourse(ctx, discourseID)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("discourse %s: %w", discourseID, db.ErrNotFound)
	}
	return args, nil
}

// Judge has judge score a stored discourse and persists the judgement. It
// returns nil, without error, when the judge never produced a valid scorecard.
func (o *Orchestrator) Judge(ctx context.Context, judge *agent.Agent, discourseID string) (*models.Judgement, error) {
	if err := requireContract(judge, contract.KindJudging); err != nil {
		return nil, err
	}
	args, err := o.loadTranscript(ctx, discourseID)
	if err != nil {
		return nil, err
	}
	if err := o.store.AppendAgent(ctx, judge.Info()); err != nil {
		return nil, err
	}

	log := o.logger.WithFields(logrus.Fields{"discourse_id": discourseID, "agent_id": judge.ID()})
	msgs := []agent.Message{{Role: agent.RoleUser, Content: RenderTranscript(args)}}
	out, ok, err := o.acquirer.Acquire(ctx, judge, msgs)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warn("no judgement produced")
		return nil, nil
	}

	card := out.(contract.Scorecard)
	j := models.Judgement{
		JudgementID:    uuid.NewString(),
		DiscourseID:    discourseID,
		ModelIDJudging: judge.ID(),
		Rows:           make([]models.ScoreRow, 0, len(card)),
	}
	totals := make(map[string]float64)
	for _, s := range card {
		j.Rows = append(j.Rows, models.ScoreRow{Category: s.Category, TeamID: s.TeamID, Score: s.Score, Rational: s.Rational})
		totals[s.TeamID] += s.Score
	}
	if err := o.store.AppendJudgement(ctx, j); err != nil {
		return nil, err
	}

	o.publish(ctx, discourseID, EventJudgement, JudgementPayload{
		JudgementID: j.JudgementID,
		Judge:       judge.Entity(),
		Totals:      totals,
	})
	log.WithField("judgement_id", j.JudgementID).Info("discourse judged")
	return &j, nil
}

// Vote shows voter the transcript and every stored judgement of the
// discourse, and persists the judgement it picks together with the candidate
// list it was shown. The returned label is the vote's ordinal resolution.
func (o *Orchestrator) Vote(ctx context.Context, voter *agent.Agent, discourseID string) (*models.Vote, string, error) {
	if err := requireContract(voter, contract.KindVoting); err != nil {
		return nil, "", err
	}
	args, err := o.loadTranscript(ctx, discourseID)
	if err != nil {
		return nil, "", err
	}
	judgements, err := o.store.LoadJudgements(ctx, discourseID)
	if err != nil {
		return nil, "", err
	}
	if len(judgements) == 0 {
		return nil, "", fmt.Errorf("discourse %s: %w", discourseID, ErrNoJudgements)
	}
	if err := o.store.AppendAgent(ctx, voter.Info()); err != nil {
		return nil, "", err
	}

	log := o.logger.WithFields(logrus.Fields{"discourse_id": discourseID, "agent_id": voter.ID()})
	msgs := []agent.Message{{Role: agent.RoleUser, Content: RenderBallot(args, judgements)}}
	out, ok, err := o.acquirer.Acquire(ctx, voter, msgs)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		log.Warn("no vote produced")
		return nil, "", nil
	}

	candidates := make([]string, 0, len(judgements))
	known := make(map[string]bool, len(judgements))
	for _, j := range judgements {
		candidates = append(candidates, j.JudgementID)
		known[j.JudgementID] = true
	}
	v := models.Vote{
		VoteID:        uuid.NewString(),
		DiscourseID:   discourseID,
		ModelIDVoting: voter.ID(),
		Candidates:    candidates,
		Chosen:        out.(contract.Verdict).JudgementID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := o.store.AppendVote(ctx, v); err != nil {
		return nil, "", err
	}
	label := analysis.ResolveVote(v.Candidates, v.Chosen, known)

	if o.ballots != nil {
		counted, err := o.ballots.Cast(ctx, discourseID, voter.ID(), label)
		switch {
		case err != nil:
			log.WithError(err).Warn("failed to tally ballot")
		case !counted:
			log.Info("voter already tallied for this discourse")
		}
	}
	o.publish(ctx, discourseID, EventVote, VotePayload{
		VoteID: v.VoteID,
		Voter:  voter.Entity(),
		Chosen: v.Chosen,
		Label:  label,
	})
	log.WithFields(logrus.Fields{"vote_id": v.VoteID, "label": label}).Info("vote recorded")
	return &v, label, nil
}
