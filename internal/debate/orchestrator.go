// Package debate runs discourses between agents and the topic, judging and
// voting passes around them, and streams their progress.
package debate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"aidebater/db"
	"aidebater/internal/agent"
	"aidebater/internal/contract"
	"aidebater/models"
)

// DefaultRounds is the number of proposer/opponent exchanges in a discourse.
const DefaultRounds = 4

// ErrWrongContract is returned when an agent is bound to a contract of
// another kind than the pass needs.
var ErrWrongContract = errors.New("agent bound to the wrong contract")

// Options configures an Orchestrator. Zero values are valid.
type Options struct {
	Rounds  int
	Events  EventSink
	Ballots *BallotBox
	Logger  *logrus.Logger
}

// Orchestrator drives debates and the passes that create topics, judge
// discourses and vote on judgements.
type Orchestrator struct {
	store    db.Store
	acquirer *agent.Acquirer
	events   EventSink
	ballots  *BallotBox
	logger   *logrus.Logger
	rounds   int
}

func NewOrchestrator(store db.Store, acquirer *agent.Acquirer, opts Options) *Orchestrator {
	if opts.Rounds <= 0 {
		opts.Rounds = DefaultRounds
	}
	return &Orchestrator{
		store:    store,
		acquirer: acquirer,
		events:   opts.Events,
		ballots:  opts.Ballots,
		logger:   orDiscard(opts.Logger),
		rounds:   opts.Rounds,
	}
}

func orDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Result is a finished discourse with its arguments in turn order.
type Result struct {
	Discourse models.Discourse
	Arguments []models.Argument
}

// Gaps counts the turns recorded without an argument.
func (r Result) Gaps() int {
	n := 0
	for _, a := range r.Arguments {
		if a.Gap() {
			n++
		}
	}
	return n
}

func requireContract(a *agent.Agent, kind contract.Kind) error {
	c := a.Contract()
	if c == nil {
		return fmt.Errorf("agent %s: %w", a.ID(), agent.ErrNotInitialized)
	}
	if c.Kind() != kind {
		return fmt.Errorf("agent %s has a %s contract, need %s: %w", a.ID(), c.Kind(), kind, ErrWrongContract)
	}
	return nil
}

// RunDebate runs the configured number of rounds between proposer and
// opponent on topic. Each turn is persisted as soon as it is spoken; a turn
// whose retries are exhausted is recorded as a gap and the debate goes on.
//
// An unbound agent or an already stored discourse id aborts before any turn.
func (o *Orchestrator) RunDebate(ctx context.Context, topic models.Topic, proposer, opponent *agent.Agent) (*Result, error) {
	for _, a := range []*agent.Agent{proposer, opponent} {
		if err := requireContract(a, contract.KindDebate); err != nil {
			return nil, err
		}
	}

	d := models.Discourse{
		DiscourseID:    models.DiscourseID(topic.TopicID, proposer.ID(), opponent.ID()),
		TopicID:        topic.TopicID,
		ModelProposing: proposer.ID(),
		ModelOpposing:  opponent.ID(),
	}
	log := o.logger.WithField("discourse_id", d.DiscourseID)

	exists, err := o.store.HasDiscourse(ctx, d.DiscourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check discourse: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", db.ErrDiscourseExists, d.DiscourseID)
	}
	for _, a := range []*agent.Agent{proposer, opponent} {
		if err := o.store.AppendAgent(ctx, a.Info()); err != nil {
			return nil, err
		}
	}
	if err := o.store.AppendDiscourse(ctx, d); err != nil {
		return nil, err
	}
	o.publish(ctx, d.DiscourseID, EventDiscourseStarted, DiscoursePayload{
		DiscourseID: d.DiscourseID,
		TopicID:     d.TopicID,
		Proposer:    proposer.Entity(),
		Opponent:    opponent.Entity(),
	})
	log.WithFields(logrus.Fields{"proposer": proposer.Entity(), "opponent": opponent.Entity()}).Info("discourse started")

	res := &Result{Discourse: d}
	speakers := [...]*agent.Agent{Proposer: proposer, Opponent: opponent}
	for round := 0; round < o.rounds; round++ {
		for _, side := range [...]Side{Proposer, Opponent} {
			speaker := speakers[side]
			ith := len(res.Arguments)

			out, ok, err := o.acquirer.Acquire(ctx, speaker, RenderView(topic, res.Arguments, side))
			if err != nil {
				return res, fmt.Errorf("discourse %s turn %d: %w", d.DiscourseID, ith, err)
			}
			arg := models.Argument{
				DiscourseID:   d.DiscourseID,
				IthArgument:   ith,
				ArgumentID:    models.ArgumentID(d.DiscourseID, ith),
				ModelSpeaking: speaker.ID(),
			}
			if ok {
				text := string(out.(contract.Argument))
				arg.Argument = &text
			} else {
				log.WithFields(logrus.Fields{"round": round, "ith_argument": ith, "agent_id": speaker.ID()}).
					Warn("turn recorded as a gap")
			}
			if err := o.store.AppendArguments(ctx, d.DiscourseID, []models.Argument{arg}); err != nil {
				return res, err
			}
			res.Arguments = append(res.Arguments, arg)

			o.publish(ctx, d.DiscourseID, EventArgument, ArgumentPayload{
				IthArgument:   ith,
				Round:         round,
				ModelSpeaking: speaker.ID(),
				Side:          side.String(),
				Argument:      arg.Argument,
			})
		}
	}

	o.publish(ctx, d.DiscourseID, EventDiscourseFinished, DiscoursePayload{
		DiscourseID: d.DiscourseID,
		TopicID:     d.TopicID,
		Proposer:    proposer.Entity(),
		Opponent:    opponent.Entity(),
		Arguments:   len(res.Arguments),
		Gaps:        res.Gaps(),
	})
	log.WithFields(logrus.Fields{"arguments": len(res.Arguments), "gaps": res.Gaps()}).Info("discourse finished")
	return res, nil
}

func (o *Orchestrator) publish(ctx context.Context, discourseID, eventType string, payload interface{}) {
	if o.events == nil {
		return
	}
	event, err := NewEvent(eventType, payload)
	if err == nil {
		err = o.events.Publish(ctx, discourseID, event)
	}
	if err != nil {
		o.logger.WithError(err).WithFields(logrus.Fields{
			"discourse_id": discourseID,
			"event":        eventType,
		}).Warn("failed to publish event")
	}
}
