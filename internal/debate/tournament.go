package debate

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"aidebater/db"
	"aidebater/internal/agent"
	"aidebater/models"
)

// Match is one scheduled discourse.
type Match struct {
	Topic    models.Topic
	Proposer *agent.Agent
	Opponent *agent.Agent
}

// Pairings schedules every ordered pair of distinct agents on every topic.
func Pairings(topics []models.Topic, agents []*agent.Agent) []Match {
	var matches []Match
	for _, t := range topics {
		for i, p := range agents {
			for j, o := range agents {
				if i == j {
					continue
				}
				matches = append(matches, Match{Topic: t, Proposer: p, Opponent: o})
			}
		}
	}
	return matches
}

// TournamentReport lists what a tournament ran.
type TournamentReport struct {
	Completed []*Result
	Skipped   []string // discourse ids already stored
}

// RunTournament runs matches with at most parallelism discourses at once.
// Discourses already stored are skipped. Turns within a discourse stay
// sequential; only independent discourses overlap. The first other error
// cancels the remaining matches.
func (o *Orchestrator) RunTournament(ctx context.Context, matches []Match, parallelism int) (*TournamentReport, error) {
	if parallelism <= 0 {
		parallelism = 1
	}
	report := &TournamentReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, m := range matches {
		m := m
		g.Go(func() error {
			res, err := o.RunDebate(gctx, m.Topic, m.Proposer, m.Opponent)
			if errors.Is(err, db.ErrDiscourseExists) {
				id := models.DiscourseID(m.Topic.TopicID, m.Proposer.ID(), m.Opponent.ID())
				o.logger.WithField("discourse_id", id).Info("discourse already stored, skipping")
				mu.Lock()
				report.Skipped = append(report.Skipped, id)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			report.Completed = append(report.Completed, res)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	o.logger.WithFields(logrus.Fields{
		"completed": len(report.Completed),
		"skipped":   len(report.Skipped),
	}).Info("tournament finished")
	return report, err
}
