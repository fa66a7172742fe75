package agent

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"aidebater/internal/contract"
)

const (
	DefaultMaxAttempts    = 10
	DefaultAttemptTimeout = 2 * time.Minute
)

// Acquirer runs the bounded retry loop that turns an agent's free text into
// a contract output.
type Acquirer struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	Logger         *logrus.Logger
}

// NewAcquirer returns an Acquirer with the given limits; zero values select
// the defaults.
func NewAcquirer(maxAttempts int, attemptTimeout time.Duration, logger *logrus.Logger) *Acquirer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Acquirer{MaxAttempts: maxAttempts, AttemptTimeout: attemptTimeout, Logger: logger}
}

// Acquire asks a for an answer up to MaxAttempts times, resending the same
// messages each time, and returns the first output its contract accepts.
//
// Invalid answers, transport errors and attempt timeouts all count as failed
// attempts. When every attempt fails Acquire returns (nil, false, nil). An
// error is returned only for an unbound agent or a cancelled parent context.
func (q *Acquirer) Acquire(ctx context.Context, a *Agent, msgs []Message) (contract.Output, bool, error) {
	c := a.Contract()
	if c == nil {
		return nil, false, ErrNotInitialized
	}
	log := q.Logger.WithFields(logrus.Fields{
		"agent_id": a.ID(),
		"contract": c.Kind().String(),
	})

	for attempt := 1; attempt <= q.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		raw, err := q.attempt(ctx, a, msgs)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Debug("agent call failed")
			continue
		}
		out, err := c.Parse(raw)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Debug("answer rejected by contract")
			continue
		}
		return out, true, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	log.WithField("attempts", q.MaxAttempts).Warn("no valid answer, retries exhausted")
	return nil, false, nil
}

func (q *Acquirer) attempt(ctx context.Context, a *Agent, msgs []Message) (string, error) {
	actx, cancel := context.WithTimeout(ctx, q.AttemptTimeout)
	defer cancel()
	return a.Answer(actx, msgs)
}
