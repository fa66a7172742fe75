// Package app wires configuration into the long-lived pieces shared by the
// server and the CLI: logger, store, Redis-backed services and agents.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"aidebater/config"
	"aidebater/db"
	"aidebater/internal/agent"
	"aidebater/internal/agent/backends"
	"aidebater/internal/analysis"
	"aidebater/internal/contract"
	"aidebater/internal/debate"
)

// NewLogger builds the process logger from the logging section.
func NewLogger(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

type App struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  db.Store

	// Nil when redis.addr is empty.
	Redis    *redis.Client
	Events   *debate.StreamPublisher
	Ballots  *debate.BallotBox
	Throttle *debate.Throttle

	closers []io.Closer
}

// New opens the store and, when configured, Redis.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	store, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URI, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Database.Driver, err)
	}
	a := &App{Config: cfg, Logger: logger, Store: store}
	logger.WithField("driver", cfg.Database.Driver).Info("store opened")

	if cfg.Redis.Addr != "" {
		rdb, err := debate.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			store.Close(ctx)
			return nil, err
		}
		a.Redis = rdb
		a.Events = debate.NewStreamPublisher(rdb)
		a.Ballots = debate.NewBallotBox(rdb)
		if cfg.Redis.RequestsPerMinute > 0 {
			a.Throttle = debate.NewThrottle(rdb, cfg.Redis.RequestsPerMinute, time.Minute)
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("redis connected")
	}
	return a, nil
}

// Agent opens the named backend, applies the throttle and binds c.
func (a *App) Agent(ctx context.Context, backend string, c *contract.Contract) (*agent.Agent, error) {
	settings, ok := a.Config.Backends()[backend]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (known: %v)", backend, backends.Names())
	}
	b, err := backends.Open(ctx, backend, backends.Settings(settings))
	if err != nil {
		return nil, err
	}
	if closer, ok := b.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}
	if a.Throttle != nil {
		b = debate.Throttled(b, a.Throttle)
	}
	ag := agent.New(b).Bind(c)
	a.Logger.WithFields(logrus.Fields{"agent_id": ag.ID(), "entity": ag.Entity(), "contract": c.Kind()}).Debug("agent ready")
	return ag, nil
}

// Orchestrator builds an orchestrator from the debate section.
func (a *App) Orchestrator() *debate.Orchestrator {
	opts := debate.Options{
		Rounds: a.Config.Debate.Rounds,
		Logger: a.Logger,
	}
	if a.Events != nil {
		opts.Events = a.Events
		opts.Ballots = a.Ballots
	}
	acquirer := agent.NewAcquirer(a.Config.Debate.MaxAttempts, a.Config.Debate.AttemptTimeout, a.Logger)
	return debate.NewOrchestrator(a.Store, acquirer, opts)
}

func (a *App) Pipeline() *analysis.Pipeline {
	return analysis.NewPipeline(a.Store, nil)
}

// Close releases backends, Redis and the store.
func (a *App) Close(ctx context.Context) {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.WithError(err).Warn("failed to close backend")
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if err := a.Store.Close(ctx); err != nil {
		a.Logger.WithError(err).Warn("failed to close store")
	}
}
