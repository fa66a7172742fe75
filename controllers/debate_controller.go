package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aidebater/db"
	"aidebater/internal/analysis"
	"aidebater/internal/debate"
)

// Handler serves the read-only results API over a store.
type Handler struct {
	store    db.Store
	pipeline *analysis.Pipeline
	ballots  *debate.BallotBox // nil when Redis is not configured
	logger   *logrus.Logger
}

func NewHandler(store db.Store, pipeline *analysis.Pipeline, ballots *debate.BallotBox, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Handler{store: store, pipeline: pipeline, ballots: ballots, logger: logger}
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg + ": not found"})
		return
	}
	h.logger.WithError(err).WithField("path", c.FullPath()).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// GetTopics lists every topic with its creator's descriptor.
func (h *Handler) GetTopics(c *gin.Context) {
	topics, err := h.store.LoadTopics(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load topics")
		return
	}
	c.JSON(http.StatusOK, topics)
}

// GetCompetitions lists every discourse with topic and participant descriptors.
func (h *Handler) GetCompetitions(c *gin.Context) {
	competitions, err := h.store.LoadCompetitions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load competitions")
		return
	}
	c.JSON(http.StatusOK, competitions)
}
