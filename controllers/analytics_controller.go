package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetJudgements returns every judgement row with its normalised score.
func (h *Handler) GetJudgements(c *gin.Context) {
	rows, err := h.pipeline.Judgements(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load judgements")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetVotes returns every vote with its ordinal label.
func (h *Handler) GetVotes(c *gin.Context) {
	votes, err := h.pipeline.Votes(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load votes")
		return
	}
	c.JSON(http.StatusOK, votes)
}
