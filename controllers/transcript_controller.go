package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aidebater/db"
)

// GetDiscourse returns the arguments of one discourse in turn order.
func (h *Handler) GetDiscourse(c *gin.Context) {
	id := c.Param("id")
	args, err := h.store.LoadDiscourse(c.Request.Context(), id)
	if err == nil && len(args) == 0 {
		err = fmt.Errorf("discourse %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		h.fail(c, err, "Failed to load discourse")
		return
	}
	c.JSON(http.StatusOK, args)
}

// GetBallots returns the live vote tally of one discourse.
func (h *Handler) GetBallots(c *gin.Context) {
	if h.ballots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ballots are not enabled"})
		return
	}
	tally, err := h.ballots.Tally(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load ballots")
		return
	}
	c.JSON(http.StatusOK, tally)
}
