package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard rates every debating model entity from the stored
// judgements, highest rating first.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	ratings, err := h.pipeline.Leaderboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to compute leaderboard")
		return
	}
	c.JSON(http.StatusOK, ratings)
}
