package routes

import (
	"aidebater/controllers"

	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes registers the read-only results API.
func SetupAPIRoutes(router *gin.Engine, h *controllers.Handler) {
	api := router.Group("/api")
	{
		api.GET("/topics", h.GetTopics)
		api.GET("/competitions", h.GetCompetitions)
		api.GET("/discourses/:id", h.GetDiscourse)
		api.GET("/discourses/:id/ballots", h.GetBallots)
		api.GET("/judgements", h.GetJudgements)
		api.GET("/votes", h.GetVotes)
		SetupLeaderboardRoutes(api, h)
	}
}
