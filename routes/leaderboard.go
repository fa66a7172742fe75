package routes

import (
	"aidebater/controllers"

	"github.com/gin-gonic/gin"
)

func SetupLeaderboardRoutes(router *gin.RouterGroup, h *controllers.Handler) {
	router.GET("/leaderboard", h.GetLeaderboard)
}
