package controller

import (
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// Top godoc
// @Summary Points leaderboard
// @Description Returns the highest-scoring users, at most 50
// @Tags leaderboard
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "number of rows, default 10"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "ranking"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit > 50 {
		limit = 50
	}

	entries, err := c.LeaderboardService.Top(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
