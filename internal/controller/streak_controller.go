package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StreakController struct {
	StreakService *service.StreakService
}

func NewStreakController(streakService *service.StreakService) *StreakController {
	return &StreakController{StreakService: streakService}
}

// GetStreak godoc
// @Summary Current streak
// @Description Returns the caller's streak record, creating it lazily
// @Tags streak
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserStreak} "streak"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/streak [get]
func (c *StreakController) GetStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.StreakService.GetUserStreak(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, streak)
}

// StreakUpdateRequest carries today's activity counters
// swagger:model StreakUpdateRequest
type StreakUpdateRequest struct {
	LessonsCompleted    int `json:"lessonsCompleted"`
	ChallengesCompleted int `json:"challengesCompleted"`
	TimeSpentMinutes    int `json:"timeSpentMinutes"`
	XPEarned            int `json:"xpEarned"`
}

// UpdateStreak godoc
// @Summary Log learning activity
// @Description Advances or resets the caller's streak for today and awards any newly crossed milestone
// @Tags streak
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StreakUpdateRequest true "activity"
// @Success 200 {object} util.Response{data=service.StreakUpdateResult} "result"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/streak [post]
func (c *StreakController) UpdateStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StreakUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.StreakService.UpdateStreak(claims.UserID, req.LessonsCompleted, req.ChallengesCompleted, req.TimeSpentMinutes, req.XPEarned)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// UseStreakFreeze godoc
// @Summary Spend a streak freeze
// @Description Consumes one freeze credit to log a synthetic zero-activity day, preserving the streak
// @Tags streak
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object} "freeze applied"
// @Failure 400 {object} util.Response "no freezes available"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/streak/freeze [post]
func (c *StreakController) UseStreakFreeze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.StreakService.UseStreakFreeze(claims.UserID); err != nil {
		if errors.Is(err, util.ErrNoFreezesAvailable) {
			util.BadRequest(ctx, "no streak freezes available")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"frozen": true})
}

// GetStreakStats godoc
// @Summary Streak statistics
// @Description Returns the 30-day activity window, milestones, and totals
// @Tags streak
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StreakStats} "stats"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/streak/stats [get]
func (c *StreakController) GetStreakStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.StreakService.GetStreakStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
