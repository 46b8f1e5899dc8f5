package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	AuthService     *service.AuthService
}

func NewProgressController(progressService *service.ProgressService, authService *service.AuthService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		AuthService:     authService,
	}
}

// ActiveCourseRequest selects the caller's active course
// swagger:model ActiveCourseRequest
type ActiveCourseRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// SetActiveCourse godoc
// @Summary Select active course
// @Description Sets the caller's active course, creating the aggregate progress row on first selection
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ActiveCourseRequest true "course selection"
// @Success 200 {object} util.Response{data=model.UserProgress} "progress"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "course not found"
// @Router /api/progress/active-course [put]
func (c *ProgressController) SetActiveCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ActiveCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userName := ""
	if user := c.AuthService.GetCurrentUser(ctx); user != nil {
		userName = user.Name
	}

	progress, err := c.ProgressService.UpsertUserProgress(claims.UserID, req.CourseID, userName)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// GetUserProgress godoc
// @Summary Current aggregate progress
// @Description Returns the caller's hearts, points, and active course
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserProgress} "progress"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "no progress yet"
// @Router /api/progress [get]
func (c *ProgressController) GetUserProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetUserProgress(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrProgressNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// ChallengeAttemptRequest names the challenge being answered
// swagger:model ChallengeAttemptRequest
type ChallengeAttemptRequest struct {
	ChallengeID uint `json:"challengeId" binding:"required"`
}

// UpsertChallengeProgress godoc
// @Summary Record a correct answer
// @Description Marks the challenge completed and awards points; practice attempts restore one heart. Business-rule rejections come back in the error field of the result, not as an HTTP error.
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChallengeAttemptRequest true "attempt"
// @Success 200 {object} util.Response{data=service.AttemptResult} "result"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "challenge or progress not found"
// @Router /api/progress/challenges [post]
func (c *ProgressController) UpsertChallengeProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChallengeAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.UpsertChallengeProgress(claims.UserID, req.ChallengeID)
	if err != nil {
		c.handleAttemptError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ReduceHearts godoc
// @Summary Record a wrong answer
// @Description Decrements the caller's hearts unless the attempt is practice or a subscription is active
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChallengeAttemptRequest true "attempt"
// @Success 200 {object} util.Response{data=service.AttemptResult} "result"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "challenge or progress not found"
// @Router /api/progress/hearts/reduce [post]
func (c *ProgressController) ReduceHearts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChallengeAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.ReduceHearts(claims.UserID, req.ChallengeID)
	if err != nil {
		c.handleAttemptError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// RefillHearts godoc
// @Summary Refill hearts with points
// @Description Restores the heart budget to full in exchange for points
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserProgress} "progress"
// @Failure 400 {object} util.Response "hearts already full or not enough points"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "no progress yet"
// @Router /api/progress/hearts/refill [post]
func (c *ProgressController) RefillHearts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.RefillHearts(claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrHeartsAlreadyFull):
			util.BadRequest(ctx, "hearts already full")
		case errors.Is(err, util.ErrNotEnoughPoints):
			util.BadRequest(ctx, "not enough points")
		case errors.Is(err, util.ErrProgressNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// AssessmentAttemptRequest records an assessment answer
// swagger:model AssessmentAttemptRequest
type AssessmentAttemptRequest struct {
	ChallengeID uint `json:"challengeId" binding:"required"`
	Correct     bool `json:"correct"`
}

// UpsertAssessmentProgress godoc
// @Summary Record an assessment answer
// @Description Stores the attempt for later analysis without touching hearts or points
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AssessmentAttemptRequest true "assessment attempt"
// @Success 200 {object} util.Response{data=object} "recorded"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "challenge not found"
// @Router /api/progress/assessment [post]
func (c *ProgressController) UpsertAssessmentProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AssessmentAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpsertAssessmentProgress(claims.UserID, req.ChallengeID, req.Correct); err != nil {
		c.handleAttemptError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"recorded": true})
}

func (c *ProgressController) handleAttemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrChallengeNotFound), errors.Is(err, util.ErrProgressNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
