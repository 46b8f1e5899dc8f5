package controller

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController exposes hand-authoring endpoints for admins.
type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// CreateCourseRequest names a new language track
// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageSrc string `json:"imageSrc"`
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateCourseRequest true "course"
// @Success 201 {object} util.Response{data=model.Course} "course"
// @Failure 403 {object} util.Response "forbidden"
// @Router /api/admin/courses [post]
func (c *ContentController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.ContentService.CreateCourse(req.Title, req.ImageSrc)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// CreateUnitRequest adds a unit to a course
// swagger:model CreateUnitRequest
type CreateUnitRequest struct {
	CourseID    uint   `json:"courseId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// CreateUnit godoc
// @Summary Create a unit
// @Description Adds a unit to a course; order 0 appends after the last unit
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateUnitRequest true "unit"
// @Success 201 {object} util.Response{data=model.Unit} "unit"
// @Failure 404 {object} util.Response "course not found"
// @Router /api/admin/units [post]
func (c *ContentController) CreateUnit(ctx *gin.Context) {
	var req CreateUnitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	unit, err := c.ContentService.CreateUnit(req.CourseID, req.Title, req.Description, req.Order)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, unit)
}

// CreateLessonRequest adds a lesson to a unit
// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	UnitID uint   `json:"unitId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Order  int    `json:"order" binding:"required"`
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateLessonRequest true "lesson"
// @Success 201 {object} util.Response{data=model.Lesson} "lesson"
// @Failure 404 {object} util.Response "unit not found"
// @Router /api/admin/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.CreateLesson(req.UnitID, req.Title, req.Order)
	if err != nil {
		if errors.Is(err, util.ErrUnitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

// CreateChallengeRequest adds a challenge with its options
// swagger:model CreateChallengeRequest
type CreateChallengeRequest struct {
	LessonID uint                           `json:"lessonId" binding:"required"`
	Type     string                         `json:"type" binding:"required,oneof=SELECT ASSIST"`
	Question string                         `json:"question" binding:"required"`
	Order    int                            `json:"order" binding:"required"`
	Options  []service.ChallengeOptionInput `json:"options" binding:"required,min=2,dive"`
}

// CreateChallenge godoc
// @Summary Create a challenge
// @Description Adds a challenge and its answer options in one write
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateChallengeRequest true "challenge"
// @Success 201 {object} util.Response{data=model.Challenge} "challenge"
// @Failure 404 {object} util.Response "lesson not found"
// @Router /api/admin/challenges [post]
func (c *ContentController) CreateChallenge(ctx *gin.Context) {
	var req CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ContentService.CreateChallenge(
		req.LessonID,
		model.ChallengeType(req.Type),
		req.Question,
		req.Order,
		req.Options,
	)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, challenge)
}
