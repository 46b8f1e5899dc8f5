package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCourses godoc
// @Summary List courses
// @Description Returns all learnable language tracks
// @Tags courses
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Course} "courses"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course} "course"
// @Failure 404 {object} util.Response "course not found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// GetCourseContent godoc
// @Summary Course units with completion flags
// @Description Returns the course's units and lessons; each lesson carries the caller's completion state
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=[]service.UnitView} "units"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "course not found"
// @Router /api/courses/{id}/units [get]
func (c *CourseController) GetCourseContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	units, err := c.CourseService.GetCourseContent(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, units)
}

// GetCourseProgress godoc
// @Summary Course progress summary
// @Description Computes the caller's completion rate, skill level, and topic performance for a course
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=service.LearningProgress} "progress"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "course not found"
// @Router /api/courses/{id}/progress [get]
func (c *CourseController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.CourseService.GetCourseProgress(util.MustParseUint(ctx.Param("id")), claims.UserID)
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
