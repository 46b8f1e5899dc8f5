package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// GetLesson godoc
// @Summary Lesson quiz payload
// @Description Returns the lesson's ordered challenges with options and the caller's completion flags
// @Tags lessons
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response{data=service.LessonView} "lesson"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "lesson not found"
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lesson, err := c.LessonService.GetLesson(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}
