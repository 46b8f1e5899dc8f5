package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService        *service.AIService
	GeneratorService *service.GeneratorService
}

func NewAIController(aiService *service.AIService, generatorService *service.GeneratorService) *AIController {
	return &AIController{
		AIService:        aiService,
		GeneratorService: generatorService,
	}
}

// ChatRequest relays a tutor question to the language model
// swagger:model ChatRequest
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	Context string `json:"context"`
}

// Chat godoc
// @Summary Tutor chat relay
// @Description Forwards the learner's question to the language model and returns the reply
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChatRequest true "question"
// @Success 200 {object} util.Response{data=object} "reply"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 500 {object} util.Response "model call failed"
// @Router /api/ai/chat [post]
func (c *AIController) Chat(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.AIService.Chat(req.Message, req.Context)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reply": reply})
}

// AssessmentRequest names the course to assess
// swagger:model AssessmentRequest
type AssessmentRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// CreateAssessment godoc
// @Summary Create a diagnostic assessment
// @Description Generates the course's assessment lesson, or returns the existing one
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AssessmentRequest true "course"
// @Success 200 {object} util.Response{data=service.AssessmentStatus} "assessment"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "course not found"
// @Failure 500 {object} util.Response "generation failed"
// @Router /api/ai/assessment [post]
func (c *AIController) CreateAssessment(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	status, err := c.GeneratorService.CreateAssessment(req.CourseID)
	if err != nil {
		c.handleGenerationError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// CheckAssessment godoc
// @Summary Check for an existing assessment
// @Description Reports whether the course has an assessment and the caller's progress through it
// @Tags ai
// @Produce  json
// @Security BearerAuth
// @Param   courseId query int true "course id"
// @Success 200 {object} util.Response{data=service.AssessmentCheck} "status"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "course not found"
// @Router /api/ai/assessment [get]
func (c *AIController) CheckAssessment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Query("courseId"))
	if courseID == 0 {
		util.BadRequest(ctx, "courseId required")
		return
	}

	status, err := c.GeneratorService.CheckAssessment(claims.UserID, courseID)
	if err != nil {
		c.handleGenerationError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// AnalyzeAssessmentRequest names the assessment lesson to score
// swagger:model AnalyzeAssessmentRequest
type AnalyzeAssessmentRequest struct {
	LessonID uint `json:"lessonId" binding:"required"`
	CourseID uint `json:"courseId" binding:"required"`
}

// AnalyzeAssessment godoc
// @Summary Score a completed assessment
// @Description Computes per-topic accuracy, skill level, and recommended topics from the caller's attempts
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AnalyzeAssessmentRequest true "assessment to score"
// @Success 200 {object} util.Response{data=service.AssessmentResult} "analysis"
// @Failure 400 {object} util.Response "no attempts recorded"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "lesson not found"
// @Router /api/ai/assessment/analyze [post]
func (c *AIController) AnalyzeAssessment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnalyzeAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GeneratorService.AnalyzeAssessment(claims.UserID, req.LessonID, req.CourseID)
	if err != nil {
		if errors.Is(err, util.ErrProgressNotFound) {
			util.BadRequest(ctx, "no assessment attempts recorded")
			return
		}
		c.handleGenerationError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GenerateUnitsRequest asks for a personalized curriculum
// swagger:model GenerateUnitsRequest
type GenerateUnitsRequest struct {
	CourseID         uint                      `json:"courseId" binding:"required"`
	AssessmentResult *service.AssessmentResult `json:"assessmentResult" binding:"required"`
	NumberOfUnits    int                       `json:"numberOfUnits"`
}

// GenerateUnits godoc
// @Summary Generate a personalized curriculum
// @Description Replaces the course's previously generated units with fresh ones tailored to the assessment result
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GenerateUnitsRequest true "generation request"
// @Success 200 {object} util.Response{data=object} "units created"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "course not found"
// @Failure 500 {object} util.Response "generation failed"
// @Router /api/ai/units [post]
func (c *AIController) GenerateUnits(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GenerateUnitsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.GeneratorService.GeneratePersonalizedUnits(req.CourseID, req.AssessmentResult, req.NumberOfUnits)
	if err != nil {
		c.handleGenerationError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unitsCreated": created})
}

// AdminGenerateRequest asks for additional admin-authored content
// swagger:model AdminGenerateRequest
type AdminGenerateRequest struct {
	CourseID    uint     `json:"courseId" binding:"required"`
	LessonCount int      `json:"lessonCount"`
	Difficulty  string   `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Topics      []string `json:"topics"`
}

// GenerateAdminLessons godoc
// @Summary Generate course content (admin)
// @Description Adds generated units to a course without touching existing content
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AdminGenerateRequest true "generation request"
// @Success 200 {object} util.Response{data=object} "lessons created"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 403 {object} util.Response "admin only"
// @Failure 404 {object} util.Response "course not found"
// @Failure 500 {object} util.Response "generation failed"
// @Router /api/admin/ai/lessons [post]
func (c *AIController) GenerateAdminLessons(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AdminGenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.GeneratorService.GenerateAdminLessons(req.CourseID, req.LessonCount, req.Difficulty, req.Topics)
	if err != nil {
		c.handleGenerationError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"lessonsCreated": created})
}

func (c *AIController) handleGenerationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrGenerationFailed):
		util.Error(ctx, 500, "failed to generate content")
	default:
		util.LogInternalError(ctx, err)
	}
}
