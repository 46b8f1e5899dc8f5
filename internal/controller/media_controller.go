package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	StorageService *service.StorageService
}

func NewMediaController(storageService *service.StorageService) *MediaController {
	return &MediaController{StorageService: storageService}
}

// UploadChallengeMedia godoc
// @Summary Upload challenge media (admin)
// @Description Stores an image or audio clip for challenge options; audio is probed for duration
// @Tags media
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "media file"
// @Success 200 {object} util.Response{data=service.MediaUploadResult} "stored file"
// @Failure 400 {object} util.Response "missing or unsupported file"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 403 {object} util.Response "admin only"
// @Router /api/admin/media [post]
func (c *MediaController) UploadChallengeMedia(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.StorageService.UploadChallengeMedia(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		if errors.Is(err, util.ErrInvalidMediaType) {
			util.BadRequest(ctx, "unsupported media type")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}
