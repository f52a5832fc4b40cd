package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/processor"
)

// ResumeHandler exposes the upload pipeline over HTTP.
type ResumeHandler struct {
	service *processor.ResumeService
}

func NewResumeHandler(service *processor.ResumeService) *ResumeHandler {
	return &ResumeHandler{service: service}
}

// UploadResume handles POST /api/v1/resumes/upload. Expects a multipart form
// with "file" and "profile_id".
func (h *ResumeHandler) UploadResume(c context.Context, ctx *app.RequestContext) {
	profileID := ctx.PostForm("profile_id")
	if profileID == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "profile_id is required"})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "file is required"})
		return
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to read uploaded file"})
		return
	}

	result, err := h.service.UploadResume(c, profileID, fileHeader.Filename, data)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, result)
}

// UploadProfilePicture handles POST /api/v1/profiles/:profile_id/picture.
func (h *ResumeHandler) UploadProfilePicture(c context.Context, ctx *app.RequestContext) {
	profileID := ctx.Param("profile_id")
	if profileID == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "profile_id is required"})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "file is required"})
		return
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to read uploaded file"})
		return
	}

	url, err := h.service.UploadProfilePicture(c, profileID, fileHeader.Filename, data)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"profile_picture_url": url})
}

// GetCurrentResume handles GET /api/v1/resumes/current?profile_id=... and
// returns a time-limited download URL.
func (h *ResumeHandler) GetCurrentResume(c context.Context, ctx *app.RequestContext) {
	profileID := ctx.Query("profile_id")
	if profileID == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "profile_id is required"})
		return
	}

	url, err := h.service.GetCurrentResumeURL(c, profileID)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"download_url": url})
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// writeError maps the pipeline error taxonomy onto HTTP statuses. Internal
// details stay in the log, not the response.
func writeError(c context.Context, ctx *app.RequestContext, err error) {
	status := consts.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, processor.ErrBadRequest):
		status = consts.StatusBadRequest
		message = err.Error()
	case errors.Is(err, processor.ErrUnsupportedFormat):
		status = consts.StatusUnsupportedMediaType
		message = err.Error()
	case errors.Is(err, processor.ErrNotFound):
		status = consts.StatusNotFound
		message = err.Error()
	case errors.Is(err, processor.ErrConflict):
		status = consts.StatusConflict
		message = err.Error()
	}

	if status == consts.StatusInternalServerError {
		logger.Ctx(c).Error().Err(err).Msg("request failed")
	} else {
		logger.Ctx(c).Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	ctx.JSON(status, utils.H{"error": message})
}
