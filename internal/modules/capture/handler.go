// Package capture binds the capture UI to the upload orchestrator.
package capture

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispocam/internal/adapter"
	"dispocam/internal/domain/photo"
	dispsync "dispocam/internal/modules/sync"
	"dispocam/internal/pkg/response"
	"dispocam/internal/pkg/validator"
)

const maxPhotoBytes = 25 * 1024 * 1024

type Handler struct {
	orch *dispsync.Orchestrator
}

func NewHandler(orch *dispsync.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// RegisterRoutes expects the group to run GuestAuth first.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/photos", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Malformed JSON body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid capture", fields)
		return
	}

	if joined := c.GetString("camera_id"); joined != "" && joined != req.CameraID {
		response.Error(c, http.StatusForbidden, "WRONG_CAMERA", "Session is not joined to this camera")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil || len(raw) == 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Image payload is not valid base64")
		return
	}
	if len(raw) > maxPhotoBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "PHOTO_TOO_LARGE", "Image exceeds the maximum allowed size")
		return
	}

	out, err := h.orch.Submit(c.Request.Context(), &photo.Capture{
		CameraID:   req.CameraID,
		Bytes:      raw,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		OwnerID:    c.GetString("owner_id"),
		OwnerName:  c.GetString("owner_name"),
		CapturedAt: time.Now().UTC(),
	})
	switch {
	case errors.Is(err, adapter.ErrQuotaExceeded):
		// The one remote error that must reach the capturing user.
		response.Error(c, http.StatusConflict, "PHOTO_LIMIT_REACHED", "You have reached the photo limit for this camera")
	case errors.Is(err, dispsync.ErrFatal):
		response.Error(c, http.StatusInsufficientStorage, "STORAGE_FAILED", "Photo could not be saved anywhere on this device")
	case err != nil:
		response.Error(c, http.StatusInternalServerError, "SUBMIT_FAILED", "Photo could not be submitted")
	default:
		response.Created(c, out)
	}
}
