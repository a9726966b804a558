package gallery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dispocam/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/cameras/:id/photos", h.list)
}

func (h *Handler) list(c *gin.Context) {
	cameraID := c.Param("id")

	// Hidden photos require a session joined to this camera.
	includeHidden, _ := strconv.ParseBool(c.Query("include_hidden"))
	if includeHidden && c.GetString("camera_id") != cameraID {
		includeHidden = false
	}

	photos, cam, err := h.service.Gallery(c.Request.Context(), cameraID, includeHidden)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "GALLERY_FAILED", "Could not assemble gallery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"camera": cam,
		"photos": photos,
	})
}
