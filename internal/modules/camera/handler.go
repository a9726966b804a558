package camera

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "dispocam/internal/domain/camera"
	"dispocam/internal/pkg/response"
	"dispocam/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/cameras", h.create)
	r.GET("/cameras/:id", h.get)
	r.POST("/cameras/:id/join", h.join)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Malformed JSON body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid camera spec", fields)
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Could not create camera")
		return
	}
	response.Created(c, res)
}

func (h *Handler) get(c *gin.Context) {
	cam, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "CAMERA_NOT_FOUND", "No such camera")
		return
	}
	response.Success(c, http.StatusOK, cam)
}

func (h *Handler) join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Malformed JSON body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid join request", fields)
		return
	}

	res, err := h.service.Join(c.Request.Context(), c.Param("id"), req)
	switch {
	case errors.Is(err, domain.ErrCameraNotFound):
		response.Error(c, http.StatusNotFound, "CAMERA_NOT_FOUND", "No such camera")
	case errors.Is(err, domain.ErrBadJoinCode):
		response.Error(c, http.StatusForbidden, "BAD_JOIN_CODE", "Join code does not match")
	case errors.Is(err, domain.ErrCameraEnded):
		response.Error(c, http.StatusGone, "CAMERA_ENDED", "This camera's event has ended")
	case err != nil:
		response.Error(c, http.StatusInternalServerError, "JOIN_FAILED", "Could not join camera")
	default:
		response.Success(c, http.StatusOK, res)
	}
}
