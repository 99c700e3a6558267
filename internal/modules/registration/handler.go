package registration

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/events/:slug/register", h.Register)
}

// RegisterStaffRoutes mounts the back-office registration lookup.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/registrations/:id", h.Get)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.EventSlug = c.Param("slug")

	reg, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or malformed attendee fields")
		case ErrEventNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Event not found")
		case ErrEventInactive:
			response.Error(c, http.StatusConflict, "EVENT_INACTIVE", "Event is no longer open for registration")
		case ErrEventFull:
			response.Error(c, http.StatusConflict, "EVENT_FULL", "Event has reached its capacity")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create registration")
		}
		return
	}

	response.Success(c, http.StatusCreated, RegisterResponse{
		ID:     reg.ID,
		Status: string(reg.Status),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration id")
		return
	}

	reg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Registration not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load registration")
		return
	}

	response.Success(c, http.StatusOK, reg)
}
