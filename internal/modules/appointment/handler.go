package appointment

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

// RegisterPublicRoutes exposes the slot grid the booking form renders from.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/schedule/slots", h.Availability)
}

// RegisterStaffRoutes exposes booking and listing to authenticated staff.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments", h.Book)
	rg.GET("/appointments", h.ListByDate)
	rg.GET("/appointments/:id", h.Get)
}

func (h *Handler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid appointment fields")
		case ErrSlotInvalid:
			response.Error(c, http.StatusBadRequest, "SLOT_INVALID", "Start time is not a bookable slot for that date")
		case ErrSlotTaken:
			response.Error(c, http.StatusConflict, "SLOT_TAKEN", "That slot is already booked")
		case ErrClientNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Client not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to book appointment")
		}
		return
	}

	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}

	avail, err := h.service.Availability(c.Request.Context(), date)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load availability")
		return
	}

	response.Success(c, http.StatusOK, avail)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid appointment id")
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load appointment")
		return
	}

	response.Success(c, http.StatusOK, a)
}

func (h *Handler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}

	out, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list appointments")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"appointments": out})
}
