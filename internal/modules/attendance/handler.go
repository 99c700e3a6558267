package attendance

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the attendance endpoints on a staff-only group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/attendance/checkin", h.CheckIn)
	rg.POST("/attendance/checkout", h.CheckOut)
	rg.GET("/attendance/export", h.Export)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	log, err := h.service.CheckIn(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrClientNotFound):
			response.Error(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "client does not exist")
		case errors.Is(err, ErrAppointmentNotFound):
			response.Error(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "appointment does not exist")
		case errors.Is(err, ErrAlreadyCheckedIn):
			response.Error(c, http.StatusConflict, "ALREADY_CHECKED_IN", "client already has an open session")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to check in")
		}
		return
	}

	response.Success(c, http.StatusCreated, log)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	log, err := h.service.CheckOut(c.Request.Context(), req.AttendanceLogID)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "LOG_NOT_FOUND", "attendance log does not exist")
		case errors.Is(err, ErrAlreadyClosed):
			response.Error(c, http.StatusConflict, "ALREADY_CHECKED_OUT", "session is already closed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to check out")
		}
		return
	}

	response.Success(c, http.StatusOK, log)
}

// Export writes a CSV of sessions for the requested window. Dates are
// inclusive: from=2025-06-01&to=2025-06-30 covers the whole of June 30.
func (h *Handler) Export(c *gin.Context) {
	from, to, err := exportWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="attendance.csv"`)
	c.Status(http.StatusOK)

	if err := h.service.ExportCSV(c.Request.Context(), from, to, c.Writer); err != nil {
		// Headers are already out; nothing sensible left to send.
		_ = c.Error(err)
	}
}

func exportWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	to := now

	if fromStr != "" {
		d, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be YYYY-MM-DD")
		}
		from = d
	}
	if toStr != "" {
		d, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be YYYY-MM-DD")
		}
		to = d.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("to must not be before from")
	}
	return from, to, nil
}
