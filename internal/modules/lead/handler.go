package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymstudio/internal/pkg/response"
	"gymstudio/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the open lead-capture endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads", h.Create)
}

// RegisterStaffRoutes mounts listing and export behind auth.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.List)
	rg.GET("/leads/export", h.Export)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Lead fields failed validation", fields)
		return
	}

	l, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and phone are required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to save lead")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": l.ID, "status": l.Status})
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	leads, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list leads")
		return
	}

	response.Success(c, http.StatusOK, leads)
}

func (h *Handler) Export(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="leads.csv"`)
	c.Status(http.StatusOK)

	if err := h.service.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}
