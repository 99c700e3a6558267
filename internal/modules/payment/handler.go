package payment

import (
	"errors"
	"net/http"

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
	rg.POST("/payments/orders", h.CreateOrder)
	rg.POST("/payments/verify", h.Verify)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be a positive decimal with at most two fraction digits", gin.H{
				"field":          "amount",
				"received_value": req.Amount,
			})
		case errors.Is(err, ErrAmountMismatch):
			response.ErrorWithDetails(c, http.StatusBadRequest, "AMOUNT_MISMATCH", "Amount does not match the event price", gin.H{
				"field":          "amount",
				"received_value": req.Amount,
			})
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Registration not found")
		case errors.Is(err, ErrNotPayable):
			response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Registration does not require payment")
		case errors.Is(err, ErrGateway):
			// Provider detail stays in the message so callers can tell
			// "retry later" from "do not retry"; credentials never appear.
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create payment order")
		}
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Verify is retry-safe: replays of the same outcome land on 200.
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing verification fields")
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing verification fields")
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusForbidden, "SIGNATURE_INVALID", "Signature verification failed")
		case errors.Is(err, ErrRegistrationMismatch):
			response.Error(c, http.StatusForbidden, "REGISTRATION_MISMATCH", "Registration is not linked to this order")
		case errors.Is(err, ErrNotPayable):
			response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Registration is no longer payable")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment or registration not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify payment")
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}
