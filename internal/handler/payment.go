package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbook/internal/domain"
	"tourbook/internal/service"
)

// PaymentHandler handles HTTP requests for payment tracking.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// selectOptionRequest is the payload for choosing a payment option.
type selectOptionRequest struct {
	Option string `json:"option" binding:"required"`
}

// SelectOption handles POST /v1/track/:token/payment-option
func (h *PaymentHandler) SelectOption(c *gin.Context) {
	var req selectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.paymentService.SelectOption(c.Request.Context(), c.Param("token"), domain.PaymentOption(req.Option))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrackingResponse(booking, nil))
}

// markPaidRequest is the payload for the guided mark-paid operation.
type markPaidRequest struct {
	Tier       string  `json:"tier" binding:"required"`
	Amount     float64 `json:"amount"`
	AdminEmail string  `json:"admin_email"`
}

// MarkPaid handles POST /v1/admin/bookings/:id/payment
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.paymentService.MarkPaid(c.Request.Context(), c.Param("id"), domain.PaymentStatus(req.Tier), req.Amount, req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.paymentService.Summarize(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, summary))
}

// correctPaymentRequest is the payload for the manual correction path.
type correctPaymentRequest struct {
	Status     string  `json:"status" binding:"required"`
	Amount     float64 `json:"amount"`
	AdminEmail string  `json:"admin_email"`
}

// Correct handles POST /v1/admin/bookings/:id/payment/correct
func (h *PaymentHandler) Correct(c *gin.Context) {
	var req correctPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.paymentService.Correct(c.Request.Context(), c.Param("id"), domain.PaymentStatus(req.Status), req.Amount, req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.paymentService.Summarize(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, summary))
}
