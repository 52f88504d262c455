package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourbook/internal/domain"
	"tourbook/internal/service"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// BookingHandler handles HTTP requests for booking lifecycle operations.
type BookingHandler struct {
	bookingService  *service.BookingService
	paymentService  *service.PaymentService
	activityService *service.ActivityService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(
	bookingService *service.BookingService,
	paymentService *service.PaymentService,
	activityService *service.ActivityService,
) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		paymentService:  paymentService,
		activityService: activityService,
	}
}

// ParticipantPayload is one rider in a submission request.
type ParticipantPayload struct {
	Name        string `json:"name" binding:"required"`
	HeightCM    int    `json:"height_cm"`
	HelmetSize  string `json:"helmet_size"`
	DietaryNote string `json:"dietary_note"`
}

// SubmitBookingRequest is the payload for POST /v1/bookings.
type SubmitBookingRequest struct {
	RouteID       string               `json:"route_id" binding:"required"`
	TourDate      string               `json:"tour_date"`
	CustomerName  string               `json:"customer_name" binding:"required"`
	CustomerEmail string               `json:"customer_email" binding:"required,email"`
	CustomerPhone string               `json:"customer_phone"`
	PaxCount      int                  `json:"pax_count" binding:"required"`
	Participants  []ParticipantPayload `json:"participants" binding:"required"`
}

// WaiverInfo is one waiver record in a booking response.
type WaiverInfo struct {
	ParticipantIndex int    `json:"participant_index"`
	SignerName       string `json:"signer_name"`
	Signed           bool   `json:"signed"`
	SignedAt         string `json:"signed_at,omitempty"`
}

// PaymentSummaryInfo is the payment block in a booking response.
type PaymentSummaryInfo struct {
	EffectiveTotal   float64 `json:"effective_total"`
	Deposit          float64 `json:"deposit"`
	AmountPaid       float64 `json:"amount_paid"`
	Remaining        float64 `json:"remaining"`
	PaymentOption    string  `json:"payment_option,omitempty"`
	PaymentStatus    string  `json:"payment_status"`
	DepositOutOfSync bool    `json:"deposit_out_of_sync,omitempty"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	BookingID       string              `json:"booking_id,omitempty"`
	TrackingToken   string              `json:"tracking_token"`
	RouteID         string              `json:"route_id"`
	TourDate        string              `json:"tour_date,omitempty"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	PaxCount        int                 `json:"pax_count"`
	Status          string              `json:"status"`
	PaymentSlipURL  string              `json:"payment_slip_url,omitempty"`
	CheckInQRURL    string              `json:"checkin_qr_url,omitempty"`
	CheckedIn       bool                `json:"checked_in"`
	CheckedInAt     string              `json:"checked_in_at,omitempty"`
	WaiversComplete bool                `json:"waivers_complete"`
	Waivers         []WaiverInfo        `json:"waivers,omitempty"`
	Payment         *PaymentSummaryInfo `json:"payment,omitempty"`
	CreatedAt       string              `json:"created_at"`
}

// toBookingResponse converts a booking for admin consumption; the id
// is included.
func toBookingResponse(b *domain.Booking, summary *service.Summary) BookingResponse {
	resp := BookingResponse{
		BookingID:       b.ID,
		TrackingToken:   b.TrackingToken,
		RouteID:         b.RouteID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		PaxCount:        b.PaxCount,
		Status:          string(b.Status),
		PaymentSlipURL:  b.PaymentSlipURL,
		CheckInQRURL:    b.CheckInQRURL,
		CheckedIn:       b.CheckedIn,
		WaiversComplete: b.WaiversComplete(),
		CreatedAt:       b.CreatedAt.Format(timeLayout),
	}

	if !b.TourDate.IsZero() {
		resp.TourDate = b.TourDate.Format("2006-01-02")
	}
	if b.CheckedInAt != nil {
		resp.CheckedInAt = b.CheckedInAt.Format(timeLayout)
	}

	for i := 0; i < b.PaxCount; i++ {
		rec, ok := b.Waiver(i)
		if !ok {
			resp.Waivers = append(resp.Waivers, WaiverInfo{ParticipantIndex: i})
			continue
		}
		info := WaiverInfo{
			ParticipantIndex: i,
			SignerName:       rec.SignerName,
			Signed:           rec.Signed,
		}
		if !rec.SignedAt.IsZero() {
			info.SignedAt = rec.SignedAt.Format(timeLayout)
		}
		resp.Waivers = append(resp.Waivers, info)
	}

	if summary != nil {
		resp.Payment = &PaymentSummaryInfo{
			EffectiveTotal:   summary.EffectiveTotal,
			Deposit:          summary.Deposit,
			AmountPaid:       summary.AmountPaid,
			Remaining:        summary.Remaining,
			PaymentOption:    string(summary.PaymentOption),
			PaymentStatus:    string(summary.PaymentStatus),
			DepositOutOfSync: summary.DepositOutOfSync,
		}
	}

	return resp
}

// toTrackingResponse converts a booking for the customer tracking
// page; the internal id stays hidden.
func toTrackingResponse(b *domain.Booking, summary *service.Summary) BookingResponse {
	resp := toBookingResponse(b, summary)
	resp.BookingID = ""
	return resp
}

// Submit handles POST /v1/bookings
func (h *BookingHandler) Submit(c *gin.Context) {
	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var tourDate time.Time
	if req.TourDate != "" {
		var err error
		tourDate, err = time.Parse("2006-01-02", req.TourDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "tour_date must be YYYY-MM-DD"})
			return
		}
	}

	participants := make([]domain.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, domain.Participant{
			Name:        p.Name,
			HeightCM:    p.HeightCM,
			HelmetSize:  p.HelmetSize,
			DietaryNote: p.DietaryNote,
		})
	}

	booking, err := h.bookingService.Submit(c.Request.Context(), service.SubmitBookingRequest{
		RouteID:       req.RouteID,
		TourDate:      tourDate,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PaxCount:      req.PaxCount,
		Participants:  participants,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTrackingResponse(booking, nil))
}

// Track handles GET /v1/track/:token
func (h *BookingHandler) Track(c *gin.Context) {
	booking, err := h.bookingService.GetByTrackingToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.paymentService.Summarize(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrackingResponse(booking, summary))
}

// UploadPaymentSlip handles POST /v1/track/:token/payment-slip
func (h *BookingHandler) UploadPaymentSlip(c *gin.Context) {
	file, header, err := c.Request.FormFile("slip")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "slip file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read slip file"})
		return
	}

	booking, err := h.bookingService.UploadPaymentSlip(c.Request.Context(), c.Param("token"), header.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrackingResponse(booking, nil))
}

// GetAll handles GET /v1/admin/bookings
func (h *BookingHandler) GetAll(c *gin.Context) {
	bookings, err := h.bookingService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b, nil))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /v1/admin/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetByID(c.Request.Context(), c.Param("id"))
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

// adminActorRequest carries the acting administrator's email.
type adminActorRequest struct {
	AdminEmail string `json:"admin_email"`
}

// Approve handles POST /v1/admin/bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	var req adminActorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.bookingService.Approve(c.Request.Context(), c.Param("id"), req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, nil))
}

// Confirm handles POST /v1/admin/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	var req adminActorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.bookingService.Confirm(c.Request.Context(), c.Param("id"), req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, nil))
}

// Cancel handles POST /v1/admin/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req adminActorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.bookingService.Cancel(c.Request.Context(), c.Param("id"), req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, nil))
}

// forceStatusRequest is the payload for forcing a status.
type forceStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminEmail string `json:"admin_email"`
}

// ForceStatus handles POST /v1/admin/bookings/:id/force-status
func (h *BookingHandler) ForceStatus(c *gin.Context) {
	var req forceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.bookingService.ForceStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status), req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, nil))
}

// customTotalRequest is the payload for the price override. A null
// custom_total clears the override.
type customTotalRequest struct {
	CustomTotal *float64 `json:"custom_total"`
	AdminEmail  string   `json:"admin_email"`
}

// SetCustomTotal handles POST /v1/admin/bookings/:id/custom-total
func (h *BookingHandler) SetCustomTotal(c *gin.Context) {
	var req customTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.bookingService.SetCustomTotal(c.Request.Context(), c.Param("id"), req.CustomTotal, req.AdminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	// The summary shows the consequences of the override right away,
	// including a deposit that no longer matches.
	summary, err := h.paymentService.Summarize(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, summary))
}

// CustomerResponse is the HTTP representation of a customer aggregate.
type CustomerResponse struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	TotalBookings int    `json:"total_bookings"`
	LastBookingAt string `json:"last_booking_at,omitempty"`
}

// Customer handles GET /v1/admin/customers/:email
func (h *BookingHandler) Customer(c *gin.Context) {
	customer, err := h.bookingService.GetCustomer(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := CustomerResponse{
		Email:         customer.Email,
		Name:          customer.Name,
		Phone:         customer.Phone,
		TotalBookings: customer.TotalBookings,
	}
	if !customer.LastBookingAt.IsZero() {
		resp.LastBookingAt = customer.LastBookingAt.Format(timeLayout)
	}

	respondJSON(c, http.StatusOK, resp)
}

// Delete handles DELETE /v1/admin/bookings/:id
func (h *BookingHandler) Delete(c *gin.Context) {
	var req adminActorRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.bookingService.Delete(c.Request.Context(), c.Param("id"), req.AdminEmail); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivityEntryResponse is one audit entry in an activity page.
type ActivityEntryResponse struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Actor       string         `json:"actor"`
	ActorEmail  string         `json:"actor_email,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Level       string         `json:"level"`
	CreatedAt   string         `json:"created_at"`
}

// Activity handles GET /v1/admin/bookings/:id/activity
func (h *BookingHandler) Activity(c *gin.Context) {
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	entries, err := h.activityService.History(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, ActivityEntryResponse{
			ID:          e.ID,
			Action:      e.Action,
			Description: e.Description,
			Actor:       string(e.Actor),
			ActorEmail:  e.ActorEmail,
			Metadata:    e.Metadata,
			Level:       string(e.Level),
			CreatedAt:   e.CreatedAt.Format(timeLayout),
		})
	}

	c.JSON(http.StatusOK, response)
}
