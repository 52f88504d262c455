package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbook/internal/service"
)

// CheckInHandler handles HTTP requests for on-site check-in.
type CheckInHandler struct {
	checkInService *service.CheckInService
}

// NewCheckInHandler creates a new CheckInHandler.
func NewCheckInHandler(checkInService *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// staffActorRequest carries the acting staff member's email.
type staffActorRequest struct {
	StaffEmail string `json:"staff_email"`
}

// CheckInResponse is the HTTP response for check-in operations.
type CheckInResponse struct {
	BookingID   string `json:"booking_id"`
	CheckedIn   bool   `json:"checked_in"`
	CheckedInAt string `json:"checked_in_at,omitempty"`
}

// CheckIn handles POST /v1/admin/bookings/:id/checkin
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var req staffActorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.checkInService.CheckIn(c.Request.Context(), c.Param("id"), req.StaffEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	response := CheckInResponse{
		BookingID: booking.ID,
		CheckedIn: booking.CheckedIn,
	}
	if booking.CheckedInAt != nil {
		response.CheckedInAt = booking.CheckedInAt.Format(timeLayout)
	}

	respondJSON(c, http.StatusOK, response)
}

// UndoCheckIn handles POST /v1/admin/bookings/:id/checkin/undo
func (h *CheckInHandler) UndoCheckIn(c *gin.Context) {
	var req staffActorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.checkInService.UndoCheckIn(c.Request.Context(), c.Param("id"), req.StaffEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckInResponse{
		BookingID: booking.ID,
		CheckedIn: booking.CheckedIn,
	})
}
