package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourbook/internal/service"
)

// WaiverHandler handles HTTP requests for waiver signing.
type WaiverHandler struct {
	waiverService *service.WaiverService
}

// NewWaiverHandler creates a new WaiverHandler.
func NewWaiverHandler(waiverService *service.WaiverService) *WaiverHandler {
	return &WaiverHandler{waiverService: waiverService}
}

// Sign handles POST /v1/track/:token/waivers/:idx
//
// Multipart form: signer_name, passport_id, email fields plus a
// signature image file.
func (h *WaiverHandler) Sign(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participant index must be a number"})
		return
	}

	var signature []byte
	if file, _, err := c.Request.FormFile("signature"); err == nil {
		defer file.Close()
		signature, _ = io.ReadAll(file)
	}

	booking, err := h.waiverService.Sign(c.Request.Context(), c.Param("token"), idx, service.SignWaiverRequest{
		SignerName: c.PostForm("signer_name"),
		PassportID: c.PostForm("passport_id"),
		Email:      c.PostForm("email"),
		Signature:  signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrackingResponse(booking, nil))
}

// sendLinkRequest is the payload for mailing a signing link.
type sendLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendLink handles POST /v1/track/:token/waivers/:idx/send-link
func (h *WaiverHandler) SendLink(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participant index must be a number"})
		return
	}

	var req sendLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.waiverService.SendSigningLink(c.Request.Context(), c.Param("token"), idx, req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"sent": true})
}
