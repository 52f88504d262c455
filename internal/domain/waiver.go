package domain

import "time"

// WaiverRecord is one participant's liability waiver. Records live on
// the booking keyed by participant index (0-based).
type WaiverRecord struct {
	ParticipantIndex int       `json:"participant_index"`
	SignerName       string    `json:"signer_name"`
	PassportID       string    `json:"passport_id"`
	Email            string    `json:"email"`
	Signed           bool      `json:"signed"`
	SignedAt         time.Time `json:"signed_at,omitempty"`
	SignatureURL     string    `json:"signature_url,omitempty"`
}
