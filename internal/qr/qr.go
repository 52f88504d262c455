// Package qr produces QR code images for check-in credentials.
package qr

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator encodes payloads as PNG QR codes.
type Generator struct {
	size int
}

// NewGenerator creates a Generator producing 256x256 PNGs.
func NewGenerator() *Generator {
	return &Generator{size: defaultSize}
}

// Encode returns the payload as a PNG QR code.
func (g *Generator) Encode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("empty payload")
	}
	return qrcode.Encode(payload, qrcode.Medium, g.size)
}
