// Package render turns an issued credential into shareable artwork.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// Card is everything a renderer may see about a credential. The verify URL
// is the only place a token can appear.
type Card struct {
	VerifyURL  string
	FullName   string
	JobTitle   string
	EmployeeID string
	Status     string
}

// QRRenderer encodes the verify URL of a card as a PNG QR code.
type QRRenderer struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewQRRenderer returns a renderer producing size x size images.
func NewQRRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = DefaultQRSize
	}
	return &QRRenderer{size: size, level: qrcode.Medium}
}

// ContentType reports the MIME type of Render output.
func (r *QRRenderer) ContentType() string {
	return "image/png"
}

// Render encodes card.VerifyURL.
func (r *QRRenderer) Render(card Card) ([]byte, error) {
	if strings.TrimSpace(card.VerifyURL) == "" {
		return nil, errors.New("render: verify url is required")
	}
	png, err := qrcode.Encode(card.VerifyURL, r.level, r.size)
	if err != nil {
		return nil, fmt.Errorf("render: encode qr: %w", err)
	}
	return png, nil
}
