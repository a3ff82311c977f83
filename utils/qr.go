package utils

import (
	"bytes"
	"errors"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// BookingQRCode renders a booking reference as a PNG QR code for
// at-the-desk check-in
func BookingQRCode(reference string, size int) ([]byte, error) {
	if reference == "" {
		return nil, errors.New("empty booking reference")
	}
	if size <= 0 {
		size = 256
	}

	code, err := qr.Encode(reference, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}

	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
