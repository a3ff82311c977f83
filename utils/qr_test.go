package utils

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBookingQRCode(t *testing.T) {
	data, err := BookingQRCode("BK-3F9A27C41B", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("size = %dx%d, want 256x256", bounds.Dx(), bounds.Dy())
	}
}

func TestBookingQRCodeEmptyReference(t *testing.T) {
	if _, err := BookingQRCode("", 256); err == nil {
		t.Error("empty reference should fail")
	}
}
