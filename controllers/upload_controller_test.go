package controllers

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestSniffContentType(t *testing.T) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
	}{
		{name: "png by magic bytes", data: pngBuf.Bytes(), filename: "photo.jpg", want: "image/png"},
		{name: "jpeg by magic bytes", data: []byte("\xff\xd8\xff\xe0rest"), filename: "x.bin", want: "image/jpeg"},
		{name: "pdf by magic bytes", data: []byte("%PDF-1.7 ..."), filename: "doc.pdf", want: "application/pdf"},
		{name: "unknown binary falls back to pdf extension", data: []byte{0x01, 0x02, 0x03, 0x04}, filename: "scan.PDF", want: "application/pdf"},
		{name: "unknown binary without pdf extension", data: []byte{0x01, 0x02, 0x03, 0x04}, filename: "scan.exe", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffContentType(tt.data, tt.filename); got != tt.want {
				t.Errorf("sniffContentType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllowedUploadTypes(t *testing.T) {
	for _, blocked := range []string{"text/html", "application/javascript", "image/svg+xml", "video/mp4"} {
		if _, ok := allowedUploadTypes[blocked]; ok {
			t.Errorf("%s must not be uploadable", blocked)
		}
	}
	for _, allowed := range []string{"image/jpeg", "image/png", "image/webp", "image/gif", "application/pdf"} {
		if _, ok := allowedUploadTypes[allowed]; !ok {
			t.Errorf("%s should be uploadable", allowed)
		}
	}
}
