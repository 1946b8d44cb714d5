package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// PNG returns an encoded PNG of the given pixel size.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()
	return PNGSeeded(t, width, height, 0)
}

// PNGSeeded returns an encoded PNG whose bytes vary with seed, so tests can
// produce images with distinct checksums at the same size.
func PNGSeeded(t *testing.T, width, height int, seed uint8) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: seed, G: 128, B: 64, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}
