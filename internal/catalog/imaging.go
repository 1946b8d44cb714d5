package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
)

// ErrUndecodable marks image bytes that no registered decoder understands.
// Imports hitting this abort with nothing persisted.
var ErrUndecodable = errors.New("image bytes cannot be decoded")

// decodeMeta reads the image header and returns pixel dimensions.
// Only the header is parsed; the pixel data is never fully decoded here.
func decodeMeta(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return cfg.Width, cfg.Height, nil
}

// contentChecksum returns the hex SHA-256 of the encoded image bytes,
// used as the vault key.
func contentChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
