// Package padding hides the length of plaintext before it is sealed, at the
// cost of rounding it up to a fixed block size.
package padding

import (
	"encoding/binary"
	"fmt"

	"github.com/amaydixit11/pwm/pkg/secret"
)

// BlockSize is the granularity padded data is rounded up to.
const BlockSize = 1024

const trailerSize = 8 // uint64 big-endian original length

// paddedSize returns the smallest multiple of BlockSize that can hold
// originalSize bytes plus the trailing length field.
func paddedSize(originalSize int) int {
	withTrailer := originalSize + trailerSize
	blocks := withTrailer / BlockSize
	if withTrailer%BlockSize != 0 {
		blocks++
	}
	return blocks * BlockSize
}

// Pad returns data followed by random filler and an 8-byte big-endian
// trailer recording data's original length, rounded up to a multiple of
// BlockSize. The input Secret is consumed (closed) by this call.
func Pad(data secret.Secret) (secret.Secret, error) {
	defer data.Close()

	originalSize := data.Len()
	total := paddedSize(originalSize)
	fillerSize := total - originalSize - trailerSize

	filler, err := secret.Random(fillerSize)
	if err != nil {
		return secret.Secret{}, fmt.Errorf("padding: generate filler: %w", err)
	}
	defer filler.Close()

	var trailerBytes [trailerSize]byte
	binary.BigEndian.PutUint64(trailerBytes[:], uint64(originalSize))
	trailer := secret.From(trailerBytes[:])
	defer trailer.Close()

	withFiller := data.Concat(filler)
	defer withFiller.Close()
	return withFiller.Concat(trailer), nil
}

// Unpad reverses Pad, recovering the original data by reading the trailer
// and truncating the filler and trailer away. The input Secret is consumed
// (closed) by this call.
func Unpad(data secret.Secret) (secret.Secret, error) {
	defer data.Close()

	if data.Len() < trailerSize {
		return secret.Secret{}, fmt.Errorf("padding: data too short to be padded")
	}

	trailerBytes := data.Bytes()[data.Len()-trailerSize:]
	originalSize := int(binary.BigEndian.Uint64(trailerBytes))
	if originalSize < 0 || originalSize > data.Len()-trailerSize {
		return secret.Secret{}, fmt.Errorf("padding: recorded length %d is inconsistent with padded size %d", originalSize, data.Len())
	}

	return secret.From(data.Bytes()[:originalSize]), nil
}
