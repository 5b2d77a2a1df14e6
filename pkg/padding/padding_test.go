package padding

import (
	"testing"

	"github.com/amaydixit11/pwm/pkg/secret"
)

func TestPadRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"a",
		"the quick brown fox jumps over the lazy dog",
	}
	for _, c := range cases {
		padded, err := Pad(secret.From([]byte(c)))
		if err != nil {
			t.Fatalf("Pad(%q): %v", c, err)
		}
		if padded.Len()%BlockSize != 0 {
			t.Fatalf("Pad(%q) length %d is not a multiple of %d", c, padded.Len(), BlockSize)
		}

		unpadded, err := Unpad(padded)
		if err != nil {
			t.Fatalf("Unpad after Pad(%q): %v", c, err)
		}
		defer unpadded.Close()
		if string(unpadded.Bytes()) != c {
			t.Fatalf("round trip = %q, want %q", unpadded.Bytes(), c)
		}
	}
}

func TestPadHidesLength(t *testing.T) {
	short, err := Pad(secret.From([]byte("short")))
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	defer short.Close()

	longer, err := Pad(secret.From([]byte("a fair bit longer than short but still under one block")))
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	defer longer.Close()

	if short.Len() != longer.Len() {
		t.Fatalf("padded lengths differ for inputs in the same block: %d vs %d", short.Len(), longer.Len())
	}
}

func TestPadAlwaysGrows(t *testing.T) {
	exact := make([]byte, BlockSize-8)
	padded, err := Pad(secret.From(exact))
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	defer padded.Close()
	if padded.Len() != BlockSize {
		t.Fatalf("Pad(%d bytes) length = %d, want %d", len(exact), padded.Len(), BlockSize)
	}
}

func TestUnpadRejectsShortInput(t *testing.T) {
	if _, err := Unpad(secret.From([]byte{1, 2, 3})); err == nil {
		t.Fatal("Unpad accepted input shorter than the trailer")
	}
}

func TestUnpadRejectsInconsistentTrailer(t *testing.T) {
	data := make([]byte, BlockSize)
	// Claim an original length far larger than the padded buffer.
	for i := range data[len(data)-8:] {
		data[len(data)-8+i] = 0xFF
	}
	if _, err := Unpad(secret.From(data)); err == nil {
		t.Fatal("Unpad accepted a trailer claiming an impossible length")
	}
}
