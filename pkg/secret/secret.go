// Package secret holds byte buffers that must not outlive their usefulness.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

// DefaultMaxFileSize bounds LoadFile absent an explicit caller-supplied limit.
const DefaultMaxFileSize = 10 << 20 // 10 MiB

// Secret wraps a byte slice that is zeroed on Close. The zero value is an
// empty, already-closed Secret.
type Secret struct {
	b      []byte
	closed bool
}

// New returns a Secret holding n zero bytes.
func New(n int) Secret {
	return Secret{b: make([]byte, n)}
}

// Random returns a Secret holding n bytes read from crypto/rand.
func Random(n int) (Secret, error) {
	s := New(n)
	if _, err := io.ReadFull(rand.Reader, s.b); err != nil {
		return Secret{}, fmt.Errorf("secret: read random bytes: %w", err)
	}
	return s, nil
}

// From copies b into a new Secret. The caller retains ownership of b.
func From(b []byte) Secret {
	s := New(len(b))
	copy(s.b, b)
	return s
}

// LoadFile reads path into a Secret, refusing files larger than maxBytes. A
// maxBytes of 0 applies DefaultMaxFileSize.
func LoadFile(path string, maxBytes int64) (Secret, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSize
	}
	f, err := os.Open(path)
	if err != nil {
		return Secret{}, fmt.Errorf("secret: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Secret{}, fmt.Errorf("secret: stat %s: %w", path, err)
	}
	if info.Size() > maxBytes {
		return Secret{}, fmt.Errorf("secret: %s exceeds maximum size of %d bytes", path, maxBytes)
	}

	s := New(int(info.Size()))
	if _, err := io.ReadFull(f, s.b); err != nil {
		s.Close()
		return Secret{}, fmt.Errorf("secret: read %s: %w", path, err)
	}
	return s, nil
}

// Base64Decode decodes standard-encoding base64 text into a Secret.
func Base64Decode(s string) (Secret, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Secret{}, fmt.Errorf("secret: decode base64: %w", err)
	}
	return From(b), nil
}

// Base64Encode returns the standard-encoding base64 text of the Secret.
func (s Secret) Base64Encode() string {
	return base64.StdEncoding.EncodeToString(s.b)
}

// Len reports the number of bytes held by the Secret.
func (s Secret) Len() int {
	return len(s.b)
}

// Bytes returns the underlying slice. The caller must not retain it past the
// Secret's Close.
func (s Secret) Bytes() []byte {
	return s.b
}

// Concat returns a new Secret holding s followed by other. Neither input is
// modified or closed.
func (s Secret) Concat(other Secret) Secret {
	out := New(len(s.b) + len(other.b))
	copy(out.b, s.b)
	copy(out.b[len(s.b):], other.b)
	return out
}

// Truncate returns a new Secret holding the first n bytes of s, zeroing the
// dropped tail before returning. n must not exceed s.Len().
func (s Secret) Truncate(n int) Secret {
	if n < 0 || n > len(s.b) {
		panic("secret: truncate length out of range")
	}
	tail := s.b[n:]
	zero(tail)
	out := New(n)
	copy(out.b, s.b[:n])
	return out
}

// Equal reports whether s and other hold identical bytes, compared in
// constant time.
func (s Secret) Equal(other Secret) bool {
	if len(s.b) != len(other.b) {
		return false
	}
	return subtle.ConstantTimeCompare(s.b, other.b) == 1
}

// Close zeroes the underlying bytes. Close is idempotent and safe to call on
// the zero value.
func (s *Secret) Close() {
	if s.closed {
		return
	}
	zero(s.b)
	s.closed = true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
