// Package crypto provides the authenticated-encryption and key-derivation
// primitives the repository layer builds on.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// NonceSize is the XChaCha20-Poly1305 nonce length in bytes.
	NonceSize = chacha20poly1305.NonceSizeX
	// TagSize is the Poly1305 authentication tag length in bytes.
	TagSize = chacha20poly1305.Overhead
)

// ErrOpen indicates an AEAD open failed: wrong key, tampered ciphertext, or
// mismatched associated data.
var ErrOpen = errors.New("crypto: authentication failed")

// Seal encrypts plaintext under key with a freshly generated nonce, binding
// aad as associated data. The returned slice is nonce || ciphertext || tag.
func Seal(key Key, plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("crypto: new aead: %w", err)
	}

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", err)
	}
	nonce := out[:NonceSize]
	return aead.Seal(out, nonce, plaintext, aad), nil
}

// Open decrypts a buffer produced by Seal under key, verifying aad matches.
func Open(key Key, sealed, aad []byte) ([]byte, error) {
	if len(sealed) < NonceSize {
		return nil, ErrOpen
	}

	aead, err := chacha20poly1305.NewX(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("crypto: new aead: %w", err)
	}

	nonce, ciphertext := sealed[:NonceSize], sealed[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
