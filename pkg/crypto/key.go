package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
)

// KeySize is the length in bytes of a Key.
const KeySize = 32

// signatureDomain separates key-identity signatures from any other use of
// HMAC-SHA256 over key material.
var signatureDomain = []byte("pwm/key-signature/v1")

// Key is symmetric key material used both to seal repository blobs directly
// and, when acting as a wrapping key, to wrap other Keys.
type Key [KeySize]byte

// NewRandomKey returns a fresh random Key, suitable as a repository's
// primary content key.
func NewRandomKey() (Key, error) {
	var k Key
	if _, err := io.ReadFull(rand.Reader, k[:]); err != nil {
		return k, fmt.Errorf("crypto: generate key: %w", err)
	}
	return k, nil
}

// NewPasswordKey derives a Key from password using Argon2id under the given
// salt and parameters. It is used to produce a wrapping key from a
// passphrase, never as a repository content key directly.
func NewPasswordKey(password []byte, salt [SaltSize]byte, params KDFParams) Key {
	return DeriveKey(password, salt, params)
}

// Bytes returns the key's raw bytes. The caller must not retain the slice
// past the Key's useful lifetime.
func (k Key) Bytes() []byte {
	return k[:]
}

// Signature returns a stable identifier for k, derived independently of any
// wrap/unwrap operation. Two equal keys always produce equal signatures;
// the signature reveals nothing about k's bytes.
func (k Key) Signature() [32]byte {
	mac := hmac.New(sha256.New, signatureDomain)
	mac.Write(k[:])
	var sig [32]byte
	copy(sig[:], mac.Sum(nil))
	return sig
}

// Equal reports whether k and other hold identical bytes, compared in
// constant time.
func (k Key) Equal(other Key) bool {
	return subtle.ConstantTimeCompare(k[:], other[:]) == 1
}

// Encrypt seals plaintext under k, binding aad as associated data.
func (k Key) Encrypt(plaintext, aad []byte) ([]byte, error) {
	return Seal(k, plaintext, aad)
}

// Decrypt opens a buffer produced by Encrypt under k.
func (k Key) Decrypt(sealed, aad []byte) ([]byte, error) {
	return Open(k, sealed, aad)
}

// Wrap seals inner under k (acting as a wrapping key), binding aad. The
// result is suitable for persisting as a WrappedKey ciphertext.
func (k Key) Wrap(inner Key, aad []byte) ([]byte, error) {
	return Seal(k, inner[:], aad)
}

// Unwrap reverses Wrap, recovering the inner Key.
func (k Key) Unwrap(sealed, aad []byte) (Key, error) {
	var inner Key
	plaintext, err := Open(k, sealed, aad)
	if err != nil {
		return inner, err
	}
	if len(plaintext) != KeySize {
		return inner, fmt.Errorf("crypto: unwrapped key has wrong length %d", len(plaintext))
	}
	copy(inner[:], plaintext)
	for i := range plaintext {
		plaintext[i] = 0
	}
	return inner, nil
}

// Zero overwrites k's bytes in place.
func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}
