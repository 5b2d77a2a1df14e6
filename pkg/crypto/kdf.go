package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length in bytes of an Argon2id salt.
const SaltSize = 32

// Argon2 parallelism is fixed; only the memory and time costs are tunable,
// matching the knobs the stored crypto configuration exposes.
const argon2Threads = 2

// KDFParams holds the tunable Argon2id cost parameters used to derive a key
// from a password. They are persisted alongside a salt so a password can be
// re-derived identically on a later unlock.
type KDFParams struct {
	MemLimit uint32 // KiB
	OpsLimit uint32 // passes
}

// DefaultKDFParams returns parameters sized for interactive use on current
// hardware (OWASP's Argon2id baseline: 64 MiB, 3 passes).
func DefaultKDFParams() KDFParams {
	return KDFParams{MemLimit: 64 * 1024, OpsLimit: 3}
}

// NewSalt returns a fresh random Argon2id salt.
func NewSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return salt, fmt.Errorf("crypto: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey runs Argon2id over password and salt under params, producing a
// Key. The password is never retained by this function.
func DeriveKey(password []byte, salt [SaltSize]byte, params KDFParams) Key {
	dk := argon2.IDKey(password, salt[:], params.OpsLimit, params.MemLimit, argon2Threads, KeySize)
	var k Key
	copy(k[:], dk)
	for i := range dk {
		dk[i] = 0
	}
	return k
}
