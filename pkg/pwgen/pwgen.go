// Package pwgen generates passwords and hex strings from a CSPRNG.
package pwgen

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/amaydixit11/pwm/pkg/secret"
)

// CharacterSet identifies a pool of characters a generated password may draw
// from.
type CharacterSet int

const (
	Letters CharacterSet = iota
	Numbers
	Symbols
)

var charsetRunes = map[CharacterSet][]rune{
	Letters: []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	Numbers: []rune("0123456789"),
	Symbols: []rune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"),
}

// RecommendedMinimumLength is the shortest length callers should default to
// when a user does not specify one.
const RecommendedMinimumLength = 16

const hexDigits = "0123456789abcdef"

// Generate returns a random password of the given length, drawn uniformly
// (via rejection-free bounded sampling) from the union of charsets with any
// runes in exclude removed.
func Generate(length int, charsets []CharacterSet, exclude []rune) (secret.Secret, error) {
	if length == 0 {
		return secret.Secret{}, fmt.Errorf("pwgen: refusing to generate a password of length 0")
	}

	excluded := make(map[rune]bool, len(exclude))
	for _, r := range exclude {
		excluded[r] = true
	}

	var pool []rune
	for _, cs := range charsets {
		for _, r := range charsetRunes[cs] {
			if !excluded[r] {
				pool = append(pool, r)
			}
		}
	}
	if len(pool) == 0 {
		return secret.Secret{}, fmt.Errorf("pwgen: cannot generate passwords from an empty character set")
	}

	out := make([]rune, length)
	poolSize := big.NewInt(int64(len(pool)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, poolSize)
		if err != nil {
			return secret.Secret{}, fmt.Errorf("pwgen: sample character: %w", err)
		}
		out[i] = pool[idx.Int64()]
	}
	return secret.From([]byte(string(out))), nil
}

// GenerateHex returns a random hex string of the given digit length, used
// for PIV PIN/PUK/management key material.
func GenerateHex(digits int) (secret.Secret, error) {
	if digits == 0 {
		return secret.Secret{}, fmt.Errorf("pwgen: refusing to generate a hex string of length 0")
	}

	out := make([]byte, digits)
	sixteen := big.NewInt(16)
	for i := range out {
		idx, err := rand.Int(rand.Reader, sixteen)
		if err != nil {
			return secret.Secret{}, fmt.Errorf("pwgen: sample hex digit: %w", err)
		}
		out[i] = hexDigits[idx.Int64()]
	}
	return secret.From(out), nil
}
