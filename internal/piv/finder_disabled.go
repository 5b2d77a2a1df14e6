//go:build !piv

package piv

import "github.com/amaydixit11/pwm/pkg/crypto"

// disabledFinder is the default MasterKeyFinder: no hardware-token driver
// is compiled in, so it always reports no key found rather than erroring,
// matching the original implementation's feature-gated fallback.
type disabledFinder struct{}

// NewFinder returns the active MasterKeyFinder for this build. Without the
// "piv" build tag, that is a no-op that never claims a key is available.
func NewFinder() MasterKeyFinder {
	return disabledFinder{}
}

func (disabledFinder) FindMasterKey() (crypto.Key, bool, error) {
	return crypto.Key{}, false, nil
}
