package repository

import (
	"bytes"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/amaydixit11/pwm/pkg/crypto"
)

const keystoreFileName = "keys.mp"

// wrappingAAD binds a wrapped key to its position in the keystore file by
// using the wrapping key's own signature as associated data, so a wrapped
// key ciphertext cannot be silently moved under a different entry.
//
// This implements the newer of the two historical keystore semantics
// (a WrappedKey's signature identifies the wrapping key, never the wrapped
// key); see DESIGN.md's "Open Question resolution".
func wrappingAAD(sig [32]byte) []byte {
	return sig[:]
}

// wrappedKeyFile is the on-disk shape of one entry in the keystore's key
// list: the master key sealed under a single wrapping key.
type wrappedKeyFile struct {
	WrappingSignature [32]byte
	Ciphertext        []byte
}

// keystoreFile is the on-disk (MessagePack) shape of keys.mp.
type keystoreFile struct {
	Token       []byte
	WrappedKeys []wrappedKeyFile
}

// tokenPlaintext is sealed under the master key and re-verified on every
// open, confirming the unwrapped master key round-trips correctly instead
// of relying solely on the AEAD tag produced during unwrap.
var tokenPlaintext = []byte("pwm-keystore-token-v1")

// Keystore holds a repository's master key, wrapped under zero or more
// password- (or hardware-token-) derived wrapping keys.
type Keystore struct {
	path        string
	masterKey   crypto.Key
	wrappedKeys []wrappedKeyFile

	// token is the master key's sealed verification token. It is computed
	// once, when the keystore is created, and never changes afterward: a
	// fresh seal on every save would needlessly perturb token_ciphertext.
	token []byte
}

// keystoreExists reports whether a keystore file is already present at path.
func keystoreExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ioErr(err, "stat keystore %s", path)
}

// createKeystore generates a fresh master key and wraps it under the given
// wrapping key as the keystore's sole initial entry.
func createKeystore(path string, wrappingKey crypto.Key) (*Keystore, error) {
	masterKey, err := crypto.NewRandomKey()
	if err != nil {
		return nil, cryptoErr(err, "generate master key")
	}

	token, err := masterKey.Encrypt(tokenPlaintext, nil)
	if err != nil {
		return nil, cryptoErr(err, "seal keystore token")
	}

	ks := &Keystore{path: path, masterKey: masterKey, token: token}
	if err := ks.addWrappedKey(wrappingKey); err != nil {
		return nil, err
	}
	if err := ks.save(); err != nil {
		return nil, err
	}
	return ks, nil
}

// openKeystore loads the keystore at path and unwraps its master key using
// wrappingKey, which must match one of the keystore's existing entries.
func openKeystore(path string, wrappingKey crypto.Key) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErr(err, "read keystore %s", path)
	}

	var f keystoreFile
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, serialization(err, "decode keystore %s", path)
	}

	sig := wrappingKey.Signature()
	for _, wk := range f.WrappedKeys {
		if wk.WrappingSignature != sig {
			continue
		}
		masterKey, err := wrappingKey.Unwrap(wk.Ciphertext, wrappingAAD(sig))
		if err != nil {
			return nil, cryptoErr(err, "unwrap master key")
		}

		token, err := masterKey.Decrypt(f.Token, nil)
		if err != nil || !bytes.Equal(token, tokenPlaintext) {
			return nil, cryptoErr(err, "keystore token verification failed")
		}

		return &Keystore{path: path, masterKey: masterKey, wrappedKeys: f.WrappedKeys, token: f.Token}, nil
	}
	return nil, cryptoErr(nil, "no matching wrapping key found in keystore")
}

// MasterKey returns the repository's content-encryption key.
func (ks *Keystore) MasterKey() crypto.Key {
	return ks.masterKey
}

// AddKey wraps the master key under wrappingKey and persists the result. It
// returns an InvalidArgument error if wrappingKey is already registered.
func (ks *Keystore) AddKey(wrappingKey crypto.Key) error {
	sig := wrappingKey.Signature()
	for _, wk := range ks.wrappedKeys {
		if wk.WrappingSignature == sig {
			return invalidArgument(nil, "the specified key is already in use, so it was not re-added")
		}
	}
	if err := ks.addWrappedKey(wrappingKey); err != nil {
		return err
	}
	return ks.save()
}

func (ks *Keystore) addWrappedKey(wrappingKey crypto.Key) error {
	sig := wrappingKey.Signature()
	ciphertext, err := wrappingKey.Wrap(ks.masterKey, wrappingAAD(sig))
	if err != nil {
		return cryptoErr(err, "wrap master key")
	}
	ks.wrappedKeys = append(ks.wrappedKeys, wrappedKeyFile{WrappingSignature: sig, Ciphertext: ciphertext})
	return nil
}

// RemoveKey removes the keystore entry wrapped under wrappingKey. It
// returns a NotFound error if no such entry is registered. Removing the
// last remaining key is rejected, since it would make the repository
// permanently unopenable.
func (ks *Keystore) RemoveKey(wrappingKey crypto.Key) error {
	sig := wrappingKey.Signature()
	idx := -1
	for i, wk := range ks.wrappedKeys {
		if wk.WrappingSignature == sig {
			idx = i
			break
		}
	}
	if idx == -1 {
		return notFound(nil, "the specified key is not registered with this repository")
	}
	if len(ks.wrappedKeys) == 1 {
		return invalidArgument(nil, "refusing to remove the last remaining key")
	}

	ks.wrappedKeys = append(ks.wrappedKeys[:idx], ks.wrappedKeys[idx+1:]...)
	return ks.save()
}

func (ks *Keystore) save() error {
	f := keystoreFile{Token: ks.token, WrappedKeys: ks.wrappedKeys}
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return serialization(err, "encode keystore")
	}
	if err := writeFileAtomic(ks.path, data, 0o600); err != nil {
		return ioErr(err, "write keystore %s", ks.path)
	}
	return nil
}
