package repository

import (
	"math"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/amaydixit11/pwm/pkg/crypto"
)

const cryptoConfigFileName = "crypto_configuration.mp"

// currentCryptoConfigVersion is the only crypto configuration version this
// build understands. Loading a file stamped with any other version is
// rejected rather than silently reinterpreted.
const currentCryptoConfigVersion = 1

// cryptoConfigFile is the on-disk (MessagePack) shape of the crypto
// configuration: the Argon2id salt and cost parameters used to turn a
// master password into a wrapping key. It never contains key material.
type cryptoConfigFile struct {
	Version  uint32
	Salt     [crypto.SaltSize]byte
	MemLimit uint64
	OpsLimit uint64
}

// CryptoConfig is the in-memory view of a repository's persisted Argon2id
// parameters.
type CryptoConfig struct {
	path string
	salt [crypto.SaltSize]byte
	kdf  crypto.KDFParams
}

// loadOrInitCryptoConfig reads path's crypto configuration, creating one
// with a fresh random salt and default KDF parameters if it doesn't exist.
func loadOrInitCryptoConfig(path string) (*CryptoConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		salt, serr := crypto.NewSalt()
		if serr != nil {
			return nil, cryptoErr(serr, "generate crypto configuration salt")
		}
		cc := &CryptoConfig{path: path, salt: salt, kdf: crypto.DefaultKDFParams()}
		if err := cc.save(); err != nil {
			return nil, err
		}
		return cc, nil
	}
	if err != nil {
		return nil, ioErr(err, "read crypto configuration %s", path)
	}

	var f cryptoConfigFile
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, serialization(err, "decode crypto configuration %s", path)
	}
	if f.Version != currentCryptoConfigVersion {
		return nil, serialization(nil, "crypto configuration %s has unknown version %d", path, f.Version)
	}
	if f.MemLimit > math.MaxUint32 || f.OpsLimit > math.MaxUint32 {
		return nil, serialization(nil, "crypto configuration %s has out-of-range cost parameters", path)
	}
	return &CryptoConfig{
		path: path,
		salt: f.Salt,
		kdf:  crypto.KDFParams{MemLimit: uint32(f.MemLimit), OpsLimit: uint32(f.OpsLimit)},
	}, nil
}

func (c *CryptoConfig) save() error {
	f := cryptoConfigFile{
		Version:  currentCryptoConfigVersion,
		Salt:     c.salt,
		MemLimit: uint64(c.kdf.MemLimit),
		OpsLimit: uint64(c.kdf.OpsLimit),
	}
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return serialization(err, "encode crypto configuration")
	}
	if err := writeFileAtomic(c.path, data, 0o600); err != nil {
		return ioErr(err, "write crypto configuration %s", c.path)
	}
	return nil
}

// DeriveKey derives a wrapping key from password under this configuration's
// salt and cost parameters.
func (c *CryptoConfig) DeriveKey(password []byte) crypto.Key {
	return crypto.NewPasswordKey(password, c.salt, c.kdf)
}
