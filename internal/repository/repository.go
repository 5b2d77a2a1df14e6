// Package repository implements the encrypted, journaled password store: a
// working directory holding one crypto configuration, one keystore, a
// commit journal, and a tree of encrypted blob files.
package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amaydixit11/pwm/internal/piv"
	"github.com/amaydixit11/pwm/pkg/crypto"
	"github.com/amaydixit11/pwm/pkg/padding"
	"github.com/amaydixit11/pwm/pkg/secret"
)

const lockFileName = ".pwm.lock"

const (
	keystoreUpdateMessage       = "Update keys."
	storedPasswordUpdateMessage = "Update stored password / key."
	storedPasswordRemoveMessage = "Remove stored password / key."
)

// PasswordProvider supplies the master password used to open or initialize
// a repository's keystore. It is invoked at most once per Repository,
// lazily, the first time the keystore is actually needed.
type PasswordProvider func() (secret.Secret, error)

// Repository binds a working directory's crypto configuration, keystore,
// and commit journal into the single entry point the CLI drives.
type Repository struct {
	workdir      string
	cryptoConfig *CryptoConfig
	journal      *Journal
	lock         *os.File
	keystore     *Lazy[*Keystore]
	pivFinder    piv.MasterKeyFinder

	// create is true when this Repository was opened with permission to
	// initialize a new keystore if none exists yet.
	create bool
}

// Open opens the repository rooted at workdir, initializing it if create is
// true and no crypto configuration or keystore exists yet there. password
// is called at most once, lazily, the first time the master key is needed.
func Open(workdir string, create bool, password PasswordProvider) (*Repository, error) {
	if err := os.MkdirAll(workdir, 0o700); err != nil {
		return nil, ioErr(err, "create working directory %s", workdir)
	}

	lock, err := acquireLock(filepath.Join(workdir, lockFileName))
	if err != nil {
		return nil, err
	}

	cryptoConfig, err := loadOrInitCryptoConfig(filepath.Join(workdir, cryptoConfigFileName))
	if err != nil {
		lock.Close()
		return nil, err
	}

	journal, err := OpenJournal(filepath.Join(workdir, journalFileName))
	if err != nil {
		lock.Close()
		return nil, err
	}

	repo := &Repository{
		workdir:      workdir,
		cryptoConfig: cryptoConfig,
		journal:      journal,
		lock:         lock,
		create:       create,
		pivFinder:    piv.NewFinder(),
	}
	repo.keystore = NewLazy(func() (*Keystore, error) {
		return repo.openOrCreateKeystore(password)
	})
	return repo, nil
}

func (r *Repository) openOrCreateKeystore(password PasswordProvider) (*Keystore, error) {
	path := filepath.Join(r.workdir, keystoreFileName)

	exists, err := keystoreExists(path)
	if err != nil {
		return nil, err
	}
	if !exists && !r.create {
		return nil, notFound(nil, "no keystore found at %s", path)
	}

	// Try a hardware-token-derived wrapping key silently before falling back
	// to prompting for a password. The disabled finder always reports no key
	// available, so this is a no-op on builds without the piv tag.
	if exists {
		if tokenKey, found, err := r.pivFinder.FindMasterKey(); err != nil {
			return nil, cryptoErr(err, "query hardware token")
		} else if found {
			if ks, err := openKeystore(path, tokenKey); err == nil {
				return ks, nil
			}
		}
	}

	pw, err := password()
	if err != nil {
		return nil, err
	}
	defer pw.Close()
	wrappingKey := r.cryptoConfig.DeriveKey(pw.Bytes())

	if !exists {
		return createKeystore(path, wrappingKey)
	}
	return openKeystore(path, wrappingKey)
}

// acquireLock takes an advisory exclusive lock on path, failing if another
// process already holds it.
func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, ioErr(err, "repository is already open (lock file %s exists)", path)
		}
		return nil, ioErr(err, "create lock file %s", path)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f, nil
}

// Path resolves relative against this repository's working directory.
func (r *Repository) Path(relative string) (Path, error) {
	return NewPath(r.workdir, relative)
}

// EnsureOpen forces the keystore to be created or unlocked immediately,
// rather than lazily on first use. Commands like init use this so a wrong
// or missing password is reported right away.
func (r *Repository) EnsureOpen() error {
	_, err := r.masterKey()
	return err
}

func (r *Repository) masterKey() (crypto.Key, error) {
	ks, err := r.keystore.Get()
	if err != nil {
		return crypto.Key{}, cryptoErr(err, "accessing repository keystore failed")
	}
	return ks.MasterKey(), nil
}

// List returns the repository-relative paths currently tracked, optionally
// filtered to those with the given prefix.
func (r *Repository) List(prefix string) ([]string, error) {
	return r.journal.List(prefix)
}

// AddPasswordKey derives a wrapping key from password and registers it with
// the keystore, so the repository can subsequently be opened with either
// the original or this new password.
func (r *Repository) AddPasswordKey(password secret.Secret) error {
	defer password.Close()
	ks, err := r.keystore.Get()
	if err != nil {
		return cryptoErr(err, "accessing repository keystore failed")
	}
	wrappingKey := r.cryptoConfig.DeriveKey(password.Bytes())
	if err := ks.AddKey(wrappingKey); err != nil {
		return err
	}
	return r.commitKeystore()
}

// RemovePasswordKey derives a wrapping key from password and removes the
// matching entry from the keystore.
func (r *Repository) RemovePasswordKey(password secret.Secret) error {
	defer password.Close()
	ks, err := r.keystore.Get()
	if err != nil {
		return cryptoErr(err, "accessing repository keystore failed")
	}
	wrappingKey := r.cryptoConfig.DeriveKey(password.Bytes())
	if err := ks.RemoveKey(wrappingKey); err != nil {
		return err
	}
	return r.commitKeystore()
}

func (r *Repository) commitKeystore() error {
	return r.recordPath(keystoreFileName, keystoreUpdateMessage)
}

// WriteEncrypt pads and seals plaintext under the repository's master key
// and writes it to path, recording the write in the commit journal.
func (r *Repository) WriteEncrypt(path Path, plaintext secret.Secret) error {
	key, err := r.masterKey()
	if err != nil {
		return err
	}

	padded, err := padding.Pad(plaintext)
	if err != nil {
		return cryptoErr(err, "pad plaintext")
	}
	defer padded.Close()

	sealed, err := key.Encrypt(padded.Bytes(), nil)
	if err != nil {
		return cryptoErr(err, "encrypt %s", path.Relative())
	}

	if err := os.MkdirAll(filepath.Dir(path.Absolute()), 0o700); err != nil {
		return ioErr(err, "create parent directory for %s", path.Relative())
	}
	if err := writeFileAtomic(path.Absolute(), sealed, 0o600); err != nil {
		return ioErr(err, "write %s", path.Relative())
	}

	return r.recordPath(path.Relative(), storedPasswordUpdateMessage)
}

// ReadDecrypt reads and unseals the blob at path, returning its original
// (unpadded) plaintext.
func (r *Repository) ReadDecrypt(path Path) (secret.Secret, error) {
	key, err := r.masterKey()
	if err != nil {
		return secret.Secret{}, err
	}

	data, err := os.ReadFile(path.Absolute())
	if os.IsNotExist(err) {
		return secret.Secret{}, notFound(err, "no stored password at path %q", path.Relative())
	}
	if err != nil {
		return secret.Secret{}, ioErr(err, "read %s", path.Relative())
	}

	plaintext, err := key.Decrypt(data, nil)
	if err != nil {
		return secret.Secret{}, cryptoErr(err, "decrypt %s", path.Relative())
	}

	padded := secret.From(plaintext)
	for i := range plaintext {
		plaintext[i] = 0
	}
	unpadded, err := padding.Unpad(padded)
	if err != nil {
		return secret.Secret{}, serialization(err, "unpad %s", path.Relative())
	}
	return unpadded, nil
}

// Remove deletes the blob at path and records the removal in the journal.
func (r *Repository) Remove(path Path) error {
	if err := os.Remove(path.Absolute()); err != nil {
		if os.IsNotExist(err) {
			return notFound(err, "no stored password at path %q", path.Relative())
		}
		return ioErr(err, "remove %s", path.Relative())
	}
	return r.recordRemoval(path.Relative())
}

// recordPath snapshots the current on-disk path set into the journal after
// relative has been written.
func (r *Repository) recordPath(relative, message string) error {
	paths, err := r.currentPaths()
	if err != nil {
		return err
	}
	if err := r.journal.CommitPaths(paths, message); err != nil {
		return ioErr(err, "commit journal entry for %s", relative)
	}
	return nil
}

func (r *Repository) recordRemoval(relative string) error {
	return r.recordPath(relative, storedPasswordRemoveMessage)
}

// currentPaths walks the working directory, returning every file except
// the repository's own reserved files, as paths relative to workdir.
func (r *Repository) currentPaths() ([]string, error) {
	var paths []string
	err := filepath.Walk(r.workdir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.workdir, p)
		if err != nil {
			return err
		}
		if reservedNames[filepath.Base(rel)] {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, ioErr(err, "walk working directory %s", r.workdir)
	}
	return paths, nil
}

// Close releases the repository's journal handle and advisory lock. It
// does not itself write anything; writes are committed to the journal as
// they happen rather than being deferred to close, so there is no
// destructor-driven flush to forget.
func (r *Repository) Close() error {
	var firstErr error
	if err := r.journal.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	path := r.lock.Name()
	if err := r.lock.Close(); err != nil && firstErr == nil {
		firstErr = ioErr(err, "close lock file")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
		firstErr = ioErr(err, "remove lock file")
	}
	return firstErr
}
