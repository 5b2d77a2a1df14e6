// Package piv is the hardware-token collaborator: an optional source of
// master-key material backed by a PIV smart card or security key, plus a
// local registry of token serials pwm has previously seen.
package piv

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amaydixit11/pwm/pkg/crypto"
)

// MasterKeyFinder locates a wrapping key from an attached hardware token,
// if one is present and enrolled. Implementations must return
// (zero key, false, nil) when no token-backed key is available, rather than
// an error, so callers can fall back to a password prompt transparently.
type MasterKeyFinder interface {
	FindMasterKey() (crypto.Key, bool, error)
}

// Registry tracks hardware token serials pwm has seen, so a CLI can warn
// when a newly attached token wasn't the one used to originally enroll a
// repository's hardware-backed key.
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens (creating if necessary) the sqlite-backed serial
// registry at path.
func OpenRegistry(path string) (*Registry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("piv: open registry %s: %w", path, err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS token_serials (
			serial TEXT PRIMARY KEY,
			slot   TEXT NOT NULL,
			seen_count INTEGER NOT NULL DEFAULT 1
		);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("piv: initialize registry schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close releases the registry's database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// RecordSeen registers serial/slot as seen, incrementing its seen count if
// it was already known.
func (r *Registry) RecordSeen(serial, slot string) error {
	const stmt = `
		INSERT INTO token_serials (serial, slot, seen_count) VALUES (?, ?, 1)
		ON CONFLICT(serial) DO UPDATE SET seen_count = seen_count + 1, slot = excluded.slot;`
	if _, err := r.db.Exec(stmt, serial, slot); err != nil {
		return fmt.Errorf("piv: record token serial %s: %w", serial, err)
	}
	return nil
}

// Known reports whether serial has been seen by this registry before.
func (r *Registry) Known(serial string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT seen_count FROM token_serials WHERE serial = ?`, serial).Scan(&count)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("piv: query token serial %s: %w", serial, err)
	}
	return true, nil
}
