package repository

import (
	"path/filepath"
	"testing"

	"github.com/amaydixit11/pwm/pkg/crypto"
)

func TestKeystoreCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), keystoreFileName)
	wrapping, _ := crypto.NewRandomKey()

	ks, err := createKeystore(path, wrapping)
	if err != nil {
		t.Fatalf("createKeystore: %v", err)
	}
	master := ks.MasterKey()

	reopened, err := openKeystore(path, wrapping)
	if err != nil {
		t.Fatalf("openKeystore: %v", err)
	}
	if !reopened.MasterKey().Equal(master) {
		t.Fatal("reopened keystore returned a different master key")
	}
}

func TestKeystoreOpenRejectsWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), keystoreFileName)
	wrapping, _ := crypto.NewRandomKey()
	if _, err := createKeystore(path, wrapping); err != nil {
		t.Fatalf("createKeystore: %v", err)
	}

	wrong, _ := crypto.NewRandomKey()
	if _, err := openKeystore(path, wrong); err == nil {
		t.Fatal("openKeystore succeeded with an unregistered wrapping key")
	}
}

func TestKeystoreAddAndRemoveKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), keystoreFileName)
	first, _ := crypto.NewRandomKey()
	ks, err := createKeystore(path, first)
	if err != nil {
		t.Fatalf("createKeystore: %v", err)
	}

	second, _ := crypto.NewRandomKey()
	if err := ks.AddKey(second); err != nil {
		t.Fatalf("AddKey: %v", err)
	}

	// Both keys must now open the keystore.
	if _, err := openKeystore(path, first); err != nil {
		t.Fatalf("openKeystore(first) after AddKey: %v", err)
	}
	if _, err := openKeystore(path, second); err != nil {
		t.Fatalf("openKeystore(second) after AddKey: %v", err)
	}

	if err := ks.RemoveKey(first); err != nil {
		t.Fatalf("RemoveKey: %v", err)
	}
	if _, err := openKeystore(path, first); err == nil {
		t.Fatal("openKeystore(first) succeeded after RemoveKey")
	}
	if _, err := openKeystore(path, second); err != nil {
		t.Fatalf("openKeystore(second) after removing first: %v", err)
	}
}

func TestKeystoreAddKeyRejectsDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), keystoreFileName)
	wrapping, _ := crypto.NewRandomKey()
	ks, err := createKeystore(path, wrapping)
	if err != nil {
		t.Fatalf("createKeystore: %v", err)
	}
	if err := ks.AddKey(wrapping); err == nil {
		t.Fatal("AddKey accepted a wrapping key already registered")
	}
}

func TestKeystoreRemoveLastKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), keystoreFileName)
	wrapping, _ := crypto.NewRandomKey()
	ks, err := createKeystore(path, wrapping)
	if err != nil {
		t.Fatalf("createKeystore: %v", err)
	}
	if err := ks.RemoveKey(wrapping); err == nil {
		t.Fatal("RemoveKey removed the last remaining key")
	}
}

func TestKeystoreRemoveUnknownKeyNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), keystoreFileName)
	wrapping, _ := crypto.NewRandomKey()
	ks, err := createKeystore(path, wrapping)
	if err != nil {
		t.Fatalf("createKeystore: %v", err)
	}
	other, _ := crypto.NewRandomKey()
	if err := ks.RemoveKey(other); err == nil {
		t.Fatal("RemoveKey succeeded for a key never registered")
	}
}
