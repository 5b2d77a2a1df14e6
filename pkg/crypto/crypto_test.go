package crypto

import "testing"

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := NewRandomKey()
	if err != nil {
		t.Fatalf("NewRandomKey: %v", err)
	}
	plaintext := []byte("the quick brown fox")
	aad := []byte("context")

	sealed, err := Seal(key, plaintext, aad)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(sealed) != NonceSize+len(plaintext)+TagSize {
		t.Fatalf("sealed length = %d, want %d", len(sealed), NonceSize+len(plaintext)+TagSize)
	}

	got, err := Open(key, sealed, aad)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("Open() = %q, want %q", got, plaintext)
	}
}

func TestOpenRejectsWrongAAD(t *testing.T) {
	key, _ := NewRandomKey()
	sealed, err := Seal(key, []byte("secret"), []byte("aad-a"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(key, sealed, []byte("aad-b")); err == nil {
		t.Fatal("Open succeeded with mismatched aad")
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	key, _ := NewRandomKey()
	sealed, err := Seal(key, []byte("secret"), nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := Open(key, sealed, nil); err == nil {
		t.Fatal("Open succeeded on tampered ciphertext")
	}
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	params := KDFParams{MemLimit: 8 * 1024, OpsLimit: 1}

	a := DeriveKey([]byte("hunter2"), salt, params)
	b := DeriveKey([]byte("hunter2"), salt, params)
	if !a.Equal(b) {
		t.Fatal("DeriveKey not deterministic for identical inputs")
	}

	c := DeriveKey([]byte("hunter3"), salt, params)
	if a.Equal(c) {
		t.Fatal("DeriveKey produced equal keys for different passwords")
	}
}

func TestKeySignatureStable(t *testing.T) {
	key, _ := NewRandomKey()
	if key.Signature() != key.Signature() {
		t.Fatal("Signature() not stable across calls")
	}

	other, _ := NewRandomKey()
	if key.Signature() == other.Signature() {
		t.Fatal("two distinct keys produced the same signature")
	}
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	wrapping, _ := NewRandomKey()
	inner, _ := NewRandomKey()
	aad := wrapping.Signature()

	wrapped, err := wrapping.Wrap(inner, aad[:])
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	got, err := wrapping.Unwrap(wrapped, aad[:])
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !got.Equal(inner) {
		t.Fatal("Unwrap did not recover the original key")
	}
}

func TestUnwrapRejectsWrongWrappingKey(t *testing.T) {
	wrapping, _ := NewRandomKey()
	wrong, _ := NewRandomKey()
	inner, _ := NewRandomKey()

	wrapped, err := wrapping.Wrap(inner, nil)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if _, err := wrong.Unwrap(wrapped, nil); err == nil {
		t.Fatal("Unwrap succeeded under the wrong wrapping key")
	}
}
