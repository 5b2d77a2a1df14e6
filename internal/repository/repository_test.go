package repository

import (
	"testing"

	"github.com/amaydixit11/pwm/pkg/secret"
)

func fixedPassword(pw string) PasswordProvider {
	return func() (secret.Secret, error) {
		return secret.From([]byte(pw)), nil
	}
}

func openTestRepository(t *testing.T, dir, password string) *Repository {
	t.Helper()
	repo, err := Open(dir, true, fixedPassword(password))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryWriteReadRoundTrip(t *testing.T) {
	repo := openTestRepository(t, t.TempDir(), "hunter2")

	p, err := repo.Path("sites/example.com")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := repo.WriteEncrypt(p, secret.From([]byte("hunter2-the-password"))); err != nil {
		t.Fatalf("WriteEncrypt: %v", err)
	}

	got, err := repo.ReadDecrypt(p)
	if err != nil {
		t.Fatalf("ReadDecrypt: %v", err)
	}
	defer got.Close()
	if string(got.Bytes()) != "hunter2-the-password" {
		t.Fatalf("ReadDecrypt() = %q, want %q", got.Bytes(), "hunter2-the-password")
	}
}

func TestRepositoryListExcludesReservedFiles(t *testing.T) {
	repo := openTestRepository(t, t.TempDir(), "hunter2")

	p, err := repo.Path("a")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := repo.WriteEncrypt(p, secret.From([]byte("value"))); err != nil {
		t.Fatalf("WriteEncrypt: %v", err)
	}

	paths, err := repo.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 1 || paths[0] != "a" {
		t.Fatalf("List() = %v, want [a]", paths)
	}
}

func TestRepositoryRemove(t *testing.T) {
	repo := openTestRepository(t, t.TempDir(), "hunter2")

	p, err := repo.Path("a")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := repo.WriteEncrypt(p, secret.From([]byte("value"))); err != nil {
		t.Fatalf("WriteEncrypt: %v", err)
	}
	if err := repo.Remove(p); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	paths, err := repo.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("List() after Remove = %v, want empty", paths)
	}

	if _, err := repo.ReadDecrypt(p); err == nil {
		t.Fatal("ReadDecrypt succeeded after Remove")
	}
}

func TestRepositoryReopenWithSamePassword(t *testing.T) {
	dir := t.TempDir()
	repo := openTestRepository(t, dir, "hunter2")

	p, err := repo.Path("a")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := repo.WriteEncrypt(p, secret.From([]byte("value"))); err != nil {
		t.Fatalf("WriteEncrypt: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir, false, fixedPassword("hunter2"))
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ReadDecrypt(p)
	if err != nil {
		t.Fatalf("ReadDecrypt after reopen: %v", err)
	}
	defer got.Close()
	if string(got.Bytes()) != "value" {
		t.Fatalf("ReadDecrypt after reopen = %q, want %q", got.Bytes(), "value")
	}
}

func TestRepositoryAddAndRemovePasswordKey(t *testing.T) {
	dir := t.TempDir()
	repo := openTestRepository(t, dir, "hunter2")

	// Force keystore creation before adding a second key.
	if _, err := repo.Path(""); err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := repo.AddPasswordKey(secret.From([]byte("second-password"))); err != nil {
		t.Fatalf("AddPasswordKey: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir, false, fixedPassword("second-password"))
	if err != nil {
		t.Fatalf("Open with second password: %v", err)
	}
	reopened.Close()
}

func TestRepositoryOpenRejectsWrongPassword(t *testing.T) {
	dir := t.TempDir()
	repo := openTestRepository(t, dir, "hunter2")
	p, err := repo.Path("a")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	// Force keystore creation.
	if err := repo.WriteEncrypt(p, secret.From([]byte("value"))); err != nil {
		t.Fatalf("WriteEncrypt: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	bad, err := Open(dir, false, fixedPassword("wrong"))
	if err != nil {
		// Open itself doesn't touch the keystore yet (lazy init).
		t.Fatalf("Open: %v", err)
	}
	defer bad.Close()
	if _, err := bad.ReadDecrypt(p); err == nil {
		t.Fatal("ReadDecrypt succeeded after opening with the wrong password")
	}
}

func TestRepositoryOpenTwiceFailsOnLock(t *testing.T) {
	dir := t.TempDir()
	repo := openTestRepository(t, dir, "hunter2")

	if _, err := Open(dir, true, fixedPassword("hunter2")); err == nil {
		t.Fatal("Open succeeded on an already-locked working directory")
	}
	_ = repo
}
