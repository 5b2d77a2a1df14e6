package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultRepository != "" {
		t.Fatalf("DefaultRepository = %q, want empty", cfg.DefaultRepository)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{DefaultRepository: "/home/user/passwords"}
	if err := Save(dir, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultRepository != want.DefaultRepository {
		t.Fatalf("DefaultRepository = %q, want %q", got.DefaultRepository, want.DefaultRepository)
	}
}
