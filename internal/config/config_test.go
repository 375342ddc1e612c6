package config

import (
	"path/filepath"
	"testing"

	"github.com/zboralski/wasmrt/internal/rt"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wasmrt.yaml")

	cfg := rt.DefaultConfig()
	cfg.CheckMode = rt.CheckGuardPage
	cfg.MaxCallDepth = 42
	cfg.ForcePortableBitops = true

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CheckMode != rt.CheckGuardPage {
		t.Errorf("CheckMode = %v, want CheckGuardPage", got.CheckMode)
	}
	if got.MaxCallDepth != 42 {
		t.Errorf("MaxCallDepth = %d, want 42", got.MaxCallDepth)
	}
	if !got.ForcePortableBitops {
		t.Errorf("ForcePortableBitops = false, want true")
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
