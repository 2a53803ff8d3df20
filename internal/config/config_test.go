package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFailureLatches(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := Load(missing); err == nil {
		t.Fatal("Load() with a missing file returned nil error")
	}
	// the latched error must come back on repeat calls, not a nil config
	cfg, err := Load(missing)
	if err == nil {
		t.Error("second Load() returned nil error after a failed first load")
	}
	if cfg != nil {
		t.Errorf("second Load() returned %+v, want nil config", cfg)
	}
}
