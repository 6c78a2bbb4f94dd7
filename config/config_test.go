package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dhcpd.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "sources: []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %d, got %d", defaultPort, cfg.Port)
	}
	if len(cfg.Listen) != 1 || cfg.Listen[0] != "0.0.0.0" {
		t.Fatalf("expected default listen [0.0.0.0], got %v", cfg.Listen)
	}
}

func TestLoadSources(t *testing.T) {
	path := writeTempConfig(t, `
port: 6700
listen: ["0.0.0.0", "10.0.0.1"]
sources:
  - kind: rest
    config:
      offer:
        queries: []
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 6700 {
		t.Fatalf("expected port 6700, got %d", cfg.Port)
	}
	if len(cfg.Listen) != 2 {
		t.Fatalf("expected 2 listen addresses, got %v", cfg.Listen)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Kind != "rest" {
		t.Fatalf("expected one rest source, got %+v", cfg.Sources)
	}
}

func TestLoadRejectsMissingKind(t *testing.T) {
	path := writeTempConfig(t, "sources:\n  - config: {}\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for source with no kind")
	}
}
