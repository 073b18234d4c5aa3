package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("default logging = %+v, want info/text", cfg.Logging)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("metrics enabled by default")
	}
	if cfg.Tracing.Enabled {
		t.Fatalf("tracing enabled by default")
	}
	if cfg.Export.AnimationPath == "" {
		t.Fatalf("default animation path is empty")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
  format: json
metrics:
  enabled: true
  addr: ":2112"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging = %+v, want debug/json", cfg.Logging)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":2112" {
		t.Fatalf("metrics = %+v, want enabled on :2112", cfg.Metrics)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Tracing.Exporter != "stdout" || cfg.Tracing.SampleRatio != 1.0 {
		t.Fatalf("tracing = %+v, want defaults", cfg.Tracing)
	}
	if cfg.Export.AnimationPath != Default().Export.AnimationPath {
		t.Fatalf("export = %+v, want default animation path", cfg.Export)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load succeeded on a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("logging: ["), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load succeeded on malformed YAML")
	}
}
