package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.TargetsPrefix != "targets/" || cfg.SplitPrefix != "client_split/" {
		t.Errorf("prefixes = %q / %q", cfg.TargetsPrefix, cfg.SplitPrefix)
	}
	if cfg.ReportsDir != "reports" {
		t.Errorf("reports dir = %q, want reports", cfg.ReportsDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ReportsDir != "reports" {
		t.Errorf("reports dir = %q", cfg.ReportsDir)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assay.yaml")
	doc := `
targets_archive: /data/targets.tar.gz
split_archive: s3://bucket/split.tar.gz
reports_dir: out
folds: [0, 1]
max_parts: 5
s3:
  region: eu-west-1
  endpoint: http://localhost:9000
  use_path_style: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TargetsArchive != "/data/targets.tar.gz" {
		t.Errorf("targets = %q", cfg.TargetsArchive)
	}
	if cfg.ReportsDir != "out" || cfg.MaxParts != 5 {
		t.Errorf("reports=%q max_parts=%d", cfg.ReportsDir, cfg.MaxParts)
	}
	if len(cfg.Folds) != 2 || cfg.Folds[0] != 0 || cfg.Folds[1] != 1 {
		t.Errorf("folds = %v", cfg.Folds)
	}
	if cfg.S3.Region != "eu-west-1" || !cfg.S3.UsePathStyle {
		t.Errorf("s3 = %+v", cfg.S3)
	}
	// Untouched keys keep their defaults.
	if cfg.TargetsPrefix != "targets/" {
		t.Errorf("targets prefix = %q", cfg.TargetsPrefix)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not: [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for invalid YAML")
	}
}
