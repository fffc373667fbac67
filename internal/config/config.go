// Package config loads the assay CLI configuration from an optional YAML
// file, layered under command-line flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// S3 holds object-store connection settings used when an input archive is
// given as an s3:// URL.
type S3 struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	UsePathStyle    bool   `yaml:"use_path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Config drives one analysis run.
type Config struct {
	// TargetsArchive and SplitArchive locate the two input archives,
	// as local paths or s3:// URLs.
	TargetsArchive string `yaml:"targets_archive"`
	SplitArchive   string `yaml:"split_archive"`

	// TargetsPrefix and SplitPrefix are the member-path prefixes inside
	// each archive.
	TargetsPrefix string `yaml:"targets_prefix"`
	SplitPrefix   string `yaml:"split_prefix"`

	// ReportsDir is where reports and the manifest are written.
	ReportsDir string `yaml:"reports_dir"`

	// Folds, when non-empty, restricts reading to these fold partitions.
	Folds []int64 `yaml:"folds"`

	// MaxParts, when positive, caps the number of parquet members read
	// per archive (fast sampling).
	MaxParts int `yaml:"max_parts"`

	// Xlsx additionally exports prevalence and baseline tables as xlsx
	// workbooks.
	Xlsx bool `yaml:"xlsx"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	S3 S3 `yaml:"s3"`
}

// Default returns the configuration used when no file and no flags are
// given.
func Default() *Config {
	return &Config{
		TargetsPrefix: "targets/",
		SplitPrefix:   "client_split/",
		ReportsDir:    "reports",
		LogLevel:      "info",
		S3:            S3{Region: "us-east-1"},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults untouched.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
