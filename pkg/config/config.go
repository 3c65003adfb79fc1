// Package config loads and validates the toolkit configuration from YAML,
// with environment variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vulndetective/vulndetective/pkg/errors"
)

// Config is the root configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Storage  StorageConfig  `yaml:"storage"`
	LogLevel string         `yaml:"log_level"`
}

// AnalysisConfig controls how findings are filtered before scoring.
type AnalysisConfig struct {
	// ConfidenceThreshold drops findings below this confidence before
	// reporting. Must be in [0,1].
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// MaxFileSize is the largest file the fetcher will accept, in bytes.
	MaxFileSize int `yaml:"max_file_size"`
}

// OutputConfig controls report generation.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// FetchConfig controls remote source fetching.
type FetchConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`

	// GitHubToken authenticates Gist API calls. Overridden by GITHUB_TOKEN.
	GitHubToken string `yaml:"github_token"`

	// GitLabToken authenticates snippet API calls. Overridden by GITLAB_TOKEN.
	GitLabToken string `yaml:"gitlab_token"`
}

// StorageConfig controls report persistence.
type StorageConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Analysis: AnalysisConfig{
			ConfidenceThreshold: 0.7,
			MaxFileSize:         1 << 20, // 1MB
		},
		Output: OutputConfig{
			Dir:     "./output",
			Formats: []string{"html", "json"},
		},
		Fetch: FetchConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
		},
		Storage: StorageConfig{
			Enabled:      false,
			DatabasePath: filepath.Join(home, ".vulndetective", "reports.db"),
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "config.Load")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.E(errors.KindInvalidInput, "config.Load", "parse yaml", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides. Tokens in the
// environment beat tokens in the file so config files can stay free of
// credentials.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.Fetch.GitHubToken = v
	}
	if v := os.Getenv("GITLAB_TOKEN"); v != "" {
		c.Fetch.GitLabToken = v
	}
	if v := os.Getenv("VULNDETECTIVE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for values the toolkit cannot run with.
func (c *Config) Validate() error {
	if c.Analysis.ConfidenceThreshold < 0 || c.Analysis.ConfidenceThreshold > 1 {
		return errors.E(errors.KindInvalidInput, "config.Validate",
			fmt.Sprintf("confidence_threshold %v outside [0,1]", c.Analysis.ConfidenceThreshold))
	}
	if c.Analysis.MaxFileSize <= 0 {
		return errors.E(errors.KindInvalidInput, "config.Validate", "max_file_size must be positive")
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return errors.E(errors.KindInvalidInput, "config.Validate", "requests_per_second must be positive")
	}
	for _, f := range c.Output.Formats {
		if f != "json" && f != "html" {
			return errors.E(errors.KindInvalidInput, "config.Validate",
				fmt.Sprintf("unsupported report format %q", f))
		}
	}
	if c.Storage.Enabled && c.Storage.DatabasePath == "" {
		return errors.E(errors.KindInvalidInput, "config.Validate", "storage enabled without database_path")
	}
	return nil
}
