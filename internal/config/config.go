// Package config provides configuration management for docflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the docflow configuration.
type Config struct {
	Docflow DocflowConfig `yaml:"docflow"`
}

// DocflowConfig contains the main docflow settings.
type DocflowConfig struct {
	// Reviewer identifies who signs review decisions and comments.
	Reviewer ReviewerConfig `yaml:"reviewer"`

	// Review configuration for the document review session.
	Review ReviewConfig `yaml:"review"`

	// Seed is the path to a YAML seed file. Empty means built-in sample data.
	Seed string `yaml:"seed"`

	// ExportDir is where the export bulk action writes CSV files.
	ExportDir string `yaml:"export_dir"`

	Log     LogConfig     `yaml:"log"`
	Backend BackendConfig `yaml:"backend"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ReviewerConfig describes the signed-in reviewer.
type ReviewerConfig struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// ReviewConfig contains review session timing and limits.
type ReviewConfig struct {
	SubmitLatency    time.Duration `yaml:"submit_latency"`
	BannerDuration   time.Duration `yaml:"banner_duration"`
	MaxCommentLength int           `yaml:"max_comment_length"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is console or json.
	Format string `yaml:"format"`
}

// Backend kinds.
const (
	BackendLocal = "local"
	BackendHTTP  = "http"
)

// BackendConfig selects where effects are sent.
type BackendConfig struct {
	Kind     string        `yaml:"kind"`
	URL      string        `yaml:"url"`
	TokenEnv string        `yaml:"token_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Docflow: DocflowConfig{
			Reviewer: ReviewerConfig{
				Name: "Sarah Johnson",
				Role: "TPA Reviewer",
			},
			Review: ReviewConfig{
				SubmitLatency:    time.Second,
				BannerDuration:   3 * time.Second,
				MaxCommentLength: 500,
			},
			ExportDir: "exports",
			Log: LogConfig{
				Level:  "info",
				Format: "console",
			},
			Backend: BackendConfig{
				Kind:     BackendLocal,
				TokenEnv: "DOCFLOW_API_TOKEN",
				Timeout:  30 * time.Second,
			},
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values that cannot be used as given.
func (c *Config) Validate() error {
	d := c.Docflow
	switch d.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn or error", d.Log.Level)
	}
	switch d.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q must be console or json", d.Log.Format)
	}
	switch d.Backend.Kind {
	case BackendLocal:
	case BackendHTTP:
		if d.Backend.URL == "" {
			return fmt.Errorf("backend.url is required for the http backend")
		}
	default:
		return fmt.Errorf("backend.kind %q must be %s or %s", d.Backend.Kind, BackendLocal, BackendHTTP)
	}
	if d.Review.SubmitLatency < 0 {
		return fmt.Errorf("review.submit_latency must not be negative")
	}
	if d.Review.BannerDuration <= 0 {
		return fmt.Errorf("review.banner_duration must be positive")
	}
	if d.Review.MaxCommentLength <= 0 {
		return fmt.Errorf("review.max_comment_length must be positive")
	}
	return nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	candidates := []string{
		".docflow/config.yaml",
		"docflow.yaml",
		"docflow.yml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no docflow configuration found")
}

// LoadFromDir loads configuration from the given directory.
func LoadFromDir(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		// Return default config if no config file found
		return DefaultConfig(), nil
	}

	return Load(path)
}

// SeedPath returns the resolved seed file path, or "" for built-in data.
func (c *Config) SeedPath(baseDir string) string {
	return resolve(baseDir, c.Docflow.Seed)
}

// ExportPath returns the resolved export directory.
func (c *Config) ExportPath(baseDir string) string {
	return resolve(baseDir, c.Docflow.ExportDir)
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
