// Package config resolves the application configuration from the
// environment, an optional .env file, and an optional YAML settings file.
// The API key's absence is a recognized state, not an error: AI-backed
// operations are disabled while report viewing and deletion keep working.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/testpilot-ai/testpilot/pkg/gemini"
)

// SettingsFileName is the optional YAML overrides file looked up under the
// application home directory.
const SettingsFileName = "testpilot.yaml"

// Config holds the resolved application configuration.
type Config struct {
	// APIKey is the single external credential. Empty means unconfigured.
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
	// StorePath is the report store file location.
	StorePath string `yaml:"store_path"`
	// Home is the application directory for settings and default storage.
	Home string `yaml:"-"`
}

// Load resolves configuration: .env file (if present), then environment
// variables, then YAML overrides from the settings file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	home := os.Getenv("TESTPILOT_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, ".testpilot")
	}

	cfg := &Config{
		APIKey: firstEnv("GEMINI_API_KEY", "API_KEY"),
		Model:  getEnv("TESTPILOT_MODEL", gemini.DefaultModel),
		Home:   home,
	}

	if err := cfg.applySettingsFile(filepath.Join(home, SettingsFileName)); err != nil {
		return nil, err
	}

	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(home, "reports.json")
	}
	return cfg, nil
}

// Configured reports whether the AI credential is present.
func (c *Config) Configured() bool { return c.APIKey != "" }

// Client builds the Gemini client, or returns nil when unconfigured so the
// gateway can fail fast without network access.
func (c *Config) Client() (gemini.Client, error) {
	if !c.Configured() {
		return nil, nil
	}
	return gemini.NewHTTPClient(gemini.Config{APIKey: c.APIKey, Model: c.Model})
}

func (c *Config) applySettingsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings file: %w", err)
	}

	var overrides Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse %s: %w", SettingsFileName, err)
	}
	if overrides.Model != "" {
		c.Model = overrides.Model
	}
	if overrides.StorePath != "" {
		c.StorePath = overrides.StorePath
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
