package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"intentgate/internal/logging"
)

// Config holds intentgate's workspace-level configuration.
type Config struct {
	// WorkspaceRoot is the directory the gate treats as the file tree
	// it mediates; intent manifests, the ignore list, and the trace
	// ledger all resolve relative to it.
	WorkspaceRoot string `yaml:"workspace_root"`

	Authorization AuthorizationConfig `yaml:"authorization"`
	VCS           VCSConfig           `yaml:"vcs"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// AuthorizationConfig controls the human-approval surface.
type AuthorizationConfig struct {
	// FailOpenOnUnavailable allows the operation when no prompt surface
	// can be reached, rather than denying it. Defaults to true: a
	// broken UI must not itself cause silent denial of service.
	FailOpenOnUnavailable bool `yaml:"fail_open_on_unavailable"`
}

// VCSConfig controls the VCS probe's subprocess timeout.
type VCSConfig struct {
	ProbeTimeout string `yaml:"probe_timeout"`
}

// DefaultConfig returns intentgate's default configuration.
func DefaultConfig() *Config {
	return &Config{
		WorkspaceRoot: ".",
		Authorization: AuthorizationConfig{
			FailOpenOnUnavailable: true,
		},
		VCS: VCSConfig{
			ProbeTimeout: "3s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "intentgate.log",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// plus environment overrides when the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.Get(logging.CategoryBoot).Debug("loading config from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Get(logging.CategoryBoot).Info("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.Get(logging.CategoryBoot).Error("failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.Get(logging.CategoryBoot).Error("failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Get(logging.CategoryBoot).Info("config loaded: workspace_root=%s", cfg.WorkspaceRoot)
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if root := os.Getenv("INTENTGATE_WORKSPACE_ROOT"); root != "" {
		c.WorkspaceRoot = root
	}
	if v := os.Getenv("INTENTGATE_FAIL_OPEN_ON_UNAVAILABLE"); v == "false" {
		c.Authorization.FailOpenOnUnavailable = false
	}
	if level := os.Getenv("INTENTGATE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ProbeTimeout returns the VCS probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	d, err := time.ParseDuration(c.VCS.ProbeTimeout)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("workspace_root must not be empty")
	}
	if _, err := time.ParseDuration(c.VCS.ProbeTimeout); err != nil {
		return fmt.Errorf("invalid vcs.probe_timeout %q: %w", c.VCS.ProbeTimeout, err)
	}
	return nil
}
