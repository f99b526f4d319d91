// SPDX-License-Identifier: MIT

// Package config handles loading, saving, and resolving the RepoFleet
// configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	// LocalConfigFilename is the per-directory RepoFleet config file.
	LocalConfigFilename = ".repofleet.yaml"
	// ConfigAPIVersion is the current config schema apiVersion.
	ConfigAPIVersion = "skaphos.io/repofleet/v1beta1"
	// ConfigKind is the current config schema kind.
	ConfigKind = "RepoFleetConfig"
	// EnvConfig overrides the config location.
	EnvConfig = "REPOFLEET_CONFIG"
)

// Defaults holds default values for operations.
type Defaults struct {
	// Concurrency bounds the per-repository worker pool. 0 means NumCPU.
	Concurrency int `yaml:"concurrency"`
	// TimeoutSeconds bounds each repository's work. 0 disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Config represents the RepoFleet configuration.
type Config struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Root       string   `yaml:"root,omitempty"`
	MaxDepth   int      `yaml:"max_depth"`
	Exclude    []string `yaml:"exclude"`
	// SkipSymlinks stops discovery at symlinked directories.
	SkipSymlinks bool     `yaml:"skip_symlinks"`
	GitBin       string   `yaml:"git_bin,omitempty"`
	Defaults     Defaults `yaml:"defaults"`
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() Config {
	return Config{
		APIVersion: ConfigAPIVersion,
		Kind:       ConfigKind,
		MaxDepth:   5,
		Exclude:    []string{"**/node_modules/**", "**/.terraform/**", "**/dist/**", "**/vendor/**"},
		GitBin:     "git",
	}
}

// Concurrency returns the effective worker-pool bound.
func (c *Config) Concurrency() int {
	if c == nil || c.Defaults.Concurrency <= 0 {
		return runtime.NumCPU()
	}
	return c.Defaults.Concurrency
}

// ConfigDir returns the platform-appropriate config directory path.
// It checks, in order: the override parameter, REPOFLEET_CONFIG env var,
// and finally os.UserConfigDir()/repofleet.
func ConfigDir(override string) (string, error) {
	if override != "" {
		if isConfigFilePath(override) {
			return filepath.Dir(override), nil
		}
		return override, nil
	}

	if env := os.Getenv(EnvConfig); env != "" {
		if isConfigFilePath(env) {
			return filepath.Dir(env), nil
		}
		return env, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "repofleet"), nil
}

// ConfigPath resolves the config file path from override/env/defaults.
func ConfigPath(override string) (string, error) {
	if override != "" {
		if isConfigFilePath(override) {
			return override, nil
		}
		return filepath.Join(override, "config.yaml"), nil
	}

	if env := os.Getenv(EnvConfig); env != "" {
		if isConfigFilePath(env) {
			return env, nil
		}
		return filepath.Join(env, "config.yaml"), nil
	}

	dir, err := ConfigDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// InitConfigPath resolves where "repofleet init" should write config.
// Order: explicit override, REPOFLEET_CONFIG, then local dotfile in cwd.
func InitConfigPath(override, cwd string) (string, error) {
	if override != "" || os.Getenv(EnvConfig) != "" {
		return ConfigPath(override)
	}

	if strings.TrimSpace(cwd) == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(cwd, LocalConfigFilename), nil
}

// ResolveConfigPath resolves config for runtime commands.
// Order: explicit override, REPOFLEET_CONFIG, nearest local dotfile in cwd/parents,
// then global platform config path.
func ResolveConfigPath(override, cwd string) (string, error) {
	if override != "" || os.Getenv(EnvConfig) != "" {
		return ConfigPath(override)
	}

	if strings.TrimSpace(cwd) == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	localPath, err := FindNearestConfigPath(cwd)
	if err != nil {
		return "", err
	}
	if localPath != "" {
		return localPath, nil
	}

	return ConfigPath("")
}

// FindNearestConfigPath searches cwd and each parent directory for .repofleet.yaml.
// It returns an empty string when no local config file is found.
func FindNearestConfigPath(cwd string) (string, error) {
	dir := cwd
	for {
		candidate := filepath.Join(dir, LocalConfigFilename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads the config file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigGVK(&cfg)
	if err := validateConfigGVK(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.GitBin) == "" {
		cfg.GitBin = DefaultConfig().GitBin
	}
	if cfg.Defaults.Concurrency < 0 {
		return nil, fmt.Errorf("defaults.concurrency must not be negative (got %d)", cfg.Defaults.Concurrency)
	}
	if cfg.Defaults.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("defaults.timeout_seconds must not be negative (got %d)", cfg.Defaults.TimeoutSeconds)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := DefaultConfig()
			return &def, nil
		}
		return nil, err
	}
	return cfg, nil
}

// EffectiveRoot returns the scan root for cfg. A relative root is joined to
// the directory containing configPath; an empty root falls back to cwd.
func EffectiveRoot(configPath string, cfg *Config, cwd string) string {
	if cfg == nil || strings.TrimSpace(cfg.Root) == "" {
		return filepath.Clean(cwd)
	}
	root := strings.TrimSpace(cfg.Root)
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	if strings.TrimSpace(configPath) == "" {
		return filepath.Clean(filepath.Join(cwd, root))
	}
	return filepath.Clean(filepath.Join(filepath.Dir(configPath), root))
}

// Save writes the config to the given path.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	applyConfigGVK(cfg)
	if err := validateConfigGVK(cfg); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isConfigFilePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func applyConfigGVK(cfg *Config) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = ConfigAPIVersion
	}
	if strings.TrimSpace(cfg.Kind) == "" {
		cfg.Kind = ConfigKind
	}
}

func validateConfigGVK(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.APIVersion != ConfigAPIVersion {
		return fmt.Errorf("unsupported config apiVersion %q (expected %q)", cfg.APIVersion, ConfigAPIVersion)
	}
	if cfg.Kind != ConfigKind {
		return fmt.Errorf("unsupported config kind %q (expected %q)", cfg.Kind, ConfigKind)
	}
	return nil
}
