// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencoq/cogfix/internal/core/format"
)

// Constants for default paths
const (
	DefaultConfigDir      = ".cogfix"
	DefaultConfigFileName = "config.yaml"
)

// Config holds the per-repository tool configuration. All relative
// paths are resolved against the repository root by callers.
type Config struct {
	// Where outcome reports are written
	ArtifactsDir string `yaml:"artifacts_dir"`

	// Build output directory, removed and recreated by the clean fix
	BuildDir string `yaml:"build_dir"`

	// Root directory the generated CMake package configs go under
	CMakeConfigRoot string `yaml:"cmake_config_root"`

	// CI workflow definition checked by cogcheck
	WorkflowPath string `yaml:"workflow_path"`

	// Planning document checked by cogcheck
	GenesisPath string `yaml:"genesis_path"`

	// Per-command timeout for build invocations
	BuildTimeoutSeconds int `yaml:"build_timeout_seconds"`
}

// NewDefaultConfig creates a default configuration
func NewDefaultConfig() *Config {
	return &Config{
		ArtifactsDir:        "ci_artifacts",
		BuildDir:            "build",
		CMakeConfigRoot:     "/usr/local/lib/cmake",
		WorkflowPath:        filepath.Join(".github", "workflows", "opencog-dependency-build.yml"),
		GenesisPath:         "AGENT-ZERO-GENESIS.md",
		BuildTimeoutSeconds: 300,
	}
}

// BuildTimeout returns the build timeout as a duration
func (c *Config) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutSeconds) * time.Second
}

// LoadConfig loads the configuration for a repository. It starts with
// default settings and merges the repository's .cogfix/config.yaml
// over them when that file exists.
func LoadConfig(repoRoot string) (*Config, error) {
	config := NewDefaultConfig()

	configPath := filepath.Join(repoRoot, DefaultConfigDir, DefaultConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	fileConfig, err := LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config file '%s': %w", configPath, err)
	}

	mergeConfigs(config, fileConfig)
	return config, nil
}

// Resolve loads the configuration for a repository, preferring an
// explicitly named config file over the repository's own when given.
func Resolve(repoRoot, explicitPath string) (*Config, error) {
	if explicitPath == "" {
		return LoadConfig(repoRoot)
	}

	config := NewDefaultConfig()
	fileConfig, err := LoadConfigFile(explicitPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config file '%s': %w", explicitPath, err)
	}

	mergeConfigs(config, fileConfig)
	return config, nil
}

// LoadConfigFile loads a configuration from a specific file path
func LoadConfigFile(path string) (*Config, error) {
	config := &Config{}
	if err := format.ParseFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// mergeConfigs merges source config into target config
// Only non-zero values from source override target
func mergeConfigs(target, source *Config) {
	if source.ArtifactsDir != "" {
		target.ArtifactsDir = source.ArtifactsDir
	}
	if source.BuildDir != "" {
		target.BuildDir = source.BuildDir
	}
	if source.CMakeConfigRoot != "" {
		target.CMakeConfigRoot = ExpandPathWithTilde(source.CMakeConfigRoot)
	}
	if source.WorkflowPath != "" {
		target.WorkflowPath = source.WorkflowPath
	}
	if source.GenesisPath != "" {
		target.GenesisPath = source.GenesisPath
	}
	if source.BuildTimeoutSeconds != 0 {
		target.BuildTimeoutSeconds = source.BuildTimeoutSeconds
	}
}

// ExpandPathWithTilde expands ~ to user home directory
// It respects the COGFIX_HOME environment variable for testing purposes.
func ExpandPathWithTilde(path string) string {
	if path == "~" {
		home := getHomeDir()
		if home == "" {
			return path // Return original if can't expand
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home := getHomeDir()
		if home == "" {
			return path // Return original if can't expand
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// getHomeDir returns the home directory, respecting COGFIX_HOME for testing
func getHomeDir() string {
	// Check for test override first
	if cogfixHome := os.Getenv("COGFIX_HOME"); cogfixHome != "" {
		return cogfixHome
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "" // Return empty if can't determine
	}
	return home
}
