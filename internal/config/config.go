// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package config provides configuration management for the env2params tool.
//
// It handles loading and merging of YAML configuration files from multiple
// locations with a defined precedence order. The package supports both global
// (user home directory) and local (current directory) configurations, with
// local settings taking precedence over global ones. Command-line flags in
// turn take precedence over anything loaded here.
//
// Configuration files are expected to be named .env2params.yaml and can define
// default settings for the AWS profile, the target service, and the env file
// to push.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors returned by the package
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the main configuration structure for env2params.
// Every field is optional; unset fields fall back to the command-line
// flag defaults.
type Config struct {
	// Profile is the AWS shared-config profile to use
	Profile string `yaml:"profile,omitempty"`
	// Tag is the namespace prefix for pushed items
	Tag string `yaml:"tag,omitempty"`
	// Target selects the store, "ssm" or "secretsmanager"
	Target string `yaml:"target,omitempty"`
	// EnvFile is the path of the environment file to push
	EnvFile string `yaml:"env_file,omitempty"`
	// Region is the default AWS region for operations
	Region string `yaml:"region,omitempty"`
	// Role is the AWS IAM role to assume for operations
	Role string `yaml:"role,omitempty"`
	// LogLevel is the default log level (debug, info, warn, error)
	LogLevel string `yaml:"loglevel,omitempty"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Target != "" && c.Target != "ssm" && c.Target != "secretsmanager" {
		return fmt.Errorf("%w: invalid target %q (must be 'ssm' or 'secretsmanager')", ErrInvalidConfig, c.Target)
	}
	return nil
}

// LoadConfig loads configuration from files with precedence:
// 1. Current directory (.env2params.yaml)
// 2. Home directory (~/.env2params.yaml)
//
// If no configuration files are found, returns an empty configuration.
func LoadConfig() (*Config, error) {
	var cfg Config

	// Try loading from home directory first
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, ".env2params.yaml")
		if fileExists(homeConfig) {
			if err := loadFile(homeConfig, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load global config %s: %w", homeConfig, err)
			}
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid global config %s: %w", homeConfig, err)
			}
		}
	}

	// Try loading from current directory (overrides home config)
	cwdConfig := ".env2params.yaml"
	if fileExists(cwdConfig) {
		localCfg := Config{}
		if err := loadFile(cwdConfig, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to load local config %s: %w", cwdConfig, err)
		}
		if err := localCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid local config %s: %w", cwdConfig, err)
		}
		mergeConfig(&cfg, &localCfg)
	}

	return &cfg, nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// loadFile loads and unmarshals a YAML configuration file.
func loadFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", sanitizeForLog(filename), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML in %s: %w", sanitizeForLog(filename), err)
	}
	return nil
}

// mergeConfig merges local configuration into global configuration.
// Local settings take precedence over global settings.
func mergeConfig(global, local *Config) {
	if local.Profile != "" {
		global.Profile = local.Profile
	}
	if local.Tag != "" {
		global.Tag = local.Tag
	}
	if local.Target != "" {
		global.Target = local.Target
	}
	if local.EnvFile != "" {
		global.EnvFile = local.EnvFile
	}
	if local.Region != "" {
		global.Region = local.Region
	}
	if local.Role != "" {
		global.Role = local.Role
	}
	if local.LogLevel != "" {
		global.LogLevel = local.LogLevel
	}
}

// sanitizeForLog removes control characters that could be used for log injection (CWE-117 mitigation)
func sanitizeForLog(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", "")
	return strings.ReplaceAll(s, "\x1b", "") // Remove escape sequences
}
