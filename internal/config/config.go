// Package config provides configuration loading and defaults for the
// vbox-cpi server and CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds the provider-wide default settings consulted when an
// optional action parameter is omitted. It is constructed once and passed by
// value; nothing mutates it after load. Username and Password are reserved
// for guest credential plumbing and are not consumed by any current action.
type Defaults struct {
	OSType         string `yaml:"os_type"`
	MemoryMB       int64  `yaml:"memory_mb"`
	CPUCount       int64  `yaml:"cpu_count"`
	ControllerName string `yaml:"controller_name"`
	NetworkType    string `yaml:"network_type"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
}

// VBoxConfig holds settings for invoking the VBoxManage tool.
type VBoxConfig struct {
	// Binary overrides the platform-default VBoxManage executable name.
	Binary string `yaml:"binary"`
}

// ResourceFilter holds allowlist and denylist glob patterns for worker names.
type ResourceFilter struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// SafetyConfig groups the resource filters applied at the tool boundary.
type SafetyConfig struct {
	Workers ResourceFilter `yaml:"workers"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
}

// ServerConfig holds network and authentication settings for the MCP server.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	VBox     VBoxConfig   `yaml:"vbox"`
	Defaults Defaults     `yaml:"defaults"`
	Safety   SafetyConfig `yaml:"safety"`
	Audit    AuditConfig  `yaml:"audit"`
}

// LoadConfig reads and parses a YAML configuration file from the given path.
// Parsing starts from DefaultConfig, so fields absent from the file keep
// their stock values and a partial file never leaves the provider without
// default settings.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a new Config populated with the stock provider
// defaults. Each call returns a distinct instance.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Defaults: Defaults{
			OSType:         "Ubuntu_64",
			MemoryMB:       2048,
			CPUCount:       2,
			ControllerName: "SATA Controller",
			NetworkType:    "nat",
			Username:       "vboxuser",
			Password:       "password",
		},
		Audit: AuditConfig{
			Enabled: false,
			LogPath: "vbox-cpi-audit.log",
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment
// variables. Recognized variables:
//   - VBOX_CPI_AUTH_TOKEN overrides cfg.Server.AuthToken
//   - VBOX_CPI_BINARY overrides cfg.VBox.Binary
func ApplyEnvOverrides(cfg *Config) {
	if token := os.Getenv("VBOX_CPI_AUTH_TOKEN"); token != "" {
		cfg.Server.AuthToken = token
	}
	if bin := os.Getenv("VBOX_CPI_BINARY"); bin != "" {
		cfg.VBox.Binary = bin
	}
}
