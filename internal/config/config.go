// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the application name.
	AppName = "hoist"

	// UserConfigFileName is the config file name within the user config
	// directory.
	UserConfigFileName = "config.toml"

	// ProjectConfigFileName is the config file name looked up in a project
	// directory.
	ProjectConfigFileName = "hoist.toml"
)

// configDirOverride allows tests to pin the user config directory.
var configDirOverride string

// Config is the merged hoist configuration. The Modules mapping holds the
// settings-layer module-source overrides, already merged project-over-user;
// Config satisfies the resolver's SettingsProvider contract through
// ModuleSources.
type Config struct {
	// WorkspaceDir is the workspace convention root for the resolver.
	WorkspaceDir string `mapstructure:"workspace_dir"`

	// CacheDir overrides the Git source cache root.
	CacheDir string `mapstructure:"cache_dir"`

	// RegistryDir overrides the installed-module registry root.
	RegistryDir string `mapstructure:"registry_dir"`

	// Modules maps module ids to source locator strings.
	Modules map[string]string `mapstructure:"modules"`
}

// ModuleSources returns the merged module-source mapping: one flat lookup,
// with project-over-user merging already applied at load time.
func (c *Config) ModuleSources() map[string]string {
	return c.Modules
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Modules: map[string]string{},
	}
}

// ConfigDir returns the hoist user configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}
