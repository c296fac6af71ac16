// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set,
		// bypassing the user/project lookup entirely.
		ConfigFilePath string

		// ProjectDir is the directory searched for the project-scope config
		// file. Empty means the current working directory.
		ProjectDir string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested sources. Without an explicit
// config file it layers the user-scope file first and the project-scope file
// on top, so project settings win key by key — including individual entries
// of the modules mapping. Missing files are not errors; the result is then
// simply the defaults.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetConfigType("toml")

	defaults := DefaultConfig()
	v.SetDefault("workspace_dir", defaults.WorkspaceDir)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("registry_dir", defaults.RegistryDir)
	v.SetDefault("modules", defaults.Modules)

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFilePath, err)
		}
	} else {
		// User scope first, so the project scope merged afterwards takes
		// precedence.
		if userDir, err := ConfigDir(); err == nil {
			userFile := filepath.Join(userDir, UserConfigFileName)
			if fileExists(userFile) {
				v.SetConfigFile(userFile)
				if err := v.ReadInConfig(); err != nil {
					return nil, fmt.Errorf("failed to read user config %s: %w", userFile, err)
				}
			}
		}

		projectDir := opts.ProjectDir
		if projectDir == "" {
			projectDir = "."
		}
		projectFile := filepath.Join(projectDir, ProjectConfigFileName)
		if fileExists(projectFile) {
			v.SetConfigFile(projectFile)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config %s: %w", projectFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Modules == nil {
		cfg.Modules = map[string]string{}
	}

	return &cfg, nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
