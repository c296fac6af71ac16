// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hoist-sh/hoist/internal/config"
	"github.com/hoist-sh/hoist/internal/registry"
	"github.com/hoist-sh/hoist/pkg/modresolve"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// workspaceDir overrides the configured workspace directory
	workspaceDir string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "hoist",
		Short: "Locate and install hoist modules",
		Long: TitleStyle.Render("hoist") + SubtitleStyle.Render(" - module source resolution") + `

hoist locates the on-disk home of a named module by consulting five
layers in order, first match wins:

  1. env        HOIST_MODULE_<ID> environment override
  2. workspace  <workspace>/<id>/ convention directory
  3. settings   [modules] mapping in hoist.toml / user config
  4. hint       a locator passed with --source
  5. package    the installed-module registry

A source locator is one of:
  git+https://example.com/org/repo@ref#subdirectory=path
  file:///abs/path, /abs/path, ./relative/path

` + SubtitleStyle.Render("Examples:") + `
  hoist resolve provider-x                 Show where provider-x lives
  hoist resolve provider-x --source ./dev  Resolve with a one-off hint
  hoist install provider-x                 Install into the registry
  hoist lock provider-x tool-y             Record resolutions in hoist.lock.toml`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				slog.SetDefault(slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
					Level:           charmlog.DebugLevel,
					ReportTimestamp: false,
				})))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is hoist.toml plus the user config)")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "workspace convention root (overrides config)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(listCmd)
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the merged configuration, honoring the --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return nil, err
	}
	if workspaceDir != "" {
		cfg.WorkspaceDir = workspaceDir
	}
	return cfg, nil
}

// buildResolver wires the resolver from configuration: the config itself as
// settings provider and the installed-module registry as package locator.
func buildResolver(ctx context.Context) (*modresolve.Resolver, *registry.Registry, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	reg, err := registry.Open(cfg.RegistryDir)
	if err != nil {
		return nil, nil, err
	}

	resolver := modresolve.NewResolver(modresolve.Options{
		WorkspaceDir: cfg.WorkspaceDir,
		Settings:     cfg,
		Packages:     reg,
		CacheDir:     cfg.CacheDir,
	})
	return resolver, reg, nil
}
