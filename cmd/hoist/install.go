// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoist-sh/hoist/pkg/modresolve"
	"github.com/hoist-sh/hoist/pkg/modsource"
)

// registryPackageName returns the conventional registry name for a module id.
func registryPackageName(moduleID string) string {
	return modresolve.PackagePrefix + moduleID
}

var (
	// installSourceHint is the --source locator hint for the installation.
	installSourceHint string
	// installTargetDir installs into an arbitrary directory instead of the registry.
	installTargetDir string
)

// installCmd installs a module into the registry or a target directory.
var installCmd = &cobra.Command{
	Use:   "install <module-id>",
	Short: "Install a module",
	Long: `Resolve a module and materialize its code on this machine.

By default the module is installed into the registry under the
hoist-module-<id> convention name, making it resolvable through the
package layer afterwards. With --dir the code is placed in the given
directory instead and the registry is left untouched.

Examples:
  hoist install provider-x --source git+https://example.com/org/repo@v1.0.0
  hoist install provider-x --dir ./vendor/provider-x`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installSourceHint, "source", "", "source locator hint for this installation")
	installCmd.Flags().StringVar(&installTargetDir, "dir", "", "install into this directory instead of the registry")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	moduleID := args[0]

	resolver, reg, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	source, err := resolver.Resolve(ctx, moduleID, installSourceHint)
	if err != nil {
		return err
	}

	if installTargetDir != "" {
		installer, ok := source.(modsource.Installer)
		if !ok {
			return fmt.Errorf("source %s does not support installation to a directory", source)
		}
		if err := installer.Install(ctx, installTargetDir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			SuccessStyle.Render("installed"), PathStyle.Render(installTargetDir))
		return nil
	}

	dest, err := reg.Install(ctx, registryPackageName(moduleID), source)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		SuccessStyle.Render("installed"), PathStyle.Render(dest))
	return nil
}
