// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoist-sh/hoist/pkg/modresolve"
)

// lockCmd resolves modules and records the results in the lock file.
var lockCmd = &cobra.Command{
	Use:   "lock <module-id>...",
	Short: "Resolve modules and record the results in hoist.lock.toml",
	Long: `Resolve each given module id and record its canonical locator, the
matching layer, and the resolved path in hoist.lock.toml in the current
directory. Existing entries for other modules are preserved.

Examples:
  hoist lock provider-x
  hoist lock provider-x tool-y tool-z`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLock,
}

func runLock(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resolver, _, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	lock, err := modresolve.LoadLockFile(modresolve.LockFileName)
	if err != nil {
		return err
	}

	for _, moduleID := range args {
		source, layer, err := resolver.ResolveWithLayer(ctx, moduleID, "")
		if err != nil {
			return err
		}
		path, err := source.Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", source, err)
		}

		lock.Set(moduleID, source, layer, path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
			SuccessStyle.Render(moduleID),
			PathStyle.Render(source.String()),
			SubtitleStyle.Render("via"),
			SubtitleStyle.Render(layer.String()))
	}

	if err := lock.Save(modresolve.LockFileName); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		SubtitleStyle.Render("wrote"), PathStyle.Render(modresolve.LockFileName))
	return nil
}
