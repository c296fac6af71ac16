// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resolveSourceHint is the --source locator hint for a single resolution.
var resolveSourceHint string

// resolveCmd resolves a module id to its on-disk location.
var resolveCmd = &cobra.Command{
	Use:   "resolve <module-id>",
	Short: "Resolve a module to its on-disk location",
	Long: `Resolve a module id through the five-layer precedence chain and print
the filesystem path its source resolves to, along with the layer that
produced the match.

Examples:
  hoist resolve provider-x
  hoist resolve provider-x --workspace ~/src/modules
  hoist resolve provider-x --source git+https://example.com/org/repo@v1.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSourceHint, "source", "", "source locator hint for this resolution")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	moduleID := args[0]

	resolver, _, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	source, layer, err := resolver.ResolveWithLayer(ctx, moduleID, resolveSourceHint)
	if err != nil {
		return err
	}

	path, err := source.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", source, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		PathStyle.Render(path),
		SubtitleStyle.Render("via"),
		SuccessStyle.Render(layer.String()))
	return nil
}
