// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoist-sh/hoist/internal/registry"
)

// listCmd lists installed modules.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules installed in the registry",
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	reg, err := registry.Open(cfg.RegistryDir)
	if err != nil {
		return err
	}

	manifests, err := reg.List()
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("no modules installed"))
		return nil
	}

	for _, m := range manifests {
		line := SuccessStyle.Render(m.Name)
		if m.Source != "" {
			line += "  " + PathStyle.Render(m.Source)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
