// SPDX-License-Identifier: MPL-2.0

// Package config loads and merges hoist configuration.
//
// Two scopes exist: a user-scope file in the platform config directory
// (e.g. ~/.config/hoist/config.toml on Linux) and a project-scope hoist.toml
// in the working directory. The project scope wins key by key. The merged
// result carries resolver settings (workspace, cache, registry locations)
// and the module-source override mapping consumed by the resolver's settings
// layer; all scope merging happens here so the resolver only ever sees one
// flat mapping.
package config
