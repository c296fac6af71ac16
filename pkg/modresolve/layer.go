// SPDX-License-Identifier: MPL-2.0

package modresolve

// Layer identifies which of the five resolution layers produced a match. The
// vocabulary is fixed and ordered by precedence; it exists purely for
// diagnostics and carries no behavioral difference.
type Layer int

const (
	// LayerEnv is the per-module environment variable override.
	LayerEnv Layer = iota
	// LayerWorkspace is the workspace convention directory.
	LayerWorkspace
	// LayerSettings is the merged settings mapping.
	LayerSettings
	// LayerHint is the caller-supplied locator hint.
	LayerHint
	// LayerPackage is the installed-package fallback.
	LayerPackage
)

// String returns the layer's diagnostic name.
func (l Layer) String() string {
	switch l {
	case LayerEnv:
		return "env"
	case LayerWorkspace:
		return "workspace"
	case LayerSettings:
		return "settings"
	case LayerHint:
		return "hint"
	case LayerPackage:
		return "package"
	default:
		return "unknown"
	}
}

// LayerNames returns the five layer names in precedence order.
func LayerNames() []string {
	return []string{
		LayerEnv.String(),
		LayerWorkspace.String(),
		LayerSettings.String(),
		LayerHint.String(),
		LayerPackage.String(),
	}
}
