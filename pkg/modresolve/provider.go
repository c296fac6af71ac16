// SPDX-License-Identifier: MPL-2.0

package modresolve

// SettingsProvider is the settings access interface consumed by the settings
// layer. Hosts provide an implementation matching their own configuration
// system; this avoids a dependency from the resolution core onto any concrete
// config machinery.
//
// The returned mapping (module id -> source locator string) is already
// merged across whatever scopes the host supports, with the host's own
// precedence applied. The resolver never re-merges; it performs one flat
// lookup per call.
type SettingsProvider interface {
	ModuleSources() map[string]string
}
