// SPDX-License-Identifier: MPL-2.0

// Package modresolve locates module sources through a fixed five-layer
// precedence chain, first match wins:
//
//  1. env: a HOIST_MODULE_<ID> environment override
//  2. workspace: a <workspace>/<id>/ convention directory
//  3. settings: the merged module-source mapping from settings
//  4. hint: a caller-supplied locator for this one call
//  5. package: a module installed in the host registry
//
// Layers are consulted strictly in sequence. A layer that finds nothing is a
// "no match" and the chain moves on; a layer that finds a malformed locator
// string is a hard error that propagates immediately, never a fall-through.
// The chain itself is the only sanctioned fallback behavior.
//
// The resolver treats settings as one flat lookup: merging of project and
// user configuration scopes is entirely the [SettingsProvider]'s business.
// Likewise the installed-package lookup is an injected capability
// ([modsource.PackageLocator]), so resolution never touches the network.
package modresolve
