// SPDX-License-Identifier: MPL-2.0

package modresolve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hoist-sh/hoist/pkg/modsource"
)

const (
	// EnvPrefix is the fixed namespace token of per-module environment
	// overrides: HOIST_MODULE_<NORMALIZED_ID>.
	EnvPrefix = "HOIST_MODULE_"

	// PackagePrefix is the naming convention for registry packages: the
	// package layer tries "hoist-module-<id>" before the bare id.
	PackagePrefix = "hoist-module-"
)

// nonAlphanumeric matches the identifier character runs that EnvVarName
// collapses to a single underscore.
var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

type (
	// Options configures a Resolver. Every field is optional: a zero Options
	// yields a resolver where only the env, hint, and package layers can
	// match (and the package layer only if Packages is set).
	Options struct {
		// WorkspaceDir is the workspace convention root checked by layer 2.
		WorkspaceDir string

		// Settings supplies the merged module-source mapping for layer 3.
		Settings SettingsProvider

		// Packages is the installed-package lookup used by layer 5 and by
		// any PackageSource the resolver constructs.
		Packages modsource.PackageLocator

		// CacheDir overrides the Git source cache root for classified sources.
		CacheDir string

		// Fetcher overrides the external fetch capability for classified
		// sources. Nil selects the go-git backed default.
		Fetcher modsource.Fetcher
	}

	// Resolver locates module sources through the five-layer precedence
	// chain. It is immutable after construction and safe for concurrent use;
	// each Resolve call consults the layers strictly in sequence with no
	// parallelism, because first-match-wins requires sequential
	// short-circuiting.
	Resolver struct {
		workspaceDir string
		settings     SettingsProvider
		packages     modsource.PackageLocator
		cacheDir     string
		fetcher      modsource.Fetcher
	}
)

// NewResolver creates a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	return &Resolver{
		workspaceDir: opts.WorkspaceDir,
		settings:     opts.Settings,
		packages:     opts.Packages,
		cacheDir:     opts.CacheDir,
		fetcher:      opts.Fetcher,
	}
}

// EnvVarName returns the environment variable consulted by the env layer for
// moduleID: the id uppercased with every non-alphanumeric run collapsed to a
// single underscore, prefixed with EnvPrefix.
func EnvVarName(moduleID string) string {
	normalized := nonAlphanumeric.ReplaceAllString(moduleID, "_")
	return EnvPrefix + strings.ToUpper(normalized)
}

// Resolve locates the source for moduleID. hint is an optional locator string
// supplied by the caller for this one call; empty means no hint.
func (r *Resolver) Resolve(ctx context.Context, moduleID, hint string) (modsource.Source, error) {
	source, _, err := r.ResolveWithLayer(ctx, moduleID, hint)
	return source, err
}

// ResolveWithLayer behaves exactly like Resolve and additionally reports
// which layer produced the match.
//
// Layers are consulted in precedence order and the first match wins. A
// malformed locator string at the env, settings, or hint layer is a hard
// error that propagates immediately; it never falls through to a lower
// layer. If no layer matches, the returned error is a *NotFoundError
// enumerating every layer consulted.
func (r *Resolver) ResolveWithLayer(ctx context.Context, moduleID, hint string) (modsource.Source, Layer, error) {
	if moduleID == "" {
		return nil, 0, fmt.Errorf("module id must not be empty")
	}

	// Layer 1: environment variable override.
	if value := os.Getenv(EnvVarName(moduleID)); value != "" {
		source, err := r.classify(value)
		if err != nil {
			return nil, 0, fmt.Errorf("environment override for module %q: %w", moduleID, err)
		}
		slog.Debug("module resolved", "module", moduleID, "layer", LayerEnv, "source", source)
		return source, LayerEnv, nil
	}

	// Layer 2: workspace convention directory. Absence of any kind is a
	// plain no-match, never an error.
	if r.workspaceDir != "" {
		if source := r.checkWorkspace(moduleID); source != nil {
			slog.Debug("module resolved", "module", moduleID, "layer", LayerWorkspace, "source", source)
			return source, LayerWorkspace, nil
		}
	}

	// Layer 3: settings mapping. The provider hands over one flat,
	// pre-merged lookup table.
	if r.settings != nil {
		if value, ok := r.settings.ModuleSources()[moduleID]; ok {
			source, err := r.classify(value)
			if err != nil {
				return nil, 0, fmt.Errorf("settings entry for module %q: %w", moduleID, err)
			}
			slog.Debug("module resolved", "module", moduleID, "layer", LayerSettings, "source", source)
			return source, LayerSettings, nil
		}
	}

	// Layer 4: caller-supplied hint.
	if hint != "" {
		source, err := r.classify(hint)
		if err != nil {
			return nil, 0, fmt.Errorf("hint for module %q: %w", moduleID, err)
		}
		slog.Debug("module resolved", "module", moduleID, "layer", LayerHint, "source", source)
		return source, LayerHint, nil
	}

	// Layer 5: installed package, namespaced name first.
	if r.packages != nil {
		for _, name := range []string{PackagePrefix + moduleID, moduleID} {
			_, ok, err := r.packages.Locate(ctx, name)
			if err != nil {
				return nil, 0, fmt.Errorf("package lookup for module %q: %w", moduleID, err)
			}
			if ok {
				source := modsource.NewPackageSource(name, r.packages)
				slog.Debug("module resolved", "module", moduleID, "layer", LayerPackage, "package", name)
				return source, LayerPackage, nil
			}
		}
	}

	return nil, 0, &NotFoundError{ModuleID: moduleID, Layers: LayerNames()}
}

// classify parses a locator string into a source, threading the resolver's
// cache and fetch collaborators into any Git source it produces.
func (r *Resolver) classify(value string) (modsource.Source, error) {
	return modsource.Classify(value, modsource.ClassifyOptions{
		CacheDir: r.cacheDir,
		Fetcher:  r.fetcher,
	})
}

// checkWorkspace probes <workspace>/<id>/ for a usable module directory.
// Uninitialized git submodules (a .git marker file but no module files) and
// directories without module files are skipped rather than reported, so a
// checked-out-but-empty workspace never shadows a lower layer.
func (r *Resolver) checkWorkspace(moduleID string) *modsource.DirSource {
	dir := filepath.Join(r.workspaceDir, moduleID)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	if isEmptySubmodule(dir) {
		slog.Debug("workspace dir is an uninitialized submodule, skipping", "module", moduleID, "dir", dir)
		return nil
	}

	if !modsource.HasModuleFiles(dir) {
		slog.Warn("workspace dir contains no module files, skipping", "module", moduleID, "dir", dir)
		return nil
	}

	return modsource.NewDirSource(dir)
}

// isEmptySubmodule reports whether dir looks like an uninitialized git
// submodule: a .git marker file (not a directory) and no module files.
func isEmptySubmodule(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil || info.IsDir() {
		return false
	}
	return !modsource.HasModuleFiles(dir)
}
