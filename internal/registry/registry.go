// SPDX-License-Identifier: MPL-2.0

// Package registry implements the host's installed-module registry: a plain
// directory of installed modules, one subdirectory per package name, each
// carrying a module.toml manifest. It provides the installed-package lookup
// the resolver's package layer consumes, plus installation of resolved
// sources into the registry.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hoist-sh/hoist/pkg/modsource"
)

const (
	// RegistryPathEnv is the environment variable for overriding the default
	// registry path.
	RegistryPathEnv = "HOIST_REGISTRY_PATH"

	// defaultRegistryDirName is the default registry subdirectory within ~/.hoist.
	defaultRegistryDirName = "registry"

	// ManifestName is the per-package metadata file name.
	ManifestName = "module.toml"
)

type (
	// Manifest is the metadata written alongside an installed module.
	Manifest struct {
		// Name is the installed package name.
		Name string `toml:"name"`

		// Source is the canonical locator the module was installed from.
		Source string `toml:"source,omitempty"`

		// InstalledAt is the installation timestamp.
		InstalledAt time.Time `toml:"installed_at"`
	}

	// Registry is a directory-backed installed-module registry. It implements
	// modsource.PackageLocator.
	Registry struct {
		// Dir is the registry root directory.
		Dir string
	}
)

// DefaultDir returns the default registry directory. It checks
// HOIST_REGISTRY_PATH first, then falls back to ~/.hoist/registry.
func DefaultDir() (string, error) {
	if envPath := os.Getenv(RegistryPathEnv); envPath != "" {
		return envPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".hoist", defaultRegistryDirName), nil
}

// Open creates a Registry rooted at dir. An empty dir selects the default
// location. The directory is not created until the first install.
func Open(dir string) (*Registry, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve registry directory: %w", err)
	}
	return &Registry{Dir: abs}, nil
}

// Locate implements modsource.PackageLocator: a pure metadata lookup by
// package name. A package is installed when its directory exists and carries
// a parseable manifest; anything less is an absence signal, while a manifest
// that exists but cannot be parsed is genuinely broken registry state and is
// reported as an error.
func (r *Registry) Locate(_ context.Context, name string) (string, bool, error) {
	dir := filepath.Join(r.Dir, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false, nil
	}

	manifestPath := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading manifest for %q: %w", name, err)
	}

	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return "", false, fmt.Errorf("corrupt manifest for %q at %s: %w", name, manifestPath, err)
	}

	return dir, true, nil
}

// Install materializes source into the registry under name and writes its
// manifest. Sources with an install capability fetch straight into the
// registry; others are resolved first and copied in.
func (r *Registry) Install(ctx context.Context, name string, source modsource.Source) (string, error) {
	if name == "" {
		return "", fmt.Errorf("package name must not be empty")
	}

	dest := filepath.Join(r.Dir, name)

	if installer, ok := source.(modsource.Installer); ok {
		if err := installer.Install(ctx, dest); err != nil {
			return "", err
		}
	} else {
		path, err := source.Resolve(ctx)
		if err != nil {
			return "", err
		}
		if err := modsource.CopyDir(path, dest); err != nil {
			return "", fmt.Errorf("copying %s into registry: %w", path, err)
		}
	}

	manifest := Manifest{
		Name:        name,
		Source:      source.String(),
		InstalledAt: time.Now().UTC(),
	}
	if err := r.writeManifest(dest, manifest); err != nil {
		return "", err
	}

	slog.Debug("module installed", "package", name, "dir", dest, "source", source)
	return dest, nil
}

// Remove deletes an installed package from the registry.
func (r *Registry) Remove(name string) error {
	dir := filepath.Join(r.Dir, name)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("package %q is not installed", name)
	}
	return os.RemoveAll(dir)
}

// List returns the manifests of all installed packages, sorted by name.
// Entries without a parseable manifest are skipped.
func (r *Registry) List() ([]Manifest, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading registry directory: %w", err)
	}

	var manifests []Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.Dir, entry.Name(), ManifestName))
		if err != nil {
			continue
		}
		var manifest Manifest
		if err := toml.Unmarshal(data, &manifest); err != nil {
			slog.Warn("skipping package with corrupt manifest", "package", entry.Name(), "error", err)
			continue
		}
		manifests = append(manifests, manifest)
	}

	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Name < manifests[j].Name })
	return manifests, nil
}

// writeManifest writes manifest into dir.
func (r *Registry) writeManifest(dir string, manifest Manifest) error {
	data, err := toml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
