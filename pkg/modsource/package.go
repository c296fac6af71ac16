// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"fmt"
)

type (
	// PackageLocator is the installed-package metadata lookup consumed by
	// PackageSource: locate an installed package by name, returning its
	// installation root directory or an absence signal. Implementations
	// perform no mutation and no network access; errors are reserved for
	// genuinely broken registry state, never for absence.
	PackageLocator interface {
		Locate(ctx context.Context, name string) (dir string, ok bool, err error)
	}

	// PackageSource is a module source backed by a package already installed
	// in the host registry. Resolution is a pure metadata lookup.
	PackageSource struct {
		// Name is the installed package name.
		Name string

		// Packages is the registry lookup capability.
		Packages PackageLocator
	}
)

// NewPackageSource creates a PackageSource that looks up name via packages.
func NewPackageSource(name string, packages PackageLocator) *PackageSource {
	return &PackageSource{Name: name, Packages: packages}
}

func (s *PackageSource) isSource() {}

// String returns the package name, the only locator form this variant has.
func (s *PackageSource) String() string { return s.Name }

// Resolve performs one lookup against the installed-package registry and
// returns the package's root installation directory. Absence is a
// *LookupError naming the package.
func (s *PackageSource) Resolve(ctx context.Context) (string, error) {
	if s.Packages == nil {
		return "", &LookupError{Package: s.Name}
	}

	dir, ok, err := s.Packages.Locate(ctx, s.Name)
	if err != nil {
		return "", fmt.Errorf("looking up package %q: %w", s.Name, err)
	}
	if !ok {
		return "", &LookupError{Package: s.Name}
	}
	return dir, nil
}
