// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBadLocator is the sentinel error wrapped by FormatError.
	ErrBadLocator = errors.New("malformed source locator")

	// ErrPathNotFound is the ValidationError reason for a missing module path.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrNotDirectory is the ValidationError reason for a path that exists but
	// is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNoModuleFiles is the ValidationError reason for a directory that
	// contains no recognizable module source files.
	ErrNoModuleFiles = errors.New("directory contains no module files")

	// ErrPackageNotInstalled is the sentinel error wrapped by LookupError.
	ErrPackageNotInstalled = errors.New("package not installed")
)

type (
	// FormatError is returned when a source locator string is not well-formed
	// for its apparent scheme. It is always fatal to the resolution call that
	// produced it: a misconfigured override is a bug to surface, not to mask.
	FormatError struct {
		// Input is the offending locator string.
		Input string
		// Reason describes what is wrong with it.
		Reason string
	}

	// ValidationError is returned by DirSource when the directory fails one of
	// its resolution checks. Reason is exactly one of ErrPathNotFound,
	// ErrNotDirectory, or ErrNoModuleFiles.
	ValidationError struct {
		Path   string
		Reason error
	}

	// LookupError is returned by PackageSource when the named package is not
	// present in the host registry.
	LookupError struct {
		Package string
	}

	// FetchError is returned when the external fetch capability fails. It
	// carries the identifying arguments of the attempted operation and the
	// underlying diagnostic, never a bare transport failure.
	FetchError struct {
		Repo   string
		Ref    string
		Dest   string
		Detail string
		Err    error
	}
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed source locator %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrBadLocator so callers can use errors.Is for programmatic detection.
func (e *FormatError) Unwrap() error { return ErrBadLocator }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid module directory %s: %v", e.Path, e.Reason)
}

// Unwrap returns the specific validation reason (ErrPathNotFound,
// ErrNotDirectory, or ErrNoModuleFiles).
func (e *ValidationError) Unwrap() error { return e.Reason }

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("package %q not installed in the module registry", e.Package)
}

// Unwrap returns ErrPackageNotInstalled so callers can use errors.Is for
// programmatic detection.
func (e *LookupError) Unwrap() error { return ErrPackageNotInstalled }

// Error implements the error interface.
func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetching %s@%s into %s", e.Repo, e.Ref, e.Dest)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying fetch failure, if any.
func (e *FetchError) Unwrap() error { return e.Err }
