// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// ModuleFileExt is the extension of a recognizable module source file. A
// directory qualifies as a module only if it contains at least one such file.
const ModuleFileExt = ".star"

type (
	// Source is the closed set of module source variants. Exactly three types
	// implement it: *DirSource, *GitSource, and *PackageSource. The set is
	// sealed by the unexported marker method; callers needing other variants
	// compose at a higher layer.
	//
	// Source values are cheap, immutable once constructed, and safe to share
	// by read.
	Source interface {
		// Resolve returns an absolute filesystem path believed to contain the
		// module's code. It never returns a partially valid path: on any unmet
		// condition it fails with the variant's resolution error kind.
		Resolve(ctx context.Context) (string, error)

		// String returns the canonical locator form of the source, suitable
		// for persistence in lock-file-style records.
		String() string

		isSource()
	}

	// Installer is the optional installation capability of a Source:
	// materializing the module's code under an arbitrary caller-chosen
	// directory, as opposed to Resolve's canonical reusable location.
	// Install is idempotent on retry and cancellable via ctx; a cancelled
	// install never publishes a partially populated target directory.
	Installer interface {
		Install(ctx context.Context, targetDir string) error
	}

	// ClassifyOptions carries the collaborators a classified GitSource needs.
	// The zero value selects the default cache location and the go-git backed
	// fetcher.
	ClassifyOptions struct {
		// CacheDir overrides the Git source cache root.
		CacheDir string
		// Fetcher overrides the external fetch capability.
		Fetcher Fetcher
	}
)

// Classify maps a source locator string onto its Source variant using the
// fixed decision table documented on the package. Strings that match no rule
// are rejected with a *FormatError; classification never guesses.
func Classify(s string, opts ClassifyOptions) (Source, error) {
	switch {
	case strings.HasPrefix(s, GitScheme):
		loc, err := ParseGitLocator(s)
		if err != nil {
			return nil, err
		}
		return NewGitSource(loc, opts.CacheDir, opts.Fetcher), nil
	case strings.HasPrefix(s, FileScheme), isPathLike(s):
		return NewDirSource(s), nil
	default:
		return nil, &FormatError{
			Input:  s,
			Reason: "not a recognized source locator (expected git+<url>, file://<path>, or a filesystem path)",
		}
	}
}

// isPathLike reports whether s is an absolute or explicitly relative
// filesystem path. Bare tokens (no scheme, no path shape) are not paths; they
// are rejected by Classify rather than treated as package names.
func isPathLike(s string) bool {
	return filepath.IsAbs(s) ||
		s == "." || s == ".." ||
		strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") ||
		strings.HasPrefix(s, `.\`) || strings.HasPrefix(s, `..\`)
}

// HasModuleFiles reports whether dir contains at least one module source file
// (searched recursively). Unreadable subtrees are treated as empty.
func HasModuleFiles(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error { //nolint:errcheck // found flag carries the answer
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ModuleFileExt) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
