// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSource is a module source backed by a local directory. The path may be
// given in absolute form, relative form (resolved against the current working
// directory at construction time), or file:// URI form.
type DirSource struct {
	// Path is the absolute, cleaned directory path.
	Path string
}

// NewDirSource creates a DirSource from a path or file:// locator. The input
// is normalized to an absolute path immediately so that later Resolve calls
// are independent of the working directory.
func NewDirSource(path string) *DirSource {
	path = strings.TrimPrefix(path, FileScheme)
	abs, err := filepath.Abs(path)
	if err != nil {
		// filepath.Abs only fails when the working directory is gone; keep the
		// cleaned input and let Resolve report the path as missing.
		abs = filepath.Clean(path)
	}
	return &DirSource{Path: abs}
}

func (s *DirSource) isSource() {}

// String returns the canonical locator form: the absolute path itself.
func (s *DirSource) String() string { return s.Path }

// Resolve validates the directory and returns its absolute path. The checks
// run in a fixed order, each failing with its own distinct reason: the path
// must exist, must be a directory, and must contain at least one module
// source file. Resolve is idempotent and has no side effects beyond
// validation.
func (s *DirSource) Resolve(_ context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", &ValidationError{Path: s.Path, Reason: ErrPathNotFound}
	}
	if !info.IsDir() {
		return "", &ValidationError{Path: s.Path, Reason: ErrNotDirectory}
	}
	if !HasModuleFiles(s.Path) {
		return "", &ValidationError{Path: s.Path, Reason: ErrNoModuleFiles}
	}
	return s.Path, nil
}

// Install copies the validated module directory into targetDir, creating it
// if absent. The copy is staged in a temporary sibling directory and
// published with a rename, so a cancelled install leaves no partial target.
func (s *DirSource) Install(ctx context.Context, targetDir string) error {
	path, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := stageAndPublish(ctx, targetDir, func(staging string) error {
		return CopyDir(path, staging)
	}); err != nil {
		return fmt.Errorf("installing %s to %s: %w", path, targetDir, err)
	}
	return nil
}
