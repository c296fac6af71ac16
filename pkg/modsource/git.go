// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// GitSource is a module source backed by a Git repository at a specific ref,
// optionally narrowed to a subdirectory. Resolve goes through a
// content-addressed local cache keyed by (URL, Ref, Subdirectory); Install
// fetches directly into the caller's target directory, bypassing the cache.
type GitSource struct {
	// Locator holds the (URL, Ref, Subdirectory) triple.
	Locator GitLocator

	cacheDir string
	fetcher  Fetcher
}

// NewGitSource creates a GitSource. cacheDir and fetcher may be zero, in
// which case DefaultCacheDir and the go-git backed GitFetcher are used.
func NewGitSource(loc GitLocator, cacheDir string, fetcher Fetcher) *GitSource {
	if loc.Ref == "" {
		loc.Ref = DefaultRef
	}
	return &GitSource{Locator: loc, cacheDir: cacheDir, fetcher: fetcher}
}

func (s *GitSource) isSource() {}

// String returns the canonical git+ locator string, the inverse of
// ParseGitLocator.
func (s *GitSource) String() string { return s.Locator.String() }

// Resolve returns the cached checkout for this source, fetching it first if
// the cache entry is absent or invalid. The same (URL, Ref, Subdirectory)
// triple always resolves to the same cache location, and an already valid
// entry is returned without invoking the fetch capability again.
func (s *GitSource) Resolve(ctx context.Context) (string, error) {
	root := s.cacheDir
	if root == "" {
		var err error
		root, err = DefaultCacheDir()
		if err != nil {
			return "", err
		}
	}

	entry := cachePath(root, s.Locator.URL, s.Locator.Ref)
	final := entry
	if s.Locator.Subdirectory != "" {
		final = filepath.Join(entry, filepath.FromSlash(s.Locator.Subdirectory))
	}

	if dirExists(entry) && HasModuleFiles(entry) {
		slog.Debug("using cached git module", "url", s.Locator.URL, "ref", s.Locator.Ref, "cache", entry)
		return final, nil
	}

	slog.Info("fetching git module", "url", s.Locator.URL, "ref", s.Locator.Ref)
	if err := s.fetch(ctx, entry); err != nil {
		return "", err
	}

	if !dirExists(final) {
		return "", &FetchError{
			Repo:   s.Locator.URL,
			Ref:    s.Locator.Ref,
			Dest:   entry,
			Detail: fmt.Sprintf("subdirectory %q not found after fetch", s.Locator.Subdirectory),
		}
	}

	return final, nil
}

// Install materializes the module's code under targetDir, creating it if
// absent. Unlike Resolve, this is a fresh fetch straight into the caller's
// directory: installation wants a disposable copy, resolution wants the
// canonical reusable one. When a subdirectory is set, only its content ends
// up under targetDir.
func (s *GitSource) Install(ctx context.Context, targetDir string) error {
	if s.Locator.Subdirectory == "" {
		return s.fetch(ctx, targetDir)
	}

	// Fetch the full repository to a scratch location, then publish just the
	// subdirectory.
	scratch, err := os.MkdirTemp("", "hoist-install-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch) //nolint:errcheck // best-effort cleanup

	checkout := filepath.Join(scratch, "repo")
	if err := s.fetch(ctx, checkout); err != nil {
		return err
	}

	subdir := filepath.Join(checkout, filepath.FromSlash(s.Locator.Subdirectory))
	if !dirExists(subdir) {
		return &FetchError{
			Repo:   s.Locator.URL,
			Ref:    s.Locator.Ref,
			Dest:   targetDir,
			Detail: fmt.Sprintf("subdirectory %q not found after fetch", s.Locator.Subdirectory),
		}
	}

	if err := stageAndPublish(ctx, targetDir, func(staging string) error {
		return CopyDir(subdir, staging)
	}); err != nil {
		return fmt.Errorf("installing %s to %s: %w", s.Locator, targetDir, err)
	}
	return nil
}

// fetch invokes the external fetch capability against dest.
func (s *GitSource) fetch(ctx context.Context, dest string) error {
	fetcher := s.fetcher
	if fetcher == nil {
		fetcher = NewGitFetcher()
	}
	return fetcher.Fetch(ctx, s.Locator.URL, s.Locator.Ref, dest)
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
