// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// stageAndPublish materializes content into dest atomically: fill writes into
// a temporary sibling staging directory, which is renamed over dest only after
// fill succeeds and ctx is still live. On any failure the staging directory is
// removed and dest is left untouched.
func stageAndPublish(ctx context.Context, dest string, fill func(staging string) error) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".staging-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // best-effort cleanup

	if err := fill(staging); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Replace whatever is at dest (possibly an invalid cache entry) in one
	// rename, so concurrent readers never observe a half-written directory.
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clearing destination: %w", err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return fmt.Errorf("publishing destination: %w", err)
	}
	return nil
}

// CopyDir recursively copies a directory, skipping symlinks.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if mkdirErr := os.MkdirAll(dst, srcInfo.Mode()); mkdirErr != nil {
		return mkdirErr
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file, preserving its mode.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}
