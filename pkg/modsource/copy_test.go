// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hoist-sh/hoist/internal/testutil"
)

func TestCopyDir(t *testing.T) {
	t.Parallel()

	t.Run("copies nested content and preserves modes", func(t *testing.T) {
		t.Parallel()
		src := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(src, "module.star"), "x = 1\n")
		testutil.MustWriteFile(t, filepath.Join(src, "lib", "util.star"), "y = 2\n")
		script := filepath.Join(src, "run.sh")
		testutil.MustWriteFile(t, script, "#!/bin/sh\n")
		if err := os.Chmod(script, 0o755); err != nil {
			t.Fatalf("chmod: %v", err)
		}

		dst := filepath.Join(t.TempDir(), "copy")
		if err := CopyDir(src, dst); err != nil {
			t.Fatalf("CopyDir returned error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dst, "lib", "util.star"))
		if err != nil {
			t.Fatalf("reading copied nested file: %v", err)
		}
		if string(data) != "y = 2\n" {
			t.Errorf("copied content = %q, want %q", data, "y = 2\n")
		}

		info, err := os.Stat(filepath.Join(dst, "run.sh"))
		if err != nil {
			t.Fatalf("stat copied script: %v", err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("mode = %v, want 0755", info.Mode().Perm())
		}
	})

	t.Run("skips symlinks", func(t *testing.T) {
		t.Parallel()
		src := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(src, "module.star"), "x = 1\n")
		if err := os.Symlink("/etc/passwd", filepath.Join(src, "link")); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		dst := filepath.Join(t.TempDir(), "copy")
		if err := CopyDir(src, dst); err != nil {
			t.Fatalf("CopyDir returned error: %v", err)
		}
		if _, err := os.Lstat(filepath.Join(dst, "link")); !os.IsNotExist(err) {
			t.Error("symlink was copied")
		}
	})

	t.Run("missing source is an error", func(t *testing.T) {
		t.Parallel()
		if err := CopyDir("/no/such/dir", filepath.Join(t.TempDir(), "copy")); err == nil {
			t.Fatal("CopyDir succeeded with a missing source")
		}
	})
}

func TestStageAndPublish(t *testing.T) {
	t.Parallel()

	t.Run("publishes only after fill succeeds", func(t *testing.T) {
		t.Parallel()
		dest := filepath.Join(t.TempDir(), "nested", "dest")
		err := stageAndPublish(context.Background(), dest, func(staging string) error {
			return os.WriteFile(filepath.Join(staging, "module.star"), []byte("x = 1\n"), 0o644)
		})
		if err != nil {
			t.Fatalf("stageAndPublish returned error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dest, "module.star")); err != nil {
			t.Errorf("expected published content: %v", err)
		}
	})

	t.Run("failed fill leaves no destination", func(t *testing.T) {
		t.Parallel()
		dest := filepath.Join(t.TempDir(), "dest")
		fillErr := errors.New("fill failed")
		err := stageAndPublish(context.Background(), dest, func(string) error { return fillErr })
		if !errors.Is(err, fillErr) {
			t.Fatalf("error = %v, want the fill failure", err)
		}
		if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
			t.Error("destination was published despite the failed fill")
		}
	})

	t.Run("canceled context leaves the previous destination intact", func(t *testing.T) {
		t.Parallel()
		dest := filepath.Join(t.TempDir(), "dest")
		testutil.MustWriteFile(t, filepath.Join(dest, "keep.star"), "kept = true\n")

		ctx, cancel := context.WithCancel(context.Background())
		err := stageAndPublish(ctx, dest, func(staging string) error {
			cancel()
			return os.WriteFile(filepath.Join(staging, "new.star"), []byte("x = 1\n"), 0o644)
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
		if _, statErr := os.Stat(filepath.Join(dest, "keep.star")); statErr != nil {
			t.Errorf("previous destination content was lost: %v", statErr)
		}
	})

	t.Run("replaces an existing destination atomically", func(t *testing.T) {
		t.Parallel()
		dest := filepath.Join(t.TempDir(), "dest")
		testutil.MustWriteFile(t, filepath.Join(dest, "old.star"), "v = 1\n")

		err := stageAndPublish(context.Background(), dest, func(staging string) error {
			return os.WriteFile(filepath.Join(staging, "new.star"), []byte("v = 2\n"), 0o644)
		})
		if err != nil {
			t.Fatalf("stageAndPublish returned error: %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dest, "old.star")); !os.IsNotExist(statErr) {
			t.Error("old content survived the publish")
		}
		if _, statErr := os.Stat(filepath.Join(dest, "new.star")); statErr != nil {
			t.Errorf("expected new content after publish: %v", statErr)
		}
	})
}
