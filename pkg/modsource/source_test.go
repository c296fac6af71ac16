// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/hoist-sh/hoist/internal/testutil"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string // concrete Source type
	}{
		{"git locator", "git+https://example.com/org/repo@v1.0.0", "*modsource.GitSource"},
		{"git locator with subdirectory", "git+https://example.com/org/repo#subdirectory=pkg", "*modsource.GitSource"},
		{"file uri", "file:///opt/modules/demo", "*modsource.DirSource"},
		{"absolute path", "/opt/modules/demo", "*modsource.DirSource"},
		{"relative path", "./modules/demo", "*modsource.DirSource"},
		{"parent relative path", "../modules/demo", "*modsource.DirSource"},
		{"dot", ".", "*modsource.DirSource"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src, err := Classify(tt.input, ClassifyOptions{})
			if err != nil {
				t.Fatalf("Classify(%q) returned error: %v", tt.input, err)
			}
			var got string
			switch src.(type) {
			case *GitSource:
				got = "*modsource.GitSource"
			case *DirSource:
				got = "*modsource.DirSource"
			case *PackageSource:
				got = "*modsource.PackageSource"
			default:
				t.Fatalf("Classify(%q) returned unexpected type %T", tt.input, src)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyRejectsUnrecognizedInput(t *testing.T) {
	t.Parallel()

	// Bare tokens are never guessed to be package names; resolution layers
	// that want package semantics construct a PackageSource explicitly.
	inputs := []string{
		"",
		"some-module",
		"hoist-module-demo",
		"https://example.com/org/repo",
		"modules/demo",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := Classify(input, ClassifyOptions{})
			if err == nil {
				t.Fatalf("Classify(%q) succeeded, want format error", input)
			}
			if !errors.Is(err, ErrBadLocator) {
				t.Errorf("Classify(%q) error = %v, want ErrBadLocator", input, err)
			}
		})
	}
}

func TestClassifyPropagatesGitLocatorErrors(t *testing.T) {
	t.Parallel()

	_, err := Classify("git+https://example.com/repo#egg=x", ClassifyOptions{})
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Classify error type = %T, want *FormatError", err)
	}
}

func TestClassifyThreadsOptionsIntoGitSource(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	src, err := Classify("git+https://example.com/org/repo@v1", ClassifyOptions{
		CacheDir: "/tmp/cache",
		Fetcher:  fetcher,
	})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	git, ok := src.(*GitSource)
	if !ok {
		t.Fatalf("Classify returned %T, want *GitSource", src)
	}
	if git.cacheDir != "/tmp/cache" {
		t.Errorf("cacheDir = %q, want %q", git.cacheDir, "/tmp/cache")
	}
	if git.fetcher != fetcher {
		t.Error("fetcher was not threaded into the GitSource")
	}
}

func TestHasModuleFiles(t *testing.T) {
	t.Parallel()

	t.Run("top level module file", func(t *testing.T) {
		t.Parallel()
		dir := testutil.MustModuleDir(t, t.TempDir())
		if !HasModuleFiles(dir) {
			t.Error("HasModuleFiles = false for a directory with a module file")
		}
	})

	t.Run("nested module file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(dir, "deep", "nested", "mod.star"), "x = 1\n")
		if !HasModuleFiles(dir) {
			t.Error("HasModuleFiles = false for a nested module file")
		}
	})

	t.Run("unrelated files only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(dir, "README.md"), "docs\n")
		if HasModuleFiles(dir) {
			t.Error("HasModuleFiles = true for a directory without module files")
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		if HasModuleFiles(t.TempDir()) {
			t.Error("HasModuleFiles = true for an empty directory")
		}
	})
}
