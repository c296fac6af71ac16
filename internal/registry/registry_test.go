// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hoist-sh/hoist/internal/testutil"
	"github.com/hoist-sh/hoist/pkg/modsource"
)

func TestOpen(t *testing.T) {
	t.Run("explicit directory", func(t *testing.T) {
		dir := t.TempDir()
		reg, err := Open(dir)
		if err != nil {
			t.Fatalf("Open returned error: %v", err)
		}
		if reg.Dir != dir {
			t.Errorf("Dir = %q, want %q", reg.Dir, dir)
		}
	})

	t.Run("empty directory honors the env override", func(t *testing.T) {
		want := t.TempDir()
		defer testutil.MustSetenv(t, RegistryPathEnv, want)()

		reg, err := Open("")
		if err != nil {
			t.Fatalf("Open returned error: %v", err)
		}
		if reg.Dir != want {
			t.Errorf("Dir = %q, want %q", reg.Dir, want)
		}
	})
}

func TestRegistryInstallAndLocate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	moduleDir := testutil.MustModuleDir(t, t.TempDir())

	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	installed, err := reg.Install(ctx, "hoist-module-demo", modsource.NewDirSource(moduleDir))
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if want := filepath.Join(reg.Dir, "hoist-module-demo"); installed != want {
		t.Errorf("Install = %q, want %q", installed, want)
	}
	if _, err := os.Stat(filepath.Join(installed, "module.star")); err != nil {
		t.Errorf("expected module.star in installed package: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installed, ManifestName)); err != nil {
		t.Errorf("expected %s in installed package: %v", ManifestName, err)
	}

	dir, ok, err := reg.Locate(ctx, "hoist-module-demo")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if !ok {
		t.Fatal("Locate did not find the installed package")
	}
	if dir != installed {
		t.Errorf("Locate = %q, want %q", dir, installed)
	}
}

func TestRegistryLocateAbsence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	t.Run("missing package", func(t *testing.T) {
		t.Parallel()
		_, ok, err := reg.Locate(ctx, "absent")
		if err != nil {
			t.Fatalf("Locate returned error: %v", err)
		}
		if ok {
			t.Error("Locate found a package that was never installed")
		}
	})

	t.Run("directory without manifest", func(t *testing.T) {
		t.Parallel()
		if err := os.MkdirAll(filepath.Join(reg.Dir, "bare-dir"), 0o755); err != nil {
			t.Fatalf("creating bare dir: %v", err)
		}
		_, ok, err := reg.Locate(ctx, "bare-dir")
		if err != nil {
			t.Fatalf("Locate returned error: %v", err)
		}
		if ok {
			t.Error("Locate treated a manifest-less directory as installed")
		}
	})

	t.Run("corrupt manifest is an error", func(t *testing.T) {
		t.Parallel()
		testutil.MustWriteFile(t, filepath.Join(reg.Dir, "broken", ManifestName), "not [valid toml\n")
		_, _, err := reg.Locate(ctx, "broken")
		if err == nil {
			t.Fatal("Locate succeeded despite a corrupt manifest")
		}
	})
}

func TestRegistryInstallRejectsEmptyName(t *testing.T) {
	t.Parallel()

	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := reg.Install(context.Background(), "", modsource.NewDirSource(t.TempDir())); err == nil {
		t.Fatal("Install accepted an empty package name")
	}
}

func TestRegistryInstallReplacesExisting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	oldDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(oldDir, "old.star"), "v = 1\n")
	if _, err := reg.Install(ctx, "demo", modsource.NewDirSource(oldDir)); err != nil {
		t.Fatalf("first Install returned error: %v", err)
	}

	newDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(newDir, "new.star"), "v = 2\n")
	installed, err := reg.Install(ctx, "demo", modsource.NewDirSource(newDir))
	if err != nil {
		t.Fatalf("second Install returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(installed, "old.star")); !os.IsNotExist(err) {
		t.Error("previous install content survived reinstall")
	}
	if _, err := os.Stat(filepath.Join(installed, "new.star")); err != nil {
		t.Errorf("expected new.star after reinstall: %v", err)
	}
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	moduleDir := testutil.MustModuleDir(t, t.TempDir())
	if _, err := reg.Install(ctx, "demo", modsource.NewDirSource(moduleDir)); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}

	if err := reg.Remove("demo"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, ok, err := reg.Locate(ctx, "demo"); err != nil || ok {
		t.Errorf("Locate after Remove = (ok=%v, err=%v), want absence", ok, err)
	}

	if err := reg.Remove("demo"); err == nil {
		t.Error("Remove succeeded for a package that is not installed")
	}
}

func TestRegistryList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	t.Run("empty registry", func(t *testing.T) {
		manifests, err := reg.List()
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(manifests) != 0 {
			t.Errorf("List = %d manifests, want 0", len(manifests))
		}
	})

	t.Run("sorted by name and skipping corrupt entries", func(t *testing.T) {
		for _, name := range []string{"zeta", "alpha"} {
			moduleDir := testutil.MustModuleDir(t, t.TempDir())
			if _, err := reg.Install(ctx, name, modsource.NewDirSource(moduleDir)); err != nil {
				t.Fatalf("Install(%s) returned error: %v", name, err)
			}
		}
		testutil.MustWriteFile(t, filepath.Join(reg.Dir, "broken", ManifestName), "not [valid toml\n")

		manifests, err := reg.List()
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(manifests) != 2 {
			t.Fatalf("List = %d manifests, want 2", len(manifests))
		}
		if manifests[0].Name != "alpha" || manifests[1].Name != "zeta" {
			t.Errorf("List order = [%s, %s], want [alpha, zeta]", manifests[0].Name, manifests[1].Name)
		}
	})
}
