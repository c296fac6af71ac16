// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"errors"
	"testing"
)

// fakeLocator maps package names to installation directories.
type fakeLocator struct {
	installed map[string]string
	err       error
}

func (f *fakeLocator) Locate(_ context.Context, name string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	dir, ok := f.installed[name]
	return dir, ok, nil
}

func TestPackageSourceResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("installed package", func(t *testing.T) {
		t.Parallel()
		packages := &fakeLocator{installed: map[string]string{"hoist-module-demo": "/registry/hoist-module-demo"}}
		got, err := NewPackageSource("hoist-module-demo", packages).Resolve(ctx)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if got != "/registry/hoist-module-demo" {
			t.Errorf("Resolve = %q, want the installation directory", got)
		}
	})

	t.Run("absent package", func(t *testing.T) {
		t.Parallel()
		packages := &fakeLocator{installed: map[string]string{}}
		_, err := NewPackageSource("hoist-module-demo", packages).Resolve(ctx)
		if !errors.Is(err, ErrPackageNotInstalled) {
			t.Errorf("Resolve error = %v, want ErrPackageNotInstalled", err)
		}
		var lookupErr *LookupError
		if !errors.As(err, &lookupErr) {
			t.Fatalf("Resolve error type = %T, want *LookupError", err)
		}
		if lookupErr.Package != "hoist-module-demo" {
			t.Errorf("LookupError.Package = %q, want the requested name", lookupErr.Package)
		}
	})

	t.Run("registry failure is not absence", func(t *testing.T) {
		t.Parallel()
		registryErr := errors.New("manifest corrupt")
		_, err := NewPackageSource("demo", &fakeLocator{err: registryErr}).Resolve(ctx)
		if !errors.Is(err, registryErr) {
			t.Errorf("Resolve error = %v, want the registry failure", err)
		}
		if errors.Is(err, ErrPackageNotInstalled) {
			t.Error("registry failure reported as package absence")
		}
	})

	t.Run("nil locator behaves as absence", func(t *testing.T) {
		t.Parallel()
		_, err := NewPackageSource("demo", nil).Resolve(ctx)
		if !errors.Is(err, ErrPackageNotInstalled) {
			t.Errorf("Resolve error = %v, want ErrPackageNotInstalled", err)
		}
	})
}

func TestPackageSourceString(t *testing.T) {
	t.Parallel()

	src := NewPackageSource("hoist-module-demo", nil)
	if got := src.String(); got != "hoist-module-demo" {
		t.Errorf("String() = %q, want the package name", got)
	}
}
