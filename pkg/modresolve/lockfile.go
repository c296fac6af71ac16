// SPDX-License-Identifier: MPL-2.0

package modresolve

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hoist-sh/hoist/pkg/modsource"
)

// LockFileName is the name of the lock file recording resolved module
// sources. It pairs with a project's hoist.toml the way go.sum pairs with
// go.mod.
const LockFileName = "hoist.lock.toml"

type (
	// LockFile records where each module resolved to, so a later run (or a
	// teammate's machine) can see exactly which locator and layer won.
	LockFile struct {
		// Version is the lock file format version.
		Version string `toml:"version"`

		// Generated is the timestamp when the lock file was last written.
		Generated time.Time `toml:"generated"`

		// Modules maps module ids to their locked entries.
		Modules map[string]LockedModule `toml:"modules"`
	}

	// LockedModule is one locked resolution result.
	LockedModule struct {
		// Source is the canonical locator string of the resolved source.
		Source string `toml:"source"`

		// Layer is the name of the layer that produced the match.
		Layer string `toml:"layer"`

		// Path is the filesystem path the source resolved to at lock time.
		Path string `toml:"path"`
	}
)

// NewLockFile creates a new empty lock file.
func NewLockFile() *LockFile {
	return &LockFile{
		Version:   "1.0",
		Generated: time.Now().UTC(),
		Modules:   make(map[string]LockedModule),
	}
}

// LoadLockFile loads a lock file from path. A missing file yields a fresh
// empty lock file, not an error.
func LoadLockFile(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLockFile(), nil
		}
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}

	var lock LockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file %s: %w", path, err)
	}
	if lock.Modules == nil {
		lock.Modules = make(map[string]LockedModule)
	}
	return &lock, nil
}

// Set records the resolution result for moduleID.
func (l *LockFile) Set(moduleID string, source modsource.Source, layer Layer, path string) {
	l.Modules[moduleID] = LockedModule{
		Source: source.String(),
		Layer:  layer.String(),
		Path:   path,
	}
}

// Save writes the lock file to path in TOML format.
func (l *LockFile) Save(path string) error {
	l.Generated = time.Now().UTC()

	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode lock file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}
