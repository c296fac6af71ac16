// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// CachePathEnv is the environment variable for overriding the default Git
	// source cache path.
	CachePathEnv = "HOIST_CACHE_PATH"

	// defaultCacheDirName is the default cache subdirectory within ~/.hoist.
	defaultCacheDirName = "module-cache"
)

// DefaultCacheDir returns the Git source cache root. It checks
// HOIST_CACHE_PATH first, then falls back to ~/.hoist/module-cache.
func DefaultCacheDir() (string, error) {
	if envPath := os.Getenv(CachePathEnv); envPath != "" {
		return envPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".hoist", defaultCacheDirName), nil
}

// cachePath derives the deterministic cache location for a (url, ref) pair
// under root. The same pair always maps to the same subpath, which is what
// makes repeated resolutions reuse an already populated entry. The optional
// subdirectory is joined onto the entry by the caller, so it participates in
// the cache key through path identity.
func cachePath(root, url, ref string) string {
	sum := sha256.Sum256([]byte(url + "@" + ref))
	key := hex.EncodeToString(sum[:])[:12]
	return filepath.Join(root, key, filepath.FromSlash(ref))
}
