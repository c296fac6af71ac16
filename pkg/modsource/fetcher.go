// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// commitPattern matches a full 40-character lowercase hex commit SHA.
var commitPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

type (
	// Fetcher is the external fetch capability consumed by GitSource: place a
	// checkout of url at ref under dest. Implementations must be safe for a
	// cancelled ctx, leaving no partially populated dest behind, and must
	// report failures as *FetchError rather than raw transport errors.
	Fetcher interface {
		Fetch(ctx context.Context, url, ref, dest string) error
	}

	// GitFetcher is the production Fetcher, built on go-git. It clones into a
	// temporary staging directory and publishes the checkout with a single
	// rename, relying on the filesystem for atomicity rather than adding its
	// own cross-process locking.
	GitFetcher struct {
		auth transport.AuthMethod
	}
)

// NewGitFetcher creates a Git fetcher with authentication discovered from the
// environment (SSH keys under ~/.ssh, then GITHUB_TOKEN/GIT_TOKEN for HTTPS).
// Public repositories work with no authentication at all.
func NewGitFetcher() *GitFetcher {
	f := &GitFetcher{}
	f.setupAuth()
	return f
}

// Fetch clones url at ref into dest.
func (f *GitFetcher) Fetch(ctx context.Context, url, ref, dest string) error {
	err := stageAndPublish(ctx, dest, func(staging string) error {
		return f.clone(ctx, url, ref, staging)
	})
	if err == nil {
		return nil
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return err
	}
	return &FetchError{Repo: url, Ref: ref, Dest: dest, Err: err}
}

// clone checks out url at ref into dir, which must exist and be empty. The
// ref is tried as a branch, then as a tag, then (when it has commit SHA
// shape) as a detached commit checkout.
func (f *GitFetcher) clone(ctx context.Context, url, ref, dir string) error {
	refNames := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(ref),
		plumbing.NewTagReferenceName(ref),
	}

	var lastErr error
	for _, refName := range refNames {
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:           url,
			Auth:          f.auth,
			ReferenceName: refName,
			SingleBranch:  true,
			Depth:         1,
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if err := resetDir(dir); err != nil {
			return &FetchError{Repo: url, Ref: ref, Dest: dir, Detail: "resetting staging directory", Err: err}
		}
	}

	if commitPattern.MatchString(ref) {
		repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:        url,
			Auth:       f.auth,
			NoCheckout: true,
		})
		if err != nil {
			return &FetchError{Repo: url, Ref: ref, Dest: dir, Err: err}
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return &FetchError{Repo: url, Ref: ref, Dest: dir, Err: err}
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(ref)}); err != nil {
			return &FetchError{Repo: url, Ref: ref, Dest: dir, Detail: "checking out commit", Err: err}
		}
		return nil
	}

	return &FetchError{
		Repo:   url,
		Ref:    ref,
		Dest:   dir,
		Detail: "ref matched no branch or tag",
		Err:    lastErr,
	}
}

// resetDir empties dir after a failed clone attempt so the next attempt
// starts from a clean slate.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// setupAuth configures authentication based on available credentials.
func (f *GitFetcher) setupAuth() {
	if sshAuth := trySSHAuth(); sshAuth != nil {
		f.auth = sshAuth
		return
	}
	if httpAuth := tryHTTPAuth(); httpAuth != nil {
		f.auth = httpAuth
	}
	// No authentication configured - will work for public repos.
}

// trySSHAuth attempts to configure SSH authentication from common key paths.
func trySSHAuth() transport.AuthMethod {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	keyPaths := []string{
		filepath.Join(homeDir, ".ssh", "id_ed25519"),
		filepath.Join(homeDir, ".ssh", "id_rsa"),
		filepath.Join(homeDir, ".ssh", "id_ecdsa"),
	}

	for _, keyPath := range keyPaths {
		if _, err := os.Stat(keyPath); err == nil {
			auth, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
			if err == nil {
				return auth
			}
		}
	}

	return nil
}

// tryHTTPAuth attempts to configure HTTP token authentication.
func tryHTTPAuth() transport.AuthMethod {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return &http.BasicAuth{
			Username: "x-access-token",
			Password: token,
		}
	}
	if token := os.Getenv("GIT_TOKEN"); token != "" {
		return &http.BasicAuth{
			Username: "git",
			Password: token,
		}
	}
	return nil
}
