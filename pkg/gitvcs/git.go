// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gitvcs is the typed façade over the `git` executable described
// in spec §4.3: a thin wrapper that turns git subcommands into typed
// methods and typed errors, with no retry policy of its own (retries, if
// any, live in the orchestrator).
//
// It is built on internal/gitcmd.Executor (the same process-spawn helper
// the teacher's repository.client used) rather than a vendored git
// library, matching the teacher's own "shell out to git" approach.
package gitvcs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gizzahub/git-ws/internal/gitcmd"
	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/pathlock"
	"github.com/gizzahub/git-ws/pkg/urlutil"
)

// Git wraps one clone's working directory.
type Git struct {
	exec *gitcmd.Executor
	path string
}

// New returns a Git bound to path. path need not exist yet (Init/Clone
// create it).
func New(path string, opts ...Option) *Git {
	g := &Git{exec: gitcmd.NewExecutor(), path: path}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Option configures a Git.
type Option func(*Git)

// WithExecutor overrides the underlying gitcmd.Executor (the clone-cache
// and shallow-clone helpers use it to share their caller's executor).
func WithExecutor(e *gitcmd.Executor) Option {
	return func(g *Git) { g.exec = e }
}

// Path returns the clone's on-disk path.
func (g *Git) Path() string { return g.path }

// CheckAvailable verifies the `git` executable can be found on PATH,
// surfacing gwerrors.ErrNoGit when it can't.
func CheckAvailable() error {
	if _, err := exec.LookPath("git"); err != nil {
		return gwerrors.Wrap(err, gwerrors.ErrNoGit)
	}
	return nil
}

func (g *Git) run(ctx context.Context, args ...string) (*gitcmd.Result, error) {
	return g.runIn(ctx, g.path, args...)
}

func (g *Git) runIn(ctx context.Context, dir string, args ...string) (*gitcmd.Result, error) {
	res, err := g.exec.Run(ctx, dir, args...)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, &gwerrors.ProcessFailedError{
			Command:  "git " + strings.Join(args, " "),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return res, nil
}

func (g *Git) output(ctx context.Context, args ...string) (string, error) {
	res, err := g.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Init runs `git init` at g.Path(), creating the directory first.
func (g *Git) Init(ctx context.Context) error {
	if err := os.MkdirAll(g.path, 0o755); err != nil {
		return err
	}
	_, err := g.run(ctx, "init")
	return err
}

// CloneOptions configures Clone.
type CloneOptions struct {
	Revision string
	Depth    int
	// CacheDir, when non-empty, routes the clone through the local clone
	// cache (§4.3 "Clone with cache").
	CacheDir string
}

// Clone creates g.Path() as a fresh clone of url. When opts.CacheDir is
// set, the clone is staged through the cache entry for url first.
func (g *Git) Clone(ctx context.Context, url string, opts CloneOptions) error {
	if opts.Depth > 0 {
		return g.cloneShallow(ctx, url, opts)
	}
	if opts.CacheDir != "" {
		return g.cloneViaCache(ctx, url, opts)
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return err
	}
	args := []string{"clone"}
	if opts.Revision != "" {
		args = append(args, "--branch", opts.Revision)
	}
	args = append(args, "--", url, g.path)
	_, err := g.runIn(ctx, "", args...)
	return err
}

// CachePath returns the clone-cache directory entry for url under
// cacheDir, keyed by the SHA-256 of the credential-stripped URL.
func CachePath(cacheDir, url string) string {
	sum := sha256.Sum256([]byte(urlutil.StripUserPassword(url)))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:]))
}

// cloneViaCache implements spec §4.3's cache-backed clone: refresh (or
// create) the cache entry atomically, then copy it into g.Path() with its
// origin remote stripped.
func (g *Git) cloneViaCache(ctx context.Context, url string, opts CloneOptions) error {
	cachePath := CachePath(opts.CacheDir, url)

	err := pathlock.AtomicUpdate(ctx, cachePath, func(tmp string) error {
		cache := New(tmp, WithExecutor(g.exec))
		if _, statErr := os.Stat(tmp); statErr == nil && cache.IsCloned(ctx) {
			if refreshErr := cache.refreshCacheEntry(ctx, url); refreshErr != nil {
				if rmErr := os.RemoveAll(tmp); rmErr != nil {
					return rmErr
				}
				return cache.cloneFresh(ctx, url)
			}
			return nil
		}
		return cache.cloneFresh(ctx, url)
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return err
	}
	if err := pathlock.AtomicUpdate(ctx, g.path, func(tmp string) error {
		return copyDir(cachePath, tmp)
	}); err != nil {
		return err
	}
	installed := New(g.path, WithExecutor(g.exec))
	_, _ = installed.run(ctx, "remote", "remove", "origin")

	if opts.Revision != "" {
		if _, err := installed.run(ctx, "checkout", opts.Revision); err != nil {
			return err
		}
	}
	return nil
}

func (g *Git) cloneFresh(ctx context.Context, url string) error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return err
	}
	_, err := g.runIn(ctx, "", "clone", "--", url, g.path)
	return err
}

// refreshCacheEntry resets a present cache entry back to origin's tip,
// per §4.3: restore origin, hard-reset + clean, fetch, merge.
func (g *Git) refreshCacheEntry(ctx context.Context, url string) error {
	if _, err := g.run(ctx, "remote", "set-url", "origin", url); err != nil {
		if _, addErr := g.run(ctx, "remote", "add", "origin", url); addErr != nil {
			return addErr
		}
	}
	if _, err := g.run(ctx, "reset", "--hard"); err != nil {
		return err
	}
	if _, err := g.run(ctx, "clean", "-x", "-d", "-f"); err != nil {
		return err
	}
	if _, err := g.run(ctx, "fetch", "origin"); err != nil {
		return err
	}
	branch, err := g.GetBranch(ctx)
	if err != nil || branch == "" {
		return nil
	}
	if _, err := g.run(ctx, "branch", "-u", "origin/"+branch, branch); err != nil {
		return err
	}
	_, err = g.run(ctx, "merge", "origin/"+branch)
	return err
}

// cloneShallow implements spec §4.3's shallow-clone path: through the
// cache when configured, otherwise a bare init+remote+fetch sequence.
func (g *Git) cloneShallow(ctx context.Context, url string, opts CloneOptions) error {
	return pathlock.AtomicUpdate(ctx, g.path, func(tmp string) error {
		target := New(tmp, WithExecutor(g.exec))
		if opts.CacheDir != "" {
			cachePath := CachePath(opts.CacheDir, url)
			if err := pathlock.AtomicUpdate(ctx, cachePath, func(ctmp string) error {
				cache := New(ctmp, WithExecutor(g.exec))
				if _, statErr := os.Stat(ctmp); statErr == nil && cache.IsCloned(ctx) {
					return cache.refreshCacheEntry(ctx, url)
				}
				return cache.cloneFresh(ctx, url)
			}); err != nil {
				return err
			}
			if err := target.Init(ctx); err != nil {
				return err
			}
			if _, err := target.run(ctx, "remote", "add", "origin", cachePath); err != nil {
				return err
			}
		} else {
			if err := target.Init(ctx); err != nil {
				return err
			}
			if _, err := target.run(ctx, "remote", "add", "origin", url); err != nil {
				return err
			}
		}

		ref := opts.Revision
		if ref == "" {
			ref = "HEAD"
		}
		if _, err := target.run(ctx, "fetch", "--depth", fmt.Sprint(opts.Depth), "origin", ref); err != nil {
			return err
		}
		if _, err := target.run(ctx, "checkout", "FETCH_HEAD"); err != nil {
			return err
		}
		if opts.CacheDir != "" {
			_, _ = target.run(ctx, "remote", "remove", "origin")
			_, _ = target.run(ctx, "remote", "add", "origin", url)
		}
		return nil
	})
}

// Unshallow converts a shallow clone to full history.
func (g *Git) Unshallow(ctx context.Context) error {
	_, err := g.run(ctx, "fetch", "--unshallow", "origin")
	return err
}

// Fetch runs `git fetch origin`. Unshallowing is a separate call
// (Unshallow).
func (g *Git) Fetch(ctx context.Context) error {
	_, err := g.run(ctx, "fetch", "origin")
	return err
}

// FetchRef fetches a specific ref (branch/tag/SHA) from origin without
// updating any local branch, leaving it at FETCH_HEAD — used for the
// shallow-clone revision-switch path in the update engine.
func (g *Git) FetchRef(ctx context.Context, ref string) error {
	_, err := g.run(ctx, "fetch", "origin", ref)
	return err
}

// Checkout checks out revision (branch, tag, or SHA).
func (g *Git) Checkout(ctx context.Context, revision string, force bool) error {
	args := []string{"checkout"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, revision)
	_, err := g.run(ctx, args...)
	return err
}

// CheckoutPaths restores specific paths from revision (or the index when
// revision is empty), leaving the current branch unchanged.
func (g *Git) CheckoutPaths(ctx context.Context, revision string, paths []string) error {
	args := []string{"checkout"}
	if revision != "" {
		args = append(args, revision)
	}
	args = append(args, "--")
	args = append(args, paths...)
	_, err := g.run(ctx, args...)
	return err
}

// CheckoutBranch creates a local branch at ref (HEAD when ref is empty)
// with `git checkout -b` and switches to it; it fails if branch already
// exists.
func (g *Git) CheckoutBranch(ctx context.Context, branch, ref string) error {
	args := []string{"checkout", "-b", branch}
	if ref != "" {
		args = append(args, ref)
	}
	_, err := g.run(ctx, args...)
	return err
}

// Merge merges ref into HEAD.
func (g *Git) Merge(ctx context.Context, ref string) error {
	_, err := g.run(ctx, "merge", ref)
	return err
}

// Rebase rebases HEAD onto its upstream.
func (g *Git) Rebase(ctx context.Context) error {
	_, err := g.run(ctx, "rebase")
	return err
}

// Pull runs `git pull`.
func (g *Git) Pull(ctx context.Context) error {
	_, err := g.run(ctx, "pull")
	return err
}

// Add stages paths (or everything, with all).
func (g *Git) Add(ctx context.Context, paths []string, force, all bool) error {
	args := []string{"add"}
	if force {
		args = append(args, "--force")
	}
	if all || len(paths) == 0 {
		args = append(args, "--all")
	} else {
		args = append(args, paths...)
	}
	_, err := g.run(ctx, args...)
	return err
}

// Rm removes paths from the index and optionally the working tree.
func (g *Git) Rm(ctx context.Context, paths []string, cached, force, recursive bool) error {
	args := []string{"rm"}
	if cached {
		args = append(args, "--cached")
	}
	if force {
		args = append(args, "--force")
	}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, paths...)
	_, err := g.run(ctx, args...)
	return err
}

// Reset unstages paths, leaving the working tree untouched.
func (g *Git) Reset(ctx context.Context, paths []string) error {
	args := []string{"reset"}
	args = append(args, paths...)
	_, err := g.run(ctx, args...)
	return err
}

// Commit commits staged (or all tracked, with all) changes.
func (g *Git) Commit(ctx context.Context, msg string, paths []string, all bool) error {
	if err := gitcmd.SanitizeCommitMessage(msg); err != nil {
		return err
	}
	args := []string{"commit", "-m", msg}
	if all {
		args = append(args, "--all")
	}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	_, err := g.run(ctx, args...)
	return err
}

// Tag creates a tag, optionally annotated (msg != "") and optionally
// overwriting an existing one of the same name (force).
func (g *Git) Tag(ctx context.Context, name, msg string, force bool) error {
	if !force {
		if exists, _ := g.tagExists(ctx, name); exists {
			return gwerrors.Wrap(fmt.Errorf("tag %q already exists", name), gwerrors.ErrGitTagExists)
		}
	}
	args := []string{"tag"}
	if msg != "" {
		args = append(args, "-a", "-m", msg)
	}
	if force {
		args = append(args, "--force")
	}
	args = append(args, name)
	_, err := g.run(ctx, args...)
	return err
}

func (g *Git) tagExists(ctx context.Context, name string) (bool, error) {
	tags, err := g.GetTags(ctx, name)
	if err != nil {
		return false, err
	}
	for _, t := range tags {
		if t == name {
			return true, nil
		}
	}
	return false, nil
}

// SubmoduleUpdate runs `git submodule update --init --recursive`.
func (g *Git) SubmoduleUpdate(ctx context.Context) error {
	_, err := g.run(ctx, "submodule", "update", "--init", "--recursive")
	return err
}

// IsCloned reports whether g.Path() already holds a git working copy.
func (g *Git) IsCloned(ctx context.Context) bool {
	return g.exec.IsGitRepository(ctx, g.path)
}

// GetSHA resolves revision (or HEAD, when empty) to its full SHA.
func (g *Git) GetSHA(ctx context.Context, revision string) (string, error) {
	if revision == "" {
		revision = "HEAD"
	}
	return g.output(ctx, "rev-parse", revision)
}

// GetBranch returns the current branch name, or "" when HEAD is detached.
func (g *Git) GetBranch(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return out, nil
}

// GetTag returns a tag name that resolves to HEAD exactly, or "" if none.
func (g *Git) GetTag(ctx context.Context) (string, error) {
	res, err := g.run(ctx, "describe", "--tags", "--exact-match")
	if err != nil {
		if pf, ok := err.(*gwerrors.ProcessFailedError); ok && pf.ExitCode != 0 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// GetTags lists tags matching pattern (all tags, when pattern is empty).
func (g *Git) GetTags(ctx context.Context, pattern string) ([]string, error) {
	args := []string{"tag", "--list"}
	if pattern != "" {
		args = append(args, pattern)
	}
	res, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitNonEmpty(res.Stdout), nil
}

// GetURL returns the URL of remote origin, or "" if origin doesn't exist.
func (g *Git) GetURL(ctx context.Context) (string, error) {
	res, err := g.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		if pf, ok := err.(*gwerrors.ProcessFailedError); ok && pf.ExitCode != 0 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// GetUpstreamBranch returns the current branch's upstream ref (e.g.
// "origin/main"), or "" if the branch has no upstream.
func (g *Git) GetUpstreamBranch(ctx context.Context) (string, error) {
	res, err := g.run(ctx, "rev-parse", "--abbrev-ref", "@{upstream}")
	if err != nil {
		if pf, ok := err.(*gwerrors.ProcessFailedError); ok && pf.ExitCode != 0 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// GetShallow reports whether the clone is a shallow clone.
func (g *Git) GetShallow(ctx context.Context) (bool, error) {
	_, err := os.Stat(filepath.Join(g.path, ".git", "shallow"))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// HasIndexChanges reports whether any staged change exists.
func (g *Git) HasIndexChanges(ctx context.Context) (bool, error) {
	entries, err := g.Status(ctx, nil, false)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		fs, ok := e.(FileStatus)
		if !ok {
			continue
		}
		if fs.Index != StateUnmodified && fs.Index != StateIgnored && fs.Index != StateUntracked {
			return true, nil
		}
	}
	return false, nil
}

// HasWorkChanges reports whether any unstaged working-tree change exists.
func (g *Git) HasWorkChanges(ctx context.Context) (bool, error) {
	entries, err := g.Status(ctx, nil, false)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		fs, ok := e.(FileStatus)
		if !ok {
			continue
		}
		if fs.Work != StateUnmodified && fs.Work != StateIgnored && fs.Work != StateUntracked {
			return true, nil
		}
	}
	return false, nil
}

// HasChanges reports whether either index or work-tree has changes.
func (g *Git) HasChanges(ctx context.Context) (bool, error) {
	index, err := g.HasIndexChanges(ctx)
	if err != nil {
		return false, err
	}
	if index {
		return true, nil
	}
	return g.HasWorkChanges(ctx)
}

// IsEmpty reports whether the clone has no uncommitted changes, no
// commits ahead of its upstream, and no stash entries (spec §4.3,
// invariant tested in §8.8).
func (g *Git) IsEmpty(ctx context.Context) (bool, error) {
	if hasChanges, err := g.HasChanges(ctx); err != nil || hasChanges {
		return false, err
	}
	if ahead, err := g.aheadOfUpstream(ctx); err != nil || ahead {
		return false, err
	}
	stashes, err := g.output(ctx, "stash", "list")
	if err != nil {
		return false, err
	}
	return stashes == "", nil
}

func (g *Git) aheadOfUpstream(ctx context.Context) (bool, error) {
	upstream, err := g.GetUpstreamBranch(ctx)
	if err != nil {
		return false, err
	}
	if upstream == "" {
		return false, nil
	}
	out, err := g.output(ctx, "rev-list", "--left-right", "--count", "HEAD..."+upstream)
	if err != nil {
		return false, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return false, nil
	}
	return fields[0] != "0", nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		if info.Mode()&os.ModeSymlink != 0 {
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
