// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package clone pairs a resolved manifest.Project with its gitvcs.Git
// handle (spec §4.7 "Clone pairing"), and provides the path-to-clone
// lookup and consistency checks (diverged revision, mismatched origin)
// the orchestrator needs before mutating a clone.
package clone

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/manifest"
	"github.com/gizzahub/git-ws/pkg/gitvcs"
)

// Clone is a resolved Project paired with the git adapter bound to its
// on-disk location.
type Clone struct {
	Project manifest.Project
	Git     *gitvcs.Git
}

// New builds a Clone for project, rooted at workspaceRoot/project.Path.
func New(workspaceRoot string, project manifest.Project, opts ...gitvcs.Option) *Clone {
	return &Clone{
		Project: project,
		Git:     gitvcs.New(filepath.Join(workspaceRoot, project.Path), opts...),
	}
}

// Map indexes clones by workspace-relative project path.
type Map map[string]*Clone

// NewMap builds a Map for projects, in iterator order.
func NewMap(workspaceRoot string, projects []manifest.Project, opts ...gitvcs.Option) Map {
	m := make(Map, len(projects))
	for _, p := range projects {
		m[p.Path] = New(workspaceRoot, p, opts...)
	}
	return m
}

// ForPath resolves an absolute or workspace-relative file path argument
// (as given on a CLI command line) to the Clone that owns it, and the
// path relative to that clone's root. It picks the most specific (deepest)
// matching project path, mirroring how git itself resolves paths against
// nested repositories.
func (m Map) ForPath(workspaceRoot, path string) (*Clone, string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workspaceRoot, path)
	}
	var best *Clone
	var bestRel string
	for _, c := range m {
		base := filepath.Join(workspaceRoot, c.Project.Path)
		rel, err := filepath.Rel(base, abs)
		if err != nil || rel == ".." || hasDotDotPrefix(rel) {
			continue
		}
		if best == nil || len(c.Project.Path) > len(best.Project.Path) {
			best = c
			bestRel = rel
		}
	}
	if best == nil {
		return nil, "", fmt.Errorf("path %q does not belong to any known clone", path)
	}
	if bestRel == "." {
		bestRel = ""
	}
	return best, bestRel, nil
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.' &&
		(len(rel) == 2 || rel[2] == filepath.Separator)
}

// CheckConsistency verifies the clone's actual on-disk state against its
// resolved Project: the checked-out revision must not have diverged from
// project.Revision (when one is declared and the clone isn't on a
// branch), and the origin remote URL must match project.URL when present.
func (c *Clone) CheckConsistency(ctx context.Context) error {
	if !c.Git.IsCloned(ctx) {
		return &gwerrors.GitCloneMissingError{Path: c.Project.Path}
	}

	if url, err := c.Git.GetURL(ctx); err == nil && url != "" && c.Project.URL != "" && url != c.Project.URL {
		return &gwerrors.GitCloneNotCleanError{Path: c.Project.Path}
	}

	if c.Project.Revision == "" {
		return nil
	}
	branch, err := c.Git.GetBranch(ctx)
	if err != nil {
		return err
	}
	if branch != "" {
		// On a branch: revision divergence is resolved by the update
		// engine's fetch+merge/rebase, not flagged as inconsistent here.
		return nil
	}
	sha, err := c.Git.GetSHA(ctx, "")
	if err != nil {
		return err
	}
	wantSHA, err := c.Git.GetSHA(ctx, c.Project.Revision)
	if err != nil {
		// The declared revision isn't resolvable locally yet (not
		// fetched); that's the update engine's job to fix, not a
		// consistency violation.
		return nil
	}
	if sha != wantSHA {
		return &gwerrors.GitCloneNotCleanError{Path: c.Project.Path}
	}
	return nil
}
