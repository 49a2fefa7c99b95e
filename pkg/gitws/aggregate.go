// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"fmt"

	"github.com/gizzahub/git-ws/pkg/clone"
	"github.com/gizzahub/git-ws/pkg/gitvcs"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

// CloneResult pairs one clone's outcome with its project, for the
// aggregated per-clone operations below.
type CloneResult struct {
	Project manifest.Project
	Err     error
}

// clones resolves the current project graph into a path-indexed clone.Map,
// applying extraGroupFilters and optionally skipping main (e.g. for
// mutating operations that only make sense on dependencies).
func (o *Orchestrator) clones(extraGroupFilters []string, skipMain bool) (clone.Map, []manifest.Project, error) {
	projects, err := o.Projects(extraGroupFilters, false)
	if err != nil {
		return nil, nil, err
	}
	if skipMain {
		filtered := projects[:0:0]
		for _, p := range projects {
			if !p.IsMain {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}
	return o.cloneMap(projects), projects, nil
}

// StatusEntry is one clone's status, or the error encountered reading it.
type StatusEntry struct {
	Project manifest.Project
	Entries []gitvcs.StatusEntry
	Err     error
}

// Status runs `git status` across every clone the current filters select.
func (o *Orchestrator) Status(ctx context.Context, groupFilters []string) ([]StatusEntry, error) {
	clones, projects, err := o.clones(groupFilters, false)
	if err != nil {
		return nil, err
	}
	out := make([]StatusEntry, 0, len(projects))
	for _, p := range projects {
		c := clones[p.Path]
		entries, serr := c.Git.Status(ctx, nil, true)
		out = append(out, StatusEntry{Project: p, Entries: entries, Err: serr})
	}
	return out, nil
}

// Diff runs a diffstat across every clone the current filters select.
func (o *Orchestrator) Diff(ctx context.Context, groupFilters []string) (map[string][]gitvcs.DiffStat, error) {
	clones, projects, err := o.clones(groupFilters, false)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]gitvcs.DiffStat, len(projects))
	for _, p := range projects {
		c := clones[p.Path]
		stats, derr := c.Git.Diffstat(ctx, nil)
		if derr != nil {
			return out, fmt.Errorf("%s: %w", p.Path, derr)
		}
		out[p.Path] = stats
	}
	return out, nil
}

// Checkout checks out revision (or each project's own declared revision,
// when revision is empty) across every selected clone.
func (o *Orchestrator) Checkout(ctx context.Context, groupFilters []string, revision string, force bool) []CloneResult {
	clones, projects, err := o.clones(groupFilters, false)
	if err != nil {
		return []CloneResult{{Err: err}}
	}
	var results []CloneResult
	for _, p := range projects {
		c := clones[p.Path]
		rev := revision
		if rev == "" {
			rev = p.Revision
		}
		if rev == "" {
			continue
		}
		results = append(results, CloneResult{Project: p, Err: c.Git.Checkout(ctx, rev, force)})
	}
	return results
}

// Add stages each workspace path in the clone that owns it (or, with all
// set and no paths given, in every selected clone).
func (o *Orchestrator) Add(ctx context.Context, paths []string, force, all bool) error {
	return o.forEachPathGroup(paths, all, func(c *clone.Clone, relPaths []string) error {
		return c.Git.Add(ctx, relPaths, force, all)
	})
}

// Rm removes each workspace path from the index (and optionally the
// working tree) of the clone that owns it.
func (o *Orchestrator) Rm(ctx context.Context, paths []string, cached, force, recursive bool) error {
	return o.forEachPathGroup(paths, false, func(c *clone.Clone, relPaths []string) error {
		return c.Git.Rm(ctx, relPaths, cached, force, recursive)
	})
}

// Reset unstages paths within their owning clone.
func (o *Orchestrator) Reset(ctx context.Context, paths []string) error {
	return o.forEachPathGroup(paths, false, func(c *clone.Clone, relPaths []string) error {
		return c.Git.Reset(ctx, relPaths)
	})
}

// Commit commits staged changes (or every tracked change, with all) in the
// clone owning path.
func (o *Orchestrator) Commit(ctx context.Context, path, msg string, all bool) error {
	clones, _, err := o.clones(nil, false)
	if err != nil {
		return err
	}
	c, rel, err := clones.ForPath(o.WS.Root, path)
	if err != nil {
		return err
	}
	var paths []string
	if rel != "" {
		paths = []string{rel}
	}
	return c.Git.Commit(ctx, msg, paths, all)
}

// forEachPathGroup resolves every path argument to its owning clone,
// groups them, and invokes fn once per clone with the clone-relative
// paths. With all set and no explicit paths, every selected clone is
// visited once with an empty path list (meaning "everything").
func (o *Orchestrator) forEachPathGroup(paths []string, all bool, fn func(c *clone.Clone, relPaths []string) error) error {
	clones, projects, err := o.clones(nil, false)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		if !all {
			return nil
		}
		for _, p := range projects {
			if err := fn(clones[p.Path], nil); err != nil {
				return fmt.Errorf("%s: %w", p.Path, err)
			}
		}
		return nil
	}

	byClone := map[string][]string{}
	order := make([]string, 0, len(paths))
	for _, p := range paths {
		c, rel, err := clones.ForPath(o.WS.Root, p)
		if err != nil {
			return err
		}
		if _, seen := byClone[c.Project.Path]; !seen {
			order = append(order, c.Project.Path)
		}
		byClone[c.Project.Path] = append(byClone[c.Project.Path], rel)
	}
	for _, path := range order {
		if err := fn(clones[path], byClone[path]); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Foreach runs fn against every selected clone in iterator order,
// collecting per-clone errors rather than aborting at the first failure.
func (o *Orchestrator) Foreach(ctx context.Context, groupFilters []string, fn func(ctx context.Context, c *clone.Clone) error) []CloneResult {
	clones, projects, err := o.clones(groupFilters, false)
	if err != nil {
		return []CloneResult{{Err: err}}
	}
	results := make([]CloneResult, 0, len(projects))
	for _, p := range projects {
		results = append(results, CloneResult{Project: p, Err: fn(ctx, clones[p.Path])})
	}
	return results
}
