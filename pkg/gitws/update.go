// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"fmt"

	"github.com/gizzahub/git-ws/internal/secho"
	"github.com/gizzahub/git-ws/pkg/clone"
	"github.com/gizzahub/git-ws/pkg/filerefs"
	"github.com/gizzahub/git-ws/pkg/gitvcs"
	"github.com/gizzahub/git-ws/pkg/manifest"
	"github.com/gizzahub/git-ws/pkg/workspace"
)

// UpdateOptions configures Update.
type UpdateOptions struct {
	GroupFilters []string
	Rebase       bool // rebase the local branch onto its upstream instead of merging
	Force        bool // overwrite local changes/modified file references
	Prune        bool // remove on-disk entries no longer declared anywhere
	SkipMain     bool
}

// UpdateReport summarizes one Update run for the caller to render.
type UpdateReport struct {
	Cloned      []string
	Fetched     []string
	FileRefs    []string
	Pruned      []string
	Conflicts   []error
}

// Update implements spec §4.7's update(): a fixpoint discovery loop that
// clones newly-declared dependencies (so their own manifests become
// readable and can declare further dependencies), brings every clone's
// working tree to its declared revision (fetch, checkout, merge/rebase),
// runs submodule update where requested, reconciles file references, and
// optionally prunes workspace entries nothing declares any more.
func (o *Orchestrator) Update(ctx context.Context, opts UpdateOptions) (*UpdateReport, error) {
	report := &UpdateReport{}

	projects, cloned, err := o.materialize(ctx, opts, report)
	if err != nil {
		return report, err
	}

	clones := o.cloneMap(projects)
	for _, p := range projects {
		if p.IsMain {
			continue
		}
		c := clones[p.Path]
		if err := o.syncClone(ctx, c, cloned[p.Path], opts); err != nil {
			report.Conflicts = append(report.Conflicts, fmt.Errorf("%s: %w", p.Path, err))
		}
	}

	if err := o.reconcileFileRefs(projects, opts.Force, report); err != nil {
		report.Conflicts = append(report.Conflicts, err)
	}

	if opts.Prune {
		o.pruneWorkspace(projects, report)
	}

	if len(report.Conflicts) > 0 {
		return report, fmt.Errorf("update completed with %d error(s)", len(report.Conflicts))
	}
	return report, nil
}

// materialize runs the discovery/clone fixpoint: depiter can only read a
// dependency's own manifest once that dependency's clone exists on disk,
// so the full project graph is discovered incrementally, cloning each
// newly-visible project before the next depiter pass can see deeper.
func (o *Orchestrator) materialize(ctx context.Context, opts UpdateOptions, report *UpdateReport) ([]manifest.Project, map[string]bool, error) {
	cloned := map[string]bool{}
	var projects []manifest.Project

	const maxPasses = 64
	prevCount := -1
	for pass := 0; pass < maxPasses; pass++ {
		var err error
		projects, err = o.Projects(opts.GroupFilters, true)
		if err != nil {
			return nil, nil, err
		}
		if len(projects) == prevCount {
			break
		}
		prevCount = len(projects)

		for _, p := range projects {
			if p.IsMain {
				continue
			}
			c := clone.New(o.WS.Root, p)
			if c.Git.IsCloned(ctx) {
				continue
			}
			if p.URL == "" {
				continue // relative URL couldn't be resolved yet; next pass may fix it.
			}
			if err := c.Git.Clone(ctx, p.URL, toCloneOptions(o.WS.Config, p)); err != nil {
				return nil, nil, fmt.Errorf("cloning %s: %w", p.Path, err)
			}
			o.log(secho.LevelInfo, "cloned %s from %s", p.Path, p.URL)
			report.Cloned = append(report.Cloned, p.Path)
			cloned[p.Path] = true
		}
	}

	return projects, cloned, nil
}

func toCloneOptions(cfg workspace.Config, p manifest.Project) gitvcs.CloneOptions {
	return gitvcs.CloneOptions{
		Revision: p.Revision,
		Depth:    cfg.Depth,
		CacheDir: cfg.CloneCache,
	}
}

// syncClone brings an already-cloned project to its declared revision. A
// freshly cloned project is skipped (Clone already left it at Revision).
func (o *Orchestrator) syncClone(ctx context.Context, c *clone.Clone, freshlyCloned bool, opts UpdateOptions) error {
	if freshlyCloned {
		if c.Project.Submodules {
			return c.Git.SubmoduleUpdate(ctx)
		}
		return nil
	}

	branch, err := c.Git.GetBranch(ctx)
	if err != nil {
		return err
	}

	// Not on a branch and already sitting on the requested tag/SHA: the
	// clone can't possibly be behind, so skip the fetch entirely.
	if branch == "" && c.Project.Revision != "" {
		tag, err := c.Git.GetTag(ctx)
		if err != nil {
			return err
		}
		sha, err := c.Git.GetSHA(ctx, "")
		if err != nil {
			return err
		}
		if c.Project.Revision == tag || c.Project.Revision == sha {
			if c.Project.Submodules {
				return c.Git.SubmoduleUpdate(ctx)
			}
			return nil
		}
	}

	shallow, err := c.Git.GetShallow(ctx)
	if err != nil {
		return err
	}

	if shallow {
		ref := c.Project.Revision
		if ref == "" {
			ref = "HEAD"
		}
		if err := c.Git.FetchRef(ctx, ref); err != nil {
			return err
		}
		sha, err := c.Git.GetSHA(ctx, "FETCH_HEAD")
		if err != nil {
			return err
		}
		if err := c.Git.Checkout(ctx, sha, opts.Force); err != nil {
			return err
		}
	} else {
		if err := c.Git.Fetch(ctx); err != nil {
			return err
		}
		o.log(secho.LevelVerbose, "fetched %s", c.Project.Path)

		if c.Project.Revision != "" {
			if cur, cerr := c.Git.GetSHA(ctx, ""); cerr == nil {
				if want, werr := c.Git.GetSHA(ctx, c.Project.Revision); werr == nil && cur != want {
					if err := c.Git.Checkout(ctx, c.Project.Revision, opts.Force); err != nil {
						return err
					}
				}
			}
		}

		branch, err = c.Git.GetBranch(ctx)
		if err != nil {
			return err
		}
		if branch != "" {
			if err := o.syncBranch(ctx, c, opts.Rebase); err != nil {
				return err
			}
		}
	}

	if c.Project.Submodules {
		if err := c.Git.SubmoduleUpdate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// syncBranch updates the clone's current branch against its upstream,
// merging by default or rebasing when requested.
func (o *Orchestrator) syncBranch(ctx context.Context, c *clone.Clone, rebase bool) error {
	upstream, err := c.Git.GetUpstreamBranch(ctx)
	if err != nil || upstream == "" {
		return err
	}
	if rebase {
		return c.Git.Rebase(ctx)
	}
	return c.Git.Merge(ctx, upstream)
}

func (o *Orchestrator) reconcileFileRefs(projects []manifest.Project, force bool, report *UpdateReport) error {
	declared, collectErrs := filerefs.Collect(projects)
	for _, e := range collectErrs {
		report.Conflicts = append(report.Conflicts, e)
	}

	mgr := filerefs.New(o.WS.Root, o.log)
	records, errs := mgr.Reconcile(declared, o.WS.Info.FileRefs, force)
	for _, e := range errs {
		report.Conflicts = append(report.Conflicts, e)
	}
	for _, r := range records {
		report.FileRefs = append(report.FileRefs, r.Dest)
	}

	o.WS.Info.FileRefs = records
	return o.WS.SaveInfo()
}

func (o *Orchestrator) pruneWorkspace(projects []manifest.Project, report *UpdateReport) {
	var paths, dests []string
	for _, p := range projects {
		paths = append(paths, p.Path)
	}
	for _, r := range o.WS.Info.FileRefs {
		dests = append(dests, r.Dest)
	}

	removed, err := filerefs.Prune(o.WS.Root, paths, dests, false, o.isEmptyClonePath, o.log)
	if err != nil {
		report.Conflicts = append(report.Conflicts, err)
		return
	}
	report.Pruned = removed
}

func (o *Orchestrator) isEmptyClonePath(path string) (bool, error) {
	rel, err := o.WS.RelPath(path)
	if err != nil {
		rel = path
	}
	g := clone.New(o.WS.Root, manifest.Project{Path: rel}).Git
	return g.IsEmpty(context.Background())
}
