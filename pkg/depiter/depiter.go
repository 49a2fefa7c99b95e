// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package depiter implements the breadth-first, path-deduplicating
// traversal of a manifest graph described in spec §4.5: ManifestIter,
// ProjectIter and ProjectLevelIter.
//
// The traversal never touches disk or git directly; it is driven through
// two small injected interfaces (ManifestLoader, OriginURLResolver) so it
// can be unit tested with fakes and reused by both the orchestrator and
// the read-only dependency-graph view the CLI's tree/dot exporters consume.
package depiter

import (
	"fmt"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/groupfilter"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

// ManifestLoader loads the ManifestSpec declared at path. Implementations
// must return an error satisfying gwerrors.Is(err, &gwerrors.ManifestNotFoundError{})
// when no manifest exists there; depiter treats that as "this project has no dependencies"
// rather than a fatal condition.
type ManifestLoader interface {
	Load(path string) (*manifest.ManifestSpec, error)
}

// OriginURLResolver resolves the origin remote URL of the clone at
// projectPath, used as refurl when descending into that clone's own
// manifest with ResolveURL requested.
type OriginURLResolver interface {
	OriginURL(projectPath string) (string, error)
}

// ProjectPather maps a resolved manifest.Project to its on-disk path
// relative to the workspace root (normally just Project.Path, but kept
// pluggable to mirror the workspace's own path resolution rules).
type ProjectPather func(p manifest.Project) string

// DefaultPather returns p.Path unchanged.
func DefaultPather(p manifest.Project) string { return p.Path }

// ProjectFilter is an additional predicate ANDed with the group filter at
// every level (used by callers that restrict iteration to a caller-given
// set of project paths).
type ProjectFilter func(manifest.Project) bool

// Options configures a traversal rooted at a main project's manifest.
type Options struct {
	// ManifestPath is the root manifest file path, read via Loader.
	ManifestPath string
	// GroupFilters are additional group-filter clauses from the caller
	// (e.g. CLI -G flags), combined with the manifest's own group-filters.
	GroupFilters []string
	// Filter is ANDed against the group filter for every candidate project.
	Filter ProjectFilter
	// Main, when non-nil, is yielded first as level 0 (skipped entirely
	// when nil or when SkipMain is set). With ResolveURL, a non-empty
	// Main.URL is the reference URL for the root manifest's dependencies;
	// when it is empty, Resolver is asked for the main clone's origin.
	Main *manifest.Project
	// SkipMain suppresses yielding Main even when it is set.
	SkipMain bool
	// ResolveURL requests that every dependency URL be resolved to an
	// absolute URL, using Resolver to look up each visited clone's origin.
	ResolveURL bool
	// Pather overrides how a Project maps to a workspace-relative path
	// for done-set deduplication; defaults to Project.Path.
	Pather ProjectPather
	// Edges, when non-nil, receives one Edge per accepted dependency,
	// letting a caller reconstruct the tree structure Levels otherwise
	// discards (the read-only graph view the CLI's tree/dot exporters
	// render from).
	Edges *[]Edge
}

// Edge is one parent-to-child link in the dependency graph, keyed by
// workspace-relative path ("" for the synthetic root above a mainless
// manifest).
type Edge struct {
	Parent string
	Child  string
}

func (o Options) pather() ProjectPather {
	if o.Pather != nil {
		return o.Pather
	}
	return DefaultPather
}

// Levels runs the full breadth-first traversal and returns one batch of
// projects per BFS level (level 0 = main, if present; level 1 = direct
// dependencies; …), matching ProjectLevelIter.
func Levels(loader ManifestLoader, resolver OriginURLResolver, opts Options) ([][]manifest.Project, error) {
	pather := opts.pather()
	projectFilter := opts.Filter
	if projectFilter == nil {
		projectFilter = func(manifest.Project) bool { return true }
	}

	var levels [][]manifest.Project
	done := map[string]bool{}

	if opts.Main != nil {
		done[pather(*opts.Main)] = true
		if !opts.SkipMain && projectFilter(*opts.Main) {
			levels = append(levels, []manifest.Project{*opts.Main})
		}
	}

	rootSpec, err := loader.Load(opts.ManifestPath)
	if err != nil {
		if isManifestNotFound(err) {
			return levels, nil
		}
		return nil, err
	}
	if len(rootSpec.Dependencies) == 0 {
		return levels, nil
	}

	rootFilterSelects, err := groupfilter.Parse(append(append([]string{}, rootSpec.GroupFilters...), opts.GroupFilters...))
	if err != nil {
		return nil, err
	}

	type pendingManifest struct {
		projectPath string
		spec        *manifest.ManifestSpec
		filter      groupfilter.Func
		refURL      string
	}

	var mainPath, mainURL string
	if opts.Main != nil {
		mainPath = pather(*opts.Main)
		mainURL = opts.Main.URL
	}

	pending := []pendingManifest{{
		projectPath: mainPath,
		refURL:      mainURL,
		spec:        rootSpec,
		filter:      groupfilter.New(rootFilterSelects, true),
	}}

	for len(pending) > 0 {
		var levelProjects []manifest.Project
		var next []pendingManifest

		for _, pm := range pending {
			refURL := pm.refURL
			if opts.ResolveURL && refURL == "" && pm.projectPath != "" && len(pm.spec.Dependencies) > 0 {
				if resolver == nil {
					return nil, &gwerrors.GitCloneMissingError{Path: pm.projectPath}
				}
				url, err := resolver.OriginURL(pm.projectPath)
				if err != nil {
					return nil, err
				}
				if url == "" {
					return nil, gwerrors.Wrap(fmt.Errorf("project %q has no origin remote", pm.projectPath), gwerrors.ErrGitCloneMissingOrig)
				}
				refURL = url
			}

			for _, spec := range pm.spec.Dependencies {
				project, err := manifest.Resolve(pm.spec, spec, manifest.ResolveOptions{
					RefURL:     refURL,
					ResolveURL: opts.ResolveURL,
				})
				if err != nil {
					return nil, err
				}

				path := pather(project)
				if done[path] {
					continue
				}
				done[path] = true

				if !pm.filter(path, project.Groups) || !projectFilter(project) {
					continue
				}
				levelProjects = append(levelProjects, project)
				if opts.Edges != nil {
					*opts.Edges = append(*opts.Edges, Edge{Parent: pm.projectPath, Child: path})
				}
			}
		}

		if len(levelProjects) > 0 {
			levels = append(levels, levelProjects)
		}

		for _, project := range levelProjects {
			if !project.Recursive {
				continue
			}
			depManifestPath := depManifestPath(pather(project), project.ManifestPath)
			depSpec, err := loader.Load(depManifestPath)
			if err != nil {
				if isManifestNotFound(err) {
					continue
				}
				return nil, err
			}
			if len(depSpec.Dependencies) == 0 {
				continue
			}
			selects := groupfilter.FromGroups(project.WithGroups)
			next = append(next, pendingManifest{
				projectPath: pather(project),
				spec:        depSpec,
				filter:      groupfilter.New(selects, false),
			})
		}

		pending = next
	}

	return levels, nil
}

// Projects flattens Levels into a single ordered slice (BFS order).
func Projects(loader ManifestLoader, resolver OriginURLResolver, opts Options) ([]manifest.Project, error) {
	levels, err := Levels(loader, resolver, opts)
	if err != nil {
		return nil, err
	}
	var out []manifest.Project
	for i, level := range levels {
		for _, p := range level {
			p.Level = i
			out = append(out, p)
		}
	}
	return out, nil
}

func depManifestPath(projectPath, manifestPath string) string {
	if manifestPath == "" {
		manifestPath = manifest.DefaultManifestPath
	}
	return joinPath(projectPath, manifestPath)
}

func joinPath(elems ...string) string {
	out := ""
	for _, e := range elems {
		if e == "" {
			continue
		}
		if out == "" {
			out = e
			continue
		}
		out += "/" + e
	}
	return out
}

func isManifestNotFound(err error) bool {
	return gwerrors.Is(err, &gwerrors.ManifestNotFoundError{})
}
