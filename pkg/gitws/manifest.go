// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gizzahub/git-ws/pkg/depiter"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

// manifestLoader adapts the Orchestrator's codec registry to
// depiter.ManifestLoader: paths arriving from depiter are "/"-joined and
// relative to the workspace root, never an OS-native absolute path.
type manifestLoader struct {
	root   string
	codecs interface {
		Load(path string) (*manifest.ManifestSpec, error)
	}
}

func (l manifestLoader) Load(relPath string) (*manifest.ManifestSpec, error) {
	abs := filepath.Join(l.root, filepath.FromSlash(relPath))
	return l.codecs.Load(abs)
}

func joinSlash(elems ...string) string {
	var parts []string
	for _, e := range elems {
		if e == "" {
			continue
		}
		parts = append(parts, e)
	}
	return strings.Join(parts, "/")
}

// rootManifestPath is the workspace-root-relative, "/"-joined path to the
// manifest depiter should load as level 0's own manifest: the main
// project's directory (or the workspace root, with no main) joined with
// the configured manifest filename.
func (o *Orchestrator) rootManifestPath() string {
	return joinSlash(o.WS.Info.MainPath, o.WS.Config.ManifestPath)
}

// iterOptions builds depiter.Options for a traversal, applying the
// workspace's persisted group-filters plus any extra clauses the caller
// supplies (CLI -G flags). With resolveURL, callers pass an originResolver
// so relative dependency URLs resolve against each visited clone's origin.
func (o *Orchestrator) iterOptions(extraGroupFilters []string, resolveURL bool) depiter.Options {
	opts := depiter.Options{
		ManifestPath: o.rootManifestPath(),
		GroupFilters: append(append([]string{}, o.WS.Config.GroupFilters...), extraGroupFilters...),
		ResolveURL:   resolveURL,
	}
	if main, err := o.MainProject(); err == nil {
		opts.Main = &main
	}
	return opts
}

// Levels returns the full BFS-leveled project graph (level 0 = main, if
// any), applying extraGroupFilters on top of the workspace's own.
func (o *Orchestrator) Levels(extraGroupFilters []string, resolveURL bool) ([][]manifest.Project, error) {
	loader := manifestLoader{root: o.WS.Root, codecs: o.codecs}
	var resolver depiter.OriginURLResolver
	if resolveURL {
		resolver = originResolver{root: o.WS.Root}
	}
	return depiter.Levels(loader, resolver, o.iterOptions(extraGroupFilters, resolveURL))
}

// Projects flattens Levels in BFS order.
func (o *Orchestrator) Projects(extraGroupFilters []string, resolveURL bool) ([]manifest.Project, error) {
	loader := manifestLoader{root: o.WS.Root, codecs: o.codecs}
	var resolver depiter.OriginURLResolver
	if resolveURL {
		resolver = originResolver{root: o.WS.Root}
	}
	return depiter.Projects(loader, resolver, o.iterOptions(extraGroupFilters, resolveURL))
}

// DependencyGraph is the read-only nodes+edges+levels view of the
// manifest graph that tree/DOT renderers consume. It never shells out to
// git or touches disk beyond what Levels already does.
type DependencyGraph struct {
	Levels [][]manifest.Project
	Edges  []depiter.Edge
}

// DependencyGraph resolves the full manifest graph and its edges, for the
// tree/DOT export commands.
func (o *Orchestrator) DependencyGraph(extraGroupFilters []string, resolveURL bool) (DependencyGraph, error) {
	loader := manifestLoader{root: o.WS.Root, codecs: o.codecs}
	var resolver depiter.OriginURLResolver
	if resolveURL {
		resolver = originResolver{root: o.WS.Root}
	}
	opts := o.iterOptions(extraGroupFilters, resolveURL)
	var edges []depiter.Edge
	opts.Edges = &edges

	levels, err := depiter.Levels(loader, resolver, opts)
	if err != nil {
		return DependencyGraph{}, err
	}
	return DependencyGraph{Levels: levels, Edges: edges}, nil
}

// GetManifestSpec loads and returns the unresolved root manifest, applying
// the manifest-finder tag redirect unless raw is set.
func (o *Orchestrator) GetManifestSpec(ctx context.Context, raw bool) (*manifest.ManifestSpec, error) {
	path := o.WS.ManifestPath()
	if !raw {
		path = o.ManifestPath(ctx)
	}
	return o.codecs.Load(path)
}

// SaveManifestSpec writes spec back to the live manifest path (never to a
// frozen snapshot — freezing is Tag's job).
func (o *Orchestrator) SaveManifestSpec(spec *manifest.ManifestSpec, update bool) error {
	return o.codecs.Save(spec, o.WS.ManifestPath(), update)
}
