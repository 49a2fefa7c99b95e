// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"fmt"

	"github.com/gizzahub/git-ws/pkg/clone"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

// SyncDependencyURLs implements the "dep update-url" scenario of spec §8:
// for every direct dependency declared in the live manifest, read its
// clone's current origin remote and, if it has moved, rewrite that
// dependency's URL in place (clearing any remote/sub-url shorthand, since
// an explicit URL now takes precedence per manifest.Resolve). It edits
// only the root manifest's direct [[dependencies]] entries — nested
// dependencies live in their own manifest files and are each that
// project's own concern.
func (o *Orchestrator) SyncDependencyURLs(ctx context.Context) ([]string, error) {
	spec, err := o.GetManifestSpec(ctx, true)
	if err != nil {
		return nil, err
	}

	var changed []string
	for i := range spec.Dependencies {
		dep := &spec.Dependencies[i]
		path := dep.Path
		if path == "" {
			path = dep.Name
		}
		g := clone.New(o.WS.Root, manifest.Project{Path: path}).Git
		if !g.IsCloned(ctx) {
			continue
		}
		url, err := g.GetURL(ctx)
		if err != nil {
			return changed, fmt.Errorf("reading origin for %s: %w", path, err)
		}
		if url == "" || url == dep.URL {
			continue
		}
		dep.URL = url
		dep.Remote = ""
		dep.SubURL = ""
		changed = append(changed, path)
	}

	if len(changed) == 0 {
		return changed, nil
	}
	return changed, o.SaveManifestSpec(spec, true)
}
