// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package manifestfinder implements spec §4.7's manifest-finder: when the
// main clone's HEAD is detached exactly on a tag T and a frozen manifest
// exists at "<main>/.git-ws/manifests/T.toml", reads are routed there
// instead of the live manifest_path. It fires only on a detached HEAD,
// never when a branch happens to point at the same commit as the tag
// (spec §9, deliberately, to avoid surprising a user on a branch).
package manifestfinder

import (
	"context"
	"path/filepath"

	"github.com/gizzahub/git-ws/pkg/gitvcs"
)

// FrozenDir is where tag() writes snapshots, relative to the main clone.
const FrozenDir = ".git-ws/manifests"

// FrozenPath returns the path of the frozen manifest for tag, relative
// to the main clone's root.
func FrozenPath(tag string) string {
	return filepath.Join(FrozenDir, tag+".toml")
}

// Resolve returns the manifest path the orchestrator should actually
// read for the main clone at mainPath: the live manifestPath, unless
// HEAD is detached exactly on a tag with a frozen manifest on disk, in
// which case that frozen manifest's path is returned.
func Resolve(ctx context.Context, mainPath, manifestPath string, fileExists func(string) bool) (string, error) {
	g := gitvcs.New(mainPath)

	branch, err := g.GetBranch(ctx)
	if err != nil {
		return manifestPath, nil
	}
	if branch != "" {
		return manifestPath, nil // On a branch: never redirect.
	}

	tag, err := g.GetTag(ctx)
	if err != nil || tag == "" {
		return manifestPath, nil
	}

	frozen := filepath.Join(mainPath, FrozenPath(tag))
	if fileExists(frozen) {
		return frozen, nil
	}
	return manifestPath, nil
}
