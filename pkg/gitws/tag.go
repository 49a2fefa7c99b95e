// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/gitvcs"
	"github.com/gizzahub/git-ws/pkg/manifest"
	"github.com/gizzahub/git-ws/pkg/manifestfinder"
)

// TagOptions configures Tag.
type TagOptions struct {
	Name    string
	Message string
	Force   bool
}

// Tag implements spec §4.7's freeze-and-tag: resolve every dependency to
// its exact current SHA, write that as a frozen manifest snapshot under
// the main clone's metadata directory, commit the snapshot, and create an
// annotated tag on the resulting commit — so a later checkout of the tag,
// routed through pkg/manifestfinder, reproduces this exact project graph.
func (o *Orchestrator) Tag(ctx context.Context, opts TagOptions) error {
	mainAbs := o.WS.MainAbsPath()
	if mainAbs == "" {
		return gwerrors.ErrNoMain
	}
	mainGit := gitvcs.New(mainAbs)

	frozen, err := o.freezeManifest(ctx)
	if err != nil {
		return err
	}

	relPath := manifestfinder.FrozenPath(opts.Name)
	absPath := filepath.Join(mainAbs, relPath)
	if err := o.codecs.Save(frozen, absPath, false); err != nil {
		return err
	}

	if err := mainGit.Add(ctx, []string{relPath}, false, false); err != nil {
		return err
	}
	msg := opts.Message
	if msg == "" {
		msg = fmt.Sprintf("git-ws: freeze manifest for %s", opts.Name)
	}
	if changed, err := mainGit.HasIndexChanges(ctx); err == nil && changed {
		if err := mainGit.Commit(ctx, msg, []string{relPath}, false); err != nil {
			return err
		}
	}

	return mainGit.Tag(ctx, opts.Name, msg, opts.Force)
}

// freezeManifest resolves the current project graph (with absolute URLs)
// and pins every dependency's revision to its clone's current SHA.
func (o *Orchestrator) freezeManifest(ctx context.Context) (*manifest.ManifestSpec, error) {
	projects, err := o.Projects(nil, true)
	if err != nil {
		return nil, err
	}

	spec := &manifest.ManifestSpec{Version: "1.0"}
	for _, p := range projects {
		if p.IsMain {
			continue
		}
		c := o.cloneMap([]manifest.Project{p})[p.Path]
		sha, err := c.Git.GetSHA(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("resolving SHA for %s: %w", p.Path, err)
		}
		spec.Dependencies = append(spec.Dependencies, manifest.ProjectSpec{
			Name:       p.Name,
			URL:        p.URL,
			Revision:   sha,
			Path:       p.Path,
			Groups:     p.Groups,
			WithGroups: p.WithGroups,
			Submodules: boolPtr(p.Submodules),
			LinkFiles:  p.LinkFiles,
			CopyFiles:  p.CopyFiles,
			Recursive:  p.Recursive,
		})
	}
	return spec, nil
}

func boolPtr(b bool) *bool { return &b }
