// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package filerefs implements the workspace file-reference manager of
// spec §4.6: collecting declared copy/link references from every visited
// project, detecting destination conflicts, and reconciling them against
// the persisted workspace.Info.FileRefs list (remove obsolete, then
// add/refresh, honoring user modifications unless forced).
package filerefs

import (
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/internal/secho"
	"github.com/gizzahub/git-ws/pkg/manifest"
	"github.com/gizzahub/git-ws/pkg/workspace"
)

// Kind mirrors workspace.FileRefRecord.Type.
const (
	KindCopy = "copy"
	KindLink = "link"
)

// Ref is one declared file reference, resolved to workspace-relative and
// project-relative paths.
type Ref struct {
	Kind        string
	ProjectPath string
	Src         string // relative to the project's working tree
	Dest        string // relative to the workspace root
}

// Collect walks projects in iterator order and gathers every declared
// LinkFile/CopyFile into a deduplicated Ref list. A later project
// declaring a destination already claimed by an earlier one produces a
// *gwerrors.FileRefConflictError (returned alongside the still-usable,
// first-wins Ref list) rather than aborting the whole collection.
func Collect(projects []manifest.Project) ([]Ref, []error) {
	var refs []Ref
	var errs []error
	seen := map[string]Ref{}

	add := func(p manifest.Project, fr manifest.FileRef, kind string) {
		if existing, ok := seen[fr.Dest]; ok {
			if existing.ProjectPath != p.Path {
				errs = append(errs, &gwerrors.FileRefConflictError{
					Dest:            fr.Dest,
					ExistingProject: existing.ProjectPath,
					NewProject:      p.Path,
				})
			}
			return
		}
		ref := Ref{Kind: kind, ProjectPath: p.Path, Src: fr.Src, Dest: fr.Dest}
		seen[fr.Dest] = ref
		refs = append(refs, ref)
	}

	for _, p := range projects {
		for _, fr := range p.CopyFiles {
			add(p, fr, KindCopy)
		}
		for _, fr := range p.LinkFiles {
			add(p, fr, KindLink)
		}
	}
	return refs, errs
}

// Manager reconciles declared Refs against a workspace's persisted
// FileRefRecord list.
type Manager struct {
	root   string
	secho  secho.Func
}

// New returns a Manager rooted at workspace root, logging through log
// (secho.Nop is a safe default).
func New(root string, log secho.Func) *Manager {
	if log == nil {
		log = secho.Nop
	}
	return &Manager{root: root, secho: log}
}

// Reconcile implements spec §4.6's update(force): remove every persisted
// reference no longer declared, then create or refresh every declared
// one, returning the new persisted list to save back into Info.
func (m *Manager) Reconcile(declared []Ref, persisted []workspace.FileRefRecord, force bool) ([]workspace.FileRefRecord, []error) {
	var errs []error
	byDestDeclared := map[string]Ref{}
	for _, r := range declared {
		byDestDeclared[r.Dest] = r
	}
	byDestPersisted := map[string]workspace.FileRefRecord{}
	for _, r := range persisted {
		byDestPersisted[r.Dest] = r
	}

	kept := map[string]workspace.FileRefRecord{}

	// 1. Remove obsolete.
	for _, rec := range persisted {
		if _, stillDeclared := byDestDeclared[rec.Dest]; stillDeclared {
			continue
		}
		if err := m.checkUnmodified(rec, force); err != nil {
			errs = append(errs, err)
			kept[rec.Dest] = rec // preserve: removal refused.
			continue
		}
		if err := os.Remove(m.abs(rec.Dest)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			kept[rec.Dest] = rec
			continue
		}
		m.secho(secho.LevelInfo, "removed obsolete file reference %s", rec.Dest)
	}

	// 2. Add/refresh, in declared order (deterministic replay).
	var out []workspace.FileRefRecord
	for _, ref := range declared {
		newHash, hashErr := m.hashIfCopy(ref)
		if hashErr != nil {
			errs = append(errs, hashErr)
			continue
		}

		if existing, ok := byDestPersisted[ref.Dest]; ok {
			if _, removalRefused := kept[ref.Dest]; removalRefused {
				out = append(out, existing)
				continue
			}
			if recordMatches(existing, ref, newHash) {
				out = append(out, existing)
				continue
			}
			if err := m.checkUnmodified(existing, force); err != nil {
				errs = append(errs, err)
				out = append(out, existing)
				continue
			}
			_ = os.Remove(m.abs(existing.Dest))
		}

		rec, err := m.create(ref, newHash)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, rec)
	}

	// Anything removal refused above but no longer declared stays too.
	for dest, rec := range kept {
		if _, stillDeclared := byDestDeclared[dest]; !stillDeclared {
			out = append(out, rec)
		}
	}

	return out, errs
}

func recordMatches(rec workspace.FileRefRecord, ref Ref, hash uint64) bool {
	if rec.Type != ref.Kind || rec.ProjectPath != ref.ProjectPath || rec.Src != ref.Src {
		return false
	}
	if ref.Kind == KindCopy {
		return rec.Hash == hash
	}
	return true
}

func (m *Manager) checkUnmodified(rec workspace.FileRefRecord, force bool) error {
	if force {
		return nil
	}
	dest := m.abs(rec.Dest)
	if rec.Type == KindLink {
		target, err := os.Readlink(dest)
		if err != nil {
			return &gwerrors.FileRefModifiedError{Dest: rec.Dest}
		}
		wantTarget := filepath.Join(m.root, rec.ProjectPath, rec.Src)
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(dest), target)
		}
		if filepath.Clean(target) != filepath.Clean(wantTarget) {
			return &gwerrors.FileRefModifiedError{Dest: rec.Dest}
		}
		return nil
	}
	h, err := m.hashFile(dest)
	if err != nil {
		return &gwerrors.FileRefModifiedError{Dest: rec.Dest}
	}
	if h != rec.Hash {
		return &gwerrors.FileRefModifiedError{Dest: rec.Dest}
	}
	return nil
}

func (m *Manager) hashIfCopy(ref Ref) (uint64, error) {
	if ref.Kind != KindCopy {
		return 0, nil
	}
	return m.hashFile(filepath.Join(m.root, ref.ProjectPath, ref.Src))
}

func (m *Manager) hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := fnv.New64a()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func (m *Manager) create(ref Ref, hash uint64) (workspace.FileRefRecord, error) {
	dest := m.abs(ref.Dest)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return workspace.FileRefRecord{}, err
	}
	src := filepath.Join(m.root, ref.ProjectPath, ref.Src)

	switch ref.Kind {
	case KindLink:
		_ = os.Remove(dest)
		if err := os.Symlink(src, dest); err != nil {
			return workspace.FileRefRecord{}, err
		}
	default:
		if err := copyPreservingMtime(src, dest); err != nil {
			return workspace.FileRefRecord{}, err
		}
	}

	m.secho(secho.LevelInfo, "created %s reference %s -> %s", ref.Kind, ref.Dest, ref.Src)
	return workspace.FileRefRecord{
		Type:        ref.Kind,
		ProjectPath: ref.ProjectPath,
		Src:         ref.Src,
		Dest:        ref.Dest,
		Hash:        hash,
	}, nil
}

func copyPreservingMtime(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func (m *Manager) abs(rel string) string { return filepath.Join(m.root, rel) }

// Prune walks the workspace root and removes any entry that is not a
// known project path, a known reference destination, or the .git-ws
// directory, per spec §4.6. Entries that are themselves git clones are
// refused unless force is set or the clone is empty.
func Prune(root string, knownProjectPaths, knownRefDests []string, force bool, isEmptyClone func(path string) (bool, error), log secho.Func) ([]string, error) {
	if log == nil {
		log = secho.Nop
	}
	known := map[string]bool{workspace.DirName: true}
	for _, p := range knownProjectPaths {
		known[topSegment(p)] = true
	}
	for _, d := range knownRefDests {
		known[topSegment(d)] = true
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var removed []string
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if known[name] {
			continue
		}
		target := filepath.Join(root, name)
		if isGitClone(target) && !force {
			empty, err := isEmptyClone(target)
			if err != nil {
				return removed, err
			}
			if !empty {
				log(secho.LevelWarn, "refusing to prune non-empty clone %s", name)
				continue
			}
		}
		if err := os.RemoveAll(target); err != nil {
			return removed, err
		}
		log(secho.LevelInfo, "pruned %s", name)
		removed = append(removed, name)
	}
	return removed, nil
}

func isGitClone(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

func topSegment(p string) string {
	for i := 0; i < len(p); i++ {
		if p[i] == '/' || p[i] == filepath.Separator {
			return p[:i]
		}
	}
	return p
}
