// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package filerefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gizzahub/git-ws/pkg/manifest"
)

func TestCollectGathersCopyAndLinkFiles(t *testing.T) {
	projects := []manifest.Project{
		{
			Path:      "lib",
			CopyFiles: []manifest.FileRef{{Src: "LICENSE", Dest: "LICENSE"}},
			LinkFiles: []manifest.FileRef{{Src: "tools/pre-commit", Dest: ".git/hooks/pre-commit"}},
		},
	}

	refs, errs := Collect(projects)
	if len(errs) != 0 {
		t.Fatalf("Collect() errs = %v", errs)
	}
	if len(refs) != 2 {
		t.Fatalf("Collect() = %+v, want 2 refs", refs)
	}
	if refs[0].Kind != KindCopy || refs[1].Kind != KindLink {
		t.Fatalf("Collect() kinds = %+v", refs)
	}
}

func TestCollectFirstWinsOnDestConflict(t *testing.T) {
	projects := []manifest.Project{
		{Path: "lib1", CopyFiles: []manifest.FileRef{{Src: "a", Dest: "shared"}}},
		{Path: "lib2", CopyFiles: []manifest.FileRef{{Src: "b", Dest: "shared"}}},
	}

	refs, errs := Collect(projects)
	if len(refs) != 1 || refs[0].ProjectPath != "lib1" {
		t.Fatalf("Collect() = %+v, want first-wins lib1", refs)
	}
	if len(errs) != 1 {
		t.Fatalf("Collect() errs = %v, want one conflict error", errs)
	}
}

func TestReconcileCreatesAndRemovesRefs(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "LICENSE"), []byte("MIT"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(root, nil)
	declared := []Ref{{Kind: KindCopy, ProjectPath: "lib", Src: "LICENSE", Dest: "LICENSE"}}

	out, errs := m.Reconcile(declared, nil, false)
	if len(errs) != 0 {
		t.Fatalf("Reconcile() errs = %v", errs)
	}
	if len(out) != 1 {
		t.Fatalf("Reconcile() = %+v, want one record", out)
	}
	if _, err := os.Stat(filepath.Join(root, "LICENSE")); err != nil {
		t.Fatalf("expected LICENSE to be copied: %v", err)
	}

	out2, errs := m.Reconcile(nil, out, false)
	if len(errs) != 0 {
		t.Fatalf("Reconcile() (removal) errs = %v", errs)
	}
	if len(out2) != 0 {
		t.Fatalf("Reconcile() after undeclaring = %+v, want empty", out2)
	}
	if _, err := os.Stat(filepath.Join(root, "LICENSE")); !os.IsNotExist(err) {
		t.Fatalf("expected LICENSE to be removed, stat err = %v", err)
	}
}

func TestReconcileRefusesRemovalOfModifiedFileWithoutForce(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "LICENSE"), []byte("MIT"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(root, nil)
	declared := []Ref{{Kind: KindCopy, ProjectPath: "lib", Src: "LICENSE", Dest: "LICENSE"}}
	persisted, errs := m.Reconcile(declared, nil, false)
	if len(errs) != 0 {
		t.Fatalf("setup Reconcile() errs = %v", errs)
	}

	if err := os.WriteFile(filepath.Join(root, "LICENSE"), []byte("tampered"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, errs := m.Reconcile(nil, persisted, false)
	if len(errs) == 0 {
		t.Fatalf("Reconcile() should refuse to remove a modified file without force")
	}
	if len(out) != 1 {
		t.Fatalf("Reconcile() = %+v, want the modified record preserved", out)
	}
	if data, _ := os.ReadFile(filepath.Join(root, "LICENSE")); string(data) != "tampered" {
		t.Fatalf("tampered file should have survived the refused removal")
	}
}

func TestPruneRemovesUnknownEntries(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "known"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "stray"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "loose.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := Prune(root, []string{"known"}, nil, false, func(string) (bool, error) { return true, nil }, nil)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("Prune() removed = %v, want [loose.txt stray]", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "known")); err != nil {
		t.Fatalf("known entry should survive: %v", err)
	}
}

func TestPruneRefusesNonEmptyCloneWithoutForce(t *testing.T) {
	root := t.TempDir()
	clone := filepath.Join(root, "stray-clone")
	if err := os.MkdirAll(filepath.Join(clone, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := Prune(root, nil, nil, false, func(string) (bool, error) { return false, nil }, nil)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("Prune() removed = %v, want nothing (non-empty clone refused)", removed)
	}
	if _, err := os.Stat(clone); err != nil {
		t.Fatalf("stray-clone should survive: %v", err)
	}
}
