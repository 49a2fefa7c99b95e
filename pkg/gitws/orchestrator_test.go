// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gizzahub/git-ws/internal/testutil"
)

func tempGitRepoWithCommit(t *testing.T) string {
	return testutil.TempGitRepoWithCommit(t)
}

func TestInitCreatesEmptyWorkspaceWithoutMain(t *testing.T) {
	root := t.TempDir()
	o, err := Init(root, InitOptions{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if o.WS.Info.MainPath != "" {
		t.Fatalf("MainPath = %q, want empty for a plain directory", o.WS.Info.MainPath)
	}
	if _, err := o.MainProject(); err == nil {
		t.Fatalf("MainProject() should fail when there is no main")
	}
}

func TestInitDetectsExistingGitCloneAsMain(t *testing.T) {
	root := tempGitRepoWithCommit(t)
	o, err := Init(root, InitOptions{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if o.WS.Info.MainPath != "." {
		t.Fatalf("MainPath = %q, want \".\" (root is itself a git clone)", o.WS.Info.MainPath)
	}
	main, err := o.MainProject()
	if err != nil {
		t.Fatalf("MainProject: %v", err)
	}
	if !main.IsMain || main.Path != "." {
		t.Fatalf("MainProject() = %+v", main)
	}
}

func TestInitTwiceWithoutForceFails(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, InitOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Init(root, InitOptions{}); err == nil {
		t.Fatalf("second Init() should fail without Force")
	}
}

func TestInitRefusesNonEmptyDirectoryWithoutForce(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(root, InitOptions{}); err == nil {
		t.Fatalf("Init() should refuse a non-empty directory without Force")
	}
}

func TestCloneCreatesMainProjectFromLocalURL(t *testing.T) {
	upstream := tempGitRepoWithCommit(t)
	cwd := t.TempDir()

	o, err := Clone(context.Background(), cwd, CloneOptions{URL: upstream})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	name := filepath.Base(upstream)
	if o.WS.Info.MainPath != name {
		t.Fatalf("MainPath = %q, want %q", o.WS.Info.MainPath, name)
	}
	mainAbs := o.WS.MainAbsPath()
	if _, err := os.Stat(filepath.Join(mainAbs, "README.md")); err != nil {
		t.Fatalf("expected README.md to be cloned: %v", err)
	}
}

func TestOpenFindsWorkspaceFromNestedDir(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, InitOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	o, err := Open(nested)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if o.WS.Root != root {
		t.Fatalf("Open() root = %q, want %q", o.WS.Root, root)
	}
}

func TestDeinitRemovesMetadataOnly(t *testing.T) {
	root := tempGitRepoWithCommit(t)
	o, err := Init(root, InitOptions{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := o.Deinit(); err != nil {
		t.Fatalf("Deinit: %v", err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("Open() should fail after Deinit")
	}
	if _, err := os.Stat(filepath.Join(root, "README.md")); err != nil {
		t.Fatalf("Deinit must not touch the main clone's files: %v", err)
	}
}
