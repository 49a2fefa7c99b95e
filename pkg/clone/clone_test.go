// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package clone

import (
	"testing"

	"github.com/gizzahub/git-ws/pkg/manifest"
)

func testMap(root string) Map {
	return NewMap(root, []manifest.Project{
		{Name: "main", Path: "."},
		{Name: "lib", Path: "libs/lib"},
		{Name: "widget", Path: "libs/lib/widget"},
	})
}

func TestForPathPicksDeepestMatch(t *testing.T) {
	root := "/ws"
	m := testMap(root)

	c, rel, err := m.ForPath(root, "/ws/libs/lib/widget/src/main.go")
	if err != nil {
		t.Fatalf("ForPath: %v", err)
	}
	if c.Project.Name != "widget" {
		t.Fatalf("ForPath() matched %q, want widget (deepest)", c.Project.Name)
	}
	if rel != "src/main.go" {
		t.Fatalf("ForPath() rel = %q, want src/main.go", rel)
	}
}

func TestForPathFallsBackToShallowerClone(t *testing.T) {
	root := "/ws"
	m := testMap(root)

	c, rel, err := m.ForPath(root, "/ws/libs/lib/README.md")
	if err != nil {
		t.Fatalf("ForPath: %v", err)
	}
	if c.Project.Name != "lib" {
		t.Fatalf("ForPath() matched %q, want lib", c.Project.Name)
	}
	if rel != "README.md" {
		t.Fatalf("ForPath() rel = %q, want README.md", rel)
	}
}

func TestForPathMatchesCloneRootItself(t *testing.T) {
	root := "/ws"
	m := testMap(root)

	c, rel, err := m.ForPath(root, "/ws/libs/lib")
	if err != nil {
		t.Fatalf("ForPath: %v", err)
	}
	if c.Project.Name != "lib" {
		t.Fatalf("ForPath() matched %q, want lib", c.Project.Name)
	}
	if rel != "" {
		t.Fatalf("ForPath() rel = %q, want empty for the clone root itself", rel)
	}
}

func TestForPathAcceptsWorkspaceRelativeInput(t *testing.T) {
	root := "/ws"
	m := testMap(root)

	c, rel, err := m.ForPath(root, "libs/lib/widget/x.go")
	if err != nil {
		t.Fatalf("ForPath: %v", err)
	}
	if c.Project.Name != "widget" || rel != "x.go" {
		t.Fatalf("ForPath() = (%s, %q), want (widget, x.go)", c.Project.Name, rel)
	}
}

func TestForPathRejectsPathOutsideAnyClone(t *testing.T) {
	root := "/ws"
	m := Map{"libs/lib": New(root, manifest.Project{Name: "lib", Path: "libs/lib"})}

	if _, _, err := m.ForPath(root, "/elsewhere/file.go"); err == nil {
		t.Fatalf("ForPath() should fail for a path outside every clone")
	}
}
