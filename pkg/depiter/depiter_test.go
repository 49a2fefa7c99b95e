// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package depiter

import (
	"testing"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

type fakeLoader map[string]*manifest.ManifestSpec

func (f fakeLoader) Load(path string) (*manifest.ManifestSpec, error) {
	spec, ok := f[path]
	if !ok {
		return nil, &gwerrors.ManifestNotFoundError{Path: path}
	}
	return spec, nil
}

type fakeResolver map[string]string

func (f fakeResolver) OriginURL(path string) (string, error) {
	return f[path], nil
}

func depSpec(name string) manifest.ProjectSpec {
	return manifest.ProjectSpec{
		Name:      name,
		URL:       "https://example.com/" + name + ".git",
		Recursive: true,
	}
}

func TestLevelsDeduplicatesByPathFirstWins(t *testing.T) {
	loader := fakeLoader{
		"git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				{Name: "dep1", URL: "https://example.com/dep1.git", Revision: "v1", Recursive: true},
				{Name: "dep1dup", Path: "dep1", URL: "https://example.com/other.git", Revision: "v2", Recursive: true},
			},
		},
	}

	levels, err := Levels(loader, nil, Options{ManifestPath: "git-ws.toml"})
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	if len(levels) != 1 || len(levels[0]) != 1 {
		t.Fatalf("levels = %+v, want exactly one project", levels)
	}
	got := levels[0][0]
	if got.Revision != "v1" {
		t.Fatalf("expected first-wins dedup to keep revision v1, got %q", got.Revision)
	}
}

func TestLevelsGroupFilterScenario(t *testing.T) {
	// Mirrors spec §8's "clone with group filter" scenario:
	// main manifest group_filters=["-test"], deps dep1, dep2(revision=1-feature),
	// dep3(groups=["test"]); dep1 transitively depends on dep4.
	// Cloning with -G +test should select main, dep1, dep2, dep3, dep4, but not dep5.
	loader := fakeLoader{
		"git-ws.toml": {
			GroupFilters: []string{"-test"},
			Dependencies: []manifest.ProjectSpec{
				depSpec("dep1"),
				{Name: "dep2", URL: "https://example.com/dep2.git", Revision: "1-feature", Recursive: true},
				{Name: "dep3", URL: "https://example.com/dep3.git", Groups: []string{"test"}, Recursive: true},
			},
		},
		"dep1/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				depSpec("dep4"),
				{Name: "dep5", URL: "https://example.com/dep5.git", Groups: []string{"extra"}, Recursive: true},
			},
		},
	}

	projects, err := Projects(loader, nil, Options{
		ManifestPath: "git-ws.toml",
		GroupFilters: []string{"+test"},
	})
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}

	names := map[string]bool{}
	for _, p := range projects {
		names[p.Name] = true
	}
	for _, want := range []string{"dep1", "dep2", "dep3", "dep4"} {
		if !names[want] {
			t.Errorf("expected %s to be present, got %v", want, names)
		}
	}
	if names["dep5"] {
		t.Errorf("dep5 should not be selected (extra group not requested), got %v", names)
	}
}

func TestLevelsRecursiveFalseStopsDescent(t *testing.T) {
	loader := fakeLoader{
		"git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				{Name: "dep2", URL: "https://example.com/dep2.git", Recursive: false},
			},
		},
		"dep2/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				depSpec("dep5"),
			},
		},
	}

	projects, err := Projects(loader, nil, Options{ManifestPath: "git-ws.toml"})
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "dep2" {
		t.Fatalf("expected only dep2, got %+v", projects)
	}
}

func TestLevelsBFSOrder(t *testing.T) {
	loader := fakeLoader{
		"git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				depSpec("dep1"),
				depSpec("dep2"),
			},
		},
		"dep1/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{depSpec("dep1a")},
		},
		"dep2/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{depSpec("dep2a")},
		},
	}

	levels, err := Levels(loader, nil, Options{ManifestPath: "git-ws.toml"})
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d: %+v", len(levels), levels)
	}
	if len(levels[0]) != 2 || levels[0][0].Name != "dep1" || levels[0][1].Name != "dep2" {
		t.Fatalf("level 0 order wrong: %+v", levels[0])
	}
	if len(levels[1]) != 2 {
		t.Fatalf("expected 2 projects in level 1, got %+v", levels[1])
	}
}

func TestLevelsWithMainSkipMain(t *testing.T) {
	loader := fakeLoader{
		"git-ws.toml": {Dependencies: []manifest.ProjectSpec{depSpec("dep1")}},
	}
	main := &manifest.Project{Name: "main", Path: "main", IsMain: true}

	levels, err := Levels(loader, nil, Options{ManifestPath: "git-ws.toml", Main: main, SkipMain: true})
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	if len(levels) != 1 || levels[0][0].Name != "dep1" {
		t.Fatalf("expected main skipped and dep1 yielded, got %+v", levels)
	}
}

func TestLevelsResolveURLUsesOriginOfEachClone(t *testing.T) {
	loader := fakeLoader{
		"main/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				{Name: "dep1", Remote: "", Recursive: true},
			},
		},
		"dep1/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{
				{Name: "dep2", Recursive: true},
			},
		},
	}
	resolver := fakeResolver{
		"dep1": "https://example.com/group/dep1.git",
	}
	main := &manifest.Project{Name: "main", Path: "main", IsMain: true, URL: "https://example.com/group/main.git"}

	projects, err := Projects(loader, resolver, Options{
		ManifestPath: "main/git-ws.toml",
		Main:         main,
		ResolveURL:   true,
	})
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}

	var dep1, dep2 manifest.Project
	for _, p := range projects {
		switch p.Name {
		case "dep1":
			dep1 = p
		case "dep2":
			dep2 = p
		}
	}
	if dep1.URL != "https://example.com/group/dep1.git" {
		t.Errorf("dep1.URL = %q", dep1.URL)
	}
	if dep2.URL != "https://example.com/group/dep2.git" {
		t.Errorf("dep2.URL = %q (should resolve against dep1's own origin)", dep2.URL)
	}
}

func TestLevelsCollectsEdgesWhenRequested(t *testing.T) {
	loader := fakeLoader{
		"git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{depSpec("dep1"), depSpec("dep2")},
		},
		"dep1/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{depSpec("dep1a")},
		},
	}

	var edges []Edge
	_, err := Levels(loader, nil, Options{ManifestPath: "git-ws.toml", Edges: &edges})
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}

	want := map[Edge]bool{
		{Parent: "", Child: "dep1"}:     true,
		{Parent: "", Child: "dep2"}:     true,
		{Parent: "dep1", Child: "dep1a"}: true,
	}
	if len(edges) != len(want) {
		t.Fatalf("edges = %+v, want %d entries", edges, len(want))
	}
	for _, e := range edges {
		if !want[e] {
			t.Errorf("unexpected edge %+v", e)
		}
	}
}

func TestLevelsEdgesNilByDefault(t *testing.T) {
	loader := fakeLoader{
		"git-ws.toml": {Dependencies: []manifest.ProjectSpec{depSpec("dep1")}},
	}
	// Passing no Edges pointer must not panic and must not allocate one.
	if _, err := Levels(loader, nil, Options{ManifestPath: "git-ws.toml"}); err != nil {
		t.Fatalf("Levels: %v", err)
	}
}

func TestLevelsMissingOriginFails(t *testing.T) {
	loader := fakeLoader{
		"main/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{{Name: "dep1", Recursive: true}},
		},
		"dep1/git-ws.toml": {
			Dependencies: []manifest.ProjectSpec{{Name: "dep2", Recursive: true}},
		},
	}
	resolver := fakeResolver{} // dep1 has no recorded origin
	main := &manifest.Project{Name: "main", Path: "main", IsMain: true, URL: "https://example.com/group/main.git"}

	_, err := Projects(loader, resolver, Options{ManifestPath: "main/git-ws.toml", Main: main, ResolveURL: true})
	if !gwerrors.Is(err, gwerrors.ErrGitCloneMissingOrig) {
		t.Fatalf("expected ErrGitCloneMissingOrig, got %v", err)
	}
}
