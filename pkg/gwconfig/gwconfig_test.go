// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gwconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	for _, k := range []string{envNoLoad, envSystemDir, envUserDir, envWorkDir,
		"GIT_WS_MANIFEST_PATH", "GIT_WS_COLOR_UI", "GIT_WS_GROUP_FILTERS",
		"GIT_WS_CLONE_CACHE", "GIT_WS_DEPTH"} {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadWithNoFilesReturnsDefaults(t *testing.T) {
	clearConfigEnv(t)
	root := t.TempDir()
	os.Setenv(envSystemDir, filepath.Join(root, "nosystem"))
	os.Setenv(envUserDir, filepath.Join(root, "nouser"))
	os.Setenv(envWorkDir, filepath.Join(root, "noworkspace"))

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManifestPath != "git-ws.toml" || !cfg.ColorUI {
		t.Fatalf("Load() = %+v, want default", cfg)
	}
}

func TestLoadLayersWorkspaceOverSystem(t *testing.T) {
	clearConfigEnv(t)
	root := t.TempDir()
	systemDir := filepath.Join(root, "system")
	workDir := filepath.Join(root, "work")
	if err := os.MkdirAll(systemDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatal(err)
	}
	os.Setenv(envSystemDir, systemDir)
	os.Setenv(envUserDir, filepath.Join(root, "nouser"))
	os.Setenv(envWorkDir, workDir)

	if err := os.WriteFile(filepath.Join(systemDir, "config.toml"),
		[]byte(`manifest_path = "system.toml"`+"\n"+`color_ui = false`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(workDir, "config.toml"),
		[]byte(`manifest_path = "workspace.toml"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManifestPath != "workspace.toml" {
		t.Fatalf("ManifestPath = %q, want workspace value to win", cfg.ManifestPath)
	}
	if cfg.ColorUI {
		t.Fatalf("ColorUI = true, want system-layer value false to survive (workspace file didn't set it)")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	root := t.TempDir()
	os.Setenv(envSystemDir, filepath.Join(root, "nosystem"))
	os.Setenv(envUserDir, filepath.Join(root, "nouser"))
	os.Setenv(envWorkDir, filepath.Join(root, "noworkspace"))

	os.Setenv("GIT_WS_MANIFEST_PATH", "env.toml")
	os.Setenv("GIT_WS_COLOR_UI", "false")
	os.Setenv("GIT_WS_GROUP_FILTERS", "+test, -doc ,")
	os.Setenv("GIT_WS_DEPTH", "3")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManifestPath != "env.toml" {
		t.Fatalf("ManifestPath = %q, want env.toml", cfg.ManifestPath)
	}
	if cfg.ColorUI {
		t.Fatalf("ColorUI = true, want env override to false")
	}
	if got, want := cfg.GroupFilters, []string{"+test", "-doc"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("GroupFilters = %v, want %v", got, want)
	}
	if cfg.Depth != 3 {
		t.Fatalf("Depth = %d, want 3", cfg.Depth)
	}
}

func TestLoadSkipsEnvOverridesWhenNoLoadSet(t *testing.T) {
	clearConfigEnv(t)
	root := t.TempDir()
	os.Setenv(envSystemDir, filepath.Join(root, "nosystem"))
	os.Setenv(envUserDir, filepath.Join(root, "nouser"))
	os.Setenv(envWorkDir, filepath.Join(root, "noworkspace"))
	os.Setenv("GIT_WS_MANIFEST_PATH", "env.toml")
	os.Setenv(envNoLoad, "1")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManifestPath != "git-ws.toml" {
		t.Fatalf("ManifestPath = %q, want default (env overrides skipped)", cfg.ManifestPath)
	}
}

func TestSplitNonEmpty(t *testing.T) {
	got := splitNonEmpty(" a, ,b ,,c", ",")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitNonEmpty = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitNonEmpty = %v, want %v", got, want)
		}
	}
}
