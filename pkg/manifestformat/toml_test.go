// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifestformat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gizzahub/git-ws/pkg/manifest"
)

func sampleSpec() *manifest.ManifestSpec {
	return &manifest.ManifestSpec{
		Version: "1.0",
		Remotes: []manifest.Remote{{Name: "origin", URLBase: "https://example.test/acme/"}},
		Defaults: manifest.Defaults{
			Remote:     "origin",
			Revision:   "main",
			Submodules: manifest.DefaultSubmodules,
		},
		Dependencies: []manifest.ProjectSpec{
			{Name: "lib", Remote: "origin", SubURL: "lib.git", Path: "libs/lib", Recursive: true},
		},
	}
}

func TestTOMLCodecDumpLoadRoundTrip(t *testing.T) {
	c := NewTOMLCodec()
	spec := sampleSpec()

	text, err := c.Dump(spec)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.HasPrefix(text, templateHeader) {
		t.Fatalf("Dump() output missing header comment")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "git-ws.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Dependencies) != 1 || loaded.Dependencies[0].Name != "lib" {
		t.Fatalf("Load() dependencies = %+v, want one entry named lib", loaded.Dependencies)
	}
	if loaded.Dependencies[0].SubURL != "lib.git" {
		t.Fatalf("SubURL = %q, want lib.git", loaded.Dependencies[0].SubURL)
	}
	if !loaded.Dependencies[0].Recursive {
		t.Fatalf("Recursive should default true")
	}
}

func TestTOMLCodecSaveUpdatePreservesUnknownSection(t *testing.T) {
	c := NewTOMLCodec()
	dir := t.TempDir()
	path := filepath.Join(dir, "git-ws.toml")

	original := templateHeader + "\n" +
		"version = \"1.0\"\n\n" +
		"[my-custom-tool]\n" +
		"enabled = true\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	spec := sampleSpec()
	if err := c.Save(spec, path, true); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[my-custom-tool]") {
		t.Fatalf("Save(update=true) dropped an unrecognized top-level table:\n%s", data)
	}

	reloaded, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if len(reloaded.Dependencies) != 1 || reloaded.Dependencies[0].Name != "lib" {
		t.Fatalf("Load() after Save = %+v, want the updated dependency set", reloaded.Dependencies)
	}
}

func TestTOMLCodecSaveWithoutUpdateOverwrites(t *testing.T) {
	c := NewTOMLCodec()
	dir := t.TempDir()
	path := filepath.Join(dir, "git-ws.toml")

	if err := os.WriteFile(path, []byte("garbage not even toml {{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Save(sampleSpec(), path, false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Dependencies) != 1 {
		t.Fatalf("Load() dependencies = %+v, want one entry", loaded.Dependencies)
	}
}

func TestTOMLCodecIsCompatible(t *testing.T) {
	c := NewTOMLCodec()
	cases := map[string]bool{"git-ws.toml": true, "manifest": true, "manifest.yaml": false}
	for path, want := range cases {
		if got := c.IsCompatible(path); got != want {
			t.Errorf("IsCompatible(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestTOMLCodecLoadMissingFile(t *testing.T) {
	c := NewTOMLCodec()
	if _, err := c.Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("Load() of a missing file should fail")
	}
}
