// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package manifest defines the immutable value types that make up a
// workspace manifest, and the pure resolution function that turns a
// declared ProjectSpec into a concrete, absolute Project.
package manifest

// Remote names a base URL that project specs can reference by name
// instead of spelling out a full URL.
type Remote struct {
	Name    string
	URLBase string
}

// Defaults carries fallback values applied to any ProjectSpec that
// doesn't set the corresponding field itself.
type Defaults struct {
	Remote     string
	Revision   string
	Groups     []string
	WithGroups []string
	Submodules bool // default true; see DefaultSubmodules.
}

// DefaultSubmodules is the Defaults.Submodules value used when a manifest
// doesn't mention the key at all (the TOML codec seeds this before parse).
const DefaultSubmodules = true

// FileRef declares one file to materialize from a clone's working tree
// into the workspace root, either by copy or by symlink.
type FileRef struct {
	Src    string
	Dest   string
	Groups []string
}

// GroupSelect is one clause of a group-filters expression: "+group",
// "-group", "+group@path-glob", "-@path-glob".
type GroupSelect struct {
	Group  string // Empty means "no specific group" (path-only clause).
	Select bool
	Path   string // Empty means "applies to every path".
}

// ProjectSpec is one [[dependencies]] entry (or the main project) exactly
// as declared in a manifest file, before resolution.
type ProjectSpec struct {
	Name         string
	Remote       string
	SubURL       string
	URL          string
	Revision     string
	Path         string
	ManifestPath string // default "git-ws.toml"
	Groups       []string
	WithGroups   []string
	Submodules   *bool // nil means "inherit Defaults.Submodules"
	LinkFiles    []FileRef
	CopyFiles    []FileRef
	Recursive    bool // default true
}

// DefaultManifestPath is ProjectSpec.ManifestPath's value when unset.
const DefaultManifestPath = "git-ws.toml"

// Project is the fully resolved, concrete form of a ProjectSpec: every
// field that can default has been defaulted. URL is absolute when URL
// resolution was requested (Resolve fails if no reference URL is
// available); otherwise a relative URL is kept as declared.
type Project struct {
	Name         string
	Path         string
	URL          string
	Revision     string
	ManifestPath string
	Groups       []string
	WithGroups   []string
	Submodules   bool
	LinkFiles    []FileRef
	CopyFiles    []FileRef
	IsMain       bool
	Level        int
	Recursive    bool // default true; sub-manifest descent, from ProjectSpec.Recursive
}

// ManifestSpec is the parsed, unresolved content of one manifest file.
type ManifestSpec struct {
	Version      string
	Remotes      []Remote
	GroupFilters []string
	LinkFiles    []FileRef
	CopyFiles    []FileRef
	Defaults     Defaults
	Dependencies []ProjectSpec
}

// Manifest is a ManifestSpec whose dependencies have been resolved into
// concrete Projects against the spec's own remotes/defaults.
type Manifest struct {
	GroupFilters []string
	LinkFiles    []FileRef
	CopyFiles    []FileRef
	Dependencies []Project
	Path         string
}
