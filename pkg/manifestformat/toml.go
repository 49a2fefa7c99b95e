// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifestformat

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

// tomlKnownKeys are the manifest's top-level keys this codec understands;
// anything else found at the top level of an existing document on
// Save(update=true) is re-encoded into the rewritten document (scalar
// values only; comments and original formatting are not kept).
var tomlKnownKeys = map[string]bool{
	"version":       true,
	"group-filters": true,
	"remotes":       true,
	"defaults":      true,
	"dependencies":  true,
	"linkfiles":     true,
	"copyfiles":     true,
}

// TOMLCodec is the default manifest codec, matching spec §6's on-disk
// schema. BurntSushi/toml is used for decode/encode, the same direct TOML
// library the teacher's TOML-config-using sibling repo (mvwi-wt) carries
// and spec §6 requires for the workspace's own config/info files.
type TOMLCodec struct{}

// NewTOMLCodec constructs the default codec.
func NewTOMLCodec() *TOMLCodec { return &TOMLCodec{} }

func (c *TOMLCodec) Name() string    { return "toml" }
func (c *TOMLCodec) Priority() int   { return -1 }
func (c *TOMLCodec) IsCompatible(path string) bool {
	ext := extOf(path)
	return ext == ".toml" || ext == ""
}

type tomlRemote struct {
	Name    string `toml:"name"`
	URLBase string `toml:"url-base,omitempty"`
}

type tomlFileRef struct {
	Src    string   `toml:"src"`
	Dest   string   `toml:"dest"`
	Groups []string `toml:"groups,omitempty"`
}

type tomlDefaults struct {
	Remote     string   `toml:"remote,omitempty"`
	Revision   string   `toml:"revision,omitempty"`
	Groups     []string `toml:"groups,omitempty"`
	WithGroups []string `toml:"with-groups,omitempty"`
	Submodules *bool    `toml:"submodules,omitempty"`
}

type tomlDependency struct {
	Name         string        `toml:"name"`
	Remote       string        `toml:"remote,omitempty"`
	SubURL       string        `toml:"sub-url,omitempty"`
	URL          string        `toml:"url,omitempty"`
	Revision     string        `toml:"revision,omitempty"`
	Path         string        `toml:"path,omitempty"`
	ManifestPath string        `toml:"manifest-path,omitempty"`
	Groups       []string      `toml:"groups,omitempty"`
	WithGroups   []string      `toml:"with-groups,omitempty"`
	Submodules   *bool         `toml:"submodules,omitempty"`
	Recursive    *bool         `toml:"recursive,omitempty"`
	LinkFiles    []tomlFileRef `toml:"linkfiles,omitempty"`
	CopyFiles    []tomlFileRef `toml:"copyfiles,omitempty"`
}

type tomlDocument struct {
	Version      string           `toml:"version"`
	GroupFilters []string         `toml:"group-filters,omitempty"`
	Remotes      []tomlRemote     `toml:"remotes,omitempty"`
	Defaults     tomlDefaults     `toml:"defaults"`
	Dependencies []tomlDependency `toml:"dependencies,omitempty"`
	LinkFiles    []tomlFileRef    `toml:"linkfiles,omitempty"`
	CopyFiles    []tomlFileRef    `toml:"copyfiles,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

func toDocument(spec *manifest.ManifestSpec) tomlDocument {
	doc := tomlDocument{
		Version:      spec.Version,
		GroupFilters: spec.GroupFilters,
	}
	if doc.Version == "" {
		doc.Version = "1.0"
	}
	for _, r := range spec.Remotes {
		doc.Remotes = append(doc.Remotes, tomlRemote{Name: r.Name, URLBase: r.URLBase})
	}
	doc.Defaults = tomlDefaults{
		Remote:     spec.Defaults.Remote,
		Revision:   spec.Defaults.Revision,
		Groups:     spec.Defaults.Groups,
		WithGroups: spec.Defaults.WithGroups,
	}
	if spec.Defaults.Submodules != manifest.DefaultSubmodules {
		doc.Defaults.Submodules = boolPtr(spec.Defaults.Submodules)
	}
	for _, d := range spec.Dependencies {
		td := tomlDependency{
			Name:         d.Name,
			Remote:       d.Remote,
			SubURL:       d.SubURL,
			URL:          d.URL,
			Revision:     d.Revision,
			Path:         d.Path,
			ManifestPath: d.ManifestPath,
			Groups:       d.Groups,
			WithGroups:   d.WithGroups,
			Submodules:   d.Submodules,
			LinkFiles:    toFileRefs(d.LinkFiles),
			CopyFiles:    toFileRefs(d.CopyFiles),
		}
		if !d.Recursive {
			td.Recursive = boolPtr(false)
		}
		doc.Dependencies = append(doc.Dependencies, td)
	}
	doc.LinkFiles = toFileRefs(spec.LinkFiles)
	doc.CopyFiles = toFileRefs(spec.CopyFiles)
	return doc
}

func toFileRefs(refs []manifest.FileRef) []tomlFileRef {
	out := make([]tomlFileRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, tomlFileRef{Src: r.Src, Dest: r.Dest, Groups: r.Groups})
	}
	return out
}

func fromFileRefs(refs []tomlFileRef) []manifest.FileRef {
	out := make([]manifest.FileRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, manifest.FileRef{Src: r.Src, Dest: r.Dest, Groups: r.Groups})
	}
	return out
}

func fromDocument(doc tomlDocument) *manifest.ManifestSpec {
	spec := &manifest.ManifestSpec{
		Version:      doc.Version,
		GroupFilters: doc.GroupFilters,
		LinkFiles:    fromFileRefs(doc.LinkFiles),
		CopyFiles:    fromFileRefs(doc.CopyFiles),
	}
	for _, r := range doc.Remotes {
		spec.Remotes = append(spec.Remotes, manifest.Remote{Name: r.Name, URLBase: r.URLBase})
	}
	spec.Defaults = manifest.Defaults{
		Remote:     doc.Defaults.Remote,
		Revision:   doc.Defaults.Revision,
		Groups:     doc.Defaults.Groups,
		WithGroups: doc.Defaults.WithGroups,
		Submodules: manifest.DefaultSubmodules,
	}
	if doc.Defaults.Submodules != nil {
		spec.Defaults.Submodules = *doc.Defaults.Submodules
	}
	for _, d := range doc.Dependencies {
		spec.Dependencies = append(spec.Dependencies, manifest.ProjectSpec{
			Name:         d.Name,
			Remote:       d.Remote,
			SubURL:       d.SubURL,
			URL:          d.URL,
			Revision:     d.Revision,
			Path:         d.Path,
			ManifestPath: d.ManifestPath,
			Groups:       d.Groups,
			WithGroups:   d.WithGroups,
			Submodules:   d.Submodules,
			LinkFiles:    fromFileRefs(d.LinkFiles),
			CopyFiles:    fromFileRefs(d.CopyFiles),
			Recursive:    d.Recursive == nil || *d.Recursive,
		})
	}
	return spec
}

// Load implements Codec.
func (c *TOMLCodec) Load(path string) (*manifest.ManifestSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &gwerrors.ManifestNotFoundError{Path: path}
		}
		return nil, &gwerrors.ManifestError{Path: path, Detail: err.Error()}
	}
	var doc tomlDocument
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, &gwerrors.ManifestError{Path: path, Detail: err.Error()}
	}
	if doc.Defaults.Submodules == nil {
		doc.Defaults.Submodules = boolPtr(manifest.DefaultSubmodules)
	}
	spec := fromDocument(doc)
	if err := manifest.Validate(spec); err != nil {
		return nil, &gwerrors.ManifestError{Path: path, Detail: err.Error()}
	}
	return spec, nil
}

// Dump implements Codec.
func (c *TOMLCodec) Dump(spec *manifest.ManifestSpec) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	doc := toDocument(spec)
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const templateHeader = "# git-ws manifest (see `git-ws dep --help` for how to edit this file).\n"

// Save implements Codec.
func (c *TOMLCodec) Save(spec *manifest.ManifestSpec, path string, update bool) error {
	if !update {
		text, err := c.Dump(spec)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(text), 0o644)
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c.Save(spec, path, false)
		}
		return err
	}

	var raw map[string]toml.Primitive
	meta, err := toml.Decode(string(existing), &raw)
	if err != nil {
		return &gwerrors.ManifestError{Path: path, Detail: err.Error()}
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	doc := toDocument(spec)
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return err
	}

	var scalars bytes.Buffer
	for _, key := range meta.Keys() {
		top := key[0]
		if tomlKnownKeys[top] {
			continue
		}
		if len(key) > 1 {
			continue // nested key under an already-handled unknown table
		}
		prim, ok := raw[top]
		if !ok {
			continue
		}
		var val any
		if err := meta.PrimitiveDecode(prim, &val); err != nil {
			continue
		}
		if m, ok := val.(map[string]any); ok {
			fmt.Fprintf(&buf, "\n[%s]\n", top)
			for k, v := range m {
				fmt.Fprintf(&buf, "%s = %s\n", k, encodeScalar(v))
			}
		} else {
			fmt.Fprintf(&scalars, "%s = %s\n", top, encodeScalar(val))
		}
	}

	// Top-level values must precede every table header.
	out := append([]byte(templateHeader), scalars.Bytes()...)
	out = append(out, buf.Bytes()[len(templateHeader):]...)
	return os.WriteFile(path, out, 0o644)
}

func encodeScalar(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprint(t)
	}
}

// Upgrade implements Codec. The TOML schema has had only version "1.0" so
// far, so Upgrade only normalizes the version key if it's missing.
func (c *TOMLCodec) Upgrade(path string) error {
	spec, err := c.Load(path)
	if err != nil {
		return err
	}
	if spec.Version != "" {
		return nil
	}
	spec.Version = "1.0"
	return c.Save(spec, path, true)
}
