// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package manifestformat is the pluggable manifest codec layer of spec
// §4.4: a small capability interface selected by priority from a
// registry, with a default TOML codec (the on-disk format spec §6
// prescribes) at the bottom of the priority order so a user-registered
// codec always wins.
package manifestformat

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

// Codec loads, dumps, saves and upgrades a manifest file in one format.
type Codec interface {
	// Name identifies the codec for diagnostics and extension-point
	// discovery; it is not part of the on-disk format.
	Name() string
	// Priority ranks codecs when more than one is compatible with a
	// path; the registry picks the highest value. The default TOML
	// codec uses Priority() == -1 so any third-party codec (priority 0
	// or above) wins over it for a shared extension.
	Priority() int
	// IsCompatible reports whether this codec can handle path, judged
	// by extension.
	IsCompatible(path string) bool
	// Load parses the manifest at path.
	Load(path string) (*manifest.ManifestSpec, error)
	// Dump renders spec as the codec's on-disk text, without touching
	// disk or any existing document.
	Dump(spec *manifest.ManifestSpec) (string, error)
	// Save writes spec to path. When update is true and path already
	// exists, the document is re-encoded from spec and unrecognized
	// top-level values and tables with scalar entries are carried over
	// (comments, key order and formatting of the old file are not kept);
	// when false (or the file doesn't exist yet) a fresh commented
	// template is written.
	Save(spec *manifest.ManifestSpec, path string, update bool) error
	// Upgrade rewrites the manifest at path to the codec's current
	// schema version, a no-op for the TOML codec (single schema
	// version "1.0" so far).
	Upgrade(path string) error
}

// Registry holds the set of known codecs, selecting the highest-priority
// compatible one for a given path.
type Registry struct {
	mu     sync.RWMutex
	codecs []Codec
}

// NewRegistry returns a Registry seeded with the default TOML codec, as
// if loaded via the extension-point mechanism at process startup (which,
// absent any registered extension, finds nothing beyond the default).
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewTOMLCodec())
	return r
}

// Register adds a codec to the registry. Codecs with equal priority keep
// their relative registration order (stable sort), matching an
// extension-point loader that appends discovered plugins in discovery
// order.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs = append(r.codecs, c)
	sort.SliceStable(r.codecs, func(i, j int) bool {
		return r.codecs[i].Priority() > r.codecs[j].Priority()
	})
}

// For returns the highest-priority codec compatible with path, or
// gwerrors.ErrIncompatibleFormat if none match.
func (r *Registry) For(path string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.codecs {
		if c.IsCompatible(path) {
			return c, nil
		}
	}
	return nil, gwerrors.Wrap(
		fmt.Errorf("no codec compatible with %s (tried %s)", path, codecNames(r.codecs)),
		gwerrors.ErrIncompatibleFormat,
	)
}

func codecNames(codecs []Codec) string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}

// Load finds the compatible codec for path and loads it.
func (r *Registry) Load(path string) (*manifest.ManifestSpec, error) {
	c, err := r.For(path)
	if err != nil {
		return nil, err
	}
	return c.Load(path)
}

// Save finds the compatible codec for path and saves spec through it.
func (r *Registry) Save(spec *manifest.ManifestSpec, path string, update bool) error {
	c, err := r.For(path)
	if err != nil {
		return err
	}
	return c.Save(spec, path, update)
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
