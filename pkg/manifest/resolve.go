// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"fmt"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/pkg/urlutil"
)

// ResolveOptions configures Resolve's behavior at the margins: whether a
// relative URL must be joined against a reference URL, and what that
// reference URL is.
type ResolveOptions struct {
	// RefURL is the absolute URL of the manifest spec's own repository,
	// used both to carry over a ".git" suffix (urlutil.Sub) and, when
	// ResolveURL is set, as the join base for relative URLs.
	RefURL string
	// ResolveURL requests that a relative URL be joined against RefURL.
	// When false, a relative URL (e.g. "../dep1.git") is returned as-is.
	ResolveURL bool
}

// Resolve turns spec into a concrete Project, looking up spec.Remote in
// the enclosing ManifestSpec's Remotes and falling back to defaults'
// Remote/Revision/Groups/WithGroups/Submodules. It is a pure function of its
// inputs: the same arguments always produce an equal Project.
func Resolve(ms *ManifestSpec, spec ProjectSpec, opts ResolveOptions) (Project, error) {
	url, err := resolveURL(ms, spec, opts)
	if err != nil {
		return Project{}, err
	}

	path := spec.Path
	if path == "" {
		path = spec.Name
	}

	revision := spec.Revision
	if revision == "" {
		revision = ms.Defaults.Revision
	}

	groups := spec.Groups
	if len(groups) == 0 {
		groups = ms.Defaults.Groups
	}

	withGroups := spec.WithGroups
	if len(withGroups) == 0 {
		withGroups = ms.Defaults.WithGroups
	}

	submodules := ms.Defaults.Submodules
	if spec.Submodules != nil {
		submodules = *spec.Submodules
	}

	manifestPath := spec.ManifestPath
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}

	return Project{
		Name:         spec.Name,
		Path:         path,
		URL:          url,
		Revision:     revision,
		ManifestPath: manifestPath,
		Groups:       groups,
		WithGroups:   withGroups,
		Submodules:   submodules,
		LinkFiles:    spec.LinkFiles,
		CopyFiles:    spec.CopyFiles,
		IsMain:       false,
		Level:        0,
		Recursive:    spec.Recursive,
	}, nil
}

func resolveURL(ms *ManifestSpec, spec ProjectSpec, opts ResolveOptions) (string, error) {
	var rawURL string

	switch {
	case spec.URL != "":
		rawURL = spec.URL

	default:
		effectiveRemote := spec.Remote
		if effectiveRemote == "" {
			effectiveRemote = ms.Defaults.Remote
		}
		effectiveSub := spec.SubURL
		if effectiveSub == "" {
			effectiveSub = urlutil.Sub(opts.RefURL, spec.Name)
		}

		if effectiveRemote != "" {
			remote, ok := findRemote(ms, effectiveRemote)
			if !ok {
				return "", &gwerrors.ManifestError{
					Detail: fmt.Sprintf("unknown remote %q referenced by dependency %q", effectiveRemote, spec.Name),
				}
			}
			rawURL = remote.URLBase + "/" + effectiveSub
		} else {
			rawURL = "../" + effectiveSub
		}
	}

	if !opts.ResolveURL || urlutil.HasScheme(rawURL) {
		return rawURL, nil
	}

	if opts.RefURL == "" {
		return "", gwerrors.ErrNoAbsURL
	}
	return urlutil.Join(opts.RefURL, rawURL), nil
}

func findRemote(ms *ManifestSpec, name string) (Remote, bool) {
	for _, r := range ms.Remotes {
		if r.Name == name {
			return r, true
		}
	}
	return Remote{}, false
}
