// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"fmt"
	"regexp"

	"github.com/gizzahub/git-ws/internal/gwerrors"
)

var groupNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// Validate checks the structural invariants of §3: unique remote names,
// unique dependency names, legal group-name syntax, and the XOR
// constraints on a ProjectSpec's URL-related fields. It returns a
// *gwerrors.ManifestError describing the first violation found.
func Validate(ms *ManifestSpec) error {
	seenRemotes := map[string]bool{}
	for _, r := range ms.Remotes {
		if r.Name == "" {
			return manifestErr("remote has empty name")
		}
		if seenRemotes[r.Name] {
			return manifestErr(fmt.Sprintf("duplicate remote name %q", r.Name))
		}
		seenRemotes[r.Name] = true
	}

	if err := validateGroupNames("defaults", ms.Defaults.Groups); err != nil {
		return err
	}

	seenDeps := map[string]bool{}
	for _, spec := range ms.Dependencies {
		if spec.Name == "" {
			return manifestErr("dependency has empty name")
		}
		if seenDeps[spec.Name] {
			return manifestErr(fmt.Sprintf("duplicate dependency name %q", spec.Name))
		}
		seenDeps[spec.Name] = true

		if err := validateProjectSpec(spec); err != nil {
			return err
		}
	}
	return nil
}

func validateProjectSpec(spec ProjectSpec) error {
	if spec.Remote != "" && spec.URL != "" {
		return manifestErr(fmt.Sprintf("dependency %q: remote and url are mutually exclusive", spec.Name))
	}
	if spec.SubURL != "" && spec.Remote == "" {
		return manifestErr(fmt.Sprintf("dependency %q: sub-url requires remote", spec.Name))
	}
	if spec.SubURL != "" && spec.URL != "" {
		return manifestErr(fmt.Sprintf("dependency %q: sub-url and url are mutually exclusive", spec.Name))
	}
	if err := validateGroupNames(spec.Name, spec.Groups); err != nil {
		return err
	}
	return nil
}

func validateGroupNames(owner string, groups []string) error {
	for _, g := range groups {
		if !groupNamePattern.MatchString(g) {
			return manifestErr(fmt.Sprintf("%s: invalid group name %q", owner, g))
		}
	}
	return nil
}

func manifestErr(detail string) error {
	return &gwerrors.ManifestError{Detail: detail}
}
