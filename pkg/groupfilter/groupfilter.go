// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package groupfilter parses "group-filters" strings (+group, -group,
// -group@path-glob, -@path-glob) into manifest.GroupSelect clauses and
// builds the (path, groups) -> bool evaluator the dependency iterators
// apply at every level of the BFS.
package groupfilter

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/gizzahub/git-ws/pkg/manifest"
)

var filterPattern = regexp.MustCompile(`^([+-])([A-Za-z0-9_][A-Za-z0-9_-]*)?(@(.+))?$`)

// Parse converts raw "group-filters" strings into GroupSelect clauses,
// preserving order (clause order is evaluation order).
func Parse(filters []string) ([]manifest.GroupSelect, error) {
	selects := make([]manifest.GroupSelect, 0, len(filters))
	for _, raw := range filters {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		m := filterPattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("groupfilter: invalid group filter %q", raw)
		}
		selects = append(selects, manifest.GroupSelect{
			Select: m[1] == "+",
			Group:  m[2],
			Path:   m[4],
		})
	}
	return selects, nil
}

// Func evaluates whether a project at path with the given groups is
// selected.
type Func func(path string, groups []string) bool

// New builds an evaluator over selects. When a project has no groups at
// all, it is always selected unless a path-only clause (no Group) whose
// Path matches overwrites that. When a project has groups, each group
// starts at defaultSelect and clauses update it: a clause naming a group
// updates only that group's entry (if present); a clause naming no group
// overwrites every present entry. A project is selected iff any entry
// ends up true.
func New(selects []manifest.GroupSelect, defaultSelect bool) Func {
	return func(p string, groups []string) bool {
		entries := map[string]bool{}
		if len(groups) == 0 {
			entries[""] = true
		} else {
			for _, g := range groups {
				entries[g] = defaultSelect
			}
		}

		for _, sel := range selects {
			if sel.Group != "" {
				if _, ok := entries[sel.Group]; !ok {
					continue
				}
			}
			if sel.Path != "" {
				if matched, _ := path.Match(sel.Path, p); !matched {
					continue
				}
			}
			if sel.Group != "" {
				entries[sel.Group] = sel.Select
			} else {
				for g := range entries {
					entries[g] = sel.Select
				}
			}
		}

		for _, v := range entries {
			if v {
				return true
			}
		}
		return false
	}
}

// FromGroups builds GroupSelect clauses that simply select every named
// group, used to seed a with-groups-derived sub-iteration filter.
func FromGroups(groups []string) []manifest.GroupSelect {
	selects := make([]manifest.GroupSelect, 0, len(groups))
	for _, g := range groups {
		if g == "" {
			continue
		}
		selects = append(selects, manifest.GroupSelect{Group: g, Select: true})
	}
	return selects
}
