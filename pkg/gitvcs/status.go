// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitvcs

import (
	"context"
	"regexp"
	"strings"
)

// State is one porcelain-v1 status character, normalized into the closed
// set spec §4.3 names.
type State int

const (
	StateUnmodified State = iota
	StateModified
	StateTypeChanged
	StateAdded
	StateDeleted
	StateRenamed
	StateCopied
	StateUpdatedUnmerged
	StateUntracked
	StateIgnored
)

// Byte renders s back to its porcelain-v1 status character.
func (s State) Byte() byte {
	switch s {
	case StateModified:
		return 'M'
	case StateTypeChanged:
		return 'T'
	case StateAdded:
		return 'A'
	case StateDeleted:
		return 'D'
	case StateRenamed:
		return 'R'
	case StateCopied:
		return 'C'
	case StateUpdatedUnmerged:
		return 'U'
	case StateUntracked:
		return '?'
	case StateIgnored:
		return '!'
	default:
		return ' '
	}
}

func stateFromByte(b byte) State {
	switch b {
	case 'M':
		return StateModified
	case 'T':
		return StateTypeChanged
	case 'A':
		return StateAdded
	case 'D':
		return StateDeleted
	case 'R':
		return StateRenamed
	case 'C':
		return StateCopied
	case 'U':
		return StateUpdatedUnmerged
	case '?':
		return StateUntracked
	case '!':
		return StateIgnored
	default:
		return StateUnmodified
	}
}

// BranchStatus is the first line of `git status --porcelain=v1 --branch`.
type BranchStatus struct {
	Branch   string
	Upstream string
	Ahead    int
	Behind   int
}

// FileStatus is one per-file entry of porcelain-v1 status output.
type FileStatus struct {
	Index    State
	Work     State
	Path     string
	OrigPath string // set for renames/copies
}

// StatusEntry is either a BranchStatus or a FileStatus, matching spec
// §4.3's "status() yields either a BranchStatus (single, first line) or
// FileStatus" iterator shape.
type StatusEntry any

var fileStatusPattern = regexp.MustCompile(`^(.)(.)\s(?:(.+) -> )?(.+)$`)

// Status runs `git status --porcelain=v1`, optionally scoped to paths,
// and optionally prefixed with a parsed BranchStatus entry when branch is
// true (via `-b`).
func (g *Git) Status(ctx context.Context, paths []string, branch bool) ([]StatusEntry, error) {
	args := []string{"status", "--porcelain=v1"}
	if branch {
		args = append(args, "--branch")
	}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	res, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseStatus(res.Stdout, branch), nil
}

func parseStatus(output string, hasBranch bool) []StatusEntry {
	var entries []StatusEntry
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		if hasBranch && i == 0 && strings.HasPrefix(line, "##") {
			entries = append(entries, parseBranchLine(line))
			continue
		}
		m := fileStatusPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entries = append(entries, FileStatus{
			Index:    stateFromByte(m[1][0]),
			Work:     stateFromByte(m[2][0]),
			OrigPath: m[3],
			Path:     m[4],
		})
	}
	return entries
}

var branchPattern = regexp.MustCompile(`^## (\S+?)(?:\.\.\.(\S+)(?: \[ahead (\d+)(?:, behind (\d+))?\]|\[behind (\d+)\])?)?$`)

func parseBranchLine(line string) BranchStatus {
	m := branchPattern.FindStringSubmatch(line)
	if m == nil {
		return BranchStatus{Branch: strings.TrimPrefix(line, "## ")}
	}
	bs := BranchStatus{Branch: m[1], Upstream: m[2]}
	if m[3] != "" {
		bs.Ahead = atoiSafe(m[3])
	}
	if m[4] != "" {
		bs.Behind = atoiSafe(m[4])
	}
	if m[5] != "" {
		bs.Behind = atoiSafe(m[5])
	}
	return bs
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// DiffStat is one entry of `git diff --numstat`.
type DiffStat struct {
	Path        string
	Added       int
	Deleted     int
	IsBinary    bool
}

// Diffstat returns per-file added/deleted line counts for the working
// tree against the index (unstaged changes), optionally scoped to paths.
func (g *Git) Diffstat(ctx context.Context, paths []string) ([]DiffStat, error) {
	args := []string{"diff", "--numstat"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	res, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	var out []DiffStat
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		if fields[0] == "-" && fields[1] == "-" {
			out = append(out, DiffStat{Path: fields[2], IsBinary: true})
			continue
		}
		out = append(out, DiffStat{
			Path:    fields[2],
			Added:   atoiSafe(fields[0]),
			Deleted: atoiSafe(fields[1]),
		})
	}
	return out, nil
}
