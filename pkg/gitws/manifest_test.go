// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"testing"

	"github.com/gizzahub/git-ws/pkg/workspace"
)

func TestJoinSlashSkipsEmptyElements(t *testing.T) {
	cases := []struct {
		elems []string
		want  string
	}{
		{[]string{"", "git-ws.toml"}, "git-ws.toml"},
		{[]string{"main", "git-ws.toml"}, "main/git-ws.toml"},
		{[]string{"", ""}, ""},
	}
	for _, c := range cases {
		if got := joinSlash(c.elems...); got != c.want {
			t.Errorf("joinSlash(%v) = %q, want %q", c.elems, got, c.want)
		}
	}
}

func TestRootManifestPathJoinsMainPath(t *testing.T) {
	ws := &workspace.Workspace{
		Info:   workspace.Info{MainPath: "main"},
		Config: workspace.Config{ManifestPath: "git-ws.toml"},
	}
	o := &Orchestrator{WS: ws}
	if got := o.rootManifestPath(); got != "main/git-ws.toml" {
		t.Errorf("rootManifestPath() = %q, want main/git-ws.toml", got)
	}
}
