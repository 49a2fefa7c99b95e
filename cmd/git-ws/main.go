// Package main is the entry point for the git-ws CLI application.
// git-ws orchestrates a workspace of git clones described by a manifest.
package main

import (
	"github.com/gizzahub/git-ws/cmd/git-ws/cmd"
)

// version is set during build time via ldflags.
var version = "dev"

func main() {
	cmd.Execute(version)
}
