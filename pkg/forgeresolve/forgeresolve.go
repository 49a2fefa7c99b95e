// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package forgeresolve looks a repository up through a forge's API instead
// of trusting a hand-typed url-base: given the forge kind (GitHub, GitLab
// or Gitea), its base URL and an "owner/repo" shorthand, it returns the
// clone URL and metadata the forge reports for that repository.
//
// This is a read-only, opt-in convenience over pkg/manifest's pure
// string-concatenation URL resolution (manifest.resolveURL) — nothing in
// the core update/clone path calls it; it backs the "remote probe" CLI
// command and can seed a url-base a user wasn't sure of.
package forgeresolve

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gizzahub/git-ws/pkg/gitea"
	"github.com/gizzahub/git-ws/pkg/github"
	"github.com/gizzahub/git-ws/pkg/gitlab"
	"github.com/gizzahub/git-ws/pkg/provider"
)

// Kind names one of the three forges a remote can point at.
type Kind string

const (
	GitHub Kind = "github"
	GitLab Kind = "gitlab"
	Gitea  Kind = "gitea"
)

// Resolved is the outcome of resolving one owner/repo shorthand.
type Resolved struct {
	CloneURL      string
	DefaultBranch string
	Description   string
	Archived      bool
}

// Provider builds the provider.Provider for kind, reading its auth token
// from the GIT_WS_<KIND>_TOKEN environment variable (e.g.
// GIT_WS_GITHUB_TOKEN).
func Provider(kind Kind, baseURL string) (provider.Provider, error) {
	token := os.Getenv("GIT_WS_" + strings.ToUpper(string(kind)) + "_TOKEN")
	switch kind {
	case GitHub:
		return github.NewProvider(token), nil
	case GitLab:
		return gitlab.NewProvider(token, baseURL)
	case Gitea:
		if baseURL == "" {
			return nil, fmt.Errorf("forgeresolve: gitea requires a base URL")
		}
		return gitea.NewProvider(token, baseURL), nil
	default:
		return nil, fmt.Errorf("forgeresolve: unknown forge kind %q", kind)
	}
}

// Resolve fetches ownerRepo ("owner/name") from p and returns its
// canonical clone URL plus a few fields useful to surface to the user.
func Resolve(ctx context.Context, p provider.Provider, ownerRepo string) (Resolved, error) {
	owner, name, ok := strings.Cut(ownerRepo, "/")
	if !ok {
		return Resolved{}, fmt.Errorf("forgeresolve: %q is not in owner/repo form", ownerRepo)
	}
	repo, err := p.GetRepository(ctx, owner, name)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		CloneURL:      repo.CloneURL,
		DefaultBranch: repo.DefaultBranch,
		Description:   repo.Description,
		Archived:      repo.Archived,
	}, nil
}
