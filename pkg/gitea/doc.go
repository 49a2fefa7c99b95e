// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gitea implements the provider interface for Gitea.
//
// The provider carries a token and a base URL for a (possibly self-hosted)
// instance. It makes no API calls: the repository and organization lookups
// (ListOrganizationRepos, ListUserRepos, GetRepository, ListOrganizations)
// return a "not implemented" error, ValidateToken only reports whether a
// token is set, and GetRateLimit reports the local limiter's counters.
//
// # Usage
//
//	p := gitea.NewProvider(token, "https://gitea.example.com")
//	ok, err := p.ValidateToken(ctx)
package gitea
