// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package forgeresolve

import (
	"context"
	"testing"
	"time"

	"github.com/gizzahub/git-ws/pkg/provider"
)

type fakeProvider struct {
	repo *provider.Repository
	err  error
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) ListOrganizationRepos(ctx context.Context, org string) ([]*provider.Repository, error) {
	return nil, nil
}
func (f *fakeProvider) ListUserRepos(ctx context.Context, user string) ([]*provider.Repository, error) {
	return nil, nil
}
func (f *fakeProvider) GetRepository(ctx context.Context, owner, repo string) (*provider.Repository, error) {
	return f.repo, f.err
}
func (f *fakeProvider) ListOrganizations(ctx context.Context) ([]*provider.Organization, error) {
	return nil, nil
}
func (f *fakeProvider) GetRateLimit(ctx context.Context) (*provider.RateLimit, error) {
	return &provider.RateLimit{Reset: time.Now()}, nil
}

func TestResolveSplitsOwnerRepo(t *testing.T) {
	p := &fakeProvider{repo: &provider.Repository{
		CloneURL:      "https://example.test/acme/widgets.git",
		DefaultBranch: "main",
		Description:   "widgets",
		Archived:      true,
	}}

	got, err := Resolve(context.Background(), p, "acme/widgets")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Resolved{
		CloneURL:      "https://example.test/acme/widgets.git",
		DefaultBranch: "main",
		Description:   "widgets",
		Archived:      true,
	}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveRejectsMalformedOwnerRepo(t *testing.T) {
	p := &fakeProvider{}
	if _, err := Resolve(context.Background(), p, "widgets"); err == nil {
		t.Fatalf("Resolve() with no slash should fail")
	}
}

func TestResolvePropagatesProviderError(t *testing.T) {
	wantErr := context.DeadlineExceeded
	p := &fakeProvider{err: wantErr}
	if _, err := Resolve(context.Background(), p, "acme/widgets"); err != wantErr {
		t.Fatalf("Resolve() error = %v, want %v", err, wantErr)
	}
}

func TestProviderRejectsGiteaWithoutBaseURL(t *testing.T) {
	if _, err := Provider(Gitea, ""); err == nil {
		t.Fatalf("Provider(Gitea, \"\") should require a base URL")
	}
}

func TestProviderRejectsUnknownKind(t *testing.T) {
	if _, err := Provider(Kind("bitbucket"), ""); err == nil {
		t.Fatalf("Provider() with unknown kind should fail")
	}
}

func TestProviderBuildsGitHub(t *testing.T) {
	p, err := Provider(GitHub, "")
	if err != nil {
		t.Fatalf("Provider(GitHub): %v", err)
	}
	if p.Name() != "github" {
		t.Fatalf("Name() = %q, want github", p.Name())
	}
}
