// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gitws is the top-level orchestrator façade of spec §4.7: it
// composes the manifest/resolution layer, the dependency iterators, the
// git adapter, the workspace model and the file-reference manager into
// the operations a CLI (or any other caller) drives a workspace with —
// init/create/clone/deinit, update, checkout, the aggregated
// add/rm/reset/commit/diff/status/foreach family, and tag/freeze.
package gitws

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gizzahub/git-ws/internal/gwerrors"
	"github.com/gizzahub/git-ws/internal/secho"
	"github.com/gizzahub/git-ws/pkg/clone"
	"github.com/gizzahub/git-ws/pkg/gitvcs"
	"github.com/gizzahub/git-ws/pkg/gwconfig"
	"github.com/gizzahub/git-ws/pkg/manifest"
	"github.com/gizzahub/git-ws/pkg/manifestfinder"
	"github.com/gizzahub/git-ws/pkg/manifestformat"
	"github.com/gizzahub/git-ws/pkg/workspace"
)

// Orchestrator is bound to one located, loaded workspace. It is the
// single entry point every cmd/git-ws subcommand calls into.
type Orchestrator struct {
	WS       *workspace.Workspace
	codecs   *manifestformat.Registry
	log      secho.Func
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger injects the secho callback every component reports through.
func WithLogger(log secho.Func) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithCodecRegistry overrides the manifest codec registry (tests and
// extension-point wiring use this).
func WithCodecRegistry(r *manifestformat.Registry) Option {
	return func(o *Orchestrator) { o.codecs = r }
}

func newOrchestrator(ws *workspace.Workspace, opts []Option) *Orchestrator {
	o := &Orchestrator{WS: ws, codecs: manifestformat.NewRegistry(), log: secho.Nop}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open discovers (by walking parents from start) and loads an existing
// workspace, returning gwerrors.ErrUninitialized if none is found.
func Open(start string, opts ...Option) (*Orchestrator, error) {
	root, err := workspace.Find(start)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Load(root)
	if err != nil {
		return nil, err
	}
	// Re-derive Config through the system/user/workspace/env layering of
	// spec §6 rather than trusting the workspace file alone.
	if cfg, err := gwconfig.Load(root); err == nil {
		ws.Config = cfg
	}
	return newOrchestrator(ws, opts), nil
}

// InitOptions configures Init.
type InitOptions struct {
	// MainPath is the main project's path relative to root. When empty,
	// Init auto-detects whether root itself is a git clone and, if so,
	// uses "." as the main path; otherwise the workspace has no main.
	MainPath     string
	ManifestPath string
	GroupFilters []string
	Depth        int
	CloneCache   string
	Force        bool
}

// Init designates root as a new workspace, per spec §4.7 init(). It does
// not clone anything; callers that need a fresh main clone use Clone
// instead, which calls Init internally after cloning.
func Init(root string, opts InitOptions, ctorOpts ...Option) (*Orchestrator, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if workspace.IsInitialized(root) && !opts.Force {
		return nil, gwerrors.ErrAlreadyInitialized
	}

	mainPath := opts.MainPath
	if mainPath == "" {
		if isGitClone(root) {
			mainPath = "."
		}
	}

	if !opts.Force {
		entries, err := os.ReadDir(root)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if name == workspace.DirName {
				continue
			}
			if mainPath != "" && (mainPath == "." || name == mainPath) {
				continue
			}
			return nil, gwerrors.ErrWorkspaceNotEmpty
		}
	}

	cfg, err := gwconfig.Load(root)
	if err != nil {
		return nil, err
	}
	if opts.ManifestPath != "" {
		cfg.ManifestPath = opts.ManifestPath
	}
	if len(opts.GroupFilters) > 0 {
		cfg.GroupFilters = opts.GroupFilters
	}
	if opts.Depth != 0 {
		cfg.Depth = opts.Depth
	}
	if opts.CloneCache != "" {
		cfg.CloneCache = opts.CloneCache
	}

	info := workspace.Info{MainPath: mainPath}

	var ws *workspace.Workspace
	if workspace.IsInitialized(root) {
		ws, err = workspace.Load(root)
		if err != nil {
			return nil, err
		}
		ws.Info = info
		ws.Config = cfg
		if err := ws.SaveInfo(); err != nil {
			return nil, err
		}
	} else {
		ws, err = workspace.Create(root, info, cfg)
		if err != nil {
			return nil, err
		}
	}

	return newOrchestrator(ws, ctorOpts), nil
}

func isGitClone(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CloneOptions configures Clone.
type CloneOptions struct {
	URL          string
	Revision     string
	Depth        int
	CloneCache   string
	MainPath     string // defaults to the repo's derived name, twice nested (cwd/<name>/<name>)
	ManifestPath string
	GroupFilters []string
	Force        bool
}

// Clone creates a brand-new workspace at cwd by cloning opts.URL as the
// main project, then calling Init. Matches spec §4.7's clone() default
// main path of "cwd/<repo-name>/<repo-name>".
func Clone(ctx context.Context, cwd string, opts CloneOptions, ctorOpts ...Option) (*Orchestrator, error) {
	name := repoName(opts.URL)
	root := filepath.Join(cwd, name)
	mainRel := name
	if opts.MainPath != "" {
		root = filepath.Join(cwd, opts.MainPath)
		mainRel = filepath.Base(opts.MainPath)
	}

	mainAbs := filepath.Join(root, mainRel)
	if !opts.Force {
		if entries, err := os.ReadDir(mainAbs); err == nil && len(entries) > 0 {
			return nil, gwerrors.ErrNotEmpty
		}
	}

	g := gitvcs.New(mainAbs)
	if err := g.Clone(ctx, opts.URL, gitvcs.CloneOptions{
		Revision: opts.Revision,
		Depth:    opts.Depth,
		CacheDir: opts.CloneCache,
	}); err != nil {
		return nil, err
	}

	return Init(root, InitOptions{
		MainPath:     mainRel,
		ManifestPath: opts.ManifestPath,
		GroupFilters: opts.GroupFilters,
		Depth:        opts.Depth,
		CloneCache:   opts.CloneCache,
		Force:        opts.Force,
	}, ctorOpts...)
}

func repoName(url string) string {
	url = strings.TrimRight(url, "/")
	base := filepath.Base(url)
	return strings.TrimSuffix(base, ".git")
}

// Deinit removes the workspace's .git-ws metadata directory, returning it
// to an uninitialized state. Clones themselves are left untouched.
func (o *Orchestrator) Deinit() error {
	return os.RemoveAll(workspace.MetaDir(o.WS.Root))
}

// ManifestPath returns the effective manifest path for the current
// invocation, applying the manifest-finder redirect (spec §4.7) when the
// main clone's HEAD sits on a tag with a frozen snapshot.
func (o *Orchestrator) ManifestPath(ctx context.Context) string {
	live := o.WS.ManifestPath()
	mainAbs := o.WS.MainAbsPath()
	if mainAbs == "" {
		return live
	}
	resolved, err := manifestfinder.Resolve(ctx, mainAbs, live, fileExists)
	if err != nil {
		return live
	}
	return resolved
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// MainProject returns the synthetic Project describing the workspace's
// main clone (level 0), or gwerrors.ErrNoMain if there is none.
func (o *Orchestrator) MainProject() (manifest.Project, error) {
	if o.WS.Info.MainPath == "" {
		return manifest.Project{}, gwerrors.ErrNoMain
	}
	return manifest.Project{
		Name:      filepath.Base(o.WS.Info.MainPath),
		Path:      o.WS.Info.MainPath,
		IsMain:    true,
		Level:     0,
		Recursive: true,
	}, nil
}

// cloneMap builds a clone.Map for projects rooted at the workspace root.
func (o *Orchestrator) cloneMap(projects []manifest.Project) clone.Map {
	return clone.NewMap(o.WS.Root, projects)
}

type originResolver struct {
	root string
}

func (r originResolver) OriginURL(projectPath string) (string, error) {
	g := gitvcs.New(filepath.Join(r.root, projectPath))
	return g.GetURL(context.Background())
}
