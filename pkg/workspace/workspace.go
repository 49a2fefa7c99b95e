// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package workspace is the persistent on-disk workspace root of spec
// §4.6/§6: the `.git-ws/info.toml` + `.git-ws/config.toml` pair, walking
// parents to discover an existing workspace, and resolving project paths
// relative to the root.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gizzahub/git-ws/internal/gwerrors"
)

// DirName is the persistent metadata directory at the workspace root.
const DirName = ".git-ws"

const (
	infoFileName   = "info.toml"
	configFileName = "config.toml"
)

// FileRefRecord is one persisted workspace file reference (spec §3
// WorkspaceFileRef), as stored in info.toml.
type FileRefRecord struct {
	Type        string `toml:"type_"`
	ProjectPath string `toml:"project_path"`
	Src         string `toml:"src"`
	Dest        string `toml:"dest"`
	Hash        uint64 `toml:"hash_,omitempty"`
}

// Info is the mutable tracker persisted at .git-ws/info.toml.
type Info struct {
	MainPath string          `toml:"main_path,omitempty"`
	FileRefs []FileRefRecord `toml:"filerefs,omitempty"`
}

// Config is the static per-workspace option set persisted at
// .git-ws/config.toml, per spec §6.
type Config struct {
	ManifestPath string   `toml:"manifest_path"`
	ColorUI      bool     `toml:"color_ui"`
	GroupFilters []string `toml:"group_filters,omitempty"`
	CloneCache   string   `toml:"clone_cache,omitempty"`
	Depth        int      `toml:"depth,omitempty"`
}

// DefaultConfig returns the Config seeded with spec §6's defaults.
func DefaultConfig() Config {
	return Config{ManifestPath: "git-ws.toml", ColorUI: true}
}

// Workspace is a located, loaded workspace root.
type Workspace struct {
	Root   string
	Info   Info
	Config Config
}

// MetaDir returns root's .git-ws directory path.
func MetaDir(root string) string { return filepath.Join(root, DirName) }

func infoPath(root string) string   { return filepath.Join(MetaDir(root), infoFileName) }
func configPath(root string) string { return filepath.Join(MetaDir(root), configFileName) }

// IsInitialized reports whether root already has a .git-ws directory.
func IsInitialized(root string) bool {
	_, err := os.Stat(MetaDir(root))
	return err == nil
}

// Find walks upward from start looking for a .git-ws directory, the way
// git itself discovers a repository root. Returns gwerrors.ErrUninitialized
// if none is found before reaching the filesystem root.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if IsInitialized(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", gwerrors.ErrUninitialized
		}
		dir = parent
	}
}

// Load reads an already-initialized workspace at root.
func Load(root string) (*Workspace, error) {
	if !IsInitialized(root) {
		return nil, gwerrors.ErrUninitialized
	}
	ws := &Workspace{Root: root, Config: DefaultConfig()}

	if data, err := os.ReadFile(infoPath(root)); err == nil {
		if _, err := toml.Decode(string(data), &ws.Info); err != nil {
			return nil, gwerrors.WrapWithMessage(gwerrors.ErrInvalidConfigurationFile, infoPath(root)+": "+err.Error())
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if data, err := os.ReadFile(configPath(root)); err == nil {
		if _, err := toml.Decode(string(data), &ws.Config); err != nil {
			return nil, gwerrors.WrapWithMessage(gwerrors.ErrInvalidConfigurationFile, configPath(root)+": "+err.Error())
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return ws, nil
}

// Create initializes a new workspace at root: creates .git-ws/ and
// persists the given Info/Config.
func Create(root string, info Info, cfg Config) (*Workspace, error) {
	if IsInitialized(root) {
		return nil, gwerrors.ErrAlreadyInitialized
	}
	if err := os.MkdirAll(MetaDir(root), 0o755); err != nil {
		return nil, err
	}
	ws := &Workspace{Root: root, Info: info, Config: cfg}
	if err := ws.saveInfo(); err != nil {
		return nil, err
	}
	if err := ws.saveConfig(); err != nil {
		return nil, err
	}
	return ws, nil
}

// SaveInfo persists ws.Info back to info.toml.
func (ws *Workspace) SaveInfo() error { return ws.saveInfo() }

// SaveConfig persists ws.Config back to config.toml.
func (ws *Workspace) SaveConfig() error { return ws.saveConfig() }

func (ws *Workspace) saveInfo() error {
	return writeTOML(infoPath(ws.Root), ws.Info)
}

func (ws *Workspace) saveConfig() error {
	return writeTOML(configPath(ws.Root), ws.Config)
}

func writeTOML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(v)
}

// ManifestPath returns the absolute path to the root manifest file,
// joining ws.Config.ManifestPath onto the main project's path (or the
// workspace root itself when there is no main project).
func (ws *Workspace) ManifestPath() string {
	base := ws.Root
	if ws.Info.MainPath != "" {
		base = filepath.Join(ws.Root, ws.Info.MainPath)
	}
	return filepath.Join(base, ws.Config.ManifestPath)
}

// MainAbsPath returns the absolute path of the main project, or "" if
// the workspace has no main project (spec §4.7 gwerrors.ErrNoMain).
func (ws *Workspace) MainAbsPath() string {
	if ws.Info.MainPath == "" {
		return ""
	}
	return filepath.Join(ws.Root, ws.Info.MainPath)
}

// ResolveProjectPath returns the absolute on-disk path for a
// workspace-relative project path.
func (ws *Workspace) ResolveProjectPath(relPath string) string {
	return filepath.Join(ws.Root, relPath)
}

// RelPath returns abs relative to the workspace root, erroring with
// gwerrors.ErrOutsideWorkspace if abs doesn't resolve inside it.
func (ws *Workspace) RelPath(abs string) (string, error) {
	rel, err := filepath.Rel(ws.Root, abs)
	if err != nil {
		return "", err
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == ".." {
			return "", gwerrors.ErrOutsideWorkspace
		}
	}
	return rel, nil
}
