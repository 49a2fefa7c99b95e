// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gwconfig layers the system/user/workspace config.toml files and
// GIT_WS_* environment overrides described in spec §6 on top of a
// workspace's persisted workspace.Config.
package gwconfig

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gizzahub/git-ws/pkg/workspace"
)

const (
	envNoLoad    = "GIT_WS_ENV_NO_LOAD"
	envSystemDir = "GIT_WS_CONFIG_SYSTEM_DIR"
	envUserDir   = "GIT_WS_CONFIG_USER_DIR"
	envWorkDir   = "GIT_WS_CONFIG_WORKSPACE_DIR"
)

// SystemDir returns the system-wide config search directory, honoring
// GIT_WS_CONFIG_SYSTEM_DIR.
func SystemDir() string {
	if d := os.Getenv(envSystemDir); d != "" {
		return d
	}
	return filepath.Join("/etc", "git-ws")
}

// UserDir returns the per-user config search directory, honoring
// GIT_WS_CONFIG_USER_DIR.
func UserDir() string {
	if d := os.Getenv(envUserDir); d != "" {
		return d
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		return filepath.Join(cfg, "git-ws")
	}
	return ""
}

// WorkspaceDir returns the workspace's own config search directory,
// honoring GIT_WS_CONFIG_WORKSPACE_DIR; it defaults to root's .git-ws.
func WorkspaceDir(root string) string {
	if d := os.Getenv(envWorkDir); d != "" {
		return d
	}
	return workspace.MetaDir(root)
}

// Load layers the system, user and workspace config.toml files (later
// layers override earlier ones), then applies GIT_WS_<OPTION> overrides
// unless GIT_WS_ENV_NO_LOAD is set.
func Load(root string) (workspace.Config, error) {
	cfg := workspace.DefaultConfig()

	for _, dir := range []string{SystemDir(), UserDir(), WorkspaceDir(root)} {
		if dir == "" {
			continue
		}
		if err := mergeFile(&cfg, filepath.Join(dir, "config.toml")); err != nil {
			return cfg, err
		}
	}

	if os.Getenv(envNoLoad) == "" {
		applyEnv(&cfg)
	}
	return cfg, nil
}

func mergeFile(cfg *workspace.Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = toml.Decode(string(data), cfg)
	return err
}

// applyEnv overrides cfg's fields from any recognized GIT_WS_<OPTION>
// environment variable.
func applyEnv(cfg *workspace.Config) {
	if v, ok := os.LookupEnv("GIT_WS_MANIFEST_PATH"); ok {
		cfg.ManifestPath = v
	}
	if v, ok := os.LookupEnv("GIT_WS_COLOR_UI"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ColorUI = b
		}
	}
	if v, ok := os.LookupEnv("GIT_WS_GROUP_FILTERS"); ok {
		cfg.GroupFilters = splitNonEmpty(v, ",")
	}
	if v, ok := os.LookupEnv("GIT_WS_CLONE_CACHE"); ok {
		cfg.CloneCache = v
	}
	if v, ok := os.LookupEnv("GIT_WS_DEPTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Depth = n
		}
	}
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
