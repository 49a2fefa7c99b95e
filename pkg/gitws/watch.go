// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitws

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gizzahub/git-ws/internal/secho"
	"github.com/gizzahub/git-ws/pkg/gitvcs"
)

// WatchEvent is one debounced status change detected in a watched clone.
type WatchEvent struct {
	Path    string
	Entries []gitvcs.StatusEntry
	Err     error
}

// WatchOptions configures Watch.
type WatchOptions struct {
	GroupFilters []string
	// Debounce is the minimum time between re-checking a clone's status
	// after its working tree reports filesystem activity. Defaults to
	// 500ms, mirroring the teacher's own fsnotify-based watcher.
	Debounce time.Duration
}

// Watch monitors every selected clone's working tree with fsnotify and
// invokes onEvent with a debounced git-status snapshot whenever one
// changes, until ctx is canceled. Adapted from the teacher's polling
// repository watcher (pkg/watch) to an fsnotify-driven, per-clone status
// check instead of a fixed polling interval.
func (o *Orchestrator) Watch(ctx context.Context, opts WatchOptions, onEvent func(WatchEvent)) error {
	if opts.Debounce == 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	clones, projects, err := o.clones(opts.GroupFilters, false)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	pathToProject := map[string]string{}
	for _, p := range projects {
		c := clones[p.Path]
		if err := fw.Add(c.Git.Path()); err != nil {
			o.log(secho.LevelWarn, "watch: cannot watch %s: %v", p.Path, err)
			continue
		}
		pathToProject[c.Git.Path()] = p.Path
	}

	pending := map[string]*time.Timer{}
	fire := make(chan string, len(projects))

	for {
		select {
		case <-ctx.Done():
			for _, t := range pending {
				t.Stop()
			}
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			projectPath, known := pathToProject[dirOf(ev.Name)]
			if !known {
				continue
			}
			if t, scheduled := pending[projectPath]; scheduled {
				t.Stop()
			}
			pending[projectPath] = time.AfterFunc(opts.Debounce, func() {
				fire <- projectPath
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			onEvent(WatchEvent{Err: err})

		case projectPath := <-fire:
			c := clones[projectPath]
			entries, serr := c.Git.Status(ctx, nil, true)
			onEvent(WatchEvent{Path: projectPath, Entries: entries, Err: serr})
		}
	}
}

func dirOf(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' {
		i--
	}
	if i < 0 {
		return path
	}
	return path[:i]
}
