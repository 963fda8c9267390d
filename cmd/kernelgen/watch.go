// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/kernelgen"
	"github.com/gogpu/kernelgen/templates"
)

// settleDelay groups the burst of events an editor save produces into one
// regeneration.
const settleDelay = 100 * time.Millisecond

var errWatcherClosed = errors.New("file watcher closed")

// watch runs the generation, then reruns it each time one of its inputs
// changes, until ctx is done. Generation failures are logged and the
// previous inputs stay watched; invalid arguments end the watch.
func watch(ctx context.Context, args kernelgen.Arguments, opts []kernelgen.Option) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	log := kernelgen.Logger()
	var files map[string]bool
	for {
		res, err := kernelgen.Run(args, opts...)
		var cfgErr *kernelgen.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			return err
		case err != nil:
			log.Error("generation failed", "error", err)
			if files == nil {
				files = absSet(watchedFiles(args, nil))
			}
		default:
			log.Info("generation done", "written", len(res.Written))
			files = absSet(watchedFiles(args, res.DependencyFiles))
		}

		if err := rewatch(w, files); err != nil {
			return err
		}
		log.Info("watching for changes", "files", len(files))
		if err := waitForChange(ctx, w, files); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// watchedFiles lists the inputs of a run: the shader files it was built
// from, or just the input when the run failed, plus a file template.
func watchedFiles(args kernelgen.Arguments, deps []string) []string {
	files := slices.Clone(deps)
	if len(files) == 0 {
		files = []string{args.Input}
	}
	if args.Template != "" && !templates.IsBuiltin(args.Template) {
		files = append(files, args.Template)
	}
	return files
}

func absSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = true
		}
	}
	return set
}

// rewatch replaces the watch list with the directories of files. Watching
// directories catches editors that save by renaming a new file into place.
func rewatch(w *fsnotify.Watcher, files map[string]bool) error {
	dirs := make(map[string]bool)
	for f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for _, dir := range w.WatchList() {
		if !dirs[dir] {
			_ = w.Remove(dir)
		}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

// waitForChange blocks until one of files is written, created, renamed or
// removed, then waits for the events to settle.
func waitForChange(ctx context.Context, w *fsnotify.Watcher, files map[string]bool) error {
	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return errWatcherClosed
			}
			kernelgen.Logger().Warn("file watcher error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return errWatcherClosed
			}
			if ev.Op&changed == 0 || !files[filepath.Clean(ev.Name)] {
				continue
			}
			kernelgen.Logger().Debug("input changed", "file", ev.Name, "op", ev.Op)
			return settle(ctx, w)
		}
	}
}

// settle drains events until none arrive for settleDelay.
func settle(ctx context.Context, w *fsnotify.Watcher) error {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case _, ok := <-w.Events:
			if !ok {
				return errWatcherClosed
			}
			timer.Reset(settleDelay)
		}
	}
}
