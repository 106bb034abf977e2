// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/codegate/services/gate/aggregate"
	"github.com/AleutianAI/codegate/services/gate/check"
)

// ReportHandler is called with the merged report after each run.
type ReportHandler func(files []string, report *aggregate.Report)

// defaultDebounce is how long to wait for further changes before
// running the engines.
const defaultDebounce = 250 * time.Millisecond

// ignoredDirs are directory names never watched or reported on.
var ignoredDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"dist":         {},
	"build":        {},
	"coverage":     {},
	".idea":        {},
}

// watchedExtensions are the file extensions that trigger a run.
var watchedExtensions = map[string]struct{}{
	".ts":  {},
	".tsx": {},
	".js":  {},
	".jsx": {},
	".mts": {},
	".cts": {},
	".mjs": {},
	".cjs": {},
}

// =============================================================================
// WATCHER
// =============================================================================

// Watcher re-runs the engines on debounced file changes under a root.
//
// Thread Safety: Safe for concurrent use. The handler is called from a
// single goroutine.
type Watcher struct {
	root       string
	aggregator *aggregate.Aggregator
	handler    ReportHandler
	debounce   time.Duration
	cacheDir   string
	fix        bool

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithCacheDir points the engines at a non-default cache directory.
func WithCacheDir(dir string) Option {
	return func(w *Watcher) {
		w.cacheDir = dir
	}
}

// WithFix enables fix mode for every triggered run.
func WithFix() Option {
	return func(w *Watcher) {
		w.fix = true
	}
}

// New creates a watcher over root, running the aggregator on changes.
func New(root string, aggregator *aggregate.Aggregator, handler ReportHandler, opts ...Option) *Watcher {
	w := &Watcher{
		root:       root,
		aggregator: aggregator,
		handler:    handler,
		debounce:   defaultDebounce,
		changes:    make(chan string, 256),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until the context is cancelled or Stop is called.
//
// Description:
//
//	Recursively watches root, collapses rapid change bursts into one
//	batch per debounce window, and runs the engines over each batch.
//	Engine failures are logged and watching continues; only a broken
//	watch itself ends the loop.
//
// Inputs:
//
//	ctx - Cancellation context
//
// Outputs:
//
//	error - Non-nil when the filesystem watch could not be established
//
// Thread Safety: Call once per Watcher.
func (w *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer notifier.Close()

	if err := w.addRecursive(notifier, w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}

	slog.Info("Watching for changes",
		slog.String("root", w.root),
		slog.Duration("debounce", w.debounce),
	)

	go w.processEvents(ctx, notifier)
	w.debounceLoop(ctx)
	return nil
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

// addRecursive adds root and every non-ignored subdirectory.
func (w *Watcher) addRecursive(notifier *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := ignoredDirs[d.Name()]; skip && path != root {
			return filepath.SkipDir
		}
		return notifier.Add(path)
	})
}

// relevant reports whether a change at path should trigger a run.
func relevant(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if _, skip := ignoredDirs[segment]; skip {
			return false
		}
	}
	_, ok := watchedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// processEvents forwards relevant fsnotify events into the change
// channel and registers newly created directories.
func (w *Watcher) processEvents(ctx context.Context, notifier *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-notifier.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				// A new directory needs its own watch.
				_ = w.addRecursive(notifier, event.Name)
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
				// Buffer full; the debouncer will pick up the file on
				// its next write anyway.
			}

		case err, ok := <-notifier.Errors:
			if !ok {
				return
			}
			slog.Warn("Filesystem watch error", slog.Any("error", err))
		}
	}
}

// debounceLoop batches changed paths and runs the engines per batch.
func (w *Watcher) debounceLoop(ctx context.Context) {
	batch := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			w.runBatch(ctx, batch)
			batch = make(map[string]struct{})
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case path := <-w.changes:
			batch[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()
		}
	}
}

// runBatch runs the engines over one debounced batch of files.
func (w *Watcher) runBatch(ctx context.Context, batch map[string]struct{}) {
	files := make([]string, 0, len(batch))
	for path := range batch {
		files = append(files, path)
	}
	sort.Strings(files)

	cfg := check.Config{
		Files:    files,
		Fix:      w.fix,
		CacheDir: w.cacheDir,
	}

	report, err := w.aggregator.Run(ctx, cfg)
	if err != nil {
		slog.Error("Watched run failed",
			slog.Int("files", len(files)),
			slog.Any("error", err),
		)
		return
	}

	slog.Debug("Watched run complete",
		slog.Int("files", len(files)),
		slog.Int("issues", len(report.Issues)),
		slog.Duration("duration", report.Duration),
	)

	if w.handler != nil {
		w.handler(files, report)
	}
}
