// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docgrid/internal/logger"
	"github.com/docgrid/internal/parser"
)

// Handler processes one settled document
type Handler func(ctx context.Context, path string)

// Watcher reports supported documents created or written in a set of directories.
// Subdirectories are not watched.
type Watcher struct {
	paths     []string
	handler   Handler
	debouncer *Debouncer
	fsw       *fsnotify.Watcher

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

// New creates a watcher for paths. Events for a file are debounced by delay.
func New(paths []string, delay time.Duration, handler Handler) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no watch paths given")
	}
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		paths:     paths,
		handler:   handler,
		fsw:       fsw,
		debouncer: NewDebouncer(delay, nil),
	}, nil
}

// Run watches until ctx is cancelled, then waits for in-flight handlers
func (w *Watcher) Run(ctx context.Context) error {
	w.debouncer.callback = func(path string) {
		w.mu.Lock()
		if w.closing || ctx.Err() != nil {
			w.mu.Unlock()
			return
		}
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		w.handler(ctx, path)
	}

	defer func() {
		w.mu.Lock()
		w.closing = true
		w.mu.Unlock()

		w.debouncer.Stop()
		w.fsw.Close()
		w.wg.Wait()
	}()

	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("failed to create watch directory %s: %w", absPath, err)
		}
		if err := w.fsw.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		logger.Printf("Watching %s", absPath)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !ShouldProcess(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		logger.Debugf("Watcher: %s %s", event.Op, event.Name)
		w.debouncer.Trigger(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.debouncer.Cancel(event.Name)
	}
}

// ShouldProcess reports whether a path is a document the watcher hands on
func ShouldProcess(path string) bool {
	return parser.IsSupportedFile(path) && !parser.IsTemporaryFile(path)
}
