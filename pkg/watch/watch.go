// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

const DefaultDebounce = 300 * time.Millisecond

// Files calls onChange every time one of files is written, created or renamed,
// coalescing bursts of events within debounce. It blocks until ctx is done.
//
// The parent directories are watched rather than the files, so that editors
// replacing a file atomically don't end the watch.
func Files(ctx context.Context, files []string, debounce time.Duration, onChange func(ctx context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := stringset.Of()
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched.Add(abs)
	}
	for _, dir := range lo.Uniq(lo.Map(watched.Sorted(), func(f string, _ int) string { return filepath.Dir(f) })) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, watched) {
				continue
			}
			slog.Debug("watched file changed", "file", event.Name, "op", event.Op.String())
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			onChange(ctx)
		}
	}
}

func relevant(event fsnotify.Event, watched stringset.StringSet) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && watched.Contains(abs)
}
