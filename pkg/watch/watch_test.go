// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesCoalescesChanges(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.yaml")
	otherPath := filepath.Join(dir, "unrelated.yaml")
	require.NoError(t, os.WriteFile(graphPath, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Files(ctx, []string{graphPath}, 100*time.Millisecond, func(context.Context) {
			changes <- struct{}{}
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(otherPath, []byte("x"), 0o644))
	for range 3 {
		require.NoError(t, os.WriteFile(graphPath, []byte("b"), 0o644))
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-changes:
		t.Fatal("burst of writes reported more than once")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestFilesMissingDir(t *testing.T) {
	err := Files(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "graph.yaml")}, DefaultDebounce, func(context.Context) {})
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	abs, err := filepath.Abs("graph.yaml")
	require.NoError(t, err)
	watched := stringset.Of(abs)

	assert.True(t, relevant(fsnotify.Event{Name: "graph.yaml", Op: fsnotify.Write}, watched))
	assert.True(t, relevant(fsnotify.Event{Name: abs, Op: fsnotify.Create}, watched))
	assert.False(t, relevant(fsnotify.Event{Name: abs, Op: fsnotify.Chmod}, watched))
	assert.False(t, relevant(fsnotify.Event{Name: "config.yaml", Op: fsnotify.Write}, watched))
}
