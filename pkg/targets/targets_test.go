// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package targets

import (
	"testing"

	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCfg(t *testing.T) {
	r := New(platform.Builtin{})

	got, err := r.Resolve("cfg(unix)", []string{"x86_64-unknown-linux-gnu", "x86_64-apple-darwin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x86_64-apple-darwin", "x86_64-unknown-linux-gnu"}, got)

	got, err = r.Resolve(`cfg(target_os = "linux")`, []string{"x86_64-unknown-linux-gnu", "x86_64-apple-darwin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x86_64-unknown-linux-gnu"}, got)
}

func TestResolveCfgNoMatchIsFatal(t *testing.T) {
	r := New(platform.Builtin{})

	_, err := r.Resolve("cfg(unix)", []string{"x86_64-pc-windows-msvc"})
	var conErr *consolidationerrors.ConsolidationError
	require.ErrorAs(t, err, &conErr)
	assert.Equal(t, consolidationerrors.UnresolvableTarget, conErr.Code)
	assert.True(t, conErr.IsFatal())
	assert.ErrorContains(t, err, `"cfg(unix)"`)
}

func TestResolveMalformedCfgIsFatal(t *testing.T) {
	r := New(platform.Builtin{})

	_, err := r.Resolve("cfg(unix", []string{"x86_64-unknown-linux-gnu"})
	assert.True(t, consolidationerrors.IsFatal(err))
}

func TestResolveBareTriple(t *testing.T) {
	r := New(platform.Builtin{})

	got, err := r.Resolve("aarch64-apple-darwin", []string{"aarch64-apple-darwin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"aarch64-apple-darwin"}, got)

	_, err = r.Resolve("x86_64-unknown-plan9", []string{"x86_64-unknown-plan9"})
	assert.True(t, consolidationerrors.IsFatal(err))
}

// Locks in the asymmetry between cfg(...) and bare triples: a bare triple doesn't
// need to be part of the configured triples, a cfg(...) expression does.
func TestResolveBareTripleIgnoresFilter(t *testing.T) {
	r := New(platform.Builtin{})
	filter := []string{"x86_64-unknown-linux-gnu"}

	got, err := r.Resolve("x86_64-pc-windows-msvc", filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"x86_64-pc-windows-msvc"}, got)

	_, err = r.Resolve("cfg(windows)", filter)
	assert.True(t, consolidationerrors.IsFatal(err))
}

type fakeUniverse struct {
	matching []string
	calls    int
}

func (f *fakeUniverse) IsBuiltin(triple string) bool { return triple == "known" }

func (f *fakeUniverse) Matching(expr string, filter []string) ([]string, error) {
	f.calls++
	return f.matching, nil
}

func TestResolveSortsAndDedups(t *testing.T) {
	u := &fakeUniverse{matching: []string{"b", "a", "b"}}
	got, err := New(u).Resolve("cfg(whatever)", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, u.calls)

	got, err = New(u).Resolve("known", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"known"}, got)
	assert.Equal(t, 1, u.calls)
}
