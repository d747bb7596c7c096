// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"crateuniverse.dev/x/consolidator/pkg/crate"
	"crateuniverse.dev/x/consolidator/pkg/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	g, raw, err := Read(testutil.TestdataPath(t, "graph.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	assert.Equal(t, "6f1c0f3a9b1e2d44", g.Digest)
	assert.Equal(t, []string{"openssl-sys 0.9.66", "libc 0.2.100", "cc 1.0.69"}, lo.Map(g.Packages, func(p *crate.Context, _ int) string { return p.Key() }))
	assert.Equal(t, "0.9.66", g.MemberPackagesVersionMapping.Normal["openssl-sys"].String())
	assert.Equal(t, "1.0.69", g.MemberPackagesVersionMapping.Build["cc"].String())

	// label sets are deduplicated
	assert.Equal(t, []string{"libc 0.2.100"}, g.LabelToCrates["@crates__libc__0_2_100//:libc"])
}

func TestReadContentsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		contains string
	}{
		{
			name:     "wrong kind",
			contents: "apiVersion: crateuniverse.dev/v1\nkind: ConsolidatorConfig\n",
			contains: "unsupported kind",
		},
		{
			name:     "missing api version",
			contents: "kind: ResolvedGraph\n",
			contains: "apiVersion",
		},
		{
			name:     "package without version",
			contents: "apiVersion: crateuniverse.dev/v1\nkind: ResolvedGraph\npackages:\n  - name: libc\n",
			contains: "missing 'version'",
		},
		{
			name:     "package without name",
			contents: "apiVersion: crateuniverse.dev/v1\nkind: ResolvedGraph\npackages:\n  - version: 1.0.0\n",
			contains: "missing 'name'",
		},
		{
			name:     "bad version",
			contents: "apiVersion: crateuniverse.dev/v1\nkind: ResolvedGraph\npackages:\n  - name: libc\n    version: not-a-version\n",
			contains: "not-a-version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadContents([]byte(tt.contents))
			require.ErrorIs(t, err, ErrInvalidGraph)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}
