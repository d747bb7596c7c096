// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package override

import (
	"testing"

	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/crate"
	"crateuniverse.dev/x/consolidator/pkg/platform"
	"crateuniverse.dev/x/consolidator/pkg/targets"
	"crateuniverse.dev/x/consolidator/pkg/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	linux   = "x86_64-unknown-linux-gnu"
	darwin  = "x86_64-apple-darwin"
	windows = "x86_64-pc-windows-msvc"
)

func resolver() *targets.Resolver {
	return targets.New(platform.Builtin{})
}

func labels(s crate.DependencySet) []string {
	return lo.Map(s, func(d crate.BuildableDependency, _ int) string { return d.BuildableTarget })
}

func TestApplyEnvPrecedence(t *testing.T) {
	pkg := testutil.Package("openssl-sys", "0.9.66")
	pkg.Settings.AdditionalEnv = map[string]string{"X": "1"}

	o := &Override{
		ExtraRustcEnvVars:       map[string]string{"X": "2", "Y": "3"},
		ExtraBuildScriptEnvVars: map[string]string{"OPENSSL_DIR": "/opt"},
	}
	require.NoError(t, o.Apply(pkg, resolver(), []string{linux}))

	assert.Equal(t, map[string]string{"X": "2", "Y": "3"}, pkg.Settings.AdditionalEnv)
	assert.Equal(t, map[string]string{"OPENSSL_DIR": "/opt"}, pkg.Settings.BuildScriptEnv)
}

func TestApplyFeatureRemoval(t *testing.T) {
	pkg := testutil.Package("tokio", "1.10.0", "default", "extra")

	o := &Override{FeaturesToRemove: []string{"extra"}}
	require.NoError(t, o.Apply(pkg, resolver(), []string{linux}))
	assert.Equal(t, []string{"default"}, pkg.Features)

	o = &Override{FeaturesToRemove: []string{"does-not-exist"}}
	require.NoError(t, o.Apply(pkg, resolver(), []string{linux}))
	assert.Equal(t, []string{"default"}, pkg.Features)
}

func TestApplyInjectsTargetedDeps(t *testing.T) {
	pkg := testutil.Package("openssl-sys", "0.9.66")
	existing := &crate.TargetedDepContext{Target: "cfg(windows)", PlatformTargets: []string{windows}}
	pkg.TargetedDeps = []*crate.TargetedDepContext{existing}

	o := &Override{
		ExtraBazelDeps: map[string][]string{
			"cfg(unix)": {"//third_party:openssl", "//third_party:crypto"},
			windows:     {"//third_party/windows:openssl"},
		},
		ExtraBazelDataDeps: map[string][]string{
			"cfg(unix)": {"//third_party:certs"},
		},
		ExtraBuildScriptBazelDeps: map[string][]string{
			"aarch64-apple-darwin": {"//tools:pkg_config"},
		},
		ExtraBuildScriptBazelDataDeps: map[string][]string{
			"cfg(unix)": {"//third_party:openssl_headers"},
		},
	}
	require.NoError(t, o.Apply(pkg, resolver(), []string{linux, darwin, windows}))

	require.Len(t, pkg.TargetedDeps, 4)
	assert.Same(t, existing, pkg.TargetedDeps[0])

	// appended blocks are sorted by target spec
	assert.Equal(t, []string{"aarch64-apple-darwin", "cfg(unix)", windows},
		lo.Map(pkg.TargetedDeps[1:], func(b *crate.TargetedDepContext, _ int) string { return b.Target }))

	darwinArm := pkg.TargetedDeps[1]
	assert.Equal(t, []string{"aarch64-apple-darwin"}, darwinArm.PlatformTargets)
	assert.Equal(t, []string{"//tools:pkg_config"}, labels(darwinArm.Deps.BuildDependencies))

	unix := pkg.TargetedDeps[2]
	assert.Equal(t, []string{darwin, linux}, unix.PlatformTargets)
	assert.Equal(t, []string{"//third_party:crypto", "//third_party:openssl"}, labels(unix.Deps.Dependencies))
	assert.Equal(t, []string{"//third_party:certs"}, labels(unix.Deps.DataDependencies))
	assert.Equal(t, []string{"//third_party:openssl_headers"}, labels(unix.Deps.BuildDataDependencies))
	assert.Empty(t, unix.Deps.BuildDependencies)

	for _, d := range unix.Deps.Dependencies {
		assert.Empty(t, d.Name)
		assert.Equal(t, "0.0.0", d.Version.String())
		assert.False(t, d.IsProcMacro)
	}

	win := pkg.TargetedDeps[3]
	assert.Equal(t, []string{windows}, win.PlatformTargets)
	assert.Equal(t, []string{"//third_party/windows:openssl"}, labels(win.Deps.Dependencies))
}

func TestApplyUnresolvableTargetLeavesPackageUntouched(t *testing.T) {
	pkg := testutil.Package("libc", "0.2.100", "default")
	pkg.Settings.AdditionalEnv = map[string]string{"X": "1"}

	o := &Override{
		ExtraRustcEnvVars: map[string]string{"X": "2"},
		ExtraBazelDeps:    map[string][]string{"cfg(unix)": {"//shim:libc"}},
		FeaturesToRemove:  []string{"default"},
	}
	err := o.Apply(pkg, resolver(), []string{windows})
	assert.True(t, consolidationerrors.IsFatal(err))

	assert.Empty(t, pkg.TargetedDeps)
	assert.Equal(t, map[string]string{"X": "1"}, pkg.Settings.AdditionalEnv)
	assert.Equal(t, []string{"default"}, pkg.Features)
}

func TestExtraDepsResolvesEachSpecOnce(t *testing.T) {
	u := &countingUniverse{Universe: platform.Builtin{}}
	blocks, err := ExtraDepsAsTargetedDeps(targets.New(u), []string{linux},
		map[string][]string{"cfg(unix)": {"//a"}},
		map[string][]string{"cfg(unix)": {"//b"}},
		map[string][]string{"cfg(unix)": {"//c"}},
		map[string][]string{"cfg(unix)": {"//d"}},
	)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, u.calls)
}

func TestExtraDepsEmpty(t *testing.T) {
	blocks, err := ExtraDepsAsTargetedDeps(resolver(), nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

type countingUniverse struct {
	platform.Universe
	calls int
}

func (c *countingUniverse) Matching(expr string, filter []string) ([]string, error) {
	c.calls++
	return c.Universe.Matching(expr, filter)
}

func TestValidate(t *testing.T) {
	require.NoError(t, (&Override{ExtraRustcEnvVars: map[string]string{"RUSTFLAGS_X": "1"}}).Validate())

	tests := []struct {
		name string
		o    *Override
	}{
		{"bad env name", &Override{ExtraRustcEnvVars: map[string]string{"1BAD": "x"}}},
		{"bad build script env name", &Override{ExtraBuildScriptEnvVars: map[string]string{"A-B": "x"}}},
		{"empty target", &Override{ExtraBazelDataDeps: map[string][]string{"": {"//a"}}}},
		{"empty label", &Override{ExtraBuildScriptBazelDeps: map[string][]string{"cfg(unix)": {""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.o.Validate(), ErrInvalidOverride)
		})
	}
}

func TestConfigClaimIsOneShot(t *testing.T) {
	c := NewConfig(map[string]*Override{
		"libc":  {FeaturesToRemove: []string{"std"}},
		"serde": nil,
		"zzz":   {},
	})

	o, ok := c.Claim("libc")
	require.True(t, ok)
	assert.Equal(t, []string{"std"}, o.FeaturesToRemove)

	_, ok = c.Claim("libc")
	assert.False(t, ok)

	o, ok = c.Claim("serde")
	require.True(t, ok)
	assert.NotNil(t, o)

	assert.Equal(t, []string{"zzz"}, c.Unclaimed())
	assert.Equal(t, []string{"libc", "serde"}, c.Claimed())
	assert.Equal(t, 1, c.Len())
}

func TestConfigDoesNotAliasInput(t *testing.T) {
	input := map[string]*Override{"libc": {}}
	c := NewConfig(input)
	c.Claim("libc")
	assert.Contains(t, input, "libc")
}

func TestConfigValidate(t *testing.T) {
	c := NewConfig(map[string]*Override{
		"openssl-sys": {ExtraRustcEnvVars: map[string]string{"not valid": "x"}},
	})
	err := c.Validate()
	assert.ErrorIs(t, err, ErrInvalidOverride)
	assert.ErrorContains(t, err, `"openssl-sys"`)
}
