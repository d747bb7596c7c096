// Copyright (c) 2017-2025 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"crateuniverse.dev/x/consolidator/pkg/crate"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

func ReadTestdata(t *testing.T, path ...string) []byte {
	bytes, err := os.ReadFile(TestdataPath(t, path...))
	require.NoError(t, err)
	return bytes
}

const EnvVarPrefix = "CRATE_UNIVERSE_"

// CommonSetupSuite isolates every test from the caller's CRATE_UNIVERSE_* environment
type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	var keys []string
	for _, kv := range os.Environ() {
		if k, _, _ := strings.Cut(kv, "="); strings.HasPrefix(k, EnvVarPrefix) {
			keys = append(keys, k)
		}
	}
	UnsetEnv(suite.T(), keys...)
}

// UnsetEnv unsets the given env vars for the duration of the test
func UnsetEnv(t *testing.T, keys ...string) {
	for _, k := range keys {
		prev, ok := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		if ok {
			t.Cleanup(func() { os.Setenv(k, prev) })
		}
	}
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}

// Package builds a minimal resolved crate
func Package(name, version string, features ...string) *crate.Context {
	return &crate.Context{
		PkgName:    name,
		PkgVersion: crate.MustParseSemVer(version),
		Features:   features,
	}
}
