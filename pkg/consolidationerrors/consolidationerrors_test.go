// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package consolidationerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateCratesWording(t *testing.T) {
	single := NewDuplicateCratesError([]string{"A 1.0.0"})
	assert.Equal(t, "DUPLICATE_CRATES: Got duplicate source for identical crate name and version combination: A 1.0.0", single.Error())

	many := NewDuplicateCratesError([]string{"A 1.0.0", "B 2.0.0"})
	assert.Equal(t, "DUPLICATE_CRATES: Got duplicate sources for identical crate name and version combinations: A 1.0.0, B 2.0.0", many.Error())
	assert.False(t, many.IsFatal())
}

func TestIsFatal(t *testing.T) {
	err := NewUnresolvableTargetError("cfg(windows)")
	assert.True(t, err.IsFatal())
	assert.ErrorContains(t, err, `target "cfg(windows)" in rule attribute doesn't map to any triple`)

	wrapped := fmt.Errorf("applying overrides for %q: %w", "openssl-sys", err)
	assert.True(t, IsFatal(wrapped))
	assert.False(t, IsFatal(errors.New("boom")))
	assert.False(t, IsFatal(nil))
}

func TestStandardize(t *testing.T) {
	assert.Nil(t, Standardize(nil))

	base := NewMalformedGraphError(errors.New("bad"))
	assert.Same(t, base, Standardize(fmt.Errorf("wrapped: %w", base)))

	unknown := Standardize(errors.New("boom"))
	assert.Equal(t, UnknownError, unknown.Code)
}

func TestYamlRoundTrip(t *testing.T) {
	bytes, err := yaml.Marshal(NewUnresolvableTargetError("bogus-triple"))
	require.NoError(t, err)
	assert.Contains(t, string(bytes), "fatal: true")

	var decoded ConsolidationError
	require.NoError(t, yaml.Unmarshal(bytes, &decoded))
	assert.Equal(t, UnresolvableTarget, decoded.Code)
	assert.ErrorContains(t, &decoded, "bogus-triple")
}
