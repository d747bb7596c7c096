// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	d := Compute([]byte("graph"), []byte("config"))
	assert.Len(t, d, 16)
	assert.Equal(t, d, Compute([]byte("graph"), []byte("config")))

	assert.NotEqual(t, d, Compute([]byte("graphc"), []byte("onfig")))
	assert.NotEqual(t, d, Compute([]byte("graph")))
	assert.NotEqual(t, Compute(), Compute(nil))
}
