// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Compute hashes parts in order. Each part is length prefixed so that
// moving bytes between adjacent parts changes the digest.
func Compute(parts ...[]byte) string {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = fmt.Fprintf(h, "%d:", len(p))
		_, _ = h.Write(p)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
