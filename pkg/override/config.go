// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package override

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// Config holds the pending overrides, keyed by crate name.
// An override is claimed at most once, claiming removes it.
type Config struct {
	pending map[string]*Override
	claimed []string
}

func NewConfig(overrides map[string]*Override) *Config {
	pending := make(map[string]*Override, len(overrides))
	maps.Copy(pending, overrides)
	return &Config{pending: pending}
}

// Validate checks every pending override
func (c *Config) Validate() error {
	names := lo.Keys(c.pending)
	slices.Sort(names)
	for _, name := range names {
		if c.pending[name] == nil {
			continue
		}
		if err := c.pending[name].Validate(); err != nil {
			return fmt.Errorf("override for crate %q: %w", name, err)
		}
	}
	return nil
}

// Claim removes and returns the override of crateName, if still pending
func (c *Config) Claim(crateName string) (*Override, bool) {
	o, ok := c.pending[crateName]
	if !ok {
		return nil, false
	}
	delete(c.pending, crateName)
	c.claimed = append(c.claimed, crateName)
	if o == nil {
		// e.g. `crate-name: ~` in yaml
		o = &Override{}
	}
	return o, true
}

// Claimed returns the crate names claimed so far, in claim order
func (c *Config) Claimed() []string {
	return slices.Clone(c.claimed)
}

// Unclaimed returns the sorted crate names whose override hasn't been claimed
func (c *Config) Unclaimed() []string {
	names := lo.Keys(c.pending)
	slices.Sort(names)
	return names
}

func (c *Config) Len() int {
	return len(c.pending)
}
