// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package targets

import (
	"log/slog"
	"slices"

	"crateuniverse.dev/x/consolidator/pkg/cfgexpr"
	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/platform"
)

// Resolver expands a target spec (a cfg(...) expression or a bare triple) into concrete triples
type Resolver struct {
	universe platform.Universe
}

func New(universe platform.Universe) *Resolver {
	return &Resolver{universe: universe}
}

// Resolve returns the sorted triples that spec maps to.
//
// A cfg(...) expression only matches triples of filter, while a bare triple only
// has to be recognized and is NOT checked against filter.
// An empty result is a fatal UNRESOLVABLE_TARGET error.
func (r *Resolver) Resolve(spec string, filter []string) ([]string, error) {
	var triples []string
	if cfgexpr.IsCfg(spec) {
		matching, err := r.universe.Matching(spec, filter)
		if err != nil {
			// a malformed expression matches nothing
			slog.Debug("failed to evaluate target spec", "target", spec, "error", err)
		}
		triples = slices.Clone(matching)
	} else if r.universe.IsBuiltin(spec) {
		triples = []string{spec}
	}

	if len(triples) == 0 {
		return nil, consolidationerrors.NewUnresolvableTargetError(spec)
	}

	slices.Sort(triples)
	return slices.Compact(triples), nil
}
