// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package consolidator

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/crate"
	"crateuniverse.dev/x/consolidator/pkg/graph"
	"crateuniverse.dev/x/consolidator/pkg/override"
	"crateuniverse.dev/x/consolidator/pkg/platform"
	"crateuniverse.dev/x/consolidator/pkg/renderer"
	"crateuniverse.dev/x/consolidator/pkg/targets"
	"github.com/samber/lo"
)

var ErrAlreadyConsolidated = errors.New("consolidator has already been consumed")

type Option func(*Consolidator)

// WithStrictOverrides makes overrides that don't match any crate an error
func WithStrictOverrides(strict bool) Option {
	return func(c *Consolidator) {
		c.strictOverrides = strict
	}
}

// WithUniverse replaces the builtin triples used to resolve target specs
func WithUniverse(u platform.Universe) Option {
	return func(c *Consolidator) {
		c.resolver = targets.New(u)
	}
}

// Consolidator merges user overrides into a resolved graph and packages the
// result for the renderer. It can be consumed only once.
type Consolidator struct {
	overrides     *override.Config
	renderConfig  renderer.RenderConfig
	digest        string
	targetTriples []string
	packages      []*crate.Context
	memberMapping graph.Dependencies
	labelToCrates map[string][]string

	resolver        *targets.Resolver
	strictOverrides bool
	consumed        bool
}

type Result struct {
	Input *renderer.Input
	// sorted crate names whose override matched nothing
	UnclaimedOverrides []string
	// crate names an override was applied to, in graph order
	Overridden []string
}

func New(
	cfg *override.Config,
	renderConfig renderer.RenderConfig,
	digest string,
	targetTriples []string,
	packages []*crate.Context,
	memberMapping graph.Dependencies,
	labelToCrates map[string][]string,
	opts ...Option,
) *Consolidator {
	if cfg == nil {
		cfg = override.NewConfig(nil)
	}
	c := &Consolidator{
		overrides:     cfg,
		renderConfig:  renderConfig,
		digest:        digest,
		targetTriples: targetTriples,
		packages:      packages,
		memberMapping: memberMapping,
		labelToCrates: labelToCrates,
		resolver:      targets.New(platform.Builtin{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromGraph consolidates g. The digest of g is used unless it's empty, in which case digest is.
func NewFromGraph(cfg *override.Config, renderConfig renderer.RenderConfig, digest string, targetTriples []string, g *graph.Graph, opts ...Option) *Consolidator {
	return New(cfg, renderConfig, cmp.Or(g.Digest, digest), targetTriples, g.Packages, g.MemberPackagesVersionMapping, g.LabelToCrates, opts...)
}

// Consolidate validates the packages, applies every override, and packages
// everything into the renderer input. Packages are mutated in place.
// On error, no renderer input is produced.
func (c *Consolidator) Consolidate() (*Result, error) {
	if c.consumed {
		return nil, ErrAlreadyConsolidated
	}
	c.consumed = true
	defer c.release()

	if err := ValidateNoDuplicates(c.packages); err != nil {
		return nil, err
	}

	var overridden []string
	for _, pkg := range c.packages {
		o, ok := c.overrides.Claim(pkg.PkgName)
		if !ok {
			continue
		}
		slog.Debug("applying override", "crate", pkg.Key())
		if err := o.Apply(pkg, c.resolver, c.targetTriples); err != nil {
			return nil, fmt.Errorf("failed to apply override to crate %q: %w", pkg.Key(), err)
		}
		overridden = append(overridden, pkg.PkgName)
	}

	unclaimed := c.overrides.Unclaimed()
	if len(unclaimed) > 0 {
		slog.Warn("overrides don't match any crate in the resolved graph", "crates", strings.Join(unclaimed, ","))
		if c.strictOverrides {
			return nil, consolidationerrors.NewUnclaimedOverridesError(unclaimed)
		}
	}

	slog.Info("consolidated crates", "crates", len(c.packages), "overridden", len(overridden))
	return &Result{
		Input: renderer.NewInput(
			c.renderConfig,
			c.digest,
			c.packages,
			c.memberMapping,
			c.labelToCrates,
		),
		UnclaimedOverrides: unclaimed,
		Overridden:         overridden,
	}, nil
}

func (c *Consolidator) release() {
	c.overrides = nil
	c.packages = nil
	c.labelToCrates = nil
	c.memberMapping = graph.Dependencies{}
}

type crateCount struct {
	pkg   *crate.Context
	count int
}

// ValidateNoDuplicates fails if any (name, version) pair occurs more than once
func ValidateNoDuplicates(packages []*crate.Context) error {
	counts := map[string]*crateCount{}
	for _, p := range packages {
		if c, ok := counts[p.Key()]; ok {
			c.count++
		} else {
			counts[p.Key()] = &crateCount{pkg: p, count: 1}
		}
	}

	duplicates := lo.FilterMap(lo.Values(counts), func(c *crateCount, _ int) (*crate.Context, bool) {
		return c.pkg, c.count > 1
	})
	if len(duplicates) == 0 {
		return nil
	}

	slices.SortFunc(duplicates, func(a, b *crate.Context) int {
		return cmp.Or(
			cmp.Compare(a.PkgName, b.PkgName),
			a.PkgVersion.Compare(b.PkgVersion),
		)
	})
	return consolidationerrors.NewDuplicateCratesError(lo.Map(duplicates, func(p *crate.Context, _ int) string {
		return p.Key()
	}))
}
