// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package override

import (
	"errors"
	"fmt"
	"slices"

	"crateuniverse.dev/x/consolidator/pkg/crate"
	"crateuniverse.dev/x/consolidator/pkg/targets"
	"crateuniverse.dev/x/consolidator/pkg/utils"
	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
	"github.com/samber/lo"
)

var ErrInvalidOverride = errors.New("invalid override")

// Override holds user supplied adjustments of a single crate
type Override struct {
	// env var name -> value
	ExtraRustcEnvVars map[string]string `yaml:"extra-rustc-env-vars,omitempty"`
	// env var name -> value
	ExtraBuildScriptEnvVars map[string]string `yaml:"extra-build-script-env-vars,omitempty"`

	// The following map a target triple or cfg(...) spec to extra bazel labels
	ExtraBazelDeps                map[string][]string `yaml:"extra-bazel-deps,omitempty"`
	ExtraBazelDataDeps            map[string][]string `yaml:"extra-bazel-data-deps,omitempty"`
	ExtraBuildScriptBazelDeps     map[string][]string `yaml:"extra-build-script-bazel-deps,omitempty"`
	ExtraBuildScriptBazelDataDeps map[string][]string `yaml:"extra-build-script-bazel-data-deps,omitempty"`

	FeaturesToRemove []string `yaml:"features-to-remove,omitempty"`
}

// Validate checks the shape of the override. It doesn't check it against the crate it applies to.
func (o *Override) Validate() error {
	for _, env := range []map[string]string{o.ExtraRustcEnvVars, o.ExtraBuildScriptEnvVars} {
		for k := range env {
			if !utils.IsValidEnvVarIdentifier(k) {
				return fmt.Errorf("%w: %q is not a valid env var name", ErrInvalidOverride, k)
			}
		}
	}

	for _, deps := range []map[string][]string{o.ExtraBazelDeps, o.ExtraBazelDataDeps, o.ExtraBuildScriptBazelDeps, o.ExtraBuildScriptBazelDataDeps} {
		for target, labels := range deps {
			if target == "" {
				return fmt.Errorf("%w: empty target spec", ErrInvalidOverride)
			}
			if slices.Contains(labels, "") {
				return fmt.Errorf("%w: empty label for target %q", ErrInvalidOverride, target)
			}
		}
	}
	return nil
}

// Apply merges the override into pkg: extra targeted deps first, then env vars, then feature removal.
// If any target spec can't be resolved, pkg is left untouched.
func (o *Override) Apply(pkg *crate.Context, resolver *targets.Resolver, filter []string) error {
	extra, err := ExtraDepsAsTargetedDeps(resolver, filter,
		o.ExtraBazelDeps,
		o.ExtraBazelDataDeps,
		o.ExtraBuildScriptBazelDeps,
		o.ExtraBuildScriptBazelDataDeps,
	)
	if err != nil {
		return err
	}
	pkg.TargetedDeps = append(pkg.TargetedDeps, extra...)

	pkg.Settings.AdditionalEnv = mergeEnv(pkg.Settings.AdditionalEnv, o.ExtraRustcEnvVars)
	pkg.Settings.BuildScriptEnv = mergeEnv(pkg.Settings.BuildScriptEnv, o.ExtraBuildScriptEnvVars)

	pkg.RemoveFeatures(stringset.Of(o.FeaturesToRemove...))
	return nil
}

// mergeEnv unions both maps, extra wins on collisions
func mergeEnv(existing, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return existing
	}
	return lo.Assign(existing, extra)
}

type depField func(*crate.DependencyContext) *crate.DependencySet

var (
	dependencies          depField = func(c *crate.DependencyContext) *crate.DependencySet { return &c.Dependencies }
	dataDependencies      depField = func(c *crate.DependencyContext) *crate.DependencySet { return &c.DataDependencies }
	buildDependencies     depField = func(c *crate.DependencyContext) *crate.DependencySet { return &c.BuildDependencies }
	buildDataDependencies depField = func(c *crate.DependencyContext) *crate.DependencySet { return &c.BuildDataDependencies }
)

// ExtraDepsAsTargetedDeps groups the extra labels of all four categories by target spec.
// Each spec is resolved once, on first sight. The blocks are returned sorted by target spec.
func ExtraDepsAsTargetedDeps(
	resolver *targets.Resolver,
	filter []string,
	extraBazelDeps map[string][]string,
	extraBazelDataDeps map[string][]string,
	extraBuildScriptBazelDeps map[string][]string,
	extraBuildScriptBazelDataDeps map[string][]string,
) ([]*crate.TargetedDepContext, error) {
	blocks := map[string]*crate.TargetedDepContext{}

	categories := []struct {
		deps  map[string][]string
		field depField
	}{
		{extraBazelDeps, dependencies},
		{extraBazelDataDeps, dataDependencies},
		{extraBuildScriptBazelDeps, buildDependencies},
		{extraBuildScriptBazelDataDeps, buildDataDependencies},
	}

	for _, category := range categories {
		specs := lo.Keys(category.deps)
		slices.Sort(specs)

		for _, spec := range specs {
			block, ok := blocks[spec]
			if !ok {
				platformTargets, err := resolver.Resolve(spec, filter)
				if err != nil {
					return nil, err
				}
				block = &crate.TargetedDepContext{
					Target:          spec,
					PlatformTargets: platformTargets,
				}
				blocks[spec] = block
			}

			set := category.field(&block.Deps)
			*set = set.Extend(lo.Map(category.deps[spec], func(label string, _ int) crate.BuildableDependency {
				return crate.LabelDependency(label)
			})...)
		}
	}

	specs := lo.Keys(blocks)
	slices.Sort(specs)
	return lo.Map(specs, func(spec string, _ int) *crate.TargetedDepContext {
		return blocks[spec]
	}), nil
}
