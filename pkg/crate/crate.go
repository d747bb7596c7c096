// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package crate

import (
	"cmp"
	"fmt"
	"slices"

	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
)

// BuildableDependency is an edge to another buildable bazel target, usually a crate
type BuildableDependency struct {
	Name            string  `yaml:"name"`
	Version         *SemVer `yaml:"version"`
	BuildableTarget string  `yaml:"buildable-target"`
	IsProcMacro     bool    `yaml:"is-proc-macro,omitempty"`
}

// LabelDependency wraps a bazel label that doesn't correspond to any crate
func LabelDependency(label string) BuildableDependency {
	return BuildableDependency{
		Name:            "",
		Version:         ZeroVersion,
		BuildableTarget: label,
		IsProcMacro:     false,
	}
}

func (d BuildableDependency) Compare(o BuildableDependency) int {
	return cmp.Or(
		cmp.Compare(d.Name, o.Name),
		d.Version.Compare(o.Version),
		cmp.Compare(d.BuildableTarget, o.BuildableTarget),
		compareBool(d.IsProcMacro, o.IsProcMacro),
	)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// DependencySet is kept sorted and free of duplicates
type DependencySet []BuildableDependency

// Extend adds deps, preserving order and uniqueness
func (s DependencySet) Extend(deps ...BuildableDependency) DependencySet {
	for _, d := range deps {
		i, found := slices.BinarySearchFunc(s, d, BuildableDependency.Compare)
		if found {
			continue
		}
		s = slices.Insert(s, i, d)
	}
	return s
}

// Normalize sorts and dedups a set that may have been read from an unordered source
func (s DependencySet) Normalize() DependencySet {
	return DependencySet(nil).Extend(s...)
}

type DependencyAlias struct {
	Target string `yaml:"target"`
	Alias  string `yaml:"alias"`
}

type DependencyContext struct {
	Dependencies               DependencySet               `yaml:"dependencies,omitempty"`
	ProcMacroDependencies      DependencySet               `yaml:"proc-macro-dependencies,omitempty"`
	DataDependencies           DependencySet               `yaml:"data-dependencies,omitempty"`
	BuildDependencies          DependencySet               `yaml:"build-dependencies,omitempty"`
	BuildProcMacroDependencies DependencySet               `yaml:"build-proc-macro-dependencies,omitempty"`
	BuildDataDependencies      DependencySet               `yaml:"build-data-dependencies,omitempty"`
	DevDependencies            DependencySet               `yaml:"dev-dependencies,omitempty"`
	AliasedDependencies        map[string]*DependencyAlias `yaml:"aliased-dependencies,omitempty"`
}

func (c *DependencyContext) normalize() {
	c.Dependencies = c.Dependencies.Normalize()
	c.ProcMacroDependencies = c.ProcMacroDependencies.Normalize()
	c.DataDependencies = c.DataDependencies.Normalize()
	c.BuildDependencies = c.BuildDependencies.Normalize()
	c.BuildProcMacroDependencies = c.BuildProcMacroDependencies.Normalize()
	c.BuildDataDependencies = c.BuildDataDependencies.Normalize()
	c.DevDependencies = c.DevDependencies.Normalize()
}

// TargetedDepContext holds the dependencies that only apply to the platforms a target spec maps to
type TargetedDepContext struct {
	// raw target spec, either a triple or a cfg(...) expression
	Target          string            `yaml:"target"`
	Deps            DependencyContext `yaml:"deps"`
	PlatformTargets []string          `yaml:"platform-targets"`
}

type Settings struct {
	// extra env vars for rustc
	AdditionalEnv map[string]string `yaml:"additional-env,omitempty"`
	// extra env vars for the build script
	BuildScriptEnv map[string]string `yaml:"build-script-env,omitempty"`
}

// Context is a single resolved crate
type Context struct {
	PkgName      string                `yaml:"name"`
	PkgVersion   *SemVer               `yaml:"version"`
	Edition      string                `yaml:"edition,omitempty"`
	DefaultDeps  DependencyContext     `yaml:"default-deps"`
	TargetedDeps []*TargetedDepContext `yaml:"targeted-deps,omitempty"`
	Features     []string              `yaml:"features,omitempty"`
	Settings     Settings              `yaml:"settings"`
}

// Key identifies a crate by name and version, e.g. "serde 1.0.130"
func (c *Context) Key() string {
	return fmt.Sprintf("%s %s", c.PkgName, c.PkgVersion)
}

// RemoveFeatures drops the given features, ignoring those the crate doesn't have
func (c *Context) RemoveFeatures(features stringset.StringSet) {
	c.Features = slices.DeleteFunc(c.Features, features.Contains)
}

// Normalize restores the set invariants of everything read from an external source
func (c *Context) Normalize() {
	c.DefaultDeps.normalize()
	for _, t := range c.TargetedDeps {
		t.Deps.normalize()
		slices.Sort(t.PlatformTargets)
	}
	if len(c.Features) > 0 {
		c.Features = stringset.Of(c.Features...).Sorted()
	}
}
