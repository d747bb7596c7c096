// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"crateuniverse.dev/x/consolidator/pkg/crate"
	"crateuniverse.dev/x/consolidator/pkg/schema"
	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
	"github.com/goccy/go-yaml"
)

const (
	Kind       = "ResolvedGraph"
	Version    = "v1"
	APIVersion = schema.APIGroup + "/" + Version
)

var ErrInvalidGraph = errors.New("invalid resolved graph")

// Graph is the resolver's output, i.e. the input of consolidation
type Graph struct {
	schema.ManifestMeta          `yaml:",inline"`
	Digest                       string              `yaml:"digest"`
	Packages                     []*crate.Context    `yaml:"packages"`
	MemberPackagesVersionMapping Dependencies        `yaml:"member-packages-version-mapping"`
	LabelToCrates                map[string][]string `yaml:"label-to-crates,omitempty"`
}

// Dependencies maps the crates that workspace members depend on to their resolved versions
type Dependencies struct {
	Normal map[string]*crate.SemVer `yaml:"normal,omitempty"`
	Build  map[string]*crate.SemVer `yaml:"build,omitempty"`
	Dev    map[string]*crate.SemVer `yaml:"dev,omitempty"`
}

func Read(filePath string) (*Graph, []byte, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, nil, err
	}
	bytes, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, err
	}
	g, err := ReadContents(bytes)
	if err != nil {
		return nil, nil, err
	}
	return g, bytes, nil
}

func ReadContents(contents []byte) (*Graph, error) {
	var g Graph
	if err := yaml.Unmarshal(contents, &g); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGraph, err.Error())
	}

	s := schema.NewManifestMeta(Kind, Version)
	if err := s.ValidateSchema(g.ManifestMeta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGraph, err.Error())
	}

	for i, p := range g.Packages {
		if p == nil {
			return nil, fmt.Errorf("%w: package #%d is empty", ErrInvalidGraph, i)
		}
		if p.PkgName == "" {
			return nil, fmt.Errorf("%w: package #%d is missing 'name'", ErrInvalidGraph, i)
		}
		if p.PkgVersion == nil {
			return nil, fmt.Errorf("%w: package %q is missing 'version'", ErrInvalidGraph, p.PkgName)
		}
		p.Normalize()
	}

	for label, crates := range g.LabelToCrates {
		g.LabelToCrates[label] = stringset.Of(crates...).Sorted()
	}

	return &g, nil
}
