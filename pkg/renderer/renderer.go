// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"context"
	"fmt"

	"crateuniverse.dev/x/consolidator/pkg/crate"
	"crateuniverse.dev/x/consolidator/pkg/graph"
	"crateuniverse.dev/x/consolidator/pkg/schema"
	"crateuniverse.dev/x/consolidator/pkg/utils"
	"github.com/goccy/go-yaml"
)

const (
	Kind    = "RendererInput"
	Version = "v1"
)

type RenderConfig struct {
	// name of the repository rule the generated BUILD files belong to, e.g. "crates"
	RepoRuleName           string `yaml:"repo-rule-name" json:"repoRuleName"`
	RulesRustWorkspaceName string `yaml:"rules-rust-workspace-name" json:"rulesRustWorkspaceName"`
}

const DefaultRulesRustWorkspaceName = "rules_rust"

// Input is everything the renderer needs to generate BUILD files
type Input struct {
	schema.ManifestMeta          `yaml:",inline"`
	Config                       RenderConfig        `yaml:"config"`
	Digest                       string              `yaml:"digest"`
	Packages                     []*crate.Context    `yaml:"packages"`
	MemberPackagesVersionMapping graph.Dependencies  `yaml:"member-packages-version-mapping"`
	LabelToCrates                map[string][]string `yaml:"label-to-crates,omitempty"`
}

func NewInput(
	config RenderConfig,
	digest string,
	packages []*crate.Context,
	memberPackagesVersionMapping graph.Dependencies,
	labelToCrates map[string][]string,
) *Input {
	return &Input{
		ManifestMeta:                 schema.NewManifestMeta(Kind, Version),
		Config:                       config,
		Digest:                       digest,
		Packages:                     packages,
		MemberPackagesVersionMapping: memberPackagesVersionMapping,
		LabelToCrates:                labelToCrates,
	}
}

func (i *Input) Marshal() ([]byte, error) {
	bytes, err := yaml.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal renderer input: %w", err)
	}
	return bytes, nil
}

// WriteFile writes the input to path, guarded by a lock file next to it so that
// concurrent generations don't interleave their writes
func (i *Input) WriteFile(ctx context.Context, path string) error {
	bytes, err := i.Marshal()
	if err != nil {
		return err
	}

	return utils.WriteFileLocked(ctx, path, bytes)
}

func ReadInput(contents []byte) (*Input, error) {
	var i Input
	if err := yaml.Unmarshal(contents, &i); err != nil {
		return nil, err
	}
	if err := schema.NewManifestMeta(Kind, Version).ValidateSchema(i.ManifestMeta); err != nil {
		return nil, err
	}
	return &i, nil
}
