// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/override"
	"crateuniverse.dev/x/consolidator/pkg/platform"
	"crateuniverse.dev/x/consolidator/pkg/renderer"
	"crateuniverse.dev/x/consolidator/pkg/schema"
	"crateuniverse.dev/x/consolidator/pkg/utils"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

const (
	Kind    = "ConsolidatorConfig"
	Version = "v1"

	DefaultFileName     = "consolidator.yaml"
	DefaultRepoRuleName = "crates"
)

type Config struct {
	schema.ManifestMeta `yaml:",inline"`

	RenderConfig    renderer.RenderConfig         `yaml:"render-config"`
	TargetTriples   []string                      `yaml:"target-triples,omitempty"`
	StrictOverrides bool                          `yaml:"strict-overrides,omitempty"`
	Overrides       map[string]*override.Override `yaml:"overrides,omitempty"`

	// FilePath is where the config was read from, empty if defaults were used
	FilePath string `yaml:"-"`
	// Raw holds the unparsed config file
	Raw []byte `yaml:"-"`
}

// Get reads the config at filePath, falling back to CRATE_UNIVERSE_CONFIG.
// Without either, the defaults are used. Env vars take precedence over the file.
func Get(filePath string) (*Config, error) {
	if filePath == "" {
		filePath = os.Getenv(ConfigPathEnvVar)
	}

	config := &Config{ManifestMeta: schema.NewManifestMeta(Kind, Version)}
	if filePath != "" {
		var err error
		config, err = Read(filePath)
		if err != nil {
			return nil, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, consolidationerrors.NewMalformedConfigError(err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, consolidationerrors.NewMalformedConfigError(err)
	}
	return config, nil
}

func Read(filePath string) (*Config, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is directory and not a file", filePath)
	}

	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	config, err := ReadContents(bytes)
	if err != nil {
		return nil, consolidationerrors.NewMalformedConfigError(fmt.Errorf("%s: %w", filePath, err))
	}
	config.FilePath = filePath
	return config, nil
}

func ReadContents(contents []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return nil, err
	}
	if err := schema.NewManifestMeta(Kind, Version).ValidateSchema(config.ManifestMeta); err != nil {
		return nil, err
	}
	config.Raw = contents
	return &config, nil
}

func (c *Config) applyEnv() error {
	if triples, ok := utils.ListEnvVar(TargetTriplesEnvVar); ok {
		c.TargetTriples = triples
	}

	strict, ok, err := utils.BoolEnvVar(StrictOverridesEnvVar)
	if err != nil {
		return err
	}
	if ok {
		c.StrictOverrides = strict
	}

	if name, ok := os.LookupEnv(RepoRuleNameEnvVar); ok && name != "" {
		c.RenderConfig.RepoRuleName = name
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.TargetTriples) == 0 {
		c.TargetTriples = platform.DefaultTriples
	}
	c.TargetTriples = lo.Uniq(c.TargetTriples)

	if c.RenderConfig.RepoRuleName == "" {
		c.RenderConfig.RepoRuleName = DefaultRepoRuleName
	}
	if c.RenderConfig.RulesRustWorkspaceName == "" {
		c.RenderConfig.RulesRustWorkspaceName = renderer.DefaultRulesRustWorkspaceName
	}
}

func (c *Config) Validate() error {
	if err := platform.ValidateTriples(platform.Builtin{}, c.TargetTriples); err != nil {
		return err
	}
	return c.OverrideConfig().Validate()
}

// OverrideConfig returns a fresh, unclaimed set of the configured overrides
func (c *Config) OverrideConfig() *override.Config {
	return override.NewConfig(c.Overrides)
}
