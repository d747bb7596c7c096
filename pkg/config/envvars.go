// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

const envVarPrefix = "CRATE_UNIVERSE_"

const (
	// LogLevelEnvVar
	// CRATE_UNIVERSE_LOG_LEVEL sets the log level.
	// 	Default: info
	//  Possible values: debug info warn error
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// ConfigPathEnvVar
	// CRATE_UNIVERSE_CONFIG is the path to the consolidator config file,
	// used when none is passed on the command line
	ConfigPathEnvVar = envVarPrefix + "CONFIG"

	// TargetTriplesEnvVar
	// CRATE_UNIVERSE_TARGET_TRIPLES is a comma separated list of the triples to generate for.
	// It replaces the list from the config file.
	TargetTriplesEnvVar = envVarPrefix + "TARGET_TRIPLES"

	// StrictOverridesEnvVar
	// CRATE_UNIVERSE_STRICT_OVERRIDES makes overrides for crates missing from the graph an error
	StrictOverridesEnvVar = envVarPrefix + "STRICT_OVERRIDES"

	// RepoRuleNameEnvVar
	// CRATE_UNIVERSE_REPO_RULE_NAME overrides the repository rule name the BUILD files are rendered for
	RepoRuleNameEnvVar = envVarPrefix + "REPO_RULE_NAME"
)
