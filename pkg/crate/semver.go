// Copyright (c) 2017-2025 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package crate

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

type SemVer semver.Version

// ZeroVersion is the sentinel version of dependencies that reference bazel targets rather than crates
var ZeroVersion = NewSemVer(semver.New(0, 0, 0, "", ""))

func NewSemVer(v *semver.Version) *SemVer {
	a := SemVer(*v)
	return &a
}

func MustParseSemVer(s string) *SemVer {
	return NewSemVer(semver.MustParse(s))
}

func (v *SemVer) Value() semver.Version {
	return (semver.Version)(*v)
}

func (v *SemVer) String() string {
	if v == nil {
		return ""
	}
	value := v.Value()
	return value.String()
}

// Compare orders versions by semver precedence; nil sorts first
func (v *SemVer) Compare(other *SemVer) int {
	switch {
	case v == nil && other == nil:
		return 0
	case v == nil:
		return -1
	case other == nil:
		return 1
	}
	a, b := v.Value(), other.Value()
	return a.Compare(&b)
}

func (v *SemVer) UnmarshalYAML(data []byte) error {
	var versionStr string
	if err := yaml.Unmarshal(data, &versionStr); err != nil {
		return fmt.Errorf("failed to unmarshal 'version': %w", err)
	}
	parsedVersion, err := semver.NewVersion(versionStr)
	if err != nil {
		return fmt.Errorf("invalid semantic version %q: %w", versionStr, err)
	}
	*v = SemVer(*parsedVersion)
	return nil
}

func (v *SemVer) MarshalYAML() ([]byte, error) {
	return []byte(v.String()), nil
}

var _ yaml.BytesUnmarshaler = (*SemVer)(nil)
var _ yaml.BytesMarshaler = (*SemVer)(nil)
