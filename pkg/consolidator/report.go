// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package consolidator

import (
	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/schema"
	"github.com/google/uuid"
)

const (
	ReportKind    = "ConsolidationReport"
	ReportVersion = "v1"
)

// Report is a machine readable outcome of a consolidation, successful or not
type Report struct {
	schema.ManifestMeta `yaml:",inline"`
	// RunID ties the report to the log lines of the same run
	RunID              string                                    `yaml:"run-id"`
	Digest             string                                    `yaml:"digest,omitempty"`
	Errors             []*consolidationerrors.ConsolidationError `yaml:"errors,omitempty"`
	Overridden         []string                                  `yaml:"overridden,omitempty"`
	UnclaimedOverrides []string                                  `yaml:"unclaimed-overrides,omitempty"`
}

func NewReport(result *Result, err error) *Report {
	r := &Report{
		ManifestMeta: schema.NewManifestMeta(ReportKind, ReportVersion),
		RunID:        uuid.NewString(),
	}
	r.Record(result, err)
	return r
}

// Record adds the outcome of Consolidate to the report
func (r *Report) Record(result *Result, err error) {
	if err != nil {
		r.Errors = append(r.Errors, consolidationerrors.Standardize(err))
	}
	if result != nil {
		r.Digest = result.Input.Digest
		r.Overridden = result.Overridden
		r.UnclaimedOverrides = result.UnclaimedOverrides
	}
}
