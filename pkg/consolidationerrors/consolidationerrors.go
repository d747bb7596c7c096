// Copyright (c) 2017-2025 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package consolidationerrors

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DuplicateCrates    = "DUPLICATE_CRATES"
	UnresolvableTarget = "UNRESOLVABLE_TARGET"
	UnclaimedOverrides = "UNCLAIMED_OVERRIDES"
	MalformedGraph     = "MALFORMED_GRAPH"
	MalformedConfig    = "MALFORMED_CONFIG"
	UnknownError       = "UNKNOWN_ERROR"
)

type ConsolidationError struct {
	Code  string
	Cause error
}

func (c *ConsolidationError) Error() string {
	if c.Cause != nil {
		return c.Code + ": " + c.Cause.Error()
	}
	return c.Code
}

// IsFatal reports whether the error stems from a malformed override that can't be
// recovered from mid-consolidation. Fatal errors must stop generation.
func (c *ConsolidationError) IsFatal() bool {
	return c.Code == UnresolvableTarget
}

func (c *ConsolidationError) MarshalYAML() (interface{}, error) {
	var causeStr string
	if c.Cause != nil {
		causeStr = c.Cause.Error()
	}
	return map[string]interface{}{
		"code":  c.Code,
		"cause": causeStr,
		"fatal": c.IsFatal(),
	}, nil
}

func (c *ConsolidationError) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var aux struct {
		Code  string `yaml:"code"`
		Cause string `yaml:"cause"`
	}
	if err := unmarshal(&aux); err != nil {
		return err
	}
	c.Code = aux.Code
	if aux.Cause != "" {
		c.Cause = errors.New(aux.Cause)
	}
	return nil
}

func (c *ConsolidationError) Unwrap() error {
	return c.Cause
}

var _ error = (*ConsolidationError)(nil)

func NewDuplicateCratesError(duplicates []string) *ConsolidationError {
	plural := ""
	if len(duplicates) != 1 {
		plural = "s"
	}
	return &ConsolidationError{
		Code:  DuplicateCrates,
		Cause: fmt.Errorf("Got duplicate source%s for identical crate name and version combination%s: %s", plural, plural, strings.Join(duplicates, ", ")),
	}
}

func NewUnresolvableTargetError(target string) *ConsolidationError {
	return &ConsolidationError{
		Code:  UnresolvableTarget,
		Cause: fmt.Errorf("target %q in rule attribute doesn't map to any triple", target),
	}
}

func NewUnclaimedOverridesError(crateNames []string) *ConsolidationError {
	return &ConsolidationError{
		Code:  UnclaimedOverrides,
		Cause: fmt.Errorf("overrides were given for crates that aren't in the resolved graph: %v", crateNames),
	}
}

func NewMalformedGraphError(cause error) *ConsolidationError {
	return &ConsolidationError{
		Code:  MalformedGraph,
		Cause: cause,
	}
}

func NewMalformedConfigError(cause error) *ConsolidationError {
	return &ConsolidationError{
		Code:  MalformedConfig,
		Cause: cause,
	}
}

func NewUnknownError(cause error) *ConsolidationError {
	return &ConsolidationError{
		Code:  UnknownError,
		Cause: cause,
	}
}

func Standardize(err error) *ConsolidationError {
	if err == nil {
		return nil
	}

	var conErr *ConsolidationError
	if errors.As(err, &conErr) {
		return conErr
	}

	return NewUnknownError(err)
}

// IsFatal reports whether err carries a fatal ConsolidationError anywhere in its chain
func IsFatal(err error) bool {
	var conErr *ConsolidationError
	return errors.As(err, &conErr) && conErr.IsFatal()
}
