// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"
	"slices"
	"strconv"

	"crateuniverse.dev/x/consolidator/pkg/cfgexpr"
	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
	"github.com/samber/lo"
)

// Universe is the closed set of recognized target triples
type Universe interface {
	// IsBuiltin reports whether triple names a recognized platform
	IsBuiltin(triple string) bool
	// Matching returns the triples of filter that satisfy the cfg(...) expression, sorted
	Matching(expr string, filter []string) ([]string, error)
}

type Triple struct {
	Triple       string   `json:"triple"`
	Arch         string   `json:"arch"`
	Vendor       string   `json:"vendor"`
	OS           string   `json:"os"`
	Env          string   `json:"env,omitempty"`
	Families     []string `json:"families,omitempty"`
	PointerWidth int      `json:"pointerWidth"`
	Endian       string   `json:"endian"`
}

func (t *Triple) String() string {
	return t.Triple
}

// Satisfies evaluates a single cfg predicate against this triple.
// Unknown keys and flags never match.
func (t *Triple) Satisfies(p cfgexpr.Predicate) bool {
	if !p.HasValue {
		// bare flags are the target families, e.g. cfg(unix)
		return slices.Contains(t.Families, p.Key)
	}

	switch p.Key {
	case "target_arch":
		return t.Arch == p.Value
	case "target_vendor":
		return t.Vendor == p.Value
	case "target_os":
		return t.OS == p.Value
	case "target_env":
		return t.Env == p.Value
	case "target_family":
		return slices.Contains(t.Families, p.Value)
	case "target_pointer_width":
		return strconv.Itoa(t.PointerWidth) == p.Value
	case "target_endian":
		return t.Endian == p.Value
	default:
		return false
	}
}

var (
	unix    = []string{"unix"}
	windows = []string{"windows"}
	wasm    = []string{"wasm"}
)

var builtins = []*Triple{
	{"aarch64-apple-darwin", "aarch64", "apple", "macos", "", unix, 64, "little"},
	{"aarch64-apple-ios", "aarch64", "apple", "ios", "", unix, 64, "little"},
	{"aarch64-linux-android", "aarch64", "unknown", "android", "", unix, 64, "little"},
	{"aarch64-pc-windows-msvc", "aarch64", "pc", "windows", "msvc", windows, 64, "little"},
	{"aarch64-unknown-linux-gnu", "aarch64", "unknown", "linux", "gnu", unix, 64, "little"},
	{"aarch64-unknown-linux-musl", "aarch64", "unknown", "linux", "musl", unix, 64, "little"},
	{"arm-unknown-linux-gnueabi", "arm", "unknown", "linux", "gnu", unix, 32, "little"},
	{"armv7-unknown-linux-gnueabihf", "arm", "unknown", "linux", "gnu", unix, 32, "little"},
	{"i686-apple-darwin", "x86", "apple", "macos", "", unix, 32, "little"},
	{"i686-linux-android", "x86", "unknown", "android", "", unix, 32, "little"},
	{"i686-pc-windows-msvc", "x86", "pc", "windows", "msvc", windows, 32, "little"},
	{"i686-unknown-freebsd", "x86", "unknown", "freebsd", "", unix, 32, "little"},
	{"i686-unknown-linux-gnu", "x86", "unknown", "linux", "gnu", unix, 32, "little"},
	{"powerpc-unknown-linux-gnu", "powerpc", "unknown", "linux", "gnu", unix, 32, "big"},
	{"riscv64gc-unknown-linux-gnu", "riscv64", "unknown", "linux", "gnu", unix, 64, "little"},
	{"s390x-unknown-linux-gnu", "s390x", "unknown", "linux", "gnu", unix, 64, "big"},
	{"wasm32-unknown-unknown", "wasm32", "unknown", "unknown", "", wasm, 32, "little"},
	{"wasm32-wasi", "wasm32", "unknown", "wasi", "", wasm, 32, "little"},
	{"x86_64-apple-darwin", "x86_64", "apple", "macos", "", unix, 64, "little"},
	{"x86_64-apple-ios", "x86_64", "apple", "ios", "", unix, 64, "little"},
	{"x86_64-linux-android", "x86_64", "unknown", "android", "", unix, 64, "little"},
	{"x86_64-pc-windows-gnu", "x86_64", "pc", "windows", "gnu", windows, 64, "little"},
	{"x86_64-pc-windows-msvc", "x86_64", "pc", "windows", "msvc", windows, 64, "little"},
	{"x86_64-unknown-freebsd", "x86_64", "unknown", "freebsd", "", unix, 64, "little"},
	{"x86_64-unknown-linux-gnu", "x86_64", "unknown", "linux", "gnu", unix, 64, "little"},
	{"x86_64-unknown-linux-musl", "x86_64", "unknown", "linux", "musl", unix, 64, "little"},
}

var byTriple = lo.KeyBy(builtins, func(t *Triple) string { return t.Triple })

// DefaultTriples are the triples targeted when none are configured
var DefaultTriples = []string{
	"aarch64-apple-darwin",
	"aarch64-unknown-linux-gnu",
	"x86_64-apple-darwin",
	"x86_64-pc-windows-msvc",
	"x86_64-unknown-freebsd",
	"x86_64-unknown-linux-gnu",
}

// ByTriple looks up a builtin triple
func ByTriple(triple string) (*Triple, bool) {
	t, ok := byTriple[triple]
	return t, ok
}

// All returns every builtin triple, sorted by name
func All() []*Triple {
	return slices.Clone(builtins)
}

// Builtin is the Universe backed by the builtin triple registry
type Builtin struct{}

func (Builtin) IsBuiltin(triple string) bool {
	_, ok := byTriple[triple]
	return ok
}

func (Builtin) Matching(expr string, filter []string) ([]string, error) {
	parsed, err := cfgexpr.Parse(expr)
	if err != nil {
		return nil, err
	}

	allowed := make(stringset.StringSet)
	for _, f := range filter {
		allowed.Add(f)
	}

	return lo.FilterMap(builtins, func(t *Triple, _ int) (string, bool) {
		if !allowed.Contains(t.Triple) {
			return "", false
		}
		return t.Triple, parsed.Eval(t.Satisfies)
	}), nil
}

// ValidateTriples fails on the first triple that isn't builtin
func ValidateTriples(u Universe, triples []string) error {
	for _, t := range triples {
		if !u.IsBuiltin(t) {
			return fmt.Errorf("unsupported target triple %q", t)
		}
	}
	return nil
}

var _ Universe = Builtin{}
