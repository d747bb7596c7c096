// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"slices"
	"strconv"
	"strings"

	"crateuniverse.dev/x/consolidator/pkg/crate"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

// Summary renders a table of the consolidated crates, one row per crate.
// Crates touched by an override are highlighted.
func (i *Input) Summary(overridden []string) string {
	packages := slices.Clone(i.Packages)
	slices.SortFunc(packages, func(a, b *crate.Context) int {
		if c := strings.Compare(a.PkgName, b.PkgName); c != 0 {
			return c
		}
		return a.PkgVersion.Compare(b.PkgVersion)
	})

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("", "CRATE", "VERSION", "FEATURES", "TARGETED", "ENV").
		Rows(lo.Map(packages, func(p *crate.Context, _ int) []string {
			indicator := ""
			name := p.PkgName
			if slices.Contains(overridden, p.PkgName) {
				indicator = "*"
				name = lipgloss.NewStyle().
					Foreground(lipgloss.Color("2")).
					Bold(true).
					Render(name)
			}

			return []string{
				indicator,
				name,
				p.PkgVersion.String(),
				strings.Join(p.Features, ","),
				strconv.Itoa(len(p.TargetedDeps)),
				strconv.Itoa(len(p.Settings.AdditionalEnv) + len(p.Settings.BuildScriptEnv)),
			}
		})...).
		String()
}
