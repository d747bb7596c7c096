// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"strconv"
	"strings"

	"crateuniverse.dev/x/consolidator/pkg/utils/stringset"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

// Table renders triples one per row. Configured triples are marked and
// highlighted, the rest are dimmed.
func Table(triples []*Triple, configured []string) string {
	selected := stringset.Of(configured...)

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("", "TRIPLE", "ARCH", "OS", "ENV", "FAMILY", "WIDTH").
		Rows(lo.Map(triples, func(t *Triple, _ int) []string {
			indicator := ""
			name := t.Triple

			if selected.Contains(t.Triple) {
				indicator = "*"
				name = lipgloss.NewStyle().
					Foreground(lipgloss.Color("2")).
					Bold(true).
					Render(name)
			} else {
				name = lipgloss.NewStyle().
					Faint(true).
					Italic(true).
					Render(name)
			}

			return []string{
				indicator,
				name,
				t.Arch,
				t.OS,
				t.Env,
				strings.Join(t.Families, ","),
				strconv.Itoa(t.PointerWidth),
			}
		})...).
		String()
}
