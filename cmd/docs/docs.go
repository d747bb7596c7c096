// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	crateuniverse "crateuniverse.dev/x/consolidator/cmd/crate-universe/cmd"
	"crateuniverse.dev/x/consolidator/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	if err := getDocsCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func getDocsCmd() *cobra.Command {
	var format string

	docsCmd := &cobra.Command{
		Use:   "docs <output dir>",
		Short: "generate crate-universe CLI commands reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			var useRst bool
			switch format {
			case "rst":
				useRst = true
			case "md":
				useRst = false
			default:
				return fmt.Errorf("only --format rst or --format md are supported")
			}

			if err := genDocs(dir, useRst); err != nil {
				cmd.SilenceUsage = true
				return err
			}

			cmd.Printf("successfully generated at %s\n", dir)
			return nil
		},
	}

	docsCmd.Flags().StringVar(&format, "format", "", "(required) md or rst")
	_ = docsCmd.MarkFlagRequired("format")

	return docsCmd
}

func genDocs(dir string, useRst bool) error {
	root, err := crateuniverse.RootCmd(&crateuniverse.Invocation{OsArgs: []string{crateuniverse.Name}})
	if err != nil {
		return err
	}
	root.DisableAutoGenTag = true

	if err := utils.EnsureDirs(dir); err != nil {
		return err
	}

	if useRst {
		if err := doc.GenReSTTreeCustom(root, dir, prependRSTHeader, linkHandler); err != nil {
			return err
		}
		return generateTOC(dir)
	}
	return doc.GenMarkdownTreeCustom(root, dir, prependFrontMatter, func(s string) string {
		return s
	})
}

func title(filename, ext string) string {
	return strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), ext), "_", " ")
}

// add a Jekyll/Just-the-Docs front-matter block
func prependFrontMatter(filename string) string {
	return fmt.Sprintf(`---
layout: default
title: %s
parent: CLI reference
---

`, title(filename, ".md"))
}

func prependRSTHeader(filename string) string {
	t := title(filename, ".rst")
	return fmt.Sprintf("%s\n%s\n\n", t, strings.Repeat("=", len(t)))
}

func linkHandler(name, ref string) string {
	return fmt.Sprintf(":ref:`%s <%s>`", name, ref)
}

func generateTOC(outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("error reading output directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(".. toctree::\n   :maxdepth: 2\n   :caption: CLI Reference:\n\n")
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".rst" && e.Name() != "index.rst" {
			sb.WriteString("   " + strings.TrimSuffix(e.Name(), ".rst") + "\n")
		}
	}
	return os.WriteFile(filepath.Join(outputDir, "index.rst"), []byte(sb.String()), 0o644)
}
