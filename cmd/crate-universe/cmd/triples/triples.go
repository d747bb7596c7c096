// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package triples

import (
	"encoding/json"
	"fmt"

	"crateuniverse.dev/x/consolidator/pkg/config"
	"crateuniverse.dev/x/consolidator/pkg/platform"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	var cfgExpr, configPath, output string
	var configuredOnly bool

	cmd := &cobra.Command{
		Use:   "triples",
		Short: "list the supported target triples",
		Long: `list the supported target triples

	triples selected by the consolidator config are marked with '*'.
	with --cfg, only the triples satisfying the cfg(...) expression are listed.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Get(configPath)
			if err != nil {
				return err
			}

			triples := platform.All()
			if configuredOnly {
				triples = lo.Filter(triples, func(t *platform.Triple, _ int) bool {
					return lo.Contains(conf.TargetTriples, t.Triple)
				})
			}

			if cfgExpr != "" {
				names := lo.Map(triples, func(t *platform.Triple, _ int) string { return t.Triple })
				matching, err := platform.Builtin{}.Matching(cfgExpr, names)
				if err != nil {
					return err
				}
				triples = lo.Filter(triples, func(t *platform.Triple, _ int) bool {
					return lo.Contains(matching, t.Triple)
				})
			}

			switch output {
			case "table":
				cmd.Println(platform.Table(triples, conf.TargetTriples))
			case "json":
				data, err := json.MarshalIndent(triples, "", "    ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
			default:
				return fmt.Errorf("output format not supported: %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgExpr, "cfg", "", `only list triples satisfying a cfg expression, e.g. 'cfg(unix)'`)
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the consolidator config file")
	cmd.Flags().BoolVar(&configuredOnly, "configured", false, "only list the configured target triples")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: json, table")
	return cmd
}
