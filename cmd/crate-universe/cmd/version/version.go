// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"encoding/json"
	"fmt"
	"strings"

	"crateuniverse.dev/x/consolidator/pkg/version"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			switch output {
			case "yaml":
				data, err = yaml.Marshal(version.Get())
			case "json":
				data, err = json.MarshalIndent(version.Get(), "", "    ")
			default:
				return fmt.Errorf("output format not supported: %s", output)
			}
			if err != nil {
				return err
			}
			cmd.Println(strings.TrimSpace(string(data)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: json, yaml")
	return cmd
}
