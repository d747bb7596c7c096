// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"crateuniverse.dev/x/consolidator/cmd/crate-universe/cmd/consolidate"
	"crateuniverse.dev/x/consolidator/cmd/crate-universe/cmd/triples"
	versionCmd "crateuniverse.dev/x/consolidator/cmd/crate-universe/cmd/version"
	"crateuniverse.dev/x/consolidator/pkg/logging"
	"crateuniverse.dev/x/consolidator/pkg/version"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const Name = "crate-universe"

// Invocation carries the process streams and arguments a command tree runs with
type Invocation struct {
	Stderr, Stdout io.Writer
	Stdin          io.Reader
	// must contain at least one argument, namely the binary name, similar to os.Args
	OsArgs []string
}

func (inv *Invocation) SetOutputStreams(cmd *cobra.Command) {
	cmd.SetOut(inv.Stdout)
	cmd.SetErr(inv.Stderr)
	cmd.SetIn(inv.Stdin)

	lo.ForEach(cmd.Commands(), func(sub *cobra.Command, _ int) {
		inv.SetOutputStreams(sub)
	})
}

func RootCmd(inv *Invocation) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   Name,
		Short: "consolidate a resolved crate graph with user overrides into renderer input",
	}

	defer inv.SetOutputStreams(cmd)

	if len(inv.OsArgs) == 0 {
		return nil, fmt.Errorf("Invocation.OsArgs must contain at least one entry similar to os.Args")
	}
	cmd.SetArgs(inv.OsArgs[1:])

	logOutput := inv.Stderr
	if logOutput == nil {
		logOutput = os.Stderr
	}
	if err := logging.InitLoggingTo(logOutput); err != nil {
		return nil, err
	}

	cmd.AddCommand(
		consolidate.Cmd(),
		triples.Cmd(),
		versionCmd.Cmd(),
	)

	v, err := yaml.Marshal(version.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(v)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}
