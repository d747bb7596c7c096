// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package consolidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"crateuniverse.dev/x/consolidator/pkg/config"
	"crateuniverse.dev/x/consolidator/pkg/consolidationerrors"
	"crateuniverse.dev/x/consolidator/pkg/consolidator"
	"crateuniverse.dev/x/consolidator/pkg/digest"
	"crateuniverse.dev/x/consolidator/pkg/graph"
	"crateuniverse.dev/x/consolidator/pkg/utils"
	"crateuniverse.dev/x/consolidator/pkg/watch"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

type options struct {
	graphPath  string
	configPath string
	outPath    string
	reportPath string
	summary    bool
	watch      bool
}

// runAndReport consolidates once, writing the report if requested
func runAndReport(cmd *cobra.Command, opts *options) error {
	report := consolidator.NewReport(nil, nil)
	logger := slog.With("run", report.RunID)

	result, err := run(cmd, opts)
	report.Record(result, err)

	if opts.reportPath != "" {
		if reportErr := writeReport(cmd.Context(), opts.reportPath, report); reportErr != nil {
			logger.Error("failed to write consolidation report", "path", opts.reportPath, "error", reportErr)
		}
	}

	if err != nil {
		if consolidationerrors.IsFatal(err) {
			logger.Error("consolidation aborted", "error", err)
		} else if opts.watch {
			logger.Error("consolidation failed", "error", err)
		}
		return err
	}
	logger.Debug("consolidation finished", "digest", result.Input.Digest)
	return nil
}

func Cmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "apply overrides to a resolved crate graph and write the renderer input",
		Long: `apply overrides to a resolved crate graph and write the renderer input

	the renderer input is printed to stdout unless --out is given.
	no renderer input is written if consolidation fails.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAndReport(cmd, &opts)
			if !opts.watch {
				if err != nil {
					cmd.SilenceUsage = true
				}
				return err
			}

			files := []string{opts.graphPath}
			if opts.configPath != "" {
				files = append(files, opts.configPath)
			}
			cmd.PrintErrln(color.CyanString("👀 Watching %s for changes", strings.Join(files, ", ")))
			return watch.Files(cmd.Context(), files, watch.DefaultDebounce, func(ctx context.Context) {
				_ = runAndReport(cmd, &opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.graphPath, "graph", "g", "", "(required) path to the resolved graph")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to the consolidator config file")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "path to write the renderer input to")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "path to write a consolidation report to, also on failure")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a table of the consolidated crates")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "consolidate again whenever the graph or config file changes")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

func run(cmd *cobra.Command, opts *options) (*consolidator.Result, error) {
	conf, err := config.Get(opts.configPath)
	if err != nil {
		return nil, err
	}

	g, graphBytes, err := graph.Read(opts.graphPath)
	if errors.Is(err, graph.ErrInvalidGraph) {
		return nil, consolidationerrors.NewMalformedGraphError(err)
	} else if err != nil {
		return nil, err
	}

	c := consolidator.NewFromGraph(
		conf.OverrideConfig(),
		conf.RenderConfig,
		digest.Compute(graphBytes, conf.Raw),
		conf.TargetTriples,
		g,
		consolidator.WithStrictOverrides(conf.StrictOverrides),
	)
	result, err := c.Consolidate()
	if err != nil {
		return nil, err
	}

	for _, name := range result.UnclaimedOverrides {
		cmd.PrintErrln(color.YellowString("⚠ override for %q matched no crate in the graph", name))
	}

	if opts.outPath == "" {
		bytes, err := result.Input.Marshal()
		if err != nil {
			return nil, err
		}
		cmd.Print(string(bytes))
		if opts.summary {
			cmd.PrintErrln(result.Input.Summary(result.Overridden))
		}
		return result, nil
	}

	if err := result.Input.WriteFile(cmd.Context(), opts.outPath); err != nil {
		return nil, err
	}
	cmd.Println("✅ Renderer input written to " + color.GreenString(opts.outPath))
	if opts.summary {
		cmd.Println(result.Input.Summary(result.Overridden))
	}
	return result, nil
}

func writeReport(ctx context.Context, path string, report *consolidator.Report) error {
	bytes, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return utils.WriteFileLocked(ctx, path, bytes)
}
