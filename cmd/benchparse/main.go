// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package main // import "github.com/dagbench/benchparse/cmd/benchparse"

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dagbench/benchparse/analyze"
	"github.com/dagbench/benchparse/report"
)

var cfg = NewConfig()

// rootCmd is the root command on which will be run children commands
var rootCmd = &cobra.Command{
	Use:   "benchparse",
	Short: "Benchparse derives performance statistics from benchmark log captures",
	Example: "benchparse report --logs ./logs --execution-model nezha --concurrency-level 8\n" +
		"benchparse ports --logs ./logs",
}

// reportCmd parses a full log capture and renders the summary
var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Parse a benchmark log capture and render its summary",
	Example: "benchparse report --logs ./logs -o results.txt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.LoadSettings(cmd.Flags()); err != nil {
			return err
		}

		model, err := analyze.ParseExecutionModel(cfg.ExecutionModel)
		if err != nil {
			return err
		}

		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to obtain logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck

		a, err := analyze.FromDirectory(cfg.LogDir, analyze.Options{
			ExecutionModel:   model,
			Faults:           cfg.Faults,
			ConcurrencyLevel: cfg.ConcurrencyLevel,
			Logger:           logger.Sugar(),
		})
		if err != nil {
			return err
		}

		summary := report.Render(a.Metrics())
		fmt.Print(summary)

		if cfg.OutputFile != "" {
			return report.Append(cfg.OutputFile, a.Metrics())
		}
		return nil
	},
}

// portsCmd recovers the consensus API gRPC port of each primary
var portsCmd = &cobra.Command{
	Use:     "ports",
	Short:   "Recover the consensus API gRPC port announced by each primary",
	Example: "benchparse ports --logs ./logs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.LoadSettings(cmd.Flags()); err != nil {
			return err
		}

		ports, err := analyze.PortsFromDirectory(cfg.LogDir)
		if err != nil {
			return err
		}
		for i, port := range ports {
			fmt.Printf("primary %d: %s\n", i, port)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd, portsCmd)
	cfg.Flags(reportCmd.Flags())
	cfg.Flags(portsCmd.Flags())

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
