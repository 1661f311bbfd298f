// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package main // import "github.com/dagbench/benchparse/cmd/benchparse"

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Config holds the command line options shared by the subcommands.
type Config struct {
	LogDir           string
	ExecutionModel   string
	Faults           int
	ConcurrencyLevel int
	OutputFile       string
	Settings         string
}

// NewConfig returns a config with default values.
func NewConfig() *Config {
	return &Config{
		LogDir:           "logs",
		ExecutionModel:   "serial",
		Faults:           0,
		ConcurrencyLevel: 1,
	}
}

// Flags registers the config fields on the given flag set.
func (c *Config) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&c.LogDir, "logs", c.LogDir,
		"directory holding the client-*.log, primary-*.log and worker-*.log captures")
	fs.StringVar(&c.ExecutionModel, "execution-model", c.ExecutionModel,
		"execution model under test (serial, nezha, blockstm, optme)")
	fs.IntVar(&c.Faults, "faults", c.Faults,
		"number of faulty nodes declared for the run")
	fs.IntVar(&c.ConcurrencyLevel, "concurrency-level", c.ConcurrencyLevel,
		"execution concurrency level (nezha only)")
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile,
		"file to append the summary to; stdout only when empty")
	fs.StringVar(&c.Settings, "settings", c.Settings,
		"TOML settings file providing defaults for the other flags")
}

// settings mirrors the flag fields in a TOML settings file. Pointer fields
// distinguish absent keys from zero values.
type settings struct {
	Logs             *string `toml:"logs"`
	ExecutionModel   *string `toml:"execution_model"`
	Faults           *int    `toml:"faults"`
	ConcurrencyLevel *int    `toml:"concurrency_level"`
	Output           *string `toml:"output"`
}

// LoadSettings applies the settings file to every flag the user did not set
// explicitly. Flags always win over the file.
func (c *Config) LoadSettings(fs *pflag.FlagSet) error {
	if c.Settings == "" {
		return nil
	}

	var s settings
	if _, err := toml.DecodeFile(c.Settings, &s); err != nil {
		return fmt.Errorf("loading settings file: %w", err)
	}

	if s.Logs != nil && !fs.Changed("logs") {
		c.LogDir = *s.Logs
	}
	if s.ExecutionModel != nil && !fs.Changed("execution-model") {
		c.ExecutionModel = *s.ExecutionModel
	}
	if s.Faults != nil && !fs.Changed("faults") {
		c.Faults = *s.Faults
	}
	if s.ConcurrencyLevel != nil && !fs.Changed("concurrency-level") {
		c.ConcurrencyLevel = *s.ConcurrencyLevel
	}
	if s.Output != nil && !fs.Changed("output") {
		c.OutputFile = *s.Output
	}
	return nil
}
