// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dagbench/benchparse/extract"
	"github.com/dagbench/benchparse/parseerrors"
)

// FromDirectory loads the three log families from dir and runs the full
// analysis. Files are selected by name pattern and ordered
// lexicographically.
func FromDirectory(dir string, opts Options) (*Analyzer, error) {
	clients, err := readGroup(dir, "client-*.log")
	if err != nil {
		return nil, err
	}
	primaries, err := readGroup(dir, "primary-*.log")
	if err != nil {
		return nil, err
	}
	workers, err := readGroup(dir, "worker-*.log")
	if err != nil {
		return nil, err
	}
	return New(clients, primaries, workers, opts)
}

// Ports recovers the announced consensus API gRPC port from each primary
// log, in input order.
func Ports(primaries []string) ([]string, error) {
	return parseGroup("primaries", primaries, extract.ParsePort)
}

// PortsFromDirectory loads the primary logs from dir and recovers the
// announced consensus API gRPC port of each, in lexicographic file order.
func PortsFromDirectory(dir string) ([]string, error) {
	primaries, err := readGroup(dir, "primary-*.log")
	if err != nil {
		return nil, err
	}
	return Ports(primaries)
}

func readGroup(dir, pattern string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, parseerrors.Wrap(err, "bad log file pattern")
	}
	sort.Strings(paths)

	logs := make([]string, 0, len(paths))
	for _, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, parseerrors.Wrap(err, "reading log file")
		}
		logs = append(logs, string(text))
	}
	return logs, nil
}
