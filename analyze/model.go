// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"fmt"
	"strings"
)

// ExecutionModel names the execution layer variant under test.
type ExecutionModel string

const (
	// Serial executes committed batches one transaction at a time.
	Serial ExecutionModel = "serial"
	// Nezha is the concurrency-controlled parallel execution model. It is
	// the only model for which a concurrency level applies.
	Nezha ExecutionModel = "nezha"
	// BlockSTM is the optimistic STM parallel execution model.
	BlockSTM ExecutionModel = "blockstm"
	// OptME is the optimistic multi-version parallel execution model.
	OptME ExecutionModel = "optme"
)

// ParseExecutionModel converts a user-supplied string to an ExecutionModel.
func ParseExecutionModel(s string) (ExecutionModel, error) {
	switch m := ExecutionModel(strings.ToLower(s)); m {
	case Serial, Nezha, BlockSTM, OptME:
		return m, nil
	default:
		return "", fmt.Errorf("unknown execution model %q", s)
	}
}

func (m ExecutionModel) String() string { return string(m) }
