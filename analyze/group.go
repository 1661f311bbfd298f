// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"

	"github.com/dagbench/benchparse/parseerrors"
)

// parseGroup scatters one extraction task per log onto a bounded pool and
// gathers the results in input order. Extractions are independent and share
// no mutable state. If any single log fails, the whole group is abandoned:
// partial results are discarded and one ParseError naming the group is
// returned, since a corrupted log invalidates confidence in the dataset.
func parseGroup[T any](group string, logs []string, parse func(string) (T, error)) ([]T, error) {
	if len(logs) == 0 {
		return nil, parseerrors.NewError(
			fmt.Sprintf("no %s logs to parse", group),
			"check the log directory and the file name patterns",
		)
	}

	results := make([]T, len(logs))
	errs := make([]error, len(logs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for i := range logs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = parse(logs[i])
		}(i)
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return nil, parseerrors.Wrap(err, fmt.Sprintf("failed to parse %s logs", group))
	}
	return results, nil
}
