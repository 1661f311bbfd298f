// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package extract // import "github.com/dagbench/benchparse/extract"

import (
	"strconv"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/parseerrors"
)

var (
	subscriberReceiveRule = newRule("subscriber_batch_received",
		`(.*?) .* Subscriber received a batch -> ([^ ]+=)`)
	handlerReceiveRule = newRule("handler_batch_received",
		`(.*?) .* Consensus handler received a batch -> ([^ ]+=)`)
	subdagSizeRule = newRule("subdag_batch_count",
		`.*? .* Received consensus_output has (\d+) batches at subdag_index (\d+).`)
	executionReceiveRule = newRule("execution_batch_received",
		`(.*?) .* Received Batch -> ([^ ]+=)`)
	batchExecutedRule = newRule("batch_executed",
		`(.*?) .* Executed Batch -> ([^ ]+=)`)
	abortRateRule = newRule("abort_counts",
		`Abort rate: \d+.\d+ \((\d+)/(\d+) aborted\)`)
)

// Execution is the execution-side record extracted from one primary log.
type Execution struct {
	// SubscriberReceive, HandlerReceive and ExecutionReceive map batch
	// digest to the earliest time each handoff stage saw it.
	SubscriberReceive map[event.Digest]float64
	HandlerReceive    map[event.Digest]float64
	ExecutionReceive  map[event.Digest]float64
	// Commits maps batch digest to the earliest execution-commit time.
	Commits map[event.Digest]float64
	// SubdagSizes maps subdag index to its delivered batch count.
	SubdagSizes map[int]int
	// Aborted and Total are parallel per-report abort counters. A log with
	// no abort reports yields one zero pair, never an error.
	Aborted []int
	Total   []int
}

// ParseExecution extracts the execution-side record from one primary log.
func ParseExecution(log string) (*Execution, error) {
	if err := checkAlive(primaryPanicRule, log, "primary"); err != nil {
		return nil, err
	}

	subscriber, err := subscriberReceiveRule.timedDigests(log)
	if err != nil {
		return nil, err
	}
	handler, err := handlerReceiveRule.timedDigests(log)
	if err != nil {
		return nil, err
	}
	received, err := executionReceiveRule.timedDigests(log)
	if err != nil {
		return nil, err
	}
	commits, err := batchExecutedRule.timedDigests(log)
	if err != nil {
		return nil, err
	}

	var sizeObs []event.Observation[int]
	for _, m := range subdagSizeRule.all(log) {
		size, err := strconv.Atoi(m[0])
		if err != nil {
			return nil, parseerrors.Wrap(err, subdagSizeRule.name)
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, parseerrors.Wrap(err, subdagSizeRule.name)
		}
		sizeObs = append(sizeObs, event.Observation[int]{Key: index, Time: float64(size)})
	}
	subdagSizes := make(map[int]int)
	for index, size := range event.ReduceMin(sizeObs) {
		subdagSizes[index] = int(size)
	}

	aborted, total := []int{0}, []int{0}
	if pairs := abortRateRule.all(log); len(pairs) > 0 {
		aborted, total = nil, nil
		for _, m := range pairs {
			a, err := strconv.Atoi(m[0])
			if err != nil {
				return nil, parseerrors.Wrap(err, abortRateRule.name)
			}
			t, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, parseerrors.Wrap(err, abortRateRule.name)
			}
			aborted = append(aborted, a)
			total = append(total, t)
		}
	}

	return &Execution{
		SubscriberReceive: subscriber,
		HandlerReceive:    handler,
		ExecutionReceive:  received,
		Commits:           commits,
		SubdagSizes:       subdagSizes,
		Aborted:           aborted,
		Total:             total,
	}, nil
}
