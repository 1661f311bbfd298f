// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package extract // import "github.com/dagbench/benchparse/extract"

import (
	"strconv"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/parseerrors"
)

var (
	workerPanicRule = newRule("worker_panic", `panicked`)

	batchSizeRule     = newRule("batch_size_and_tx_count", `Batch ([^ ]+) contains (\d+) B with (\d+)`)
	batchSampleRule   = newRule("batch_sample_tx", `Batch ([^ ]+) contains sample tx (\d+)`)
	batchCreationRule = newRule("batch_creation_latency",
		`.* Batch ([^ ]+) took (\d+\.\d+) seconds to create due to .*`)
)

// Worker is everything the pipeline needs from one worker log.
type Worker struct {
	// Sizes maps batch digest to the batch's byte size.
	Sizes map[event.Digest]int
	// TxCounts maps batch digest to the number of transactions it holds.
	TxCounts map[event.Digest]int
	// ReceivedSamples maps sample transaction id to its containing batch.
	ReceivedSamples map[int]event.Digest
	// BatchCreationLatencies maps batch digest to its creation latency in
	// seconds.
	BatchCreationLatencies map[event.Digest]float64

	Address string
}

// ParseWorker extracts the worker record from one raw worker log.
func ParseWorker(log string) (*Worker, error) {
	if err := checkAlive(workerPanicRule, log, "worker"); err != nil {
		return nil, err
	}

	sizes := make(map[event.Digest]int)
	txCounts := make(map[event.Digest]int)
	for _, m := range batchSizeRule.all(log) {
		bytes, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, parseerrors.Wrap(err, batchSizeRule.name)
		}
		txs, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, parseerrors.Wrap(err, batchSizeRule.name)
		}
		sizes[event.Digest(m[0])] = bytes
		txCounts[event.Digest(m[0])] = txs
	}

	samples := make(map[int]event.Digest)
	for _, m := range batchSampleRule.all(log) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, parseerrors.Wrap(err, batchSampleRule.name)
		}
		samples[id] = event.Digest(m[0])
	}

	creation, err := batchCreationRule.digestFloats(log)
	if err != nil {
		return nil, err
	}

	m, err := bootAddressRule.one(log)
	if err != nil {
		return nil, err
	}

	return &Worker{
		Sizes:                  sizes,
		TxCounts:               txCounts,
		ReceivedSamples:        samples,
		BatchCreationLatencies: creation,
		Address:                m[0],
	}, nil
}
