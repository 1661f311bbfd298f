// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package extract // import "github.com/dagbench/benchparse/extract"

import (
	"strconv"

	"github.com/dagbench/benchparse/parseerrors"
	"github.com/dagbench/benchparse/timeparse"
)

var (
	clientPanicRule    = newRule("client_panic", `Error`)
	clientRateRule     = newRule("client_rate", `Transactions rate: (\d+)`)
	clientStartRule    = newRule("client_start", `(.*?) .* Start `)
	clientMissRule     = newRule("client_rate_miss", `rate too high`)
	clientSampleRule   = newRule("client_sample_tx", `(.*?) .* sample transaction (\d+)`)
	clientSkewnessRule = newRule("client_skewness", `Workload skewness: (\d+\.\d+)`)
)

// Client is everything the pipeline needs from one client log.
type Client struct {
	// Rate is the target transaction submission rate in tx/s.
	Rate int
	// Start is the wall-clock epoch time at which the client began sending.
	Start float64
	// Misses counts how often the client fell behind its target rate.
	Misses int
	// SentSamples maps sample transaction id to its send time.
	SentSamples map[int]float64
	// Skewness is the workload skew coefficient.
	Skewness float64
}

// ParseClient extracts the client record from one raw client log.
func ParseClient(log string) (*Client, error) {
	if err := checkAlive(clientPanicRule, log, "client"); err != nil {
		return nil, err
	}

	rate, err := clientRateRule.intField(log)
	if err != nil {
		return nil, err
	}

	m, err := clientStartRule.one(log)
	if err != nil {
		return nil, err
	}
	start, err := timeparse.ToEpoch(m[0])
	if err != nil {
		return nil, parseerrors.Wrap(err, clientStartRule.name)
	}

	samples := make(map[int]float64)
	for _, m := range clientSampleRule.all(log) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, parseerrors.Wrap(err, clientSampleRule.name)
		}
		t, err := timeparse.ToEpoch(m[0])
		if err != nil {
			return nil, parseerrors.Wrap(err, clientSampleRule.name)
		}
		samples[id] = t
	}

	skewness, err := clientSkewnessRule.floatField(log)
	if err != nil {
		return nil, err
	}

	return &Client{
		Rate:        rate,
		Start:       start,
		Misses:      clientMissRule.count(log),
		SentSamples: samples,
		Skewness:    skewness,
	}, nil
}
