// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"gonum.org/v1/gonum/stat"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/extract"
)

// Unavailable marks an auxiliary latency for which no sample was observed.
// Optional stages report 0 instead; the distinction only matters to the
// renderer.
const Unavailable = -1

// Bundle is the final statistics artifact of one benchmark run. Latencies
// are in milliseconds, throughputs in tx/s and B/s, durations in seconds.
type Bundle struct {
	// Run configuration.
	Faults           int
	CommitteeSize    int
	WorkersPerNode   int
	Collocate        bool
	InputRate        int
	Skewness         float64
	ExecutionModel   ExecutionModel
	ConcurrencyLevel int
	Config           extract.Config

	// Duration is the consensus window length in seconds.
	Duration float64

	// Consensus stage.
	ConsensusTPS     float64
	ConsensusBPS     float64
	ConsensusLatency float64

	// Execution stage.
	ExecutionTPS                float64
	ExecutionBPS                float64
	ExecutionDuration           float64
	ExecutionLatency            float64
	ConsensusToExecutionLatency float64
	SubscriberLatency           float64
	HandlerLatency              float64
	BatchExecutionLatency       float64
	AbortRatePercent            float64
	EffectiveTPS                float64

	// End to end.
	EndToEndTPS     float64
	EndToEndBPS     float64
	EndToEndLatency float64

	// Auxiliary mean latencies; Unavailable when no sample was observed.
	BatchCreationLatency       float64
	HeaderCreationLatency      float64
	BatchToHeaderLatency       float64
	HeaderToCertLatency        float64
	CertCommitLatency          float64
	RequestVoteOutboundLatency float64

	// Dataset shape.
	AvgBatchSizeBytes       float64
	AvgSubdagSize           float64
	MaxSubdagSize           int
	MinSubdagSize           int
	AvgTransactionSizeBytes float64
	ActualSendRate          float64
	TotalSent               int
	TotalReceived           int
	TotalOrdered            int
	TotalCommitted          int
}

// Metrics derives the statistics bundle from the reconciled timelines.
// The receiver is not modified; calling Metrics twice yields equal bundles.
func (a *Analyzer) Metrics() Bundle {
	consensusTPS, consensusBPS, duration := a.consensusThroughput()
	executionTPS, executionBPS, executionDuration := a.executionThroughput()
	endToEndTPS, endToEndBPS, _ := a.endToEndThroughput()

	abortRate := 0.0
	if a.aborted > 0 && a.total > 0 {
		abortRate = a.aborted / a.total
	}
	effectiveTPS := executionTPS
	if a.aborted > 0 {
		effectiveTPS = executionTPS * (1 - abortRate)
	}

	actualSendRate := 0.0
	if duration > 0 {
		actualSendRate = float64(a.totalSent) / duration
	}

	avgTxSize := 0.0
	if a.totalOrdered > 0 {
		avgTxSize = float64(sumSizes(a.sizes)) / float64(a.totalOrdered)
	}

	avgSubdag, maxSubdag, minSubdag := subdagStats(a.subdagSizes)

	return Bundle{
		Faults:           a.faults,
		CommitteeSize:    a.committeeSize,
		WorkersPerNode:   a.workersPerNode,
		Collocate:        a.collocate,
		InputRate:        sumInts(a.rates),
		Skewness:         a.skewness,
		ExecutionModel:   a.executionModel,
		ConcurrencyLevel: a.concurrencyLevel,
		Config:           a.config,

		Duration: duration,

		ConsensusTPS:     consensusTPS,
		ConsensusBPS:     consensusBPS,
		ConsensusLatency: meanGap(a.proposals, a.orders) * 1000,

		ExecutionTPS:                executionTPS,
		ExecutionBPS:                executionBPS,
		ExecutionDuration:           executionDuration,
		ExecutionLatency:            meanGap(a.orders, a.commits) * 1000,
		ConsensusToExecutionLatency: meanGap(a.orders, a.subscriberReceive) * 1000,
		SubscriberLatency:           meanGap(a.subscriberReceive, a.handlerReceive) * 1000,
		HandlerLatency:              meanGap(a.handlerReceive, a.executionReceive) * 1000,
		BatchExecutionLatency:       meanGap(a.executionReceive, a.commits) * 1000,
		AbortRatePercent:            abortRate * 100,
		EffectiveTPS:                effectiveTPS,

		EndToEndTPS:     endToEndTPS,
		EndToEndBPS:     endToEndBPS,
		EndToEndLatency: a.endToEndLatency() * 1000,

		BatchCreationLatency:       scaledMean(values(a.batchCreationLatencies), 1000),
		HeaderCreationLatency:      scaledMean(values(a.headerCreationLatencies), 1000),
		BatchToHeaderLatency:       scaledMean(values(a.batchToHeaderLatencies), 1000),
		HeaderToCertLatency:        scaledMean(values(a.headerToCertLatencies), 1000),
		CertCommitLatency:          scaledMean(values(a.certCommitLatencies), 1000),
		RequestVoteOutboundLatency: scaledMean(a.requestVoteOutboundLatencies, 1),

		AvgBatchSizeBytes:       meanSize(a.sizes),
		AvgSubdagSize:           avgSubdag,
		MaxSubdagSize:           maxSubdag,
		MinSubdagSize:           minSubdag,
		AvgTransactionSizeBytes: avgTxSize,
		ActualSendRate:          actualSendRate,
		TotalSent:               a.totalSent,
		TotalReceived:           a.totalReceived,
		TotalOrdered:            a.totalOrdered,
		TotalCommitted:          a.totalCommitted,
	}
}

// consensusThroughput measures the window from the earliest proposal to the
// latest order over the ordered batches.
func (a *Analyzer) consensusThroughput() (tps, bps, duration float64) {
	return throughput(a.proposals, a.orders, a.sizes, a.totalOrdered)
}

// executionThroughput measures the window from the earliest order to the
// latest execution commit over the committed batches.
func (a *Analyzer) executionThroughput() (tps, bps, duration float64) {
	return throughput(a.orders, a.commits, a.commitSizes, a.totalCommitted)
}

// endToEndThroughput measures the window from the earliest client start to
// the latest execution commit.
func (a *Analyzer) endToEndThroughput() (tps, bps, duration float64) {
	if len(a.commits) == 0 || len(a.starts) == 0 {
		return 0, 0, 0
	}
	starts := make(map[int]float64, len(a.starts))
	for i, s := range a.starts {
		starts[i] = s
	}
	return window(minValue(starts), maxValue(a.commits), a.commitSizes, a.totalCommitted)
}

// endToEndLatency joins each sample transaction's send time to the commit
// time of the batch that contains it. Pairs whose batch was never committed
// are dropped: this is a surviving-transactions-only latency.
func (a *Analyzer) endToEndLatency() float64 {
	var deltas []float64
	n := len(a.sentSamples)
	if len(a.receivedSamples) < n {
		n = len(a.receivedSamples)
	}
	for i := 0; i < n; i++ {
		sent := a.sentSamples[i]
		for txID, digest := range a.receivedSamples[i] {
			commit, ok := a.commits[digest]
			if !ok {
				continue
			}
			send, ok := sent[txID]
			if !ok {
				continue
			}
			deltas = append(deltas, commit-send)
		}
	}
	if len(deltas) == 0 {
		return 0
	}
	return stat.Mean(deltas, nil)
}

func throughput[K comparable](startEvents, endEvents map[K]float64, sizes map[event.Digest]int, txs int) (tps, bps, duration float64) {
	if len(endEvents) == 0 || len(startEvents) == 0 {
		return 0, 0, 0
	}
	return window(minValue(startEvents), maxValue(endEvents), sizes, txs)
}

func window(start, end float64, sizes map[event.Digest]int, txs int) (tps, bps, duration float64) {
	duration = end - start
	if duration <= 0 {
		return 0, 0, duration
	}
	return float64(txs) / duration, float64(sumSizes(sizes)) / duration, duration
}

// meanGap is the mean, over keys present in both maps, of target minus
// source. An empty intersection yields 0: a legitimately empty stage, not
// an error.
func meanGap[K comparable](source, target map[K]float64) float64 {
	var deltas []float64
	for k, t := range target {
		if s, ok := source[k]; ok {
			deltas = append(deltas, t-s)
		}
	}
	if len(deltas) == 0 {
		return 0
	}
	return stat.Mean(deltas, nil)
}

// scaledMean reports Unavailable for an empty sample set: an unsampled
// auxiliary latency is a measurement gap, not a zero.
func scaledMean(samples []float64, scale float64) float64 {
	if len(samples) == 0 {
		return Unavailable
	}
	return stat.Mean(samples, nil) * scale
}

func subdagStats(sizes map[int]int) (avg float64, maxSize, minSize int) {
	if len(sizes) == 0 {
		return 0, 0, 0
	}
	var all []float64
	first := true
	for _, s := range sizes {
		all = append(all, float64(s))
		if first || s > maxSize {
			maxSize = s
		}
		if first || s < minSize {
			minSize = s
		}
		first = false
	}
	return stat.Mean(all, nil), maxSize, minSize
}

func meanSize(sizes map[event.Digest]int) float64 {
	if len(sizes) == 0 {
		return 0
	}
	return float64(sumSizes(sizes)) / float64(len(sizes))
}

func sumSizes(sizes map[event.Digest]int) int {
	var sum int
	for _, s := range sizes {
		sum += s
	}
	return sum
}

func sumInts(xs []int) int {
	var sum int
	for _, x := range xs {
		sum += x
	}
	return sum
}

func values[K comparable](m map[K]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func minValue[K comparable](m map[K]float64) float64 {
	first := true
	var min float64
	for _, v := range m {
		if first || v < min {
			min = v
			first = false
		}
	}
	return min
}

func maxValue[K comparable](m map[K]float64) float64 {
	first := true
	var max float64
	for _, v := range m {
		if first || v > max {
			max = v
			first = false
		}
	}
	return max
}
