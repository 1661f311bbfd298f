// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders a statistics bundle as the fixed-structure text
// summary appended to benchmark result files. It is a thin formatting
// wrapper; all values come from the analyze package as plain data.
package report // import "github.com/dagbench/benchparse/report"

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dagbench/benchparse/analyze"
)

// Render formats the bundle as the canonical summary block.
func Render(b analyze.Bundle) string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString("-----------------------------------------\n")
	s.WriteString(" SUMMARY:\n")
	s.WriteString("-----------------------------------------\n")
	s.WriteString(" + CONFIG:\n")
	fmt.Fprintf(&s, " Faults: %d node(s)\n", b.Faults)
	fmt.Fprintf(&s, " Committee size: %d node(s)\n", b.CommitteeSize)
	fmt.Fprintf(&s, " Worker(s) per node: %d worker(s)\n", b.WorkersPerNode)
	fmt.Fprintf(&s, " Collocate primary and workers: %v\n", b.Collocate)
	fmt.Fprintf(&s, " Input rate: %s tx/s\n", comma(float64(b.InputRate)))
	fmt.Fprintf(&s, " Input skewness: %.1f \n", b.Skewness)
	fmt.Fprintf(&s, " Execution time: %s s\n", comma(b.Duration))
	fmt.Fprintf(&s, " Execution mode: %s \n", b.ExecutionModel)
	fmt.Fprintf(&s, " Concurrency level: %d \n", b.ConcurrencyLevel)
	s.WriteString("\n")
	fmt.Fprintf(&s, " Header number of batches threshold: %s digests\n", comma(float64(b.Config.HeaderNumBatchesThreshold)))
	fmt.Fprintf(&s, " Header maximum number of batches: %s digests\n", comma(float64(b.Config.MaxHeaderNumBatches)))
	fmt.Fprintf(&s, " Max header delay: %s ms\n", comma(float64(b.Config.MaxHeaderDelay)))
	fmt.Fprintf(&s, " GC depth: %s round(s)\n", comma(float64(b.Config.GCDepth)))
	fmt.Fprintf(&s, " Sync retry delay: %s ms\n", comma(float64(b.Config.SyncRetryDelay)))
	fmt.Fprintf(&s, " Sync retry nodes: %s node(s)\n", comma(float64(b.Config.SyncRetryNodes)))
	fmt.Fprintf(&s, " batch size: %s B\n", comma(float64(b.Config.BatchSize)))
	fmt.Fprintf(&s, " Max batch delay: %s ms\n", comma(float64(b.Config.MaxBatchDelay)))
	fmt.Fprintf(&s, " Max concurrent requests: %s \n", comma(float64(b.Config.MaxConcurrentRequests)))
	s.WriteString("\n")
	s.WriteString(" + RESULTS:\n")
	fmt.Fprintf(&s, " Batch creation avg latency: %s ms\n", comma(b.BatchCreationLatency))
	fmt.Fprintf(&s, " Header creation avg latency: %s ms\n", comma(b.HeaderCreationLatency))
	fmt.Fprintf(&s, " \tBatch to header avg latency: %s ms\n", comma(b.BatchToHeaderLatency))
	fmt.Fprintf(&s, " Header to certificate avg latency: %s ms\n", comma(b.HeaderToCertLatency))
	fmt.Fprintf(&s, " \tRequest vote outbound avg latency: %s ms\n", comma(b.RequestVoteOutboundLatency))
	fmt.Fprintf(&s, " Average Batch size: %s KB\n", comma(b.AvgBatchSizeBytes/1024))
	fmt.Fprintf(&s, " Average Subdag size: %s \n", comma(b.AvgSubdagSize))
	fmt.Fprintf(&s, " \tMax Subdag size: %d \n", b.MaxSubdagSize)
	fmt.Fprintf(&s, " \tMin Subdag size: %d \n", b.MinSubdagSize)
	fmt.Fprintf(&s, " Average Transaction size: %s B\n", comma(b.AvgTransactionSizeBytes))
	fmt.Fprintf(&s, " \tActual Sending Rate: %s tx/s\n", comma(b.ActualSendRate))
	fmt.Fprintf(&s, " \tTotal Sending Transactions: %d tx\n", b.TotalSent)
	fmt.Fprintf(&s, " \tTotal Received Transactions: %d tx\n", b.TotalReceived)
	fmt.Fprintf(&s, " \tTotal Ordered Transactions: %d tx\n", b.TotalOrdered)
	fmt.Fprintf(&s, " \tTotal Committed Transactions: %d tx\n", b.TotalCommitted)
	fmt.Fprintf(&s, " Certificate commit avg latency: %s ms\n", comma(b.CertCommitLatency))
	s.WriteString("\n")
	fmt.Fprintf(&s, " Consensus TPS: %s tx/s\n", comma(b.ConsensusTPS))
	fmt.Fprintf(&s, " Consensus BPS: %s B/s\n", comma(b.ConsensusBPS))
	fmt.Fprintf(&s, " Consensus latency: %s ms\n", comma(b.ConsensusLatency))
	s.WriteString("\n")
	fmt.Fprintf(&s, " Execution TPS: %s tx/s\n", comma(b.ExecutionTPS))
	fmt.Fprintf(&s, " Execution BPS: %s B/s\n", comma(b.ExecutionBPS))
	fmt.Fprintf(&s, " Execution latency: %s ms\n", comma(b.ExecutionLatency))
	fmt.Fprintf(&s, " \tConsensus to execution latency: %s ms\n", comma(b.ConsensusToExecutionLatency))
	fmt.Fprintf(&s, " \tSubscriber latency: %s ms\n", comma(b.SubscriberLatency))
	fmt.Fprintf(&s, " \tConsensus handler latency: %s ms\n", comma(b.HandlerLatency))
	fmt.Fprintf(&s, " \tBatch execution latency: %s ms\n", comma(b.BatchExecutionLatency))
	fmt.Fprintf(&s, " \tAverage Abort Rate: %.2f %% \n", b.AbortRatePercent)
	fmt.Fprintf(&s, " \tEffective TPS: %s tx/s\n", comma(b.EffectiveTPS))
	s.WriteString("\n")
	fmt.Fprintf(&s, " End-to-end TPS: %s tx/s\n", comma(b.EndToEndTPS))
	fmt.Fprintf(&s, " End-to-end BPS: %s B/s\n", comma(b.EndToEndBPS))
	fmt.Fprintf(&s, " End-to-end latency: %s ms\n", comma(b.EndToEndLatency))
	s.WriteString("-----------------------------------------\n")

	return s.String()
}

// Append renders the bundle and appends it to the file at path, creating
// the file if needed.
func Append(path string, b analyze.Bundle) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(Render(b))
	return err
}

func comma(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}
