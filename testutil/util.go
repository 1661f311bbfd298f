// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides loggers and synthetic log fixtures for tests.
package testutil // import "github.com/dagbench/benchparse/testutil"

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger will return a new test logger
func Logger(t testing.TB) *zap.SugaredLogger {
	return zaptest.NewLogger(t, zaptest.Level(zapcore.ErrorLevel)).Sugar()
}

// base is the wall-clock origin of every synthetic fixture.
var base = time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)

// Stamp renders the leading timestamp token of a log line at the given
// offset from the fixture origin.
func Stamp(offset time.Duration) string {
	return base.Add(offset).Format("2006-01-02T15:04:05.000000") + "Z"
}

// Epoch is the epoch-seconds value Stamp(offset) normalizes to.
func Epoch(offset time.Duration) float64 {
	return float64(base.Add(offset).UnixNano()) / float64(time.Second)
}

// ClientLog assembles a well-formed client log.
type ClientLog struct {
	Rate     int
	Skewness float64
	Start    time.Duration
	Misses   int
	// Samples maps sample transaction id to its send offset.
	Samples map[int]time.Duration
	Extra   []string
}

func (c ClientLog) Render() string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("%s INFO client: Transactions rate: %d tx/s", Stamp(0), c.Rate),
		fmt.Sprintf("%s INFO client: Workload skewness: %.1f", Stamp(0), c.Skewness),
		fmt.Sprintf("%s INFO client: Start sending transactions", Stamp(c.Start)),
	)
	for i := 0; i < c.Misses; i++ {
		lines = append(lines, fmt.Sprintf("%s WARN client: rate too high, transactions are dropped", Stamp(0)))
	}
	for id, off := range c.Samples {
		lines = append(lines, fmt.Sprintf("%s INFO client: Sending sample transaction %d", Stamp(off), id))
	}
	lines = append(lines, c.Extra...)
	return strings.Join(lines, "\n") + "\n"
}

// PrimaryLog assembles a well-formed primary log: the announced
// configuration block, the boot address, then any event lines.
type PrimaryLog struct {
	Address string
	Lines   []string
}

func (p PrimaryLog) Render() string {
	addr := p.Address
	if addr == "" {
		addr = "/ip4/10.0.0.1"
	}
	lines := []string{
		fmt.Sprintf("%s INFO primary: Header number of batches threshold set to 32", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Header max number of batches set to 1000", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Max header delay set to 200", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Garbage collection depth set to 50", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Sync retry delay set to 5000", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Sync retry nodes set to 3", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Batch size set to 500000", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Max batch delay set to 100", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Max concurrent requests set to 500", Stamp(0)),
		fmt.Sprintf("%s INFO primary: Primary booted on %s", Stamp(0), addr),
	}
	lines = append(lines, p.Lines...)
	return strings.Join(lines, "\n") + "\n"
}

// WorkerLog assembles a well-formed worker log.
type WorkerLog struct {
	Address string
	Lines   []string
}

func (w WorkerLog) Render() string {
	addr := w.Address
	if addr == "" {
		addr = "/ip4/10.0.0.1"
	}
	lines := []string{
		fmt.Sprintf("%s INFO worker: Worker booted on %s", Stamp(0), addr),
	}
	lines = append(lines, w.Lines...)
	return strings.Join(lines, "\n") + "\n"
}

// Event lines shared by primary fixtures.

// ProposalLine is a header-proposed observation.
func ProposalLine(off time.Duration, digest string) string {
	return fmt.Sprintf("%s INFO primary: Created B1(node) -> %s", Stamp(off), digest)
}

// OrderLine is a header-committed observation.
func OrderLine(off time.Duration, digest string) string {
	return fmt.Sprintf("%s INFO primary: Committed B1(node) -> %s", Stamp(off), digest)
}

// SubscriberLine is a subscriber batch-received observation.
func SubscriberLine(off time.Duration, digest string) string {
	return fmt.Sprintf("%s INFO executor: Subscriber received a batch -> %s", Stamp(off), digest)
}

// HandlerLine is a consensus-handler batch-received observation.
func HandlerLine(off time.Duration, digest string) string {
	return fmt.Sprintf("%s INFO executor: Consensus handler received a batch -> %s", Stamp(off), digest)
}

// ExecutionReceiveLine is an execution-layer batch-received observation.
func ExecutionReceiveLine(off time.Duration, digest string) string {
	return fmt.Sprintf("%s INFO executor: Received Batch -> %s", Stamp(off), digest)
}

// CommitLine is a batch-executed observation.
func CommitLine(off time.Duration, digest string) string {
	return fmt.Sprintf("%s INFO executor: Executed Batch -> %s", Stamp(off), digest)
}

// SubdagLine reports the batch count delivered at a subdag index.
func SubdagLine(off time.Duration, batches, index int) string {
	return fmt.Sprintf("%s INFO executor: Received consensus_output has %d batches at subdag_index %d.", Stamp(off), batches, index)
}

// AbortLine reports one aborted/total counter pair.
func AbortLine(off time.Duration, aborted, total int) string {
	rate := 0.0
	if total > 0 {
		rate = float64(aborted) / float64(total)
	}
	return fmt.Sprintf("%s INFO executor: Abort rate: %.2f (%d/%d aborted)", Stamp(off), rate, aborted, total)
}

// BatchLine reports a created batch's byte size and transaction count.
func BatchLine(off time.Duration, digest string, bytes, txs int) string {
	return fmt.Sprintf("%s INFO worker: Batch %s contains %d B with %d tx", Stamp(off), digest, bytes, txs)
}

// SampleBatchLine maps a sample transaction to its containing batch.
func SampleBatchLine(off time.Duration, digest string, txID int) string {
	return fmt.Sprintf("%s INFO worker: Batch %s contains sample tx %d", Stamp(off), digest, txID)
}
