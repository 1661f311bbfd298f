// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/parseerrors"
	"github.com/dagbench/benchparse/testutil"
)

// scenario builds a small but complete two-node run, with every offset
// shifted by the given amount. One sample transaction (id 7) travels
// through batch D1=: sent at 1s, proposed at 2s, ordered at 4s, handed to
// execution and committed at 4.2s. A second digest H9= is ordered but has
// no known size or transaction count. A second primary re-logs the same
// events later, so earliest-wins reconciliation is exercised throughout.
func scenario(shift time.Duration) (clients, primaries, workers []string) {
	clients = []string{
		testutil.ClientLog{
			Rate:     1000,
			Skewness: 0.5,
			Start:    shift,
			Samples:  map[int]time.Duration{7: shift + 1*time.Second},
		}.Render(),
	}

	primaries = []string{
		testutil.PrimaryLog{
			Address: "/ip4/10.0.0.1",
			Lines: []string{
				testutil.ProposalLine(shift+2*time.Second, "D1="),
				testutil.OrderLine(shift+4*time.Second, "D1="),
				testutil.OrderLine(shift+3900*time.Millisecond, "H9="),
				testutil.SubscriberLine(shift+4050*time.Millisecond, "D1="),
				testutil.HandlerLine(shift+4100*time.Millisecond, "D1="),
				testutil.ExecutionReceiveLine(shift+4150*time.Millisecond, "D1="),
				testutil.CommitLine(shift+4200*time.Millisecond, "D1="),
				testutil.SubdagLine(shift+4*time.Second, 4, 0),
				testutil.AbortLine(shift+4200*time.Millisecond, 5, 20),
				testutil.Stamp(shift) + " INFO primary: Header D1= was created in 0.100 seconds",
			},
		}.Render(),
		testutil.PrimaryLog{
			Address: "/ip4/10.0.0.2",
			Lines: []string{
				// Redundant re-logging of the same events, later.
				testutil.OrderLine(shift+4500*time.Millisecond, "D1="),
				testutil.CommitLine(shift+4250*time.Millisecond, "D1="),
				testutil.SubdagLine(shift+4*time.Second, 4, 0),
				testutil.SubdagLine(shift+5*time.Second, 6, 1),
			},
		}.Render(),
	}

	workers = []string{
		testutil.WorkerLog{
			Address: "/ip4/10.0.0.1",
			Lines: []string{
				testutil.BatchLine(shift+1*time.Second, "D1=", 4096, 10),
				testutil.SampleBatchLine(shift+1*time.Second, "D1=", 7),
				testutil.Stamp(shift) + " INFO worker: Batch D1= took 0.125 seconds to create due to timeout",
			},
		}.Render(),
		testutil.WorkerLog{
			Address: "/ip4/10.0.0.2",
			Lines: []string{
				testutil.BatchLine(shift+2*time.Second, "D2=", 2048, 4),
			},
		}.Render(),
	}

	return clients, primaries, workers
}

func newScenarioAnalyzer(t *testing.T, shift time.Duration) *Analyzer {
	t.Helper()
	clients, primaries, workers := scenario(shift)
	a, err := New(clients, primaries, workers, Options{
		ExecutionModel:   Serial,
		Faults:           1,
		ConcurrencyLevel: 8,
		Logger:           testutil.Logger(t),
	})
	require.NoError(t, err)
	return a
}

func TestNewReconcilesAcrossLogs(t *testing.T) {
	a := newScenarioAnalyzer(t, 0)

	// The second primary re-logged the D1= order and commit later; the
	// earliest sighting must win.
	assert.InDelta(t, testutil.Epoch(4*time.Second), a.orders["D1="], 1e-9)
	assert.InDelta(t, testutil.Epoch(4200*time.Millisecond), a.commits["D1="], 1e-9)

	assert.Equal(t, map[int]int{0: 4, 1: 6}, a.subdagSizes)
}

func TestNewJoinsWorkerCounts(t *testing.T) {
	a := newScenarioAnalyzer(t, 0)

	// H9= is ordered but has no known transaction count: excluded, not zero.
	assert.Equal(t, 10, a.totalOrdered)
	assert.Equal(t, 10, a.totalCommitted)

	// Sizes are restricted to ordered (resp. committed) digests.
	assert.Equal(t, map[event.Digest]int{"D1=": 4096}, a.sizes)
	assert.Equal(t, map[event.Digest]int{"D1=": 4096}, a.commitSizes)
}

func TestNewDerivesTopology(t *testing.T) {
	a := newScenarioAnalyzer(t, 0)

	assert.Equal(t, 3, a.committeeSize) // 2 primaries + 1 declared fault
	assert.Equal(t, 1, a.workersPerNode)
	assert.True(t, a.collocate)
}

func TestNewNotCollocated(t *testing.T) {
	clients, primaries, workers := scenario(0)
	workers[1] = testutil.WorkerLog{Address: "/ip4/10.9.9.9"}.Render()

	a, err := New(clients, primaries, workers, Options{ExecutionModel: Serial})
	require.NoError(t, err)
	assert.False(t, a.collocate)
}

func TestNewNormalizesAborts(t *testing.T) {
	a := newScenarioAnalyzer(t, 0)

	// One replica reported 5/20; normalized by the committee size of 3.
	assert.InDelta(t, 5.0/3.0, a.aborted, 1e-9)
	assert.InDelta(t, 20.0/3.0, a.total, 1e-9)
}

func TestNewConcurrencyLevelGating(t *testing.T) {
	clients, primaries, workers := scenario(0)

	serial, err := New(clients, primaries, workers, Options{
		ExecutionModel: Serial, ConcurrencyLevel: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, serial.concurrencyLevel)

	nezha, err := New(clients, primaries, workers, Options{
		ExecutionModel: Nezha, ConcurrencyLevel: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, nezha.concurrencyLevel)
}

func TestNewFailsWhenAnyWorkerCrashed(t *testing.T) {
	clients, primaries, workers := scenario(0)
	workers[1] = testutil.WorkerLog{
		Lines: []string{testutil.Stamp(0) + " ERROR worker: thread 'batch_maker' panicked at 'oops'"},
	}.Render()

	_, err := New(clients, primaries, workers, Options{ExecutionModel: Serial})
	require.Error(t, err)

	var parseErr parseerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Description, "workers")
}

func TestNewFailsOnEmptyGroup(t *testing.T) {
	clients, primaries, _ := scenario(0)

	_, err := New(clients, primaries, nil, Options{ExecutionModel: Serial})
	require.Error(t, err)

	var parseErr parseerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Description, "workers")
}
