// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package extract // import "github.com/dagbench/benchparse/extract"

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/parseerrors"
	"github.com/dagbench/benchparse/testutil"
)

func TestParseConsensus(t *testing.T) {
	log := testutil.PrimaryLog{
		Address: "/ip4/10.0.0.1",
		Lines: []string{
			testutil.ProposalLine(100*time.Millisecond, "H1="),
			testutil.ProposalLine(150*time.Millisecond, "H2="),
			testutil.OrderLine(400*time.Millisecond, "H1="),
			testutil.Stamp(0) + " INFO primary: Batch B9= from worker 0 took 0.250 seconds from creation to be included in a proposed header",
			testutil.Stamp(0) + " INFO primary: Header H1= was created in 0.100 seconds",
			testutil.Stamp(0) + " INFO primary: Header H1= at round 2 with 4 batches, took 0.300 seconds to be materialized to a certificate C1=",
			testutil.Stamp(0) + " INFO primary: Certificate C1= took 0.500 seconds to be committed at round 2",
			testutil.Stamp(0) + " INFO primary: /narwhal.PrimaryToPrimary/RequestVote request direction=outbound latency=12 ms",
			testutil.Stamp(0) + " INFO primary: /narwhal.PrimaryToPrimary/RequestVote request direction=outbound latency=18 ms",
		},
	}.Render()

	c, err := ParseConsensus(log)
	require.NoError(t, err)

	require.Len(t, c.Proposals, 2)
	assert.InDelta(t, testutil.Epoch(100*time.Millisecond), c.Proposals["H1="], 1e-9)
	assert.InDelta(t, testutil.Epoch(150*time.Millisecond), c.Proposals["H2="], 1e-9)

	require.Len(t, c.Orders, 1)
	assert.InDelta(t, testutil.Epoch(400*time.Millisecond), c.Orders["H1="], 1e-9)

	assert.Equal(t, map[event.Digest]float64{"B9=": 0.250}, c.BatchToHeaderLatencies)
	assert.Equal(t, map[event.Digest]float64{"H1=": 0.100}, c.HeaderCreationLatencies)
	assert.Equal(t, map[event.Digest]float64{"H1=": 0.300}, c.HeaderToCertLatencies)
	assert.Equal(t, map[event.Digest]float64{"C1=": 0.500}, c.CertCommitLatencies)
	assert.Equal(t, []float64{12, 18}, c.RequestVoteOutboundLatencies)

	assert.Equal(t, "/ip4/10.0.0.1", c.Address)
}

func TestParseConsensusConfig(t *testing.T) {
	c, err := ParseConsensus(testutil.PrimaryLog{}.Render())
	require.NoError(t, err)

	assert.Equal(t, Config{
		HeaderNumBatchesThreshold: 32,
		MaxHeaderNumBatches:       1000,
		MaxHeaderDelay:            200,
		GCDepth:                   50,
		SyncRetryDelay:            5000,
		SyncRetryNodes:            3,
		BatchSize:                 500000,
		MaxBatchDelay:             100,
		MaxConcurrentRequests:     500,
	}, c.Config)
}

func TestParseConsensusDuplicateDigestKeepsEarliest(t *testing.T) {
	log := testutil.PrimaryLog{
		Lines: []string{
			testutil.ProposalLine(500*time.Millisecond, "H1="),
			testutil.ProposalLine(200*time.Millisecond, "H1="),
		},
	}.Render()

	c, err := ParseConsensus(log)
	require.NoError(t, err)
	assert.InDelta(t, testutil.Epoch(200*time.Millisecond), c.Proposals["H1="], 1e-9)
}

func TestParseConsensusNoEvents(t *testing.T) {
	// A primary that proposed nothing is still a well-formed log.
	c, err := ParseConsensus(testutil.PrimaryLog{}.Render())
	require.NoError(t, err)
	assert.Empty(t, c.Proposals)
	assert.Empty(t, c.Orders)
	assert.Empty(t, c.RequestVoteOutboundLatencies)
}

func TestParseConsensusPanicMarker(t *testing.T) {
	log := testutil.PrimaryLog{
		Lines: []string{testutil.Stamp(0) + " ERROR primary: thread 'main' panicked at 'index out of bounds'"},
	}.Render()

	_, err := ParseConsensus(log)
	require.Error(t, err)

	var parseErr parseerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Description, "primary")
}

func TestParseConsensusMissingConfig(t *testing.T) {
	// Drop the config block entirely: the first config rule must fail.
	log := testutil.Stamp(0) + " INFO primary: Primary booted on /ip4/10.0.0.1\n"

	_, err := ParseConsensus(log)
	require.Error(t, err)

	var parseErr parseerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "cfg_header_num_of_batches_threshold", parseErr.Details["rule"])
}

func TestParseConsensusMissingAddress(t *testing.T) {
	// Rebuild the fixture without its boot line.
	var withoutBoot string
	for _, line := range strings.Split(testutil.PrimaryLog{}.Render(), "\n") {
		if !bootAddressRule.matches(line) {
			withoutBoot += line + "\n"
		}
	}

	_, err := ParseConsensus(withoutBoot)
	require.Error(t, err)

	var parseErr parseerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "boot_address", parseErr.Details["rule"])
}
