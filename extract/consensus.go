// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package extract // import "github.com/dagbench/benchparse/extract"

import (
	"strconv"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/parseerrors"
)

var (
	primaryPanicRule = newRule("primary_panic", `panicked`)

	proposalRule = newRule("header_proposed", `(.*?) .* Created B\d+\([^ ]+\) -> ([^ ]+=)`)
	orderRule    = newRule("header_committed", `(.*?) .* Committed B\d+\([^ ]+\) -> ([^ ]+=)`)

	batchToHeaderRule = newRule("batch_to_header_latency",
		`.* Batch ([^ ]+) from worker \d+ took (\d+\.\d+) seconds from creation to be included in a proposed header`)
	headerCreationRule = newRule("header_creation_latency",
		`.* Header ([^ ]+) was created in (\d+\.\d+) seconds`)
	headerToCertRule = newRule("header_to_cert_latency",
		`.* Header ([^ ]+) at round \d+ with \d+ batches, took (\d+\.\d+) seconds to be materialized to a certificate [^ ]+`)
	certCommitRule = newRule("cert_commit_latency",
		`.* Certificate ([^ ]+) took (\d+\.\d+) seconds to be committed at round \d+`)
	requestVoteRule = newRule("request_vote_outbound_latency",
		`\/narwhal\.PrimaryToPrimary\/RequestVote.*direction=outbound.*latency=(\d+) ms`)

	bootAddressRule = newRule("boot_address", `booted on (/ip4/\d+.\d+.\d+.\d+)`)
)

// configRules name the nine integer parameters every primary announces at
// startup. All of them are required.
var configRules = []struct {
	rule   rule
	assign func(*Config, int)
}{
	{newRule("cfg_header_num_of_batches_threshold", `Header number of batches threshold .* (\d+)`),
		func(c *Config, v int) { c.HeaderNumBatchesThreshold = v }},
	{newRule("cfg_max_header_num_of_batches", `Header max number of batches .* (\d+)`),
		func(c *Config, v int) { c.MaxHeaderNumBatches = v }},
	{newRule("cfg_max_header_delay", `Max header delay .* (\d+)`),
		func(c *Config, v int) { c.MaxHeaderDelay = v }},
	{newRule("cfg_gc_depth", `Garbage collection depth .* (\d+)`),
		func(c *Config, v int) { c.GCDepth = v }},
	{newRule("cfg_sync_retry_delay", `Sync retry delay .* (\d+)`),
		func(c *Config, v int) { c.SyncRetryDelay = v }},
	{newRule("cfg_sync_retry_nodes", `Sync retry nodes .* (\d+)`),
		func(c *Config, v int) { c.SyncRetryNodes = v }},
	{newRule("cfg_batch_size", `Batch size .* (\d+)`),
		func(c *Config, v int) { c.BatchSize = v }},
	{newRule("cfg_max_batch_delay", `Max batch delay .* (\d+)`),
		func(c *Config, v int) { c.MaxBatchDelay = v }},
	{newRule("cfg_max_concurrent_requests", `Max concurrent requests .* (\d+)`),
		func(c *Config, v int) { c.MaxConcurrentRequests = v }},
}

// Config is the integer parameter snapshot a primary announces at startup.
// All primaries are configured identically; the first primary's snapshot is
// authoritative for reporting.
type Config struct {
	HeaderNumBatchesThreshold int
	MaxHeaderNumBatches       int
	MaxHeaderDelay            int
	GCDepth                   int
	SyncRetryDelay            int
	SyncRetryNodes            int
	BatchSize                 int
	MaxBatchDelay             int
	MaxConcurrentRequests     int
}

// Consensus is the consensus-side record extracted from one primary log.
type Consensus struct {
	// Proposals maps header digest to its earliest proposal time.
	Proposals map[event.Digest]float64
	// Orders maps header digest to its earliest commit (ordering) time.
	Orders map[event.Digest]float64

	// Per-digest latency samples, in seconds.
	BatchToHeaderLatencies  map[event.Digest]float64
	HeaderCreationLatencies map[event.Digest]float64
	HeaderToCertLatencies   map[event.Digest]float64
	CertCommitLatencies     map[event.Digest]float64

	// RequestVoteOutboundLatencies are unkeyed RPC latency samples in ms.
	RequestVoteOutboundLatencies []float64

	Config  Config
	Address string
}

// ParseConsensus extracts the consensus-side record from one primary log.
func ParseConsensus(log string) (*Consensus, error) {
	if err := checkAlive(primaryPanicRule, log, "primary"); err != nil {
		return nil, err
	}

	proposals, err := proposalRule.timedDigests(log)
	if err != nil {
		return nil, err
	}
	orders, err := orderRule.timedDigests(log)
	if err != nil {
		return nil, err
	}

	batchToHeader, err := batchToHeaderRule.digestFloats(log)
	if err != nil {
		return nil, err
	}
	headerCreation, err := headerCreationRule.digestFloats(log)
	if err != nil {
		return nil, err
	}
	headerToCert, err := headerToCertRule.digestFloats(log)
	if err != nil {
		return nil, err
	}
	certCommit, err := certCommitRule.digestFloats(log)
	if err != nil {
		return nil, err
	}

	var requestVote []float64
	for _, m := range requestVoteRule.all(log) {
		v, err := strconv.ParseFloat(m[0], 64)
		if err != nil {
			return nil, parseerrors.Wrap(err, requestVoteRule.name)
		}
		requestVote = append(requestVote, v)
	}

	var cfg Config
	for _, cr := range configRules {
		v, err := cr.rule.intField(log)
		if err != nil {
			return nil, err
		}
		cr.assign(&cfg, v)
	}

	m, err := bootAddressRule.one(log)
	if err != nil {
		return nil, err
	}

	return &Consensus{
		Proposals:                    proposals,
		Orders:                       orders,
		BatchToHeaderLatencies:       batchToHeader,
		HeaderCreationLatencies:      headerCreation,
		HeaderToCertLatencies:        headerToCert,
		CertCommitLatencies:          certCommit,
		RequestVoteOutboundLatencies: requestVote,
		Config:                       cfg,
		Address:                      m[0],
	}, nil
}
