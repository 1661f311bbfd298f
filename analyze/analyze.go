// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

// Package analyze reconstructs a cross-process timeline from the raw logs
// of one benchmark run and derives per-stage latency and throughput
// statistics from it. Logs within a role group are parsed in parallel,
// duplicate observations of the same digest are reconciled to their
// earliest sighting, and the reconciled event maps are joined by
// transaction id, batch digest and subdag index.
package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"go.uber.org/zap"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/extract"
)

// Options configure one analysis run.
type Options struct {
	ExecutionModel ExecutionModel
	// Faults is the number of crashed nodes declared for the run. They are
	// part of the committee even though they produced no logs.
	Faults int
	// ConcurrencyLevel only applies to the nezha execution model and is
	// forced to 1 for every other model.
	ConcurrencyLevel int
	// Logger receives diagnostics such as missed-rate warnings. Optional.
	Logger *zap.SugaredLogger
}

// Analyzer holds the reconciled event maps and joined sequences for one
// benchmark run. It is immutable once constructed; Metrics derives the
// final statistics bundle from it.
type Analyzer struct {
	logger *zap.SugaredLogger

	executionModel   ExecutionModel
	concurrencyLevel int
	faults           int
	committeeSize    int
	workersPerNode   int
	collocate        bool

	rates    []int
	starts   []float64
	misses   int
	skewness float64

	sentSamples     []map[int]float64
	receivedSamples []map[int]event.Digest

	proposals map[event.Digest]float64
	orders    map[event.Digest]float64

	subscriberReceive map[event.Digest]float64
	handlerReceive    map[event.Digest]float64
	executionReceive  map[event.Digest]float64
	commits           map[event.Digest]float64
	subdagSizes       map[int]int

	// aborted and total are normalized by committee size: every replica
	// reports the same logical interval, so the division collapses the
	// per-replica copies into one logical count. This assumes replicas
	// observed identical intervals; see DESIGN.md.
	aborted float64
	total   float64

	batchToHeaderLatencies  map[event.Digest]float64
	headerCreationLatencies map[event.Digest]float64
	headerToCertLatencies   map[event.Digest]float64
	certCommitLatencies     map[event.Digest]float64
	batchCreationLatencies  map[event.Digest]float64

	requestVoteOutboundLatencies []float64

	txCounts    map[event.Digest]int
	sizes       map[event.Digest]int
	commitSizes map[event.Digest]int

	totalSent      int
	totalReceived  int
	totalOrdered   int
	totalCommitted int

	config extract.Config
}

// New parses the given log-text collections and joins them into an
// Analyzer. The slices hold the full text of each captured log file,
// grouped by role. Any extraction failure aborts the whole run.
func New(clients, primaries, workers []string, opts Options) (*Analyzer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	concurrency := opts.ConcurrencyLevel
	if opts.ExecutionModel != Nezha {
		concurrency = 1
	}

	a := &Analyzer{
		logger:           logger,
		executionModel:   opts.ExecutionModel,
		concurrencyLevel: concurrency,
		faults:           opts.Faults,
	}

	clientRecords, err := parseGroup("clients", clients, extract.ParseClient)
	if err != nil {
		return nil, err
	}
	consensusRecords, err := parseGroup("primaries", primaries, extract.ParseConsensus)
	if err != nil {
		return nil, err
	}
	executionRecords, err := parseGroup("primaries", primaries, extract.ParseExecution)
	if err != nil {
		return nil, err
	}
	workerRecords, err := parseGroup("workers", workers, extract.ParseWorker)
	if err != nil {
		return nil, err
	}

	a.committeeSize = len(primaries) + opts.Faults
	a.workersPerNode = len(workers) / len(primaries)

	a.joinClients(clientRecords)
	a.joinPrimaries(consensusRecords, executionRecords)
	a.joinWorkers(workerRecords, consensusRecords)

	if a.misses != 0 {
		a.logger.Warnf("clients missed their target rate %d time(s)", a.misses)
	}

	return a, nil
}

func (a *Analyzer) joinClients(records []*extract.Client) {
	for _, r := range records {
		a.rates = append(a.rates, r.Rate)
		a.starts = append(a.starts, r.Start)
		a.misses += r.Misses
		a.sentSamples = append(a.sentSamples, r.SentSamples)
		a.totalSent += len(r.SentSamples)
	}
	a.skewness = records[0].Skewness
}

func (a *Analyzer) joinPrimaries(consensus []*extract.Consensus, execution []*extract.Execution) {
	proposals := make([]map[event.Digest]float64, 0, len(consensus))
	orders := make([]map[event.Digest]float64, 0, len(consensus))
	batchToHeader := make([]map[event.Digest]float64, 0, len(consensus))
	headerCreation := make([]map[event.Digest]float64, 0, len(consensus))
	headerToCert := make([]map[event.Digest]float64, 0, len(consensus))
	certCommit := make([]map[event.Digest]float64, 0, len(consensus))
	for _, r := range consensus {
		proposals = append(proposals, r.Proposals)
		orders = append(orders, r.Orders)
		batchToHeader = append(batchToHeader, r.BatchToHeaderLatencies)
		headerCreation = append(headerCreation, r.HeaderCreationLatencies)
		headerToCert = append(headerToCert, r.HeaderToCertLatencies)
		certCommit = append(certCommit, r.CertCommitLatencies)
		a.requestVoteOutboundLatencies = append(a.requestVoteOutboundLatencies, r.RequestVoteOutboundLatencies...)
	}
	a.proposals = event.MergeMin(proposals...)
	a.orders = event.MergeMin(orders...)
	a.batchToHeaderLatencies = event.Union(batchToHeader...)
	a.headerCreationLatencies = event.Union(headerCreation...)
	a.headerToCertLatencies = event.Union(headerToCert...)
	a.certCommitLatencies = event.Union(certCommit...)

	// All primaries run the same configuration; the first snapshot is
	// authoritative for reporting.
	a.config = consensus[0].Config

	subscriber := make([]map[event.Digest]float64, 0, len(execution))
	handler := make([]map[event.Digest]float64, 0, len(execution))
	received := make([]map[event.Digest]float64, 0, len(execution))
	commits := make([]map[event.Digest]float64, 0, len(execution))
	subdags := make([]map[int]int, 0, len(execution))
	var aborted, total int
	for _, r := range execution {
		subscriber = append(subscriber, r.SubscriberReceive)
		handler = append(handler, r.HandlerReceive)
		received = append(received, r.ExecutionReceive)
		commits = append(commits, r.Commits)
		subdags = append(subdags, r.SubdagSizes)
		for _, n := range r.Aborted {
			aborted += n
		}
		for _, n := range r.Total {
			total += n
		}
	}
	a.subscriberReceive = event.MergeMin(subscriber...)
	a.handlerReceive = event.MergeMin(handler...)
	a.executionReceive = event.MergeMin(received...)
	a.commits = event.MergeMin(commits...)
	a.subdagSizes = event.MergeMin(subdags...)
	a.aborted = float64(aborted) / float64(a.committeeSize)
	a.total = float64(total) / float64(a.committeeSize)
}

func (a *Analyzer) joinWorkers(workers []*extract.Worker, consensus []*extract.Consensus) {
	sizes := make([]map[event.Digest]int, 0, len(workers))
	txCounts := make([]map[event.Digest]int, 0, len(workers))
	creation := make([]map[event.Digest]float64, 0, len(workers))
	workerAddrs := make(map[string]struct{}, len(workers))
	for _, r := range workers {
		sizes = append(sizes, r.Sizes)
		txCounts = append(txCounts, r.TxCounts)
		creation = append(creation, r.BatchCreationLatencies)
		a.receivedSamples = append(a.receivedSamples, r.ReceivedSamples)
		a.totalReceived += len(r.ReceivedSamples)
		workerAddrs[r.Address] = struct{}{}
	}
	a.txCounts = event.Union(txCounts...)
	a.batchCreationLatencies = event.Union(creation...)

	// Digests with no known transaction count are excluded, not zeroed.
	for digest := range a.orders {
		if n, ok := a.txCounts[digest]; ok {
			a.totalOrdered += n
		}
	}
	for digest := range a.commits {
		if n, ok := a.txCounts[digest]; ok {
			a.totalCommitted += n
		}
	}

	allSizes := event.Union(sizes...)
	a.sizes = make(map[event.Digest]int)
	a.commitSizes = make(map[event.Digest]int)
	for digest, size := range allSizes {
		if _, ok := a.orders[digest]; ok {
			a.sizes[digest] = size
		}
		if _, ok := a.commits[digest]; ok {
			a.commitSizes[digest] = size
		}
	}

	primaryAddrs := make(map[string]struct{}, len(consensus))
	for _, r := range consensus {
		primaryAddrs[r.Address] = struct{}{}
	}
	a.collocate = len(primaryAddrs) == len(workerAddrs)
	for addr := range primaryAddrs {
		if _, ok := workerAddrs[addr]; !ok {
			a.collocate = false
			break
		}
	}
}
