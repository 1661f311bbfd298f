// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package extract // import "github.com/dagbench/benchparse/extract"

var grpcPortRule = newRule("consensus_api_port",
	`Consensus API gRPC Server listening on /ip4/.+/tcp/(.+)/http`)

// ParsePort recovers the announced consensus API gRPC listening port from
// one primary log. This is the companion extractor used independently of
// the full analysis; it shares the same failure contract.
func ParsePort(log string) (string, error) {
	m, err := grpcPortRule.one(log)
	if err != nil {
		return "", err
	}
	return m[0], nil
}
