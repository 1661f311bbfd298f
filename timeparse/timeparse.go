// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

// Package timeparse converts the leading timestamp token of a log line into
// a canonical floating-point epoch value.
package timeparse // import "github.com/dagbench/benchparse/timeparse"

import (
	"time"

	"github.com/dagbench/benchparse/parseerrors"
)

// prefixLen is the fixed width of the timestamp prefix considered for
// parsing. Nodes log with sub-microsecond precision; anything beyond this
// width carries no information the analysis needs.
const prefixLen = 24

// layouts are tried in order. The first covers the 24-byte truncation of a
// microsecond-precision RFC 3339 timestamp, the rest cover the coarser
// formats seen across node and client binaries.
var layouts = []string{
	"2006-01-02T15:04:05.0000",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"2006-01-02 15:04:05.000",
}

// ToEpoch parses the fixed-width prefix of a leading timestamp token,
// interprets it as UTC and returns epoch seconds. Parsing is deterministic
// and order-preserving for timestamps written by a single process.
func ToEpoch(token string) (float64, error) {
	s := token
	if len(s) > prefixLen {
		s = s[:prefixLen]
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		return float64(t.UnixNano()) / float64(time.Second), nil
	}

	return 0, parseerrors.NewError(
		"unrecognized timestamp",
		"expected an RFC 3339 style timestamp at the start of the log line",
		"token", s,
	)
}
