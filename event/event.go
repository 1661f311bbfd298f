// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

// Package event holds the keyed observation types shared by every stage of
// the log analysis pipeline, and the reconciliation primitives that collapse
// duplicate observations of the same logical event into one canonical record.
package event // import "github.com/dagbench/benchparse/event"

import "cmp"

// Digest is an opaque content-addressed identifier naming a batch or a
// certificate. It is never interpreted; equality is exact string match.
type Digest string

// Observation is a single timed sighting of a keyed event in one log.
// The same key may be observed many times across lines and processes.
type Observation[K comparable] struct {
	Key  K
	Time float64
}

// ReduceMin folds a list of observations into a map holding the earliest
// time seen for each key. Keys never observed are simply absent.
func ReduceMin[K comparable](obs []Observation[K]) map[K]float64 {
	out := make(map[K]float64, len(obs))
	for _, o := range obs {
		if t, ok := out[o.Key]; !ok || o.Time < t {
			out[o.Key] = o.Time
		}
	}
	return out
}

// MergeMin merges per-log event maps, keeping the minimum value for each
// key. The earliest observation of an event is closest to the true event
// time; later sightings are redundant re-logging by other nodes. The merge
// is associative, commutative and idempotent, so input order is irrelevant.
func MergeMin[K comparable, V cmp.Ordered](maps ...map[K]V) map[K]V {
	merged := make(map[K]V)
	for _, m := range maps {
		for k, v := range m {
			if cur, ok := merged[k]; !ok || v < cur {
				merged[k] = v
			}
		}
	}
	return merged
}

// Union merges maps with later inputs overwriting earlier ones. Used for
// per-key scalar samples (latencies, sizes) where each key is reported by
// exactly one process and duplicates carry the same value.
func Union[K comparable, V any](maps ...map[K]V) map[K]V {
	merged := make(map[K]V)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
