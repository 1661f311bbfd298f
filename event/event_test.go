// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package event // import "github.com/dagbench/benchparse/event"

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceMin(t *testing.T) {
	obs := []Observation[Digest]{
		{Key: "D1=", Time: 10.5},
		{Key: "D1=", Time: 10.1},
		{Key: "D2=", Time: 11.0},
		{Key: "D1=", Time: 10.9},
	}

	got := ReduceMin(obs)
	require.Len(t, got, 2)
	assert.Equal(t, 10.1, got["D1="])
	assert.Equal(t, 11.0, got["D2="])
}

func TestReduceMinEmpty(t *testing.T) {
	got := ReduceMin[Digest](nil)
	assert.Empty(t, got)
}

func TestMergeMinKeepsEarliest(t *testing.T) {
	// Two primaries log the same commit; the earliest sighting wins.
	a := map[Digest]float64{"D1=": 100.100}
	b := map[Digest]float64{"D1=": 100.050}

	got := MergeMin(a, b)
	assert.Equal(t, map[Digest]float64{"D1=": 100.050}, got)
}

func TestMergeMinCommutative(t *testing.T) {
	a := map[Digest]float64{"D1=": 1.5, "D2=": 3.0}
	b := map[Digest]float64{"D1=": 2.5, "D3=": 0.5}

	assert.Equal(t, MergeMin(a, b), MergeMin(b, a))
}

func TestMergeMinIdempotent(t *testing.T) {
	a := map[Digest]float64{"D1=": 1.5, "D2=": 3.0}

	assert.Equal(t, MergeMin(a), MergeMin(a, a))
}

func TestMergeMinAbsentKeysStayAbsent(t *testing.T) {
	got := MergeMin(map[Digest]float64{}, map[Digest]float64{"D1=": 4.2})
	_, ok := got["D2="]
	assert.False(t, ok)
	assert.Len(t, got, 1)
}

func TestMergeMinInts(t *testing.T) {
	a := map[int]int{0: 5, 1: 7}
	b := map[int]int{1: 6, 2: 9}

	got := MergeMin(a, b)
	assert.Equal(t, map[int]int{0: 5, 1: 6, 2: 9}, got)
}

func TestUnionLastWins(t *testing.T) {
	a := map[Digest]float64{"D1=": 1.0, "D2=": 2.0}
	b := map[Digest]float64{"D2=": 5.0}

	got := Union(a, b)
	assert.Equal(t, map[Digest]float64{"D1=": 1.0, "D2=": 5.0}, got)
}
