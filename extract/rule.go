// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract pulls typed events out of a single raw log text. Each
// pattern lives behind a named rule so that log-format drift localizes to
// one rule and its test. Extraction is a pure function over the text and
// never consults any other log.
package extract // import "github.com/dagbench/benchparse/extract"

import (
	"regexp"
	"strconv"

	"github.com/dagbench/benchparse/event"
	"github.com/dagbench/benchparse/parseerrors"
	"github.com/dagbench/benchparse/timeparse"
)

// rule is one named extraction pattern.
type rule struct {
	name string
	re   *regexp.Regexp
}

func newRule(name, pattern string) rule {
	return rule{name: name, re: regexp.MustCompile(pattern)}
}

// one returns the capture groups of the first match. A missing match is a
// parsing contract violation: the field is guaranteed by the log format.
func (r rule) one(log string) ([]string, error) {
	m := r.re.FindStringSubmatch(log)
	if m == nil {
		return nil, parseerrors.NewError(
			"required pattern not found",
			"the log may be truncated or produced by an incompatible binary",
			"rule", r.name,
		)
	}
	return m[1:], nil
}

// all returns the capture groups of every match. Zero matches is a valid
// outcome for repeatable, optional patterns.
func (r rule) all(log string) [][]string {
	var out [][]string
	for _, m := range r.re.FindAllStringSubmatch(log, -1) {
		out = append(out, m[1:])
	}
	return out
}

func (r rule) count(log string) int {
	return len(r.re.FindAllStringIndex(log, -1))
}

func (r rule) matches(log string) bool {
	return r.re.MatchString(log)
}

// intField extracts a single required integer capture.
func (r rule) intField(log string) (int, error) {
	m, err := r.one(log)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(m[0])
	if err != nil {
		return 0, parseerrors.Wrap(err, r.name)
	}
	return n, nil
}

// floatField extracts a single required float capture.
func (r rule) floatField(log string) (float64, error) {
	m, err := r.one(log)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(m[0], 64)
	if err != nil {
		return 0, parseerrors.Wrap(err, r.name)
	}
	return f, nil
}

// timedDigests parses every (timestamp, digest) match of the rule and folds
// duplicate digests down to their earliest sighting within this one log.
func (r rule) timedDigests(log string) (map[event.Digest]float64, error) {
	var obs []event.Observation[event.Digest]
	for _, m := range r.all(log) {
		t, err := timeparse.ToEpoch(m[0])
		if err != nil {
			return nil, parseerrors.Wrap(err, r.name)
		}
		obs = append(obs, event.Observation[event.Digest]{Key: event.Digest(m[1]), Time: t})
	}
	return event.ReduceMin(obs), nil
}

// digestFloats parses every (digest, float) match into a scalar sample map.
func (r rule) digestFloats(log string) (map[event.Digest]float64, error) {
	out := make(map[event.Digest]float64)
	for _, m := range r.all(log) {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, parseerrors.Wrap(err, r.name)
		}
		out[event.Digest(m[0])] = f
	}
	return out, nil
}

// checkAlive fails when the log carries an abnormal-termination marker.
// A crashed process's log is not partially trusted: nothing else is parsed.
func checkAlive(marker rule, log, role string) error {
	if marker.matches(log) {
		return parseerrors.NewError(
			role+" log contains an abnormal termination marker",
			"the process crashed during the run; its capture cannot be trusted",
			"rule", marker.name,
		)
	}
	return nil
}
