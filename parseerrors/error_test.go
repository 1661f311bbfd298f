// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package parseerrors // import "github.com/dagbench/benchparse/parseerrors"

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	cases := []struct {
		name     string
		err      ParseError
		expected string
	}{
		{
			name:     "description only",
			err:      NewError("failed to parse", ""),
			expected: "failed to parse",
		},
		{
			name:     "with details",
			err:      NewError("required pattern not found", "", "rule", "client_rate"),
			expected: "required pattern not found: rule=client_rate",
		},
		{
			name:     "details are sorted",
			err:      NewError("boom", "", "z", "1", "a", "2"),
			expected: "boom: a=2, z=1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestWithDetails(t *testing.T) {
	err := NewError("failed", "").WithDetails("group", "clients")
	assert.Equal(t, "clients", err.Details["group"])

	plain := WithDetails(errors.New("plain"), "k", "v")
	assert.Equal(t, "plain", plain.Description)
	assert.Equal(t, "v", plain.Details["k"])
}

func TestWrap(t *testing.T) {
	inner := NewError("required pattern not found", "", "rule", "boot_address")
	wrapped := Wrap(inner, "failed to parse workers logs")
	assert.Equal(t, "failed to parse workers logs: required pattern not found", wrapped.Description)
	assert.Equal(t, "boot_address", wrapped.Details["rule"])

	plain := Wrap(fmt.Errorf("io error"), "reading log file")
	assert.Equal(t, "reading log file: io error", plain.Description)
}

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("outer: %w", NewError("inner", ""))

	var parseErr ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "inner", parseErr.Description)
}
