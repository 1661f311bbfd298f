// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package analyze // import "github.com/dagbench/benchparse/analyze"

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagbench/benchparse/parseerrors"
	"github.com/dagbench/benchparse/testutil"
)

func writeScenarioDir(t *testing.T) string {
	t.Helper()
	clients, primaries, workers := scenario(0)

	dir := t.TempDir()
	writeLogs := func(prefix string, logs []string) {
		for i, log := range logs {
			name := filepath.Join(dir, prefix+"-"+string(rune('0'+i))+".log")
			require.NoError(t, os.WriteFile(name, []byte(log), 0o600))
		}
	}
	writeLogs("client", clients)
	writeLogs("primary", primaries)
	writeLogs("worker", workers)

	// Unrelated files must be ignored by the name patterns.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o600))
	return dir
}

func TestFromDirectory(t *testing.T) {
	dir := writeScenarioDir(t)

	a, err := FromDirectory(dir, Options{
		ExecutionModel: Serial,
		Faults:         1,
		Logger:         testutil.Logger(t),
	})
	require.NoError(t, err)

	b := a.Metrics()
	assert.Equal(t, 3, b.CommitteeSize)
	assert.InDelta(t, 5.0, b.ConsensusTPS, 1e-9)
	assert.InDelta(t, 3200.0, b.EndToEndLatency, 1e-6)
}

func TestFromDirectoryEmpty(t *testing.T) {
	_, err := FromDirectory(t.TempDir(), Options{ExecutionModel: Serial})
	require.Error(t, err)

	var parseErr parseerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Description, "clients")
}

func TestPortsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	for i, port := range []string{"8058", "8059"} {
		log := testutil.Stamp(0) +
			" INFO primary: Consensus API gRPC Server listening on /ip4/10.0.0.1/tcp/" + port + "/http\n"
		name := filepath.Join(dir, "primary-"+string(rune('0'+i))+".log")
		require.NoError(t, os.WriteFile(name, []byte(log), 0o600))
	}

	ports, err := PortsFromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"8058", "8059"}, ports)
}
