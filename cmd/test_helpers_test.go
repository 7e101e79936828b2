package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/trace"
)

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeCoreLogs creates one log per core in a temp dir. Core c holds n
// alternating 1ms/2ms I/Os on timestamps c, c+cores, c+2*cores, ...
func writeCoreLogs(t *testing.T, numCores, n int) string {
	t.Helper()
	dir := t.TempDir()
	for c := 0; c < numCores; c++ {
		events := make([]sim.IOEvent, n)
		for i := range events {
			io := int64(1_000_000)
			if i%2 == 1 {
				io = 2_000_000
			}
			events[i] = sim.IOEvent{IOTime: io, Timestamp: int64(c + i*numCores)}
		}
		require.NoError(t, trace.SaveCoreLog(trace.CoreLogPath(dir, c), events))
	}
	return dir
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
