package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// mirroring t.Chdir from newer Go versions.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "veritas", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	// Global flags
	for _, flag := range []string{"config", "max-depth", "max-nodes", "timeout-ms", "cache-size", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	// Subcommands
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"calc", "repl", "functions", "verify", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmdEndToEnd(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := NewRootCmd()
	var out, errW bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errW)
	cmd.SetArgs([]string{"calc", "2^10", "-o", "text"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "= 1024")
}

func TestRootCmdFlagOverridesLimit(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := NewRootCmd()
	var out, errW bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errW)
	cmd.SetArgs([]string{"calc", "1 + 2 + 3 + 4 + 5", "--max-nodes", "5", "-o", "text"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complexity_error")
}

func TestRootCmdVersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "veritas")
}
