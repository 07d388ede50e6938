package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCommand(t *testing.T) {
	out, _, err := execute(t, NewVerifyCommand(), testConfig(),
		"sqrt(x) * log(y)", "--var", "x=2", "--var", "y=9")
	require.NoError(t, err)
	assert.Contains(t, out, "verified: 3 runs produced identical hash")
}

func TestVerifyCommandCustomRuns(t *testing.T) {
	out, _, err := execute(t, NewVerifyCommand(), testConfig(), "2^10", "--runs", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "verified: 10 runs")
}

func TestVerifyCommandJSONOutput(t *testing.T) {
	cfg := testConfig()
	cfg.OutputFormat = "json"

	out, _, err := execute(t, NewVerifyCommand(), cfg, "2^10")
	require.NoError(t, err)

	var report struct {
		Query      string `json:"query"`
		Runs       int    `json:"runs"`
		Hash       string `json:"verification_hash"`
		Consistent bool   `json:"consistent"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2^10", report.Query)
	assert.Equal(t, 3, report.Runs)
	assert.Len(t, report.Hash, 64)
	assert.True(t, report.Consistent)
}

func TestVerifyCommandTooFewRuns(t *testing.T) {
	_, _, err := execute(t, NewVerifyCommand(), testConfig(), "1 + 1", "--runs", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")
}

func TestVerifyCommandFailingExpression(t *testing.T) {
	_, _, err := execute(t, NewVerifyCommand(), testConfig(), "1/0")
	require.Error(t, err)
}

func TestVerifyCommandMetadata(t *testing.T) {
	cmd := NewVerifyCommand()

	assert.Equal(t, "verify <expression>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)

	for _, flag := range []string{"var", "level", "runs"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}
