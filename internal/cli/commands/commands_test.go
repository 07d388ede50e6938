package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/aindus-labs/veritas/internal/config"
	"github.com/aindus-labs/veritas/internal/testutil"
	"github.com/aindus-labs/veritas/pkg/proof"
)

// testConfig returns a config with deterministic output for tests.
func testConfig() *config.Config {
	return &config.Config{
		MaxExpressionDepth: config.DefaultMaxExpressionDepth,
		MaxComplexity:      config.DefaultMaxComplexity,
		TimeoutMS:          5000,
		OutputFormat:       "text",
		Penalties:          proof.DefaultPenalties(),
	}
}

// execute runs a command with the given config and args, capturing output.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	var out, errW bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errW)
	cmd.SetArgs(args)

	ctx := context.WithValue(context.Background(), config.ConfigKey(), cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), testutil.NewTestLogger(t))

	err := cmd.ExecuteContext(ctx)
	return out.String(), errW.String(), err
}
