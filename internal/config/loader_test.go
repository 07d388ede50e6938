package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
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

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxExpressionDepth, cfg.MaxExpressionDepth)
	assert.Equal(t, DefaultMaxComplexity, cfg.MaxComplexity)
	assert.Equal(t, DefaultTimeoutMS, cfg.TimeoutMS)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.DisabledFunctions)
	assert.Equal(t, 0.10, cfg.Penalties.DomainEdge)
	assert.Equal(t, 0.05, cfg.Penalties.SmallDivisor)
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ConfigFileName)
	content := []byte(`
max_expression_depth: 50
max_complexity: 200
timeout_ms: 5000
cache_size: 64
verbose: true
disabled_functions:
  - tan
  - asin
penalties:
  domain_edge: 0.25
`)
	require.NoError(t, os.WriteFile(cfgPath, content, 0o644))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MaxExpressionDepth)
	assert.Equal(t, 200, cfg.MaxComplexity)
	assert.Equal(t, 5000, cfg.TimeoutMS)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"tan", "asin"}, cfg.DisabledFunctions)
	assert.Equal(t, 0.25, cfg.Penalties.DomainEdge)
	// Unset penalty keys keep their defaults
	assert.Equal(t, 0.10, cfg.Penalties.Cancellation)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfigFileSearchedUpward(t *testing.T) {
	ResetConfig()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName),
		[]byte("max_complexity: 77\n"), 0o644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.MaxComplexity)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("timeout_ms: 5000\n"), 0o644))

	t.Setenv("VERITAS_TIMEOUT_MS", "250")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.TimeoutMS)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())
	t.Setenv("VERITAS_MAX_COMPLEXITY", "500")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-nodes", 0, "")
	flags.Int("max-depth", 0, "")
	require.NoError(t, flags.Parse([]string{"--max-nodes=42", "--max-depth=7"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxComplexity)
	assert.Equal(t, 7, cfg.MaxExpressionDepth)
}

func TestLoadConfigUnchangedFlagsIgnored(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-nodes", 99, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxComplexity, cfg.MaxComplexity)
}

func TestConfigLimitsAndTimeout(t *testing.T) {
	cfg := &Config{MaxExpressionDepth: 10, MaxComplexity: 20, TimeoutMS: 1500}

	limits := cfg.Limits()
	assert.Equal(t, 10, limits.MaxDepth)
	assert.Equal(t, 20, limits.MaxNodes)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())

	cfg.TimeoutMS = 0
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}
