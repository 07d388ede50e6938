// Package config provides configuration for the veritas CLI and engine.
//
// Configuration is layered: built-in defaults, then a veritas.yaml config
// file (searched upward from the working directory), then VERITAS_-prefixed
// environment variables, then command-line flags. Later layers win.
package config

import (
	"time"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/proof"
)

// Config holds all configuration options.
type Config struct {
	MaxExpressionDepth int                   `koanf:"max_expression_depth"`
	MaxComplexity      int                   `koanf:"max_complexity"`
	TimeoutMS          int                   `koanf:"timeout_ms"`
	CacheSize          int                   `koanf:"cache_size"`
	OutputFormat       string                `koanf:"output"`
	Verbose            bool                  `koanf:"verbose"`
	DisabledFunctions  []string              `koanf:"disabled_functions"`
	Penalties          proof.PenaltySchedule `koanf:"penalties"`
}

// Limits returns the complexity bounds for standard verification.
func (c *Config) Limits() core.Limits {
	return core.Limits{
		MaxDepth: c.MaxExpressionDepth,
		MaxNodes: c.MaxComplexity,
	}
}

// Timeout returns the per-calculation deadline. Zero or negative means
// no deadline.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
