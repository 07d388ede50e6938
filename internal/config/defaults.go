package config

// Default configuration values.
const (
	DefaultMaxExpressionDepth = 100
	DefaultMaxComplexity      = 1000
	DefaultTimeoutMS          = 30000
	DefaultCacheSize          = 0      // caching off unless configured
	DefaultOutput             = "auto" // auto-detect: TTY=table, non-TTY=markdown
)
