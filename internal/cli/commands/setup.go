// Package commands implements the veritas subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aindus-labs/veritas/internal/cli/output"
	"github.com/aindus-labs/veritas/internal/config"
	"github.com/aindus-labs/veritas/pkg/funcs"
	"github.com/aindus-labs/veritas/pkg/veritas"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Calculator *veritas.Calculator
	Renderer   *output.Renderer
}

// NewCommandContext assembles the calculator and renderer from the loaded
// configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:        cfg,
		Logger:     logger,
		Calculator: newCalculator(cfg, logger, cfg.CacheSize),
		Renderer:   r,
	}
}

// newCalculator builds a calculator from configuration. cacheSize is
// passed separately so commands that need independent evaluations (verify)
// can turn caching off.
func newCalculator(cfg *config.Config, logger *slog.Logger, cacheSize int) *veritas.Calculator {
	registry := funcs.Default()
	if len(cfg.DisabledFunctions) > 0 {
		registry = registry.WithoutNames(cfg.DisabledFunctions)
	}

	return veritas.New(
		veritas.WithRegistry(registry),
		veritas.WithLimits(cfg.Limits()),
		veritas.WithPenalties(cfg.Penalties),
		veritas.WithLogger(logger),
		veritas.WithCache(cacheSize),
	)
}
