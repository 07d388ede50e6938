package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/veritas"
)

// CalcOptions holds options for the calc command.
type CalcOptions struct {
	Vars  []string
	Proof bool
	Level string
}

// NewCalcCommand creates the calc command.
func NewCalcCommand() *cobra.Command {
	opts := &CalcOptions{}

	cmd := &cobra.Command{
		Use:   "calc <expression>",
		Short: "Evaluate an expression",
		Long: `Evaluate an arithmetic expression inside the sandboxed grammar.

Variables are bound with repeated --var flags. With --proof, the response
carries the ordered step list, a confidence score, and the verification
hash.`,
		Example: `  # Simple arithmetic
  veritas calc "2^10"

  # Variables
  veritas calc "radius^2 * 3.14159" --var radius=5

  # Full calculation proof
  veritas calc "sqrt(16) + 2" --proof

  # Stricter verification level
  veritas calc "sqrt(x)" --var x=2 --proof --level maximum

  # JSON output for scripting
  veritas calc "1/3" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "Variable binding as name=value (repeatable)")
	cmd.Flags().BoolVarP(&opts.Proof, "proof", "p", false, "Attach a calculation proof")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "Verification level: standard, high, maximum")

	_ = cmd.RegisterFlagCompletionFunc("level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"standard", "high", "maximum"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCalc(cmd *cobra.Command, query string, opts *CalcOptions) error {
	cmdCtx := NewCommandContext(cmd)

	bindings, err := ParseBindings(opts.Vars)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout := cmdCtx.Cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := cmdCtx.Calculator.Calculate(ctx, veritas.Request{
		Query:             query,
		Variables:         bindings,
		EnableProofs:      opts.Proof,
		VerificationLevel: opts.Level,
	})
	if err != nil {
		return err
	}

	return cmdCtx.Renderer.Result(query, resp)
}

// ParseBindings parses repeated name=value flags into bindings.
func ParseBindings(pairs []string) (core.Bindings, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	bindings := make(core.Bindings, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q (want name=value)", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for variable %q: %q is not a number", name, raw)
		}
		bindings[name] = value
	}
	return bindings, nil
}
