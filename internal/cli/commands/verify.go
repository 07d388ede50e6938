package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aindus-labs/veritas/internal/cli/output"
	"github.com/aindus-labs/veritas/pkg/veritas"
)

// VerifyOptions holds options for the verify command.
type VerifyOptions struct {
	Vars  []string
	Level string
	Runs  int
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify <expression>",
		Short: "Re-run a calculation and compare verification hashes",
		Long: `Evaluate the same expression several times in parallel and compare the
verification hashes. Matching hashes demonstrate the calculation is
deterministic end to end: same normalized query, same steps, same result.`,
		Example: `  veritas verify "sqrt(x) * log(y)" --var x=2 --var y=9
  veritas verify "2^10" --runs 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "Variable binding as name=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "Verification level: standard, high, maximum")
	cmd.Flags().IntVar(&opts.Runs, "runs", 3, "Number of independent evaluations")

	return cmd
}

// verifyReport is the JSON shape of a verification outcome.
type verifyReport struct {
	Query      string `json:"query"`
	Runs       int    `json:"runs"`
	Hash       string `json:"verification_hash"`
	Consistent bool   `json:"consistent"`
}

func runVerify(cmd *cobra.Command, query string, opts *VerifyOptions) error {
	cmdCtx := NewCommandContext(cmd)

	bindings, err := ParseBindings(opts.Vars)
	if err != nil {
		return err
	}
	if opts.Runs < 2 {
		return fmt.Errorf("--runs must be at least 2, got %d", opts.Runs)
	}

	ctx := cmd.Context()
	if timeout := cmdCtx.Cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Runs must be independent evaluations, never cache replays.
	calculator := newCalculator(cmdCtx.Cfg, cmdCtx.Logger, 0)

	hashes := make([]string, opts.Runs)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Runs; i++ {
		i := i
		g.Go(func() error {
			resp, err := calculator.Calculate(gctx, veritas.Request{
				Query:             query,
				Variables:         bindings,
				EnableProofs:      true,
				VerificationLevel: opts.Level,
			})
			if err != nil {
				return err
			}
			hashes[i] = resp.Proof.VerificationHash
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	consistent := true
	for _, hash := range hashes[1:] {
		if hash != hashes[0] {
			consistent = false
			break
		}
	}

	if cmdCtx.Renderer.Mode() == output.ModeJSON {
		if err := cmdCtx.Renderer.JSON(verifyReport{
			Query:      query,
			Runs:       opts.Runs,
			Hash:       hashes[0],
			Consistent: consistent,
		}); err != nil {
			return err
		}
	} else if consistent {
		cmdCtx.Renderer.Printf("verified: %d runs produced identical hash %s\n", opts.Runs, hashes[0])
	}

	if !consistent {
		return fmt.Errorf("verification failed: runs produced differing hashes")
	}
	return nil
}
