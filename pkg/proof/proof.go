// Package proof assembles the audit artifact for a calculation: the
// ordered step list, a confidence score derived from an explicit penalty
// schedule, and a verification hash binding inputs and steps to the
// result.
package proof

import (
	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/eval"
	"github.com/google/uuid"
)

// PenaltySchedule maps risk indicators to confidence deductions. The
// schedule is configuration, not a hidden heuristic: every deduction a
// proof can carry is listed here and is unit-testable in isolation.
type PenaltySchedule struct {
	DomainEdge     float64 `koanf:"domain_edge"`
	Cancellation   float64 `koanf:"cancellation"`
	SmallDivisor   float64 `koanf:"small_divisor"`
	DeepExpression float64 `koanf:"deep_expression"`
}

// DefaultPenalties returns the stock schedule.
func DefaultPenalties() PenaltySchedule {
	return PenaltySchedule{
		DomainEdge:     0.10,
		Cancellation:   0.10,
		SmallDivisor:   0.05,
		DeepExpression: 0.05,
	}
}

// Input carries everything a proof is computed from.
type Input struct {
	NormalizedQuery string
	Bindings        core.Bindings
	Steps           []core.Step
	Result          float64
	Risks           []eval.Risk

	// Depth and MaxDepth let the builder apply the deep-expression
	// penalty: trees deeper than half the configured bound are close
	// enough to the limit to deserve reduced confidence.
	Depth    int
	MaxDepth int
}

// Builder computes proofs under a fixed penalty schedule.
type Builder struct {
	penalties PenaltySchedule
}

// NewBuilder creates a Builder with the given schedule.
func NewBuilder(penalties PenaltySchedule) *Builder {
	return &Builder{penalties: penalties}
}

// Build assembles the proof. The verification hash is a pure function of
// the input; only the proof ID is freshly generated.
func (b *Builder) Build(in Input) *core.Proof {
	return &core.Proof{
		ProofID:          uuid.NewString(),
		Steps:            in.Steps,
		ConfidenceScore:  b.confidence(in),
		VerificationHash: Hash(in.NormalizedQuery, in.Bindings, in.Steps, in.Result),
	}
}

// confidence starts at 1.0 and subtracts one penalty per risk indicator,
// plus the deep-expression penalty when the tree is more than half as deep
// as the configured bound. The result is clamped to [0, 1].
func (b *Builder) confidence(in Input) float64 {
	score := 1.0

	for _, risk := range in.Risks {
		switch risk.Kind {
		case eval.RiskDomainEdge:
			score -= b.penalties.DomainEdge
		case eval.RiskCancellation:
			score -= b.penalties.Cancellation
		case eval.RiskSmallDivisor:
			score -= b.penalties.SmallDivisor
		}
	}

	if in.MaxDepth > 0 && in.Depth > in.MaxDepth/2 {
		score -= b.penalties.DeepExpression
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
