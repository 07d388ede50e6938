package core

import (
	"fmt"
	"strconv"
)

// VerificationLevel selects how strictly a calculation is checked.
// Higher levels tighten complexity limits and run extra validation passes.
type VerificationLevel int

// Verification levels, from least to most strict.
const (
	LevelStandard VerificationLevel = iota
	LevelHigh
	LevelMaximum
)

// String returns the wire name of the level.
func (l VerificationLevel) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMaximum:
		return "maximum"
	default:
		return "standard"
	}
}

// ParseLevel converts a wire name into a VerificationLevel.
func ParseLevel(s string) (VerificationLevel, error) {
	switch s {
	case "", "standard":
		return LevelStandard, nil
	case "high":
		return LevelHigh, nil
	case "maximum":
		return LevelMaximum, nil
	default:
		return LevelStandard, fmt.Errorf("unknown verification level %q", s)
	}
}

// Limits holds the complexity bounds enforced before evaluation.
// Values are externally supplied configuration, never hard-coded in the
// evaluator itself.
type Limits struct {
	MaxDepth int // maximum AST depth
	MaxNodes int // maximum AST node count
}

// ForLevel returns the limits tightened for the given verification level.
// Standard keeps the configured bounds; high halves them; maximum quarters
// them. A bound never drops below 1.
func (lim Limits) ForLevel(level VerificationLevel) Limits {
	div := 1
	switch level {
	case LevelHigh:
		div = 2
	case LevelMaximum:
		div = 4
	}
	out := Limits{MaxDepth: lim.MaxDepth / div, MaxNodes: lim.MaxNodes / div}
	if out.MaxDepth < 1 {
		out.MaxDepth = 1
	}
	if out.MaxNodes < 1 {
		out.MaxNodes = 1
	}
	return out
}

// Bindings maps variable names to their numeric values. Keys are
// case-sensitive; the map is read-only during evaluation.
type Bindings map[string]float64

// Step records a single reduction performed by the evaluator.
// Steps are append-only and ordered by evaluation order.
type Step struct {
	Description string `json:"step"`
	Result      string `json:"result"`
}

// Proof is the audit artifact attached to a calculation.
// It is created once per calculation and immutable thereafter.
type Proof struct {
	ProofID          string  `json:"proof_id"`
	Steps            []Step  `json:"calculation_steps"`
	ConfidenceScore  float64 `json:"confidence_score"`
	VerificationHash string  `json:"verification_hash"`
}

// FormatNumber renders a float64 the way the engine renders all numeric
// output: shortest representation that round-trips. Every component that
// prints a number (steps, answers, canonical hashing input) goes through
// this so that the same value always has the same text.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

// FormatAnswer renders a result for display. Unlike FormatNumber it prefers
// the shortest exact form ("1024" rather than a 17-digit expansion).
func FormatAnswer(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
