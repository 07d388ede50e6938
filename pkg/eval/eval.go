// Package eval computes a validated AST down to a float64, recording
// every reduction as an ordered calculation step.
//
// Evaluation is a post-order tree walk with IEEE-754 double semantics. It
// is pure: no I/O, no shared mutable state, and fully deterministic given
// the same AST and bindings, which is what makes proofs reproducible.
package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/funcs"
	"github.com/aindus-labs/veritas/pkg/token"
)

// ErrorKind classifies an evaluation failure.
type ErrorKind string

// Evaluation failure kinds.
const (
	DivisionByZero  ErrorKind = "division_by_zero"
	DomainViolation ErrorKind = "domain_error"
	Overflow        ErrorKind = "overflow"
)

// Error is an arithmetic failure during evaluation.
type Error struct {
	Kind   ErrorKind
	Pos    token.Position
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// RiskKind classifies a risk indicator collected for confidence scoring.
type RiskKind string

// Risk indicator kinds. The proof builder maps each kind to a penalty in
// its configured schedule.
const (
	RiskDomainEdge   RiskKind = "domain_edge"
	RiskCancellation RiskKind = "cancellation"
	RiskSmallDivisor RiskKind = "small_divisor"
)

// Risk is one risk indicator observed during evaluation.
type Risk struct {
	Kind   RiskKind
	Detail string
}

// Result is the outcome of a successful evaluation.
type Result struct {
	Value float64
	Steps []core.Step
	Risks []Risk
}

// cancellationRatio flags additions/subtractions whose result is this many
// orders of magnitude smaller than the larger operand.
const cancellationRatio = 1e-10

// smallDivisorThreshold flags divisions by magnitudes below this bound.
const smallDivisorThreshold = 1e-9

// Evaluator walks validated ASTs. It holds only the read-only function
// registry and is safe to share across concurrent calculations.
type Evaluator struct {
	registry *funcs.Registry
}

// New creates an evaluator over the given registry.
func New(registry *funcs.Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Evaluate reduces the AST to a value. The AST must already have passed
// static validation; an unknown name here is a programming error and is
// still reported, never silently coerced.
func (ev *Evaluator) Evaluate(expr core.Expr, bindings core.Bindings) (*Result, error) {
	run := &run{registry: ev.registry, bindings: bindings}
	value, err := run.eval(expr)
	if err != nil {
		return nil, err
	}
	return &Result{Value: value, Steps: run.steps, Risks: run.risks}, nil
}

// run is the per-calculation state: the step list and risk indicators
// being accumulated. A fresh run per call keeps the Evaluator itself
// stateless.
type run struct {
	registry *funcs.Registry
	bindings core.Bindings
	steps    []core.Step
	risks    []Risk
}

func (r *run) eval(expr core.Expr) (float64, error) {
	switch e := expr.(type) {
	case *core.NumberLit:
		return e.Value, nil

	case *core.VarRef:
		value, ok := r.bindings[e.Name]
		if !ok {
			return 0, &Error{
				Kind:   DomainViolation,
				Pos:    e.NamePos,
				Detail: fmt.Sprintf("variable %q has no binding", e.Name),
			}
		}
		return value, nil

	case *core.UnaryExpr:
		return r.evalUnary(e)

	case *core.BinaryExpr:
		return r.evalBinary(e)

	case *core.CallExpr:
		return r.evalCall(e)

	default:
		return 0, &Error{Kind: DomainViolation, Detail: fmt.Sprintf("unsupported node %T", expr)}
	}
}

func (r *run) evalUnary(e *core.UnaryExpr) (float64, error) {
	operand, err := r.eval(e.Operand)
	if err != nil {
		return 0, err
	}

	value := operand
	if e.Op == token.MINUS {
		value = -operand
	}

	r.addStep(fmt.Sprintf("%s(%s)", e.Op, core.FormatAnswer(operand)), value)
	return value, nil
}

func (r *run) evalBinary(e *core.BinaryExpr) (float64, error) {
	left, err := r.eval(e.Left)
	if err != nil {
		return 0, err
	}
	right, err := r.eval(e.Right)
	if err != nil {
		return 0, err
	}

	var value float64
	switch e.Op {
	case token.PLUS:
		value = left + right
		r.checkCancellation(left, right, value)
	case token.MINUS:
		value = left - right
		r.checkCancellation(left, -right, value)
	case token.STAR:
		value = left * right
	case token.SLASH:
		if right == 0 {
			return 0, &Error{
				Kind:   DivisionByZero,
				Pos:    e.Pos(),
				Detail: fmt.Sprintf("division of %s by zero", core.FormatAnswer(left)),
			}
		}
		if math.Abs(right) < smallDivisorThreshold {
			r.addRisk(RiskSmallDivisor, fmt.Sprintf("division by %s", core.FormatAnswer(right)))
		}
		value = left / right
	case token.CARET:
		value, err = funcs.Power(left, right)
		if err != nil {
			return 0, &Error{Kind: DomainViolation, Pos: e.Pos(), Detail: err.Error()}
		}
	default:
		return 0, &Error{Kind: DomainViolation, Pos: e.Pos(), Detail: fmt.Sprintf("unsupported operator %s", e.Op)}
	}

	if err := checkFinite(value, e.Pos()); err != nil {
		return 0, err
	}

	r.addStep(fmt.Sprintf("%s %s %s", core.FormatAnswer(left), e.Op, core.FormatAnswer(right)), value)
	return value, nil
}

func (r *run) evalCall(e *core.CallExpr) (float64, error) {
	fn, ok := r.registry.Lookup(e.Name)
	if !ok {
		return 0, &Error{
			Kind:   DomainViolation,
			Pos:    e.NamePos,
			Detail: fmt.Sprintf("function %q is not allowed", e.Name),
		}
	}

	args := make([]float64, len(e.Args))
	for i, argExpr := range e.Args {
		arg, err := r.eval(argExpr)
		if err != nil {
			return 0, err
		}
		args[i] = arg
	}

	if fn.NearDomainEdge != nil && fn.NearDomainEdge(args) {
		r.addRisk(RiskDomainEdge, fmt.Sprintf("%s near domain boundary", e.Name))
	}

	value, err := fn.Apply(args)
	if err != nil {
		return 0, &Error{Kind: DomainViolation, Pos: e.NamePos, Detail: err.Error()}
	}
	if err := checkFinite(value, e.NamePos); err != nil {
		return 0, err
	}

	r.addStep(describeCall(e.Name, args), value)
	return value, nil
}

// checkCancellation flags catastrophic cancellation: operands of opposite
// sign whose sum is many orders of magnitude smaller than either.
func (r *run) checkCancellation(a, b, sum float64) {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 || a == 0 || b == 0 {
		return
	}
	if math.Signbit(a) != math.Signbit(b) && math.Abs(sum) < larger*cancellationRatio {
		r.addRisk(RiskCancellation, fmt.Sprintf("near-total cancellation of %s and %s", core.FormatAnswer(a), core.FormatAnswer(b)))
	}
}

func (r *run) addStep(description string, value float64) {
	result := core.FormatAnswer(value)
	r.steps = append(r.steps, core.Step{
		Description: description + " = " + result,
		Result:      result,
	})
}

func (r *run) addRisk(kind RiskKind, detail string) {
	r.risks = append(r.risks, Risk{Kind: kind, Detail: detail})
}

func describeCall(name string, args []float64) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = core.FormatAnswer(arg)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// checkFinite converts a non-finite intermediate into an Overflow error.
func checkFinite(v float64, pos token.Position) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return &Error{Kind: Overflow, Pos: pos, Detail: "result is not a finite number"}
	}
	return nil
}
