// Package validate implements the static pre-evaluation checks.
//
// The validator walks a parsed AST and enforces the complexity bounds and
// name resolution rules before any arithmetic happens. Running strictly
// before the evaluator means resource limits are applied without doing
// partial computation, which closes both the injection and the
// algorithmic-complexity denial-of-service paths.
package validate

import (
	"fmt"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/funcs"
	"github.com/aindus-labs/veritas/pkg/token"
)

// ComplexityKind names the bound an expression exceeded.
type ComplexityKind string

// Complexity bound kinds.
const (
	ComplexityDepth ComplexityKind = "depth"
	ComplexityNodes ComplexityKind = "nodes"
)

// ComplexityError reports an expression exceeding a configured bound.
type ComplexityError struct {
	Kind   ComplexityKind
	Limit  int
	Actual int
}

func (e *ComplexityError) Error() string {
	return fmt.Sprintf("expression %s %d exceeds limit %d", e.Kind, e.Actual, e.Limit)
}

// NameKind distinguishes the two name spaces a query can reference.
type NameKind string

// Name kinds.
const (
	NameFunction NameKind = "function"
	NameVariable NameKind = "variable"
)

// UnknownNameError reports a reference to a name outside the allowed set:
// a function not in the registry, a function called with the wrong number
// of arguments, or a variable with no binding.
type UnknownNameError struct {
	Kind   NameKind
	Name   string
	Pos    token.Position
	Reason string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("%s %q at line %d, column %d %s",
		e.Kind, e.Name, e.Pos.Line, e.Pos.Column, e.Reason)
}

// Validator holds the read-only context a validation pass runs against.
type Validator struct {
	registry *funcs.Registry
	limits   core.Limits
}

// New creates a validator for the given registry and limits. The limits
// should already be tightened for the calculation's verification level.
func New(registry *funcs.Registry, limits core.Limits) *Validator {
	return &Validator{registry: registry, limits: limits}
}

// Validate checks the AST against the complexity bounds and confirms every
// function and variable reference resolves. On success the AST is returned
// unchanged; the validator never rewrites it.
func (v *Validator) Validate(expr core.Expr, bindings core.Bindings) (core.Expr, error) {
	depth, nodes := Measure(expr)
	if depth > v.limits.MaxDepth {
		return nil, &ComplexityError{Kind: ComplexityDepth, Limit: v.limits.MaxDepth, Actual: depth}
	}
	if nodes > v.limits.MaxNodes {
		return nil, &ComplexityError{Kind: ComplexityNodes, Limit: v.limits.MaxNodes, Actual: nodes}
	}

	if err := v.checkNames(expr, bindings); err != nil {
		return nil, err
	}
	return expr, nil
}

// CheckNesting enforces the depth bound against the parser's observed
// syntactic nesting. Parentheses group without adding AST nodes, so a
// parenthesis bomb is only visible here.
func (v *Validator) CheckNesting(depth int) error {
	if depth > v.limits.MaxDepth {
		return &ComplexityError{Kind: ComplexityDepth, Limit: v.limits.MaxDepth, Actual: depth}
	}
	return nil
}

// Measure returns the depth and node count of the tree.
func Measure(expr core.Expr) (depth, nodes int) {
	switch e := expr.(type) {
	case *core.NumberLit, *core.VarRef:
		return 1, 1
	case *core.UnaryExpr:
		d, n := Measure(e.Operand)
		return d + 1, n + 1
	case *core.BinaryExpr:
		ld, ln := Measure(e.Left)
		rd, rn := Measure(e.Right)
		return max(ld, rd) + 1, ln + rn + 1
	case *core.CallExpr:
		maxChild := 0
		total := 0
		for _, arg := range e.Args {
			d, n := Measure(arg)
			maxChild = max(maxChild, d)
			total += n
		}
		return maxChild + 1, total + 1
	default:
		return 1, 1
	}
}

// checkNames confirms every CallExpr resolves in the registry with the
// right arity and every VarRef resolves in the bindings.
func (v *Validator) checkNames(expr core.Expr, bindings core.Bindings) error {
	switch e := expr.(type) {
	case *core.NumberLit:
		return nil

	case *core.VarRef:
		if _, ok := bindings[e.Name]; !ok {
			return &UnknownNameError{
				Kind:   NameVariable,
				Name:   e.Name,
				Pos:    e.NamePos,
				Reason: "has no binding",
			}
		}
		return nil

	case *core.UnaryExpr:
		return v.checkNames(e.Operand, bindings)

	case *core.BinaryExpr:
		if err := v.checkNames(e.Left, bindings); err != nil {
			return err
		}
		return v.checkNames(e.Right, bindings)

	case *core.CallExpr:
		fn, ok := v.registry.Lookup(e.Name)
		if !ok {
			return &UnknownNameError{
				Kind:   NameFunction,
				Name:   e.Name,
				Pos:    e.NamePos,
				Reason: "is not an allowed function",
			}
		}
		if len(e.Args) != fn.Arity {
			return &UnknownNameError{
				Kind:   NameFunction,
				Name:   e.Name,
				Pos:    e.NamePos,
				Reason: fmt.Sprintf("expects %d argument(s), got %d", fn.Arity, len(e.Args)),
			}
		}
		for _, arg := range e.Args {
			if err := v.checkNames(arg, bindings); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported node %T", expr)
	}
}
