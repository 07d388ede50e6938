// Package core defines the shared language of the VERITAS engine.
//
// This package contains:
//   - The closed expression AST (NumberLit, VarRef, UnaryExpr, BinaryExpr, CallExpr)
//   - Calculation artifacts (Step, Proof, Response boundary values)
//   - Verification levels and complexity limits
//   - The error taxonomy surfaced at the calculation boundary
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
//
// The AST node set is intentionally closed. There is no node that denotes
// "call arbitrary code": an evaluator over these five variants is a total
// function, which is the structural replacement for the eval() path this
// engine was built to eliminate.
package core
